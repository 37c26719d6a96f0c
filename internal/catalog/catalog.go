// Package catalog holds the immutable list of tools the server exposes and
// the advisory argument validator built on their parameter declarations.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrToolNotFound is returned by Find for names absent from the catalog.
var ErrToolNotFound = errors.New("tool not found")

// ParamType is the primitive JSON type of a tool parameter.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
)

func (t ParamType) valid() bool {
	return t == TypeString || t == TypeNumber || t == TypeBoolean
}

// Parameter describes one named argument of a tool.
type Parameter struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Default     interface{}
	Enum        []string
}

// ToolDescriptor is the public description of a tool.
type ToolDescriptor struct {
	Name        string
	Description string
	Parameters  []Parameter
	InputSchema json.RawMessage
}

// RequiredParams returns the names of the required parameters, in order.
func (d ToolDescriptor) RequiredParams() []string {
	out := []string{}
	for _, p := range d.Parameters {
		if p.Required {
			out = append(out, p.Name)
		}
	}
	return out
}

// Param looks up a declared parameter by name.
func (d ToolDescriptor) Param(name string) (Parameter, bool) {
	for _, p := range d.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// Definition declares a tool. Params is a struct value whose exported,
// json-tagged fields become the tool's parameters; fields without omitempty
// are required. The description and default struct tags are honoured.
type Definition struct {
	Name        string
	Description string
	Params      interface{}
}

// Catalog is an ordered, read-only set of tool descriptors.
type Catalog struct {
	tools []ToolDescriptor
	index map[string]int
}

// New builds a catalog, rejecting empty or duplicate tool names.
func New(defs ...Definition) (*Catalog, error) {
	c := &Catalog{
		tools: make([]ToolDescriptor, 0, len(defs)),
		index: make(map[string]int, len(defs)),
	}
	for _, def := range defs {
		if def.Name == "" {
			return nil, errors.New("tool definition must include a name")
		}
		if _, exists := c.index[def.Name]; exists {
			return nil, fmt.Errorf("tool with name '%s' already registered", def.Name)
		}
		params, schema, err := reflectParameters(def.Params)
		if err != nil {
			return nil, fmt.Errorf("could not generate schema for tool '%s': %w", def.Name, err)
		}
		c.index[def.Name] = len(c.tools)
		c.tools = append(c.tools, ToolDescriptor{
			Name:        def.Name,
			Description: def.Description,
			Parameters:  params,
			InputSchema: schema,
		})
	}
	return c, nil
}

// List returns every descriptor in declaration order. The slice is a copy.
func (c *Catalog) List() []ToolDescriptor {
	out := make([]ToolDescriptor, len(c.tools))
	copy(out, c.tools)
	return out
}

// Names returns the tool names in declaration order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.tools))
	for i, t := range c.tools {
		out[i] = t.Name
	}
	return out
}

// Len returns the number of tools.
func (c *Catalog) Len() int { return len(c.tools) }

// Find returns the descriptor with the given name.
func (c *Catalog) Find(name string) (ToolDescriptor, error) {
	i, ok := c.index[name]
	if !ok {
		return ToolDescriptor{}, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return c.tools[i], nil
}
