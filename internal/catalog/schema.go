package catalog

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"
)

// reflectParameters uses reflection to build the JSON schema and the ordered
// parameter list for a tool's parameter struct.
func reflectParameters(params interface{}) ([]Parameter, json.RawMessage, error) {
	t := reflect.TypeOf(params)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	// Tools without a parameter struct take no arguments.
	if t == nil || t.Kind() != reflect.Struct {
		return nil, json.RawMessage(`{"type":"object","properties":{}}`), nil
	}

	// Step 1: Generate the base schema without references. Undeclared
	// arguments are tolerated, so additional properties stay open.
	reflector := &jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(reflect.New(t).Interface())
	schema.Version = ""
	schema.ID = ""

	// Step 2: Apply description and default tags, which the jsonschema
	// library does not read.
	if schema.Properties != nil {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			name := jsonName(field)
			if name == "" {
				continue
			}
			prop, ok := schema.Properties.Get(name)
			if !ok {
				continue
			}
			if desc := field.Tag.Get("description"); desc != "" {
				prop.Description = desc
			}
			if def, ok := field.Tag.Lookup("default"); ok {
				v, err := parseDefault(ParamType(prop.Type), def)
				if err != nil {
					return nil, nil, fmt.Errorf("field %s: %w", field.Name, err)
				}
				prop.Default = v
			}
		}
	}

	// Step 3: Flatten the properties, in declaration order, into parameters.
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}
	var out []Parameter
	if schema.Properties != nil {
		for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
			prop := pair.Value
			typ := ParamType(prop.Type)
			if !typ.valid() {
				return nil, nil, fmt.Errorf("parameter %s: unsupported type %q", pair.Key, prop.Type)
			}
			p := Parameter{
				Name:        pair.Key,
				Type:        typ,
				Description: prop.Description,
				Required:    required[pair.Key],
				Default:     prop.Default,
			}
			for _, e := range prop.Enum {
				p.Enum = append(p.Enum, fmt.Sprint(e))
			}
			out = append(out, p)
		}
	}

	// Step 4: Marshal the final, modified schema into JSON.
	schemaBytes, err := json.Marshal(schema)
	if err != nil {
		return nil, nil, err
	}
	return out, json.RawMessage(schemaBytes), nil
}

func jsonName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "-" || !field.IsExported() {
		return ""
	}
	if name := strings.Split(tag, ",")[0]; name != "" {
		return name
	}
	return field.Name
}

func parseDefault(typ ParamType, raw string) (interface{}, error) {
	switch typ {
	case TypeString:
		return raw, nil
	case TypeNumber:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("default %q is not a number", raw)
		}
		return f, nil
	case TypeBoolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("default %q is not a boolean", raw)
		}
		return b, nil
	}
	return nil, fmt.Errorf("no default allowed for type %q", typ)
}
