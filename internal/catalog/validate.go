package catalog

import "encoding/json"

// Validate reports whether args satisfy the declared parameters of the named
// tool: every required parameter is present and every declared parameter that
// is present has the declared primitive type. Undeclared keys are ignored.
//
// The check is advisory. Handlers still verify their own inputs.
func (c *Catalog) Validate(name string, args map[string]interface{}) bool {
	tool, err := c.Find(name)
	if err != nil {
		return false
	}
	for _, p := range tool.Parameters {
		v, present := args[p.Name]
		if !present {
			if p.Required {
				return false
			}
			continue
		}
		if !matchesType(p.Type, v) {
			return false
		}
	}
	return true
}

func matchesType(t ParamType, v interface{}) bool {
	switch t {
	case TypeString:
		_, ok := v.(string)
		return ok
	case TypeBoolean:
		_, ok := v.(bool)
		return ok
	case TypeNumber:
		_, ok := Number(v)
		return ok
	}
	return false
}

// Number converts a decoded JSON number, or any Go numeric value, to float64.
// Booleans and strings are not numbers.
func Number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
