package tools

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"simple-mcp-server/internal/catalog"
)

// ArgumentMap is the per-call mapping of parameter names to decoded JSON
// values. It belongs to a single invocation and is never retained.
type ArgumentMap map[string]interface{}

// Has reports whether key was supplied.
func (a ArgumentMap) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// String returns the value for key rendered as text, or def when absent.
// Non-string values are formatted with %v.
func (a ArgumentMap) String(key, def string) string {
	v, ok := a[key]
	if !ok {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Bool returns the value for key when it is a boolean, or def otherwise.
func (a ArgumentMap) Bool(key string, def bool) bool {
	if b, ok := a[key].(bool); ok {
		return b
	}
	return def
}

// Float coerces the value for key to a float64. Numbers are taken as is and
// strings must parse as a floating-point literal. Literals beyond the float64
// range become ±Inf.
func (a ArgumentMap) Float(key string) (float64, error) {
	v := a[key]
	if f, ok := catalog.Number(v); ok {
		return f, nil
	}
	switch v := v.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		var numErr *strconv.NumError
		if err != nil && !(errors.As(err, &numErr) && numErr.Err == strconv.ErrRange) {
			return 0, fmt.Errorf("could not convert string to float: '%s'", v)
		}
		return f, nil
	case nil:
		return 0, fmt.Errorf("%s must be a number, not null", key)
	default:
		return 0, fmt.Errorf("%s must be a number, not %T", key, v)
	}
}
