package catalog

import (
	"encoding/json"
	"testing"
)

func TestValidate(t *testing.T) {
	c := Default()

	tests := []struct {
		name string
		tool string
		args map[string]interface{}
		want bool
	}{
		{name: "hello no args", tool: HelloWorld, args: map[string]interface{}{}, want: true},
		{name: "hello with name", tool: HelloWorld, args: map[string]interface{}{"name": "Test"}, want: true},
		{name: "hello nil args", tool: HelloWorld, args: nil, want: true},
		{name: "echo missing message", tool: Echo, args: map[string]interface{}{}, want: false},
		{name: "echo with message", tool: Echo, args: map[string]interface{}{"message": "hi"}, want: true},
		{name: "echo message wrong type", tool: Echo, args: map[string]interface{}{"message": 42.0}, want: false},
		{name: "echo undeclared field ignored", tool: Echo, args: map[string]interface{}{"message": "hi", "extra": []int{1}}, want: true},
		{name: "math ints", tool: MathAdd, args: map[string]interface{}{"a": 10, "b": 5}, want: true},
		{name: "math floats", tool: MathAdd, args: map[string]interface{}{"a": 1.5, "b": 2.5}, want: true},
		{name: "math json number", tool: MathAdd, args: map[string]interface{}{"a": json.Number("1"), "b": 2.0}, want: true},
		{name: "math small int kinds", tool: MathAdd, args: map[string]interface{}{"a": int8(1), "b": uint16(2)}, want: true},
		{name: "math malformed json number", tool: MathAdd, args: map[string]interface{}{"a": json.Number("x"), "b": 2.0}, want: false},
		{name: "math missing b", tool: MathAdd, args: map[string]interface{}{"a": 1.0}, want: false},
		{name: "math string operand", tool: MathAdd, args: map[string]interface{}{"a": "x", "b": 5}, want: false},
		{name: "math bool operand", tool: MathAdd, args: map[string]interface{}{"a": true, "b": 5}, want: false},
		{name: "time bogus format still a string", tool: GetTime, args: map[string]interface{}{"format": "bogus"}, want: true},
		{name: "debug bool flags", tool: DebugInfo, args: map[string]interface{}{"include_tools": false}, want: true},
		{name: "debug flag as string", tool: DebugInfo, args: map[string]interface{}{"include_tools": "false"}, want: false},
		{name: "unknown tool", tool: "nonexistent_tool", args: map[string]interface{}{}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Validate(tt.tool, tt.args); got != tt.want {
				t.Errorf("Validate(%q, %v) = %v, want %v", tt.tool, tt.args, got, tt.want)
			}
		})
	}
}
