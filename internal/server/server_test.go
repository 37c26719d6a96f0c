package server

import (
	"context"
	"strings"
	"testing"
	"time"
)

func newTestServer(t *testing.T) *SimpleServer {
	t.Helper()
	s, err := New(Options{
		Name:    "simple-mcp-debug",
		Version: "1.0.0",
		Now:     func() time.Time { return time.Date(2024, 5, 17, 14, 3, 9, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func callText(t *testing.T, s *SimpleServer, name string, args map[string]interface{}) string {
	t.Helper()
	res := s.CallTool(context.Background(), name, args)
	if res.IsError {
		t.Fatalf("IsError set for %s", name)
	}
	if len(res.Content) != 1 || res.Content[0].Type != "text" {
		t.Fatalf("unexpected content for %s: %+v", name, res.Content)
	}
	return res.Content[0].Text
}

func TestListTools(t *testing.T) {
	s := newTestServer(t)
	tools := s.ListTools(context.Background())

	want := []string{"hello_world", "echo", "get_time", "math_add", "debug_info"}
	if len(tools) != len(want) {
		t.Fatalf("got %d tools, want %d", len(tools), len(want))
	}
	for i, name := range want {
		if tools[i].Name != name {
			t.Errorf("tools[%d] = %s, want %s", i, tools[i].Name, name)
		}
		if len(tools[i].InputSchema) == 0 {
			t.Errorf("%s has no input schema", name)
		}
	}
	if s.State().Requests() != 1 {
		t.Errorf("list_tools should count as a request, got %d", s.State().Requests())
	}
}

func TestCallToolText(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		tool string
		args map[string]interface{}
		want string
	}{
		{"echo", "echo", map[string]interface{}{"message": "hi", "prefix": "X: "}, "X: hi"},
		{"math", "math_add", map[string]interface{}{"a": 10, "b": 5}, "10 + 5 = 15"},
		{"unknown tool", "nonexistent_tool", nil, "Unknown tool: nonexistent_tool"},
		{"empty tool name", "", nil, "Unknown tool: "},
		{"echo missing", "echo", map[string]interface{}{}, "Error executing tool echo: Missing required parameter: message"},
		{"math invalid", "math_add", map[string]interface{}{"a": "abc", "b": 5}, "Error executing tool math_add: Invalid number format: could not convert string to float: 'abc'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := callText(t, s, tt.tool, tt.args); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrompts(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	if prompts := s.ListPrompts(ctx); len(prompts) != 0 {
		t.Errorf("expected no prompts, got %d", len(prompts))
	}
	_, err := s.GetPrompt(ctx, "greeting", nil)
	if err == nil || err.Error() != "No prompt named greeting" {
		t.Errorf("GetPrompt error = %v", err)
	}
	if s.State().Requests() != 2 {
		t.Errorf("Requests() = %d, want 2", s.State().Requests())
	}
}

func TestDebugInfoSeesRequests(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	s.ListTools(ctx)
	s.CallTool(ctx, "hello_world", nil)

	text := callText(t, s, "debug_info", map[string]interface{}{"include_tools": false})
	if !strings.Contains(text, `"request_count": 3`) {
		t.Errorf("debug_info output missing request count: %s", text)
	}
}

func TestDebugReport(t *testing.T) {
	s := newTestServer(t)
	report := s.DebugReport()
	for _, want := range []string{
		"MCP Server Debug Report",
		"Generated: 2024-05-17T14:03:09Z",
		"Name: simple-mcp-debug",
		"Tools (5):",
		"- math_add:",
		"required: a, b",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}
