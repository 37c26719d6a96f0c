package mcp

import (
	"context"
	"testing"

	"simple-mcp-server/internal/server"
	"simple-mcp-server/pkg/protocol"
)

func TestEmptyToolNameIsUnknownTool(t *testing.T) {
	svc, err := server.New(server.Options{Name: "simple-mcp-debug", Version: "1.0.0"})
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	s := NewServer("simple-mcp-debug", "1.0.0", protocol.ServerCapabilities{Tools: &protocol.ServerToolCapabilities{}}, svc)

	resp := s.Handle(context.Background(), request(t, 1, "tools/call", map[string]interface{}{"name": ""}))
	var result protocol.CallToolResult
	decodeResult(t, resp, &result)
	if result.IsError || len(result.Content) != 1 || result.Content[0].Text != "Unknown tool: " {
		t.Errorf("result = %+v", result)
	}
	if got := svc.State().Requests(); got != 1 {
		t.Errorf("Requests() = %d, want 1", got)
	}
}
