// Package server adapts the tool dispatcher to the MCP method surface:
// tool listing, tool calls and the (empty) prompt methods.
package server

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"simple-mcp-server/internal/catalog"
	"simple-mcp-server/internal/dispatch"
	"simple-mcp-server/internal/logger"
	"simple-mcp-server/internal/tools"
	"simple-mcp-server/pkg/protocol"
)

// Options configures a SimpleServer.
type Options struct {
	Name    string
	Version string
	// Now defaults to time.Now.
	Now          func() time.Time
	DispatchOpts []dispatch.Option
}

// SimpleServer owns the catalog, the server state and the dispatcher.
type SimpleServer struct {
	catalog    *catalog.Catalog
	state      *dispatch.State
	dispatcher *dispatch.Dispatcher
	now        func() time.Time
}

// New wires the built-in tools into a ready server.
func New(opts Options) (*SimpleServer, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	log.Infof("🚀 Initializing SimpleMCPServer: %s", opts.Name)

	cat := catalog.Default()
	state := dispatch.NewState(opts.Name, opts.Version, now())
	handlers := tools.NewSet(cat, state, tools.WithClock(now)).Handlers()

	d, err := dispatch.New(cat, state, handlers, opts.DispatchOpts...)
	if err != nil {
		return nil, fmt.Errorf("build dispatcher: %w", err)
	}

	log.Infof("✅ SimpleMCPServer initialized with %d tools", cat.Len())
	return &SimpleServer{catalog: cat, state: state, dispatcher: d, now: now}, nil
}

// State exposes the request counter and identity.
func (s *SimpleServer) State() *dispatch.State {
	return s.state
}

// Catalog exposes the tool catalog.
func (s *SimpleServer) Catalog() *catalog.Catalog {
	return s.catalog
}

// ListTools returns every tool in catalog order.
func (s *SimpleServer) ListTools(_ context.Context) []protocol.Tool {
	n := s.state.Record()
	defer logger.Timed("list_tools")()

	descriptors := s.catalog.List()
	out := make([]protocol.Tool, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, protocol.Tool{
			Name:        d.Name,
			Description: d.Description,
			InputSchema: d.InputSchema,
		})
	}

	log.Infof("📋 list_tools request #%d: returning %d tools", n, len(out))
	logger.Message("list_tools", "response", log.Fields{"tool_count": len(out)})
	return out
}

// CallTool runs a tool and wraps the outcome in a single text block. Errors
// are reported as text too; callers cannot tell them apart from results.
func (s *SimpleServer) CallTool(ctx context.Context, name string, args map[string]interface{}) *protocol.CallToolResult {
	res := s.dispatcher.Dispatch(ctx, name, args)

	text := res.Text
	switch {
	case res.OK():
		log.Infof("✅ Tool %s executed successfully", name)
	case res.Kind() == tools.UnknownTool:
		text = res.Err.Message
		log.Errorf("❌ %s", text)
	default:
		text = fmt.Sprintf("Error executing tool %s: %s", name, res.Err.Message)
		log.Errorf("❌ %s", text)
	}

	return &protocol.CallToolResult{
		Content: []protocol.ContentBlock{protocol.TextContent(text)},
	}
}

// ListPrompts always returns an empty list.
func (s *SimpleServer) ListPrompts(_ context.Context) []protocol.Prompt {
	n := s.state.Record()
	log.Infof("📝 list_prompts request #%d: no prompts available", n)
	logger.Message("list_prompts", "response", log.Fields{"prompt_count": 0})
	return []protocol.Prompt{}
}

// GetPrompt always fails: the server has no prompts.
func (s *SimpleServer) GetPrompt(_ context.Context, name string, _ map[string]string) (*protocol.GetPromptResult, error) {
	n := s.state.Record()
	log.Infof("📝 get_prompt request #%d for: %s", n, name)
	logger.Message("get_prompt", "error", log.Fields{"prompt_name": name, "error": "No prompts available"})
	return nil, fmt.Errorf("No prompt named %s", name)
}

// DebugReport renders a plain-text report about the process and its tools.
func (s *SimpleServer) DebugReport() string {
	var b strings.Builder
	fmt.Fprintln(&b, "MCP Server Debug Report")
	fmt.Fprintln(&b, strings.Repeat("=", 40))
	fmt.Fprintf(&b, "Generated: %s\n\n", s.now().Format(time.RFC3339))

	fmt.Fprintln(&b, "System Information:")
	fmt.Fprintf(&b, "  Go version: %s\n", runtime.Version())
	fmt.Fprintf(&b, "  Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(&b, "  CPUs: %d\n\n", runtime.NumCPU())

	fmt.Fprintln(&b, "Server:")
	fmt.Fprintf(&b, "  Name: %s\n", s.state.Name())
	fmt.Fprintf(&b, "  Version: %s\n", s.state.Version())
	fmt.Fprintf(&b, "  Requests served: %d\n\n", s.state.Requests())

	fmt.Fprintf(&b, "Tools (%d):\n", s.catalog.Len())
	for _, d := range s.catalog.List() {
		fmt.Fprintf(&b, "  - %s: %s\n", d.Name, d.Description)
		if req := d.RequiredParams(); len(req) > 0 {
			fmt.Fprintf(&b, "      required: %s\n", strings.Join(req, ", "))
		}
	}
	return b.String()
}
