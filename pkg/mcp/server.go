package mcp

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/felixgeelhaar/fortify/ratelimit"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"simple-mcp-server/pkg/protocol"
)

// Service is the method surface an MCP server exposes. Tool failures are
// reported inside the CallToolResult, not as errors.
type Service interface {
	ListTools(ctx context.Context) []protocol.Tool
	CallTool(ctx context.Context, name string, args map[string]interface{}) *protocol.CallToolResult
	ListPrompts(ctx context.Context) []protocol.Prompt
	GetPrompt(ctx context.Context, name string, args map[string]string) (*protocol.GetPromptResult, error)
}

// Server holds the state and logic for an MCP server.
type Server struct {
	info         protocol.ImplementationInfo
	capabilities protocol.ServerCapabilities
	instructions string
	service      Service

	sessionLock sync.RWMutex
	sessions    map[string]*SessionState

	// allow is nil when rate limiting is disabled.
	allow    func(ctx context.Context, key string) bool
	upgrader websocket.Upgrader
}

// SessionState holds state for a connected client.
type SessionState struct {
	ClientInfo         protocol.ImplementationInfo
	ClientCapabilities protocol.ClientCapabilities
	ProtocolVersion    string
	CreatedAt          time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithInstructions sets the instructions returned from initialize.
func WithInstructions(instructions string) Option {
	return func(s *Server) {
		s.instructions = instructions
	}
}

// WithRateLimit limits incoming messages to rate per second with the given
// burst, per session (or per remote address before a session exists).
// A non-positive rate disables limiting.
func WithRateLimit(rate, burst int) Option {
	return func(s *Server) {
		if rate <= 0 {
			s.allow = nil
			return
		}
		if burst < 1 {
			burst = rate
		}
		limiter := ratelimit.New(&ratelimit.Config{
			Rate:     rate,
			Burst:    burst,
			Interval: time.Second,
		})
		s.allow = limiter.Allow
	}
}

// WithOriginCheck sets the origin check used for websocket upgrades.
// All origins are accepted by default.
func WithOriginCheck(fn func(r *http.Request) bool) Option {
	return func(s *Server) {
		s.upgrader.CheckOrigin = fn
	}
}

// NewServer creates a new MCP Server backed by service.
func NewServer(name, version string, capabilities protocol.ServerCapabilities, service Service, opts ...Option) *Server {
	s := &Server{
		info:         protocol.ImplementationInfo{Name: name, Version: version},
		capabilities: capabilities,
		service:      service,
		sessions:     make(map[string]*SessionState),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Info returns the server's name and version.
func (s *Server) Info() protocol.ImplementationInfo {
	return s.info
}

// Session looks up a session created by initialize.
func (s *Server) Session(id string) (*SessionState, bool) {
	s.sessionLock.RLock()
	defer s.sessionLock.RUnlock()
	st, ok := s.sessions[id]
	return st, ok
}

// SessionCount returns the number of open sessions.
func (s *Server) SessionCount() int {
	s.sessionLock.RLock()
	defer s.sessionLock.RUnlock()
	return len(s.sessions)
}

func (s *Server) closeSession(id string) bool {
	s.sessionLock.Lock()
	defer s.sessionLock.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	log.Infof("Closed session: %s", id)
	return true
}

func (s *Server) allowed(ctx context.Context, key string) bool {
	if s.allow == nil {
		return true
	}
	if s.allow(ctx, key) {
		return true
	}
	log.Warnf("Rate limit exceeded for %s", key)
	return false
}
