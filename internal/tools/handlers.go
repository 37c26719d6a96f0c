// Package tools implements the handlers behind the built-in tools.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"runtime"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"simple-mcp-server/internal/catalog"
)

// Handler implements one tool. It returns the text result or an error,
// normally a *ToolError.
type Handler func(ctx context.Context, args ArgumentMap) (string, error)

// ServerInfo is the read-only view of server state that debug_info reports.
type ServerInfo interface {
	Name() string
	Version() string
	StartTime() time.Time
	Requests() int64
}

// Set binds the built-in handlers to the catalog and server state they read.
type Set struct {
	catalog *catalog.Catalog
	server  ServerInfo
	now     func() time.Time
}

// Option configures a Set.
type Option func(*Set)

// WithClock replaces time.Now, for deterministic output in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Set) {
		s.now = now
	}
}

// NewSet creates the handler set.
func NewSet(cat *catalog.Catalog, server ServerInfo, opts ...Option) *Set {
	s := &Set{catalog: cat, server: server, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handlers returns the handler for every built-in tool, keyed by tool name.
func (s *Set) Handlers() map[string]Handler {
	return map[string]Handler{
		catalog.HelloWorld: s.HelloWorld,
		catalog.Echo:       s.Echo,
		catalog.GetTime:    s.GetTime,
		catalog.MathAdd:    s.MathAdd,
		catalog.DebugInfo:  s.DebugInfo,
	}
}

// HelloWorld greets args["name"], defaulting to "World".
func (s *Set) HelloWorld(_ context.Context, args ArgumentMap) (string, error) {
	name := args.String("name", "World")
	greeting := fmt.Sprintf("Hello, %s! 👋", name)
	return fmt.Sprintf("%s\n\nGenerated at: %s", greeting, s.now().Format(time.RFC3339)), nil
}

// Echo returns prefix+message verbatim.
func (s *Set) Echo(_ context.Context, args ArgumentMap) (string, error) {
	if !args.Has("message") {
		return "", invalidArgument("Missing required parameter: message")
	}
	return args.String("prefix", "Echo: ") + args.String("message", ""), nil
}

// GetTime formats the current time. The timezone argument is only echoed
// back; the clock is always read in local time.
func (s *Set) GetTime(_ context.Context, args ArgumentMap) (string, error) {
	format := args.String("format", "readable")
	timezone := args.String("timezone", "local")
	now := s.now()

	var timeStr string
	switch format {
	case "iso":
		timeStr = now.Format(time.RFC3339Nano)
	case "timestamp":
		timeStr = fmt.Sprintf("%d.%06d", now.Unix(), now.Nanosecond()/1000)
	case "readable":
		timeStr = now.Format("2006-01-02 15:04:05")
	default:
		log.Debugf("get_time rejected format %q", format)
		return "", invalidArgument("Unknown time format: %s", format)
	}

	response := "Current time: " + timeStr
	if timezone != "local" {
		response += fmt.Sprintf(" (requested timezone: %s)", timezone)
	}
	return response, nil
}

// MathAdd adds a and b after coercing both to float64.
func (s *Set) MathAdd(_ context.Context, args ArgumentMap) (string, error) {
	if !args.Has("a") || !args.Has("b") {
		return "", invalidArgument("Missing required parameters: a and b")
	}
	a, err := args.Float("a")
	if err != nil {
		return "", invalidArgument("Invalid number format: %v", err)
	}
	b, err := args.Float("b")
	if err != nil {
		return "", invalidArgument("Invalid number format: %v", err)
	}
	return fmt.Sprintf("%s + %s = %s", formatNumber(a), formatNumber(b), formatNumber(a+b)), nil
}

type toolSummary struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	RequiredParams []string `json:"required_params"`
}

type statistics struct {
	ToolsAvailable       int     `json:"tools_available"`
	AvgRequestsPerMinute float64 `json:"avg_requests_per_minute"`
}

type debugReport struct {
	ServerName    string        `json:"server_name"`
	Version       string        `json:"version"`
	StartTime     string        `json:"start_time"`
	UptimeSeconds float64       `json:"uptime_seconds"`
	RequestCount  int64         `json:"request_count"`
	GoVersion     string        `json:"go_version"`
	Timestamp     string        `json:"timestamp"`
	Tools         []toolSummary `json:"tools,omitempty"`
	Statistics    *statistics   `json:"statistics,omitempty"`
}

// DebugInfo reports server name, uptime and request count, optionally with
// the tool list and the average request rate.
func (s *Set) DebugInfo(_ context.Context, args ArgumentMap) (string, error) {
	now := s.now()
	uptime := now.Sub(s.server.StartTime()).Seconds()
	requests := s.server.Requests()

	report := debugReport{
		ServerName:    s.server.Name(),
		Version:       s.server.Version(),
		StartTime:     s.server.StartTime().Format(time.RFC3339Nano),
		UptimeSeconds: uptime,
		RequestCount:  requests,
		GoVersion:     runtime.Version(),
		Timestamp:     now.Format(time.RFC3339Nano),
	}

	if args.Bool("include_tools", true) {
		for _, d := range s.catalog.List() {
			report.Tools = append(report.Tools, toolSummary{
				Name:           d.Name,
				Description:    d.Description,
				RequiredParams: d.RequiredParams(),
			})
		}
	}

	if args.Bool("include_stats", true) {
		// Floor of one minute so a fresh server does not divide by zero.
		minutes := math.Max(1, uptime/60)
		report.Statistics = &statistics{
			ToolsAvailable:       s.catalog.Len(),
			AvgRequestsPerMinute: float64(requests) / minutes,
		}
	}

	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", NewError(InternalError, "encode debug info: %v", err)
	}
	return "🔍 MCP Server Debug Information\n\n" + string(body), nil
}

func formatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
