package mcp

import (
	"context"
	"encoding/json"

	log "github.com/sirupsen/logrus"

	"simple-mcp-server/pkg/protocol"
)

// processMessage decodes one raw JSON-RPC message and runs it. Notifications
// produce a nil response. sessionID is set only by a successful initialize.
func (s *Server) processMessage(ctx context.Context, body []byte) (resp *protocol.Response, sessionID string) {
	var rawMessage map[string]json.RawMessage
	if err := json.Unmarshal(body, &rawMessage); err != nil {
		return protocol.NewErrorResponse(protocol.RequestID{}, protocol.CodeParseError, "Parse error: Invalid JSON", err), ""
	}

	if _, ok := rawMessage["id"]; !ok {
		var notif protocol.Notification
		if err := json.Unmarshal(body, &notif); err != nil {
			log.Errorf("Error parsing notification: %v", err)
			return nil, ""
		}
		s.handleNotification(&notif)
		return nil, ""
	}

	var req protocol.Request
	if err := json.Unmarshal(body, &req); err != nil {
		return protocol.NewErrorResponse(protocol.RequestID{}, protocol.CodeParseError, "Parse error: Invalid Request structure", err), ""
	}
	return s.handleRequest(ctx, &req)
}

// Handle runs a single decoded request and returns its response.
func (s *Server) Handle(ctx context.Context, req *protocol.Request) *protocol.Response {
	resp, _ := s.handleRequest(ctx, req)
	return resp
}

func (s *Server) handleRequest(ctx context.Context, req *protocol.Request) (*protocol.Response, string) {
	if req.JSONRPC != "2.0" {
		return protocol.NewErrorResponse(req.ID, protocol.CodeInvalidRequest, "Invalid Request: jsonrpc must be \"2.0\"", nil), ""
	}
	if req.Method == "" {
		return protocol.NewErrorResponse(req.ID, protocol.CodeInvalidRequest, "Invalid Request: missing method", nil), ""
	}

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "ping":
		return protocol.NewResultResponse(req.ID, struct{}{}), ""
	case "tools/list":
		return s.handleListTools(ctx, req), ""
	case "tools/call":
		return s.handleCallTool(ctx, req), ""
	case "prompts/list":
		return s.handleListPrompts(ctx, req), ""
	case "prompts/get":
		return s.handleGetPrompt(ctx, req), ""
	default:
		log.Infof("Unknown method: %s", req.Method)
		return protocol.NewErrorResponse(req.ID, protocol.CodeMethodNotFound, "Method not found", nil), ""
	}
}

func (s *Server) handleNotification(n *protocol.Notification) {
	log.Infof("Received notification: Method=%s", n.Method)
	switch n.Method {
	case "notifications/initialized":
		log.Infof("Client confirmed initialization.")
	case "notifications/cancelled":
		log.Debugf("Client cancelled a request; calls run to completion.")
	default:
		log.Infof("Received unhandled notification: %s", n.Method)
	}
}
