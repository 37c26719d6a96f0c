package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"simple-mcp-server/pkg/protocol"
)

func (s *Server) handleInitialize(req *protocol.Request) (*protocol.Response, string) {
	log.Infof("Received initialize request: ID=%s", req.ID.String())
	var initParams protocol.InitializeRequest
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &initParams); err != nil {
			return protocol.NewErrorResponse(req.ID, protocol.CodeInvalidParams, "Invalid params for initialize", err), ""
		}
	}

	log.Infof("Client '%s' version '%s' connecting with protocol version '%s'", initParams.ClientInfo.Name, initParams.ClientInfo.Version, initParams.ProtocolVersion)

	negotiatedVersion := initParams.ProtocolVersion
	if negotiatedVersion == "" {
		negotiatedVersion = protocol.Version
	}
	sessionID := uuid.NewString()

	s.sessionLock.Lock()
	s.sessions[sessionID] = &SessionState{
		ClientInfo:         initParams.ClientInfo,
		ClientCapabilities: initParams.Capabilities,
		ProtocolVersion:    negotiatedVersion,
		CreatedAt:          time.Now(),
	}
	s.sessionLock.Unlock()
	log.Infof("Created new session: %s", sessionID)

	result := protocol.InitializeResult{
		ProtocolVersion: negotiatedVersion,
		ServerInfo:      s.info,
		Capabilities:    s.capabilities,
		Instructions:    s.instructions,
	}
	return protocol.NewResultResponse(req.ID, result), sessionID
}

// --- Tool Method Handlers ---

func (s *Server) handleListTools(ctx context.Context, req *protocol.Request) *protocol.Response {
	log.Infof("Received tools/list request: ID=%s", req.ID.String())
	return protocol.NewResultResponse(req.ID, protocol.ListToolsResult{Tools: s.service.ListTools(ctx)})
}

func (s *Server) handleCallTool(ctx context.Context, req *protocol.Request) *protocol.Response {
	var callParams protocol.CallToolRequest
	if err := json.Unmarshal(req.Params, &callParams); err != nil {
		return protocol.NewErrorResponse(req.ID, protocol.CodeInvalidParams, "Invalid params for tools/call", err)
	}

	log.Infof("Received tools/call request for tool '%s': ID=%s", callParams.Name, req.ID.String())
	return protocol.NewResultResponse(req.ID, s.service.CallTool(ctx, callParams.Name, callParams.Arguments))
}

// --- Prompt Method Handlers ---

func (s *Server) handleListPrompts(ctx context.Context, req *protocol.Request) *protocol.Response {
	log.Infof("Received prompts/list request: ID=%s", req.ID.String())
	return protocol.NewResultResponse(req.ID, protocol.ListPromptsResult{Prompts: s.service.ListPrompts(ctx)})
}

func (s *Server) handleGetPrompt(ctx context.Context, req *protocol.Request) *protocol.Response {
	var getParams protocol.GetPromptRequest
	if err := json.Unmarshal(req.Params, &getParams); err != nil {
		return protocol.NewErrorResponse(req.ID, protocol.CodeInvalidParams, "Invalid params for prompts/get", err)
	}

	log.Infof("Received prompts/get request for prompt '%s': ID=%s", getParams.Name, req.ID.String())
	result, err := s.service.GetPrompt(ctx, getParams.Name, getParams.Arguments)
	if err != nil {
		return protocol.NewErrorResponse(req.ID, protocol.CodeInvalidParams, err.Error(), nil)
	}
	return protocol.NewResultResponse(req.ID, result)
}
