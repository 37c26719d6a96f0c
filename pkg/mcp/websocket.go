package mcp

import (
	"net/http"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"simple-mcp-server/pkg/protocol"
)

// handleWebSocket upgrades the connection and serves one JSON-RPC message
// per websocket text frame.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	key := "ws:" + clientHost(r)
	log.Infof("Websocket client connected: %s", r.RemoteAddr)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Errorf("Websocket read error: %v", err)
			}
			log.Infof("Websocket client disconnected: %s", r.RemoteAddr)
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var resp *protocol.Response
		if s.allowed(ctx, key) {
			resp, _ = s.processMessage(ctx, data)
		} else {
			resp = protocol.NewErrorResponse(protocol.RequestID{}, protocol.CodeRateLimited, "Rate limit exceeded", nil)
		}
		if resp == nil {
			continue
		}
		if err := conn.WriteJSON(resp); err != nil {
			log.Errorf("Websocket write error: %v", err)
			return
		}
	}
}
