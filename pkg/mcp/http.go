package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"simple-mcp-server/pkg/protocol"
)

// SessionHeader carries the session id assigned by initialize.
const SessionHeader = "Mcp-Session-Id"

const maxBodyBytes = 1 << 20

// Router returns the HTTP handler serving /mcp, /ws and /health.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.With(s.rateLimit).Post("/mcp", s.handleMCPPost)
	r.Get("/mcp", s.handleMCPStream)
	r.Delete("/mcp", s.handleMCPDelete)
	r.Get("/ws", s.handleWebSocket)
	return r
}

// ListenAndServe serves the HTTP router on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Infof("MCP Server '%s' version '%s' listening on %s", s.info.Name, s.info.Version, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		log.Infof("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(SessionHeader)
		if key == "" {
			key = clientHost(r)
		}
		if !s.allowed(r.Context(), key) {
			writeResponse(w, protocol.NewErrorResponse(protocol.RequestID{}, protocol.CodeRateLimited, "Rate limit exceeded", nil))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleMCPPost(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusInternalServerError)
		return
	}
	defer r.Body.Close()

	resp, sessionID := s.processMessage(r.Context(), body)
	if resp == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	if sessionID != "" {
		w.Header().Set(SessionHeader, sessionID)
	}
	writeResponse(w, resp)
}

func (s *Server) handleMCPStream(w http.ResponseWriter, _ *http.Request) {
	log.Println("Received GET request for SSE stream (not yet implemented). Returning OK.")
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleMCPDelete(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		http.Error(w, "Missing "+SessionHeader+" header", http.StatusBadRequest)
		return
	}
	if !s.closeSession(id) {
		http.Error(w, "Unknown session", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// clientHost strips the port from the remote address so that every
// connection from one host shares a rate limit bucket.
func clientHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type healthStatus struct {
	Status   string `json:"status"`
	Name     string `json:"name"`
	Version  string `json:"version"`
	Sessions int    `json:"sessions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err := json.NewEncoder(w).Encode(healthStatus{
		Status:   "ok",
		Name:     s.info.Name,
		Version:  s.info.Version,
		Sessions: s.SessionCount(),
	})
	if err != nil {
		log.Errorf("Error writing health response: %v", err)
	}
}

// writeResponse encodes resp, choosing the HTTP status from its error code.
func writeResponse(w http.ResponseWriter, resp *protocol.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus(resp))
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Errorf("Error writing response: %v", err)
	}
}

func httpStatus(resp *protocol.Response) int {
	if resp.Error == nil {
		return http.StatusOK
	}
	switch resp.Error.Code {
	case protocol.CodeParseError, protocol.CodeInvalidRequest, protocol.CodeInvalidParams:
		return http.StatusBadRequest
	case protocol.CodeMethodNotFound:
		return http.StatusNotFound
	case protocol.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
