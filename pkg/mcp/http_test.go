package mcp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"simple-mcp-server/pkg/protocol"
)

func post(t *testing.T, srv *httptest.Server, body string, header http.Header) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/mcp", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("POST /mcp: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeHTTP(t *testing.T, resp *http.Response) protocol.Response {
	t.Helper()
	var out protocol.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return out
}

func TestHTTPInitializeSetsSessionHeader(t *testing.T) {
	s, _ := newTestServer()
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp := post(t, srv, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-06-18","clientInfo":{"name":"c","version":"1"}}}`, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	sessionID := resp.Header.Get(SessionHeader)
	if sessionID == "" {
		t.Fatal("missing session header")
	}
	if _, ok := s.Session(sessionID); !ok {
		t.Errorf("session %s not registered", sessionID)
	}

	body := decodeHTTP(t, resp)
	if body.Error != nil || body.ID.String() != "1" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestHTTPStatusCodes(t *testing.T) {
	s, _ := newTestServer()
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	tests := []struct {
		name string
		body string
		want int
	}{
		{"notification", `{"jsonrpc":"2.0","method":"notifications/initialized"}`, http.StatusAccepted},
		{"parse error", `{oops`, http.StatusBadRequest},
		{"unknown method", `{"jsonrpc":"2.0","id":2,"method":"nope"}`, http.StatusNotFound},
		{"invalid params", `{"jsonrpc":"2.0","id":3,"method":"tools/call"}`, http.StatusBadRequest},
		{"tool call", `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"echo","arguments":{"message":"hi"}}}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv, tt.body, nil)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestHTTPOtherRoutes(t *testing.T) {
	s, _ := newTestServer()
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/mcp")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /mcp status = %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/mcp", nil)
	resp, err = srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("PUT /mcp status = %d", resp.StatusCode)
	}

	resp, err = srv.Client().Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var health healthStatus
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatal(err)
	}
	if health.Status != "ok" || health.Name != "test-server" {
		t.Errorf("health = %+v", health)
	}
}

func TestHTTPDeleteSession(t *testing.T) {
	s, _ := newTestServer()
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp := post(t, srv, `{"jsonrpc":"2.0","id":1,"method":"initialize"}`, nil)
	sessionID := resp.Header.Get(SessionHeader)

	del := func() int {
		req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/mcp", nil)
		req.Header.Set(SessionHeader, sessionID)
		r, err := srv.Client().Do(req)
		if err != nil {
			t.Fatal(err)
		}
		r.Body.Close()
		return r.StatusCode
	}
	if got := del(); got != http.StatusNoContent {
		t.Errorf("first DELETE = %d", got)
	}
	if got := del(); got != http.StatusNotFound {
		t.Errorf("second DELETE = %d", got)
	}
	if s.SessionCount() != 0 {
		t.Errorf("SessionCount() = %d", s.SessionCount())
	}
}

func TestHTTPRateLimit(t *testing.T) {
	s, _ := newTestServer(WithRateLimit(1, 1))
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	ping := `{"jsonrpc":"2.0","id":1,"method":"ping"}`
	if resp := post(t, srv, ping, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("first request status = %d", resp.StatusCode)
	}
	resp := post(t, srv, ping, nil)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d", resp.StatusCode)
	}
	body := decodeHTTP(t, resp)
	if body.Error == nil || body.Error.Code != protocol.CodeRateLimited {
		t.Errorf("body = %+v", body)
	}

	// Sessions get their own bucket.
	h := http.Header{}
	h.Set(SessionHeader, "other")
	if resp := post(t, srv, ping, h); resp.StatusCode != http.StatusOK {
		t.Errorf("separate session status = %d", resp.StatusCode)
	}
}
