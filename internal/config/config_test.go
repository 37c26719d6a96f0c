package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Name != "simple-mcp-debug" {
		t.Errorf("name = %q", cfg.Server.Name)
	}
	if cfg.Transport.Mode != TransportStdio {
		t.Errorf("mode = %q", cfg.Transport.Mode)
	}
	if cfg.Transport.RateLimit.Rate != 0 {
		t.Errorf("rate limit should be off by default")
	}
	if cfg.Telemetry.Exporter != ExporterNone {
		t.Errorf("telemetry exporter = %q", cfg.Telemetry.Exporter)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
server:
  name: tutorial
transport:
  mode: http
  addr: 127.0.0.1:9090
  rate_limit:
    rate: 5
    burst: 10
log:
  level: debug
  format: json
telemetry:
  exporter: stdout
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Name != "tutorial" {
		t.Errorf("name = %q", cfg.Server.Name)
	}
	if cfg.Server.Version != "1.0.0" {
		t.Errorf("version default lost: %q", cfg.Server.Version)
	}
	if cfg.Transport.Mode != TransportHTTP || cfg.Transport.Addr != "127.0.0.1:9090" {
		t.Errorf("transport = %+v", cfg.Transport)
	}
	if cfg.Transport.RateLimit.Rate != 5 || cfg.Transport.RateLimit.Burst != 10 {
		t.Errorf("rate limit = %+v", cfg.Transport.RateLimit)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if cfg.Telemetry.Exporter != ExporterStdout {
		t.Errorf("telemetry = %+v", cfg.Telemetry)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  name: from-file\n")
	t.Setenv("MCP_SERVER_NAME", "from-env")
	t.Setenv("MCP_TRANSPORT", "http")
	t.Setenv("MCP_ADDR", ":7000")
	t.Setenv("MCP_RATE_LIMIT", "3")
	t.Setenv("MCP_TELEMETRY_EXPORTER", "stdout")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Name != "from-env" {
		t.Errorf("name = %q", cfg.Server.Name)
	}
	if cfg.Transport.Mode != TransportHTTP || cfg.Transport.Addr != ":7000" {
		t.Errorf("transport = %+v", cfg.Transport)
	}
	if cfg.Transport.RateLimit.Rate != 3 {
		t.Errorf("rate = %d", cfg.Transport.RateLimit.Rate)
	}
	if cfg.Telemetry.Exporter != ExporterStdout {
		t.Errorf("telemetry exporter = %q", cfg.Telemetry.Exporter)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "unknown transport", body: "transport:\n  mode: carrier-pigeon\n"},
		{name: "bad level", body: "log:\n  level: shouting\n"},
		{name: "bad format", body: "log:\n  format: xml\n"},
		{name: "malformed yaml", body: "server: [unclosed\n"},
		{name: "non numeric rate", body: "", env: map[string]string{"MCP_RATE_LIMIT": "fast"}},
		{name: "unknown exporter", body: "telemetry:\n  exporter: jaeger\n"},
		{name: "empty name", body: "server:\n  name: \"  \"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
