// Package config loads server settings from defaults, an optional YAML file,
// an optional .env file and the process environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Transport modes.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config is the complete server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type ServerConfig struct {
	Name         string `yaml:"name"`
	Version      string `yaml:"version"`
	Instructions string `yaml:"instructions"`
}

type TransportConfig struct {
	Mode      string          `yaml:"mode"`
	Addr      string          `yaml:"addr"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig limits HTTP requests per client. Rate 0 disables it.
type RateLimitConfig struct {
	Rate  int `yaml:"rate"`
	Burst int `yaml:"burst"`
}

// Telemetry exporters.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
)

// TelemetryConfig selects where tool call spans and metrics are exported.
type TelemetryConfig struct {
	Exporter string `yaml:"exporter"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Default returns the configuration used when nothing else is supplied.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Name:    "simple-mcp-debug",
			Version: "1.0.0",
		},
		Transport: TransportConfig{
			Mode: TransportStdio,
			Addr: ":8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Telemetry: TelemetryConfig{
			Exporter: ExporterNone,
		},
	}
}

// Load builds a Config. path may be empty; a missing .env file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("Ignoring unreadable .env file: %v", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Name, "MCP_SERVER_NAME")
	setString(&c.Server.Version, "MCP_SERVER_VERSION")
	setString(&c.Transport.Mode, "MCP_TRANSPORT")
	setString(&c.Transport.Addr, "MCP_ADDR")
	setString(&c.Log.Level, "MCP_LOG_LEVEL")
	setString(&c.Log.Format, "MCP_LOG_FORMAT")
	setString(&c.Log.File, "MCP_LOG_FILE")
	setString(&c.Telemetry.Exporter, "MCP_TELEMETRY_EXPORTER")
	if err := setInt(&c.Transport.RateLimit.Rate, "MCP_RATE_LIMIT"); err != nil {
		return err
	}
	return setInt(&c.Transport.RateLimit.Burst, "MCP_RATE_BURST")
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Name) == "" {
		return errors.New("server.name must not be empty")
	}
	switch c.Transport.Mode {
	case TransportStdio:
	case TransportHTTP:
		if c.Transport.Addr == "" {
			return errors.New("transport.addr is required for http transport")
		}
	default:
		return fmt.Errorf("unknown transport mode %q (want %s or %s)", c.Transport.Mode, TransportStdio, TransportHTTP)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	switch c.Telemetry.Exporter {
	case ExporterNone, ExporterStdout:
	default:
		return fmt.Errorf("unknown telemetry exporter %q (want %s or %s)", c.Telemetry.Exporter, ExporterNone, ExporterStdout)
	}
	if c.Transport.RateLimit.Rate < 0 || c.Transport.RateLimit.Burst < 0 {
		return errors.New("transport.rate_limit values must not be negative")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = i
	return nil
}
