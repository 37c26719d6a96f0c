package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"simple-mcp-server/internal/config"
	"simple-mcp-server/internal/logger"
	"simple-mcp-server/internal/server"
	"simple-mcp-server/internal/telemetry"
	"simple-mcp-server/pkg/mcp"
	"simple-mcp-server/pkg/protocol"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("💥 Server failed: %v", err)
	}
}

func run() error {
	var (
		configPath  = flag.String("config", "", "path to a YAML config file")
		transport   = flag.String("transport", "", "transport to serve on: stdio or http")
		addr        = flag.String("addr", "", "listen address for the http transport")
		debugReport = flag.Bool("debug-report", false, "print a debug report and exit")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *transport != "" {
		cfg.Transport.Mode = *transport
	}
	if *addr != "" {
		cfg.Transport.Addr = *addr
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	closeLog, err := logger.Setup(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return err
	}
	defer closeLog()

	providers, err := telemetry.Setup(telemetry.Options{
		Exporter:       cfg.Telemetry.Exporter,
		ServiceName:    cfg.Server.Name,
		ServiceVersion: cfg.Server.Version,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Errorf("Telemetry shutdown failed: %v", err)
		}
	}()

	srv, err := server.New(server.Options{
		Name:    cfg.Server.Name,
		Version: cfg.Server.Version,
	})
	if err != nil {
		return err
	}

	if *debugReport {
		fmt.Print(srv.DebugReport())
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mcpServer := mcp.NewServer(cfg.Server.Name, cfg.Server.Version, protocol.ServerCapabilities{
		Tools:   &protocol.ServerToolCapabilities{},
		Prompts: &protocol.ServerPromptCapabilities{},
	}, srv,
		mcp.WithInstructions(cfg.Server.Instructions),
		mcp.WithRateLimit(cfg.Transport.RateLimit.Rate, cfg.Transport.RateLimit.Burst),
	)

	log.Infof("🌟 Starting %s v%s on %s transport", cfg.Server.Name, cfg.Server.Version, cfg.Transport.Mode)

	switch cfg.Transport.Mode {
	case config.TransportHTTP:
		err = mcpServer.ListenAndServe(ctx, cfg.Transport.Addr)
	default:
		err = mcpServer.ServeStdio(ctx, os.Stdin, os.Stdout)
	}
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	log.Infof("🛑 Server stopped after %d requests", srv.State().Requests())
	return err
}
