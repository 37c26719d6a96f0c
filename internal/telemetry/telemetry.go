// Package telemetry installs the OpenTelemetry providers the dispatcher
// reports tool call spans and metrics to.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"simple-mcp-server/internal/config"
)

// Options configures Setup.
type Options struct {
	Exporter       string
	ServiceName    string
	ServiceVersion string
	// Output defaults to stderr; stdout belongs to the stdio transport.
	Output io.Writer
	// MetricInterval defaults to one minute. Metrics are also flushed on shutdown.
	MetricInterval time.Duration
}

// Providers holds the SDK providers installed by Setup.
type Providers struct {
	Tracer *sdktrace.TracerProvider
	Meter  *sdkmetric.MeterProvider
}

// Shutdown flushes and stops both providers. It is a no-op on nil.
func (p *Providers) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	return errors.Join(p.Tracer.Shutdown(ctx), p.Meter.Shutdown(ctx))
}

// Setup installs SDK providers as the otel globals. With the "none" exporter
// the no-op globals stay in place and Setup returns nil Providers.
func Setup(opts Options) (*Providers, error) {
	switch opts.Exporter {
	case "", config.ExporterNone:
		return nil, nil
	case config.ExporterStdout:
	default:
		return nil, fmt.Errorf("unknown telemetry exporter %q", opts.Exporter)
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	interval := opts.MetricInterval
	if interval <= 0 {
		interval = time.Minute
	}

	traceExp, err := stdouttrace.New(stdouttrace.WithWriter(out))
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}
	metricExp, err := stdoutmetric.New(stdoutmetric.WithWriter(out))
	if err != nil {
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", opts.ServiceName),
		attribute.String("service.version", opts.ServiceVersion),
	)
	p := &Providers{
		Tracer: sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(traceExp),
			sdktrace.WithResource(res),
		),
		Meter: sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp, sdkmetric.WithInterval(interval))),
			sdkmetric.WithResource(res),
		),
	}
	otel.SetTracerProvider(p.Tracer)
	otel.SetMeterProvider(p.Meter)

	log.Infof("📈 Telemetry exporting to %s every %s", opts.Exporter, interval)
	return p, nil
}
