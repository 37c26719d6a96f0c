// Package dispatch routes tool invocations to their handlers and turns every
// outcome, including handler failures and panics, into a Result.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"simple-mcp-server/internal/catalog"
	"simple-mcp-server/internal/logger"
	"simple-mcp-server/internal/tools"
)

const instrumentationName = "simple-mcp-server/internal/dispatch"

// Dispatcher invokes the handler registered for a tool name.
type Dispatcher struct {
	catalog  *catalog.Catalog
	state    *State
	handlers map[string]tools.Handler

	tracer   trace.Tracer
	calls    metric.Int64Counter
	failures metric.Int64Counter
	duration metric.Float64Histogram
}

// Option configures a Dispatcher.
type Option func(*options)

type options struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// WithTracerProvider sets the tracer provider. Defaults to the global one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// WithMeterProvider sets the meter provider. Defaults to the global one.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		o.meterProvider = mp
	}
}

// New creates a Dispatcher. Every catalog entry must have a handler and every
// handler must name a catalog entry.
func New(cat *catalog.Catalog, state *State, handlers map[string]tools.Handler, opts ...Option) (*Dispatcher, error) {
	if err := checkRegistrations(cat, handlers); err != nil {
		return nil, err
	}

	o := &options{
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(o)
	}

	meter := o.meterProvider.Meter(instrumentationName)
	calls, _ := meter.Int64Counter(
		"mcp.server.tool_calls",
		metric.WithDescription("Total number of tool invocations"),
		metric.WithUnit("{call}"),
	)
	failures, _ := meter.Int64Counter(
		"mcp.server.tool_errors",
		metric.WithDescription("Tool invocations that produced an error result"),
		metric.WithUnit("{error}"),
	)
	duration, _ := meter.Float64Histogram(
		"mcp.server.tool_call.duration",
		metric.WithDescription("Duration of tool invocations"),
		metric.WithUnit("ms"),
	)

	registered := make(map[string]tools.Handler, len(handlers))
	for name, h := range handlers {
		registered[name] = h
	}

	return &Dispatcher{
		catalog:  cat,
		state:    state,
		handlers: registered,
		tracer:   o.tracerProvider.Tracer(instrumentationName),
		calls:    calls,
		failures: failures,
		duration: duration,
	}, nil
}

func checkRegistrations(cat *catalog.Catalog, handlers map[string]tools.Handler) error {
	var missing, extra []string
	for _, name := range cat.Names() {
		if handlers[name] == nil {
			missing = append(missing, name)
		}
	}
	for name := range handlers {
		if _, err := cat.Find(name); err != nil {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	if len(missing) > 0 {
		return fmt.Errorf("no handler registered for tools %v", missing)
	}
	if len(extra) > 0 {
		return fmt.Errorf("handlers registered for unknown tools %v", extra)
	}
	return nil
}

// State returns the server state the dispatcher counts requests in.
func (d *Dispatcher) State() *State {
	return d.state
}

// Dispatch counts the request, runs the named tool and returns its outcome.
// It never panics and never returns a Go error: failures are error Results.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]interface{}) Result {
	n := d.state.Record()
	if args == nil {
		args = map[string]interface{}{}
	}

	ctx, span := d.tracer.Start(ctx, "mcp.tools/call",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("mcp.tool", name),
			attribute.Int64("mcp.request_number", n),
		),
	)
	defer span.End()

	logger.Message("call_tool", "request", log.Fields{"tool_name": name, "arguments": args, "request": n})
	start := time.Now()

	res := d.invoke(ctx, name, args)

	elapsed := time.Since(start)
	attrs := metric.WithAttributes(attribute.String("mcp.tool", name))
	d.calls.Add(ctx, 1, attrs)
	d.duration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)

	if !res.OK() {
		span.SetStatus(codes.Error, res.Err.Message)
		span.SetAttributes(attribute.String("mcp.error_kind", res.Err.Kind.String()))
		d.failures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("mcp.tool", name),
			attribute.String("mcp.error_kind", res.Err.Kind.String()),
		))
		logger.Message("call_tool", "error", log.Fields{
			"tool_name":  name,
			"error_kind": res.Err.Kind.String(),
			"error":      res.Err.Message,
		})
		return res
	}

	span.SetStatus(codes.Ok, "")
	logger.Message("call_tool", "response", log.Fields{
		"tool_name":       name,
		"success":         true,
		"response_length": len(res.Text),
		"duration":        elapsed,
	})
	return res
}

// invoke looks the tool up and runs its handler, recovering from panics.
func (d *Dispatcher) invoke(ctx context.Context, name string, args tools.ArgumentMap) (res Result) {
	if _, err := d.catalog.Find(name); err != nil {
		return Failure(tools.UnknownTool, "Unknown tool: "+name)
	}
	if !d.catalog.Validate(name, args) {
		log.WithFields(log.Fields{"tool_name": name, "arguments": map[string]interface{}(args)}).
			Debug("Arguments do not match the declared parameters; the handler decides")
	}
	handler := d.handlers[name]

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Tool %s panicked: %v", name, r)
			res = Failure(tools.InternalError, fmt.Sprintf("panic: %v", r))
		}
	}()

	text, err := handler(ctx, args)
	if err != nil {
		var toolErr *tools.ToolError
		if errors.As(err, &toolErr) {
			return Result{Err: toolErr}
		}
		return Failure(tools.InvalidArgument, err.Error())
	}
	return Success(text)
}
