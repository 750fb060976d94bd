package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Tracer wraps OpenTelemetry with the spans this orchestrator emits: one
// per invocation, plus a child span per PLAN/FAN_OUT/FINAL stage.
type Tracer struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// TraceConfig configures the tracer.
type TraceConfig struct {
	// ServiceName identifies this service in traces.
	ServiceName string

	// ServiceVersion identifies the service version.
	ServiceVersion string

	// Endpoint is the OTLP collector endpoint (e.g. "localhost:4317"). If
	// empty, tracing is a no-op: spans are created but never exported.
	Endpoint string

	// SamplingRate controls what fraction of traces are recorded.
	// Defaults to 1.0.
	SamplingRate float64

	// EnableInsecure disables TLS for the OTLP connection (dev only).
	EnableInsecure bool
}

// NewTracer creates a tracer from config. It returns the tracer and a
// shutdown function that must be called on exit. If config.Endpoint is
// empty, the returned tracer is a no-op.
func NewTracer(config TraceConfig) (*Tracer, func(context.Context) error) {
	if config.ServiceName == "" {
		config.ServiceName = "assistant"
	}

	if config.Endpoint == "" {
		return &Tracer{tracer: otel.Tracer(config.ServiceName)}, func(context.Context) error { return nil }
	}

	if config.SamplingRate == 0 {
		config.SamplingRate = 1.0
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(config.Endpoint)}
	if config.EnableInsecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptrace.New(context.Background(), otlptracegrpc.NewClient(opts...))
	if err != nil {
		return &Tracer{tracer: otel.Tracer(config.ServiceName)}, func(context.Context) error { return nil }
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(config.ServiceName),
			semconv.ServiceVersion(config.ServiceVersion),
		),
	)
	if err != nil {
		res = resource.Default()
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(config.SamplingRate)),
	)
	otel.SetTracerProvider(provider)

	return &Tracer{provider: provider, tracer: provider.Tracer(config.ServiceName)}, provider.Shutdown
}

// Start begins a span named name and returns the derived context.
func (t *Tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// RecordError marks span as errored and attaches err.
func (t *Tracer) RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// TraceInvocation starts the top-level span for one AnswerToUserRequest
// turn, tagged with the conversation ID.
func (t *Tracer) TraceInvocation(ctx context.Context, conversationID string) (context.Context, trace.Span) {
	return t.Start(ctx, "orchestrator.invoke", attribute.String("conversation_id", conversationID))
}

// TracePlan starts the span around the PLAN stage.
func (t *Tracer) TracePlan(ctx context.Context) (context.Context, trace.Span) {
	return t.Start(ctx, "orchestrator.plan")
}

// TraceFanOut starts the span around the FAN_OUT stage.
func (t *Tracer) TraceFanOut(ctx context.Context, taskCount int) (context.Context, trace.Span) {
	return t.Start(ctx, "orchestrator.fan_out", attribute.Int("task_count", taskCount))
}

// TraceTask starts the span around one dispatched task.
func (t *Tracer) TraceTask(ctx context.Context, taskID, agentName string) (context.Context, trace.Span) {
	return t.Start(ctx, "orchestrator.task", attribute.String("task_id", taskID), attribute.String("agent_name", agentName))
}

// TraceFinal starts the span around the FINAL synthesis stage.
func (t *Tracer) TraceFinal(ctx context.Context) (context.Context, trace.Span) {
	return t.Start(ctx, "orchestrator.final")
}
