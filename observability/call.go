package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/petjeaf/petjeaf-go/errors"
)

// Instrumentation traces and measures API calls.
type Instrumentation struct {
	tracer  trace.Tracer
	metrics *Metrics
}

// NewInstrumentation builds instrumentation on the given providers. Nil
// providers fall back to the global ones.
func NewInstrumentation(tp trace.TracerProvider, mp metric.MeterProvider) (*Instrumentation, error) {
	m, err := NewMetrics(Meter(mp))
	if err != nil {
		return nil, err
	}
	return &Instrumentation{tracer: Tracer(tp), metrics: m}, nil
}

// CallInfo describes an outbound API call.
type CallInfo struct {
	Method    string
	Path      string
	Host      string
	RequestID string
}

// Call is an in-flight instrumented API call.
type Call struct {
	span    trace.Span
	metrics *Metrics
	method  string
	start   time.Time
}

// Start opens a client span for the call and counts it as in flight.
func (i *Instrumentation) Start(ctx context.Context, info CallInfo) (context.Context, *Call) {
	ctx, span := i.tracer.Start(ctx, "petjeaf "+info.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(AttrHTTPMethod, info.Method),
			attribute.String(AttrURLPath, info.Path),
			attribute.String(AttrServerAddress, info.Host),
			attribute.String(AttrRequestID, info.RequestID),
		),
	)
	i.metrics.RecordStart(ctx, info.Method)
	return ctx, &Call{span: span, metrics: i.metrics, method: info.Method, start: time.Now()}
}

// End closes the span and records the outcome. status is the HTTP status
// of the response, 0 when none arrived.
func (c *Call) End(ctx context.Context, status int, err error) {
	code := ""
	if err != nil {
		code = "UNKNOWN"
		if appErr, ok := errors.As(err); ok {
			code = string(appErr.Code)
			if status == 0 {
				status = appErr.HTTPStatus
			}
		}
		c.span.RecordError(err)
		c.span.SetStatus(codes.Error, err.Error())
		c.span.SetAttributes(attribute.String(AttrErrorCode, code))
	}
	if status > 0 {
		c.span.SetAttributes(attribute.Int(AttrHTTPStatus, status))
	}
	c.span.End()
	c.metrics.RecordEnd(ctx, c.method, status, code, time.Since(c.start))
}

// InjectHeaders writes the trace context of ctx into headers using the
// global propagator.
func InjectHeaders(ctx context.Context, headers map[string]string) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(headers))
}
