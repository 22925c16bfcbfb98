package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Operation tracks one traced summarize call.
type Operation struct {
	ctx     context.Context
	span    trace.Span
	kind    string
	start   time.Time
	metrics *Metrics
}

// StartOperation starts a span named name. metrics may be nil.
func StartOperation(ctx context.Context, name, kind string, metrics *Metrics, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	ctx, span := Tracer().Start(ctx, name, trace.WithAttributes(
		append([]attribute.KeyValue{
			attribute.String(AttrOperation, name),
			attribute.String(AttrKind, kind),
		}, attrs...)...,
	))
	return ctx, &Operation{
		ctx:     ctx,
		span:    span,
		kind:    kind,
		start:   time.Now(),
		metrics: metrics,
	}
}

// Retry records a retry on the span and in metrics.
func (o *Operation) Retry(attempt int, err error) {
	o.span.AddEvent("retry", trace.WithAttributes(
		attribute.Int("attempt", attempt),
		attribute.String("error", err.Error()),
	))
	o.metrics.RecordRetry(o.ctx, o.kind)
}

// End ends the span and records the outcome.
func (o *Operation) End(status string, err error) {
	duration := time.Since(o.start)
	if err != nil {
		o.span.RecordError(err)
		o.span.SetStatus(codes.Error, err.Error())
	}
	o.span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	o.span.End()
	o.metrics.RecordSummarize(o.ctx, o.kind, status, duration)
}

// Duration returns the time since the operation started.
func (o *Operation) Duration() time.Duration {
	return time.Since(o.start)
}
