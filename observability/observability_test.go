package observability

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return sr
}

func setupMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumOf(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected int64 sum, got %T", data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if cfg.IntervalSeconds != 15 {
		t.Errorf("expected 15s interval, got %d", cfg.IntervalSeconds)
	}
	if cfg.Enabled() {
		t.Error("expected export disabled without endpoint")
	}
}

func TestInit_Disabled(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{}, "svc", "dev", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("noop shutdown returned %v", err)
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{-1, "AlwaysOffSampler"},
	}
	for _, tc := range tests {
		if got := sampler(tc.rate).Description(); got != tc.want {
			t.Errorf("sampler(%v) = %s, want %s", tc.rate, got, tc.want)
		}
	}
}

func TestOperation_Success(t *testing.T) {
	sr := setupTracer(t)
	m, reader := setupMetrics(t)

	_, op := StartOperation(context.Background(), "summarizer.Summarize", "text", m)
	op.Retry(1, stderrors.New("overloaded"))
	op.End("ok", nil)

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != "summarizer.Summarize" {
		t.Errorf("unexpected span name %s", spans[0].Name())
	}
	if len(spans[0].Events()) != 1 {
		t.Errorf("expected retry event, got %d events", len(spans[0].Events()))
	}

	data := collect(t, reader)
	if got := sumOf(t, data["summarize.total"]); got != 1 {
		t.Errorf("expected summarize.total 1, got %d", got)
	}
	if got := sumOf(t, data["summarize.retry.total"]); got != 1 {
		t.Errorf("expected summarize.retry.total 1, got %d", got)
	}
}

func TestOperation_Error(t *testing.T) {
	sr := setupTracer(t)

	_, op := StartOperation(context.Background(), "summarizer.Summarize", "audio", nil)
	op.End("error", stderrors.New("boom"))

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", spans[0].Status())
	}
}

func TestMetrics_Requests(t *testing.T) {
	m, reader := setupMetrics(t)
	ctx := context.Background()

	m.RecordRequestStart(ctx)
	m.RecordRequestEnd(ctx, "/api/summarize-transcript", 200, 10*time.Millisecond)

	data := collect(t, reader)
	if got := sumOf(t, data["http.server.request.total"]); got != 1 {
		t.Errorf("expected 1 request, got %d", got)
	}
	if got := sumOf(t, data["http.server.request.active"]); got != 0 {
		t.Errorf("expected no active requests, got %d", got)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordRequestStart(ctx)
	m.RecordRequestEnd(ctx, "/health", 200, time.Millisecond)
	m.RecordSummarize(ctx, "text", "ok", time.Millisecond)
	m.RecordRetry(ctx, "text")
}
