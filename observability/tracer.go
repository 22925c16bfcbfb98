package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/medsum/logger"
)

const instrumentationName = "github.com/kbukum/medsum"

// Config configures OTLP export. Endpoint is host:port of an OTLP HTTP
// collector (e.g. "localhost:4318"); empty disables export.
type Config struct {
	Endpoint    string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure    bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate  float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
	Environment string  `yaml:"environment" mapstructure:"environment"`
	// IntervalSeconds is the metric export interval.
	IntervalSeconds int `yaml:"interval_seconds" mapstructure:"interval_seconds"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.IntervalSeconds == 0 {
		c.IntervalSeconds = 15
	}
}

// Enabled reports whether an endpoint is configured.
func (c Config) Enabled() bool { return c.Endpoint != "" }

// Init installs the tracer and meter providers when export is enabled and
// returns a shutdown function that flushes both. With export disabled the
// shutdown function is a no-op.
func Init(ctx context.Context, cfg Config, service, version string, log *logger.Logger) (func(context.Context) error, error) {
	cfg.ApplyDefaults()
	if !cfg.Enabled() {
		return func(context.Context) error { return nil }, nil
	}

	tp, err := initTracer(ctx, cfg, service, version)
	if err != nil {
		return nil, err
	}
	mp, err := initMeter(ctx, cfg, service, version)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	if log != nil {
		log.Info("telemetry export enabled", logger.Fields(
			"endpoint", cfg.Endpoint,
			"sample_rate", cfg.SampleRate,
		))
	}

	return func(ctx context.Context) error {
		terr := tp.Shutdown(ctx)
		merr := mp.Shutdown(ctx)
		if terr != nil {
			return terr
		}
		return merr
	}, nil
}

func initTracer(ctx context.Context, cfg Config, service, version string) (*sdktrace.TracerProvider, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	res, err := newResource(service, version, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SampleRate)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp, nil
}

func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1.0:
		return sdktrace.AlwaysSample()
	case rate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}

func newResource(service, version, environment string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
			semconv.ServiceVersion(version),
			attribute.String("environment", environment),
		),
	)
}

// Tracer returns the package tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// Attribute keys.
const (
	AttrOperation  = "operation.name"
	AttrRequestID  = "request.id"
	AttrKind       = "summarize.kind"
	AttrLanguage   = "summarize.language"
	AttrBackend    = "llm.backend"
	AttrAttempts   = "summarize.attempts"
	AttrStatus     = "status"
	AttrDurationMs = "duration_ms"
)
