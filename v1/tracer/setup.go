package tracer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

// Logger is the subset of *logger.Logger the tracer logs through.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// defaultScope is the instrumentation scope of spans started by NewClient's tracer.
const defaultScope = "github.com/Aleph-Alpha/qdrantwire/v1/tracer"

// Tracer wraps an OpenTelemetry TracerProvider with span helpers and trace
// context propagation. It is safe for concurrent use.
type Tracer struct {
	provider trace.TracerProvider
	tracer   trace.Tracer

	// sdk is set when the Tracer owns the provider and must shut it down.
	sdk    *sdktrace.TracerProvider
	logger Logger
}

// FromProvider wraps an existing provider. Spans are started under the
// given instrumentation scope. Shutdown is a no-op for such a Tracer; the
// provider's owner stops it.
func FromProvider(tp trace.TracerProvider, scope string) *Tracer {
	return &Tracer{provider: tp, tracer: tp.Tracer(scope)}
}

// NewClient builds the tracer provider, installs it as the global provider
// and sets the W3C trace context and baggage propagators.
//
// Extra provider options are appended after the ones derived from cfg; tests
// pass sdktrace.WithSyncer with an in-memory exporter.
//
// Example:
//
//	t, err := tracer.NewClient(tracer.Config{ServiceName: "search-api", AppEnv: "production", EnableExport: true}, log)
//	if err != nil {
//	    return err
//	}
//	client, err := qdrant.NewClient(cfg, qdrant.WithTracer(t))
func NewClient(cfg Config, logger Logger, opts ...sdktrace.TracerProviderOption) (*Tracer, error) {
	var options []sdktrace.TracerProviderOption

	if cfg.EnableExport {
		exporter, err := otlptrace.New(context.Background(), otlptracehttp.NewClient())
		if err != nil {
			return nil, fmt.Errorf("cannot initiate tracer exporter: %w", err)
		}
		options = append(options, sdktrace.WithBatcher(exporter))
	}

	options = append(options, sdktrace.WithResource(resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.DeploymentEnvironment(cfg.AppEnv),
		attribute.String("environment", cfg.AppEnv),
	)))
	options = append(options, opts...)

	tp := sdktrace.NewTracerProvider(options...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagator())

	if logger != nil {
		logger.Info("tracer initialized", nil, map[string]interface{}{
			"service": cfg.ServiceName,
			"export":  cfg.EnableExport,
		})
	}
	return &Tracer{provider: tp, tracer: tp.Tracer(defaultScope), sdk: tp, logger: logger}, nil
}

// TracerProvider returns the provider, for clients that create their own spans.
func (t *Tracer) TracerProvider() trace.TracerProvider {
	return t.provider
}

// Shutdown flushes pending spans and stops the exporter.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t == nil || t.sdk == nil {
		return nil
	}
	return t.sdk.Shutdown(ctx)
}

func propagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})
}
