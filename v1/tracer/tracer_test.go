package tracer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newTestTracer(t *testing.T) (*Tracer, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tr, err := NewClient(Config{ServiceName: "test", AppEnv: "test"}, nil, sdktrace.WithSyncer(exporter))
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Shutdown(context.Background()) })
	return tr, exporter
}

func TestStartSpan(t *testing.T) {
	tr, exporter := newTestTracer(t)

	ctx, parent := tr.StartSpan(context.Background(), "parent")
	_, child := tr.StartSpan(ctx, "child")
	tr.SetAttributes(child, map[string]interface{}{
		"collection": "docs",
		"limit":      10,
		"exact":      true,
		"ratio":      0.5,
		"other":      []int{1},
	})
	tr.RecordErrorOnSpan(child, errors.New("boom"))
	child.End()
	parent.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "child", spans[0].Name)
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Len(t, spans[0].Attributes, 5)
	assert.Len(t, spans[0].Events, 1)
}

func TestCarrierRoundTrip(t *testing.T) {
	tr, _ := newTestTracer(t)

	ctx, span := tr.StartSpan(context.Background(), "publish")
	defer span.End()

	carrier := tr.GetCarrier(ctx)
	require.Contains(t, carrier, "traceparent")

	restored := propagation.TraceContext{}.Extract(context.Background(), propagation.MapCarrier(carrier))
	_, remote := tr.StartSpan(restored, "consume")
	defer remote.End()
	assert.Equal(t, span.SpanContext().TraceID(), remote.SpanContext().TraceID())

	assert.Empty(t, tr.GetCarrier(context.Background()))
}

func TestFromProvider(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	tr := FromProvider(tp, "example/scope")
	_, span := tr.StartSpan(context.Background(), "op", trace.WithSpanKind(trace.SpanKindClient))
	span.End()

	require.NoError(t, tr.Shutdown(context.Background()))
	_, after := tr.StartSpan(context.Background(), "still recording")
	after.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "example/scope", spans[0].InstrumentationScope.Name)
	assert.Equal(t, trace.SpanKindClient, spans[0].SpanKind)
	assert.Same(t, tp, tr.TracerProvider())
}

func TestShutdownNil(t *testing.T) {
	var tr *Tracer
	assert.NoError(t, tr.Shutdown(context.Background()))
}
