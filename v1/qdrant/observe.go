package qdrant

import (
	"context"
	"time"

	"github.com/Aleph-Alpha/qdrantwire/v1/observability"
	"github.com/Aleph-Alpha/qdrantwire/v1/vectordb"
	"go.opentelemetry.io/otel/trace"
)

const component = "qdrant"

// run executes one operation inside a client span and reports it to the
// observer. size extracts the number of items the operation returned.
func run[T any](c *Client, ctx context.Context, op, collection string, call func(context.Context) (T, error), size func(T) int64) (T, error) {
	ctx, span := c.tracer.StartSpan(ctx, "qdrant."+op, trace.WithSpanKind(trace.SpanKindClient))
	attrs := map[string]interface{}{
		"db.system":         "qdrant",
		"db.operation.name": op,
		"qdrant.protocol":   string(c.cfg.Protocol),
	}
	if collection != "" {
		attrs["db.collection.name"] = collection
	}
	c.tracer.SetAttributes(span, attrs)

	start := time.Now()
	out, err := call(ctx)
	duration := time.Since(start)

	var n int64
	if err != nil {
		c.tracer.RecordErrorOnSpan(span, err)
		c.tracer.SetAttributes(span, map[string]interface{}{"qdrant.error_kind": vectordb.KindOf(err).String()})
	} else {
		n = size(out)
	}
	span.End()

	c.observeOperation(ctx, op, collection, duration, err, n)
	return out, err
}

// exec is run for operations without a result.
func exec(c *Client, ctx context.Context, op, collection string, call func(context.Context) error) error {
	_, err := run(c, ctx, op, collection, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, call(ctx)
	}, none[struct{}])
	return err
}

// observeOperation notifies the observer about an operation if one is configured.
func (c *Client) observeOperation(ctx context.Context, operation, resource string, duration time.Duration, err error, size int64) {
	if c == nil || c.observer == nil {
		return
	}
	metadata := map[string]interface{}{"protocol": string(c.cfg.Protocol)}
	if err != nil {
		metadata["error_kind"] = vectordb.KindOf(err).String()
	}
	c.observer.ObserveOperation(observability.OperationContext{
		Context:   ctx,
		Component: component,
		Operation: operation,
		Resource:  resource,
		Duration:  duration,
		Error:     err,
		Size:      size,
		Metadata:  metadata,
	})
}

func none[T any](T) int64 { return 0 }

func count[T any](s []T) int64 { return int64(len(s)) }

func countBatch[T any](s [][]T) int64 {
	var n int64
	for _, r := range s {
		n += int64(len(r))
	}
	return n
}
