package observability

import (
	"context"
	"time"
)

// OperationContext describes one finished client operation.
type OperationContext struct {
	// Context is the operation's context, carrying its span. May be nil.
	Context context.Context

	// Component names the client that ran the operation, e.g. "qdrant".
	Component string

	// Operation is the operation name, e.g. "upsert" or "query_batch".
	Operation string

	// Resource is the primary target, e.g. a collection name. May be empty.
	Resource string

	// SubResource narrows Resource, e.g. a snapshot or field name.
	SubResource string

	Duration time.Duration

	// Error is nil on success.
	Error error

	// Size is an operation-specific count: points written, hits returned.
	Size int64

	Metadata map[string]interface{}
}

// Status returns "ok" or "error".
func (c OperationContext) Status() string {
	if c.Error != nil {
		return "error"
	}
	return "ok"
}

// Observer receives an event after every client operation.
// Implementations must be safe for concurrent use and must not block.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(OperationContext)

func (f ObserverFunc) ObserveOperation(ctx OperationContext) { f(ctx) }

// Multi fans an event out to every non-nil observer, in order.
func Multi(observers ...Observer) Observer {
	var out multi
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

type multi []Observer

func (m multi) ObserveOperation(ctx OperationContext) {
	for _, o := range m {
		o.ObserveOperation(ctx)
	}
}
