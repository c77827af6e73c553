package observability

import "context"

// Logger is the subset of *logger.Logger used for operation logs.
type Logger interface {
	DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// LoggingObserver logs successful operations at Debug and failures at Warn,
// correlated with the operation's span.
type LoggingObserver struct {
	Logger Logger

	// Quiet, when set, selects errors that are logged at Debug instead.
	Quiet func(error) bool
}

// ObserveOperation implements Observer.
func (o LoggingObserver) ObserveOperation(op OperationContext) {
	if o.Logger == nil {
		return
	}
	fields := map[string]interface{}{
		"component": op.Component,
		"op":        op.Operation,
		"duration":  op.Duration,
	}
	if op.Resource != "" {
		fields["collection"] = op.Resource
	}
	if op.SubResource != "" {
		fields["target"] = op.SubResource
	}
	if op.Size > 0 {
		fields["size"] = op.Size
	}
	if op.Error != nil && o.Quiet != nil && o.Quiet(op.Error) {
		o.Logger.DebugWithContext(op.Context, "operation failed", op.Error, fields, op.Metadata)
		return
	}
	if op.Error != nil {
		o.Logger.WarnWithContext(op.Context, "operation failed", op.Error, fields, op.Metadata)
		return
	}
	o.Logger.DebugWithContext(op.Context, "operation completed", nil, fields, op.Metadata)
}
