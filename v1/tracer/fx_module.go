package tracer

import (
	"context"

	"github.com/Aleph-Alpha/qdrantwire/v1/logger"
	"go.uber.org/fx"
)

// FXModule provides a *Tracer and flushes it on shutdown.
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    tracer.FXModule,
//	    fx.Provide(func() tracer.Config { return tracer.Config{ServiceName: "search-api"} }),
//	)
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewClientFromParams,
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// TracerParams defines dependencies needed to construct the tracer.
type TracerParams struct {
	fx.In

	Config Config
	Logger *logger.Logger `optional:"true"`
}

// NewClientFromParams builds a Tracer from Fx-provided dependencies.
func NewClientFromParams(p TracerParams) (*Tracer, error) {
	var l Logger
	if p.Logger != nil {
		l = p.Logger
	}
	return NewClient(p.Config, l)
}

// RegisterTracerLifecycle flushes pending spans when the application stops.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if tracer.logger != nil {
				tracer.logger.Info("shutting down tracer", nil, nil)
			}
			return tracer.Shutdown(ctx)
		},
	})
}
