package qdrant

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Aleph-Alpha/qdrantwire/v1/logger"
	"github.com/Aleph-Alpha/qdrantwire/v1/metrics"
	"github.com/Aleph-Alpha/qdrantwire/v1/tracer"
	"github.com/Aleph-Alpha/qdrantwire/v1/vectordb"
	"go.uber.org/fx"
)

// startupHealthTimeout bounds the health check run when the application starts.
const startupHealthTimeout = 3 * time.Second

// FXModule defines the Fx module for the Qdrant client.
//
// The module:
//  1. Provides *Client, built from *Config and the optional *logger.Logger,
//     *metrics.Metrics and *tracer.Tracer, and exposes it as vectordb.Service.
//  2. Invokes RegisterQdrantLifecycle, which checks server health on start
//     and closes the client on stop.
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    metrics.FXModule,
//	    qdrant.FXModule,
//	    fx.Provide(func() (*qdrant.Config, error) { return qdrant.LoadConfigFromEnv() }),
//	)
//
// Dependencies required by this module:
// - A *qdrant.Config instance must be available in the dependency injection container.
var FXModule = fx.Module("qdrant",
	fx.Provide(
		NewClientFromParams,
		func(c *Client) vectordb.Service { return c },
	),
	fx.Invoke(RegisterQdrantLifecycle),
)

// QdrantParams defines dependencies needed to construct the Qdrant client.
type QdrantParams struct {
	fx.In

	Config  *Config
	Logger  *logger.Logger   `optional:"true"`
	Metrics *metrics.Metrics `optional:"true"`
	Tracer  *tracer.Tracer   `optional:"true"`
}

// NewClientFromParams builds a Client from Fx-provided dependencies. When
// metrics are available, operations are recorded in their registry and a
// <namespace>_client_info gauge describes the connection.
func NewClientFromParams(p QdrantParams) (*Client, error) {
	var opts []Option
	if p.Logger != nil {
		opts = append(opts, WithLogger(p.Logger))
	}
	if p.Metrics != nil {
		opts = append(opts, WithObserver(p.Metrics))
	}
	if p.Tracer != nil {
		opts = append(opts, WithTracer(p.Tracer))
	}
	client, err := NewClient(p.Config, opts...)
	if err != nil {
		return nil, err
	}
	if p.Metrics != nil {
		p.Metrics.CreateGauge("client_info", "Configured database clients, always 1.", []string{"component", "host", "protocol", "tls"}).
			WithLabelValues(component, client.cfg.Host, string(client.Protocol()), strconv.FormatBool(client.TLS())).
			Set(1)
	}
	return client, nil
}

// RegisterQdrantLifecycle handles startup/shutdown of the Qdrant client.
//
// OnStart fails the application when the server does not answer a health
// check. OnStop closes the client.
func RegisterQdrantLifecycle(lc fx.Lifecycle, client *Client) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, startupHealthTimeout)
			defer cancel()

			info, err := client.Health(ctx)
			if err != nil {
				client.logger.ErrorWithContext(ctx, "[Qdrant] health check failed", err, map[string]interface{}{
					"host": client.cfg.Host,
				})
				return fmt.Errorf("[Qdrant] health check failed: %w", err)
			}
			client.logger.Info("[Qdrant] health check passed", nil, map[string]interface{}{
				"title":   info.Title,
				"version": info.Version,
				"host":    client.cfg.Host,
			})
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
