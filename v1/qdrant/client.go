package qdrant

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Aleph-Alpha/qdrantwire/v1/logger"
	"github.com/Aleph-Alpha/qdrantwire/v1/observability"
	"github.com/Aleph-Alpha/qdrantwire/v1/tracer"
	"github.com/Aleph-Alpha/qdrantwire/v1/vectordb"
	"github.com/Aleph-Alpha/qdrantwire/v1/wire/rest"
	"github.com/Aleph-Alpha/qdrantwire/v1/wire/rpc"
	qc "github.com/qdrant/go-client/qdrant"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

//
// ──────────────────────────────────────────────────────────────
//   QDRANT CLIENT
// ──────────────────────────────────────────────────────────────
//
// Client is the operation facade: one method per server operation, each
// running through a protocol backend (gRPC or REST) chosen by Config.
//
// Responsibilities:
//   • Apply the TLS policy before any network activity.
//   • Build the backend for the configured protocol.
//   • Trace, log and measure every operation.
//

const tracerName = "github.com/Aleph-Alpha/qdrantwire/v1/qdrant"

// Backend is a protocol implementation of the operations, plus the health
// check and connection release. rpc.Backend and rest.Backend implement it.
type Backend interface {
	vectordb.Service
	Health(ctx context.Context) (*vectordb.HealthInfo, error)
	Close() error
}

// Logger is an interface that matches the v1/logger.Logger method set.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// Client wraps a protocol backend with configuration, tracing, logging and
// metrics. It is safe for concurrent use.
type Client struct {
	backend  Backend
	cfg      *Config
	useTLS   bool
	logger   Logger
	observer observability.Observer
	tracer   *tracer.Tracer

	closeOnce sync.Once
	closeErr  error
}

var _ vectordb.Service = (*Client)(nil)

// Option customises a Client at construction.
type Option func(*Client)

// WithLogger sets the logger used for lifecycle and operation logs.
func WithLogger(l Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithObserver adds an observer notified after every operation, e.g. a
// *metrics.Metrics.
func WithObserver(o observability.Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithTracerProvider sets the provider of operation spans. The global
// provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) { c.tracer = tracer.FromProvider(tp, tracerName) }
}

// WithTracer is WithTracerProvider for a Tracer from tracer.NewClient.
func WithTracer(t *tracer.Tracer) Option {
	return WithTracerProvider(t.TracerProvider())
}

// WithBackend replaces the backend built from Config. The TLS policy is
// still enforced.
func WithBackend(b Backend) Option {
	return func(c *Client) { c.backend = b }
}

// NewClient ──────────────────────────────────────────────────────────────
// NewClient
// ──────────────────────────────────────────────────────────────
//
// NewClient validates cfg, applies the TLS policy and builds the backend for
// cfg.Protocol. A remote host with TLS explicitly disabled fails with
// TlsRequiredForRemoteHost before any connection is attempted.
//
// Connections are established lazily; use Health to check reachability.
//
// Example:
//
//	client, err := qdrant.NewClient(qdrant.FromHost("localhost"))
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
func NewClient(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, &vectordb.Error{Kind: vectordb.KindInvalidArgument, Message: err.Error(), Err: err}
	}

	useTLS, err := ResolveTLS(cfg.Host, cfg.UseTLS)
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:    cfg,
		useTLS: useTLS,
		logger: logger.NewFromZap(zap.NewNop(), false),
		tracer: tracer.FromProvider(otel.GetTracerProvider(), tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.observer = observability.Multi(observability.LoggingObserver{Logger: c.logger, Quiet: vectordb.IsNotFound}, c.observer)

	if c.backend == nil {
		c.backend, err = dial(cfg, useTLS, c.tracer)
		if err != nil {
			return nil, err
		}
	}

	c.logger.Info("[Qdrant] client created", nil, map[string]interface{}{
		"host":     cfg.Host,
		"port":     cfg.port(),
		"protocol": string(cfg.Protocol),
		"tls":      useTLS,
	})
	return c, nil
}

func dial(cfg *Config, useTLS bool, t *tracer.Tracer) (Backend, error) {
	switch cfg.Protocol {
	case ProtocolREST:
		transport, err := rest.NewHTTPTransport(cfg.baseURL(useTLS), cfg.APIKey, cfg.Timeout, rest.WithTraceCarrier(t.GetCarrier))
		if err != nil {
			return nil, err
		}
		return rest.NewBackend(transport), nil
	default:
		qcfg := &qc.Config{
			Host:                   strings.Trim(cfg.Host, "[]"),
			Port:                   cfg.GRPCPort,
			APIKey:                 cfg.APIKey,
			UseTLS:                 useTLS,
			SkipCompatibilityCheck: !cfg.CheckCompatibility,
			PoolSize:               cfg.PoolSize,
		}
		interceptors := []grpc.UnaryClientInterceptor{traceInterceptor(t)}
		if cfg.Timeout > 0 {
			interceptors = append(interceptors, timeoutInterceptor(cfg.Timeout))
		}
		qcfg.GrpcOptions = append(qcfg.GrpcOptions, grpc.WithChainUnaryInterceptor(interceptors...))
		client, err := qc.NewClient(qcfg)
		if err != nil {
			return nil, &vectordb.Error{
				Kind:    vectordb.KindConnectionFailed,
				Message: fmt.Sprintf("[Qdrant] failed to initialize client: %v", err),
				Err:     err,
			}
		}
		return rpc.NewBackend(client), nil
	}
}

// timeoutInterceptor bounds calls whose context carries no deadline.
func timeoutInterceptor(d time.Duration) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d)
			defer cancel()
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// traceInterceptor sends the trace context of each call as gRPC metadata.
func traceInterceptor(t *tracer.Tracer) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if carrier := t.GetCarrier(ctx); len(carrier) > 0 {
			pairs := make([]string, 0, 2*len(carrier))
			for k, v := range carrier {
				pairs = append(pairs, k, v)
			}
			ctx = metadata.AppendToOutgoingContext(ctx, pairs...)
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

func (cfg *Config) port() int {
	if cfg.Protocol == ProtocolREST {
		return cfg.RESTPort
	}
	return cfg.GRPCPort
}

func (cfg *Config) baseURL(useTLS bool) string {
	scheme := "http"
	if useTLS {
		scheme = "https"
	}
	host := strings.Trim(cfg.Host, "[]")
	return scheme + "://" + net.JoinHostPort(host, strconv.Itoa(cfg.RESTPort))
}

// Protocol returns the wire protocol in use.
func (c *Client) Protocol() Protocol { return c.cfg.Protocol }

// TLS reports whether connections use TLS.
func (c *Client) TLS() bool { return c.useTLS }

// Backend returns the protocol backend, for direct access without
// instrumentation.
func (c *Client) Backend() Backend { return c.backend }

// Health asks the server for its title and version.
func (c *Client) Health(ctx context.Context) (*vectordb.HealthInfo, error) {
	return run(c, ctx, "health", "", c.backend.Health, none[*vectordb.HealthInfo])
}

// Close ──────────────────────────────────────────────────────────────
// Close
// ──────────────────────────────────────────────────────────────
//
// Close releases the backend's connections. Later calls return the result
// of the first.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.backend.Close()
		if c.closeErr != nil {
			c.logger.Warn("[Qdrant] failed to close client", c.closeErr, nil)
			return
		}
		c.logger.Info("[Qdrant] client closed", nil, nil)
	})
	return c.closeErr
}
