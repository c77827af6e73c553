package qdrant

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Aleph-Alpha/qdrantwire/v1/logger"
	"github.com/Aleph-Alpha/qdrantwire/v1/metrics"
	"github.com/Aleph-Alpha/qdrantwire/v1/tracer"
	"github.com/Aleph-Alpha/qdrantwire/v1/vectordb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFXModule(t *testing.T) {
	_, cfg := restServer(t)

	var (
		client *Client
		svc    vectordb.Service
		m      *metrics.Metrics
	)
	app := fxtest.New(t,
		FXModule,
		fx.Provide(
			func() *Config { return cfg },
			func() *logger.Logger { return logger.NewFromZap(zap.NewNop(), false) },
			func() *metrics.Metrics { return metrics.NewMetrics(metrics.Config{Namespace: "test", ServiceName: "qdrant"}) },
		),
		fx.Populate(&client, &svc, &m),
	)
	app.RequireStart()

	assert.Same(t, client, svc)
	_, err := svc.ListCollections(context.Background())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	m.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `test_requests_total{component="qdrant",operation="health",service="qdrant",status="ok"} 1`)
	assert.Contains(t, string(body), `test_requests_total{component="qdrant",operation="list_collections",service="qdrant",status="ok"} 1`)
	assert.Contains(t, string(body), `test_request_duration_seconds_count{component="qdrant",operation="health",service="qdrant"} 1`)
	assert.Contains(t, string(body), `test_client_info{component="qdrant",host="`+cfg.Host+`",protocol="rest",service="qdrant",tls="false"} 1`)

	app.RequireStop()
}

func TestFXModule_WithoutOptionalDependencies(t *testing.T) {
	_, cfg := restServer(t)

	var client *Client
	app := fxtest.New(t,
		FXModule,
		fx.Provide(func() *Config { return cfg }),
		fx.Populate(&client),
	)
	app.RequireStart()
	require.NotNil(t, client)
	app.RequireStop()
}

func TestFXModule_HealthCheckFailureStopsStart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	core, logs := observer.New(zapcore.ErrorLevel)
	app := fx.New(
		FXModule,
		fx.Provide(
			func() *Config { return configFor(t, srv) },
			func() *logger.Logger { return logger.NewFromZap(zap.New(core), false) },
		),
		fx.NopLogger,
	)
	err := app.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, vectordb.KindInternalError, vectordb.KindOf(err))
	assert.Equal(t, 1, logs.FilterMessage("[Qdrant] health check failed").Len())
}

func TestFXModule_WithTracer(t *testing.T) {
	_, cfg := restServer(t)
	exporter := tracetest.NewInMemoryExporter()

	var client *Client
	app := fxtest.New(t,
		FXModule,
		fx.Provide(
			func() *Config { return cfg },
			func() (*tracer.Tracer, error) {
				return tracer.NewClient(tracer.Config{ServiceName: "test"}, nil, sdktrace.WithSyncer(exporter))
			},
		),
		fx.Populate(&client),
	)
	app.RequireStart()

	_, err := client.ListCollections(context.Background())
	require.NoError(t, err)
	app.RequireStop()

	names := make([]string, 0)
	for _, span := range exporter.GetSpans() {
		names = append(names, span.Name)
	}
	assert.Contains(t, names, "qdrant.health")
	assert.Contains(t, names, "qdrant.list_collections")
}
