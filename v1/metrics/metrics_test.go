package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Aleph-Alpha/qdrantwire/v1/logger"
	"github.com/Aleph-Alpha/qdrantwire/v1/observability"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestNewMetrics_Defaults(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "svc"})

	assert.Equal(t, DefaultMetricsAddress, m.Server.Addr)

	m.IncrementRequests("qdrant", "query", "ok")
	m.RecordRequestDuration("qdrant", "query", 20*time.Millisecond)

	out := scrape(t, m)
	assert.Contains(t, out, `requests_total{component="qdrant",operation="query",service="svc",status="ok"} 1`)
	assert.Contains(t, out, `request_duration_seconds_count{component="qdrant",operation="query",service="svc"} 1`)
	assert.NotContains(t, out, "go_goroutines")
}

func TestNewMetrics_NamespaceAndCollectors(t *testing.T) {
	m := NewMetrics(Config{Namespace: "search", ServiceName: "svc", EnableDefaultCollectors: true})

	m.CreateGauge("queue_depth", "Queued requests.", []string{"queue"}).WithLabelValues("a").Set(3)

	out := scrape(t, m)
	assert.Contains(t, out, `search_queue_depth{queue="a",service="svc"} 3`)
	assert.Contains(t, out, "go_goroutines")
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, c.Write(&out))
	return out.GetCounter().GetValue()
}

func TestObserveOperation(t *testing.T) {
	m := NewMetrics(Config{Namespace: "search", ServiceName: "svc"})

	var obs observability.Observer = m
	obs.ObserveOperation(observability.OperationContext{Component: "qdrant", Operation: "query", Duration: time.Second})
	obs.ObserveOperation(observability.OperationContext{Component: "qdrant", Operation: "query"})
	obs.ObserveOperation(observability.OperationContext{Component: "qdrant", Operation: "query", Error: errors.New("down")})

	out := scrape(t, m)
	assert.True(t, strings.Contains(out,
		`search_requests_total{component="qdrant",operation="query",service="svc",status="ok"} 2`), out)
	assert.Contains(t, out, `search_requests_total{component="qdrant",operation="query",service="svc",status="error"} 1`)
	assert.Contains(t, out, `search_request_duration_seconds_count{component="qdrant",operation="query",service="svc"} 3`)
	assert.Contains(t, out, `search_request_duration_seconds_sum{component="qdrant",operation="query",service="svc"} 1`)
	assert.Equal(t, 1.0, counterValue(t, m.requestsTotal.WithLabelValues("qdrant", "query", "error")))
}

func TestFXModule(t *testing.T) {
	var m *Metrics
	app := fxtest.New(t,
		FXModule,
		fx.Provide(
			func() Config { return Config{Address: "127.0.0.1:0"} },
			func() *logger.Logger { return logger.NewFromZap(zap.NewNop(), false) },
		),
		fx.Populate(&m),
	)
	app.RequireStart()
	require.NotNil(t, m)
	app.RequireStop()
}
