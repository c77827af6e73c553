package metrics

import (
	"time"

	"github.com/Aleph-Alpha/qdrantwire/v1/observability"
	"github.com/prometheus/client_golang/prometheus"
)

// IncrementRequests increments the request counter of one operation.
// Example: metrics.IncrementRequests("qdrant", "upsert", "ok")
func (m *Metrics) IncrementRequests(component, operation, status string) {
	m.requestsTotal.WithLabelValues(component, operation, status).Inc()
}

// RecordRequestDuration records the duration (in seconds) of one operation.
// Example: metrics.RecordRequestDuration("qdrant", "query", time.Since(start))
func (m *Metrics) RecordRequestDuration(component, operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(component, operation).Observe(d.Seconds())
}

// ObserveOperation implements observability.Observer, so a *Metrics can be
// handed to a client directly.
//
// Exposed series:
//
//	<namespace>_requests_total{component, operation, status}
//	<namespace>_request_duration_seconds{component, operation}
func (m *Metrics) ObserveOperation(op observability.OperationContext) {
	m.IncrementRequests(op.Component, op.Operation, op.Status())
	m.RecordRequestDuration(op.Component, op.Operation, op.Duration)
}

// CreateCounter creates a new CounterVec metric and registers it.
func (m *Metrics) CreateCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := createCounterVec(m.namespace, name, help, labels)
	m.registerer.MustRegister(counter)
	return counter
}

// CreateHistogram creates a new HistogramVec metric and registers it.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	hist := createHistogramVec(m.namespace, name, help, labels, buckets)
	m.registerer.MustRegister(hist)
	return hist
}

// CreateGauge creates a new GaugeVec metric and registers it.
func (m *Metrics) CreateGauge(name, help string, labels []string) *prometheus.GaugeVec {
	gauge := createGaugeVec(m.namespace, name, help, labels)
	m.registerer.MustRegister(gauge)
	return gauge
}

func createCounterVec(namespace, name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

func createHistogramVec(namespace, name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
			Buckets:   buckets,
		},
		labels,
	)
}

func createGaugeVec(namespace, name, help string, labels []string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}
