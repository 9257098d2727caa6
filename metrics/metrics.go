// Package metrics holds the prometheus collectors shared by the HTTP layer, the lifecycle
// service and the evidence ingestor.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "party_cms"

// Metrics is a set of registered collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	operations      *prometheus.CounterVec
	uploadDuration  *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "case_operations_total",
			Help:      "Disciplinary case operations by name and result kind.",
		}, []string{"operation", "result"}),
		uploadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evidence_upload_duration_seconds",
			Help:      "Evidence upload latency by folder and outcome.",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"folder", "outcome"}),
	}
	reg.MustRegister(m.requests, m.requestDuration, m.operations, m.uploadDuration)
	return m
}

// ObserveRequest records a finished HTTP request
func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// ObserveOperation counts a lifecycle operation. result is "ok" or the error kind.
func (m *Metrics) ObserveOperation(operation, result string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, result).Inc()
}

// ObserveUpload records the latency of one blob upload
func (m *Metrics) ObserveUpload(folder string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.uploadDuration.WithLabelValues(folder, outcome).Observe(d.Seconds())
}
