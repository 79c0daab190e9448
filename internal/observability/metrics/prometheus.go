// Package metrics provides Prometheus metrics for the X12 translation services.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metrics
type Metrics struct {
	InterchangesParsed  *prometheus.CounterVec
	ParseDuration       prometheus.Histogram
	Builds              *prometheus.CounterVec
	MappingFailures     prometheus.Counter
	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
	MessagesProduced    *prometheus.CounterVec
	MessagesConsumed    *prometheus.CounterVec
	OutboxPending       prometheus.Gauge
	WorkerQueueDepth    prometheus.Gauge
	CircuitBreakerState *prometheus.GaugeVec

	gatherer prometheus.Gatherer
}

// New creates the metrics and registers them with reg. A nil reg uses a
// private registry, which keeps tests from colliding on the default one.
func New(reg prometheus.Registerer) *Metrics {
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if reg == nil {
		r := prometheus.NewRegistry()
		reg, gatherer = r, r
	} else if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	m := &Metrics{
		InterchangesParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "x12_interchanges_parsed_total",
			Help: "Total X12 interchanges parsed",
		}, []string{"transaction_type"}),
		ParseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "x12_parse_duration_seconds",
			Help:    "X12 parse duration",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		Builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "x12_build_total",
			Help: "Total X12 builds from view models",
		}, []string{"transaction_type", "result"}),
		MappingFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "x12_mapping_failures_total",
			Help: "Mappings that panicked or hit an unsupported transaction",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "x12_http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "x12_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		MessagesProduced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "x12_messages_produced_total",
			Help: "Total Kafka messages produced",
		}, []string{"topic"}),
		MessagesConsumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "x12_messages_consumed_total",
			Help: "Total Kafka messages consumed",
		}, []string{"topic", "result"}),
		OutboxPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "x12_outbox_pending",
			Help: "Pending outbox entries",
		}),
		WorkerQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "x12_worker_queue_depth",
			Help: "Jobs waiting in the translation worker pool",
		}),
		CircuitBreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "x12_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		}, []string{"name"}),
		gatherer: gatherer,
	}

	reg.MustRegister(
		m.InterchangesParsed,
		m.ParseDuration,
		m.Builds,
		m.MappingFailures,
		m.HTTPRequests,
		m.HTTPDuration,
		m.MessagesProduced,
		m.MessagesConsumed,
		m.OutboxPending,
		m.WorkerQueueDepth,
		m.CircuitBreakerState,
	)

	return m
}

// Handler returns the Prometheus HTTP handler for the registry the metrics live in
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
