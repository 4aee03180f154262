package metrics

import (
	"net/http"
	"time"

	"idempotency-guard/internal/application"
	"idempotency-guard/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ application.Observer = (*Metrics)(nil)

// Metrics records guard outcomes on its own registry.
type Metrics struct {
	registry    *prometheus.Registry
	outcomes    *prometheus.CounterVec
	storeErrors *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "idempotency_outcomes_total",
			Help: "Requests evaluated by the idempotency guard, by outcome.",
		}, []string{"outcome"}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "idempotency_store_errors_total",
			Help: "Failed record store operations, by operation.",
		}, []string{"op"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "idempotency_evaluate_duration_seconds",
			Help:    "Time spent evaluating a request, store round trips included.",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(
		m.outcomes,
		m.storeErrors,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveOutcome(kind domain.OutcomeKind, elapsed time.Duration) {
	m.outcomes.WithLabelValues(kind.String()).Inc()
	m.duration.WithLabelValues(kind.String()).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveStoreError(op string) {
	m.storeErrors.WithLabelValues(op).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
