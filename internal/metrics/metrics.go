// Package metrics holds the prometheus collectors of the application.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	mutations      *prometheus.CounterVec
	mutationErrors *prometheus.CounterVec
	suggestions    *prometheus.CounterVec
	suggestLatency prometheus.Histogram
	subscriptions  prometheus.Gauge
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "giftmate",
			Name:      "store_mutations_total",
			Help:      "Committed store mutations by entity and operation.",
		}, []string{"entity", "op"}),
		mutationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "giftmate",
			Name:      "store_mutation_errors_total",
			Help:      "Store mutations that failed and were rolled back.",
		}, []string{"entity", "op"}),
		suggestions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "giftmate",
			Name:      "suggestion_requests_total",
			Help:      "Gift suggestion requests by outcome.",
		}, []string{"outcome"}),
		suggestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "giftmate",
			Name:      "suggestion_request_duration_seconds",
			Help:      "Latency of calls to the generative language API.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}),
		subscriptions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "giftmate",
			Name:      "live_subscriptions",
			Help:      "Active live query subscriptions.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.mutations,
		m.mutationErrors,
		m.suggestions,
		m.suggestLatency,
		m.subscriptions,
	)
	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Mutation counts a store mutation.
func (m *Metrics) Mutation(entity, op string, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.mutationErrors.WithLabelValues(entity, op).Inc()
		return
	}
	m.mutations.WithLabelValues(entity, op).Inc()
}

// Suggestion records the outcome and latency of a suggestion request.
func (m *Metrics) Suggestion(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.suggestions.WithLabelValues(outcome).Inc()
	m.suggestLatency.Observe(elapsed.Seconds())
}

// Subscriptions sets the number of active live subscriptions.
func (m *Metrics) Subscriptions(n int) {
	if m == nil {
		return
	}
	m.subscriptions.Set(float64(n))
}
