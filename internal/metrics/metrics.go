// Package metrics defines the Prometheus collectors exported by the publisher.
//
// All recording methods are safe on a nil *Metrics so components can be
// constructed without instrumentation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "publisher"

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeRetry   = "retry"
)

type Metrics struct {
	registrarRequests *prometheus.CounterVec
	registrarDuration *prometheus.HistogramVec
	publishes         *prometheus.CounterVec
	claims            *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewRegistry returns a registry preloaded with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// New creates the collectors and registers them on reg. Tests pass a bare
// prometheus.NewRegistry() so runs do not collide.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registrarRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "registrar_requests_total",
				Help:      "Registrar API calls by operation and outcome.",
			},
			[]string{"op", "outcome"},
		),
		registrarDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "registrar_request_duration_seconds",
				Help:      "Latency of registrar API calls.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		publishes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "publish_total",
				Help:      "Publish requests by outcome.",
			},
			[]string{"outcome"},
		),
		claims: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "directory_claims_total",
				Help:      "Subdomain claims by outcome.",
			},
			[]string{"outcome"},
		),
		gatherer: reg,
	}

	reg.MustRegister(m.registrarRequests, m.registrarDuration, m.publishes, m.claims)
	return m
}

// ObserveRegistrar records one registrar call.
func (m *Metrics) ObserveRegistrar(op, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.registrarRequests.WithLabelValues(op, outcome).Inc()
	m.registrarDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// IncPublish counts a finished publish request.
func (m *Metrics) IncPublish(outcome string) {
	if m == nil {
		return
	}
	m.publishes.WithLabelValues(outcome).Inc()
}

// IncClaim counts a directory claim attempt. Outcome is "success",
// "name_taken" or "error".
func (m *Metrics) IncClaim(outcome string) {
	if m == nil {
		return
	}
	m.claims.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
