// Package metric provides Prometheus metrics for the Plume client.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result labels for session operations.
const (
	ResultSuccess     = "success"
	ResultFailure     = "failure"
	ResultRateLimited = "rate_limited"
	ResultAbsent      = "absent"
	ResultExpired     = "expired"
	ResultAdopted     = "adopted"
	ResultCleared     = "cleared"
	ResultUnchanged   = "unchanged"
)

// Metrics holds all client metrics, registered on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	logins          *prometheus.CounterVec
	registrations   *prometheus.CounterVec
	hydrations      *prometheus.CounterVec
	credentialSyncs *prometheus.CounterVec
	gateDecisions   *prometheus.CounterVec
	sessionActive   prometheus.Gauge
}

// New creates a Metrics instance with its own registry, including the
// standard Go runtime collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plume",
			Subsystem: "session",
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plume",
			Subsystem: "session",
			Name:      "registrations_total",
			Help:      "Registration attempts by result.",
		}, []string{"result"}),
		hydrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plume",
			Subsystem: "session",
			Name:      "hydrations_total",
			Help:      "Session hydrations by result.",
		}, []string{"result"}),
		credentialSyncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plume",
			Subsystem: "session",
			Name:      "credential_syncs_total",
			Help:      "External credential change notifications by result.",
		}, []string{"result"}),
		gateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plume",
			Subsystem: "gate",
			Name:      "decisions_total",
			Help:      "Route gate decisions by policy and outcome.",
		}, []string{"policy", "decision"}),
		sessionActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "plume",
			Subsystem: "session",
			Name:      "active",
			Help:      "1 when a user is logged in, 0 otherwise.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		m.logins,
		m.registrations,
		m.hydrations,
		m.credentialSyncs,
		m.gateDecisions,
		m.sessionActive,
	)

	return m
}

// Handler returns an HTTP handler serving the metrics registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Login records a login attempt.
func (m *Metrics) Login(result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result).Inc()
}

// Registration records a registration attempt.
func (m *Metrics) Registration(result string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(result).Inc()
}

// Hydration records a hydration outcome.
func (m *Metrics) Hydration(result string) {
	if m == nil {
		return
	}
	m.hydrations.WithLabelValues(result).Inc()
}

// CredentialSync records an external credential change outcome.
func (m *Metrics) CredentialSync(result string) {
	if m == nil {
		return
	}
	m.credentialSyncs.WithLabelValues(result).Inc()
}

// GateDecision records a route-gate evaluation.
func (m *Metrics) GateDecision(policy, decision string) {
	if m == nil {
		return
	}
	m.gateDecisions.WithLabelValues(policy, decision).Inc()
}

// SessionActive flags whether a user is currently logged in.
func (m *Metrics) SessionActive(active bool) {
	if m == nil {
		return
	}
	if active {
		m.sessionActive.Set(1)
	} else {
		m.sessionActive.Set(0)
	}
}
