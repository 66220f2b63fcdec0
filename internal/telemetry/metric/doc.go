// Package metric provides Prometheus metrics for the Plume client.
//
// It exposes counters for session lifecycle events (logins, registrations,
// hydrations, credential syncs), route-gate decisions, and a gauge for the
// current session state. The `session watch` command serves them on an
// optional metrics listener; everything else just records.
//
// All recorder methods are safe on a nil *Metrics so callers never have to
// thread a no-op implementation through.
package metric
