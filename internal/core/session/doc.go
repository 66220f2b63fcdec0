// Package session maintains the client's authenticated session: the
// access token, the resolved user, and the hydration state. A single
// Store owns all mutations; readers observe it through snapshots and
// change subscriptions.
package session
