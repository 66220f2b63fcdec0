// Package token provides bearer-token fingerprinting utilities.
//
// The Plume client never generates tokens; it only receives them from the
// remote API. This package lets the rest of the client reference a token in
// logs and metrics without ever exposing the value:
//
//   - Fingerprint: stable, non-reversible identifier for a token
//   - Equal: constant-time comparison of two raw token values
//
// A fingerprint of the empty token is the empty string, so callers can log
// fingerprints unconditionally.
package token
