// Package tlsroots provides TLS root-certificate management for the
// Plume client.
//
// Self-hosted Plume deployments commonly terminate TLS with a private CA.
// This package loads system roots, adds custom CA certificates from PEM
// files or directories, and produces the tls.Config the API client uses.
package tlsroots
