// Package domain defines the core domain models for the Plume client.
//
// Domain models are pure value objects without any IO dependencies or
// framework coupling. This package contains:
//
//   - User: the authenticated account record returned by the Plume API
//   - Errors: domain-specific error definitions
//
// All network and storage access lives in other packages; everything here
// can be constructed and inspected in isolation.
package domain
