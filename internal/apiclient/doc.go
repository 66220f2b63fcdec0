// Package apiclient provides HTTP communication with the Plume API.
//
// The client is a thin JSON-over-HTTP layer:
//
//   - client.go: request building, authorization injection, response and
//     error-envelope decoding
//   - auth.go: the identity endpoints (me, login, register)
//   - posts.go: post and profile reads the views render
//   - admin.go: moderation calls for the admin surface
//
// Authorization is pull-based: the bearer token is read from a TokenSource
// at request-build time, never stored in shared default headers, so
// concurrent requests under different tokens cannot interfere.
package apiclient
