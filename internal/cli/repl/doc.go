// Package repl provides the interactive browse mode for plume-cli.
//
// It emulates client-side navigation in a terminal loop:
//
//   - repl.go: the navigation loop and route rendering
//   - completer.go: path completion
//   - history.go: navigation history persistence
//
// Each entered path is resolved through the route gate, so redirects
// and access decisions behave exactly like the app's pages.
package repl
