// Package shutdown provides graceful shutdown handling for long-running
// client commands.
//
// The watch mode of plume-cli keeps a credential watcher, a metrics
// listener, and the session store alive until interrupted; this package
// sequences their teardown. Hooks run in reverse registration order under
// a shared timeout.
package shutdown
