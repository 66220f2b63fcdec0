// Package credstore owns the durable credential record for the Plume
// client: a single bearer-token value at a fixed path on disk.
//
// This package provides:
//
//   - store.go: Load/Save/Clear of the token file, atomic writes, 0600
//   - watcher.go: fsnotify-based change notifications, so a login or
//     logout performed by another process using the same record is
//     observed here without polling
//
// The session store is the sole writer of the record; every other
// component only reads through it.
package credstore
