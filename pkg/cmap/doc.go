// Package cmap provides a concurrent-safe sharded map.
//
// Sharding keeps lock contention low when many goroutines touch disjoint
// keys, which is the access pattern of the client's per-identity attempt
// limiters. For single-key workloads a plain mutex-guarded map is just as
// good; use this where key cardinality is open-ended.
package cmap
