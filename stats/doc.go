// Package stats implements the performance tracker: per-entity-type hit and
// miss counters persisted in the shared keyed store, the hit rate derived
// from them, and the adaptive TTL recommendation the entity cache manager
// consults on every write.
//
// # Policy
//
// The TTL policy is a deliberate two-branch step function. A type whose hit
// rate is below 0.5 gets floor(base/2) clamped to a 60 second minimum; any
// other type gets floor(base*1.5) clamped to a 24 hour maximum. The policy
// never returns the base unchanged and never needs more than a coarse rate,
// which is why the counters tolerate lost increments under concurrency.
//
// # Persistence
//
// Stats records live in the same store as cache entries, under a separate
// "stats" key namespace, with a 24 hour retention TTL. Counter writes are
// best-effort: a store outage costs telemetry, never correctness.
//
// A generic keyed store cannot enumerate its own keys, so All is backed by
// an explicit side index of known type names, written once per type on its
// first recorded hit or miss.
package stats
