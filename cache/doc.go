// Package cache defines the contracts shared by the entity cache manager and
// the performance tracker: the keyed Store interface, cache key derivation,
// the serialized Entry format, per-type configuration, and the error
// taxonomy.
//
// # Keys
//
// Every key is built from three segments joined by "::":
//
//	{prefix}::{type-fingerprint}::{id}
//
// The fingerprint is an xxhash64 of the fully qualified entity type name.
// Hashing instead of embedding the raw name keeps keys short and prevents a
// type name that happens to contain the separator from colliding with
// another type's namespace. Performance stats live under a separate
// {prefix}::stats:: namespace so invalidating a type never resets its
// counters.
//
// # Entries
//
// Entry is the on-store representation of a cached entity, serialized with
// msgpack and tagged with a schema version. Entries are written whole and
// replaced whole; a decode failure (corrupt payload, unknown schema) is
// indistinguishable from a miss to callers.
//
// # Errors
//
// The package distinguishes store failures (ErrStoreUnavailable, masked by
// the manager) from source failures (ErrSourceUnavailable, always
// propagated). See the entitycache package for how each operation applies
// the taxonomy.
//
// # Configuration
//
// Config is plain value input validated with ozzo-validation. LoadConfigs
// reads a YAML file mapping entity type names to configs for applications
// that keep cache settings in configuration files.
package cache
