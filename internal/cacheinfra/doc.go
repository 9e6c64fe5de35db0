// Package cacheinfra provides the concrete cache.Store implementations: an
// in-process sturdyc-backed store and a Redis-backed store on redigo.
//
// Both adapters keep the driver out of their exported surface; callers hold
// a cache.Store and never see a sturdyc client or a redis.Pool. All
// infrastructure failures are wrapped in cache.ErrStoreUnavailable, misses
// in cache.ErrNotFound, so the manager's degradation logic stays the same
// across drivers.
package cacheinfra
