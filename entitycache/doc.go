// Package entitycache implements a per-entity read-through/write-through
// cache manager with adaptive TTLs.
//
// # Overview
//
// A Manager[T] sits between a persistence layer and a keyed store. Reads go
// through the cache (Get, GetMany), writes go through to the cache after the
// source of truth has them (Put, OnSaved), and invalidation is explicit
// (Invalidate, InvalidateAll). Every write's TTL comes from the stats
// tracker, which grows the TTL for types that hit often and shrinks it for
// types that mostly miss.
//
// Entities declare their cacheability through the Entity interface rather
// than being probed for methods; the authoritative source is an explicit
// Source[T] collaborator rather than inherited behavior. Both are trivially
// fakeable, which is the point: the manager unit-tests with a fake store
// and a fake source and no persistence framework in sight.
//
// # Failure semantics
//
// Store failures are always masked. A read that cannot reach the store (or
// finds a corrupt entry) behaves exactly like a miss and falls through to
// the source; a write that fails returns false and logs. The only errors
// Get, GetMany and Warm surface are the source's own, wrapped in
// cache.ErrSourceUnavailable by source implementations, because a missing
// source means there is no correct answer to degrade to.
//
// # Concurrency
//
// The manager performs no in-process locking. Writes are whole-entry
// replacements, so racing readers see either the old or the new entry,
// never a torn one. Two concurrent misses for the same id may both fetch
// and both write (a cache stampede); no request coalescing is performed
// here. Both writes carry equivalent data, so last write wins harmlessly.
//
// # Basic usage
//
// Managers are usually resolved through the pkg/di container, which owns the
// store and the shared tracker:
//
//	container, err := di.NewContainerWithDefaults()
//	if err != nil {
//		return err
//	}
//	manager, err := di.NewManager[*Widget](container, widgetSource)
//	if err != nil {
//		return err
//	}
//
//	widget, err := manager.Get(ctx, "42")
//
// Direct construction takes any cache.Store implementation:
//
//	tracker := stats.New(store, cfg.KeyPrefix)
//	manager, err := entitycache.New[*Widget](store, widgetSource, tracker, cfg)
package entitycache
