package entitycache

import "context"

// Entity is the capability contract cached values must implement. The
// manager never probes for methods dynamically; anything it caches declares
// this interface up front.
type Entity interface {
	// PrimaryKey returns the entity's identifier, or "" when it has none
	// yet. Entities without an identifier are not cacheable.
	PrimaryKey() string

	// IsCacheable reports whether the entity may be cached at all. Soft
	// deleted (tombstoned) entities return false here.
	IsCacheable() bool
}

// RelationCarrier is implemented by entities that keep loaded relations
// outside their serialized attributes and want them cached alongside. It is
// only consulted when Config.CacheRelationships is enabled.
type RelationCarrier interface {
	// CachedRelations returns the relation values to cache, keyed by
	// relation name.
	CachedRelations() map[string]any

	// RestoreRelations reinstates relation values decoded from a cache
	// entry. Values arrive as generic msgpack-decoded data.
	RestoreRelations(relations map[string]any)
}

// Source is the authoritative system of record consulted on a cache miss.
// Implementations return cache.ErrNotFound for absent ids and wrap
// infrastructure failures in cache.ErrSourceUnavailable.
type Source[T Entity] interface {
	FetchByID(ctx context.Context, id string) (T, error)

	// FetchByIDs returns the entities that exist among ids; absent ids are
	// simply not in the result.
	FetchByIDs(ctx context.Context, ids []string) ([]T, error)

	// FetchAll returns every entity of the type. Used only by Warm with an
	// empty id list; result size is the caller's problem.
	FetchAll(ctx context.Context) ([]T, error)
}
