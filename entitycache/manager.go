package entitycache

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/goliatone/go-entity-cache/cache"
	"github.com/goliatone/go-entity-cache/stats"
)

// Manager provides read-through/write-through caching for one entity type.
// It owns no state between calls beyond its configuration: every entry and
// counter round-trips through the store, so independent processes sharing a
// store share the cache.
//
// Failure semantics follow one rule: store problems cost speed, never
// answers. Read-path store failures degrade to misses, write-path failures
// degrade to a false return plus a log line, and only authoritative-source
// failures propagate to the caller.
type Manager[T Entity] struct {
	store    cache.Store
	source   Source[T]
	tracker  *stats.Tracker
	cfg      cache.Config
	logger   *zap.Logger
	now      func() time.Time
	typeName string
}

// Option configures a Manager.
type Option[T Entity] func(*Manager[T])

// WithLogger sets the logger used on fail-soft paths.
func WithLogger[T Entity](logger *zap.Logger) Option[T] {
	return func(m *Manager[T]) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock overrides the time source used for Entry.CachedAt, for tests.
func WithClock[T Entity](now func() time.Time) Option[T] {
	return func(m *Manager[T]) {
		if now != nil {
			m.now = now
		}
	}
}

// New constructs a Manager for entity type T. The type parameter must be a
// named struct or pointer-to-struct; anything the manager cannot resolve to
// a stable type name (interfaces, maps, anonymous types) is rejected with
// cache.ErrInvalidEntityType.
func New[T Entity](store cache.Store, source Source[T], tracker *stats.Tracker, cfg cache.Config, opts ...Option[T]) (*Manager[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	typeName := resolveTypeName[T]()
	if typeName == "" {
		return nil, fmt.Errorf("%w: cannot derive a type name for %v",
			cache.ErrInvalidEntityType, reflect.TypeOf((*T)(nil)).Elem())
	}

	m := &Manager[T]{
		store:    store,
		source:   source,
		tracker:  tracker,
		cfg:      cfg,
		logger:   zap.NewNop(),
		now:      time.Now,
		typeName: typeName,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// TypeName returns the fully qualified entity type name used for keys and
// stats.
func (m *Manager[T]) TypeName() string { return m.typeName }

// Config returns the configuration the manager was built with.
func (m *Manager[T]) Config() cache.Config { return m.cfg }

// resolveTypeName derives the fully qualified name of T, dereferencing
// pointer types. Unnamed types yield "".
func resolveTypeName[T Entity]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() == reflect.Interface || t.PkgPath() == "" || t.Name() == "" {
		return ""
	}
	return t.PkgPath() + "." + t.Name()
}

func (m *Manager[T]) key(id string) string {
	return cache.EntityKey(m.cfg.KeyPrefix, m.typeName, id)
}

// Get returns the entity with the given id, reading through the cache. A
// cache hit skips the source entirely; a miss (including an unreachable
// store or a corrupt entry) falls through to the authoritative source and
// writes the result back best-effort. cache.ErrNotFound means the id does
// not exist in the source either.
func (m *Manager[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T

	if bypassFromContext(ctx) {
		entity, err := m.source.FetchByID(ctx, id)
		if err != nil {
			return zero, err
		}
		m.Put(ctx, entity)
		return entity, nil
	}

	data, err := m.store.Get(ctx, m.key(id))
	if err == nil {
		if entity, derr := m.decode(data); derr == nil {
			m.tracker.RecordHit(ctx, m.typeName)
			return entity, nil
		} else {
			m.logger.Warn("corrupt cache entry treated as miss",
				zap.String("entity_type", m.typeName), zap.String("id", id), zap.Error(derr))
		}
	} else if !errors.Is(err, cache.ErrNotFound) {
		m.logger.Warn("cache read failed, falling through to source",
			zap.String("entity_type", m.typeName), zap.String("id", id), zap.Error(err))
	}
	m.tracker.RecordMiss(ctx, m.typeName)

	entity, err := m.source.FetchByID(ctx, id)
	if err != nil {
		return zero, err
	}

	m.Put(ctx, entity)
	return entity, nil
}

// GetMany returns all entities among ids that exist, in no guaranteed order.
// Cached entries are fetched with a single multi-get; the remaining ids go
// to the source in one batched fetch and are written back with a batched
// write, falling back to per-key writes if the batch fails. An empty id list
// returns immediately with zero store calls.
func (m *Manager[T]) GetMany(ctx context.Context, ids []string) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}

	if bypassFromContext(ctx) {
		fetched, err := m.source.FetchByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		m.writeThrough(ctx, fetched)
		return fetched, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = m.key(id)
	}

	found, err := m.store.GetMany(ctx, keys)
	if err != nil {
		m.logger.Warn("cache multi-get failed, treating all ids as misses",
			zap.String("entity_type", m.typeName), zap.Int("ids", len(ids)), zap.Error(err))
		found = nil
	}

	entities := make([]T, 0, len(ids))
	var missIDs []string
	for i, id := range ids {
		if data, ok := found[keys[i]]; ok {
			if entity, derr := m.decode(data); derr == nil {
				m.tracker.RecordHit(ctx, m.typeName)
				entities = append(entities, entity)
				continue
			} else {
				m.logger.Warn("corrupt cache entry treated as miss",
					zap.String("entity_type", m.typeName), zap.String("id", id), zap.Error(derr))
			}
		}
		m.tracker.RecordMiss(ctx, m.typeName)
		missIDs = append(missIDs, id)
	}

	if len(missIDs) == 0 {
		return entities, nil
	}

	fetched, err := m.source.FetchByIDs(ctx, missIDs)
	if err != nil {
		return nil, err
	}

	m.writeThrough(ctx, fetched)
	return append(entities, fetched...), nil
}

// Put writes the entity through to the cache under its computed key and
// adaptive TTL. It returns false without touching the store for entities
// that are not cacheable (no primary key, or tombstoned), and false with a
// log line when serialization or the store write fails. Caching never
// produces a fatal error.
func (m *Manager[T]) Put(ctx context.Context, entity T) bool {
	if !isCacheable(entity) {
		return false
	}

	ttl := m.tracker.AdaptiveTTL(ctx, m.typeName, m.cfg.TTL)
	data, err := m.encode(entity)
	if err != nil {
		m.logger.Warn("cache entry encoding failed",
			zap.String("entity_type", m.typeName), zap.String("id", entity.PrimaryKey()), zap.Error(err))
		return false
	}

	if err := m.store.Set(ctx, m.key(entity.PrimaryKey()), data, ttl); err != nil {
		m.logger.Warn("cache write failed",
			zap.String("entity_type", m.typeName), zap.String("id", entity.PrimaryKey()), zap.Error(err))
		return false
	}
	return true
}

// Invalidate removes the entity's entry from the cache. Fail-soft like Put.
func (m *Manager[T]) Invalidate(ctx context.Context, entity T) bool {
	id := primaryKeyOf(entity)
	if id == "" {
		return false
	}

	if err := m.store.Delete(ctx, m.key(id)); err != nil {
		m.logger.Warn("cache invalidation failed",
			zap.String("entity_type", m.typeName), zap.String("id", id), zap.Error(err))
		return false
	}
	return true
}

// InvalidateAll removes every cached entry for the entity type via a prefix
// delete. When the store cannot do that it returns false so callers know
// bulk invalidation did not happen; pretending it did would leave them
// serving stale data knowingly.
func (m *Manager[T]) InvalidateAll(ctx context.Context) bool {
	prefix := cache.TypePrefix(m.cfg.KeyPrefix, m.typeName)
	if err := m.store.DeleteByPrefix(ctx, prefix); err != nil {
		m.logger.Error("bulk cache invalidation failed",
			zap.String("entity_type", m.typeName), zap.Error(err))
		return false
	}
	return true
}

// Warm pre-populates the cache from the authoritative source: the given ids,
// or every entity of the type when ids is empty (unbounded, caller beware).
// It returns the number of entities actually cached, which can be lower than
// the number fetched when some are uncacheable or writes fail. A source
// failure propagates with a zero count.
func (m *Manager[T]) Warm(ctx context.Context, ids []string) (int, error) {
	var (
		entities []T
		err      error
	)
	if len(ids) == 0 {
		entities, err = m.source.FetchAll(ctx)
	} else {
		entities, err = m.source.FetchByIDs(ctx, ids)
	}
	if err != nil {
		return 0, err
	}

	cached := 0
	for _, entity := range entities {
		if m.Put(ctx, entity) {
			cached++
		}
	}
	return cached, nil
}

// OnSaved is the explicit hook a persistence layer calls after a successful
// save. It writes the fresh state through to the cache when AutoInvalidate
// is enabled.
func (m *Manager[T]) OnSaved(ctx context.Context, entity T) {
	if !m.cfg.AutoInvalidate {
		return
	}
	m.Put(ctx, entity)
}

// OnDeleted is the explicit hook a persistence layer calls after a
// successful delete.
func (m *Manager[T]) OnDeleted(ctx context.Context, entity T) {
	if !m.cfg.AutoInvalidate {
		return
	}
	m.Invalidate(ctx, entity)
}

// writeThrough caches a batch of fetched entities in one store write,
// degrading to per-key writes when the batch fails. Partial success is fine;
// every skipped entity is logged, never hidden behind an error.
func (m *Manager[T]) writeThrough(ctx context.Context, entities []T) int {
	if len(entities) == 0 {
		return 0
	}

	ttl := m.tracker.AdaptiveTTL(ctx, m.typeName, m.cfg.TTL)
	batch := make(map[string][]byte, len(entities))
	for _, entity := range entities {
		if !isCacheable(entity) {
			continue
		}
		data, err := m.encode(entity)
		if err != nil {
			m.logger.Warn("cache entry encoding failed",
				zap.String("entity_type", m.typeName), zap.String("id", entity.PrimaryKey()), zap.Error(err))
			continue
		}
		batch[m.key(entity.PrimaryKey())] = data
	}
	if len(batch) == 0 {
		return 0
	}

	err := m.store.SetMany(ctx, batch, ttl)
	if err == nil {
		return len(batch)
	}
	m.logger.Warn("batch write-through failed, retrying per key",
		zap.String("entity_type", m.typeName), zap.Int("entries", len(batch)), zap.Error(err))

	written := 0
	for key, data := range batch {
		if err := m.store.Set(ctx, key, data, ttl); err != nil {
			m.logger.Warn("cache write failed",
				zap.String("entity_type", m.typeName), zap.String("key", key), zap.Error(err))
			continue
		}
		written++
	}
	return written
}

// encode serializes the entity into a versioned cache entry. Original holds
// a copy of the attribute payload: writes happen after a successful save, so
// cached state and last-persisted state coincide at write time.
func (m *Manager[T]) encode(entity T) ([]byte, error) {
	attrs, err := msgpack.Marshal(entity)
	if err != nil {
		return nil, &cache.SerializationError{Op: "encode", Err: err}
	}

	entry := &cache.Entry{
		Attributes:    attrs,
		Original:      attrs,
		CachedAt:      m.now(),
		SchemaVersion: cache.SchemaVersion,
	}

	if m.cfg.CacheRelationships {
		if carrier, ok := any(entity).(RelationCarrier); ok {
			relations := carrier.CachedRelations()
			if len(relations) > 0 {
				entry.Relations = make(map[string]msgpack.RawMessage, len(relations))
				for name, value := range relations {
					raw, err := msgpack.Marshal(value)
					if err != nil {
						return nil, &cache.SerializationError{Op: "encode", Err: err}
					}
					entry.Relations[name] = raw
				}
			}
		}
	}

	return cache.EncodeEntry(entry)
}

// decode reconstructs an entity from a stored entry. Any failure here is a
// SerializationError the read path converts into a miss.
func (m *Manager[T]) decode(data []byte) (T, error) {
	var zero T

	entry, err := cache.DecodeEntry(data)
	if err != nil {
		return zero, err
	}

	entity, err := unmarshalEntity[T](entry.Attributes)
	if err != nil {
		return zero, err
	}

	if m.cfg.CacheRelationships && len(entry.Relations) > 0 {
		if carrier, ok := any(entity).(RelationCarrier); ok {
			relations := make(map[string]any, len(entry.Relations))
			for name, raw := range entry.Relations {
				var value any
				if err := msgpack.Unmarshal(raw, &value); err != nil {
					return zero, &cache.SerializationError{Op: "decode", Err: err}
				}
				relations[name] = value
			}
			carrier.RestoreRelations(relations)
		}
	}

	return entity, nil
}

// unmarshalEntity allocates a fresh T and fills it from the attribute
// payload, handling both pointer and value type parameters.
func unmarshalEntity[T Entity](attrs msgpack.RawMessage) (T, error) {
	var zero T

	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() == reflect.Pointer {
		v := reflect.New(t.Elem())
		if err := msgpack.Unmarshal(attrs, v.Interface()); err != nil {
			return zero, &cache.SerializationError{Op: "decode", Err: err}
		}
		return v.Interface().(T), nil
	}

	var entity T
	if err := msgpack.Unmarshal(attrs, &entity); err != nil {
		return zero, &cache.SerializationError{Op: "decode", Err: err}
	}
	return entity, nil
}

// isCacheable applies the cacheability predicate: a usable identity and no
// tombstone. Typed nil pointers count as uncacheable rather than panicking
// inside PrimaryKey.
func isCacheable[T Entity](entity T) bool {
	if primaryKeyOf(entity) == "" {
		return false
	}
	return entity.IsCacheable()
}

// primaryKeyOf returns the entity's primary key, or "" for nil entities.
func primaryKeyOf[T Entity](entity T) string {
	v := reflect.ValueOf(any(entity))
	if !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
		return ""
	}
	return entity.PrimaryKey()
}
