package stats

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/goliatone/go-entity-cache/cache"
)

// Bounds for the adaptive TTL policy. Whatever the base TTL or hit rate, the
// recommendation never leaves [MinTTL, MaxTTL].
const (
	MinTTL = 60 * time.Second
	MaxTTL = 24 * time.Hour
)

// adjustThreshold is the hit rate below which a cache is considered to be
// failing and has its TTL shrunk instead of grown.
const adjustThreshold = 0.5

// Retention is how long an unread stats record survives in the store before
// the store may expire it. Stats legitimately go stale and restart from zero
// for types that see no traffic within this window.
const Retention = 24 * time.Hour

// Stats is the per-entity-type hit/miss record persisted in the store.
// Counters only ever grow; Reset removes the record wholesale.
type Stats struct {
	Hits       int64     `msgpack:"hits"`
	Misses     int64     `msgpack:"misses"`
	LastHitAt  time.Time `msgpack:"last_hit_at,omitempty"`
	LastMissAt time.Time `msgpack:"last_miss_at,omitempty"`
	CreatedAt  time.Time `msgpack:"created_at"`
}

// Tracker maintains hit/miss counters per entity type and derives hit rates
// and TTL recommendations from them. All state round-trips through the
// backing store; the tracker itself only holds configuration and a small
// memo of which types it has already added to the stored type index.
//
// Counter updates are read-modify-write against the store with no
// cross-process coordination. Concurrent recorders can lose increments; the
// hit rate is a statistical signal, not an exact count, and the TTL policy
// only needs it to be coarse.
type Tracker struct {
	store  cache.Store
	prefix string
	logger *zap.Logger
	now    func() time.Time

	// indexed dedupes index writes within this process. If the stored index
	// expires the memo can go stale until restart, which only narrows All's
	// view, never the counters themselves.
	indexed *xsync.MapOf[string, struct{}]
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger used for best-effort write failures.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// New creates a Tracker persisting under the given key prefix.
func New(store cache.Store, prefix string, opts ...Option) *Tracker {
	t := &Tracker{
		store:   store,
		prefix:  prefix,
		logger:  zap.NewNop(),
		now:     time.Now,
		indexed: xsync.NewMapOf[string, struct{}](),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RecordHit increments the hit counter for typeName. The write is
// best-effort telemetry: failures are logged and swallowed, the caller is
// never failed over a counter.
func (t *Tracker) RecordHit(ctx context.Context, typeName string) {
	t.record(ctx, typeName, true)
}

// RecordMiss increments the miss counter for typeName. Best-effort, like
// RecordHit.
func (t *Tracker) RecordMiss(ctx context.Context, typeName string) {
	t.record(ctx, typeName, false)
}

func (t *Tracker) record(ctx context.Context, typeName string, hit bool) {
	s := t.load(ctx, typeName)
	now := t.now()
	if s == nil {
		s = &Stats{CreatedAt: now}
	}
	if hit {
		s.Hits++
		s.LastHitAt = now
	} else {
		s.Misses++
		s.LastMissAt = now
	}

	data, err := msgpack.Marshal(s)
	if err != nil {
		t.logger.Warn("encoding stats record failed",
			zap.String("entity_type", typeName), zap.Error(err))
		return
	}
	if err := t.store.Set(ctx, cache.StatsKey(t.prefix, typeName), data, Retention); err != nil {
		t.logger.Debug("stats write failed",
			zap.String("entity_type", typeName), zap.Error(err))
		return
	}

	t.ensureIndexed(ctx, typeName)
}

// load returns the stored record for typeName, or nil when absent or
// unreadable. Store failures are logged and treated as zero-state.
func (t *Tracker) load(ctx context.Context, typeName string) *Stats {
	data, err := t.store.Get(ctx, cache.StatsKey(t.prefix, typeName))
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			t.logger.Debug("stats read failed",
				zap.String("entity_type", typeName), zap.Error(err))
		}
		return nil
	}
	var s Stats
	if err := msgpack.Unmarshal(data, &s); err != nil {
		t.logger.Warn("corrupt stats record dropped",
			zap.String("entity_type", typeName), zap.Error(err))
		return nil
	}
	return &s
}

// Snapshot returns the current stats for typeName. Absent records come back
// as the zero Stats with ok set to false.
func (t *Tracker) Snapshot(ctx context.Context, typeName string) (Stats, bool) {
	s := t.load(ctx, typeName)
	if s == nil {
		return Stats{}, false
	}
	return *s, true
}

// HitRate returns hits/(hits+misses) in [0.0, 1.0], rounded to 4 decimal
// places. When both counters are zero the rate is defined as 0.0 by policy:
// an unmeasured cache is treated like a failing one so it starts from the
// conservative TTL branch rather than the optimistic one.
func (t *Tracker) HitRate(ctx context.Context, typeName string) float64 {
	s := t.load(ctx, typeName)
	if s == nil {
		return 0.0
	}
	return s.rate()
}

func (s *Stats) rate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0.0
	}
	return math.Round(float64(s.Hits)/float64(total)*10000) / 10000
}

// HitRate is the rounded rate derived from the record's own counters.
func (s Stats) HitRate() float64 {
	return s.rate()
}

// AdaptiveTTL translates the observed hit rate into a TTL recommendation.
// Below the adjustment threshold the base TTL is halved to reduce the cost
// of staleness for a cache that is not earning its keep; at or above it the
// base is grown by half to save round-trips. The result is clamped to
// [MinTTL, MaxTTL] and computed in whole seconds with flooring division.
//
// This is a two-branch step function, not a continuous controller: it never
// returns the base unchanged. That is a known design limitation.
func (t *Tracker) AdaptiveTTL(ctx context.Context, typeName string, base time.Duration) time.Duration {
	sec := int64(base / time.Second)
	if t.HitRate(ctx, typeName) < adjustThreshold {
		sec /= 2
	} else {
		sec = sec * 3 / 2
	}

	// Both bounds apply to both branches: growing a sub-minute base can
	// still land under MinTTL, and halving a multi-day base can still land
	// over MaxTTL.
	if sec < int64(MinTTL/time.Second) {
		return MinTTL
	}
	if sec > int64(MaxTTL/time.Second) {
		return MaxTTL
	}
	return time.Duration(sec) * time.Second
}

// Reset deletes the stats record for typeName, returning it to zero-state on
// next access. The type stays in the index so All keeps listing it.
func (t *Tracker) Reset(ctx context.Context, typeName string) error {
	return t.store.Delete(ctx, cache.StatsKey(t.prefix, typeName))
}

// All returns the stats of every type the tracker has seen, keyed by type
// name. Enumeration relies on a side index maintained on first record per
// type; types whose records expired come back with zero counters omitted
// from the result rather than fabricated.
func (t *Tracker) All(ctx context.Context) (map[string]Stats, error) {
	names, err := t.loadIndex(ctx)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return map[string]Stats{}, nil
	}

	keys := make([]string, len(names))
	keyToName := make(map[string]string, len(names))
	for i, name := range names {
		key := cache.StatsKey(t.prefix, name)
		keys[i] = key
		keyToName[key] = name
	}

	found, err := t.store.GetMany(ctx, keys)
	if err != nil {
		return nil, err
	}

	all := make(map[string]Stats, len(found))
	for key, data := range found {
		var s Stats
		if err := msgpack.Unmarshal(data, &s); err != nil {
			t.logger.Warn("corrupt stats record skipped",
				zap.String("entity_type", keyToName[key]), zap.Error(err))
			continue
		}
		all[keyToName[key]] = s
	}
	return all, nil
}

// ensureIndexed adds typeName to the stored type index once per process.
// Index maintenance is best-effort like the counters themselves.
func (t *Tracker) ensureIndexed(ctx context.Context, typeName string) {
	if _, seen := t.indexed.Load(typeName); seen {
		return
	}

	names, err := t.loadIndex(ctx)
	if err != nil {
		t.logger.Debug("stats index read failed", zap.Error(err))
		return
	}
	for _, name := range names {
		if name == typeName {
			t.indexed.Store(typeName, struct{}{})
			return
		}
	}

	names = append(names, typeName)
	data, err := msgpack.Marshal(names)
	if err != nil {
		t.logger.Warn("encoding stats index failed", zap.Error(err))
		return
	}
	if err := t.store.Set(ctx, cache.StatsIndexKey(t.prefix), data, Retention); err != nil {
		t.logger.Debug("stats index write failed", zap.Error(err))
		return
	}
	t.indexed.Store(typeName, struct{}{})
}

func (t *Tracker) loadIndex(ctx context.Context) ([]string, error) {
	data, err := t.store.Get(ctx, cache.StatsIndexKey(t.prefix))
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	if err := msgpack.Unmarshal(data, &names); err != nil {
		return nil, &cache.SerializationError{Op: "decode", Err: err}
	}
	return names, nil
}
