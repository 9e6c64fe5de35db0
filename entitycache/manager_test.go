package entitycache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-entity-cache/cache"
	"github.com/goliatone/go-entity-cache/pkg/testsupport"
	"github.com/goliatone/go-entity-cache/stats"
)

// Widget is the test entity.
type Widget struct {
	ID      string `msgpack:"id"`
	Name    string `msgpack:"name"`
	Price   int64  `msgpack:"price"`
	Deleted bool   `msgpack:"deleted"`
}

func (w *Widget) PrimaryKey() string { return w.ID }
func (w *Widget) IsCacheable() bool  { return !w.Deleted }

// fakeSource is an in-memory authoritative source that records calls.
type fakeSource[T Entity] struct {
	mu    sync.Mutex
	data  map[string]T
	calls []string
	err   error // forced failure for every fetch
}

func newFakeSource[T Entity]() *fakeSource[T] {
	return &fakeSource[T]{data: make(map[string]T)}
}

func (s *fakeSource[T]) add(entity T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[entity.PrimaryKey()] = entity
}

func (s *fakeSource[T]) record(call string) {
	s.calls = append(s.calls, call)
}

func (s *fakeSource[T]) getCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *fakeSource[T]) FetchByID(ctx context.Context, id string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("FetchByID " + id)
	var zero T
	if s.err != nil {
		return zero, s.err
	}
	entity, ok := s.data[id]
	if !ok {
		return zero, cache.ErrNotFound
	}
	return entity, nil
}

func (s *fakeSource[T]) FetchByIDs(ctx context.Context, ids []string) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("FetchByIDs " + strings.Join(ids, ","))
	if s.err != nil {
		return nil, s.err
	}
	var found []T
	for _, id := range ids {
		if entity, ok := s.data[id]; ok {
			found = append(found, entity)
		}
	}
	return found, nil
}

func (s *fakeSource[T]) FetchAll(ctx context.Context) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("FetchAll")
	if s.err != nil {
		return nil, s.err
	}
	var all []T
	for _, entity := range s.data {
		all = append(all, entity)
	}
	return all, nil
}

func testConfig() cache.Config {
	cfg := cache.DefaultConfig()
	cfg.TTL = 300 * time.Second
	cfg.KeyPrefix = "app"
	return cfg
}

func newTestManager(t *testing.T, cfg cache.Config) (*Manager[*Widget], *testsupport.RecordingStore, *fakeSource[*Widget], *stats.Tracker) {
	t.Helper()
	store := testsupport.NewRecordingStore()
	source := newFakeSource[*Widget]()
	tracker := stats.New(store, cfg.KeyPrefix)

	manager, err := New[*Widget](store, source, tracker, cfg)
	if err != nil {
		t.Fatalf("constructing manager: %v", err)
	}
	return manager, store, source, tracker
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.TTL = 0

	store := testsupport.NewRecordingStore()
	_, err := New[*Widget](store, newFakeSource[*Widget](), stats.New(store, "app"), cfg)
	if err == nil {
		t.Fatal("expected config validation error")
	}
}

func TestNew_RejectsUnresolvableType(t *testing.T) {
	store := testsupport.NewRecordingStore()
	_, err := New[Entity](store, newFakeSource[Entity](), stats.New(store, "app"), testConfig())
	if !errors.Is(err, cache.ErrInvalidEntityType) {
		t.Fatalf("expected ErrInvalidEntityType, got %v", err)
	}
}

func TestPutThenGet_RoundTrip(t *testing.T) {
	manager, _, _, _ := newTestManager(t, testConfig())
	ctx := context.Background()

	in := &Widget{ID: "42", Name: "sprocket", Price: 1299}
	if !manager.Put(ctx, in) {
		t.Fatal("put returned false for a cacheable entity")
	}

	out, err := manager.Get(ctx, "42")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if *out != *in {
		t.Errorf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestGet_MissReadsThroughAndCaches(t *testing.T) {
	manager, _, source, tracker := newTestManager(t, testConfig())
	ctx := context.Background()

	source.add(&Widget{ID: "42", Name: "sprocket"})

	got, err := manager.Get(ctx, "42")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "sprocket" {
		t.Errorf("unexpected entity %+v", got)
	}

	// Second read must be served from cache.
	if _, err := manager.Get(ctx, "42"); err != nil {
		t.Fatalf("second get: %v", err)
	}
	calls := source.getCalls()
	if len(calls) != 1 {
		t.Errorf("expected exactly one source fetch, got %v", calls)
	}

	s, _ := tracker.Snapshot(ctx, manager.TypeName())
	if s.Misses != 1 || s.Hits != 1 {
		t.Errorf("counters = %d hits / %d misses, want 1/1", s.Hits, s.Misses)
	}
}

func TestGet_AbsentEverywhere(t *testing.T) {
	manager, _, _, _ := newTestManager(t, testConfig())

	_, err := manager.Get(context.Background(), "ghost")
	if !errors.Is(err, cache.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGet_StoreDownDegradesToSource(t *testing.T) {
	manager, store, source, _ := newTestManager(t, testConfig())
	source.add(&Widget{ID: "42", Name: "sprocket"})
	store.FailGet = true
	store.FailSet = true

	// A cache outage costs latency, never the answer.
	got, err := manager.Get(context.Background(), "42")
	if err != nil {
		t.Fatalf("get during store outage: %v", err)
	}
	if got.ID != "42" {
		t.Errorf("unexpected entity %+v", got)
	}
}

func TestGet_CorruptEntryTreatedAsMiss(t *testing.T) {
	manager, store, source, _ := newTestManager(t, testConfig())
	ctx := context.Background()

	source.add(&Widget{ID: "42", Name: "fresh"})
	key := cache.EntityKey("app", manager.TypeName(), "42")
	if err := store.Set(ctx, key, []byte("garbage"), time.Minute); err != nil {
		t.Fatalf("seeding corrupt entry: %v", err)
	}

	got, err := manager.Get(ctx, "42")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "fresh" {
		t.Errorf("corrupt entry not refetched, got %+v", got)
	}
}

func TestGet_SourceFailurePropagates(t *testing.T) {
	manager, _, source, _ := newTestManager(t, testConfig())
	source.err = fmt.Errorf("%w: connection refused", cache.ErrSourceUnavailable)

	_, err := manager.Get(context.Background(), "42")
	if !errors.Is(err, cache.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestGetMany_EmptyInputZeroStoreCalls(t *testing.T) {
	manager, store, source, _ := newTestManager(t, testConfig())

	got, err := manager.GetMany(context.Background(), nil)
	if err != nil {
		t.Fatalf("getmany: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
	if calls := store.Calls(); len(calls) != 0 {
		t.Errorf("expected zero store calls, got %v", calls)
	}
	if calls := source.getCalls(); len(calls) != 0 {
		t.Errorf("expected zero source calls, got %v", calls)
	}
}

func TestGetMany_AllUncached(t *testing.T) {
	manager, _, source, _ := newTestManager(t, testConfig())
	ctx := context.Background()

	source.add(&Widget{ID: "1", Name: "a"})
	source.add(&Widget{ID: "2", Name: "b"})
	source.add(&Widget{ID: "3", Name: "c"})

	got, err := manager.GetMany(ctx, []string{"1", "2", "3"})
	if err != nil {
		t.Fatalf("getmany: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entities, got %d", len(got))
	}

	// Everything fetched must now be cached: repeat reads stay off the
	// source.
	source.calls = nil
	for _, id := range []string{"1", "2", "3"} {
		if _, err := manager.Get(ctx, id); err != nil {
			t.Fatalf("get %s after warm-up: %v", id, err)
		}
	}
	if calls := source.getCalls(); len(calls) != 0 {
		t.Errorf("expected cached reads, source saw %v", calls)
	}
}

func TestGetMany_PartialHit(t *testing.T) {
	manager, _, source, tracker := newTestManager(t, testConfig())
	ctx := context.Background()

	source.add(&Widget{ID: "1", Name: "a"})
	source.add(&Widget{ID: "2", Name: "b"})
	source.add(&Widget{ID: "3", Name: "c"})
	manager.Put(ctx, &Widget{ID: "1", Name: "a"})
	manager.Put(ctx, &Widget{ID: "2", Name: "b"})

	got, err := manager.GetMany(ctx, []string{"1", "2", "3"})
	if err != nil {
		t.Fatalf("getmany: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entities, got %d", len(got))
	}

	calls := source.getCalls()
	if len(calls) != 1 || calls[0] != "FetchByIDs 3" {
		t.Errorf("expected one batched fetch for id 3 only, got %v", calls)
	}

	s, _ := tracker.Snapshot(ctx, manager.TypeName())
	if s.Hits != 2 || s.Misses != 1 {
		t.Errorf("counters = %d hits / %d misses, want 2/1", s.Hits, s.Misses)
	}
}

func TestGetMany_UsesSingleMultiGet(t *testing.T) {
	manager, store, source, _ := newTestManager(t, testConfig())
	source.add(&Widget{ID: "1"})
	source.add(&Widget{ID: "2"})

	if _, err := manager.GetMany(context.Background(), []string{"1", "2"}); err != nil {
		t.Fatalf("getmany: %v", err)
	}
	if n := store.CallCount("GetMany"); n != 1 {
		t.Errorf("expected a single multi-get, saw %d", n)
	}
}

func TestGetMany_BatchWriteFallsBackPerKey(t *testing.T) {
	manager, store, source, _ := newTestManager(t, testConfig())
	ctx := context.Background()

	source.add(&Widget{ID: "1", Name: "a"})
	source.add(&Widget{ID: "2", Name: "b"})
	store.FailSetMany = true

	if _, err := manager.GetMany(ctx, []string{"1", "2"}); err != nil {
		t.Fatalf("getmany: %v", err)
	}

	// Per-key fallback must still have cached both entities.
	source.calls = nil
	if _, err := manager.Get(ctx, "1"); err != nil {
		t.Fatalf("get after fallback: %v", err)
	}
	if _, err := manager.Get(ctx, "2"); err != nil {
		t.Fatalf("get after fallback: %v", err)
	}
	if calls := source.getCalls(); len(calls) != 0 {
		t.Errorf("fallback writes lost, source saw %v", calls)
	}
}

func TestGetMany_MultiGetFailureTreatsAllAsMisses(t *testing.T) {
	manager, store, source, _ := newTestManager(t, testConfig())
	source.add(&Widget{ID: "1"})
	store.FailGetMany = true
	store.FailSetMany = true
	store.FailSet = true

	got, err := manager.GetMany(context.Background(), []string{"1"})
	if err != nil {
		t.Fatalf("getmany during outage: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected source result despite outage, got %d entities", len(got))
	}
}

func TestGetMany_SourceFailurePropagates(t *testing.T) {
	manager, _, source, _ := newTestManager(t, testConfig())
	source.err = fmt.Errorf("%w: timeout", cache.ErrSourceUnavailable)

	_, err := manager.GetMany(context.Background(), []string{"1"})
	if !errors.Is(err, cache.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestPut_NoPrimaryKey(t *testing.T) {
	manager, store, _, _ := newTestManager(t, testConfig())

	if manager.Put(context.Background(), &Widget{Name: "unsaved"}) {
		t.Error("put succeeded for an entity without a primary key")
	}
	if calls := store.Calls(); len(calls) != 0 {
		t.Errorf("expected zero store calls, got %v", calls)
	}
}

func TestPut_NilEntity(t *testing.T) {
	manager, store, _, _ := newTestManager(t, testConfig())

	if manager.Put(context.Background(), nil) {
		t.Error("put succeeded for a nil entity")
	}
	if calls := store.Calls(); len(calls) != 0 {
		t.Errorf("expected zero store calls, got %v", calls)
	}
}

func TestPut_Tombstoned(t *testing.T) {
	manager, store, _, _ := newTestManager(t, testConfig())

	if manager.Put(context.Background(), &Widget{ID: "42", Deleted: true}) {
		t.Error("put succeeded for a soft-deleted entity")
	}
	if calls := store.Calls(); len(calls) != 0 {
		t.Errorf("expected zero store calls, got %v", calls)
	}
}

func TestPut_StoreFailureReturnsFalse(t *testing.T) {
	manager, store, _, _ := newTestManager(t, testConfig())
	store.FailSet = true

	if manager.Put(context.Background(), &Widget{ID: "42"}) {
		t.Error("put reported success during store outage")
	}
}

func TestPut_UsesAdaptiveTTL(t *testing.T) {
	manager, store, _, tracker := newTestManager(t, testConfig())
	ctx := context.Background()

	// 10 hits, 2 misses: rate 0.8333, so 300s base grows to 450s.
	for i := 0; i < 10; i++ {
		tracker.RecordHit(ctx, manager.TypeName())
	}
	tracker.RecordMiss(ctx, manager.TypeName())
	tracker.RecordMiss(ctx, manager.TypeName())

	if !manager.Put(ctx, &Widget{ID: "42"}) {
		t.Fatal("put failed")
	}

	key := cache.EntityKey("app", manager.TypeName(), "42")
	ttl, ok := store.TTLOf(key)
	if !ok {
		t.Fatal("entry not stored")
	}
	if ttl < 449*time.Second || ttl > 450*time.Second {
		t.Errorf("entry TTL = %v, want ~450s from adaptive growth", ttl)
	}
}

func TestInvalidate_ThenGetNeverStale(t *testing.T) {
	manager, _, source, _ := newTestManager(t, testConfig())
	ctx := context.Background()

	stale := &Widget{ID: "42", Name: "stale"}
	source.add(stale)
	if _, err := manager.Get(ctx, "42"); err != nil {
		t.Fatalf("priming get: %v", err)
	}

	// The source moves on; the cache still has the old value.
	source.add(&Widget{ID: "42", Name: "fresh"})
	if !manager.Invalidate(ctx, stale) {
		t.Fatal("invalidate failed")
	}

	got, err := manager.Get(ctx, "42")
	if err != nil {
		t.Fatalf("get after invalidation: %v", err)
	}
	if got.Name != "fresh" {
		t.Errorf("got pre-invalidation value %q", got.Name)
	}
}

func TestInvalidate_StoreFailureReturnsFalse(t *testing.T) {
	manager, store, _, _ := newTestManager(t, testConfig())
	store.FailDelete = true

	if manager.Invalidate(context.Background(), &Widget{ID: "42"}) {
		t.Error("invalidate reported success during store outage")
	}
}

func TestInvalidateAll_ClearsTypeNamespaceOnly(t *testing.T) {
	manager, store, _, tracker := newTestManager(t, testConfig())
	ctx := context.Background()

	manager.Put(ctx, &Widget{ID: "1"})
	manager.Put(ctx, &Widget{ID: "2"})
	tracker.RecordHit(ctx, manager.TypeName())

	if !manager.InvalidateAll(ctx) {
		t.Fatal("invalidate all failed")
	}

	key := cache.EntityKey("app", manager.TypeName(), "1")
	if _, err := store.Get(ctx, key); !errors.Is(err, cache.ErrNotFound) {
		t.Error("entity entry survived bulk invalidation")
	}

	// Counters live in a different namespace and must survive.
	if s, ok := tracker.Snapshot(ctx, manager.TypeName()); !ok || s.Hits == 0 {
		t.Error("stats were erased by bulk invalidation")
	}
}

func TestInvalidateAll_ReportsStoreFailure(t *testing.T) {
	manager, store, _, _ := newTestManager(t, testConfig())
	store.FailDeleteByPrefix = true

	// Callers must learn that bulk invalidation did not happen.
	if manager.InvalidateAll(context.Background()) {
		t.Error("invalidate all reported success during store outage")
	}
}

func TestWarm_ByIDs(t *testing.T) {
	manager, _, source, _ := newTestManager(t, testConfig())
	ctx := context.Background()

	source.add(&Widget{ID: "1"})
	source.add(&Widget{ID: "2"})
	source.add(&Widget{ID: "3", Deleted: true})

	count, err := manager.Warm(ctx, []string{"1", "2", "3", "ghost"})
	if err != nil {
		t.Fatalf("warm: %v", err)
	}
	// Fetched 3, cached 2: the tombstoned entity does not count.
	if count != 2 {
		t.Errorf("warm cached %d entities, want 2", count)
	}

	source.calls = nil
	if _, err := manager.Get(ctx, "1"); err != nil {
		t.Fatalf("get after warm: %v", err)
	}
	if calls := source.getCalls(); len(calls) != 0 {
		t.Errorf("warmed entity not served from cache, source saw %v", calls)
	}
}

func TestWarm_EmptyIDsFetchesAll(t *testing.T) {
	manager, _, source, _ := newTestManager(t, testConfig())

	source.add(&Widget{ID: "1"})
	source.add(&Widget{ID: "2"})

	count, err := manager.Warm(context.Background(), nil)
	if err != nil {
		t.Fatalf("warm: %v", err)
	}
	if count != 2 {
		t.Errorf("warm cached %d entities, want 2", count)
	}
	calls := source.getCalls()
	if len(calls) != 1 || calls[0] != "FetchAll" {
		t.Errorf("expected a single FetchAll, got %v", calls)
	}
}

func TestWarm_SourceFailurePropagates(t *testing.T) {
	manager, _, source, _ := newTestManager(t, testConfig())
	source.err = fmt.Errorf("%w: down", cache.ErrSourceUnavailable)

	if _, err := manager.Warm(context.Background(), []string{"1"}); !errors.Is(err, cache.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestOnSaved_RespectsAutoInvalidate(t *testing.T) {
	ctx := context.Background()

	t.Run("enabled writes through", func(t *testing.T) {
		manager, store, _, _ := newTestManager(t, testConfig())
		manager.OnSaved(ctx, &Widget{ID: "42"})
		if store.Len() == 0 {
			t.Error("save hook did not write through")
		}
	})

	t.Run("disabled is a no-op", func(t *testing.T) {
		cfg := testConfig()
		cfg.AutoInvalidate = false
		manager, store, _, _ := newTestManager(t, cfg)
		manager.OnSaved(ctx, &Widget{ID: "42"})
		if calls := store.Calls(); len(calls) != 0 {
			t.Errorf("expected no store traffic, got %v", calls)
		}
	})
}

func TestOnDeleted_RemovesEntry(t *testing.T) {
	manager, store, _, _ := newTestManager(t, testConfig())
	ctx := context.Background()

	entity := &Widget{ID: "42"}
	manager.Put(ctx, entity)
	manager.OnDeleted(ctx, entity)

	key := cache.EntityKey("app", manager.TypeName(), "42")
	if _, err := store.Get(ctx, key); !errors.Is(err, cache.ErrNotFound) {
		t.Error("delete hook left the entry cached")
	}
}

// Assembly exercises the optional relation-caching contract.
type Assembly struct {
	ID   string `msgpack:"id"`
	Name string `msgpack:"name"`

	parts map[string]any
}

func (a *Assembly) PrimaryKey() string                       { return a.ID }
func (a *Assembly) IsCacheable() bool                        { return true }
func (a *Assembly) CachedRelations() map[string]any          { return a.parts }
func (a *Assembly) RestoreRelations(relations map[string]any) { a.parts = relations }

func newAssemblyManager(t *testing.T, cfg cache.Config) (*Manager[*Assembly], *fakeSource[*Assembly]) {
	t.Helper()
	store := testsupport.NewRecordingStore()
	source := newFakeSource[*Assembly]()
	manager, err := New[*Assembly](store, source, stats.New(store, cfg.KeyPrefix), cfg)
	if err != nil {
		t.Fatalf("constructing manager: %v", err)
	}
	return manager, source
}

func TestRelations_RoundTripWhenEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.CacheRelationships = true
	manager, _ := newAssemblyManager(t, cfg)
	ctx := context.Background()

	in := &Assembly{
		ID:    "1",
		Name:  "gearbox",
		parts: map[string]any{"gears": []any{"g1", "g2"}},
	}
	if !manager.Put(ctx, in) {
		t.Fatal("put failed")
	}

	out, err := manager.Get(ctx, "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	gears, ok := out.parts["gears"].([]any)
	if !ok || len(gears) != 2 || gears[0] != "g1" {
		t.Errorf("relations not restored, got %#v", out.parts)
	}
}

func TestRelations_SkippedWhenDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.CacheRelationships = false
	manager, _ := newAssemblyManager(t, cfg)
	ctx := context.Background()

	in := &Assembly{ID: "1", parts: map[string]any{"gears": []any{"g1"}}}
	if !manager.Put(ctx, in) {
		t.Fatal("put failed")
	}

	out, err := manager.Get(ctx, "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if out.parts != nil {
		t.Errorf("relations cached despite being disabled: %#v", out.parts)
	}
}

func TestGet_BypassSkipsCacheAndRefreshes(t *testing.T) {
	ctx := context.Background()
	manager, _, source, tracker := newTestManager(t, testConfig())

	source.add(&Widget{ID: "1", Name: "stale"})
	if _, err := manager.Get(ctx, "1"); err != nil {
		t.Fatalf("Get: %v", err)
	}

	// The source changed behind the cache's back.
	source.add(&Widget{ID: "1", Name: "fresh"})

	widget, err := manager.Get(WithBypass(ctx), "1")
	if err != nil {
		t.Fatalf("bypassed Get: %v", err)
	}
	if widget.Name != "fresh" {
		t.Errorf("bypassed read got %q, want the source's %q", widget.Name, "fresh")
	}

	// The refresh was written back; a normal read now sees it.
	widget, err = manager.Get(ctx, "1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if widget.Name != "fresh" {
		t.Errorf("follow-up read got %q, want %q", widget.Name, "fresh")
	}

	// Bypassed reads do not touch the counters: one miss from the initial
	// read, one hit from the follow-up.
	snapshot, ok := tracker.Snapshot(ctx, manager.TypeName())
	if !ok {
		t.Fatal("expected stats for the type")
	}
	if snapshot.Hits != 1 || snapshot.Misses != 1 {
		t.Errorf("got %d hits and %d misses, want 1 and 1", snapshot.Hits, snapshot.Misses)
	}
}

func TestGetMany_BypassFetchesEverything(t *testing.T) {
	ctx := context.Background()
	manager, _, source, _ := newTestManager(t, testConfig())

	source.add(&Widget{ID: "1", Name: "one"})
	source.add(&Widget{ID: "2", Name: "two"})

	// Prime the cache with one of them.
	if _, err := manager.Get(ctx, "1"); err != nil {
		t.Fatalf("Get: %v", err)
	}

	widgets, err := manager.GetMany(WithBypass(ctx), []string{"1", "2"})
	if err != nil {
		t.Fatalf("bypassed GetMany: %v", err)
	}
	if len(widgets) != 2 {
		t.Fatalf("got %d widgets, want 2", len(widgets))
	}

	// Both ids went to the source despite one being cached.
	calls := source.getCalls()
	if calls[len(calls)-1] != "FetchByIDs 1,2" {
		t.Errorf("last source call = %q, want %q", calls[len(calls)-1], "FetchByIDs 1,2")
	}
}
