package testsupport

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-entity-cache/cache"
)

// RecordingStore is an in-memory cache.Store for tests. It records every
// call so tests can assert exact store traffic, honors per-key TTLs against
// an injectable clock, and can be forced to fail per operation to exercise
// fail-soft paths.
type RecordingStore struct {
	mu    sync.Mutex
	data  map[string]storedValue
	calls []string

	FailGet            bool
	FailSet            bool
	FailDelete         bool
	FailGetMany        bool
	FailSetMany        bool
	FailDeleteByPrefix bool

	// Now overrides the clock used for expiry checks. Defaults to time.Now.
	Now func() time.Time
}

type storedValue struct {
	payload   []byte
	expiresAt time.Time
}

// NewRecordingStore returns an empty RecordingStore.
func NewRecordingStore() *RecordingStore {
	return &RecordingStore{data: make(map[string]storedValue)}
}

func (s *RecordingStore) clock() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *RecordingStore) record(call string) {
	s.calls = append(s.calls, call)
}

// Calls returns the ordered list of store operations seen so far.
func (s *RecordingStore) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// CallCount returns how many recorded calls start with op.
func (s *RecordingStore) CallCount(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if strings.HasPrefix(c, op) {
			n++
		}
	}
	return n
}

// Len reports the number of live entries.
func (s *RecordingStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.data {
		if !v.expired(s.clock()) {
			n++
		}
	}
	return n
}

// TTLOf returns the remaining TTL recorded for key, or false when absent.
func (s *RecordingStore) TTLOf(key string) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok || v.expired(s.clock()) {
		return 0, false
	}
	if v.expiresAt.IsZero() {
		return 0, true
	}
	return v.expiresAt.Sub(s.clock()), true
}

func (v storedValue) expired(now time.Time) bool {
	return !v.expiresAt.IsZero() && now.After(v.expiresAt)
}

func (s *RecordingStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("Get " + key)
	if s.FailGet {
		return nil, fmt.Errorf("%w: forced get failure", cache.ErrStoreUnavailable)
	}
	v, ok := s.data[key]
	if !ok || v.expired(s.clock()) {
		return nil, cache.ErrNotFound
	}
	return append([]byte(nil), v.payload...), nil
}

func (s *RecordingStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("Set " + key)
	if s.FailSet {
		return fmt.Errorf("%w: forced set failure", cache.ErrStoreUnavailable)
	}
	s.put(key, value, ttl)
	return nil
}

func (s *RecordingStore) put(key string, value []byte, ttl time.Duration) {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = s.clock().Add(ttl)
	}
	s.data[key] = storedValue{payload: append([]byte(nil), value...), expiresAt: expiresAt}
}

func (s *RecordingStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("Delete " + key)
	if s.FailDelete {
		return fmt.Errorf("%w: forced delete failure", cache.ErrStoreUnavailable)
	}
	delete(s.data, key)
	return nil
}

func (s *RecordingStore) GetMany(ctx context.Context, keys []string) (map[string][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(fmt.Sprintf("GetMany n=%d", len(keys)))
	if s.FailGetMany {
		return nil, fmt.Errorf("%w: forced multi-get failure", cache.ErrStoreUnavailable)
	}
	found := make(map[string][]byte)
	for _, key := range keys {
		if v, ok := s.data[key]; ok && !v.expired(s.clock()) {
			found[key] = append([]byte(nil), v.payload...)
		}
	}
	return found, nil
}

func (s *RecordingStore) SetMany(ctx context.Context, entries map[string][]byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(fmt.Sprintf("SetMany n=%d", len(entries)))
	if s.FailSetMany {
		return fmt.Errorf("%w: forced multi-set failure", cache.ErrStoreUnavailable)
	}
	for key, value := range entries {
		s.put(key, value, ttl)
	}
	return nil
}

func (s *RecordingStore) DeleteByPrefix(ctx context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("DeleteByPrefix " + prefix)
	if s.FailDeleteByPrefix {
		return fmt.Errorf("%w: forced prefix delete failure", cache.ErrStoreUnavailable)
	}
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			delete(s.data, key)
		}
	}
	return nil
}
