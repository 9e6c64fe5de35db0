package cacheinfra

import (
	"context"
	"strings"
	"time"

	"github.com/viccon/sturdyc"

	"github.com/goliatone/go-entity-cache/cache"
)

// MemoryConfig holds the settings for the in-process store.
type MemoryConfig struct {
	// Capacity is the maximum number of entries before eviction kicks in.
	// Must be greater than 0.
	Capacity int

	// NumShards determines how many shards back the cache. Higher values
	// improve concurrency at some memory overhead. Must be greater than 0.
	NumShards int

	// MaxTTL is the client-level entry lifetime. Per-entry TTLs above it
	// are effectively capped here because sturdyc expires everything at
	// this horizon. Must be greater than 0.
	MaxTTL time.Duration

	// EvictionPercentage is how much of a full shard to evict at once.
	// Must be between 1 and 100.
	EvictionPercentage int

	// EvictionInterval sets how often expired entries are collected. Zero
	// uses the sturdyc default.
	EvictionInterval time.Duration
}

// DefaultMemoryConfig returns a MemoryConfig with sensible defaults. MaxTTL
// matches the upper bound of the adaptive TTL policy so no recommendation
// gets silently truncated.
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		Capacity:           10000,
		NumShards:          256,
		MaxTTL:             24 * time.Hour,
		EvictionPercentage: 10,
	}
}

// Validate checks the configuration values.
func (c MemoryConfig) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}
	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}
	if c.MaxTTL <= 0 {
		return &ConfigError{Field: "MaxTTL", Message: "must be greater than 0"}
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}
	return nil
}

// ConfigError represents a store configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryStore adapts a sturdyc client to the cache.Store contract. sturdyc
// brings sharded storage and capacity eviction but a single client-level
// TTL, so the per-entry TTL the contract requires is carried inside the
// entry and enforced on read; the client TTL acts as the ceiling.
//
// The context parameters are accepted for contract consistency; in-process
// operations complete without I/O and do not observe cancellation.
type MemoryStore struct {
	client *sturdyc.Client[memoryEntry]
	now    func() time.Time
}

// NewMemoryStore constructs an in-process store from the configuration.
func NewMemoryStore(cfg MemoryConfig) (*MemoryStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []sturdyc.Option
	if cfg.EvictionInterval > 0 {
		opts = append(opts, sturdyc.WithEvictionInterval(cfg.EvictionInterval))
	}

	client := sturdyc.New[memoryEntry](
		cfg.Capacity,
		cfg.NumShards,
		cfg.MaxTTL,
		cfg.EvictionPercentage,
		opts...,
	)

	return &MemoryStore{client: client, now: time.Now}, nil
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	entry, ok := s.client.Get(key)
	if !ok {
		return nil, cache.ErrNotFound
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		s.client.Delete(key)
		return nil, cache.ErrNotFound
	}
	return entry.payload, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = s.now().Add(ttl)
	}
	s.client.Set(key, memoryEntry{payload: value, expiresAt: expiresAt})
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.client.Delete(key)
	return nil
}

func (s *MemoryStore) GetMany(ctx context.Context, keys []string) (map[string][]byte, error) {
	found := make(map[string][]byte, len(keys))
	for _, key := range keys {
		value, err := s.Get(ctx, key)
		if err != nil {
			continue
		}
		found[key] = value
	}
	return found, nil
}

func (s *MemoryStore) SetMany(ctx context.Context, entries map[string][]byte, ttl time.Duration) error {
	for key, value := range entries {
		if err := s.Set(ctx, key, value, ttl); err != nil {
			return err
		}
	}
	return nil
}

func (s *MemoryStore) DeleteByPrefix(ctx context.Context, prefix string) error {
	for _, key := range s.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			s.client.Delete(key)
		}
	}
	return nil
}
