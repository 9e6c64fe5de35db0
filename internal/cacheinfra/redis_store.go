package cacheinfra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/goliatone/go-entity-cache/cache"
)

// RedisConfig holds the settings for the Redis-backed store.
type RedisConfig struct {
	// Addr is the host:port of the Redis server.
	Addr string

	// Password authenticates the connection when non-empty.
	Password string

	// DB selects the logical database.
	DB int

	// MaxIdle caps the number of idle connections kept in the pool.
	MaxIdle int

	// IdleTimeout closes idle connections after this duration. Zero keeps
	// them indefinitely.
	IdleTimeout time.Duration

	// ConnectTimeout, ReadTimeout and WriteTimeout bound the respective
	// socket operations. A store that blocks forever defeats the fail-soft
	// contract, so these should stay short.
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	// ScanCount is the COUNT hint for SCAN during prefix deletion.
	ScanCount int
}

// DefaultRedisConfig returns a RedisConfig pointed at a local server.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:           "127.0.0.1:6379",
		MaxIdle:        3,
		IdleTimeout:    4 * time.Minute,
		ConnectTimeout: time.Second,
		ReadTimeout:    time.Second,
		WriteTimeout:   time.Second,
		ScanCount:      100,
	}
}

// Validate checks the configuration values.
func (c RedisConfig) Validate() error {
	if c.Addr == "" {
		return &ConfigError{Field: "Addr", Message: "must not be empty"}
	}
	if c.ScanCount <= 0 {
		return &ConfigError{Field: "ScanCount", Message: "must be greater than 0"}
	}
	return nil
}

// RedisStore implements the cache.Store contract on a redigo connection
// pool. Every infrastructure failure is wrapped in cache.ErrStoreUnavailable
// so callers can keep their degradation behavior driver-agnostic.
type RedisStore struct {
	pool      *redis.Pool
	scanCount int
}

// NewRedisStore constructs a Redis store. The pool dials lazily; a server
// that is down surfaces as cache.ErrStoreUnavailable on first use, not here.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool := &redis.Pool{
		MaxIdle:     cfg.MaxIdle,
		IdleTimeout: cfg.IdleTimeout,
		Dial: func() (redis.Conn, error) {
			opts := []redis.DialOption{
				redis.DialConnectTimeout(cfg.ConnectTimeout),
				redis.DialReadTimeout(cfg.ReadTimeout),
				redis.DialWriteTimeout(cfg.WriteTimeout),
				redis.DialDatabase(cfg.DB),
			}
			if cfg.Password != "" {
				opts = append(opts, redis.DialPassword(cfg.Password))
			}
			return redis.Dial("tcp", cfg.Addr, opts...)
		},
	}

	return &RedisStore{pool: pool, scanCount: cfg.ScanCount}, nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.pool.Close()
}

func (s *RedisStore) conn(ctx context.Context) (redis.Conn, error) {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: acquiring connection: %v", cache.ErrStoreUnavailable, err)
	}
	return conn, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	conn, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	value, err := redis.Bytes(conn.Do("GET", key))
	if errors.Is(err, redis.ErrNil) {
		return nil, cache.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", cache.ErrStoreUnavailable, key, err)
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	conn, err := s.conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.Do("SETEX", key, ttlSeconds(ttl), value); err != nil {
		return fmt.Errorf("%w: SETEX %s: %v", cache.ErrStoreUnavailable, key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	conn, err := s.conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.Do("DEL", key); err != nil {
		return fmt.Errorf("%w: DEL %s: %v", cache.ErrStoreUnavailable, key, err)
	}
	return nil
}

func (s *RedisStore) GetMany(ctx context.Context, keys []string) (map[string][]byte, error) {
	if len(keys) == 0 {
		return map[string][]byte{}, nil
	}

	conn, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	values, err := redis.ByteSlices(conn.Do("MGET", redis.Args{}.AddFlat(keys)...))
	if err != nil {
		return nil, fmt.Errorf("%w: MGET: %v", cache.ErrStoreUnavailable, err)
	}

	found := make(map[string][]byte, len(keys))
	for i, value := range values {
		if value == nil {
			continue
		}
		found[keys[i]] = value
	}
	return found, nil
}

func (s *RedisStore) SetMany(ctx context.Context, entries map[string][]byte, ttl time.Duration) error {
	if len(entries) == 0 {
		return nil
	}

	conn, err := s.conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	seconds := ttlSeconds(ttl)
	for key, value := range entries {
		if err := conn.Send("SETEX", key, seconds, value); err != nil {
			return fmt.Errorf("%w: pipelining SETEX %s: %v", cache.ErrStoreUnavailable, key, err)
		}
	}
	if err := conn.Flush(); err != nil {
		return fmt.Errorf("%w: flushing pipeline: %v", cache.ErrStoreUnavailable, err)
	}
	for range entries {
		if _, err := conn.Receive(); err != nil {
			return fmt.Errorf("%w: pipelined SETEX: %v", cache.ErrStoreUnavailable, err)
		}
	}
	return nil
}

func (s *RedisStore) DeleteByPrefix(ctx context.Context, prefix string) error {
	conn, err := s.conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	cursor := 0
	for {
		reply, err := redis.Values(conn.Do("SCAN", cursor, "MATCH", prefix+"*", "COUNT", s.scanCount))
		if err != nil {
			return fmt.Errorf("%w: SCAN %s*: %v", cache.ErrStoreUnavailable, prefix, err)
		}

		cursor, err = redis.Int(reply[0], nil)
		if err != nil {
			return fmt.Errorf("%w: parsing SCAN cursor: %v", cache.ErrStoreUnavailable, err)
		}
		keys, err := redis.Strings(reply[1], nil)
		if err != nil {
			return fmt.Errorf("%w: parsing SCAN keys: %v", cache.ErrStoreUnavailable, err)
		}

		if len(keys) > 0 {
			if _, err := conn.Do("DEL", redis.Args{}.AddFlat(keys)...); err != nil {
				return fmt.Errorf("%w: DEL scanned keys: %v", cache.ErrStoreUnavailable, err)
			}
		}

		if cursor == 0 {
			return nil
		}
	}
}

// ttlSeconds converts a duration to whole seconds for SETEX, which rejects
// zero. Sub-second TTLs round up to one second.
func ttlSeconds(ttl time.Duration) int64 {
	seconds := int64(ttl / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}
