// Package bunsource implements the entitycache.Source contract on top of a
// bun database handle, so any bun-mapped model that satisfies
// entitycache.Entity can back a cache manager without extra glue.
package bunsource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-entity-cache/cache"
	"github.com/goliatone/go-entity-cache/entitycache"
)

// Source resolves entities of type T from a relational database through
// bun. T is expected to be a pointer to a bun-mapped struct.
//
// Absent rows surface as cache.ErrNotFound; every other database failure is
// wrapped in cache.ErrSourceUnavailable so the manager propagates it rather
// than treating it as a miss.
type Source[T entitycache.Entity] struct {
	db       *bun.DB
	pkColumn string
}

// Option customizes a Source.
type Option[T entitycache.Entity] func(*Source[T])

// WithPKColumn overrides the primary key column name, "id" by default.
func WithPKColumn[T entitycache.Entity](column string) Option[T] {
	return func(s *Source[T]) {
		s.pkColumn = column
	}
}

// New returns a Source backed by db.
func New[T entitycache.Entity](db *bun.DB, opts ...Option[T]) *Source[T] {
	s := &Source[T]{db: db, pkColumn: "id"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Source[T]) FetchByID(ctx context.Context, id string) (T, error) {
	record := newRecord[T]()
	err := s.db.NewSelect().
		Model(record).
		Where("? = ?", bun.Ident(s.pkColumn), id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		var zero T
		return zero, cache.ErrNotFound
	}
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w: selecting by %s: %v", cache.ErrSourceUnavailable, s.pkColumn, err)
	}
	return record, nil
}

func (s *Source[T]) FetchByIDs(ctx context.Context, ids []string) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}

	var records []T
	err := s.db.NewSelect().
		Model(&records).
		Where("? IN (?)", bun.Ident(s.pkColumn), bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: selecting by %s list: %v", cache.ErrSourceUnavailable, s.pkColumn, err)
	}
	return records, nil
}

func (s *Source[T]) FetchAll(ctx context.Context) ([]T, error) {
	var records []T
	if err := s.db.NewSelect().Model(&records).Scan(ctx); err != nil {
		return nil, fmt.Errorf("%w: selecting all: %v", cache.ErrSourceUnavailable, err)
	}
	return records, nil
}

// newRecord allocates a fresh T for bun to scan into. Pointer type
// parameters need an addressable struct behind them, not a nil pointer.
func newRecord[T entitycache.Entity]() T {
	var zero T
	t := reflect.TypeOf(zero)
	if t != nil && t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem()).Interface().(T)
	}
	return zero
}
