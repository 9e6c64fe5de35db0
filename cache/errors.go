package cache

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Store.Get when no entry exists for the key.
// Read paths treat it as an ordinary miss.
var ErrNotFound = errors.New("cache: entry not found")

// ErrStoreUnavailable marks a failure to reach the keyed store (connection
// refused, timeout, pool exhaustion). Read paths degrade to a miss, write
// paths report a failed put or invalidation; it never escapes as a fatal
// error from the manager.
var ErrStoreUnavailable = errors.New("cache: store unavailable")

// ErrSourceUnavailable marks a failure to reach the authoritative source.
// Unlike store failures this one always propagates to the caller: without
// the source there is no correct answer to give.
var ErrSourceUnavailable = errors.New("cache: authoritative source unavailable")

// ErrInvalidEntityType is returned when a caller hands the manager a type it
// cannot resolve. This is a programmer error and is surfaced immediately.
var ErrInvalidEntityType = errors.New("cache: invalid entity type")

// SerializationError wraps an Entry encode or decode failure. Decode failures
// are treated like a miss on the read path; encode failures fail the write.
type SerializationError struct {
	Op  string // "encode" or "decode"
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("cache: %s entry: %v", e.Op, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }
