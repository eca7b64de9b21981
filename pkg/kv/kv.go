// Package kv defines the key-value primitives corkboard persists through,
// along with a registry of named backends.
//
// The contract is intentionally small: string values under string keys,
// atomic integer counters, and append-at-head lists. Every backend reports
// absent keys as ErrNotFound and transport failures (including timeouts)
// wrapped in ErrUnavailable, so callers can classify errors without knowing
// which backend is in use.
package kv

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get for an absent key and by LIndex for an
	// index outside the list.
	ErrNotFound = errors.New("kv: key not found")

	// ErrUnavailable wraps every failure to reach or use the backing store.
	ErrUnavailable = errors.New("kv: store unavailable")

	// ErrWrongKind is returned when a key holds a value of the wrong shape for
	// the operation: a list used as a string, or a non-integer counter.
	ErrWrongKind = errors.New("kv: wrong kind of value")
)

// Store is the set of primitives the entity layer relies on.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the string stored at key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value at key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// SetNX stores value at key only if key is absent.
	// It reports whether the value was stored.
	SetNX(ctx context.Context, key, value string) (bool, error)

	// Incr atomically increments the integer counter at key and returns the
	// new value. A missing counter starts at 0, so the first call returns 1.
	Incr(ctx context.Context, key string) (int64, error)

	// LPush prepends value to the list at key, creating the list if needed.
	LPush(ctx context.Context, key, value string) error

	// LIndex returns the element at index i (0 is the head), or ErrNotFound.
	LIndex(ctx context.Context, key string, i int64) (string, error)

	// LLen returns the length of the list at key; a missing list has length 0.
	LLen(ctx context.Context, key string) (int64, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

// Ranger is implemented by stores that can read a span of a list in a single
// round-trip. Stop is inclusive and -1 means the last element, matching Redis.
type Ranger interface {
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}

// ReadList returns every element of the list at key in head-to-tail order.
func ReadList(ctx context.Context, s Store, key string) ([]string, error) {
	return Range(ctx, s, key, 0, -1)
}

// Range returns the elements of the list at key between start and stop
// inclusive, with Redis index semantics (negative indexes count from the
// tail). It uses a single LRange when s implements Ranger, and falls back to
// LLen followed by one LIndex per element otherwise.
func Range(ctx context.Context, s Store, key string, start, stop int64) ([]string, error) {
	if r, ok := s.(Ranger); ok {
		return r.LRange(ctx, key, start, stop)
	}

	n, err := s.LLen(ctx, key)
	if err != nil {
		return nil, err
	}
	if start < 0 {
		start = max(start+n, 0)
	}
	if stop < 0 {
		stop += n
	}
	stop = min(stop, n-1)

	out := []string{}
	for i := start; i <= stop; i++ {
		v, err := s.LIndex(ctx, key, i)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnavailable reports whether err is (or wraps) ErrUnavailable.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
