// Package mem implements an in-process kv.Store.
// Nothing is persisted; it exists for tests and throwaway sessions.
package mem

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/dyluth/corkboard/pkg/kv"
)

var _ kv.Store = &Store{}

// Store keeps strings and lists in maps guarded by a single mutex.
// Like Redis, strings and lists share one keyspace: using a list key as a
// string (or vice versa) is an error.
type Store struct {
	mu      sync.Mutex
	strings map[string]string
	lists   map[string][]string
	closed  bool
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		strings: make(map[string]string),
		lists:   make(map[string][]string),
	}
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(); err != nil {
		return "", err
	}
	if _, ok := s.lists[key]; ok {
		return "", wrongType(key)
	}
	v, ok := s.strings[key]
	if !ok {
		return "", kv.ErrNotFound
	}
	return v, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(); err != nil {
		return err
	}
	if _, ok := s.lists[key]; ok {
		return wrongType(key)
	}
	s.strings[key] = value
	return nil
}

func (s *Store) SetNX(_ context.Context, key, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(); err != nil {
		return false, err
	}
	if _, ok := s.lists[key]; ok {
		return false, nil
	}
	if _, ok := s.strings[key]; ok {
		return false, nil
	}
	s.strings[key] = value
	return true, nil
}

func (s *Store) Incr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(); err != nil {
		return 0, err
	}
	if _, ok := s.lists[key]; ok {
		return 0, wrongType(key)
	}

	var n int64
	if v, ok := s.strings[key]; ok {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("mem: value at %q is not an integer: %w", key, kv.ErrWrongKind)
		}
		n = parsed
	}
	n++
	s.strings[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (s *Store) LPush(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(); err != nil {
		return err
	}
	if _, ok := s.strings[key]; ok {
		return wrongType(key)
	}
	list := s.lists[key]
	list = append(list, "")
	copy(list[1:], list)
	list[0] = value
	s.lists[key] = list
	return nil
}

func (s *Store) LIndex(_ context.Context, key string, i int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(); err != nil {
		return "", err
	}
	if _, ok := s.strings[key]; ok {
		return "", wrongType(key)
	}
	list := s.lists[key]
	if i < 0 {
		i += int64(len(list))
	}
	if i < 0 || i >= int64(len(list)) {
		return "", kv.ErrNotFound
	}
	return list[i], nil
}

func (s *Store) LLen(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(); err != nil {
		return 0, err
	}
	if _, ok := s.strings[key]; ok {
		return 0, wrongType(key)
	}
	return int64(len(s.lists[key])), nil
}

func (s *Store) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.check()
}

// Close marks the store closed; later calls fail with kv.ErrUnavailable.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Store) check() error {
	if s.closed {
		return fmt.Errorf("mem: store closed: %w", kv.ErrUnavailable)
	}
	return nil
}

func wrongType(key string) error {
	return fmt.Errorf("mem: %q: %w", key, kv.ErrWrongKind)
}

func init() {
	kv.Register("mem", func(context.Context, map[string]any) (kv.Store, error) {
		return New(), nil
	})
}
