package board

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dyluth/corkboard/pkg/kv"
)

// pythonDateLayout is how boards written by the earlier deployment stored
// their creation time (local wall clock, optional microseconds).
const pythonDateLayout = "2006-01-02 15:04:05.999999999"

// Store is the entity store: board and comment reads and writes over a kv.Store.
// It holds no mutable state and is safe for concurrent use.
type Store struct {
	kv   kv.Store
	keys Keys
	ids  *IDGenerator
	now  func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithNamespace prefixes every key with ns.
func WithNamespace(ns string) Option {
	return func(s *Store) { s.keys = Keys{Namespace: ns} }
}

// WithClock replaces time.Now as the source of board creation times.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore returns a Store persisting to backend.
func NewStore(backend kv.Store, opts ...Option) *Store {
	s := &Store{kv: backend, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.ids = NewIDGenerator(backend, s.keys)
	return s
}

// Keys returns the key layout this store uses.
func (s *Store) Keys() Keys {
	return s.keys
}

// IDs returns the store's identifier generator.
func (s *Store) IDs() *IDGenerator {
	return s.ids
}

// Ping verifies the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.kv.Ping(ctx); err != nil {
		return storeError("PING", "", "store", "", err)
	}
	return nil
}

// CreateOrGetBoard returns the id of the board called name, creating it if
// no such board exists. A repeated call with the same name returns the same
// id without touching the counter.
//
// The name is claimed with SETNX after the board's fields are written. When
// two callers race on a new name both mint an id, but only the first claim
// sticks; the loser gets the winner's id back and its own record is left
// unreachable.
func (s *Store) CreateOrGetBoard(ctx context.Context, name, creator string) (string, error) {
	if err := validateBoard(name, creator); err != nil {
		return "", err
	}

	nameKey := s.keys.BoardByName(name)
	id, err := s.kv.Get(ctx, nameKey)
	if err == nil {
		return id, nil
	}
	if !kv.IsNotFound(err) {
		return "", storeError("GET", nameKey, "board", name, err)
	}

	id, err = s.ids.NextID(ctx, BoardCounter)
	if err != nil {
		return "", fmt.Errorf("minting board id: %w", err)
	}

	fields := []struct{ key, value string }{
		{s.keys.BoardName(id), name},
		{s.keys.BoardCreator(id), creator},
		{s.keys.BoardDate(id), s.now().UTC().Format(time.RFC3339Nano)},
	}
	for _, f := range fields {
		if err := s.kv.Set(ctx, f.key, f.value); err != nil {
			return "", storeError("SET", f.key, "board", id, err)
		}
	}

	claimed, err := s.kv.SetNX(ctx, nameKey, id)
	if err != nil {
		return "", storeError("SETNX", nameKey, "board", id, err)
	}
	if claimed {
		return id, nil
	}

	winner, err := s.kv.Get(ctx, nameKey)
	if err != nil {
		return "", storeError("GET", nameKey, "board", name, err)
	}
	return winner, nil
}

// LookupBoard returns the id of the board called name.
func (s *Store) LookupBoard(ctx context.Context, name string) (string, error) {
	key := s.keys.BoardByName(name)
	id, err := s.kv.Get(ctx, key)
	if kv.IsNotFound(err) {
		return "", &NotFoundError{Kind: "board", ID: name}
	}
	if err != nil {
		return "", storeError("GET", key, "board", name, err)
	}
	return id, nil
}

// GetBoard reads a board by id. A board without a name key does not exist;
// a board with a name but a missing creator or date is reported as corrupt.
func (s *Store) GetBoard(ctx context.Context, id string) (*Board, error) {
	nameKey := s.keys.BoardName(id)
	name, err := s.kv.Get(ctx, nameKey)
	if kv.IsNotFound(err) {
		return nil, &NotFoundError{Kind: "board", ID: id}
	}
	if err != nil {
		return nil, storeError("GET", nameKey, "board", id, err)
	}

	creator, err := s.required(ctx, s.keys.BoardCreator(id), "board", id)
	if err != nil {
		return nil, err
	}

	dateKey := s.keys.BoardDate(id)
	rawDate, err := s.required(ctx, dateKey, "board", id)
	if err != nil {
		return nil, err
	}
	createdAt, err := parseDate(rawDate)
	if err != nil {
		return nil, &CorruptRecordError{Kind: "board", ID: id, Key: dateKey, Reason: "undecodable timestamp", Err: err}
	}

	return &Board{
		ID:        id,
		Name:      name,
		Creator:   creator,
		CreatedAt: createdAt,
	}, nil
}

// boardExists checks only the primary key of a board.
func (s *Store) boardExists(ctx context.Context, id string) error {
	key := s.keys.BoardName(id)
	_, err := s.kv.Get(ctx, key)
	if kv.IsNotFound(err) {
		return &NotFoundError{Kind: "board", ID: id}
	}
	if err != nil {
		return storeError("GET", key, "board", id, err)
	}
	return nil
}

// required reads a field that must exist once its entity's primary key does.
func (s *Store) required(ctx context.Context, key, kind, id string) (string, error) {
	v, err := s.kv.Get(ctx, key)
	if kv.IsNotFound(err) {
		return "", &CorruptRecordError{Kind: kind, ID: id, Key: key, Reason: "missing field"}
	}
	if err != nil {
		return "", storeError("GET", key, kind, id, err)
	}
	return v, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return t, nil
	}
	if t, err2 := time.Parse(pythonDateLayout, s); err2 == nil {
		return t, nil
	}
	return time.Time{}, err
}

// storeError turns a kv failure into one of the package's error kinds.
// A value of the wrong shape is data corruption; anything else means the
// store could not serve the request.
func storeError(op, key, kind, id string, err error) error {
	if errors.Is(err, kv.ErrWrongKind) {
		return &CorruptRecordError{Kind: kind, ID: id, Key: key, Reason: "wrong kind of value", Err: err}
	}
	return &StoreUnavailableError{Op: op, Key: key, Err: err}
}
