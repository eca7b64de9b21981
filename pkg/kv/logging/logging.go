// Package logging implements a kv.Store that delegates everything to a nested
// store, logging operations as they happen.
package logging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dyluth/corkboard/pkg/kv"
)

var (
	_ kv.Store  = &Store{}
	_ kv.Ranger = &Store{}
)

// Store wraps a nested kv.Store. Successful calls are logged at debug level;
// failures other than kv.ErrNotFound are logged at warn level.
type Store struct {
	s      kv.Store
	logger *slog.Logger
}

// New wraps s. A nil logger means slog.Default().
func New(s kv.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{s: s, logger: logger.With("component", "kv")}
}

// Nested returns the wrapped store.
func (s *Store) Nested() kv.Store {
	return s.s
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	start := time.Now()
	v, err := s.s.Get(ctx, key)
	s.log(ctx, "GET", key, start, err)
	return v, err
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	err := s.s.Set(ctx, key, value)
	s.log(ctx, "SET", key, start, err)
	return err
}

func (s *Store) SetNX(ctx context.Context, key, value string) (bool, error) {
	start := time.Now()
	ok, err := s.s.SetNX(ctx, key, value)
	s.log(ctx, "SETNX", key, start, err, "stored", ok)
	return ok, err
}

func (s *Store) Incr(ctx context.Context, key string) (int64, error) {
	start := time.Now()
	n, err := s.s.Incr(ctx, key)
	s.log(ctx, "INCR", key, start, err, "value", n)
	return n, err
}

func (s *Store) LPush(ctx context.Context, key, value string) error {
	start := time.Now()
	err := s.s.LPush(ctx, key, value)
	s.log(ctx, "LPUSH", key, start, err)
	return err
}

func (s *Store) LIndex(ctx context.Context, key string, i int64) (string, error) {
	start := time.Now()
	v, err := s.s.LIndex(ctx, key, i)
	s.log(ctx, "LINDEX", key, start, err, "index", i)
	return v, err
}

func (s *Store) LLen(ctx context.Context, key string) (int64, error) {
	start := time.Now()
	n, err := s.s.LLen(ctx, key)
	s.log(ctx, "LLEN", key, start, err, "len", n)
	return n, err
}

// LRange implements kv.Ranger so that wrapping a store never loses its
// batched read; for nested stores without LRange it falls back to kv.Range.
func (s *Store) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	began := time.Now()
	vals, err := kv.Range(ctx, s.s, key, start, stop)
	s.log(ctx, "LRANGE", key, began, err, "count", len(vals))
	return vals, err
}

func (s *Store) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.s.Ping(ctx)
	s.log(ctx, "PING", "", start, err)
	return err
}

func (s *Store) Close() error {
	err := s.s.Close()
	if err != nil {
		s.logger.Warn("close failed", "error", err)
	}
	return err
}

func (s *Store) log(ctx context.Context, op, key string, start time.Time, err error, extra ...any) {
	attrs := append([]any{"op", op, "key", key, "elapsed", time.Since(start)}, extra...)
	switch {
	case err == nil:
		s.logger.DebugContext(ctx, "kv op", attrs...)
	case errors.Is(err, kv.ErrNotFound):
		s.logger.DebugContext(ctx, "kv op", append(attrs, "result", "not found")...)
	default:
		s.logger.WarnContext(ctx, "kv op failed", append(attrs, "error", err)...)
	}
}

func init() {
	kv.Register("logging", func(ctx context.Context, conf map[string]any) (kv.Store, error) {
		nested, ok := conf["nested"].(map[string]any)
		if !ok {
			return nil, errors.New(`logging backend: missing "nested" parameter`)
		}
		nestedType, ok := nested["type"].(string)
		if !ok {
			return nil, errors.New(`logging backend: "nested" parameter missing "type"`)
		}
		nestedStore, err := kv.Open(ctx, nestedType, nested)
		if err != nil {
			return nil, fmt.Errorf("creating nested store: %w", err)
		}
		return New(nestedStore, nil), nil
	})
}
