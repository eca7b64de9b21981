// Package rediskv implements kv.Store on top of a Redis server.
package rediskv

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dyluth/corkboard/pkg/kv"
)

// DefaultTimeout bounds each round-trip when no timeout is configured.
const DefaultTimeout = 2 * time.Second

var (
	_ kv.Store  = &Store{}
	_ kv.Ranger = &Store{}
)

// Store is a Redis-backed kv.Store.
// The client is thread-safe and can be used concurrently from multiple goroutines.
type Store struct {
	rdb     *redis.Client
	timeout time.Duration
}

// New creates a Store for the given connection options.
// Every command runs under its own deadline of timeout (DefaultTimeout if
// timeout is zero), and a deadline overrun is reported as kv.ErrUnavailable.
func New(opts *redis.Options, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	opts.ContextTimeoutEnabled = true
	return &Store{
		rdb:     redis.NewClient(opts),
		timeout: timeout,
	}
}

// NewFromURL parses a redis:// URL (see redis.ParseURL) and calls New.
func NewFromURL(url string, timeout time.Duration) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return New(opts, timeout), nil
}

// RedisClient exposes the underlying client for callers needing raw access.
func (s *Store) RedisClient() *redis.Client {
	return s.rdb
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	v, err := s.rdb.Get(ctx, key).Result()
	return v, classify("GET", key, err)
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return classify("SET", key, s.rdb.Set(ctx, key, value, 0).Err())
}

func (s *Store) SetNX(ctx context.Context, key, value string) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ok, err := s.rdb.SetNX(ctx, key, value, 0).Result()
	return ok, classify("SETNX", key, err)
}

func (s *Store) Incr(ctx context.Context, key string) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	n, err := s.rdb.Incr(ctx, key).Result()
	return n, classify("INCR", key, err)
}

func (s *Store) LPush(ctx context.Context, key, value string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return classify("LPUSH", key, s.rdb.LPush(ctx, key, value).Err())
}

func (s *Store) LIndex(ctx context.Context, key string, i int64) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	v, err := s.rdb.LIndex(ctx, key, i).Result()
	return v, classify("LINDEX", key, err)
}

func (s *Store) LLen(ctx context.Context, key string) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	n, err := s.rdb.LLen(ctx, key).Result()
	return n, classify("LLEN", key, err)
}

// LRange implements kv.Ranger.
func (s *Store) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	vals, err := s.rdb.LRange(ctx, key, start, stop).Result()
	return vals, classify("LRANGE", key, err)
}

// Ping verifies Redis connectivity.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return classify("PING", "", s.rdb.Ping(ctx).Err())
}

// Close closes the Redis connection pool. After Close the store must not be used.
func (s *Store) Close() error {
	return s.rdb.Close()
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// classify maps a go-redis error onto the kv error kinds.
// redis.Nil becomes kv.ErrNotFound; type errors reported by the server become
// kv.ErrWrongKind; everything else (dial failures, timeouts, LOADING,
// READONLY, ...) becomes kv.ErrUnavailable.
func classify(op, key string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.Nil):
		return kv.ErrNotFound
	case isWrongKind(err):
		return fmt.Errorf("redis %s %q: %w: %w", op, key, kv.ErrWrongKind, err)
	default:
		return fmt.Errorf("redis %s %q: %w: %w", op, key, kv.ErrUnavailable, err)
	}
}

func isWrongKind(err error) bool {
	var rerr redis.Error
	if !errors.As(err, &rerr) {
		return false
	}
	msg := rerr.Error()
	return strings.HasPrefix(msg, "WRONGTYPE") ||
		strings.HasPrefix(msg, "ERR value is not an integer")
}

func init() {
	kv.Register("redis", func(_ context.Context, conf map[string]any) (kv.Store, error) {
		url, _ := conf["url"].(string)
		if url == "" {
			return nil, errors.New(`redis backend: missing "url" parameter`)
		}

		var timeout time.Duration
		switch t := conf["timeout"].(type) {
		case time.Duration:
			timeout = t
		case string:
			d, err := time.ParseDuration(t)
			if err != nil {
				return nil, fmt.Errorf(`redis backend: invalid "timeout": %w`, err)
			}
			timeout = d
		}

		return NewFromURL(url, timeout)
	})
}
