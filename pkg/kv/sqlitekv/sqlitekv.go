// Package sqlitekv implements kv.Store in a single SQLite database file,
// for deployments that want durable boards without running Redis.
package sqlitekv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver for sql.Open

	"github.com/dyluth/corkboard/pkg/kv"
)

var (
	_ kv.Store  = &Store{}
	_ kv.Ranger = &Store{}
)

// Schema is the SQL that New executes.
// Strings and counters share kv_strings; lists live in kv_lists, ordered by
// seq ascending from head to tail. LPush prepends by inserting below the
// current minimum seq.
const Schema = `
CREATE TABLE IF NOT EXISTS kv_strings (
  key TEXT PRIMARY KEY NOT NULL,
  value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS kv_lists (
  key TEXT NOT NULL,
  seq INTEGER NOT NULL,
  value TEXT NOT NULL,
  PRIMARY KEY (key, seq)
);
`

// DefaultTimeout bounds each statement when no timeout is configured.
const DefaultTimeout = 2 * time.Second

// Store is a SQLite-backed kv.Store.
// Unlike Redis, strings and lists occupy separate namespaces.
type Store struct {
	db      *sql.DB
	timeout time.Duration
}

// New produces a Store using db for storage, creating the tables in Schema
// if they do not exist.
func New(ctx context.Context, db *sql.DB, timeout time.Duration) (*Store, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return nil, fmt.Errorf("creating kv schema: %w", err)
	}
	return &Store{db: db, timeout: timeout}, nil
}

// Open opens (creating if needed) the database at path and calls New.
// The special path ":memory:" yields a private in-memory database.
func Open(ctx context.Context, path string, timeout time.Duration) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database %s: %w", path, err)
	}
	if path == ":memory:" {
		// Each connection to :memory: is a distinct database.
		db.SetMaxOpenConns(1)
	}

	s, err := New(ctx, db, timeout)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	const q = `SELECT value FROM kv_strings WHERE key = $1`

	var v string
	err := s.db.QueryRowContext(ctx, q, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", kv.ErrNotFound
	}
	return v, unavailable("get", key, err)
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	const q = `INSERT INTO kv_strings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`

	_, err := s.db.ExecContext(ctx, q, key, value)
	return unavailable("set", key, err)
}

func (s *Store) SetNX(ctx context.Context, key, value string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	const q = `INSERT INTO kv_strings (key, value) VALUES ($1, $2) ON CONFLICT DO NOTHING`

	res, err := s.db.ExecContext(ctx, q, key, value)
	if err != nil {
		return false, unavailable("setnx", key, err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return false, unavailable("setnx", key, err)
	}
	return aff > 0, nil
}

// Incr is a single UPSERT, so concurrent callers never observe the same value.
// A value that does not round-trip as an integer is left untouched and
// reported as kv.ErrWrongKind.
func (s *Store) Incr(ctx context.Context, key string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	const q = `INSERT INTO kv_strings (key, value) VALUES ($1, '1')
		ON CONFLICT (key) DO UPDATE SET value = CAST(CAST(value AS INTEGER) + 1 AS TEXT)
		WHERE CAST(CAST(value AS INTEGER) AS TEXT) = value
		RETURNING CAST(value AS INTEGER)`

	var n int64
	err := s.db.QueryRowContext(ctx, q, key).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("sqlite incr %q: value is not an integer: %w", key, kv.ErrWrongKind)
	}
	return n, unavailable("incr", key, err)
}

func (s *Store) LPush(ctx context.Context, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	const q = `INSERT INTO kv_lists (key, seq, value)
		SELECT $1, COALESCE(MIN(seq), 0) - 1, $2 FROM kv_lists WHERE key = $1`

	_, err := s.db.ExecContext(ctx, q, key, value)
	return unavailable("lpush", key, err)
}

func (s *Store) LIndex(ctx context.Context, key string, i int64) (string, error) {
	if i < 0 {
		n, err := s.LLen(ctx, key)
		if err != nil {
			return "", err
		}
		i += n
		if i < 0 {
			return "", kv.ErrNotFound
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	const q = `SELECT value FROM kv_lists WHERE key = $1 ORDER BY seq LIMIT 1 OFFSET $2`

	var v string
	err := s.db.QueryRowContext(ctx, q, key, i).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", kv.ErrNotFound
	}
	return v, unavailable("lindex", key, err)
}

func (s *Store) LLen(ctx context.Context, key string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	const q = `SELECT COUNT(*) FROM kv_lists WHERE key = $1`

	var n int64
	err := s.db.QueryRowContext(ctx, q, key).Scan(&n)
	return n, unavailable("llen", key, err)
}

// LRange implements kv.Ranger with Redis index semantics: negative indexes
// count from the tail and stop is inclusive.
func (s *Store) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	if start < 0 || stop < 0 {
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
	}
	if stop < start {
		return []string{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	const q = `SELECT value FROM kv_lists WHERE key = $1 ORDER BY seq LIMIT $2 OFFSET $3`

	rows, err := s.db.QueryContext(ctx, q, key, stop-start+1, start)
	if err != nil {
		return nil, unavailable("lrange", key, err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, unavailable("lrange", key, err)
		}
		out = append(out, v)
	}
	return out, unavailable("lrange", key, rows.Err())
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return unavailable("ping", "", s.db.PingContext(ctx))
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func unavailable(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("sqlite %s %q: %w: %w", op, key, kv.ErrUnavailable, err)
}

func init() {
	kv.Register("sqlite", func(ctx context.Context, conf map[string]any) (kv.Store, error) {
		path, _ := conf["path"].(string)
		if path == "" {
			return nil, errors.New(`sqlite backend: missing "path" parameter`)
		}

		var timeout time.Duration
		switch t := conf["timeout"].(type) {
		case time.Duration:
			timeout = t
		case string:
			d, err := time.ParseDuration(t)
			if err != nil {
				return nil, fmt.Errorf(`sqlite backend: invalid "timeout": %w`, err)
			}
			timeout = d
		}

		return Open(ctx, path, timeout)
	})
}
