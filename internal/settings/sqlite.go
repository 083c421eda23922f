package settings

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists settings in a sqlite database and serves reads from
// an in-memory cache that is loaded once on open.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger

	mu    sync.RWMutex
	cache map[Key]Value
}

// OpenSQLite opens (creating if needed) the settings database at path.
// Use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create settings dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open settings database: %w", err)
	}
	// One connection serializes writers and keeps ":memory:" a single database.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, logger: logger, cache: make(map[Key]Value)}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	if err := s.load(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`)
	return err
}

// load fills the cache. Rows that no longer decode are dropped so seeding
// can restore their defaults.
func (s *SQLiteStore) load(ctx context.Context) error {
	bad, err := s.loadRows(ctx)
	if err != nil {
		return err
	}
	for _, key := range bad {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key); err != nil {
			return fmt.Errorf("drop %s: %w", key, err)
		}
	}
	return nil
}

// loadRows reads every row into the cache and returns the keys whose
// values failed to decode.
func (s *SQLiteStore) loadRows(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	var bad []string
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, err
		}
		v, err := decodeValue(raw)
		if err != nil {
			s.logger.Warn("settings: dropping undecodable value", "key", key, "err", err)
			bad = append(bad, key)
			continue
		}
		s.cache[Key(key)] = v
	}
	return bad, rows.Err()
}

// Get returns the cached value for key, or nil when unset.
func (s *SQLiteStore) Get(key Key) Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache[key]
}

// Set persists value and updates the cache once the write succeeds.
func (s *SQLiteStore) Set(ctx context.Context, key Key, value Value) error {
	raw, err := encodeValue(value)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		string(key), raw, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	s.mu.Lock()
	s.cache[key] = value
	s.mu.Unlock()
	return nil
}

// SetIfNull persists value only when key has no stored value.
func (s *SQLiteStore) SetIfNull(ctx context.Context, key Key, value Value) error {
	raw, err := encodeValue(value)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO NOTHING`,
		string(key), raw, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("seed %s: %w", key, err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.mu.Lock()
		s.cache[key] = value
		s.mu.Unlock()
	}
	return nil
}

func encodeValue(value Value) (string, error) {
	if err := validate(value); err != nil {
		return "", err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeValue(raw string) (Value, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}
	if err := validate(v); err != nil {
		return nil, err
	}
	return v, nil
}
