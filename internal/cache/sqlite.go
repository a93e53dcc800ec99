package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore is an on-disk Store backed by a SQLite database. It lets the
// response cache survive process restarts, which is an optimization only:
// expired rows are recomputed exactly like memory-store misses.
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewSQLiteStore opens or creates a SQLite cache database at the given
// path. ttl <= 0 disables expiry.
func NewSQLiteStore(path string, ttl time.Duration) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &SQLiteStore{db: db, ttl: ttl, now: time.Now}, nil
}

// createSchema creates the cache table if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS cache_entries (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			expires_at INTEGER NOT NULL
		);
	`
	_, err := db.Exec(schema)
	return err
}

// Get returns the value for key if present and unexpired. Expired rows are
// deleted lazily on read.
func (s *SQLiteStore) Get(key string) ([]byte, bool, error) {
	var value []byte
	var expiresAt int64
	err := s.db.QueryRow(
		`SELECT value, expires_at FROM cache_entries WHERE key = ?`, key,
	).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}

	if expiresAt > 0 && s.now().Unix() >= expiresAt {
		_, _ = s.db.Exec(`DELETE FROM cache_entries WHERE key = ?`, key)
		return nil, false, nil
	}
	return value, true, nil
}

// Set upserts value under key with a fresh expiry.
func (s *SQLiteStore) Set(key string, value []byte) error {
	var expiresAt int64
	if s.ttl > 0 {
		expiresAt = s.now().Add(s.ttl).Unix()
	}
	_, err := s.db.Exec(
		`INSERT INTO cache_entries (key, value, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
