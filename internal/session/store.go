// Package session provides short-lived, consume-once storage such as the
// redirect payload left behind by a static-hosting 404 shim.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// RedirectKey is where the redirect shim stashes the URL it intercepted.
const RedirectKey = "redirect"

// DefaultTTL is how long a stored value stays readable.
const DefaultTTL = 10 * time.Minute

// Store holds one-shot values. Take returns a value at most once.
type Store interface {
	Put(ctx context.Context, key, value string) error
	Take(ctx context.Context, key string) (string, bool, error)
}

const schema = `
CREATE TABLE IF NOT EXISTS session_values (
	key                TEXT PRIMARY KEY,
	value              TEXT NOT NULL,
	created_at_unix_ms INTEGER NOT NULL
);
`

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db        *sql.DB
	ttl       time.Duration
	now       func() time.Time
	closeOnce sync.Once
	closeErr  error
}

// Option customizes a SQLiteStore.
type Option func(*SQLiteStore)

// WithTTL sets how long values remain readable.
func WithTTL(ttl time.Duration) Option {
	return func(s *SQLiteStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *SQLiteStore) { s.now = now }
}

// NewSQLiteStore opens (and creates if needed) the database at dbPath.
func NewSQLiteStore(dbPath string, opts ...Option) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}

	// modernc.org/sqlite uses _pragma=name(value) syntax
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening session database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to session database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating session schema: %w", err)
	}

	s := &SQLiteStore{db: db, ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Put stores value under key, replacing any previous value.
func (s *SQLiteStore) Put(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO session_values (key, value, created_at_unix_ms)
		VALUES (?, ?, ?)
	`, key, value, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("storing %s: %w", key, err)
	}
	return nil
}

// Take returns and deletes the value under key in one transaction. Expired
// values are deleted and reported as absent.
func (s *SQLiteStore) Take(ctx context.Context, key string) (string, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var value string
	var createdMs int64
	err = tx.QueryRowContext(ctx, `
		SELECT value, created_at_unix_ms FROM session_values WHERE key = ?
	`, key).Scan(&value, &createdMs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM session_values WHERE key = ?`, key); err != nil {
		return "", false, fmt.Errorf("deleting %s: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("committing take of %s: %w", key, err)
	}

	if s.now().Sub(time.UnixMilli(createdMs)) > s.ttl {
		return "", false, nil
	}
	return value, true, nil
}

// Close closes the database. It is safe to call Close multiple times.
func (s *SQLiteStore) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Put stores value under key.
func (m *MemoryStore) Put(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Take returns and removes the value under key.
func (m *MemoryStore) Take(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	delete(m.values, key)
	return v, ok, nil
}
