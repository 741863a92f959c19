package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // driver: sqlite

	"github.com/WhoAbdullahSheikh/drivesmart/internal/domain/entities"
)

const schema = `
CREATE TABLE IF NOT EXISTS preferences (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at INTEGER NOT NULL
);
`

// Open opens the SQLite database at path and ensures the schema exists.
// An empty path opens a private in-memory database.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := "file::memory:?mode=memory"
	if path != "" {
		dsn = "file:" + path + "?mode=rwc&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps an in-memory database alive and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return db, nil
}

// PreferenceStore keeps preferences in a SQLite table.
type PreferenceStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewPreferenceStore wraps an opened database.
func NewPreferenceStore(db *sql.DB) *PreferenceStore {
	return &PreferenceStore{db: db, now: time.Now}
}

func (s *PreferenceStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", entities.ErrPreferenceNotFound
		}
		return "", &entities.StorageError{Op: "get", Key: key, Err: err}
	}
	return value, nil
}

func (s *PreferenceStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, s.now().Unix(),
	)
	if err != nil {
		return &entities.StorageError{Op: "set", Key: key, Err: err}
	}
	return nil
}
