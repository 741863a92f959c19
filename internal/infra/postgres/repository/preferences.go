package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/WhoAbdullahSheikh/drivesmart/internal/domain/entities"
	"github.com/WhoAbdullahSheikh/drivesmart/internal/infra/postgres"
)

// PreferenceRepository stores key-value preferences in PostgreSQL.
type PreferenceRepository struct {
	db postgres.DBTX
}

// NewPreferenceRepository creates a new PreferenceRepository with the provided database pool.
func NewPreferenceRepository(db postgres.DBTX) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// Get retrieves the value stored under key.
func (r *PreferenceRepository) Get(ctx context.Context, key string) (string, error) {
	query := `
		SELECT value
		FROM preferences
		WHERE key = $1
	`

	var value string
	err := r.db.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", entities.ErrPreferenceNotFound
		}
		return "", &entities.StorageError{Op: "get", Key: key, Err: err}
	}

	return value, nil
}

// Set creates or replaces the value stored under key.
func (r *PreferenceRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO preferences (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := r.db.Exec(ctx, query, key, value); err != nil {
		return &entities.StorageError{Op: "set", Key: key, Err: err}
	}

	return nil
}
