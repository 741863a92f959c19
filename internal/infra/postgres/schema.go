package postgres

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS preferences (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS preferences_updated_at_idx ON preferences (updated_at)`,
}

// Migrate creates the tables used by the bot in a single transaction.
func Migrate(ctx context.Context, tr *Transactor) error {
	return tr.WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
		for _, stmt := range schema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
		return nil
	})
}
