package database

import (
	"context"
	"fmt"

	"github.com/yourusername/roster-wins/internal/config"
)

// schema creates the model registry. One active version per name is
// enforced by a partial unique index.
const schema = `
CREATE TABLE IF NOT EXISTS models (
	id              UUID PRIMARY KEY,
	name            TEXT NOT NULL,
	version         TEXT NOT NULL,
	model_type      TEXT NOT NULL,
	blob            JSONB NOT NULL,
	metrics         JSONB NOT NULL DEFAULT '{}'::jsonb,
	hyperparameters JSONB NOT NULL DEFAULT '{}'::jsonb,
	trained_at      TIMESTAMPTZ NOT NULL,
	active          BOOLEAN NOT NULL DEFAULT FALSE,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (name, version)
);
CREATE UNIQUE INDEX IF NOT EXISTS models_one_active_per_name ON models (name) WHERE active;
`

// Initialize creates a database connection pool and ensures the registry schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates the registry tables when missing
func EnsureSchema(ctx context.Context, db *DB) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
