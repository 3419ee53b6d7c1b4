// internal/infra/database/postgres_kv_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
)

// ErrKeyNotFound is returned by Get when no value exists for a key. Absence
// is a normal condition for the engine (e.g. "never sent" cooldowns), so
// callers check for this sentinel rather than treating it as a failure.
var ErrKeyNotFound = fmt.Errorf("no value stored for key")

// PostgresKVRepository implements kv.Store on a single upsert table. Used for
// hosted deployments where the bookkeeping data already lives in Postgres.
type PostgresKVRepository struct {
	db *sql.DB
}

func NewPostgresKVRepository(db *sql.DB) *PostgresKVRepository {
	return &PostgresKVRepository{db: db}
}

// EnsureSchema creates the engine_kv table if it does not exist yet.
func (r *PostgresKVRepository) EnsureSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS engine_kv (
                key        TEXT PRIMARY KEY,
                value      TEXT NOT NULL,
                updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
            )`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("error creating engine_kv table: %w", err)
	}
	return nil
}

func (r *PostgresKVRepository) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM engine_kv WHERE key = $1`
	var value string
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("error reading key %q: %w", key, err)
	}
	return value, nil
}

func (r *PostgresKVRepository) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO engine_kv (key, value, updated_at)
               VALUES ($1, $2, NOW())
               ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("error writing key %q: %w", key, err)
	}
	return nil
}
