// internal/infra/database/sqlite_kv_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"
)

// SQLiteKVRepository implements kv.Store on an embedded SQLite database.
// This is the default: the engine runs on-device without a server, and a
// single small file per installation is exactly that.
type SQLiteKVRepository struct {
	db *sql.DB
}

// OpenSQLiteKVRepository opens (or creates) the database at the given path,
// applies PRAGMAs, creates the schema, and returns the repository.
func OpenSQLiteKVRepository(ctx context.Context, path string) (*SQLiteKVRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite is a single-writer engine; one connection avoids lock churn.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		`PRAGMA journal_mode = WAL`,
		`PRAGMA busy_timeout = 5000`,
		`PRAGMA synchronous = NORMAL`,
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %s: %w", p, err)
		}
	}

	schema := `CREATE TABLE IF NOT EXISTS engine_kv (
                key        TEXT PRIMARY KEY,
                value      TEXT NOT NULL,
                updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
            )`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create engine_kv table: %w", err)
	}

	return &SQLiteKVRepository{db: db}, nil
}

func (r *SQLiteKVRepository) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM engine_kv WHERE key = ?`
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

func (r *SQLiteKVRepository) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO engine_kv (key, value, updated_at)
               VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ','now'))
               ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("error writing key %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (r *SQLiteKVRepository) Close() error {
	return r.db.Close()
}
