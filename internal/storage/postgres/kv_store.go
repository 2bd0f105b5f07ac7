// Package postgres implements the key-value storage collaborator on
// PostgreSQL, for deployments that already run one.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/jfenner/vitalog/internal/storage"
)

// KVStore implements storage.KVStore using PostgreSQL.
type KVStore struct {
	db *sql.DB
}

// NewKVStore connects to the database at dsn and ensures the blobs table
// exists.
func NewKVStore(dsn string) (*KVStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: failed to connect: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS blobs (
			key        TEXT PRIMARY KEY,
			value      JSONB NOT NULL,
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: failed to create schema: %w", err)
	}

	return &KVStore{db: db}, nil
}

// Get retrieves the raw JSON stored under key.
func (s *KVStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM blobs WHERE key = $1", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to get %q: %w", key, err)
	}
	return json.RawMessage(value), nil
}

// Set stores value under key with upsert semantics.
func (s *KVStore) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("postgres: failed to marshal value for %q: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO blobs (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = NOW()
	`, key, data)
	if err != nil {
		return fmt.Errorf("postgres: failed to set %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *KVStore) Close() error {
	return s.db.Close()
}

// Compile-time assertion.
var _ storage.KVStore = (*KVStore)(nil)
