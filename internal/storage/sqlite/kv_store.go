// Package sqlite implements the key-value storage collaborator on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/jfenner/vitalog/internal/storage"
)

// KVStore implements storage.KVStore using SQLite.
type KVStore struct {
	db *sql.DB
}

// NewKVStore opens (and if necessary creates) the SQLite database at dsn
// and ensures the blobs table exists.
func NewKVStore(dsn string) (*KVStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open database: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS blobs (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to create schema: %w", err)
	}

	return &KVStore{db: db}, nil
}

// Get retrieves the raw JSON stored under key.
func (s *KVStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM blobs WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to get %q: %w", key, err)
	}
	return json.RawMessage(value), nil
}

// Set stores value under key with upsert semantics.
func (s *KVStore) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("sqlite: failed to marshal value for %q: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO blobs (key, value)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, key, string(data))
	if err != nil {
		return fmt.Errorf("sqlite: failed to set %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *KVStore) Close() error {
	return s.db.Close()
}

// GetDB exposes the underlying connection for diagnostics.
func (s *KVStore) GetDB() *sql.DB {
	return s.db
}

// Compile-time assertion.
var _ storage.KVStore = (*KVStore)(nil)
