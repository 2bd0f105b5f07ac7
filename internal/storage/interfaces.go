// Package storage provides the key-value storage collaborator used to
// persist journal entries, the most recent aggregate report, and the most
// recent health score as JSON blobs under fixed string keys. The engine
// itself retains nothing; persistence is entirely the caller's concern.
package storage

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound indicates the requested key has no stored value.
var ErrNotFound = errors.New("key not found")

// Fixed keys under which the handlers persist state. No schema versioning
// is defined; readers must treat absent or malformed values as empty.
const (
	KeyEntries      = "journal:entries"
	KeyLatestReport = "report:latest"
	KeyLatestScore  = "score:latest"
)

// KVStore maps string keys to JSON-serializable values.
type KVStore interface {
	// Get retrieves the raw JSON stored under key.
	// Returns ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) (json.RawMessage, error)

	// Set stores value under key with upsert semantics.
	Set(ctx context.Context, key string, value interface{}) error

	// Close releases the underlying resources.
	Close() error
}
