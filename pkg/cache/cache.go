// Package cache provides pluggable response caching for the platform API
// clients.
//
// Three backends are available:
//   - [FileCache]: per-user on-disk cache, the default for CLI usage
//   - [NullCache]: no-op backend for --no-cache runs and tests
//   - [RedisCache]: shared backend for machines that already run Redis
//     (selected via the FERIUM_REDIS_ADDR environment variable)
//
// Keys are opaque strings; backends hash or prefix them as needed. Values
// are raw bytes — the API clients store JSON-encoded responses.
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Cache is the backend interface for response caching.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// found and fresh; expired or missing entries are a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given time-to-live.
	// A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// DefaultDir returns the default on-disk cache directory,
// ~/.cache/ferium/http.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "ferium", "http"), nil
}
