// Package cache provides pluggable storage for generated mazes, solutions
// and rendered frames.
//
// # Backends
//
//   - [FileCache]: JSON entries under a local directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing, for tests or --no-cache
//
// Keys are produced by a [Keyer] so every layer of the pipeline hashes its
// inputs the same way. [ScopedKeyer] adds a namespace prefix.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. A miss is reported as found == false
	// with a nil error.
	Get(ctx context.Context, key string) (data []byte, found bool, err error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Entry lifetimes per pipeline stage.
const (
	// TTLMaze keeps generated mazes. Generation is deterministic per seed,
	// so entries never go stale.
	TTLMaze = 30 * 24 * time.Hour

	// TTLSolution keeps solver results.
	TTLSolution = 7 * 24 * time.Hour

	// TTLFrame keeps rendered frames, which are large and cheap to rebuild.
	TTLFrame = 24 * time.Hour
)
