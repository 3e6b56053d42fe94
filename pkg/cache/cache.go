// Package cache stores parsed stacks keyed by the content of their source.
//
// Parsing an ITF file is deterministic, so the result can be reused for as
// long as the bytes on disk are unchanged. The pipeline hashes the source,
// looks the hash up in a [Cache] and only runs the parser on a miss.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: never stores anything (--no-cache)
//
// [NewScoped] prefixes every key of another cache, so different schema
// versions never read each other's entries.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the backend.
	Close() error
}
