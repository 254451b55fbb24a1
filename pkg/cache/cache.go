// Package cache provides pluggable caching for expensive pipeline stages.
//
// Lockfile fetches, parsed dependency graphs, analysis results, and rendered
// artifacts are all cacheable. Backends share a single interface:
//
//   - FileCache: directory-backed, for CLI usage
//   - RedisCache: shared cache for server deployments
//   - MongoCache: document store with server-side expiry
//   - NullCache: disables caching
//
// Keys are produced by a Keyer so every caller derives them the same way.
package cache

import (
	"context"
	"time"
)

// Default time-to-live per entry kind. Graphs and analyses are pure
// functions of their input hash, so long TTLs are safe; HTTP responses
// can change upstream and expire sooner.
const (
	TTLHTTP     = 1 * time.Hour
	TTLGraph    = 24 * time.Hour
	TTLAnalysis = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given time-to-live.
	// A zero or negative ttl stores the value without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}
