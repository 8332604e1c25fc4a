// Package cache provides pluggable result caches for the pipeline.
//
// A cycle search near the node ceiling is O(n⁴) and rendering shells out to
// Graphviz, so both are worth caching; graph generation is deterministic and
// cheap, so it never is. Entries are disposable and TTL-bound; the cache is
// not graph storage, and clearing it only costs recomputation.
//
// Three backends implement [Cache]: [FileCache] for the CLI (XDG cache
// directory), [RedisCache] for server deployments, and [NullCache] to disable
// caching entirely.
package cache

import (
	"context"
	"time"
)

// TTLs per key type. Search results and artifacts derive deterministically
// from their inputs, so the TTL only bounds disk usage, not staleness.
const (
	TTLSearch   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key-value store with per-entry TTL.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 stores the entry without expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any backend resources.
	Close() error
}

// Keyer generates cache keys for the pipeline's cacheable stages.
type Keyer interface {
	// SearchKey identifies a cycle search over a graph (by content hash) for
	// a target count.
	SearchKey(graphHash string, target int64) string

	// ArtifactKey identifies a rendered artifact of a graph in a given
	// format and layout engine.
	ArtifactKey(graphHash, format, engine string) string
}

// DefaultKeyer hashes key components with SHA-256 under a typed prefix.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// SearchKey implements Keyer.
func (k *DefaultKeyer) SearchKey(graphHash string, target int64) string {
	return hashKey("search", graphHash, target)
}

// ArtifactKey implements Keyer.
func (k *DefaultKeyer) ArtifactKey(graphHash, format, engine string) string {
	return hashKey("artifact", graphHash, format, engine)
}
