// Package cache provides artifact caching for rendered share cards.
//
// The [Cache] interface abstracts the storage backend:
//   - file: directory of rendered artifacts for single-machine CLI use
//   - redis: Redis-backed cache for multi-instance deployments
//   - null: no-op backend for tests and --no-cache runs
//
// Keys are derived through a [Keyer] so that every input that affects the
// rendered bytes (activity content, platform, format, pixel density) is part
// of the key. Re-exporting an unchanged activity reuses the cached artifact.
package cache

import (
	"context"
	"time"
)

// Cache is the interface for artifact cache backends.
type Cache interface {
	// Get retrieves a value. The second return value reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ArtifactKeyOpts are the render inputs that affect cached artifact bytes.
type ArtifactKeyOpts struct {
	PlatformID string  `json:"platform_id"`
	Format     string  `json:"format"`
	Scale      float64 `json:"scale"`
}

// Keyer generates cache keys for rendered artifacts.
type Keyer interface {
	// ArtifactKey generates a key for rendered card bytes. contentHash is the
	// hash of the render request's content (title, tasks, backdrop...).
	ArtifactKey(contentHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ArtifactKey generates a key for rendered card bytes.
func (k *DefaultKeyer) ArtifactKey(contentHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+contentHash, opts)
}
