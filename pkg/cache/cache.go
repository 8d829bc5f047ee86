// Package cache stores rendered slide rule artifacts.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache]
// shared between server replicas, and [NullCache] when caching is disabled.
// Keys come from a [Keyer] so that callers never build key strings by hand.
package cache

import (
	"context"
	"time"
)

// Default lifetimes of cache entries.
const (
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was found. Expired
	// entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey is the key of one rendered output of an instrument.
	ArtifactKey(instrumentHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render inputs that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format        string  `json:"format"`
	Slide         float64 `json:"slide"`
	Cursor        float64 `json:"cursor"`
	Scale         float64 `json:"scale,omitempty"`
	DeveloperMode bool    `json:"developer_mode,omitempty"`
	NoCursor      bool    `json:"no_cursor,omitempty"`
	Convert       bool    `json:"convert,omitempty"`
	Exact         bool    `json:"exact,omitempty"`
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey returns "artifact:<sha256>" over the instrument hash and opts.
func (DefaultKeyer) ArtifactKey(instrumentHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", instrumentHash, opts)
}
