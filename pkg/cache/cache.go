// Package cache stores measured frames and rendered artifacts.
//
// A render is keyed by the content hash of the chart description plus the
// options that shape its output, so re-rendering an unchanged chart is a
// cache hit. Three backends implement [Cache]:
//
//   - [NullCache]: caching disabled
//   - [FileCache]: entries under the user cache directory, for the CLI
//   - [RedisCache]: shared entries for `stackchart serve` replicas
//
// Keys come from a [Keyer]; [ScopedKeyer] prefixes them per tenant.
package cache

import (
	"context"
	"time"
)

// Default TTLs for cached entries.
const (
	FrameTTL    = 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// FrameKeyOpts are the options that change a measured frame.
type FrameKeyOpts struct {
	Width, Height float64
	Settled       bool // transitions completed before the snapshot
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format  string
	Scale   float64
	Axes    bool
	Grid    bool
	Tooltip bool
}

// Keyer generates cache keys.
type Keyer interface {
	// FrameKey keys the frame measured from a chart description.
	FrameKey(configHash string, opts FrameKeyOpts) string

	// ArtifactKey keys an artifact rendered from a frame.
	ArtifactKey(frameHash string, opts ArtifactKeyOpts) string
}

// NullCache stores nothing: every Get misses. `--no-cache` runs use it.
type NullCache struct{}

// NewNullCache returns a cache that never hits.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
