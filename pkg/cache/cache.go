// Package cache stores computed layouts and rendered artifacts.
//
// Every backend implements [Cache], a byte-oriented key/value store with
// per-entry TTLs. Keys are produced by a [Keyer] from a content hash of the
// inputs plus the options that shaped the result, so an entry is only ever
// reused for an identical request:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.LayoutKey(sizesHash, cache.LayoutKeyOpts{Tracks: 3, Width: 300})
//
// Backends:
//   - [FileCache] for CLI use, one JSON file per entry under a directory
//   - [RedisCache] for shared deployments
//   - [MongoCache] for deployments that already run MongoDB
//   - [NullCache] to disable caching
//
// The cache memoizes results only. Scroll position and slot bindings are
// never persisted.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store.
type Cache interface {
	// Get returns the value for key. hit is false on a miss or an expired
	// entry; err is reserved for backend failures.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	// Set stores data under key. A ttl of zero or less never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default TTLs per entry kind. Layouts and artifacts are pure functions of
// their key, so they only expire to bound disk and memory use.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey identifies a packed layout by the hash of its item sizes and
	// the grid parameters.
	LayoutKey(sizesHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies a rendered artifact by the hash of its layout and
	// the render parameters.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs besides item sizes that change a layout.
type LayoutKeyOpts struct {
	Tracks      int    `json:"tracks"`
	Orientation string `json:"orientation"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Count       int    `json:"count"`
}

// ArtifactKeyOpts are the render parameters that change an artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Inset    int    `json:"inset"`
	Offset   int    `json:"offset"`
	Viewport bool   `json:"viewport"`
	Labels   bool   `json:"labels"`
}

// DefaultKeyer produces keys of the form kind:sha256(json(parts)).
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(sizesHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", sizesHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
