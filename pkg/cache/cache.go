// Package cache stores generated layouts and rendered artifacts.
//
// Generation is a pure function of the request and the catalogue snapshot,
// so results can be cached by content hash without changing behaviour.
//
// # Backends
//
//   - [NullCache]: caching disabled
//   - [FileCache]: one file per entry, for the CLI
//   - [RedisCache]: shared cache for multi-instance servers
//   - [SQLiteCache]: single-file cache for one host
//
// # Keys
//
// [Keyer] derives keys; [ScopedKeyer] prefixes them for isolation.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with TTLs.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value; ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources.
	Close() error
}

// Default TTLs.
const (
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 24 * time.Hour
)

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey keys a generated layout by request hash and catalogue.
	LayoutKey(requestHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered output by layout hash and format options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs besides the request that affect a layout.
type LayoutKeyOpts struct {
	CatalogVersion string
	CatalogSource  string
	CatalogDigest  string
	VoidRatio      float64
	EngineVersion  string
}

// ArtifactKeyOpts are the inputs that affect a rendered artifact.
type ArtifactKeyOpts struct {
	Format     string
	Scale      float64
	ShowLabels bool
	ShowDoors  bool
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<hash>".
func (DefaultKeyer) LayoutKey(requestHash string, opts LayoutKeyOpts) string {
	return componentKey("layout", requestHash, opts)
}

// ArtifactKey returns "artifact:<format>:<hash>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return componentKey("artifact:"+opts.Format, layoutHash, opts)
}
