// Package cache stores computed layouts, rendered artifacts and view state.
//
// All backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for
// servers sharing state across instances, [MemoryCache] for tests and
// single-process servers, and [NullCache] when caching is disabled.
//
// Keys come from a [Keyer]. Content keys hash their inputs, so a layout
// computed for the same hierarchy with the same options is found again no
// matter which process computed it.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was found. Expired entries
	// are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default entry lifetimes.
const (
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
	ViewTTL     = 30 * 24 * time.Hour
)

// LayoutKeyOpts are the layout options that change the result.
type LayoutKeyOpts struct {
	MaxWidth     int     `json:"max_width"`
	LayerSpacing float64 `json:"layer_spacing"`
	NodeSpacing  float64 `json:"node_spacing"`
}

// ArtifactKeyOpts are the render options that change the output.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	Detailed   bool   `json:"detailed"`
	KeepLayers bool   `json:"keep_layers"`
}

// Keyer generates cache keys.
type Keyer interface {
	// LayoutKey identifies the layout of a hierarchy.
	LayoutKey(hierarchyHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendering of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string

	// ViewKey identifies a stored visibility configuration.
	ViewKey(id string) string
}

// DefaultKeyer produces "kind:hash" content keys and "view:id" view keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(hierarchyHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", hierarchyHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// ViewKey implements Keyer.
func (DefaultKeyer) ViewKey(id string) string {
	return "view:" + id
}
