// Package cache stores rendered rasters between builds.
//
// Rasterizing a composed icon is the slowest step of a build, and most
// builds only touch a handful of sources. Entries are keyed on the document
// bytes, the output dimensions and the backend, so any change to a source
// or to the manifest misses the cache.
//
// Two backends are provided:
//   - [FileCache] keeps entries under the user cache directory
//   - [NullCache] disables caching (KANDO_ICONS_NO_CACHE)
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	// Expired or corrupt entries count as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// RasterKeyOpts are the render parameters that affect a raster.
type RasterKeyOpts struct {
	Width   int    `json:"w"`
	Height  int    `json:"h"`
	Backend string `json:"backend"`
}

// RasterKey returns the cache key for rendering svg with opts.
func RasterKey(svg []byte, opts RasterKeyOpts) string {
	return hashKey("raster", Hash(svg), opts)
}
