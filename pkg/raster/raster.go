// Package raster renders SVG documents to PNG.
//
// [RSVG] shells out to rsvg-convert and is what release builds use. [Native]
// renders in-process with oksvg, which covers the subset of SVG the icon
// sources use (shapes, paths, groups with transforms, gradients) and needs
// no external tools. [Cached] wraps either one with a [cache.Cache].
package raster

import (
	"context"
	"fmt"

	"github.com/kando-menu/design/pkg/cache"
	"github.com/kando-menu/design/pkg/errors"
	"github.com/kando-menu/design/pkg/observability"
)

// Rasterizer renders an SVG document to a width x height PNG.
type Rasterizer interface {
	Rasterize(ctx context.Context, svg []byte, width, height int) ([]byte, error)
}

// Named is implemented by rasterizers that report a backend name. The name
// is part of the cache key so switching backends never serves stale pixels.
type Named interface {
	Name() string
}

// Cached memoizes a Rasterizer.
type Cached struct {
	Rasterizer Rasterizer
	Cache      cache.Cache
}

// Rasterize returns the cached PNG or renders and stores it.
// Cache failures are not fatal; the render result is returned regardless.
func (c Cached) Rasterize(ctx context.Context, svg []byte, width, height int) ([]byte, error) {
	key := cache.RasterKey(svg, cache.RasterKeyOpts{Width: width, Height: height, Backend: backendName(c.Rasterizer)})

	if data, ok, err := c.Cache.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, "raster")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "raster")

	png, err := c.Rasterizer.Rasterize(ctx, svg, width, height)
	if err != nil {
		return nil, err
	}
	if err := c.Cache.Set(ctx, key, png, 0); err == nil {
		observability.Cache().OnCacheSet(ctx, "raster", len(png))
	}
	return png, nil
}

func (c Cached) Name() string { return backendName(c.Rasterizer) }

func backendName(r Rasterizer) string {
	if n, ok := r.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", r)
}

func checkSize(width, height int) error {
	if err := errors.ValidateSize(width); err != nil {
		return err
	}
	return errors.ValidateSize(height)
}
