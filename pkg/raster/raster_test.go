package raster

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"github.com/kando-menu/design/pkg/cache"
	"github.com/kando-menu/design/pkg/errors"
	"github.com/kando-menu/design/pkg/observability"
	"github.com/kando-menu/design/pkg/tool"
)

const squareSVG = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 256 256" width="256" height="256">
  <g transform="translate(64, 64) scale(0.5, 0.5)">
    <rect x="0" y="0" width="256" height="256" fill="#ff0000"/>
  </g>
</svg>`

func TestNativeRasterize(t *testing.T) {
	data, err := Native{}.Rasterize(context.Background(), []byte(squareSVG), 64, 64)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Fatalf("size = %v, want 64x64", b)
	}

	// The inset square covers 16..48; the corners stay transparent.
	if _, _, _, a := img.At(2, 2).RGBA(); a != 0 {
		t.Errorf("corner alpha = %d, want 0", a)
	}
	r, g, b, a := img.At(32, 32).RGBA()
	if a != 0xffff || r != 0xffff || g != 0 || b != 0 {
		t.Errorf("center = (%d, %d, %d, %d), want opaque red", r, g, b, a)
	}
}

func TestNativeRasterizeNonSquare(t *testing.T) {
	data, err := Native{}.Rasterize(context.Background(), []byte(squareSVG), 40, 20)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 40 || cfg.Height != 20 {
		t.Errorf("size = %dx%d, want 40x20", cfg.Width, cfg.Height)
	}
}

func TestNativeRasterizeErrors(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		w, h int
		code errors.Code
	}{
		{"zero width", squareSVG, 0, 16, errors.ErrCodeInvalidInput},
		{"too large", squareSVG, 16, 100000, errors.ErrCodeInvalidInput},
		{"not svg", "<svg><unclosed", 16, 16, errors.ErrCodeInvalidDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Native{}.Rasterize(context.Background(), []byte(tt.svg), tt.w, tt.h)
			if !errors.Is(err, tt.code) {
				t.Errorf("got %v, want %s", err, tt.code)
			}
		})
	}
}

func TestNativeRasterizeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Native{}).Rasterize(ctx, []byte(squareSVG), 16, 16); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRSVGMissing(t *testing.T) {
	r := RSVG{Tool: tool.RSVG("kando-icons-no-such-rsvg")}
	_, err := r.Rasterize(context.Background(), []byte(squareSVG), 16, 16)
	if !errors.Is(err, errors.ErrCodeMissingDependency) {
		t.Errorf("expected MISSING_DEPENDENCY, got %v", err)
	}
}

func TestRSVGFailure(t *testing.T) {
	// cat rejects the rsvg-convert flags and exits non-zero.
	r := RSVG{Tool: tool.Tool{Name: "cat", Bin: "cat"}}
	_, err := r.Rasterize(context.Background(), []byte(squareSVG), 16, 16)
	if !errors.Is(err, errors.ErrCodeToolInvocation) {
		t.Errorf("expected TOOL_INVOCATION, got %v", err)
	}
}

type countingRasterizer struct {
	calls int
}

func (c *countingRasterizer) Rasterize(ctx context.Context, svg []byte, w, h int) ([]byte, error) {
	c.calls++
	return Native{}.Rasterize(ctx, svg, w, h)
}

func (c *countingRasterizer) Name() string { return "counting" }

func TestCached(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	inner := &countingRasterizer{}
	r := Cached{Rasterizer: inner, Cache: fc}

	first, err := r.Rasterize(ctx, []byte(squareSVG), 32, 32)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Rasterize(ctx, []byte(squareSVG), 32, 32)
	if err != nil {
		t.Fatal(err)
	}
	if inner.calls != 1 {
		t.Errorf("inner called %d times, want 1", inner.calls)
	}
	if !bytes.Equal(first, second) {
		t.Error("cached bytes differ from rendered bytes")
	}

	if _, err := r.Rasterize(ctx, []byte(squareSVG), 16, 16); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("a new size must miss the cache, calls = %d", inner.calls)
	}
	if r.Name() != "counting" {
		t.Errorf("Name() = %q", r.Name())
	}
}

func TestCachedDoesNotStoreFailures(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := Cached{Rasterizer: Native{}, Cache: fc}

	if _, err := r.Rasterize(ctx, []byte("<svg><unclosed"), 16, 16); err == nil {
		t.Fatal("expected error")
	}
	key := cache.RasterKey([]byte("<svg><unclosed"), cache.RasterKeyOpts{Width: 16, Height: 16, Backend: "builtin"})
	if _, hit, _ := fc.Get(ctx, key); hit {
		t.Error("failed render must not be cached")
	}
}

type recordingCacheHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets int
}

func (h *recordingCacheHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *recordingCacheHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *recordingCacheHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func TestCachedReportsHooks(t *testing.T) {
	hooks := &recordingCacheHooks{}
	observability.SetCacheHooks(hooks)
	t.Cleanup(observability.Reset)

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := Cached{Rasterizer: &countingRasterizer{}, Cache: fc}
	for i := 0; i < 3; i++ {
		if _, err := r.Rasterize(context.Background(), []byte(squareSVG), 24, 24); err != nil {
			t.Fatal(err)
		}
	}

	if hooks.misses != 1 || hooks.sets != 1 || hooks.hits != 2 {
		t.Errorf("hits=%d misses=%d sets=%d, want 2/1/1", hooks.hits, hooks.misses, hooks.sets)
	}
}
