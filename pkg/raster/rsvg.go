package raster

import (
	"bytes"
	"context"
	"image/png"
	"strconv"

	"github.com/kando-menu/design/pkg/errors"
	"github.com/kando-menu/design/pkg/tool"
)

// RSVG rasterizes with rsvg-convert.
type RSVG struct {
	Tool tool.Tool
}

func (RSVG) Name() string { return "rsvg" }

// Rasterize pipes svg through rsvg-convert. The output is checked to be a
// PNG of the requested size.
func (r RSVG) Rasterize(ctx context.Context, svg []byte, width, height int) ([]byte, error) {
	if err := checkSize(width, height); err != nil {
		return nil, err
	}

	out, err := r.Tool.Run(ctx, svg,
		"-f", "png",
		"-w", strconv.Itoa(width),
		"-h", strconv.Itoa(height))
	if err != nil {
		return nil, err
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeToolInvocation, err, "%s produced no PNG", r.Tool.Bin)
	}
	if cfg.Width != width || cfg.Height != height {
		return nil, errors.New(errors.ErrCodeToolInvocation, "%s produced %dx%d, want %dx%d",
			r.Tool.Bin, cfg.Width, cfg.Height, width, height)
	}
	return out, nil
}
