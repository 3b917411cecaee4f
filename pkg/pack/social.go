package pack

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/kando-menu/design/pkg/errors"
)

// Social centers the PNG at src on a width x height canvas filled with
// background and writes the result to out as PNG. An empty background or
// "transparent" leaves the canvas clear.
func Social(src, out string, width, height int, background string) error {
	bg, err := ParseColor(background)
	if err != nil {
		return err
	}

	icon, err := readPNG(src)
	if err != nil {
		return err
	}
	if b := icon.Bounds(); b.Dx() > width || b.Dy() > height {
		return errors.New(errors.ErrCodeInvalidInput,
			"icon %dx%d does not fit a %dx%d preview", b.Dx(), b.Dy(), width, height)
	}

	canvas := imaging.New(width, height, bg)
	canvas = imaging.OverlayCenter(canvas, icon, 1.0)

	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return err
	}
	if err := imaging.Save(canvas, out); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", out)
	}
	return nil
}

// ParseColor parses a "#rrggbb" or "#rgb" color.
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "transparent") {
		return color.Transparent, nil
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "invalid color %q", s)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}
