// Package compose layers an overlay SVG on top of a base SVG.
//
// A [Spec] names two source documents that share the 256 unit canvas. The
// [Compositor] copies both into a private scratch directory, prefixes their
// ids so the markup can be concatenated, shrinks the overlay (and optionally
// the base) by a margin, merges the two and writes the result as SVG or, when
// a size is given, as a PNG.
package compose

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/kando-menu/design/pkg/errors"
	"github.com/kando-menu/design/pkg/namespace"
	"github.com/kando-menu/design/pkg/raster"
	"github.com/kando-menu/design/pkg/svgdoc"
)

// Spec fully determines one composite.
type Spec struct {
	Base          string  // base document path
	Overlay       string  // overlay document path, drawn on top
	OverlayMargin float64 // canvas units removed on each side of the overlay
	BaseMargin    float64 // canvas units removed on each side of the base, 0 for none
	Size          int     // raster edge length in pixels, 0 writes SVG
	Output        string  // output path
}

// Compositor evaluates Specs.
type Compositor struct {
	Namespacer namespace.Namespacer
	Rasterizer raster.Rasterizer

	// ScratchDir holds one subdirectory per evaluation. Defaults to the
	// system temp dir.
	ScratchDir string

	Logger *log.Logger
}

// Composite evaluates spec and writes spec.Output. The merged document is
// returned even when the output is a raster.
func (c *Compositor) Composite(ctx context.Context, spec Spec) (*svgdoc.Document, error) {
	basePrefix, overlayPrefix := namespace.PrefixFor(spec.Base), namespace.PrefixFor(spec.Overlay)
	if basePrefix == overlayPrefix {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"%s and %s map to the same id prefix %q", filepath.Base(spec.Base), filepath.Base(spec.Overlay), basePrefix)
	}
	if spec.Size > 0 && c.Rasterizer == nil {
		return nil, errors.New(errors.ErrCodeInternal, "raster output requested without a rasterizer")
	}

	scratch, err := c.scratch()
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(scratch)

	base, err := c.prepare(ctx, scratch, spec.Base, basePrefix)
	if err != nil {
		return nil, err
	}
	overlay, err := c.prepare(ctx, scratch, spec.Overlay, overlayPrefix)
	if err != nil {
		return nil, err
	}

	if spec.BaseMargin > 0 {
		base = svgdoc.Inset(base, spec.BaseMargin)
	}
	overlay = svgdoc.Inset(overlay, spec.OverlayMargin)

	merged, err := svgdoc.Merge(base, overlay)
	if err != nil {
		return nil, err
	}

	if spec.Size == 0 {
		if err := merged.WriteFile(spec.Output); err != nil {
			return nil, fmt.Errorf("write %s: %w", spec.Output, err)
		}
		return merged, nil
	}

	start := time.Now()
	png, err := c.Rasterizer.Rasterize(ctx, merged.Bytes(), spec.Size, spec.Size)
	if err != nil {
		return nil, err
	}
	c.logger().Debug("rasterized", "file", filepath.Base(spec.Output), "size", spec.Size, "elapsed", time.Since(start).Round(time.Millisecond))

	if err := os.MkdirAll(filepath.Dir(spec.Output), 0755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(spec.Output, png, 0644); err != nil {
		return nil, fmt.Errorf("write %s: %w", spec.Output, err)
	}
	return merged, nil
}

// prepare copies src into scratch, namespaces the copy and parses it. The
// namespaced ids must be unique within the document.
func (c *Compositor) prepare(ctx context.Context, scratch, src, prefix string) (*svgdoc.Document, error) {
	dst := filepath.Join(scratch, filepath.Base(src))
	if err := copyFile(src, dst); err != nil {
		return nil, err
	}

	c.logger().Debug("namespacing", "file", filepath.Base(src), "prefix", prefix)
	if err := c.Namespacer.Namespace(ctx, dst, prefix); err != nil {
		return nil, err
	}

	doc, err := svgdoc.ReadFile(dst)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	for _, id := range namespace.IDs(doc.Bytes()) {
		if seen[id] {
			return nil, errors.New(errors.ErrCodeInvalidDocument,
				"%s: id %q is declared twice after namespacing", filepath.Base(src), id)
		}
		seen[id] = true
	}
	return doc, nil
}

func (c *Compositor) scratch() (string, error) {
	root := c.ScratchDir
	if root == "" {
		root = os.TempDir()
	}
	dir := filepath.Join(root, "kando-icons-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create scratch dir: %w", err)
	}
	return dir, nil
}

func (c *Compositor) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.Default()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "source %s", src)
	}
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// String describes s for log lines.
func (s Spec) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s + %s (margin %g", filepath.Base(s.Base), filepath.Base(s.Overlay), s.OverlayMargin)
	if s.BaseMargin > 0 {
		fmt.Fprintf(&b, ", base margin %g", s.BaseMargin)
	}
	b.WriteString(")")
	if s.Size > 0 {
		fmt.Fprintf(&b, " @ %dpx", s.Size)
	}
	return b.String()
}
