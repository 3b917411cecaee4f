// Package pipeline runs a complete icon build from a manifest.
//
// The build is strictly sequential and fail-fast:
//
//  1. Probe: every external tool the selected backends need must be
//     installed, otherwise nothing is written
//  2. Sources: every referenced source document must exist
//  3. Artifacts: one composite per SVG output and per PNG size
//  4. Bundles: ICO/ICNS containers from artifact PNGs (a missing ICNS packer
//     is reported and skipped)
//  5. Social previews
//
// # Usage
//
//	runner, err := pipeline.NewRunner(pipeline.Options{Logger: logger})
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Run(ctx, manifest.Default(dir))
package pipeline

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/kando-menu/design/pkg/cache"
	"github.com/kando-menu/design/pkg/compose"
	"github.com/kando-menu/design/pkg/errors"
	"github.com/kando-menu/design/pkg/manifest"
	"github.com/kando-menu/design/pkg/namespace"
	"github.com/kando-menu/design/pkg/pack"
	"github.com/kando-menu/design/pkg/raster"
	"github.com/kando-menu/design/pkg/tool"
)

// =============================================================================
// Backends
// =============================================================================

// Backend names. External backends shell out; builtin ones run in-process.
const (
	BackendSVGO    = "svgo"
	BackendRSVG    = "rsvg"
	BackendMagick  = "magick"
	BackendBuiltin = "builtin"
)

// ValidNamespacers is the set of supported id namespacers.
var ValidNamespacers = map[string]bool{BackendSVGO: true, BackendBuiltin: true}

// ValidRasterizers is the set of supported rasterizers.
var ValidRasterizers = map[string]bool{BackendRSVG: true, BackendBuiltin: true}

// ValidPackers is the set of supported ICO packers.
var ValidPackers = map[string]bool{BackendMagick: true, BackendBuiltin: true}

// =============================================================================
// Options
// =============================================================================

// Options configures a Runner. The zero value uses the external tools found
// in PATH, no cache and the default logger.
type Options struct {
	Namespacer string
	Rasterizer string
	Packer     string

	// Executable names or paths, empty for the default.
	SVGO     string
	RSVG     string
	Magick   string
	Iconutil string

	ScratchDir string
	Cache      cache.Cache
	Logger     *log.Logger
}

// ValidateAndSetDefaults checks backend names and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Namespacer == "" {
		o.Namespacer = BackendSVGO
	}
	if o.Rasterizer == "" {
		o.Rasterizer = BackendRSVG
	}
	if o.Packer == "" {
		o.Packer = BackendMagick
	}
	if !ValidNamespacers[o.Namespacer] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid namespacer: %s (must be svgo or builtin)", o.Namespacer)
	}
	if !ValidRasterizers[o.Rasterizer] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid rasterizer: %s (must be rsvg or builtin)", o.Rasterizer)
	}
	if !ValidPackers[o.Packer] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid packer: %s (must be magick or builtin)", o.Packer)
	}
	if o.ScratchDir == "" {
		o.ScratchDir = os.TempDir()
	}
	if o.Cache == nil {
		o.Cache = cache.NewNullCache()
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return nil
}

// =============================================================================
// Runner
// =============================================================================

// Runner builds manifests with a fixed set of backends.
type Runner struct {
	Compositor *compose.Compositor
	ICO        pack.Packer
	ICNS       pack.Packer
	Logger     *log.Logger

	svgo, rsvg, magick, iconutil tool.Tool
	opts                         Options
}

// NewRunner wires the backends selected by opts.
func NewRunner(opts Options) (*Runner, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	r := &Runner{
		Logger:   opts.Logger,
		svgo:     tool.SVGO(opts.SVGO),
		rsvg:     tool.RSVG(opts.RSVG),
		magick:   tool.Magick(opts.Magick),
		iconutil: tool.Iconutil(opts.Iconutil),
		opts:     opts,
	}

	var ns namespace.Namespacer = namespace.Builtin{}
	if opts.Namespacer == BackendSVGO {
		ns = namespace.SVGO{Tool: r.svgo}
	}

	var rz raster.Rasterizer = raster.Native{}
	if opts.Rasterizer == BackendRSVG {
		rz = raster.RSVG{Tool: r.rsvg}
	}
	rz = raster.Cached{Rasterizer: rz, Cache: opts.Cache}

	r.ICO = pack.NativeICO{}
	if opts.Packer == BackendMagick {
		r.ICO = pack.Magick{Tool: r.magick}
	}
	r.ICNS = pack.Iconutil{Tool: r.iconutil}

	r.Compositor = &compose.Compositor{
		Namespacer: ns,
		Rasterizer: rz,
		ScratchDir: opts.ScratchDir,
		Logger:     opts.Logger,
	}
	return r, nil
}

// Options returns the effective options.
func (r *Runner) Options() Options { return r.opts }

// Requirement is one external tool and whether m needs it.
type Requirement struct {
	Tool     tool.Tool
	Required bool // false when the backend is builtin or m never uses it
	Optional bool // a missing tool only skips outputs
}

// Requirements lists every external tool with its role for m.
func (r *Runner) Requirements(m *manifest.Manifest) []Requirement {
	var ico, icns bool
	for _, b := range m.Bundles {
		ico = ico || b.Format == manifest.FormatICO
		icns = icns || b.Format == manifest.FormatICNS
	}
	return []Requirement{
		{Tool: r.svgo, Required: r.opts.Namespacer == BackendSVGO},
		{Tool: r.rsvg, Required: r.opts.Rasterizer == BackendRSVG && m.HasRaster()},
		{Tool: r.magick, Required: r.opts.Packer == BackendMagick && ico},
		{Tool: r.iconutil, Required: icns, Optional: true},
	}
}

// Probe fails with MISSING_DEPENDENCY when a required tool is absent.
func (r *Runner) Probe(m *manifest.Manifest) error {
	for _, req := range r.Requirements(m) {
		if !req.Required || req.Optional {
			continue
		}
		if _, err := req.Tool.Path(); err != nil {
			return err
		}
	}
	return nil
}
