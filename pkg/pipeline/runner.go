package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kando-menu/design/pkg/compose"
	"github.com/kando-menu/design/pkg/errors"
	"github.com/kando-menu/design/pkg/manifest"
	"github.com/kando-menu/design/pkg/observability"
	"github.com/kando-menu/design/pkg/pack"
)

// Result summarizes a build.
type Result struct {
	Written  []string // output paths in write order
	Skipped  []Skip
	Duration time.Duration
}

// Skip is an output left out because its platform tool is unavailable.
type Skip struct {
	File   string
	Reason error
}

// Run builds every output of m. It stops at the first fatal error; files
// written before that are left in place.
func (r *Runner) Run(ctx context.Context, m *manifest.Manifest) (*Result, error) {
	start := time.Now()
	result := &Result{}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := r.Probe(m); err != nil {
		return nil, err
	}
	if err := r.checkSources(m); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(m.OutputRoot(), 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	for _, a := range m.Artifacts {
		if err := r.buildArtifact(ctx, m, a, result); err != nil {
			return nil, fmt.Errorf("artifact %s: %w", a.Name, err)
		}
	}

	for _, b := range m.Bundles {
		if err := r.buildBundle(ctx, m, b, result); err != nil {
			return nil, fmt.Errorf("bundle %s: %w", b.File, err)
		}
	}

	for _, s := range m.Socials {
		if err := r.buildSocial(ctx, m, s, result); err != nil {
			return nil, fmt.Errorf("social %s: %w", s.File, err)
		}
	}

	result.Duration = time.Since(start)
	r.Logger.Info("build finished",
		"written", len(result.Written),
		"skipped", len(result.Skipped),
		"duration", result.Duration.Round(time.Millisecond))
	return result, nil
}

func (r *Runner) checkSources(m *manifest.Manifest) error {
	for _, name := range m.Sources() {
		path := m.SourcePath(name)
		if _, err := os.Stat(path); err != nil {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "source %q", name)
		}
	}
	return nil
}

func (r *Runner) buildArtifact(ctx context.Context, m *manifest.Manifest, a manifest.Artifact, result *Result) (err error) {
	start := time.Now()
	files := 0
	observability.Build().OnArtifactStart(ctx, a.Name)
	defer func() {
		observability.Build().OnArtifactComplete(ctx, a.Name, files, time.Since(start), err)
	}()
	spec := compose.Spec{
		Base:          m.SourcePath(a.Base),
		Overlay:       m.SourcePath(a.Overlay),
		OverlayMargin: a.OverlayMargin,
		BaseMargin:    a.BaseMargin,
	}

	r.Logger.Info("compositing", "artifact", a.Name, "spec", spec.String())

	if a.SVG != "" {
		spec.Size, spec.Output = 0, m.OutputPath(a.SVG)
		if _, err := r.Compositor.Composite(ctx, spec); err != nil {
			return err
		}
		result.Written = append(result.Written, spec.Output)
		files++
	}

	for _, size := range a.Sizes {
		spec.Size, spec.Output = size, m.OutputPath(a.PNGPath(size))
		if _, err := r.Compositor.Composite(ctx, spec); err != nil {
			return err
		}
		result.Written = append(result.Written, spec.Output)
		files++
	}

	r.Logger.Debug("artifact done", "artifact", a.Name, "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

func (r *Runner) buildBundle(ctx context.Context, m *manifest.Manifest, b manifest.Bundle, result *Result) error {
	a, _ := m.Artifact(b.Artifact)
	sizes := b.FrameSizes(a)
	frames := make([]pack.Frame, 0, len(sizes))
	for _, size := range sizes {
		frames = append(frames, pack.Frame{Size: size, Path: m.OutputPath(a.PNGPath(size))})
	}

	packer := r.ICO
	if b.Format == manifest.FormatICNS {
		packer = r.ICNS
	}

	out := m.OutputPath(b.File)
	r.Logger.Info("packing", "file", b.File, "frames", len(frames))
	start := time.Now()
	err := packer.Pack(ctx, frames, out)
	if err != nil && !errors.Fatal(err) {
		observability.Build().OnBundleComplete(ctx, b.File, b.Format, true, time.Since(start), nil)
		r.Logger.Warn("skipped", "file", b.File, "reason", errors.UserMessage(err))
		result.Skipped = append(result.Skipped, Skip{File: out, Reason: err})
		return nil
	}
	observability.Build().OnBundleComplete(ctx, b.File, b.Format, false, time.Since(start), err)
	if err != nil {
		return err
	}
	result.Written = append(result.Written, out)
	return nil
}

func (r *Runner) buildSocial(ctx context.Context, m *manifest.Manifest, s manifest.Social, result *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a, _ := m.Artifact(s.Artifact)
	out := m.OutputPath(s.File)

	r.Logger.Info("social preview", "file", s.File, "size", fmt.Sprintf("%dx%d", s.Width, s.Height))
	if err := pack.Social(m.OutputPath(a.PNGPath(s.Size)), out, s.Width, s.Height, s.Background); err != nil {
		return err
	}
	result.Written = append(result.Written, out)
	return nil
}
