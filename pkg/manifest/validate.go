package manifest

import (
	"strings"

	"github.com/kando-menu/design/pkg/errors"
	"github.com/kando-menu/design/pkg/svgdoc"
)

// Validate checks internal consistency. It does not touch the file system.
func (m *Manifest) Validate() error {
	if len(m.Artifacts) == 0 {
		return errors.New(errors.ErrCodeInvalidManifest, "manifest declares no artifacts")
	}

	names := map[string]bool{}
	outputs := map[string]string{}
	claim := func(path, owner string) error {
		if err := errors.ValidatePath(path); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "%s: output %q", owner, path)
		}
		if prev, ok := outputs[path]; ok {
			return errors.New(errors.ErrCodeInvalidManifest, "%s and %s both write %s", prev, owner, path)
		}
		outputs[path] = owner
		return nil
	}

	for _, a := range m.Artifacts {
		owner := "artifact " + a.Name
		if a.Name == "" {
			return errors.New(errors.ErrCodeInvalidManifest, "artifact without name")
		}
		if names[a.Name] {
			return errors.New(errors.ErrCodeInvalidManifest, "duplicate artifact %q", a.Name)
		}
		names[a.Name] = true

		if err := a.validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "%s", owner)
		}
		if a.SVG != "" {
			if err := claim(a.SVG, owner); err != nil {
				return err
			}
		}
		for _, size := range a.Sizes {
			if err := claim(a.PNGPath(size), owner); err != nil {
				return err
			}
		}
	}

	for _, b := range m.Bundles {
		owner := "bundle " + b.File
		a, ok := m.Artifact(b.Artifact)
		if !ok {
			return errors.New(errors.ErrCodeInvalidManifest, "%s: unknown artifact %q", owner, b.Artifact)
		}
		if b.Format != FormatICO && b.Format != FormatICNS {
			return errors.New(errors.ErrCodeInvalidManifest, "%s: format must be %q or %q, got %q", owner, FormatICO, FormatICNS, b.Format)
		}
		sizes := b.FrameSizes(a)
		if len(sizes) == 0 {
			return errors.New(errors.ErrCodeInvalidManifest, "%s: artifact %q renders no PNGs", owner, a.Name)
		}
		for _, s := range sizes {
			if !a.HasSize(s) {
				return errors.New(errors.ErrCodeInvalidManifest, "%s: artifact %q does not render %dpx", owner, a.Name, s)
			}
			if b.Format == FormatICO && s > 256 {
				return errors.New(errors.ErrCodeInvalidManifest, "%s: ICO frames are limited to 256px, got %d", owner, s)
			}
		}
		if err := claim(b.File, owner); err != nil {
			return err
		}
	}

	for _, s := range m.Socials {
		owner := "social " + s.File
		a, ok := m.Artifact(s.Artifact)
		if !ok {
			return errors.New(errors.ErrCodeInvalidManifest, "%s: unknown artifact %q", owner, s.Artifact)
		}
		if !a.HasSize(s.Size) {
			return errors.New(errors.ErrCodeInvalidManifest, "%s: artifact %q does not render %dpx", owner, a.Name, s.Size)
		}
		if s.Width < s.Size || s.Height < s.Size {
			return errors.New(errors.ErrCodeInvalidManifest, "%s: %dx%d canvas is smaller than the %dpx icon", owner, s.Width, s.Height, s.Size)
		}
		if err := claim(s.File, owner); err != nil {
			return err
		}
	}
	return nil
}

func (a Artifact) validate() error {
	if err := errors.ValidateSourceName(a.Base); err != nil {
		return err
	}
	if err := errors.ValidateSourceName(a.Overlay); err != nil {
		return err
	}
	if a.Base == a.Overlay {
		return errors.New(errors.ErrCodeInvalidManifest, "base and overlay are both %q", a.Base)
	}
	if err := errors.ValidateMargin(a.OverlayMargin, svgdoc.Canvas); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidManifest, err, "overlay_margin")
	}
	if err := errors.ValidateMargin(a.BaseMargin, svgdoc.Canvas); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidManifest, err, "base_margin")
	}
	if len(a.Sizes) == 0 && a.PNG != "" {
		return errors.New(errors.ErrCodeInvalidManifest, "png pattern without sizes")
	}
	if len(a.Sizes) > 0 && !strings.Contains(a.PNG, SizePlaceholder) {
		return errors.New(errors.ErrCodeInvalidManifest, "png pattern %q must contain %s", a.PNG, SizePlaceholder)
	}
	if a.SVG == "" && len(a.Sizes) == 0 {
		return errors.New(errors.ErrCodeInvalidManifest, "no svg output and no sizes")
	}
	prev := 0
	for _, s := range a.Sizes {
		if err := errors.ValidateSize(s); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "sizes")
		}
		if s == prev {
			return errors.New(errors.ErrCodeInvalidManifest, "duplicate size %d", s)
		}
		prev = s
	}
	return nil
}
