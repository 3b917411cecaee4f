// Package manifest describes what an icon build produces.
//
// A manifest is a TOML file listing artifacts (one composite each, written as
// SVG and/or PNGs at several sizes), bundles (ICO/ICNS containers packed
// from an artifact's PNGs) and social previews. The repository ships a
// default manifest that reproduces the published Kando icon set; a local
// icons.toml replaces it.
//
//	source_dir = "source"
//	output_dir = "output"
//
//	[[artifact]]
//	name = "windows"
//	base = "bg_rounded"
//	overlay = "blossom_large"
//	overlay_margin = 40
//	png = "windows/kando-{size}.png"
//	sizes = [16, 32, 48, 64, 96, 128, 256]
//
//	[[bundle]]
//	file = "windows/kando.ico"
//	format = "ico"
//	artifact = "windows"
package manifest

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/kando-menu/design/pkg/errors"
)

// DefaultFile is the manifest looked up in the working directory.
const DefaultFile = "icons.toml"

// SizePlaceholder is replaced by the edge length in PNG patterns.
const SizePlaceholder = "{size}"

// Bundle formats.
const (
	FormatICO  = "ico"
	FormatICNS = "icns"
)

//go:embed default.toml
var defaultManifest []byte

// Manifest is a complete build description.
type Manifest struct {
	SourceDir string     `toml:"source_dir"`
	OutputDir string     `toml:"output_dir"`
	Artifacts []Artifact `toml:"artifact"`
	Bundles   []Bundle   `toml:"bundle"`
	Socials   []Social   `toml:"social"`

	// dir is the directory relative paths resolve against.
	dir string
}

// Artifact is one composite written in one or more forms.
type Artifact struct {
	Name          string  `toml:"name"`
	Base          string  `toml:"base"`
	Overlay       string  `toml:"overlay"`
	OverlayMargin float64 `toml:"overlay_margin"`
	BaseMargin    float64 `toml:"base_margin"`
	SVG           string  `toml:"svg"`   // vector output, optional
	PNG           string  `toml:"png"`   // raster pattern containing {size}
	Sizes         []int   `toml:"sizes"` // raster sizes for PNG
}

// Bundle packs PNGs of one artifact into a container file.
type Bundle struct {
	File     string `toml:"file"`
	Format   string `toml:"format"`
	Artifact string `toml:"artifact"`
	Sizes    []int  `toml:"sizes"` // subset of the artifact sizes, all when empty
}

// Social places one PNG of an artifact on a solid canvas.
type Social struct {
	File       string `toml:"file"`
	Artifact   string `toml:"artifact"`
	Size       int    `toml:"size"` // artifact PNG size to use
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Background string `toml:"background"`
}

// Load reads and validates the manifest at path. Relative directories
// resolve against the manifest's own directory.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", path)
	}
	if err != nil {
		return nil, err
	}

	m, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	m.dir = abs
	return m, nil
}

// Default returns the embedded manifest, resolving against dir.
func Default(dir string) *Manifest {
	m, err := Parse(defaultManifest)
	if err != nil {
		panic(fmt.Sprintf("embedded manifest: %v", err))
	}
	m.dir = dir
	return m
}

// Resolve loads path when set, else DefaultFile from dir when present,
// else the embedded default. The second return value names the source.
func Resolve(path, dir string) (*Manifest, string, error) {
	if path != "" {
		m, err := Load(path)
		return m, path, err
	}
	local := filepath.Join(dir, DefaultFile)
	if _, err := os.Stat(local); err == nil {
		m, err := Load(local)
		return m, local, err
	}
	return Default(dir), "built-in", nil
}

// Parse decodes and validates a manifest. Unknown keys are rejected.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode manifest")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidManifest, "unknown keys: %s", strings.Join(keys, ", "))
	}

	if m.SourceDir == "" {
		m.SourceDir = "source"
	}
	if m.OutputDir == "" {
		m.OutputDir = "output"
	}
	for i := range m.Artifacts {
		sort.Ints(m.Artifacts[i].Sizes)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// SourcePath returns the path of the named source document.
func (m *Manifest) SourcePath(name string) string {
	return m.abs(filepath.Join(m.SourceDir, name+".svg"))
}

// OutputPath returns rel inside the output directory.
func (m *Manifest) OutputPath(rel string) string {
	return m.abs(filepath.Join(m.OutputDir, filepath.FromSlash(rel)))
}

// OutputRoot returns the output directory.
func (m *Manifest) OutputRoot() string {
	return m.abs(m.OutputDir)
}

// Artifact returns the artifact with the given name.
func (m *Manifest) Artifact(name string) (Artifact, bool) {
	for _, a := range m.Artifacts {
		if a.Name == name {
			return a, true
		}
	}
	return Artifact{}, false
}

// Sources returns the distinct source names referenced by artifacts.
func (m *Manifest) Sources() []string {
	seen := map[string]bool{}
	var names []string
	for _, a := range m.Artifacts {
		for _, n := range []string{a.Base, a.Overlay} {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	return names
}

// HasRaster reports whether any artifact writes PNGs.
func (m *Manifest) HasRaster() bool {
	for _, a := range m.Artifacts {
		if len(a.Sizes) > 0 {
			return true
		}
	}
	return false
}

func (m *Manifest) abs(p string) string {
	if filepath.IsAbs(p) || m.dir == "" {
		return p
	}
	return filepath.Join(m.dir, p)
}

// PNGPath returns the PNG output path of a for size, relative to the
// output directory.
func (a Artifact) PNGPath(size int) string {
	return strings.ReplaceAll(a.PNG, SizePlaceholder, strconv.Itoa(size))
}

// HasSize reports whether a renders a PNG at size.
func (a Artifact) HasSize(size int) bool {
	for _, s := range a.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// FrameSizes returns the sizes packed into b, taken from a when b lists none.
func (b Bundle) FrameSizes(a Artifact) []int {
	if len(b.Sizes) > 0 {
		return b.Sizes
	}
	return a.Sizes
}
