package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kando-menu/design/pkg/errors"
)

const minimal = `
[[artifact]]
name = "linux"
base = "bg_circle"
overlay = "blossom_medium"
overlay_margin = 32
png = "linux/kando-{size}.png"
sizes = [256, 16, 32]
`

func TestDefault(t *testing.T) {
	m := Default("/repo")

	if len(m.Artifacts) == 0 || len(m.Bundles) == 0 || len(m.Socials) == 0 {
		t.Fatalf("embedded manifest is incomplete: %+v", m)
	}
	if got := m.SourcePath("bg_circle"); got != filepath.Join("/repo", "source", "bg_circle.svg") {
		t.Errorf("SourcePath = %q", got)
	}
	if got := m.OutputPath("windows/kando.ico"); got != filepath.Join("/repo", "output", "windows", "kando.ico") {
		t.Errorf("OutputPath = %q", got)
	}

	var ico *Bundle
	for i := range m.Bundles {
		if m.Bundles[i].File == "windows/kando.ico" {
			ico = &m.Bundles[i]
		}
	}
	if ico == nil {
		t.Fatal("windows bundle missing")
	}
	a, _ := m.Artifact(ico.Artifact)
	want := []int{16, 32, 48, 64, 96, 128, 256}
	if got := ico.FrameSizes(a); !equalInts(got, want) {
		t.Errorf("windows frames = %v, want %v", got, want)
	}
}

func TestDefaultSourcesExist(t *testing.T) {
	m := Default(filepath.Join("..", ".."))
	for _, name := range m.Sources() {
		if _, err := os.Stat(m.SourcePath(name)); err != nil {
			t.Errorf("source %s: %v", name, err)
		}
	}
}

func TestExampleManifests(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "*.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no example manifests found")
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			m, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			for _, name := range m.Sources() {
				if _, err := os.Stat(m.SourcePath(name)); err != nil {
					t.Errorf("source %s: %v", name, err)
				}
			}
		})
	}
}

func TestParse(t *testing.T) {
	m, err := Parse([]byte(minimal))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.SourceDir != "source" || m.OutputDir != "output" {
		t.Errorf("defaults not applied: %q %q", m.SourceDir, m.OutputDir)
	}
	a := m.Artifacts[0]
	if !equalInts(a.Sizes, []int{16, 32, 256}) {
		t.Errorf("sizes not sorted: %v", a.Sizes)
	}
	if got := a.PNGPath(32); got != "linux/kando-32.png" {
		t.Errorf("PNGPath = %q", got)
	}
	if !m.HasRaster() {
		t.Error("HasRaster() = false")
	}
	if got := m.Sources(); len(got) != 2 || got[0] != "bg_circle" || got[1] != "blossom_medium" {
		t.Errorf("Sources() = %v", got)
	}
}

func TestParseErrors(t *testing.T) {
	artifact := func(extra string) string {
		return `
[[artifact]]
name = "a"
base = "bg_circle"
overlay = "blossom_medium"
png = "a-{size}.png"
sizes = [16, 32]
` + extra
	}

	tests := []struct {
		name string
		toml string
		want string
	}{
		{"syntax", "source_dir = ", "decode manifest"},
		{"unknown key", artifact("colour = 1"), "unknown keys"},
		{"empty", `source_dir = "s"`, "no artifacts"},
		{"margin too large", strings.Replace(artifact(""), `png =`, "overlay_margin = 128\npng =", 1), "overlay_margin"},
		{"nan margin", strings.Replace(artifact(""), `png =`, "overlay_margin = nan\npng =", 1), "overlay_margin"},
		{"negative base margin", strings.Replace(artifact(""), `png =`, "base_margin = -1\npng =", 1), "base_margin"},
		{"traversal", strings.Replace(artifact(""), `"bg_circle"`, `"../secret"`, 1), "path traversal"},
		{"same source", strings.Replace(artifact(""), `"blossom_medium"`, `"bg_circle"`, 1), "both"},
		{"no placeholder", strings.Replace(artifact(""), `a-{size}.png`, `a.png`, 1), "{size}"},
		{"pattern without sizes", strings.Replace(artifact(""), "sizes = [16, 32]", "sizes = []", 1), "png pattern without sizes"},
		{"nothing to write", strings.Replace(strings.Replace(artifact(""), "sizes = [16, 32]", "", 1), `png = "a-{size}.png"`, "", 1), "no svg output"},
		{"size zero", strings.Replace(artifact(""), "[16, 32]", "[0, 16]", 1), "sizes"},
		{"duplicate size", strings.Replace(artifact(""), "[16, 32]", "[32, 16, 32]", 1), "duplicate size"},
		{"absolute output", strings.Replace(artifact(""), `"a-{size}.png"`, `"/tmp/a-{size}.png"`, 1), "relative"},
		{"duplicate artifact", artifact(artifact("")), "duplicate artifact"},
		{"bundle unknown artifact", artifact("[[bundle]]\nfile = \"a.ico\"\nformat = \"ico\"\nartifact = \"b\""), "unknown artifact"},
		{"bundle format", artifact("[[bundle]]\nfile = \"a.ico\"\nformat = \"png\"\nartifact = \"a\""), "format"},
		{"bundle size", artifact("[[bundle]]\nfile = \"a.ico\"\nformat = \"ico\"\nartifact = \"a\"\nsizes = [64]"), "does not render 64px"},
		{"bundle collides", artifact("[[bundle]]\nfile = \"a-16.png\"\nformat = \"ico\"\nartifact = \"a\""), "both write"},
		{"social size", artifact("[[social]]\nfile = \"s.png\"\nartifact = \"a\"\nsize = 64\nwidth = 100\nheight = 100"), "does not render 64px"},
		{"social canvas", artifact("[[social]]\nfile = \"s.png\"\nartifact = \"a\"\nsize = 32\nwidth = 16\nheight = 100"), "smaller than"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.toml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidManifest) {
				t.Errorf("expected INVALID_MANIFEST, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "icons.toml")
	if err := os.WriteFile(path, []byte(minimal), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := m.OutputRoot(); got != filepath.Join(dir, "output") {
		t.Errorf("OutputRoot = %q, want relative to the manifest", got)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing manifest: %v", err)
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()

	m, src, err := Resolve("", dir)
	if err != nil || src != "built-in" {
		t.Fatalf("expected the built-in manifest, got %q %v", src, err)
	}
	if m.OutputRoot() != filepath.Join(dir, "output") {
		t.Errorf("built-in manifest should resolve against dir: %s", m.OutputRoot())
	}

	local := filepath.Join(dir, DefaultFile)
	if err := os.WriteFile(local, []byte(minimal), 0644); err != nil {
		t.Fatal(err)
	}
	m, src, err = Resolve("", dir)
	if err != nil || src != local {
		t.Fatalf("expected %s, got %q %v", local, src, err)
	}
	if len(m.Artifacts) != 1 {
		t.Errorf("local manifest not used: %d artifacts", len(m.Artifacts))
	}

	explicit := filepath.Join(dir, "other.toml")
	if err := os.WriteFile(explicit, []byte("bad = "), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Resolve(explicit, dir); !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Errorf("explicit manifest should be used and rejected: %v", err)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
