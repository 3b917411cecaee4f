package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"KANDO_ICONS_NAMESPACER", "KANDO_ICONS_RASTERIZER", "KANDO_ICONS_PACKER", "KANDO_ICONS_NO_CACHE"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Namespacer != "svgo" || cfg.Rasterizer != "rsvg" || cfg.Packer != "magick" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.NoCache {
		t.Error("cache should be on by default")
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("KANDO_ICONS_SVGO", "/opt/node/bin/svgo")
	t.Setenv("KANDO_ICONS_RASTERIZER", "builtin")
	t.Setenv("KANDO_ICONS_SCRATCH", "/tmp/icons")
	t.Setenv("KANDO_ICONS_NO_CACHE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	opts := cfg.Options()
	if opts.SVGO != "/opt/node/bin/svgo" || opts.Rasterizer != "builtin" || opts.ScratchDir != "/tmp/icons" {
		t.Errorf("Options() = %+v", opts)
	}
	if !cfg.NoCache {
		t.Error("NoCache not parsed")
	}
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("KANDO_ICONS_NO_CACHE", "sometimes")
	if _, err := Load(); err == nil {
		t.Error("expected a parse error for a non-boolean value")
	}
}
