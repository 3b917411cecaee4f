// Package config reads build settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/kando-menu/design/pkg/pipeline"
)

// Config controls backend selection and tool lookup.
type Config struct {
	SVGO     string `env:"KANDO_ICONS_SVGO"`
	RSVG     string `env:"KANDO_ICONS_RSVG"`
	Magick   string `env:"KANDO_ICONS_MAGICK"`
	Iconutil string `env:"KANDO_ICONS_ICONUTIL"`

	Namespacer string `env:"KANDO_ICONS_NAMESPACER" envDefault:"svgo"`
	Rasterizer string `env:"KANDO_ICONS_RASTERIZER" envDefault:"rsvg"`
	Packer     string `env:"KANDO_ICONS_PACKER"     envDefault:"magick"`

	ScratchDir string `env:"KANDO_ICONS_SCRATCH"`
	NoCache    bool   `env:"KANDO_ICONS_NO_CACHE"`
}

// Load parses the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Options maps the config onto pipeline options. Cache and logger are left
// for the caller.
func (c Config) Options() pipeline.Options {
	return pipeline.Options{
		Namespacer: c.Namespacer,
		Rasterizer: c.Rasterizer,
		Packer:     c.Packer,
		SVGO:       c.SVGO,
		RSVG:       c.RSVG,
		Magick:     c.Magick,
		Iconutil:   c.Iconutil,
		ScratchDir: c.ScratchDir,
	}
}
