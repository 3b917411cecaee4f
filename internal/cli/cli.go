// Package cli implements the kando-icons command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/kando-menu/design/internal/config"
	"github.com/kando-menu/design/pkg/buildinfo"
	"github.com/kando-menu/design/pkg/cache"
	"github.com/kando-menu/design/pkg/manifest"
	"github.com/kando-menu/design/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "kando-icons"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config
}

// New creates a new CLI instance with a default logger. Configuration is
// read from the environment when the first command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// Running the root command without a subcommand builds the icon set.
func (c *CLI) RootCommand() *cobra.Command {
	build := c.buildCommand()

	root := &cobra.Command{
		Use:   appName,
		Short: "kando-icons builds the Kando application icons",
		Long: `kando-icons composites the blossom motif onto background shapes and writes
tray icons, favicons, Linux, Windows and macOS app icons and social previews.

Without a subcommand it runs "build" with the manifest found in the working
directory (icons.toml) or the built-in one.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c.Config = cfg
			return nil
		},
		RunE: build.RunE,
	}
	root.Flags().AddFlagSet(build.Flags())

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(build)
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.compositeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// backendFlags override the environment backend selection.
type backendFlags struct {
	namespacer string
	rasterizer string
	packer     string
	noCache    bool
}

func (b *backendFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&b.namespacer, "namespacer", "", "id namespacer: svgo (default), builtin")
	cmd.Flags().StringVar(&b.rasterizer, "rasterizer", "", "rasterizer: rsvg (default), builtin")
	cmd.Flags().StringVar(&b.packer, "packer", "", "ICO packer: magick (default), builtin")
	cmd.Flags().BoolVar(&b.noCache, "no-cache", false, "disable the raster cache")
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(b backendFlags) (*pipeline.Runner, error) {
	opts := c.Config.Options()
	if b.namespacer != "" {
		opts.Namespacer = b.namespacer
	}
	if b.rasterizer != "" {
		opts.Rasterizer = b.rasterizer
	}
	if b.packer != "" {
		opts.Packer = b.packer
	}

	cache, err := newCache(b.noCache || c.Config.NoCache)
	if err != nil {
		return nil, err
	}
	opts.Cache = cache
	opts.Logger = c.Logger
	return pipeline.NewRunner(opts)
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// loadManifest resolves the --manifest flag against the working directory.
func (c *CLI) loadManifest(path string) (*manifest.Manifest, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	m, src, err := manifest.Resolve(path, wd)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("manifest", "source", src, "artifacts", len(m.Artifacts))
	return m, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/kando-icons/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
