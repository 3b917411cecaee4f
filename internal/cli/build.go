package cli

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kando-menu/design/pkg/errors"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	manifest string // manifest path, empty for icons.toml or the built-in one
	output   string // overrides the manifest output directory
	backends backendFlags
}

// buildCommand creates the build command. The root command shares its flags.
func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOpts

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build every icon declared in the manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.manifest, "manifest", "m", "", "manifest file (default: ./icons.toml or built-in)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (overrides the manifest)")
	opts.backends.register(cmd)

	return cmd
}

func (c *CLI) runBuild(ctx context.Context, opts buildOpts) error {
	m, err := c.loadManifest(opts.manifest)
	if err != nil {
		return err
	}
	if opts.output != "" {
		abs, err := filepath.Abs(opts.output)
		if err != nil {
			return err
		}
		m.OutputDir = abs
	}

	runner, err := c.newRunner(opts.backends)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	result, err := runner.Run(ctx, m)
	if err != nil {
		if errors.Is(err, errors.ErrCodeMissingDependency) {
			printError("%s", errors.UserMessage(err))
			printNextStep("Check all tools", appName+" check")
		}
		return err
	}
	prog.done("Build complete")

	printSuccess("Wrote %d files to %s", len(result.Written), m.OutputRoot())
	for _, p := range result.Written {
		if rel, err := filepath.Rel(m.OutputRoot(), p); err == nil {
			printFile(rel)
		} else {
			printFile(p)
		}
	}
	for _, s := range result.Skipped {
		printWarning("Skipped %s: %s", filepath.Base(s.File), errors.UserMessage(s.Reason))
	}
	printNextStep("Browse the result", appName+" preview")
	return nil
}
