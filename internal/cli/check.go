package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kando-menu/design/pkg/errors"
)

// checkCommand reports which external tools the build needs and whether
// they are installed.
func (c *CLI) checkCommand() *cobra.Command {
	var manifestPath string
	var backends backendFlags

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that the external tools are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.loadManifest(manifestPath)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(backends)
			if err != nil {
				return err
			}

			opts := runner.Options()
			printKeyValue("namespacer", opts.Namespacer)
			printKeyValue("rasterizer", opts.Rasterizer)
			printKeyValue("packer", opts.Packer)
			printNewline()

			missing := false
			for _, req := range runner.Requirements(m) {
				label := fmt.Sprintf("%s (%s)", req.Tool.Name, req.Tool.Bin)
				path, err := req.Tool.Path()
				switch {
				case err == nil:
					printSuccess("%s", label)
					printDetail("%s", path)
				case !req.Required:
					printInfo("%s not installed, not needed", label)
				case req.Optional:
					printWarning("%s not installed, its outputs will be skipped", label)
				default:
					printError("%s not installed", label)
					printDetail("%s", req.Tool.Hint)
					missing = true
				}
			}
			if missing {
				return errors.New(errors.ErrCodeMissingDependency, "required tools are missing")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "manifest file (default: ./icons.toml or built-in)")
	backends.register(cmd)
	return cmd
}
