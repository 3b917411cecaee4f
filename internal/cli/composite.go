package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/kando-menu/design/pkg/compose"
	"github.com/kando-menu/design/pkg/errors"
	"github.com/kando-menu/design/pkg/svgdoc"
)

// compositeCommand layers one overlay onto one base outside of any manifest.
func (c *CLI) compositeCommand() *cobra.Command {
	var spec compose.Spec
	var backends backendFlags

	cmd := &cobra.Command{
		Use:   "composite <base.svg> <overlay.svg>",
		Short: "Composite a single overlay onto a base",
		Long: `Composite a single overlay onto a base document.

Both documents must use the 256x256 canvas. The overlay is shrunk by --margin
on every side; --base-margin does the same for the base. With --size the
result is rasterized to a square PNG instead of written as SVG.`,
		Example: `  kando-icons composite source/bg_circle.svg source/blossom_medium.svg --margin 32 -o icon.svg
  kando-icons composite source/bg_circle.svg source/blossom_medium.svg --margin 32 --size 512 -o icon.png`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec.Base, spec.Overlay = args[0], args[1]
			if err := errors.ValidateMargin(spec.OverlayMargin, svgdoc.Canvas); err != nil {
				return err
			}
			if err := errors.ValidateMargin(spec.BaseMargin, svgdoc.Canvas); err != nil {
				return err
			}
			if spec.Size != 0 {
				if err := errors.ValidateSize(spec.Size); err != nil {
					return err
				}
			}
			if spec.Output == "" {
				spec.Output = "composite.svg"
				if spec.Size > 0 {
					spec.Output = "composite.png"
				}
			}
			if spec.Size == 0 && strings.HasSuffix(strings.ToLower(spec.Output), ".png") {
				return errors.New(errors.ErrCodeInvalidInput, "PNG output needs --size")
			}

			runner, err := c.newRunner(backends)
			if err != nil {
				return err
			}
			prog := newProgress(c.Logger)
			if _, err := runner.Compositor.Composite(cmd.Context(), spec); err != nil {
				return err
			}
			prog.done("Composite written")
			printSuccess("%s", spec.String())
			printFile(spec.Output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&spec.Output, "output", "o", "", "output file (default: composite.svg or composite.png)")
	cmd.Flags().Float64Var(&spec.OverlayMargin, "margin", 0, "overlay margin in canvas units (0-127)")
	cmd.Flags().Float64Var(&spec.BaseMargin, "base-margin", 0, "base margin in canvas units (0-127)")
	cmd.Flags().IntVar(&spec.Size, "size", 0, "rasterize to a square PNG of this many pixels")
	backends.register(cmd)
	return cmd
}
