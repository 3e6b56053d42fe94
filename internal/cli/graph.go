package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/itfstack/pkg/errors"
	"github.com/matzehuels/itfstack/pkg/render/dot"
)

// graphCommand creates the graph command, which draws the stack with Graphviz.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		flags    sourceFlags
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph <file>",
		Short: "Draw the layer stack and its vias as a graph",
		Long: `Draw the layer stack as a Graphviz graph, bottom layer first, with vias
as edges between the layers they connect.

The format is taken from --format, or from the extension of --output.`,
		Example: `  itfstack graph tech.itf -o tech.svg
  itfstack graph tech.itf -f dot --detailed | dot -Tpdf > tech.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") && output != "" {
				if ext := strings.TrimPrefix(filepath.Ext(output), "."); dot.ValidFormats[ext] {
					format = ext
				}
			}
			if err := dot.ValidateFormat(format); err != nil {
				return errors.Wrap(errors.KindInvalidInput, err, "invalid --format")
			}

			res, err := c.loadStack(cmd, args[0], flags)
			if err != nil {
				return err
			}

			src := dot.ToDOT(res.Stack, dot.Options{Detailed: detailed})
			data, err := dot.Render(cmd.Context(), src, format)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if output == "" {
				_, err := out.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return errors.Wrap(errors.KindIO, err, "write %s", output)
			}
			printSuccess(out, "Rendered %s", res.Source)
			printFile(out, output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", dot.FormatSVG, fmt.Sprintf("output format (%s, %s, %s)", dot.FormatDOT, dot.FormatSVG, dot.FormatPNG))
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label layers with thickness, z range and permittivity")

	return cmd
}
