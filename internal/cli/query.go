package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/itfstack/pkg/errors"
	itfio "github.com/matzehuels/itfstack/pkg/io"
	"github.com/matzehuels/itfstack/pkg/stack"
)

// summaryCommand creates the summary command.
func (c *CLI) summaryCommand() *cobra.Command {
	var (
		flags  sourceFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "summary <file>",
		Short: "Print the process summary of an ITF file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.loadStack(cmd, args[0], flags)
			if err != nil {
				return err
			}
			sum := res.Stack.Summary()
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, itfio.FromSummary(sum))
			}

			fmt.Fprintln(out, StyleTitle.Render(sum.TechnologyName))
			printKeyValue(out, "Layers", fmt.Sprintf("%d", sum.TotalLayers))
			printKeyValue(out, "Conductors", fmt.Sprintf("%d", sum.ConductorLayers))
			printKeyValue(out, "Dielectrics", fmt.Sprintf("%d", sum.DielectricLayers))
			printKeyValue(out, "Vias", fmt.Sprintf("%d", sum.ViaCount))
			printKeyValue(out, "Total height", formatFloat(sum.TotalHeight))
			temp := "unset"
			if sum.GlobalTemperature != nil {
				temp = formatFloat(*sum.GlobalTemperature)
			}
			printKeyValue(out, "Temperature", temp)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")

	return cmd
}

// layersCommand creates the layers command.
func (c *CLI) layersCommand() *cobra.Command {
	var (
		flags  sourceFlags
		asJSON bool
		name   string
	)

	cmd := &cobra.Command{
		Use:   "layers <file>",
		Short: "List the layers of an ITF file, bottom first",
		Example: `  itfstack layers tech.itf
  itfstack layers tech.itf --layer M1 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.loadStack(cmd, args[0], flags)
			if err != nil {
				return err
			}
			s := res.Stack
			out := cmd.OutOrStdout()

			if name != "" {
				l, err := findLayer(s, name)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(out, itfio.FromLayer(s, l))
				}
				printLayer(out, s, l)
				return nil
			}

			if asJSON {
				layers := s.Layers()
				docs := make([]itfio.Layer, len(layers))
				for i, l := range layers {
					docs[i] = itfio.FromLayer(s, l)
				}
				return writeJSON(out, docs)
			}
			fmt.Fprintln(out, layerTable(s))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print layers as JSON")
	cmd.Flags().StringVar(&name, "layer", "", "show a single layer")

	return cmd
}

// viasCommand creates the vias command.
func (c *CLI) viasCommand() *cobra.Command {
	var (
		flags  sourceFlags
		asJSON bool
		layer  string
	)

	cmd := &cobra.Command{
		Use:   "vias <file>",
		Short: "List the vias of an ITF file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.loadStack(cmd, args[0], flags)
			if err != nil {
				return err
			}
			s := res.Stack
			out := cmd.OutOrStdout()

			vias := s.Vias()
			if layer != "" {
				if _, err := findLayer(s, layer); err != nil {
					return err
				}
				vias = s.ViasForLayer(layer)
			}

			if asJSON {
				docs := make([]itfio.Via, len(vias))
				for i, v := range vias {
					docs[i] = itfio.FromVia(v)
				}
				return writeJSON(out, docs)
			}
			if len(vias) == 0 {
				printInfo(out, "No vias")
				return nil
			}
			fmt.Fprintln(out, viaTable(vias))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print vias as JSON")
	cmd.Flags().StringVar(&layer, "layer", "", "only vias touching this layer")

	return cmd
}

// pathReport is the JSON shape of a connection path.
type pathReport struct {
	From       string      `json:"from"`
	To         string      `json:"to"`
	Connected  bool        `json:"connected"`
	Vias       []itfio.Via `json:"vias"`
	Resistance float64     `json:"resistance"`
}

// pathCommand creates the path command.
func (c *CLI) pathCommand() *cobra.Command {
	var (
		flags  sourceFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "path <file> <from> <to>",
		Short:   "Find the shortest via chain between two layers",
		Example: `  itfstack path tech.itf poly M2`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.loadStack(cmd, args[0], flags)
			if err != nil {
				return err
			}
			s := res.Stack
			from, to := args[1], args[2]
			for _, name := range []string{from, to} {
				if _, err := findLayer(s, name); err != nil {
					return err
				}
			}

			path, ok := s.ConnectionPath(from, to)
			report := pathReport{From: from, To: to, Connected: ok, Vias: []itfio.Via{}}
			for _, v := range path {
				report.Vias = append(report.Vias, itfio.FromVia(v))
				report.Resistance += v.RPV
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, report)
			}
			if !ok {
				printWarning(out, "%s and %s are not connected", from, to)
				return errors.New(errors.KindNotFound, "no via path from %s to %s", from, to)
			}
			printSuccess(out, "%s", formatPath(from, path))
			printDetail(out, "%d vias · series resistance %s", len(path), formatFloat(report.Resistance))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the path as JSON")

	return cmd
}

// findLayer looks up a user-supplied layer name.
func findLayer(s *stack.Stack, name string) (stack.Layer, error) {
	if err := errors.ValidateName(name); err != nil {
		return nil, err
	}
	l, ok := s.FindLayer(name)
	if !ok {
		return nil, errors.New(errors.KindNotFound, "no layer named %q", name)
	}
	return l, nil
}

// formatPath renders "poly -[CONT]-> M1 -[VIA1]-> M2".
func formatPath(from string, path []*stack.Via) string {
	var b strings.Builder
	b.WriteString(StyleHighlight.Render(from))
	cur := from
	for _, v := range path {
		cur = v.Other(cur)
		b.WriteString(StyleDim.Render(" -[" + v.Name + "]" + iconArrow + " "))
		b.WriteString(StyleHighlight.Render(cur))
	}
	return b.String()
}

// printLayer prints every field of one layer.
func printLayer(w io.Writer, s *stack.Stack, l stack.Layer) {
	b := l.Base()
	span, _ := s.Span(b.Name)
	fmt.Fprintln(w, kindStyle(l.Kind()).Bold(true).Render(b.Name)+" "+StyleDim.Render(string(l.Kind())))
	for _, kv := range layerFields(l, span) {
		printKeyValue(w, kv[0], kv[1])
	}
	if vias := s.ViasForLayer(b.Name); len(vias) > 0 {
		names := make([]string, len(vias))
		for i, v := range vias {
			names[i] = v.Name + " " + iconArrow + " " + v.Other(b.Name)
		}
		printKeyValue(w, "Vias", strings.Join(names, ", "))
	}
}

// layerFields lists the set fields of l as label/value pairs.
func layerFields(l stack.Layer, span stack.Span) [][2]string {
	b := l.Base()
	fields := [][2]string{
		{"Thickness", formatFloat(b.Thickness)},
		{"Z", formatFloat(span.Bottom) + " .. " + formatFloat(span.Top)},
	}
	if b.Pos.IsValid() {
		fields = append(fields, [2]string{"Declared", "line " + fmt.Sprint(b.Pos.Line)})
	}
	opt := func(label string, v *float64) {
		if v != nil {
			fields = append(fields, [2]string{label, formatFloat(*v)})
		}
	}

	switch l := l.(type) {
	case *stack.Conductor:
		opt("RPSQ", l.RPSQ)
		opt("CRT1", l.CRT1)
		opt("CRT2", l.CRT2)
		opt("WMIN", l.WMin)
		opt("SMIN", l.SMin)
		opt("Side tangent", l.SideTangent)
		for _, t := range l.Tables() {
			fields = append(fields, [2]string{"Table", fmt.Sprintf("%s %dx%d", t.Name, len(t.Widths), len(t.Spacings))})
		}
		if t := l.CRTVsSiWidth; t != nil {
			fields = append(fields, [2]string{"Table", fmt.Sprintf("CRT_VS_SI_WIDTH %d rows", t.Len())})
		}
		if l.ThicknessVariation != nil {
			fields = append(fields, [2]string{"Table", "POLYNOMIAL_BASED_THICKNESS_VARIATION"})
		}
	case *stack.Dielectric:
		fields = append(fields, [2]string{"ER", formatFloat(l.ER)})
		opt("CRT1", l.CRT1)
		if l.MeasuredFrom != "" {
			fields = append(fields, [2]string{"Measured from", l.MeasuredFrom})
		}
		opt("SW_T", l.SWT)
		opt("TW_T", l.TWT)
	}
	return fields
}
