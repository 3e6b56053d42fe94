package dot

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/itfstack/pkg/observability"
	"github.com/matzehuels/itfstack/pkg/stack"
)

// Output formats accepted by [Render].
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
	FormatPNG: true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: %s)",
			format, strings.Join(slices.Sorted(maps.Keys(ValidFormats)), ", "))
	}
	return nil
}

// Options configures diagram generation.
type Options struct {
	// Detailed adds physical properties to node and edge labels.
	// When false, only names are shown.
	Detailed bool
}

// ToDOT converts a stack to Graphviz DOT source.
//
// Layers are chained bottom to top with invisible edges so that Graphviz
// keeps the declaration order; vias are drawn as visible, labelled edges.
func ToDOT(s *stack.Stack, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph stack {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=filled, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	fmt.Fprintf(&buf, "  label=%q;\n", s.Technology().Name)
	buf.WriteString("\n")

	layers := s.Layers()
	for _, l := range layers {
		fmt.Fprintf(&buf, "  %q [%s];\n", l.Base().Name, strings.Join(nodeAttrs(s, l, opts.Detailed), ", "))
	}

	if len(layers) > 1 {
		buf.WriteString("\n")
		for i := 1; i < len(layers); i++ {
			fmt.Fprintf(&buf, "  %q -> %q [style=invis, weight=10];\n",
				layers[i-1].Base().Name, layers[i].Base().Name)
		}
	}

	vias := s.Vias()
	if len(vias) > 0 {
		buf.WriteString("\n")
		for _, v := range vias {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q, dir=both, color=\"#b03a2e\", constraint=false];\n",
				v.From, v.To, viaLabel(v, opts.Detailed))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(s *stack.Stack, l stack.Layer, detailed bool) []string {
	var attrs []string
	switch l.(type) {
	case *stack.Conductor:
		attrs = append(attrs, "shape=box", "fillcolor=\"#f0c987\"")
	case *stack.Dielectric:
		attrs = append(attrs, "shape=ellipse", "fillcolor=\"#d6eaf8\"")
	}
	return append(attrs, fmt.Sprintf("label=%q", layerLabel(s, l, detailed)))
}

func layerLabel(s *stack.Stack, l stack.Layer, detailed bool) string {
	b := l.Base()
	if !detailed {
		return b.Name
	}
	parts := []string{b.Name, fmt.Sprintf("t = %g", b.Thickness)}
	if span, ok := s.Span(b.Name); ok {
		parts = append(parts, fmt.Sprintf("z = %g..%g", span.Bottom, span.Top))
	}
	if d, ok := l.(*stack.Dielectric); ok {
		parts = append(parts, fmt.Sprintf("er = %g", d.ER))
	}
	return strings.Join(parts, "\n")
}

func viaLabel(v *stack.Via, detailed bool) string {
	if !detailed {
		return v.Name
	}
	return fmt.Sprintf("%s\narea %g, rpv %g", v.Name, v.Area, v.RPV)
}

// Render lays out DOT source with Graphviz and returns the output bytes.
// FormatDOT returns src unchanged.
func Render(ctx context.Context, src, format string) (out []byte, err error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, format, time.Since(start), err) }()

	if format == FormatDOT {
		return []byte(src), nil
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var gf graphviz.Format = graphviz.SVG
	if format == FormatPNG {
		gf = graphviz.PNG
	}
	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gf, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
