package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/itfstack/pkg/errors"
	"github.com/matzehuels/itfstack/pkg/stack"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
	colorMetal  = lipgloss.Color("179") // Copper - conductors
	colorOxide  = lipgloss.Color("111") // Pale blue - dielectrics
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleError for problem kinds.
	StyleError = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleBorder   = lipgloss.NewStyle().Foreground(colorDim)
	styleLocation = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)

	styleConductor  = lipgloss.NewStyle().Foreground(colorMetal)
	styleDielectric = lipgloss.NewStyle().Foreground(colorOxide)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

// printError prints an error message.
func printError(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+msg)
}

// printWarning prints a warning message.
func printWarning(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+msg)
}

// printDetail prints a detail line (indented).
func printDetail(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, "  "+StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(14)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints stack statistics on a single line.
func printStats(w io.Writer, layers, vias int, cached bool) {
	parts := []string{
		fmt.Sprintf("%d layers", layers),
		fmt.Sprintf("%d vias", vias),
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	line += StyleDim.Render(" · ") + statusStyle.Render(status)
	fmt.Fprintln(w, line)
}

// =============================================================================
// Diagnostics
// =============================================================================

// printDiagnostics prints one line per problem in compiler style,
// "source:line:col: Kind: message", followed by related locations.
func printDiagnostics(w io.Writer, source string, list errors.List) {
	for _, e := range list {
		loc := source
		if e.Pos.IsValid() {
			loc += ":" + e.Pos.String()
		}
		fmt.Fprintf(w, "%s %s %s\n",
			styleLocation.Render(loc+":"),
			StyleError.Render(string(e.Kind)+":"),
			e.Message)
		for _, r := range e.Related {
			printDetail(w, "see %s:%s", source, r.String())
		}
		if e.Cause != nil {
			printDetail(w, "%v", e.Cause)
		}
	}
}

// problemCounts renders "3 problems (2 SyntaxError, 1 TypeMismatch)".
func problemCounts(list errors.List) string {
	var kinds []errors.Kind
	counts := make(map[errors.Kind]int)
	for _, e := range list {
		if counts[e.Kind] == 0 {
			kinds = append(kinds, e.Kind)
		}
		counts[e.Kind]++
	}
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = fmt.Sprintf("%d %s", counts[k], k)
	}
	noun := "problems"
	if len(list) == 1 {
		noun = "problem"
	}
	return fmt.Sprintf("%d %s (%s)", len(list), noun, strings.Join(parts, ", "))
}

// =============================================================================
// Tables
// =============================================================================

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers(headers...)
}

// layerTable renders every layer with its z extent, bottom first.
func layerTable(s *stack.Stack) string {
	layers := s.Layers()
	rows := make([][]string, 0, len(layers))
	for i, l := range layers {
		b := l.Base()
		span, _ := s.Span(b.Name)
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			b.Name,
			string(l.Kind()),
			formatFloat(b.Thickness),
			formatFloat(span.Bottom),
			formatFloat(span.Top),
			layerDetail(l),
		})
	}

	return newTable("#", "Layer", "Kind", "Thickness", "Bottom", "Top", "Detail").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if col == 0 {
				return StyleDim
			}
			if col == 2 && row < len(layers) {
				return kindStyle(layers[row].Kind())
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// viaTable renders vias with their endpoints.
func viaTable(vias []*stack.Via) string {
	rows := make([][]string, 0, len(vias))
	for _, v := range vias {
		rows = append(rows, []string{
			v.Name,
			v.From,
			v.To,
			formatFloat(v.Area),
			formatFloat(v.RPV),
		})
	}

	return newTable("Via", "From", "To", "Area", "RPV").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func kindStyle(k stack.LayerKind) lipgloss.Style {
	if k == stack.KindConductor {
		return styleConductor
	}
	return styleDielectric
}

// layerDetail returns the headline electrical parameter of l.
func layerDetail(l stack.Layer) string {
	switch l := l.(type) {
	case *stack.Conductor:
		var parts []string
		if l.RPSQ != nil {
			parts = append(parts, "rpsq "+formatFloat(*l.RPSQ))
		}
		if n := len(l.Tables()); n > 0 {
			parts = append(parts, fmt.Sprintf("%d tables", n))
		}
		return strings.Join(parts, ", ")
	case *stack.Dielectric:
		d := "er " + formatFloat(l.ER)
		if l.MeasuredFrom != "" {
			d += ", from " + l.MeasuredFrom
		}
		return d
	}
	return ""
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
