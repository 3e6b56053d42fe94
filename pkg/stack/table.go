package stack

import (
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/itfstack/pkg/errors"
)

// LookupTable is a dense matrix of coefficients indexed by two breakpoint
// axes. The first axis (Widths) selects the column and the second axis
// (Spacings, or thicknesses for RHO_VS_SI_WIDTH_AND_THICKNESS) selects the
// row: Values[i][j] belongs to Spacings[i] and Widths[j].
type LookupTable struct {
	Name      string   // Declared table name, e.g. RHO_VS_WIDTH_AND_SPACING
	Modifiers []string // Words between the name and the opening brace
	XAxis     string   // Section name of the first axis, e.g. WIDTHS
	YAxis     string   // Section name of the second axis, e.g. SPACINGS
	Widths    []float64
	Spacings  []float64
	Values    [][]float64
	Pos       errors.Position
}

// HasModifier reports whether m was given after the table name.
func (t *LookupTable) HasModifier(m string) bool {
	return slices.Contains(t.Modifiers, m)
}

// At returns the value at row i (second axis) and column j (first axis).
func (t *LookupTable) At(i, j int) float64 {
	return t.Values[i][j]
}

// Lookup interpolates bilinearly at (w, s). Coordinates outside the
// breakpoint range are clamped to the nearest edge. It returns false for an
// empty table.
func (t *LookupTable) Lookup(w, s float64) (float64, bool) {
	if len(t.Widths) == 0 || len(t.Spacings) == 0 || len(t.Values) == 0 {
		return 0, false
	}
	j0, j1, tw := bracket(t.Widths, w)
	i0, i1, ts := bracket(t.Spacings, s)
	if i1 >= len(t.Values) || j1 >= len(t.Values[i0]) || j1 >= len(t.Values[i1]) {
		return 0, false
	}

	v00, v01 := t.Values[i0][j0], t.Values[i0][j1]
	v10, v11 := t.Values[i1][j0], t.Values[i1][j1]
	lo := v00 + tw*(v01-v00)
	hi := v10 + tw*(v11-v10)
	return lo + ts*(hi-lo), true
}

// shapeProblems lists every way t's matrix disagrees with its breakpoints.
func (t *LookupTable) shapeProblems() []string {
	var out []string
	if len(t.Widths) == 0 {
		out = append(out, fmt.Sprintf("%s has no breakpoints", t.XAxis))
	}
	if len(t.Spacings) == 0 {
		out = append(out, fmt.Sprintf("%s has no breakpoints", t.YAxis))
	}
	if p := ordering(t.XAxis, t.Widths); p != "" {
		out = append(out, p)
	}
	if p := ordering(t.YAxis, t.Spacings); p != "" {
		out = append(out, p)
	}
	if len(t.Values) != len(t.Spacings) {
		out = append(out, fmt.Sprintf("VALUES has %d rows, want %d (one per %s breakpoint)",
			len(t.Values), len(t.Spacings), t.YAxis))
	}
	for i, row := range t.Values {
		if len(row) != len(t.Widths) {
			out = append(out, fmt.Sprintf("VALUES row %d has %d entries, want %d (one per %s breakpoint)",
				i+1, len(row), len(t.Widths), t.XAxis))
		}
	}
	return out
}

// CRTTable holds CRT_VS_SI_WIDTH: temperature coefficients per silicon width.
type CRTTable struct {
	Widths []float64
	CRT1   []float64
	CRT2   []float64
	Pos    errors.Position
}

// Len returns the number of entries.
func (t *CRTTable) Len() int { return len(t.Widths) }

// Lookup interpolates CRT1 and CRT2 linearly at width, clamping to the first
// and last entries.
func (t *CRTTable) Lookup(width float64) (crt1, crt2 float64, ok bool) {
	if len(t.Widths) == 0 || len(t.CRT1) != len(t.Widths) || len(t.CRT2) != len(t.Widths) {
		return 0, 0, false
	}
	i0, i1, f := bracket(t.Widths, width)
	crt1 = t.CRT1[i0] + f*(t.CRT1[i1]-t.CRT1[i0])
	crt2 = t.CRT2[i0] + f*(t.CRT2[i1]-t.CRT2[i0])
	return crt1, crt2, true
}

func (t *CRTTable) shapeProblems() []string {
	var out []string
	if len(t.Widths) == 0 {
		out = append(out, "table has no entries")
	}
	if len(t.CRT1) != len(t.Widths) || len(t.CRT2) != len(t.Widths) {
		out = append(out, fmt.Sprintf("entry columns differ in length (%d widths, %d CRT1, %d CRT2)",
			len(t.Widths), len(t.CRT1), len(t.CRT2)))
	}
	if p := ordering("widths", t.Widths); p != "" {
		out = append(out, p)
	}
	return out
}

// ThicknessVariation is POLYNOMIAL_BASED_THICKNESS_VARIATION: one polynomial
// in density and width per width range.
type ThicknessVariation struct {
	DensityOrders []int
	WidthOrders   []int
	WidthRanges   []float64   // Upper bound of each range
	Coefficients  [][]float64 // One row per range, len(DensityOrders)*len(WidthOrders) terms
	Pos           errors.Position
}

// Evaluate returns the thickness variation for the given pattern density and
// width. Terms are ordered density-major: for each density order, every
// width order. Widths beyond the last range use the row after it when one
// exists and evaluate to 0 otherwise.
func (v *ThicknessVariation) Evaluate(density, width float64) float64 {
	r := v.rangeIndex(width)
	if r >= len(v.Coefficients) {
		return 0
	}
	coeffs := v.Coefficients[r]
	var sum float64
	k := 0
	for _, d := range v.DensityOrders {
		for _, w := range v.WidthOrders {
			if k >= len(coeffs) {
				return sum
			}
			sum += coeffs[k] * math.Pow(density, float64(d)) * math.Pow(width, float64(w))
			k++
		}
	}
	return sum
}

func (v *ThicknessVariation) rangeIndex(width float64) int {
	for i, limit := range v.WidthRanges {
		if width <= limit {
			return i
		}
	}
	return len(v.WidthRanges)
}

func (v *ThicknessVariation) shapeProblems() []string {
	var out []string
	terms := len(v.DensityOrders) * len(v.WidthOrders)
	if terms == 0 {
		out = append(out, "polynomial has no orders")
	}
	if p := ordering("WIDTH_RANGES", v.WidthRanges); p != "" {
		out = append(out, p)
	}
	if n := len(v.Coefficients); n != len(v.WidthRanges) && n != len(v.WidthRanges)+1 {
		out = append(out, fmt.Sprintf("POLYNOMIAL_COEFFICIENTS has %d rows, want %d or %d (one per width range)",
			n, len(v.WidthRanges), len(v.WidthRanges)+1))
	}
	for i, row := range v.Coefficients {
		if len(row) != terms {
			out = append(out, fmt.Sprintf("POLYNOMIAL_COEFFICIENTS row %d has %d terms, want %d",
				i+1, len(row), terms))
		}
	}
	for _, o := range slices.Concat(v.DensityOrders, v.WidthOrders) {
		if o < 0 {
			out = append(out, fmt.Sprintf("negative polynomial order %d", o))
			break
		}
	}
	return out
}

// bracket finds the interval of axis containing v. It returns the two
// indices and the fraction of the way from the first to the second.
// Values outside the axis clamp to the end points with a fraction of 0.
func bracket(axis []float64, v float64) (int, int, float64) {
	n := len(axis)
	if v <= axis[0] {
		return 0, 0, 0
	}
	if v >= axis[n-1] {
		return n - 1, n - 1, 0
	}
	for i := 0; i < n-1; i++ {
		if v >= axis[i] && v <= axis[i+1] {
			if axis[i+1] == axis[i] {
				return i, i + 1, 0
			}
			return i, i + 1, (v - axis[i]) / (axis[i+1] - axis[i])
		}
	}
	return n - 1, n - 1, 0
}

// ordering describes a breakpoint axis that is not strictly increasing.
func ordering(axis string, xs []float64) string {
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return fmt.Sprintf("%s breakpoints are not strictly increasing at position %d (%g after %g)",
				axis, i+1, xs[i], xs[i-1])
		}
	}
	return ""
}
