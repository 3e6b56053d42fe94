package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/matzehuels/itfstack/pkg/errors"
	"github.com/matzehuels/itfstack/pkg/stack"
)

// FromStack converts s to its JSON document form.
func FromStack(s *stack.Stack) Document {
	t := s.Technology()
	doc := Document{
		Version: SchemaVersion,
		Technology: Technology{
			Name:                     t.Name,
			GlobalTemperature:        t.GlobalTemperature,
			ReferenceDirection:       string(t.ReferenceDirection),
			BackgroundER:             t.BackgroundER,
			HalfNodeScaleFactor:      t.HalfNodeScaleFactor,
			UseSiDensity:             t.UseSiDensity,
			DropFactorLateralSpacing: t.DropFactorLateralSpacing,
			Extra:                    t.Extra,
		},
		Layers: make([]Layer, 0, len(s.Layers())),
		Vias:   make([]Via, 0, len(s.Vias())),
	}
	for _, l := range s.Layers() {
		doc.Layers = append(doc.Layers, FromLayer(s, l))
	}
	for _, v := range s.Vias() {
		doc.Vias = append(doc.Vias, FromVia(v))
	}
	return doc
}

// FromLayer converts l, which must belong to s, to its JSON form.
func FromLayer(s *stack.Stack, l stack.Layer) Layer {
	b := l.Base()
	out := Layer{
		Name:      b.Name,
		Kind:      string(l.Kind()),
		Thickness: b.Thickness,
		Pos:       position(b.Pos),
	}
	if span, ok := s.Span(b.Name); ok {
		out.Bottom, out.Top = span.Bottom, span.Top
	}

	switch l := l.(type) {
	case *stack.Conductor:
		out.RPSQ = l.RPSQ
		out.CRT1 = l.CRT1
		out.CRT2 = l.CRT2
		out.WMin = l.WMin
		out.SMin = l.SMin
		out.SideTangent = l.SideTangent
		out.RhoVsWidthSpacing = fromTable(l.RhoVsWidthSpacing)
		out.RhoVsSiWidthThickness = fromTable(l.RhoVsSiWidthThickness)
		out.EtchVsWidthSpacing = fromTable(l.EtchVsWidthSpacing)
		out.ThicknessVsWidthSpacing = fromTable(l.ThicknessVsWidthSpacing)
		if c := l.CRTVsSiWidth; c != nil {
			out.CRTVsSiWidth = &CRTTable{Widths: c.Widths, CRT1: c.CRT1, CRT2: c.CRT2, Pos: position(c.Pos)}
		}
		if v := l.ThicknessVariation; v != nil {
			out.ThicknessVariation = &ThicknessVariation{
				DensityOrders: v.DensityOrders,
				WidthOrders:   v.WidthOrders,
				WidthRanges:   v.WidthRanges,
				Coefficients:  v.Coefficients,
				Pos:           position(v.Pos),
			}
		}
		out.Extra = l.Extra
	case *stack.Dielectric:
		er := l.ER
		out.ER = &er
		out.CRT1 = l.CRT1
		out.MeasuredFrom = l.MeasuredFrom
		out.SWT = l.SWT
		out.TWT = l.TWT
		out.Extra = l.Extra
	}
	return out
}

// FromVia converts v to its JSON form.
func FromVia(v *stack.Via) Via {
	return Via{
		Name:  v.Name,
		From:  v.From,
		To:    v.To,
		Area:  v.Area,
		RPV:   v.RPV,
		Pos:   position(v.Pos),
		Extra: v.Extra,
	}
}

// FromSummary converts sum to its JSON form.
func FromSummary(sum stack.Summary) Summary {
	return Summary{
		Technology:        sum.TechnologyName,
		TotalLayers:       sum.TotalLayers,
		ConductorLayers:   sum.ConductorLayers,
		DielectricLayers:  sum.DielectricLayers,
		ViaCount:          sum.ViaCount,
		TotalHeight:       sum.TotalHeight,
		GlobalTemperature: sum.GlobalTemperature,
	}
}

// FromErrors converts an error list to problems in the same order.
func FromErrors(list errors.List) []Problem {
	out := make([]Problem, len(list))
	for i, e := range list {
		out[i] = Problem{
			Kind:    string(e.Kind),
			Message: e.Message,
			Line:    e.Line(),
			Column:  e.Column(),
			Related: e.Related,
		}
	}
	return out
}

func fromTable(t *stack.LookupTable) *Table {
	if t == nil {
		return nil
	}
	return &Table{
		Name:      t.Name,
		Modifiers: slices.Clone(t.Modifiers),
		XAxis:     t.XAxis,
		YAxis:     t.YAxis,
		Widths:    t.Widths,
		Spacings:  t.Spacings,
		Values:    t.Values,
		Pos:       position(t.Pos),
	}
}

func position(p errors.Position) *errors.Position {
	if !p.IsValid() {
		return nil
	}
	return &p
}

// WriteJSON encodes a stack as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(s *stack.Stack, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromStack(s)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a stack to a JSON file at path.
func ExportJSON(s *stack.Stack, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(s, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
