package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/itfstack/pkg/errors"
	"github.com/matzehuels/itfstack/pkg/stack"
)

// ToStack rebuilds a stack from doc and validates it, so an imported stack
// satisfies the same invariants as a parsed one. Validation problems are
// returned as an [errors.List].
func (doc Document) ToStack() (*stack.Stack, error) {
	if doc.Version != SchemaVersion {
		return nil, fmt.Errorf("unsupported schema version %d (want %d)", doc.Version, SchemaVersion)
	}

	d := stack.NewDraft()
	t := doc.Technology
	d.Technology = stack.Technology{
		Name:                     t.Name,
		GlobalTemperature:        t.GlobalTemperature,
		BackgroundER:             t.BackgroundER,
		HalfNodeScaleFactor:      t.HalfNodeScaleFactor,
		UseSiDensity:             t.UseSiDensity,
		DropFactorLateralSpacing: t.DropFactorLateralSpacing,
		Extra:                    t.Extra,
	}
	if d.Technology.Name == "" {
		d.Technology.Name = stack.DefaultTechnologyName
	}
	if t.ReferenceDirection != "" {
		dir, ok := stack.ParseReferenceDirection(t.ReferenceDirection)
		if !ok {
			return nil, fmt.Errorf("technology: unknown reference direction %q", t.ReferenceDirection)
		}
		d.Technology.ReferenceDirection = dir
	}

	for _, l := range doc.Layers {
		layer, err := l.toLayer()
		if err != nil {
			return nil, err
		}
		d.AddLayer(layer)
	}
	for _, v := range doc.Vias {
		d.AddVia(&stack.Via{
			Name:  v.Name,
			From:  v.From,
			To:    v.To,
			Area:  v.Area,
			RPV:   v.RPV,
			Pos:   deref(v.Pos),
			Extra: v.Extra,
		})
	}

	s, errs := stack.Validate(d)
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

func (l Layer) toLayer() (stack.Layer, error) {
	base := stack.LayerBase{Name: l.Name, Thickness: l.Thickness, Pos: deref(l.Pos)}
	switch stack.LayerKind(l.Kind) {
	case stack.KindConductor:
		c := &stack.Conductor{
			LayerBase:               base,
			RPSQ:                    l.RPSQ,
			CRT1:                    l.CRT1,
			CRT2:                    l.CRT2,
			WMin:                    l.WMin,
			SMin:                    l.SMin,
			SideTangent:             l.SideTangent,
			RhoVsWidthSpacing:       l.RhoVsWidthSpacing.toTable(),
			RhoVsSiWidthThickness:   l.RhoVsSiWidthThickness.toTable(),
			EtchVsWidthSpacing:      l.EtchVsWidthSpacing.toTable(),
			ThicknessVsWidthSpacing: l.ThicknessVsWidthSpacing.toTable(),
			Extra:                   l.Extra,
		}
		if t := l.CRTVsSiWidth; t != nil {
			c.CRTVsSiWidth = &stack.CRTTable{Widths: t.Widths, CRT1: t.CRT1, CRT2: t.CRT2, Pos: deref(t.Pos)}
		}
		if v := l.ThicknessVariation; v != nil {
			c.ThicknessVariation = &stack.ThicknessVariation{
				DensityOrders: v.DensityOrders,
				WidthOrders:   v.WidthOrders,
				WidthRanges:   v.WidthRanges,
				Coefficients:  v.Coefficients,
				Pos:           deref(v.Pos),
			}
		}
		return c, nil
	case stack.KindDielectric:
		if l.ER == nil {
			return nil, fmt.Errorf("layer %q: dielectric without er", l.Name)
		}
		return &stack.Dielectric{
			LayerBase:    base,
			ER:           *l.ER,
			CRT1:         l.CRT1,
			MeasuredFrom: l.MeasuredFrom,
			SWT:          l.SWT,
			TWT:          l.TWT,
			Extra:        l.Extra,
		}, nil
	}
	return nil, fmt.Errorf("layer %q: unknown kind %q", l.Name, l.Kind)
}

func (t *Table) toTable() *stack.LookupTable {
	if t == nil {
		return nil
	}
	return &stack.LookupTable{
		Name:      t.Name,
		Modifiers: t.Modifiers,
		XAxis:     t.XAxis,
		YAxis:     t.YAxis,
		Widths:    t.Widths,
		Spacings:  t.Spacings,
		Values:    t.Values,
		Pos:       deref(t.Pos),
	}
}

func deref(p *errors.Position) errors.Position {
	if p == nil {
		return errors.Position{}
	}
	return *p
}

// ReadJSON decodes a JSON document from r into a validated stack.
//
// The input must have been produced by [WriteJSON] (or match its shape);
// layer bottom and top coordinates are recomputed rather than trusted.
// ReadJSON returns an error if the JSON is malformed, the schema version
// is unsupported, or the rebuilt stack fails validation. ReadJSON does not
// close r.
func ReadJSON(r io.Reader) (*stack.Stack, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return doc.ToStack()
}

// ImportJSON reads a JSON file at path and returns the decoded stack.
func ImportJSON(path string) (*stack.Stack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
