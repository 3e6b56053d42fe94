package stack

import (
	"maps"
	"slices"
)

// Copies handed out by a Stack share no memory with it, so a caller writing
// through a returned value cannot break the stack's name index or z offsets.

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneRows[T any](rows [][]T) [][]T {
	if rows == nil {
		return nil
	}
	out := make([][]T, len(rows))
	for i, r := range rows {
		out[i] = slices.Clone(r)
	}
	return out
}

func (t Technology) clone() Technology {
	t.GlobalTemperature = clonePtr(t.GlobalTemperature)
	t.BackgroundER = clonePtr(t.BackgroundER)
	t.HalfNodeScaleFactor = clonePtr(t.HalfNodeScaleFactor)
	t.UseSiDensity = clonePtr(t.UseSiDensity)
	t.DropFactorLateralSpacing = clonePtr(t.DropFactorLateralSpacing)
	t.Extra = maps.Clone(t.Extra)
	return t
}

// Clone returns a deep copy of t.
func (t *LookupTable) Clone() *LookupTable {
	if t == nil {
		return nil
	}
	c := *t
	c.Modifiers = slices.Clone(t.Modifiers)
	c.Widths = slices.Clone(t.Widths)
	c.Spacings = slices.Clone(t.Spacings)
	c.Values = cloneRows(t.Values)
	return &c
}

// Clone returns a deep copy of t.
func (t *CRTTable) Clone() *CRTTable {
	if t == nil {
		return nil
	}
	c := *t
	c.Widths = slices.Clone(t.Widths)
	c.CRT1 = slices.Clone(t.CRT1)
	c.CRT2 = slices.Clone(t.CRT2)
	return &c
}

// Clone returns a deep copy of v.
func (v *ThicknessVariation) Clone() *ThicknessVariation {
	if v == nil {
		return nil
	}
	c := *v
	c.DensityOrders = slices.Clone(v.DensityOrders)
	c.WidthOrders = slices.Clone(v.WidthOrders)
	c.WidthRanges = slices.Clone(v.WidthRanges)
	c.Coefficients = cloneRows(v.Coefficients)
	return &c
}

// Clone returns a deep copy of c.
func (c *Conductor) Clone() *Conductor {
	out := *c
	out.RPSQ = clonePtr(c.RPSQ)
	out.CRT1 = clonePtr(c.CRT1)
	out.CRT2 = clonePtr(c.CRT2)
	out.WMin = clonePtr(c.WMin)
	out.SMin = clonePtr(c.SMin)
	out.SideTangent = clonePtr(c.SideTangent)
	out.RhoVsWidthSpacing = c.RhoVsWidthSpacing.Clone()
	out.RhoVsSiWidthThickness = c.RhoVsSiWidthThickness.Clone()
	out.EtchVsWidthSpacing = c.EtchVsWidthSpacing.Clone()
	out.ThicknessVsWidthSpacing = c.ThicknessVsWidthSpacing.Clone()
	out.CRTVsSiWidth = c.CRTVsSiWidth.Clone()
	out.ThicknessVariation = c.ThicknessVariation.Clone()
	out.Extra = maps.Clone(c.Extra)
	return &out
}

// Clone returns a deep copy of d.
func (d *Dielectric) Clone() *Dielectric {
	out := *d
	out.CRT1 = clonePtr(d.CRT1)
	out.SWT = clonePtr(d.SWT)
	out.TWT = clonePtr(d.TWT)
	out.Extra = maps.Clone(d.Extra)
	return &out
}

// Clone returns a deep copy of v.
func (v *Via) Clone() *Via {
	out := *v
	out.Extra = maps.Clone(v.Extra)
	return &out
}

// cloneLayer deep-copies either layer variant.
func cloneLayer(l Layer) Layer {
	switch l := l.(type) {
	case *Conductor:
		return l.Clone()
	case *Dielectric:
		return l.Clone()
	}
	return l
}

func cloneLayers(layers []Layer) []Layer {
	if layers == nil {
		return nil
	}
	out := make([]Layer, len(layers))
	for i, l := range layers {
		out[i] = cloneLayer(l)
	}
	return out
}

func cloneVias(vias []*Via) []*Via {
	if vias == nil {
		return nil
	}
	out := make([]*Via, len(vias))
	for i, v := range vias {
		out[i] = v.Clone()
	}
	return out
}
