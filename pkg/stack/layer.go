package stack

import (
	"github.com/matzehuels/itfstack/pkg/errors"
)

// LayerKind names the variant of a [Layer].
type LayerKind string

const (
	KindConductor  LayerKind = "conductor"
	KindDielectric LayerKind = "dielectric"
)

// Layer is a conductor or dielectric layer. The set of implementations is
// closed: only [*Conductor] and [*Dielectric] satisfy it.
type Layer interface {
	// Base returns the fields shared by every layer kind.
	Base() LayerBase
	// Kind reports which variant the layer is.
	Kind() LayerKind

	isLayer()
}

// LayerBase holds the fields common to all layers.
type LayerBase struct {
	Name      string
	Thickness float64
	Pos       errors.Position
}

// Base implements [Layer].
func (b LayerBase) Base() LayerBase { return b }

// Conductor is a metal or poly layer.
type Conductor struct {
	LayerBase

	RPSQ        *float64 // Sheet resistance
	CRT1        *float64 // First-order temperature coefficient
	CRT2        *float64 // Second-order temperature coefficient
	WMin        *float64
	SMin        *float64
	SideTangent *float64

	RhoVsWidthSpacing       *LookupTable
	RhoVsSiWidthThickness   *LookupTable
	EtchVsWidthSpacing      *LookupTable
	ThicknessVsWidthSpacing *LookupTable
	CRTVsSiWidth            *CRTTable
	ThicknessVariation      *ThicknessVariation

	Extra map[string]string
}

func (*Conductor) Kind() LayerKind { return KindConductor }
func (*Conductor) isLayer()        {}

// Tables returns the lookup tables set on c, in a fixed order.
func (c *Conductor) Tables() []*LookupTable {
	var out []*LookupTable
	for _, t := range []*LookupTable{
		c.RhoVsWidthSpacing,
		c.RhoVsSiWidthThickness,
		c.EtchVsWidthSpacing,
		c.ThicknessVsWidthSpacing,
	} {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

// HasResistivity reports whether c defines a sheet resistance, either as a
// scalar RPSQ or through a resistivity table.
func (c *Conductor) HasResistivity() bool {
	return c.RPSQ != nil || c.RhoVsWidthSpacing != nil || c.RhoVsSiWidthThickness != nil
}

// Resistivity returns the sheet resistance for a wire of the given width and
// spacing. RHO_VS_WIDTH_AND_SPACING takes precedence over the scalar RPSQ.
// For RHO_VS_SI_WIDTH_AND_THICKNESS the second axis is the layer thickness.
func (c *Conductor) Resistivity(width, spacing float64) (float64, bool) {
	switch {
	case c.RhoVsWidthSpacing != nil:
		return c.RhoVsWidthSpacing.Lookup(width, spacing)
	case c.RhoVsSiWidthThickness != nil:
		return c.RhoVsSiWidthThickness.Lookup(width, c.Thickness)
	case c.RPSQ != nil:
		return *c.RPSQ, true
	}
	return 0, false
}

// Dielectric is an insulating layer.
type Dielectric struct {
	LayerBase

	ER           float64  // Relative permittivity
	CRT1         *float64 // Temperature coefficient
	MeasuredFrom string   // Reference layer for conformal dielectrics
	SWT          *float64 // Sidewall thickness
	TWT          *float64 // Top-of-wire thickness

	Extra map[string]string
}

func (*Dielectric) Kind() LayerKind { return KindDielectric }
func (*Dielectric) isLayer()        {}
