package io

import (
	"github.com/matzehuels/itfstack/pkg/errors"
)

// SchemaVersion is written to every exported document. [ReadJSON] rejects
// other versions.
const SchemaVersion = 1

// Document is the JSON form of a validated stack.
type Document struct {
	Version    int        `json:"version"`
	Technology Technology `json:"technology"`
	Layers     []Layer    `json:"layers"`
	Vias       []Via      `json:"vias"`
}

// Technology is the JSON form of [stack.Technology].
type Technology struct {
	Name                     string            `json:"name"`
	GlobalTemperature        *float64          `json:"global_temperature,omitempty"`
	ReferenceDirection       string            `json:"reference_direction,omitempty"`
	BackgroundER             *float64          `json:"background_er,omitempty"`
	HalfNodeScaleFactor      *float64          `json:"half_node_scale_factor,omitempty"`
	UseSiDensity             *bool             `json:"use_si_density,omitempty"`
	DropFactorLateralSpacing *float64          `json:"drop_factor_lateral_spacing,omitempty"`
	Extra                    map[string]string `json:"extra,omitempty"`
}

// Layer is the JSON form of a conductor or dielectric. Kind selects which
// of the optional fields apply. Bottom and Top are derived on export and
// ignored on import.
type Layer struct {
	Name      string           `json:"name"`
	Kind      string           `json:"kind"`
	Thickness float64          `json:"thickness"`
	Bottom    float64          `json:"bottom"`
	Top       float64          `json:"top"`
	Pos       *errors.Position `json:"pos,omitempty"`

	// Conductor
	RPSQ                    *float64            `json:"rpsq,omitempty"`
	CRT1                    *float64            `json:"crt1,omitempty"`
	CRT2                    *float64            `json:"crt2,omitempty"`
	WMin                    *float64            `json:"wmin,omitempty"`
	SMin                    *float64            `json:"smin,omitempty"`
	SideTangent             *float64            `json:"side_tangent,omitempty"`
	RhoVsWidthSpacing       *Table              `json:"rho_vs_width_and_spacing,omitempty"`
	RhoVsSiWidthThickness   *Table              `json:"rho_vs_si_width_and_thickness,omitempty"`
	EtchVsWidthSpacing      *Table              `json:"etch_vs_width_and_spacing,omitempty"`
	ThicknessVsWidthSpacing *Table              `json:"thickness_vs_width_and_spacing,omitempty"`
	CRTVsSiWidth            *CRTTable           `json:"crt_vs_si_width,omitempty"`
	ThicknessVariation      *ThicknessVariation `json:"thickness_variation,omitempty"`

	// Dielectric
	ER           *float64 `json:"er,omitempty"`
	MeasuredFrom string   `json:"measured_from,omitempty"`
	SWT          *float64 `json:"sw_t,omitempty"`
	TWT          *float64 `json:"tw_t,omitempty"`

	Extra map[string]string `json:"extra,omitempty"`
}

// Table is the JSON form of [stack.LookupTable].
type Table struct {
	Name      string           `json:"name"`
	Modifiers []string         `json:"modifiers,omitempty"`
	XAxis     string           `json:"x_axis"`
	YAxis     string           `json:"y_axis"`
	Widths    []float64        `json:"widths"`
	Spacings  []float64        `json:"spacings"`
	Values    [][]float64      `json:"values"`
	Pos       *errors.Position `json:"pos,omitempty"`
}

// CRTTable is the JSON form of [stack.CRTTable].
type CRTTable struct {
	Widths []float64        `json:"widths"`
	CRT1   []float64        `json:"crt1"`
	CRT2   []float64        `json:"crt2"`
	Pos    *errors.Position `json:"pos,omitempty"`
}

// ThicknessVariation is the JSON form of [stack.ThicknessVariation].
type ThicknessVariation struct {
	DensityOrders []int            `json:"density_polynomial_orders"`
	WidthOrders   []int            `json:"width_polynomial_orders"`
	WidthRanges   []float64        `json:"width_ranges"`
	Coefficients  [][]float64      `json:"polynomial_coefficients"`
	Pos           *errors.Position `json:"pos,omitempty"`
}

// Via is the JSON form of [stack.Via].
type Via struct {
	Name  string            `json:"name"`
	From  string            `json:"from"`
	To    string            `json:"to"`
	Area  float64           `json:"area"`
	RPV   float64           `json:"rpv"`
	Pos   *errors.Position  `json:"pos,omitempty"`
	Extra map[string]string `json:"extra,omitempty"`
}

// Summary is the JSON form of [stack.Summary].
type Summary struct {
	Technology        string   `json:"technology"`
	TotalLayers       int      `json:"total_layers"`
	ConductorLayers   int      `json:"conductor_layers"`
	DielectricLayers  int      `json:"dielectric_layers"`
	ViaCount          int      `json:"via_count"`
	TotalHeight       float64  `json:"total_height"`
	GlobalTemperature *float64 `json:"global_temperature,omitempty"`
}

// Problem is the JSON form of one [errors.Error].
type Problem struct {
	Kind    string            `json:"kind"`
	Message string            `json:"message"`
	Line    int               `json:"line,omitempty"`
	Column  int               `json:"column,omitempty"`
	Related []errors.Position `json:"related,omitempty"`
}
