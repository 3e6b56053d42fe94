package itf

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/itfstack/pkg/errors"
	"github.com/matzehuels/itfstack/pkg/stack"
)

// Top-level keys with a typed meaning. Anything else is kept in
// [stack.Technology.Extra].
const (
	keyTechnology               = "TECHNOLOGY"
	keyGlobalTemperature        = "GLOBAL_TEMPERATURE"
	keyReferenceDirection       = "REFERENCE_DIRECTION"
	keyBackgroundER             = "BACKGROUND_ER"
	keyHalfNodeScaleFactor      = "HALF_NODE_SCALE_FACTOR"
	keyUseSiDensity             = "USE_SI_DENSITY"
	keyDropFactorLateralSpacing = "DROP_FACTOR_LATERAL_SPACING"
)

// Table names recognised on conductors.
const (
	tableRhoVsWidthSpacing       = "RHO_VS_WIDTH_AND_SPACING"
	tableRhoVsSiWidthThickness   = "RHO_VS_SI_WIDTH_AND_THICKNESS"
	tableEtchVsWidthSpacing      = "ETCH_VS_WIDTH_AND_SPACING"
	tableThicknessVsWidthSpacing = "THICKNESS_VS_WIDTH_AND_SPACING"
	tableCRTVsSiWidth            = "CRT_VS_SI_WIDTH"
	tableThicknessVariation      = "POLYNOMIAL_BASED_THICKNESS_VARIATION"
)

// Build converts a parse tree into a draft stack. Every block is built
// independently: a block with a missing required field or a value of the
// wrong type is reported and left out of the draft. The names of layer
// blocks left out are recorded with [stack.Draft.Omit] so that validation
// does not report vias pointing at them as dangling.
//
// Duplicate keys inside one block are not an error; the last one wins.
func Build(doc *Document) (*stack.Draft, errors.List) {
	var c errors.Collector
	d := stack.NewDraft()

	buildTechnology(doc.Assignments, d, &c)

	for _, blk := range doc.Dropped {
		if isLayerKeyword(blk.Keyword) {
			d.Omit(blk.Name)
		}
	}

	for _, blk := range doc.Blocks {
		bb := newBlockBuilder(blk)
		switch blk.Keyword {
		case "CONDUCTOR":
			if l := bb.conductor(); bb.ok() {
				d.AddLayer(l)
			}
		case "DIELECTRIC":
			if l := bb.dielectric(); bb.ok() {
				d.AddLayer(l)
			}
		case "VIA":
			if v := bb.via(); bb.ok() {
				d.AddVia(v)
			}
		}
		if !bb.ok() && isLayerKeyword(blk.Keyword) {
			d.Omit(blk.Name)
		}
		c.Merge(bb.errs.List())
	}

	return d, c.List()
}

// isLayerKeyword reports whether keyword declares a layer. Vias are never
// the target of a reference, so failed via blocks are not omitted.
func isLayerKeyword(keyword string) bool {
	return keyword == "CONDUCTOR" || keyword == "DIELECTRIC"
}

func buildTechnology(as []*Assignment, d *stack.Draft, c *errors.Collector) {
	t := &d.Technology
	for _, a := range as {
		key := strings.ToUpper(a.Key)
		d.KeyPos[key] = a.Pos

		switch key {
		case keyTechnology:
			t.Name = a.Value.Text
		case keyGlobalTemperature:
			setFloat(&t.GlobalTemperature, a, c)
		case keyBackgroundER:
			setFloat(&t.BackgroundER, a, c)
		case keyHalfNodeScaleFactor:
			setFloat(&t.HalfNodeScaleFactor, a, c)
		case keyDropFactorLateralSpacing:
			setFloat(&t.DropFactorLateralSpacing, a, c)
		case keyReferenceDirection:
			dir, ok := stack.ParseReferenceDirection(a.Value.Text)
			if !ok {
				c.Addf(errors.KindTypeMismatch, a.Value.Pos,
					"%s must be VERTICAL or HORIZONTAL, got %q", a.Key, a.Value.Text)
				continue
			}
			t.ReferenceDirection = dir
		case keyUseSiDensity:
			b, ok := parseYesNo(a.Value.Text)
			if !ok {
				c.Addf(errors.KindTypeMismatch, a.Value.Pos,
					"%s must be YES or NO, got %q", a.Key, a.Value.Text)
				continue
			}
			t.UseSiDensity = &b
		default:
			if t.Extra == nil {
				t.Extra = make(map[string]string)
			}
			t.Extra[a.Key] = a.Value.Text
		}
	}
}

func setFloat(dst **float64, a *Assignment, c *errors.Collector) {
	f, err := toFloat(a.Key, a.Value)
	if err != nil {
		c.Add(err)
		return
	}
	*dst = &f
}

func parseYesNo(s string) (bool, bool) {
	switch strings.ToUpper(s) {
	case "YES", "TRUE":
		return true, true
	case "NO", "FALSE":
		return false, true
	}
	return false, false
}

// toFloat converts a numeric value. Only number tokens qualify; an
// identifier or string that happens to look numeric is still a mismatch.
func toFloat(field string, v Value) (float64, *errors.Error) {
	if v.Kind != ValueNumber {
		return 0, errors.At(errors.KindTypeMismatch, v.Pos,
			"%s expects a number, got %s %q", field, v.Kind, v.Text)
	}
	f, err := strconv.ParseFloat(v.Text, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, errors.At(errors.KindTypeMismatch, v.Pos,
			"%s expects a number, got %q", field, v.Text)
	}
	return f, nil
}

func toInt(field string, v Value) (int, *errors.Error) {
	f, e := toFloat(field, v)
	if e != nil {
		return 0, e
	}
	if f != math.Trunc(f) {
		return 0, errors.At(errors.KindTypeMismatch, v.Pos,
			"%s expects an integer, got %q", field, v.Text)
	}
	return int(f), nil
}

// blockBuilder converts one block and collects its errors.
type blockBuilder struct {
	blk     *Block
	keys    map[string]*Assignment
	tables  map[string]*Table
	errs    errors.Collector
	missing int
	used    map[string]bool
}

func newBlockBuilder(blk *Block) *blockBuilder {
	bb := &blockBuilder{
		blk:    blk,
		keys:   make(map[string]*Assignment, len(blk.Assignments)),
		tables: make(map[string]*Table, len(blk.Tables)),
		used:   make(map[string]bool),
	}
	for _, a := range blk.Assignments {
		bb.keys[strings.ToUpper(a.Key)] = a
	}
	for _, t := range blk.Tables {
		bb.tables[strings.ToUpper(t.Name)] = t
	}
	return bb
}

// ok reports whether the block can be added to the draft.
func (bb *blockBuilder) ok() bool { return bb.errs.Len() == 0 && bb.missing == 0 }

// missingField records an absent required field. Blocks that needed parser
// recovery may have lost the field to the skipped input, so nothing is
// reported for them beyond the syntax error already emitted.
func (bb *blockBuilder) missingField(format string, args ...any) {
	bb.missing++
	if bb.blk.Recovered {
		return
	}
	bb.errs.Addf(errors.KindMissingField, bb.blk.Pos,
		"%s %s: missing "+format, append([]any{bb.blk.Keyword, bb.blk.Name}, args...)...)
}

func (bb *blockBuilder) lookup(key string) *Assignment {
	bb.used[key] = true
	return bb.keys[key]
}

func (bb *blockBuilder) required(key string) float64 {
	a := bb.lookup(key)
	if a == nil {
		bb.missingField("required field %s", key)
		return 0
	}
	f, err := toFloat(key, a.Value)
	bb.errs.Add(err)
	return f
}

func (bb *blockBuilder) optional(key string) *float64 {
	a := bb.lookup(key)
	if a == nil {
		return nil
	}
	f, err := toFloat(key, a.Value)
	if err != nil {
		bb.errs.Add(err)
		return nil
	}
	return &f
}

func (bb *blockBuilder) name(key string) string {
	a := bb.lookup(key)
	if a == nil {
		bb.missingField("required field %s", key)
		return ""
	}
	return a.Value.Text
}

// extra returns the assignments that no typed field consumed.
func (bb *blockBuilder) extra() map[string]string {
	var out map[string]string
	for _, a := range bb.blk.Assignments {
		if bb.used[strings.ToUpper(a.Key)] {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[a.Key] = a.Value.Text
	}
	return out
}

func (bb *blockBuilder) base() stack.LayerBase {
	return stack.LayerBase{
		Name:      bb.blk.Name,
		Thickness: bb.required("THICKNESS"),
		Pos:       bb.blk.Pos,
	}
}

func (bb *blockBuilder) conductor() *stack.Conductor {
	c := &stack.Conductor{
		LayerBase:   bb.base(),
		RPSQ:        bb.optional("RPSQ"),
		CRT1:        bb.optional("CRT1"),
		CRT2:        bb.optional("CRT2"),
		WMin:        bb.optional("WMIN"),
		SMin:        bb.optional("SMIN"),
		SideTangent: bb.optional("SIDE_TANGENT"),
	}

	c.RhoVsWidthSpacing = bb.lookupTable(tableRhoVsWidthSpacing, "WIDTHS", "SPACINGS")
	c.RhoVsSiWidthThickness = bb.lookupTable(tableRhoVsSiWidthThickness, "WIDTH", "THICKNESS")
	c.EtchVsWidthSpacing = bb.lookupTable(tableEtchVsWidthSpacing, "WIDTHS", "SPACINGS")
	c.ThicknessVsWidthSpacing = bb.lookupTable(tableThicknessVsWidthSpacing, "WIDTHS", "SPACINGS")
	c.CRTVsSiWidth = bb.crtTable()
	c.ThicknessVariation = bb.thicknessVariation()

	if _, rpsq := bb.keys["RPSQ"]; !rpsq && c.RhoVsWidthSpacing == nil && c.RhoVsSiWidthThickness == nil &&
		bb.tables[tableRhoVsWidthSpacing] == nil && bb.tables[tableRhoVsSiWidthThickness] == nil {
		bb.missingField("RPSQ (or a %s table)", tableRhoVsWidthSpacing)
	}

	c.Extra = bb.extra()
	return c
}

func (bb *blockBuilder) dielectric() *stack.Dielectric {
	d := &stack.Dielectric{
		LayerBase: bb.base(),
		ER:        bb.required("ER"),
		CRT1:      bb.optional("CRT1"),
		SWT:       bb.optional("SW_T"),
		TWT:       bb.optional("TW_T"),
	}
	if a := bb.lookup("MEASURED_FROM"); a != nil {
		d.MeasuredFrom = a.Value.Text
	}
	d.Extra = bb.extra()
	return d
}

func (bb *blockBuilder) via() *stack.Via {
	v := &stack.Via{
		Name: bb.blk.Name,
		From: bb.name("FROM"),
		To:   bb.name("TO"),
		Area: bb.required("AREA"),
		RPV:  bb.required("RPV"),
		Pos:  bb.blk.Pos,
	}
	v.Extra = bb.extra()
	return v
}

// section returns the named section of t, reporting it as missing when absent.
func (bb *blockBuilder) section(t *Table, name string) *Section {
	s := t.Section(name)
	if s == nil {
		bb.missingField("section %s in table %s", name, t.Name)
	}
	return s
}

func (bb *blockBuilder) floats(field string, vs []Value) []float64 {
	out := make([]float64, 0, len(vs))
	for _, v := range vs {
		f, err := toFloat(field, v)
		if err != nil {
			bb.errs.Add(err)
			continue
		}
		out = append(out, f)
	}
	return out
}

func (bb *blockBuilder) ints(field string, vs []Value) []int {
	out := make([]int, 0, len(vs))
	for _, v := range vs {
		n, err := toInt(field, v)
		if err != nil {
			bb.errs.Add(err)
			continue
		}
		out = append(out, n)
	}
	return out
}

func (bb *blockBuilder) matrix(field string, rows [][]Value) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = bb.floats(field, r)
	}
	return out
}

func (bb *blockBuilder) lookupTable(name, xAxis, yAxis string) *stack.LookupTable {
	t := bb.tables[name]
	if t == nil {
		return nil
	}
	xs, ys, vals := bb.section(t, xAxis), bb.section(t, yAxis), bb.section(t, "VALUES")
	if xs == nil || ys == nil || vals == nil {
		return nil
	}
	return &stack.LookupTable{
		Name:      name,
		Modifiers: t.Modifiers,
		XAxis:     xAxis,
		YAxis:     yAxis,
		Widths:    bb.floats(name+" "+xAxis, xs.Values()),
		Spacings:  bb.floats(name+" "+yAxis, ys.Values()),
		Values:    bb.matrix(name+" VALUES", vals.Rows),
		Pos:       t.Pos,
	}
}

// crtTable reads CRT_VS_SI_WIDTH, whose rows are (width, crt1, crt2) tuples.
func (bb *blockBuilder) crtTable() *stack.CRTTable {
	t := bb.tables[tableCRTVsSiWidth]
	if t == nil {
		return nil
	}
	out := &stack.CRTTable{Pos: t.Pos}
	for _, s := range t.Sections {
		for _, row := range s.Rows {
			if len(row) != 3 {
				pos := s.Pos
				if len(row) > 0 {
					pos = row[0].Pos
				}
				bb.errs.Addf(errors.KindTableShape, pos,
					"%s entries must be (width, crt1, crt2), got %d values", tableCRTVsSiWidth, len(row))
				continue
			}
			vals := bb.floats(tableCRTVsSiWidth, row)
			if len(vals) != 3 {
				continue
			}
			out.Widths = append(out.Widths, vals[0])
			out.CRT1 = append(out.CRT1, vals[1])
			out.CRT2 = append(out.CRT2, vals[2])
		}
	}
	return out
}

func (bb *blockBuilder) thicknessVariation() *stack.ThicknessVariation {
	t := bb.tables[tableThicknessVariation]
	if t == nil {
		return nil
	}
	dOrd := bb.section(t, "DENSITY_POLYNOMIAL_ORDERS")
	wOrd := bb.section(t, "WIDTH_POLYNOMIAL_ORDERS")
	ranges := bb.section(t, "WIDTH_RANGES")
	coeffs := bb.section(t, "POLYNOMIAL_COEFFICIENTS")
	if dOrd == nil || wOrd == nil || ranges == nil || coeffs == nil {
		return nil
	}
	return &stack.ThicknessVariation{
		DensityOrders: bb.ints("DENSITY_POLYNOMIAL_ORDERS", dOrd.Values()),
		WidthOrders:   bb.ints("WIDTH_POLYNOMIAL_ORDERS", wOrd.Values()),
		WidthRanges:   bb.floats("WIDTH_RANGES", ranges.Values()),
		Coefficients:  bb.matrix("POLYNOMIAL_COEFFICIENTS", coeffs.Rows),
		Pos:           t.Pos,
	}
}
