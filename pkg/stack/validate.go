package stack

import (
	"github.com/matzehuels/itfstack/pkg/errors"
)

// Validate checks the cross-entity invariants of d and returns the final
// [Stack]. Checks run in a fixed order and every violation is collected:
//
//  1. Layer name uniqueness (KindDuplicateLayer, one error per extra
//     declaration, with the first declaration in Related).
//  2. Via endpoints (KindDanglingViaReference). Endpoints naming a block
//     the builder omitted are not reported.
//  3. Structure: lookup table shapes and breakpoint order (KindTableShape),
//     negative thickness, non-positive via area, negative RPV or background
//     ER (KindInvalidValue).
//
// When any error is collected, no Stack is returned.
func Validate(d *Draft) (*Stack, errors.List) {
	var c errors.Collector
	checkUniqueNames(d, &c)
	checkViaReferences(d, &c)
	checkStructure(d, &c)

	if c.Len() > 0 {
		return nil, c.List()
	}
	return newStack(d), nil
}

func checkUniqueNames(d *Draft, c *errors.Collector) {
	first := make(map[string]errors.Position, len(d.Layers))
	for _, l := range d.Layers {
		b := l.Base()
		prev, dup := first[b.Name]
		if !dup {
			first[b.Name] = b.Pos
			continue
		}
		e := errors.At(errors.KindDuplicateLayer, b.Pos,
			"layer %q is already declared at %s", b.Name, prev)
		e.Related = []errors.Position{prev}
		c.Add(e)
	}
}

func checkViaReferences(d *Draft, c *errors.Collector) {
	names := make(map[string]bool, len(d.Layers))
	for _, l := range d.Layers {
		names[l.Base().Name] = true
	}
	for _, v := range d.Vias {
		for _, end := range [...]struct{ key, name string }{{"FROM", v.From}, {"TO", v.To}} {
			if names[end.name] || d.Omitted(end.name) {
				continue
			}
			c.Addf(errors.KindDanglingViaReference, v.Pos,
				"via %q %s references unknown layer %q", v.Name, end.key, end.name)
		}
	}
}

func checkStructure(d *Draft, c *errors.Collector) {
	if er := d.Technology.BackgroundER; er != nil && *er < 0 {
		c.Addf(errors.KindInvalidValue, d.KeyPos["BACKGROUND_ER"],
			"BACKGROUND_ER must not be negative, got %g", *er)
	}

	for _, l := range d.Layers {
		b := l.Base()
		if b.Thickness < 0 {
			c.Addf(errors.KindInvalidValue, b.Pos,
				"layer %q has negative THICKNESS %g", b.Name, b.Thickness)
		}

		switch l := l.(type) {
		case *Conductor:
			for _, t := range l.Tables() {
				for _, p := range t.shapeProblems() {
					c.Addf(errors.KindTableShape, t.Pos, "%s on layer %q: %s", t.Name, b.Name, p)
				}
			}
			if t := l.CRTVsSiWidth; t != nil {
				for _, p := range t.shapeProblems() {
					c.Addf(errors.KindTableShape, t.Pos, "CRT_VS_SI_WIDTH on layer %q: %s", b.Name, p)
				}
			}
			if v := l.ThicknessVariation; v != nil {
				for _, p := range v.shapeProblems() {
					c.Addf(errors.KindTableShape, v.Pos,
						"POLYNOMIAL_BASED_THICKNESS_VARIATION on layer %q: %s", b.Name, p)
				}
			}
		case *Dielectric:
			// Dielectrics carry no tables.
		}
	}

	for _, v := range d.Vias {
		if !(v.Area > 0) {
			c.Addf(errors.KindInvalidValue, v.Pos, "via %q AREA must be positive, got %g", v.Name, v.Area)
		}
		if v.RPV < 0 {
			c.Addf(errors.KindInvalidValue, v.Pos, "via %q has negative RPV %g", v.Name, v.RPV)
		}
	}
}
