package stack

import (
	"github.com/matzehuels/itfstack/pkg/errors"
)

// Draft is a stack that has been built but not yet validated. The builder
// appends layers and vias in declaration order; [Validate] checks it and
// produces the final [Stack].
//
// The zero value is not usable - use [NewDraft].
type Draft struct {
	Technology Technology
	Layers     []Layer
	Vias       []*Via

	// KeyPos records where each top-level assignment appeared.
	KeyPos map[string]errors.Position

	omitted map[string]bool
}

// NewDraft returns an empty draft with the default technology name.
func NewDraft() *Draft {
	return &Draft{
		Technology: Technology{Name: DefaultTechnologyName},
		KeyPos:     make(map[string]errors.Position),
		omitted:    make(map[string]bool),
	}
}

// AddLayer appends l to the layer sequence.
func (d *Draft) AddLayer(l Layer) { d.Layers = append(d.Layers, l) }

// AddVia appends v to the via set.
func (d *Draft) AddVia(v *Via) { d.Vias = append(d.Vias, v) }

// Omit records that a layer named name was dropped because it could not be
// built. Via references to it are not reported again during validation.
func (d *Draft) Omit(name string) {
	if name != "" {
		d.omitted[name] = true
	}
}

// Omitted reports whether a block named name was dropped.
func (d *Draft) Omitted(name string) bool { return d.omitted[name] }
