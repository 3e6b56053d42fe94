package stack

import (
	"math"

	"github.com/matzehuels/itfstack/pkg/errors"
)

// Via connects two layers. From and To are layer names, resolved against the
// owning [Stack] rather than held as pointers.
type Via struct {
	Name string
	From string
	To   string
	Area float64 // Contact area, > 0
	RPV  float64 // Resistance per via, >= 0
	Pos  errors.Position

	Extra map[string]string
}

// Connects reports whether v links layers a and b in either direction.
func (v *Via) Connects(a, b string) bool {
	return (v.From == a && v.To == b) || (v.From == b && v.To == a)
}

// Touches reports whether layer is one of v's endpoints.
func (v *Via) Touches(layer string) bool {
	return v.From == layer || v.To == layer
}

// Other returns the endpoint of v opposite layer.
func (v *Via) Other(layer string) string {
	if v.From == layer {
		return v.To
	}
	return v.From
}

// Width returns the side of a square contact with v's area.
func (v *Via) Width() float64 { return math.Sqrt(v.Area) }

// Resistance returns the resistance of n vias in parallel.
// It is +Inf for n <= 0.
func (v *Via) Resistance(n int) float64 {
	if n <= 0 {
		return math.Inf(1)
	}
	return v.RPV / float64(n)
}
