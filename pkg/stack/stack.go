package stack

import (
	"slices"
)

// Stack is a validated process stack. It can only be obtained from
// [Validate]. Every accessor returns copies, so a Stack never changes
// after validation.
type Stack struct {
	tech   Technology
	layers []Layer
	vias   []*Via

	index  map[string]int   // layer name -> position in layers
	bottom []float64        // z of each layer's bottom face
	byLay  map[string][]int // layer name -> indices into vias
}

// Span is a vertical extent in the stack's z coordinates.
type Span struct {
	Bottom float64
	Top    float64
}

// Height returns Top - Bottom.
func (s Span) Height() float64 { return s.Top - s.Bottom }

func newStack(d *Draft) *Stack {
	s := &Stack{
		tech:   d.Technology.clone(),
		layers: cloneLayers(d.Layers),
		vias:   cloneVias(d.Vias),
		index:  make(map[string]int, len(d.Layers)),
		bottom: make([]float64, len(d.Layers)),
		byLay:  make(map[string][]int),
	}

	var z float64
	for i, l := range s.layers {
		b := l.Base()
		s.index[b.Name] = i
		s.bottom[i] = z
		z += b.Thickness
	}
	for i, v := range s.vias {
		s.byLay[v.From] = append(s.byLay[v.From], i)
		if v.To != v.From {
			s.byLay[v.To] = append(s.byLay[v.To], i)
		}
	}
	return s
}

// Technology returns the top-level parameters.
func (s *Stack) Technology() Technology { return s.tech.clone() }

// Layers returns all layers in declaration order.
func (s *Stack) Layers() []Layer { return cloneLayers(s.layers) }

// Vias returns all vias in declaration order.
func (s *Stack) Vias() []*Via { return cloneVias(s.vias) }

// Conductors returns the conductor layers in declaration order.
func (s *Stack) Conductors() []*Conductor {
	var out []*Conductor
	for _, l := range s.layers {
		if c, ok := l.(*Conductor); ok {
			out = append(out, c.Clone())
		}
	}
	return out
}

// Dielectrics returns the dielectric layers in declaration order.
func (s *Stack) Dielectrics() []*Dielectric {
	var out []*Dielectric
	for _, l := range s.layers {
		if d, ok := l.(*Dielectric); ok {
			out = append(out, d.Clone())
		}
	}
	return out
}

// FindLayer returns the layer named name.
func (s *Stack) FindLayer(name string) (Layer, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return cloneLayer(s.layers[i]), true
}

// LayerIndex returns the declaration index of the layer named name.
func (s *Stack) LayerIndex(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// FindVia returns the first via named name.
func (s *Stack) FindVia(name string) (*Via, bool) {
	for _, v := range s.vias {
		if v.Name == name {
			return v.Clone(), true
		}
	}
	return nil, false
}

// Span returns the vertical extent of the layer named name.
func (s *Stack) Span(name string) (Span, bool) {
	i, ok := s.index[name]
	if !ok {
		return Span{}, false
	}
	b := s.bottom[i]
	return Span{Bottom: b, Top: b + s.layers[i].Base().Thickness}, true
}

// ViaSpan returns the vertical extent of v: from the top of its From layer
// to the bottom of its To layer, ordered so that Bottom <= Top.
func (s *Stack) ViaSpan(v *Via) (Span, bool) {
	from, ok := s.Span(v.From)
	if !ok {
		return Span{}, false
	}
	to, ok := s.Span(v.To)
	if !ok {
		return Span{}, false
	}
	lo, hi := from.Top, to.Bottom
	if lo > hi {
		lo, hi = hi, lo
	}
	return Span{Bottom: lo, Top: hi}, true
}

// LayersInRange returns the layers whose extent overlaps (zMin, zMax).
func (s *Stack) LayersInRange(zMin, zMax float64) []Layer {
	var out []Layer
	for i, l := range s.layers {
		bottom := s.bottom[i]
		top := bottom + l.Base().Thickness
		if bottom < zMax && top > zMin {
			out = append(out, cloneLayer(l))
		}
	}
	return out
}

// TotalHeight returns the sum of all layer thicknesses in declaration order.
func (s *Stack) TotalHeight() float64 {
	var h float64
	for _, l := range s.layers {
		h += l.Base().Thickness
	}
	return h
}

// ViasForLayer returns the vias with an endpoint on the layer named name.
func (s *Stack) ViasForLayer(name string) []*Via {
	return cloneVias(s.viasFor(name))
}

// viasFor returns the stack's own vias touching name.
func (s *Stack) viasFor(name string) []*Via {
	idx := s.byLay[name]
	if len(idx) == 0 {
		return nil
	}
	out := make([]*Via, len(idx))
	for i, j := range idx {
		out[i] = s.vias[j]
	}
	return out
}

// ViaBetween returns the first via that connects a and b.
func (s *Stack) ViaBetween(a, b string) (*Via, bool) {
	for _, v := range s.vias {
		if v.Connects(a, b) {
			return v.Clone(), true
		}
	}
	return nil, false
}

// ConnectionPath returns the shortest chain of vias leading from layer from
// to layer to, treating vias as undirected edges. The path for from == to is
// empty. It returns false when the layers are not connected.
func (s *Stack) ConnectionPath(from, to string) ([]*Via, bool) {
	if from == to {
		return []*Via{}, true
	}

	type step struct {
		via  *Via
		prev string
	}
	visited := map[string]bool{from: true}
	parent := make(map[string]step)
	queue := []string{from}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == to {
			var path []*Via
			for n := to; n != from; n = parent[n].prev {
				path = append(path, parent[n].via)
			}
			slices.Reverse(path)
			return cloneVias(path), true
		}
		for _, v := range s.viasFor(cur) {
			next := v.Other(cur)
			if visited[next] {
				continue
			}
			visited[next] = true
			parent[next] = step{via: v, prev: cur}
			queue = append(queue, next)
		}
	}
	return nil, false
}
