// Package stack holds the validated, read-only model of an ITF process stack.
//
// # Overview
//
// An ITF document describes the physical stack-up of a semiconductor
// interconnect process: an ordered sequence of dielectric and conductor
// layers, the vias that connect them, and the width/spacing dependent
// lookup tables that capture etch and process variation.
//
// A [Stack] is never built directly. The ITF builder (package itf) fills a
// [Draft], and [Validate] turns the draft into a Stack after checking the
// cross-entity invariants:
//
//   - Layer names are unique.
//   - Every via endpoint names an existing layer.
//   - Thicknesses are non-negative and lookup table matrices match their
//     breakpoint counts.
//   - Layers keep their declaration order.
//
// A Stack that passed [Validate] is treated as immutable. Accessors return
// copies of the internal slices; the layer and via values they point to
// must not be modified.
//
// # Layers
//
// [Layer] is a closed sum type over [*Conductor] and [*Dielectric].
// Consumers are expected to switch exhaustively:
//
//	switch l := layer.(type) {
//	case *stack.Conductor:
//	    fmt.Println(l.Name, l.RPSQ)
//	case *stack.Dielectric:
//	    fmt.Println(l.Name, l.ER)
//	}
//
// # Geometry
//
// Layers are stacked in declaration order starting at z = 0: the bottom of
// each layer is the sum of the thicknesses declared before it. [Stack.Span]
// and [Stack.ViaSpan] report those coordinates, and [Stack.Summary]
// aggregates them.
//
// # Concurrency
//
// A validated Stack is safe for concurrent readers. A Draft is not safe
// for concurrent use.
package stack
