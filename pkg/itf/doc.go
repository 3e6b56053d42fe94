// Package itf reads the Interconnect Technology Format.
//
// # Overview
//
// ITF text describes a process stack as top-level assignments followed by
// named blocks:
//
//	TECHNOLOGY = demo
//	GLOBAL_TEMPERATURE = 25.0
//
//	DIELECTRIC ild1 { THICKNESS=1.0 ER=4.2 }
//	CONDUCTOR m1 {
//	    THICKNESS=0.5 RPSQ=0.1
//	    RHO_VS_WIDTH_AND_SPACING {
//	        WIDTHS   { 0.1 0.2 }
//	        SPACINGS { 0.1 0.2 }
//	        VALUES   { 0.11 0.10
//	                   0.10 0.09 }
//	    }
//	}
//	VIA v1 { FROM=ild1 TO=m1 AREA=0.01 RPV=1.0 }
//
// Comments start with '$' and run to the end of the line. Keywords are
// case-insensitive.
//
// # Pipeline
//
// Reading happens in four stages, each usable on its own:
//
//   - [Tokenize] turns text into position-annotated tokens and never fails.
//   - [Parse] builds a generic [Document] of assignments, blocks, tables and
//     rows without knowing what any key means.
//   - [Build] maps the document onto typed layers, vias and lookup tables,
//     producing a [stack.Draft].
//   - [stack.Validate] checks cross-entity invariants and produces the final
//     [stack.Stack].
//
// [ParseFromText] and [ParseFromSource] run all four. No stage stops at the
// first problem; the caller gets every error, each with its line and column:
//
//	s, err := itf.ParseFromText(text)
//	if list, ok := errors.AsList(err); ok {
//	    for _, e := range list {
//	        fmt.Println(e)
//	    }
//	}
//
// # Concurrency
//
// Every function in this package is pure and keeps no state between calls.
// Parsing several documents concurrently needs no synchronisation.
package itf
