// Package pkg provides the libraries behind itfstack, a reader for
// Interconnect Technology Format (ITF) process stacks.
//
// # Overview
//
// An ITF file describes the vertical cross-section of a semiconductor
// interconnect: dielectric and conductor layers from the substrate up, and
// the vias that join conductors. The pkg directory is organized into three
// areas:
//
//  1. Core - text to validated model ([itf], [stack], [errors])
//  2. Collaborators - caching, orchestration, storage ([cache], [pipeline], [store])
//  3. Output - serialization and diagrams ([io], [render/dot])
//
// # Architecture
//
// The data flow through itfstack:
//
//	ITF source text
//	       ↓
//	  [itf] lexer → parser → builder (syntax tree to Draft)
//	       ↓
//	  [stack] validator (Draft to immutable Stack)
//	       ↓
//	  Stack queries, Summary, [io] JSON, [render/dot] graphs
//
// Every stage records problems in an [errors.List] instead of stopping, so
// one pass reports all of them with line and column.
//
// # Quick Start
//
//	s, errs := itf.Check(text)
//	if len(errs) > 0 {
//	    for _, e := range errs {
//	        fmt.Println(e)
//	    }
//	    return
//	}
//	sum := s.Summary()
//	fmt.Printf("%s: %d layers, %.3f um\n", sum.TechnologyName, sum.TotalLayers, sum.TotalHeight)
//
//	path, ok := s.ConnectionPath("poly", "M2")
//
// Parse files through the cache:
//
//	runner := pipeline.NewRunner(fileCache, logger)
//	res, err := runner.ParseFile(ctx, "tech.itf", pipeline.Options{})
//
// # Testing
//
//	go test ./pkg/...
//
// [itf]: https://pkg.go.dev/github.com/matzehuels/itfstack/pkg/itf
// [stack]: https://pkg.go.dev/github.com/matzehuels/itfstack/pkg/stack
// [errors]: https://pkg.go.dev/github.com/matzehuels/itfstack/pkg/errors
// [errors.List]: https://pkg.go.dev/github.com/matzehuels/itfstack/pkg/errors#List
// [cache]: https://pkg.go.dev/github.com/matzehuels/itfstack/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/itfstack/pkg/pipeline
// [store]: https://pkg.go.dev/github.com/matzehuels/itfstack/pkg/store
// [io]: https://pkg.go.dev/github.com/matzehuels/itfstack/pkg/io
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/itfstack/pkg/render/dot
package pkg
