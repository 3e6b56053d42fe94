// Package io provides JSON import and export for validated process stacks.
//
// # Overview
//
// The JSON document is the exchange format of the tool set: the CLI writes
// it with `itfstack parse -o`, the pipeline stores it in the cache, and the
// HTTP server returns it. Importing a document rebuilds the stack and runs
// the validator again, so a decoded stack satisfies the same invariants as
// one parsed from ITF text.
//
// # JSON Format
//
//	{
//	  "version": 1,
//	  "technology": {"name": "demo_5lm", "global_temperature": 25},
//	  "layers": [
//	    {"name": "FOX", "kind": "dielectric", "thickness": 0.35, "bottom": 0, "top": 0.35, "er": 3.9},
//	    {"name": "M1", "kind": "conductor", "thickness": 0.3, "bottom": 0.35, "top": 0.65, "rpsq": 0.08}
//	  ],
//	  "vias": [
//	    {"name": "VIA1", "from": "M1", "to": "M2", "area": 0.04, "rpv": 1.5}
//	  ]
//	}
//
// Layers appear in declaration order, bottom first. "bottom" and "top" are
// derived from thicknesses on export and ignored on import. Optional values
// that the source did not set are omitted. "pos" objects carry the 1-based
// line and column of the declaration in the original ITF text.
//
// # Usage
//
//	if err := io.ExportJSON(s, "stack.json"); err != nil {
//	    return err
//	}
//	s, err := io.ImportJSON("stack.json")
//
// The exported [Document], [Summary] and [Problem] types are also used
// directly by the HTTP server to shape its responses.
package io
