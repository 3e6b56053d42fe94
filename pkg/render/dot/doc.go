// Package dot renders the via connectivity of a process stack as a Graphviz
// diagram.
//
// # Overview
//
// Every layer becomes a node, stacked bottom to top in declaration order.
// Conductors are drawn as boxes and dielectrics as ellipses. Each via is a
// labelled edge between the layers it connects, so the diagram shows at a
// glance which metal levels can reach each other.
//
// # Usage
//
//	src := dot.ToDOT(s, dot.Options{Detailed: true})
//	svg, err := dot.Render(ctx, src, dot.FormatSVG)
//
// # Options
//
//   - Detailed: node labels include thickness and z span, edge labels
//     include the via area and resistance
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz], which runs Graphviz in
// process. No external binaries are needed for SVG or PNG output.
package dot
