// Package nodelink renders reverse-dependency graphs as node-link diagrams.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Dead: dead})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
//   - Detailed: node labels include all metadata (version, location)
//   - Dead: packages drawn highlighted as removable
//
// To draw a subset, such as a removal plan, restrict the graph first with
// [graph.Graph.Without].
//
// Edges point from a package to what it requires, with rankdir=TB, so the
// packages a user installed on purpose end up on top.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
