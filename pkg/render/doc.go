// Package render converts rendered graph diagrams between output formats.
//
// The [nodelink] subpackage draws the reverse-dependency graph with
// Graphviz and produces SVG. [ToPDF] and [ToPNG] convert that SVG using the
// external rsvg-convert tool (from librsvg):
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
package render
