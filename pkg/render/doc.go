// Package render turns packed grid layouts into files.
//
// # Formats
//
//   - [RenderSVG] draws every placed item as a rounded rectangle, optionally
//     shrunk by its decoration insets and overlaid with the scroll viewport.
//   - [RenderJSON] emits the rectangles, insets and viewport as data for other
//     tools.
//   - [ToDOT] describes the layout as a Graphviz graph with every item pinned
//     at its packed position; [RenderDOT] lays it out with neato and renders
//     it in-process.
//   - [ToPDF] and [ToPNG] convert any SVG with the external rsvg-convert tool.
//
//	svg := render.RenderSVG(layout, render.WithInsets(8), render.WithViewport(120, 600))
//	png, err := render.ToPNG(svg, 2.0)
//
// All renderers skip items the packer could not place.
//
// # Dependencies
//
// [RenderDOT] uses [github.com/goccy/go-graphviz], which embeds Graphviz as
// WebAssembly and needs no system install. PDF and PNG conversion requires
// librsvg (rsvg-convert).
package render
