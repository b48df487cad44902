// Package render converts rendered SVG into other image formats.
//
// Diagram drawing lives in the subpackages:
//
//   - [sink]: lane diagrams from a serialized layout
//   - [nodelink]: the span tree as a Graphviz graph
//   - [styles]: colors and strokes for lane diagrams
//
// [ToPDF] and [ToPNG] shell out to rsvg-convert (from librsvg) and are
// shared by both diagram types.
//
//	svg := sink.RenderSVG(l)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)
//
// When rsvg-convert is missing both return an UNSUPPORTED error; use
// [Available] to check up front.
//
// [sink]: github.com/matzehuels/spanlane/pkg/core/render/sink
// [nodelink]: github.com/matzehuels/spanlane/pkg/core/render/nodelink
// [styles]: github.com/matzehuels/spanlane/pkg/core/render/styles
package render
