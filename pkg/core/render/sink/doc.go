// Package sink provides output format renderers for lane diagrams.
//
// # Overview
//
// A "sink" transforms a serialized [schema.Layout] into a final output
// format. Working from the serialized layout means a layout file written by
// one run can be rendered again later without re-simulating.
//
//   - SVG: the lane diagram
//   - JSON: the layout itself, with the render options recorded
//   - PDF: print-ready output (requires rsvg-convert)
//   - PNG: raster image output (requires rsvg-convert)
//
// # SVG Output
//
// [RenderSVG] draws, top to bottom: the time axis caption, one band per
// service lane with its uppercased name, grid ticks, and one rounded box per
// span. Each non-root span gets two arrows: one from its parent to its start
// and one from its end back to the parent. Arrows point down when the child
// sits below its parent and up otherwise.
//
//	svg := sink.RenderSVG(l,
//	    sink.WithStyle(styles.Mono{}),
//	    sink.WithTimeMode("linear"),
//	    sink.WithScale(2),
//	)
//
// Linear ticks are placed every 50 time units and labelled in ms; ordinal
// ticks are labelled by rank.
//
// # PDF and PNG Output
//
// [RenderPDF] and [RenderPNG] generate SVG first and convert it with
// [render.ToPDF] and [render.ToPNG]. librsvg must be installed:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// [schema.Layout]: github.com/matzehuels/spanlane/pkg/schema.Layout
// [render.ToPDF]: github.com/matzehuels/spanlane/pkg/core/render.ToPDF
// [render.ToPNG]: github.com/matzehuels/spanlane/pkg/core/render.ToPNG
package sink
