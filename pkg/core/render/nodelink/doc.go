// Package nodelink draws a trace as a span tree using Graphviz.
//
// Where the lane diagram emphasizes time, the span tree emphasizes
// structure: every span is a box, every parent/child relationship is an
// edge, and spans of the same service are grouped into a cluster.
//
//	Lanes: Trace → layout.Build() → Diagram → sink.RenderSVG() → SVG
//	Tree:  Trace → ToDOT() → DOT → RenderSVG() → SVG
//
// The DOT string is the intermediate representation, playing the role the
// layout file plays for lanes. [Export] wraps it in a [schema.Layout] so it
// can be cached or written to disk and rendered again with [Parse].
//
// # Usage
//
//	dot := nodelink.ToDOT(trace.Export("checkout"), nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// With Options.Detailed each box also shows start, end and duration.
//
// [schema.Layout]: github.com/matzehuels/spanlane/pkg/schema.Layout
package nodelink
