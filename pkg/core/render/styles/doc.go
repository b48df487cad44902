// Package styles defines how the pieces of a lane diagram are drawn.
//
// A [Style] receives fully positioned primitives ([Lane], [Box], [Arrow],
// [Tick]) and writes SVG fragments into a buffer. Positions are computed by
// the sink; styles only decide colors, strokes and fonts.
//
// Two styles are provided:
//
//   - [Simple]: pastel lane colors, rounded span boxes, gray arrows
//   - [Mono]: grayscale outlines, suitable for print
//
// Services are colored through a [Palette], which hands out colors from
// [Pastel1] in order of first request so the same service always gets the
// same color within one diagram.
package styles
