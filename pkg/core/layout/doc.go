// Package layout packs the spans of a trace into rows grouped by service and
// assigns every distinct timestamp a position on an ordinal time axis.
//
// # Algorithm
//
// [Build] makes a single pass over the spans in trace order:
//
//  1. Every distinct start and end time is collected and sorted. The i-th
//     time is placed at x = i * UnitWidth, so equal gaps on screen stand for
//     "next event" rather than elapsed time.
//  2. Spans are grouped into lanes by service, lanes ordered by first
//     appearance.
//  3. Within a lane each span goes to the lowest row whose right edge is at
//     or before the span's start; if no row fits a new one is opened. The
//     row's right edge becomes the span's end.
//  4. Lanes are stacked top to bottom. A lane is rows*RowHeight + Padding
//     tall.
//
// Packing is greedy first-fit and is not guaranteed to use the minimum
// number of rows. Two spans that merely touch (one ends when the other
// starts) share a row.
//
// # Time Modes
//
// A [Diagram] can be projected on either axis. [Ordinal] uses the ranked
// positions computed by Build; [Linear] maps t to t*scale. Both are
// multiplied by the same scale factor.
//
// A Diagram is read-only after Build returns and is safe for concurrent use.
package layout
