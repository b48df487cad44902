// Package sim turns a built model tree into a trace of timestamped spans.
//
// [Simulate] builds a root [model.Builder] against the root context and runs
// it starting at time 0. [Run] does the same for a tree that is already built,
// so one tree can be sampled many times.
//
// # Timing
//
// Constant leaves end exactly duration after they start. Normal leaves draw a
// duration from a normal distribution; negative samples are truncated to 0.
// Serial composites start each child at the previous child's end. Parallel
// composites start every child at their own start and end with the slowest.
//
// # Spans
//
// Only nodes with IncludeSpan produce spans. A visible composite creates its
// own span before descending and becomes the parent of every visible
// descendant. Hidden composites pass their parent through, so their children
// attach to the nearest visible ancestor. The root must produce exactly one
// span; otherwise [Simulate] fails with ROOT_SPAN.
//
// Trace spans are in depth-first pre-order and Span.ID is the index into
// Trace.Spans.
//
// # Randomness
//
// [WithSeed] makes a run reproducible. Without it each run draws a fresh seed,
// which is recorded in Trace.Seed so the run can be repeated. The shape of a
// trace (labels, parents, span count) never depends on the seed.
package sim
