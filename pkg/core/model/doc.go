// Package model provides the builder DSL for describing a distributed request
// as a tree of nested timed operations.
//
// # Overview
//
// A model is assembled from four node kinds:
//
//   - [KindConstant]: a leaf with a fixed duration
//   - [KindNormal]: a leaf whose duration is sampled from a normal distribution
//   - [KindSerial]: a composite whose children run back-to-back
//   - [KindParallel]: a composite whose children all start together
//
// Constructors such as [Constant] and [Serial] do not produce nodes directly.
// They return a [Builder], a function from the inherited parent [Context] to a
// freshly built [Node]. The same builder may be reused under different parents;
// every invocation yields an independent tree.
//
//	checkout := model.Serial("checkout", []model.Builder{
//	    model.Constant("SELECT cart", 40, model.WithService("DB")),
//	    model.Normal("charge card", 120, 30, model.WithService("Payments")),
//	}, model.WithSpan(), model.WithService("API"))
//
//	root, err := model.Build(checkout)
//
// # Context
//
// Each node carries a resolved [Context]: the parent's context with the node's
// own overrides merged on top. Resolution happens once at build time and is
// frozen into the node, so every simulation of a built tree sees the same
// services and attributes. [Build] uses [RootContext] as the parent of the root.
//
// # Span Visibility
//
// Leaves emit a span by default, composites do not. [WithSpan] and
// [WithoutSpan] override the default. Hidden nodes still contribute to timing;
// they simply do not show up in the trace.
//
// # Validation
//
// Invalid arguments are reported as coded errors from pkg/errors when the
// builder runs. Negative, NaN, or infinite durations fail with
// INVALID_DURATION; a parallel composite with no children or a nil child fails
// with INVALID_MODEL; [WithService] with an empty or blank name fails with
// INVALID_SERVICE. Arguments are never clamped.
//
// Simulation lives in pkg/core/sim; nodes here are plain data.
package model
