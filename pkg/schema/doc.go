// Package schema provides serialization types for traces and layouts.
//
// This package defines the wire format for spanlane's data, used for JSON
// files, HTTP responses, and the cache.
//
// # Architecture
//
// The package sits at the serialization boundary between the internal
// representations and external formats:
//
//   - [Trace], [Layout]: serialization types (this package)
//   - pkg/core/sim.Trace: simulated spans with parent pointers
//   - pkg/core/layout.Diagram: rows, lanes, and the ordinal time axis
//
// Core types convert into this package with their Export methods. Nothing
// here imports the core packages, so renderers can work from a layout file
// alone.
//
// # Constants
//
// This package is the single source of truth for visualization constants:
//
//	schema.VizTypeLanes     // "lanes"
//	schema.VizTypeTree      // "tree"
//	schema.StyleSimple      // "simple"
//	schema.StyleMono        // "mono"
//	schema.TimeModeOrdinal  // "ordinal"
//	schema.TimeModeLinear   // "linear"
//
// # Layout Serialization
//
// Layouts are discriminated by VizType:
//
//	l, _ := schema.ReadLayoutFile("checkout.layout.json")
//	if l.IsLanes() {
//	    // Use l.Lanes and l.Spans
//	} else {
//	    // Use l.DOT for Graphviz rendering
//	}
//
// Span parents are referenced by ID; the root span has Parent -1.
package schema
