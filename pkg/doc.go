// Package pkg provides the core libraries for spanlane trace visualization.
//
// # Overview
//
// Spanlane simulates distributed requests from small timing models and draws
// the resulting traces as swimlane diagrams, one lane per service. The pkg
// directory is organized into four main areas:
//
//  1. [core] - Domain logic (model DSL, simulation, lane layout, rendering)
//  2. [pipeline] - Orchestration (load → simulate → layout → render)
//  3. [cache] and [config] - Infrastructure shared by the CLI and the viewer
//  4. [schema] and [export/otlp] - Serialization of traces and layouts
//
// # Architecture
//
// The typical data flow through spanlane:
//
//	Model (catalog entry or model file)
//	         ↓
//	    [core/model] package (build the node tree)
//	         ↓
//	    [core/sim] package (simulate spans)
//	         ↓
//	    [core/layout] package (pack spans into lanes)
//	         ↓
//	    [core/render] packages (SVG, PDF, PNG, JSON, OTLP)
//
// # Quick Start
//
// Simulate a catalog model and render a lane diagram:
//
//	import (
//	    "github.com/matzehuels/spanlane/pkg/core/layout"
//	    "github.com/matzehuels/spanlane/pkg/core/render/sink"
//	    "github.com/matzehuels/spanlane/pkg/core/sim"
//	    "github.com/matzehuels/spanlane/pkg/models"
//	)
//
//	// 1. Simulate a trace
//	tr, _ := sim.Simulate(models.PageLoad(), sim.WithSeed(7))
//
//	// 2. Compute lanes
//	d, _ := layout.Build(tr.Spans)
//
//	// 3. Render to SVG
//	svg := sink.RenderSVG(d.Export("page-load", tr.Seed))
//
// # Main Packages
//
// ## Core Domain Logic
//
// [core/model] - Builder DSL of constant, normal, serial and parallel nodes.
// Builders resolve service and attribute context at build time.
//
// [core/sim] - Turns a node tree into spans with start and end times. Normal
// durations are sampled from a seeded source, so a seed reproduces a trace.
//
// [core/layout] - Assigns each span a lane within its service band such that
// no two spans in a lane overlap, and maps times to x positions in linear or
// ordinal mode.
//
// [core/render] - PDF and PNG conversion of rendered SVG.
//
//   - [render/sink]: lane diagrams (SVG, PDF, PNG, JSON)
//   - [render/styles]: visual styles (simple, mono) and service palettes
//   - [render/nodelink]: the span tree as a Graphviz graph
//
// ## Models
//
// [models] - Built-in catalog of example requests (page load, fan-out,
// retrying client, GraphQL).
//
// [modelfile] - YAML, JSON and TOML model definitions loaded from disk.
//
// ## Serialization
//
// [schema] - Wire types for traces and layouts.
//
// [export/otlp] - OpenTelemetry OTLP/JSON export of a trace.
//
// ## Infrastructure
//
// [pipeline] - Complete visualization pipeline used by the CLI and the HTTP
// viewer. Ensures consistent behavior across both entry points.
//
// [cache] - Cache backends for pipeline stages: file (CLI), memory (server),
// Redis (shared) and a null backend.
//
// [config] - TOML configuration file with render, cache and server settings.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// [errors] - Coded errors and input validation.
//
// # Common Workflows
//
// Run the whole pipeline with caching:
//
//	c, _ := cache.NewFileCache(dir)
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, _ := runner.Execute(ctx, pipeline.Options{
//	    Model:   "fan-out",
//	    Seed:    42,
//	    Formats: []string{"svg", "otlp"},
//	})
//
// Load a model file:
//
//	def, _ := modelfile.Load("examples/models/checkout.toml")
//	b, _ := def.Builder()
//	tr, _ := sim.Simulate(b)
//
// Export a trace to OTLP:
//
//	data, _ := otlp.FromTrace(tr.Export("checkout"))
//	out, _ := otlp.Marshal(data)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...               # All tests
//	go test ./pkg/core/sim/...      # Specific package
//	go test -run Example ./pkg/...  # Examples only
//
// [core]: https://pkg.go.dev/github.com/matzehuels/spanlane/pkg/core
// [core/model]: https://pkg.go.dev/github.com/matzehuels/spanlane/pkg/core/model
// [core/sim]: https://pkg.go.dev/github.com/matzehuels/spanlane/pkg/core/sim
// [core/layout]: https://pkg.go.dev/github.com/matzehuels/spanlane/pkg/core/layout
// [core/render]: https://pkg.go.dev/github.com/matzehuels/spanlane/pkg/core/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/spanlane/pkg/core/render/sink
// [render/styles]: https://pkg.go.dev/github.com/matzehuels/spanlane/pkg/core/render/styles
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/spanlane/pkg/core/render/nodelink
// [models]: https://pkg.go.dev/github.com/matzehuels/spanlane/pkg/models
// [modelfile]: https://pkg.go.dev/github.com/matzehuels/spanlane/pkg/modelfile
// [schema]: https://pkg.go.dev/github.com/matzehuels/spanlane/pkg/schema
// [export/otlp]: https://pkg.go.dev/github.com/matzehuels/spanlane/pkg/export/otlp
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/spanlane/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/spanlane/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/spanlane/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/spanlane/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/spanlane/pkg/errors
package pkg
