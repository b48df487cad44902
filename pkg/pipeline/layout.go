package pipeline

import (
	"github.com/matzehuels/spanlane/pkg/core/layout"
	"github.com/matzehuels/spanlane/pkg/core/render/nodelink"
	"github.com/matzehuels/spanlane/pkg/core/sim"
	"github.com/matzehuels/spanlane/pkg/schema"
)

// GenerateLayout lays out a trace for the configured viz type. The returned
// layout records the render options so a saved layout renders the same way
// later.
func GenerateLayout(modelName string, tr *sim.Trace, opts Options) (schema.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return schema.Layout{}, err
	}
	if opts.IsTree() {
		return generateTreeLayout(modelName, tr, opts), nil
	}
	return generateLanesLayout(modelName, tr, opts)
}

func generateLanesLayout(modelName string, tr *sim.Trace, opts Options) (schema.Layout, error) {
	d, err := layout.Build(tr.Spans)
	if err != nil {
		return schema.Layout{}, err
	}
	l := d.Export(modelName, tr.Seed)
	l.Style = opts.Style
	l.TimeMode = opts.TimeMode
	l.Scale = opts.Scale
	return l, nil
}

func generateTreeLayout(modelName string, tr *sim.Trace, opts Options) schema.Layout {
	t := tr.Export(modelName)
	dot := nodelink.ToDOT(t, nodelink.Options{Detailed: opts.Detailed})
	return nodelink.Export(dot, t, opts.Style)
}
