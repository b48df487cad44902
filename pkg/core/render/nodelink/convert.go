package nodelink

import (
	"github.com/matzehuels/spanlane/pkg/errors"
	"github.com/matzehuels/spanlane/pkg/schema"
)

// Export packages a DOT string and the trace it was generated from into a
// serialized tree layout. Graphviz computes positions at render time, so
// spans carry no coordinates.
func Export(dot string, t schema.Trace, style string) schema.Layout {
	l := schema.Layout{
		VizType:  schema.VizTypeTree,
		Model:    t.Model,
		Seed:     t.Seed,
		Duration: t.Duration,
		Style:    style,
		DOT:      dot,
		Engine:   "dot",
		Spans:    make([]schema.PlacedSpan, len(t.Spans)),
	}
	for i, s := range t.Spans {
		l.Spans[i] = schema.PlacedSpan{Span: s}
	}
	return l
}

// Parse extracts the DOT string from a serialized tree layout.
func Parse(l schema.Layout) (string, error) {
	if l.VizType != "" && l.VizType != schema.VizTypeTree {
		return "", errors.New(errors.ErrCodeInvalidVizType, "invalid viz_type for tree layout: %q", l.VizType)
	}
	if l.DOT == "" {
		return "", errors.New(errors.ErrCodeInvalidFormat, "tree layout must contain DOT string")
	}
	return l.DOT, nil
}
