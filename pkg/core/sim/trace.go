package sim

import (
	"fmt"
	"maps"
	"strings"

	"github.com/matzehuels/spanlane/pkg/schema"
)

// Trace is the ordered set of spans from one simulation run. Spans[0] is the
// root and the order is depth-first pre-order.
type Trace struct {
	Spans []*Span
	Seed  uint64
}

// Root returns the root span.
func (t *Trace) Root() *Span {
	if len(t.Spans) == 0 {
		return nil
	}
	return t.Spans[0]
}

// Duration returns the end time of the root span.
func (t *Trace) Duration() float64 {
	if r := t.Root(); r != nil {
		return r.End
	}
	return 0
}

// Services returns the distinct span services in order of first appearance.
func (t *Trace) Services() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range t.Spans {
		if name := s.Service(); !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// Row is one line of the tabular trace dump.
type Row struct {
	Label   string
	Start   float64
	End     float64
	Parent  string
	Service string
}

// Table returns one row per span in trace order. Parent is empty for the
// root.
func (t *Trace) Table() []Row {
	rows := make([]Row, len(t.Spans))
	for i, s := range t.Spans {
		rows[i] = Row{Label: s.Label(), Start: s.Start, End: s.End, Service: s.Service()}
		if s.Parent != nil {
			rows[i].Parent = s.Parent.Label()
		}
	}
	return rows
}

// Tree renders the span hierarchy as indented "label start end" lines.
func (t *Trace) Tree() string {
	var b strings.Builder
	for _, s := range t.Spans {
		fmt.Fprintf(&b, "%s%s %g %g\n", strings.Repeat("  ", s.Depth()), s.Label(), s.Start, s.End)
	}
	return b.String()
}

// Export converts the trace to its serialized form.
func (t *Trace) Export(modelName string) schema.Trace {
	out := schema.Trace{
		Model:    modelName,
		Seed:     t.Seed,
		Duration: t.Duration(),
		Spans:    make([]schema.Span, len(t.Spans)),
	}
	for i, s := range t.Spans {
		out.Spans[i] = ExportSpan(s)
	}
	return out
}

// ExportSpan converts a single span. Parent is [schema.NoParent] for roots.
func ExportSpan(s *Span) schema.Span {
	out := schema.Span{
		ID:      s.ID,
		Parent:  schema.NoParent,
		Label:   s.Label(),
		Service: s.Service(),
		Kind:    s.Node.Kind.String(),
		Start:   s.Start,
		End:     s.End,
	}
	if s.Parent != nil {
		out.Parent = s.Parent.ID
	}
	if len(s.Node.Context.Attributes) > 0 {
		out.Attributes = maps.Clone(s.Node.Context.Attributes)
	}
	for _, a := range s.Annotations {
		out.Annotations = append(out.Annotations, schema.Annotation{Time: a.Time, Label: a.Label})
	}
	return out
}
