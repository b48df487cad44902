package sim

import (
	"maps"

	"github.com/matzehuels/spanlane/pkg/core/model"
	"github.com/matzehuels/spanlane/pkg/errors"
	"github.com/matzehuels/spanlane/pkg/schema"
)

// Import rebuilds a trace from its serialized form, so a saved or cached
// trace can be laid out again without re-simulating. Each span gets a
// detached node carrying only its label, kind and context.
//
// Spans must be in pre-order: every parent precedes its children.
func Import(t schema.Trace) (*Trace, error) {
	if len(t.Spans) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyTrace, "trace has no spans")
	}

	out := &Trace{Seed: t.Seed, Spans: make([]*Span, len(t.Spans))}
	for i, s := range t.Spans {
		if s.ID != i {
			return nil, errors.New(errors.ErrCodeMalformedSpan, "span at index %d has id %d", i, s.ID)
		}
		var kind model.Kind
		if err := kind.UnmarshalText([]byte(s.Kind)); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedSpan, err, "span %d", i)
		}
		span := &Span{
			ID:    i,
			Start: s.Start,
			End:   s.End,
			Node: &model.Node{
				Label:       s.Label,
				Kind:        kind,
				Context:     model.Context{Service: s.Service, Attributes: maps.Clone(s.Attributes)},
				IncludeSpan: true,
			},
		}
		for _, a := range s.Annotations {
			span.Annotations = append(span.Annotations, Annotation{Time: a.Time, Label: a.Label})
		}

		switch {
		case s.Parent == schema.NoParent:
			if i != 0 {
				return nil, errors.New(errors.ErrCodeRootSpan, "span %d has no parent; only the first span may be the root", i)
			}
		case s.Parent < 0 || s.Parent >= i:
			return nil, errors.New(errors.ErrCodeMalformedSpan, "span %d has invalid parent %d", i, s.Parent)
		default:
			span.Parent = out.Spans[s.Parent]
			span.Parent.Children = append(span.Parent.Children, span)
		}
		out.Spans[i] = span
	}
	return out, nil
}
