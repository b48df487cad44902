package sim

import (
	"github.com/matzehuels/spanlane/pkg/core/model"
)

// Annotation marks a point in time inside a span. Simulation does not
// produce annotations yet; they are carried through layout and export.
type Annotation struct {
	Time  float64 `json:"time"`
	Label string  `json:"label"`
}

// Span is one timed occurrence of a model node in a simulation run.
//
// Node and Parent are non-owning references. Children is only populated for
// spans created by visible composites.
type Span struct {
	ID          int
	Node        *model.Node
	Start       float64
	End         float64
	Parent      *Span
	Children    []*Span
	Annotations []Annotation
}

// Duration returns End - Start.
func (s *Span) Duration() float64 { return s.End - s.Start }

// Label returns the label of the node that produced the span.
func (s *Span) Label() string { return s.Node.Label }

// Service returns the resolved service of the span's node.
func (s *Span) Service() string { return s.Node.Service() }

// IsRoot reports whether the span has no parent.
func (s *Span) IsRoot() bool { return s.Parent == nil }

// Depth returns the number of ancestors of s.
func (s *Span) Depth() int {
	d := 0
	for p := s.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}
