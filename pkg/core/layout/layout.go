package layout

import (
	"math"
	"slices"
	"sort"

	"github.com/matzehuels/spanlane/pkg/core/sim"
	"github.com/matzehuels/spanlane/pkg/errors"
)

// Default geometry, matching the renderer.
const (
	DefaultRowHeight = 40.0
	DefaultPadding   = 10.0
	DefaultUnitWidth = 50.0
)

// TimeMode selects how timestamps map to x positions.
type TimeMode int

const (
	// Ordinal places events by rank.
	Ordinal TimeMode = iota
	// Linear places events proportional to elapsed time.
	Linear
)

// String returns "ordinal" or "linear".
func (m TimeMode) String() string {
	if m == Linear {
		return "linear"
	}
	return "ordinal"
}

// ParseTimeMode parses a time mode name.
func ParseTimeMode(s string) (TimeMode, error) {
	switch s {
	case "", "ordinal":
		return Ordinal, nil
	case "linear":
		return Linear, nil
	}
	return Ordinal, errors.New(errors.ErrCodeInvalidTimeMode, "unknown time mode %q (want ordinal or linear)", s)
}

// Lane is the vertical region holding one service's rows.
type Lane struct {
	Name       string
	Rows       map[*sim.Span]int
	RightEdges []float64
	YOffset    float64
	Height     float64
}

// RowCount returns the number of rows opened in the lane.
func (l *Lane) RowCount() int { return len(l.RightEdges) }

// Diagram is the computed layout of one trace.
type Diagram struct {
	Lanes    []*Lane
	TimeToX  map[float64]float64
	Times    []float64
	LastTime float64

	RowHeight float64
	Padding   float64
	UnitWidth float64

	spans  []*sim.Span
	byName map[string]*Lane
}

// Option configures [Build].
type Option func(*Diagram)

// WithRowHeight overrides the height of a single row.
func WithRowHeight(h float64) Option { return func(d *Diagram) { d.RowHeight = h } }

// WithPadding overrides the extra space added below each lane.
func WithPadding(p float64) Option { return func(d *Diagram) { d.Padding = p } }

// WithUnitWidth overrides the distance between adjacent ordinal positions.
func WithUnitWidth(w float64) Option { return func(d *Diagram) { d.UnitWidth = w } }

// Build lays out spans. The input is not modified.
func Build(spans []*sim.Span, opts ...Option) (*Diagram, error) {
	if len(spans) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyTrace, "no spans to lay out")
	}

	d := &Diagram{
		RowHeight: DefaultRowHeight,
		Padding:   DefaultPadding,
		UnitWidth: DefaultUnitWidth,
		TimeToX:   make(map[float64]float64),
		byName:    make(map[string]*Lane),
		spans:     spans,
	}
	for _, opt := range opts {
		opt(d)
	}

	seen := make(map[float64]struct{}, 2*len(spans))
	for i, s := range spans {
		if err := checkSpan(i, s); err != nil {
			return nil, err
		}
		for _, t := range [2]float64{s.Start, s.End} {
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				d.Times = append(d.Times, t)
			}
		}
	}
	slices.Sort(d.Times)
	for i, t := range d.Times {
		d.TimeToX[t] = float64(i) * d.UnitWidth
	}
	d.LastTime = d.Times[len(d.Times)-1]

	for _, s := range spans {
		lane := d.lane(s.Service())
		row := lane.place(s.Start)
		if row == len(lane.RightEdges) {
			lane.RightEdges = append(lane.RightEdges, s.End)
		} else {
			lane.RightEdges[row] = s.End
		}
		lane.Rows[s] = row
	}

	y := 0.0
	for _, lane := range d.Lanes {
		lane.YOffset = y
		lane.Height = float64(len(lane.RightEdges))*d.RowHeight + d.Padding
		y += lane.Height
	}
	return d, nil
}

func checkSpan(i int, s *sim.Span) error {
	switch {
	case s == nil:
		return errors.New(errors.ErrCodeMalformedSpan, "span %d is nil", i)
	case s.Node == nil:
		return errors.New(errors.ErrCodeMalformedSpan, "span %d has no model node", i)
	case s.Service() == "":
		return errors.New(errors.ErrCodeMalformedSpan, "span %d (%s) has no service", i, s.Label())
	case math.IsNaN(s.Start) || math.IsNaN(s.End):
		return errors.New(errors.ErrCodeMalformedSpan, "span %d (%s) has a NaN timestamp", i, s.Label())
	case s.End < s.Start:
		return errors.New(errors.ErrCodeMalformedSpan, "span %d (%s) ends at %v before it starts at %v", i, s.Label(), s.End, s.Start)
	}
	return nil
}

func (d *Diagram) lane(name string) *Lane {
	if l, ok := d.byName[name]; ok {
		return l
	}
	l := &Lane{Name: name, Rows: make(map[*sim.Span]int)}
	d.byName[name] = l
	d.Lanes = append(d.Lanes, l)
	return l
}

// place returns the first row free at start. A result equal to the row count
// means a new row is needed.
func (l *Lane) place(start float64) int {
	for row, edge := range l.RightEdges {
		if edge <= start {
			return row
		}
	}
	return len(l.RightEdges)
}

// Spans returns the spans the diagram was built from, in input order.
func (d *Diagram) Spans() []*sim.Span { return d.spans }

// Lane returns the lane of the named service.
func (d *Diagram) Lane(name string) (*Lane, bool) {
	l, ok := d.byName[name]
	return l, ok
}

// Row returns the row s was assigned to within its lane.
func (d *Diagram) Row(s *sim.Span) (int, bool) {
	if s == nil || s.Node == nil {
		return 0, false
	}
	l, ok := d.byName[s.Service()]
	if !ok {
		return 0, false
	}
	row, ok := l.Rows[s]
	return row, ok
}

// SpanY returns the top of the row holding s, relative to the first lane.
func (d *Diagram) SpanY(s *sim.Span) (float64, bool) {
	row, ok := d.Row(s)
	if !ok {
		return 0, false
	}
	return d.byName[s.Service()].YOffset + float64(row)*d.RowHeight, true
}

// Height returns the combined height of all lanes.
func (d *Diagram) Height() float64 {
	h := 0.0
	for _, l := range d.Lanes {
		h += l.Height
	}
	return h
}

// X maps t to a horizontal position. In ordinal mode a time that is not one
// of the diagram's events is placed at the position of the next event.
func (d *Diagram) X(t float64, mode TimeMode, scale float64) float64 {
	if mode == Linear {
		return t * scale
	}
	if x, ok := d.TimeToX[t]; ok {
		return x * scale
	}
	return float64(sort.SearchFloat64s(d.Times, t)) * d.UnitWidth * scale
}

// Width returns the x position of the last event.
func (d *Diagram) Width(mode TimeMode, scale float64) float64 {
	return d.X(d.LastTime, mode, scale)
}

// LinearTicks returns tick times 0, step, 2*step, ... covering LastTime plus
// one extra step.
func (d *Diagram) LinearTicks(step float64) []float64 {
	if step <= 0 {
		return nil
	}
	n := int(d.LastTime/step) + 2
	ticks := make([]float64, n)
	for i := range ticks {
		ticks[i] = float64(i) * step
	}
	return ticks
}
