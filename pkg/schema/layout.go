package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/matzehuels/spanlane/pkg/errors"
)

// Layout is the unified serialization format for all visualizations.
//
// This is a discriminated union type; check VizType to determine which
// fields are populated:
//
//	Lanes ("lanes"):
//	  - Lanes, Spans: service lanes and placed spans
//	  - Times: sorted distinct event times (the ordinal axis)
//	  - RowHeight, Padding, UnitWidth: packing geometry
//
//	Tree ("tree"):
//	  - DOT: Graphviz DOT string for rendering
//	  - Engine: Graphviz layout engine
//
// Shared fields: Model, Seed, Duration, Style, TimeMode, Scale, and the
// serialized Trace spans in Spans.
type Layout struct {
	VizType string `json:"viz_type"`

	Model    string  `json:"model,omitempty"`
	Seed     uint64  `json:"seed"`
	Duration float64 `json:"duration"`
	Style    string  `json:"style,omitempty"`
	TimeMode string  `json:"time_mode,omitempty"`
	Scale    float64 `json:"scale,omitempty"`

	Spans []PlacedSpan `json:"spans"`

	// Lanes-specific
	Lanes     []Lane    `json:"lanes,omitempty"`
	Times     []float64 `json:"times,omitempty"`
	LastTime  float64   `json:"last_time,omitempty"`
	RowHeight float64   `json:"row_height,omitempty"`
	Padding   float64   `json:"padding,omitempty"`
	UnitWidth float64   `json:"unit_width,omitempty"`

	// Tree-specific
	DOT    string `json:"dot,omitempty"`
	Engine string `json:"engine,omitempty"`
}

// IsLanes returns true if this is a lane layout.
func (l *Layout) IsLanes() bool { return l.VizType == VizTypeLanes }

// IsTree returns true if this is a span tree layout.
func (l *Layout) IsTree() bool { return l.VizType == VizTypeTree }

// Span returns the placed span with the given ID.
func (l *Layout) Span(id int) (PlacedSpan, bool) {
	if id >= 0 && id < len(l.Spans) && l.Spans[id].ID == id {
		return l.Spans[id], true
	}
	for _, s := range l.Spans {
		if s.ID == id {
			return s, true
		}
	}
	return PlacedSpan{}, false
}

// LanesHeight returns the combined height of all lanes.
func (l *Layout) LanesHeight() float64 {
	h := 0.0
	for _, lane := range l.Lanes {
		h += lane.Height
	}
	return h
}

// X maps t to a horizontal position for the given mode and scale.
func (l *Layout) X(t float64, mode string, scale float64) float64 {
	if mode == TimeModeLinear {
		return t * scale
	}
	return float64(sort.SearchFloat64s(l.Times, t)) * l.UnitWidth * scale
}

// Frame returns the full drawing size including heading and margins.
func (l *Layout) Frame(mode string, scale float64) (width, height float64) {
	width = l.X(l.LastTime, mode, scale) + LeftMargin + RightMargin
	height = HeadingHeight + l.LanesHeight() + 1
	return width, height
}

// Trace returns the spans of l without positions.
func (l *Layout) Trace() Trace {
	t := Trace{Model: l.Model, Seed: l.Seed, Duration: l.Duration, Spans: make([]Span, len(l.Spans))}
	for i, s := range l.Spans {
		t.Spans[i] = s.Span
	}
	return t
}

// Validate checks that the fields required for the viz type are present.
func (l *Layout) Validate() error {
	switch l.VizType {
	case VizTypeLanes:
		if len(l.Lanes) == 0 || len(l.Spans) == 0 {
			return errors.New(errors.ErrCodeInvalidFormat, "lanes layout must contain lanes and spans")
		}
		if len(l.Times) == 0 || l.UnitWidth <= 0 {
			return errors.New(errors.ErrCodeInvalidFormat, "lanes layout must contain a time axis")
		}
		if !sort.Float64sAreSorted(l.Times) {
			return errors.New(errors.ErrCodeInvalidFormat, "layout times must be sorted")
		}
	case VizTypeTree:
		if l.DOT == "" {
			return errors.New(errors.ErrCodeInvalidFormat, "tree layout must contain DOT string")
		}
	default:
		return errors.New(errors.ErrCodeInvalidVizType, "unknown viz type %q", l.VizType)
	}
	if l.Scale < 0 || math.IsNaN(l.Scale) {
		return errors.New(errors.ErrCodeInvalidScale, "layout scale must be positive, got %v", l.Scale)
	}
	return nil
}

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates that required fields are present for the viz type.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	if l.VizType == "" {
		l.VizType = VizTypeLanes
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Layout{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
