package schema

import "slices"

// Visualization types.
const (
	VizTypeLanes = "lanes"
	VizTypeTree  = "tree"
)

// Visual styles for rendering.
const (
	StyleSimple = "simple"
	StyleMono   = "mono"
)

// Time axis modes.
const (
	TimeModeOrdinal = "ordinal"
	TimeModeLinear  = "linear"
)

// Frame geometry shared by all lane renderers.
const (
	HeadingHeight = 40.0
	LeftMargin    = 200.0
	RightMargin   = 100.0
)

// NoParent is the Parent value of a root span.
const NoParent = -1

// VizTypes lists the supported visualization types.
var VizTypes = []string{VizTypeLanes, VizTypeTree}

// Styles lists the supported styles.
var Styles = []string{StyleSimple, StyleMono}

// TimeModes lists the supported time modes.
var TimeModes = []string{TimeModeOrdinal, TimeModeLinear}

// IsValidVizType reports whether v is a known visualization type.
func IsValidVizType(v string) bool { return slices.Contains(VizTypes, v) }

// IsValidStyle reports whether s is a known style.
func IsValidStyle(s string) bool { return slices.Contains(Styles, s) }

// IsValidTimeMode reports whether m is a known time mode.
func IsValidTimeMode(m string) bool { return slices.Contains(TimeModes, m) }

// Trace is the serialized form of one simulation run.
type Trace struct {
	Model    string  `json:"model,omitempty"`
	Seed     uint64  `json:"seed"`
	Duration float64 `json:"duration"`
	Spans    []Span  `json:"spans"`
}

// Root returns the root span, or false if the trace is empty.
func (t *Trace) Root() (Span, bool) {
	for _, s := range t.Spans {
		if s.Parent == NoParent {
			return s, true
		}
	}
	return Span{}, false
}

// Services returns the distinct services in order of first appearance.
func (t *Trace) Services() []string {
	var out []string
	for _, s := range t.Spans {
		if !slices.Contains(out, s.Service) {
			out = append(out, s.Service)
		}
	}
	return out
}

// Span is a serialized span.
type Span struct {
	ID          int               `json:"id"`
	Parent      int               `json:"parent"`
	Label       string            `json:"label"`
	Service     string            `json:"service"`
	Kind        string            `json:"kind"`
	Start       float64           `json:"start"`
	End         float64           `json:"end"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	Annotations []Annotation      `json:"annotations,omitempty"`
}

// Duration returns End - Start.
func (s Span) Duration() float64 { return s.End - s.Start }

// Annotation is a labelled point in time inside a span.
type Annotation struct {
	Time  float64 `json:"time"`
	Label string  `json:"label"`
}

// PlacedSpan is a span with its position in a lane layout. X0 and X1 are
// ordinal positions at scale 1.
type PlacedSpan struct {
	Span
	Row int     `json:"row"`
	Y   float64 `json:"y"`
	X0  float64 `json:"x0"`
	X1  float64 `json:"x1"`
}

// Lane is the serialized form of a service lane.
type Lane struct {
	Name    string  `json:"name"`
	YOffset float64 `json:"y_offset"`
	Height  float64 `json:"height"`
	Rows    int     `json:"rows"`
}
