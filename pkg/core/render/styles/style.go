package styles

import (
	"bytes"

	"github.com/matzehuels/spanlane/pkg/errors"
	"github.com/matzehuels/spanlane/pkg/schema"
)

// Style defines the visual appearance of a lane diagram.
type Style interface {
	// RenderDefs writes SVG <defs> content (markers, gradients).
	RenderDefs(buf *bytes.Buffer)
	// RenderHeading writes the time axis caption above the lanes.
	RenderHeading(buf *bytes.Buffer, caption string, x float64)
	// RenderLane writes the separator, color bar and name of a lane.
	RenderLane(buf *bytes.Buffer, l Lane)
	// RenderTick writes a vertical grid line with its label.
	RenderTick(buf *bytes.Buffer, t Tick)
	// RenderBox writes the rectangle of a span.
	RenderBox(buf *bytes.Buffer, b Box)
	// RenderText writes the label of a span.
	RenderText(buf *bytes.Buffer, b Box)
	// RenderArrow writes a parent/child connector.
	RenderArrow(buf *bytes.Buffer, a Arrow)
}

// Lane contains the data needed to draw one service lane.
type Lane struct {
	Name    string
	Y, H    float64 // Top and height, relative to the lane area
	W       float64 // Full frame width
	Color   string
	IsFirst bool // Draw the top separator as well
}

// Box is a positioned span.
type Box struct {
	ID      int
	Label   string
	Service string
	X, Y    float64
	W, H    float64
	Color   string
}

// Arrow connects a parent span to the start or end of a child span.
type Arrow struct {
	X1, Y1, X2, Y2 float64
}

// Tick is a vertical grid line at X spanning from Top to Bottom.
type Tick struct {
	X           float64
	Top, Bottom float64
	Label       string
}

// New returns the style registered under name.
func New(name string) (Style, error) {
	switch name {
	case "", schema.StyleSimple:
		return Simple{}, nil
	case schema.StyleMono:
		return Mono{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown style %q (want simple or mono)", name)
}
