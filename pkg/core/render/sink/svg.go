package sink

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/matzehuels/spanlane/pkg/core/render/styles"
	"github.com/matzehuels/spanlane/pkg/schema"
)

// Geometry of a span inside its row.
const (
	boxInset  = 10.0
	boxHeight = 30.0
	tickStep  = 50.0
	tickTop   = -20.0
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style    styles.Style
	palette  *styles.Palette
	timeMode string
	scale    float64
	arrows   bool
}

func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }
func WithTimeMode(m string) SVGOption    { return func(r *svgRenderer) { r.timeMode = m } }
func WithScale(s float64) SVGOption      { return func(r *svgRenderer) { r.scale = s } }
func WithoutArrows() SVGOption           { return func(r *svgRenderer) { r.arrows = false } }

// WithPalette overrides the service color assignment.
func WithPalette(p *styles.Palette) SVGOption { return func(r *svgRenderer) { r.palette = p } }

// RenderSVG draws a lanes layout. Time mode and scale default to the values
// recorded in l, then to ordinal at scale 1.
func RenderSVG(l schema.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(l, opts...)
	width, height := l.Frame(r.timeMode, r.scale)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f" style="background: white">`+"\n",
		width, height, width, height)

	r.style.RenderDefs(&buf)
	r.style.RenderHeading(&buf, styles.Caption(r.timeMode), schema.LeftMargin-10)

	fmt.Fprintf(&buf, "  <g transform=\"translate(0, %.0f)\">\n", schema.HeadingHeight)
	for i, lane := range l.Lanes {
		r.style.RenderLane(&buf, styles.Lane{
			Name:    lane.Name,
			Y:       lane.YOffset,
			H:       lane.Height,
			W:       width,
			Color:   r.palette.Color(lane.Name),
			IsFirst: i == 0,
		})
	}

	fmt.Fprintf(&buf, "    <g transform=\"translate(%.0f, 0)\">\n", schema.LeftMargin)
	for _, t := range r.ticks(l) {
		r.style.RenderTick(&buf, t)
	}
	for _, s := range l.Spans {
		r.renderSpan(&buf, l, s)
	}
	buf.WriteString("    </g>\n  </g>\n</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(l schema.Layout, opts ...SVGOption) svgRenderer {
	r := svgRenderer{
		style:    styles.Simple{},
		timeMode: l.TimeMode,
		scale:    l.Scale,
		arrows:   true,
	}
	for _, opt := range opts {
		opt(&r)
	}
	if r.timeMode == "" {
		r.timeMode = schema.TimeModeOrdinal
	}
	if r.scale <= 0 {
		r.scale = 1
	}
	if r.palette == nil {
		r.palette = &styles.Palette{}
	}
	return r
}

func (r *svgRenderer) x(l schema.Layout, t float64) float64 {
	return l.X(t, r.timeMode, r.scale)
}

func (r *svgRenderer) ticks(l schema.Layout) []styles.Tick {
	bottom := l.LanesHeight()
	if r.timeMode == schema.TimeModeLinear {
		n := int(l.LastTime/tickStep) + 2
		ticks := make([]styles.Tick, n)
		for i := range ticks {
			t := float64(i) * tickStep
			ticks[i] = styles.Tick{X: r.x(l, t), Top: tickTop, Bottom: bottom, Label: strconv.FormatFloat(t, 'f', -1, 64) + "ms"}
		}
		return ticks
	}
	ticks := make([]styles.Tick, len(l.Times))
	for i, t := range l.Times {
		ticks[i] = styles.Tick{X: r.x(l, t), Top: tickTop, Bottom: bottom, Label: strconv.Itoa(i)}
	}
	return ticks
}

func (r *svgRenderer) renderSpan(buf *bytes.Buffer, l schema.Layout, s schema.PlacedSpan) {
	x0, x1 := r.x(l, s.Start), r.x(l, s.End)
	box := styles.Box{
		ID:      s.ID,
		Label:   s.Label,
		Service: s.Service,
		X:       x0,
		Y:       s.Y + boxInset,
		W:       x1 - x0,
		H:       boxHeight,
		Color:   r.palette.Color(s.Service),
	}
	r.style.RenderBox(buf, box)
	r.style.RenderText(buf, box)

	if !r.arrows || s.Parent == schema.NoParent {
		return
	}
	parent, ok := l.Span(s.Parent)
	if !ok {
		return
	}
	parentY, childY := parent.Y+boxInset, s.Y+boxInset+boxHeight
	if s.Y > parent.Y {
		parentY, childY = parent.Y+boxInset+boxHeight, s.Y+boxInset
	}
	r.style.RenderArrow(buf, styles.Arrow{X1: x0, Y1: parentY, X2: x0, Y2: childY})
	r.style.RenderArrow(buf, styles.Arrow{X1: x1, Y1: childY, X2: x1, Y2: parentY})
}
