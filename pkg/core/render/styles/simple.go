package styles

import (
	"bytes"
	"fmt"
	"strings"
)

const (
	arrowColor     = "#666"
	separatorColor = "#ccc"
	mutedColor     = "#999"
)

// Simple reproduces the classic lane diagram: pastel colored lanes and
// spans, gray grid lines and arrowheads.
type Simple struct{}

func (Simple) RenderDefs(buf *bytes.Buffer) {
	renderMarker(buf, arrowColor)
}

func renderMarker(buf *bytes.Buffer, fill string) {
	fmt.Fprintf(buf, `  <defs>
    <marker id="triangle" viewBox="0 0 6 6" refX="6" refY="3" markerUnits="strokeWidth" markerWidth="6" markerHeight="6" fill="%s" orient="auto">
      <path d="M 0 0 L 6 3 L 0 6 z"/>
    </marker>
  </defs>
`, fill)
}

func (Simple) RenderHeading(buf *bytes.Buffer, caption string, x float64) {
	fmt.Fprintf(buf, `  <text x="%.2f" y="30" font-size="12" fill="%s" text-anchor="end" font-style="italic">%s</text>`+"\n",
		x, mutedColor, EscapeXML(caption))
}

func (Simple) RenderLane(buf *bytes.Buffer, l Lane) {
	if l.IsFirst {
		fmt.Fprintf(buf, `    <line x1="0" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"/>`+"\n", l.Y, l.W, l.Y, separatorColor)
	}
	bottom := l.Y + l.H
	fmt.Fprintf(buf, `    <line x1="0" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"/>`+"\n", bottom, l.W, bottom, separatorColor)
	fmt.Fprintf(buf, `    <rect class="lane" x="0" y="%.2f" width="6" height="%.2f" fill="%s"/>`+"\n", l.Y, l.H, l.Color)
	fmt.Fprintf(buf, `    <text x="20" y="%.2f" font-size="16" fill="%s" text-anchor="start" letter-spacing="0.1em">%s</text>`+"\n",
		l.Y+30, mutedColor, EscapeXML(strings.ToUpper(l.Name)))
}

func (Simple) RenderTick(buf *bytes.Buffer, t Tick) {
	fmt.Fprintf(buf, `      <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1"/>`+"\n",
		t.X, t.Top, t.X, t.Bottom, separatorColor)
	fmt.Fprintf(buf, `      <text x="%.2f" y="-10" font-size="12" fill="%s">%s</text>`+"\n", t.X+3, mutedColor, EscapeXML(t.Label))
}

func (Simple) RenderBox(buf *bytes.Buffer, b Box) {
	fmt.Fprintf(buf, `      <rect id="rect-%d" class="span" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="3" ry="3" fill="%s"/>`+"\n",
		b.ID, b.X, b.Y, b.W, b.H, b.Color)
}

func (Simple) RenderText(buf *bytes.Buffer, b Box) {
	fmt.Fprintf(buf, `      <text x="%.2f" y="%.2f" font-size="16" fill="black">%s</text>`+"\n",
		b.X+6, b.Y+21, EscapeXML(b.Label))
}

func (Simple) RenderArrow(buf *bytes.Buffer, a Arrow) {
	renderArrow(buf, a, arrowColor, "")
}

func renderArrow(buf *bytes.Buffer, a Arrow, stroke, extra string) {
	fmt.Fprintf(buf, `      <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="2"%s marker-end="url(#triangle)"/>`+"\n",
		a.X1, a.Y1, a.X2, a.Y2, stroke, extra)
}
