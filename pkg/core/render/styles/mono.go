package styles

import (
	"bytes"
	"fmt"
	"strings"
)

// Mono draws outlined grayscale spans and dashed arrows. Lane colors are
// ignored.
type Mono struct{}

func (Mono) RenderDefs(buf *bytes.Buffer) {
	renderMarker(buf, "#333")
}

func (Mono) RenderHeading(buf *bytes.Buffer, caption string, x float64) {
	fmt.Fprintf(buf, `  <text x="%.2f" y="30" font-size="12" font-family="monospace" fill="#666" text-anchor="end">%s</text>`+"\n",
		x, EscapeXML(caption))
}

func (Mono) RenderLane(buf *bytes.Buffer, l Lane) {
	if l.IsFirst {
		fmt.Fprintf(buf, `    <line x1="0" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#333"/>`+"\n", l.Y, l.W, l.Y)
	}
	bottom := l.Y + l.H
	fmt.Fprintf(buf, `    <line x1="0" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#333"/>`+"\n", bottom, l.W, bottom)
	fmt.Fprintf(buf, `    <text x="20" y="%.2f" font-size="14" font-family="monospace" fill="#333" text-anchor="start">%s</text>`+"\n",
		l.Y+30, EscapeXML(strings.ToUpper(l.Name)))
}

func (Mono) RenderTick(buf *bytes.Buffer, t Tick) {
	fmt.Fprintf(buf, `      <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#ddd" stroke-width="1" stroke-dasharray="2,2"/>`+"\n",
		t.X, t.Top, t.X, t.Bottom)
	fmt.Fprintf(buf, `      <text x="%.2f" y="-10" font-size="11" font-family="monospace" fill="#666">%s</text>`+"\n", t.X+3, EscapeXML(t.Label))
}

func (Mono) RenderBox(buf *bytes.Buffer, b Box) {
	fmt.Fprintf(buf, `      <rect id="rect-%d" class="span" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="white" stroke="#333" stroke-width="1.5"/>`+"\n",
		b.ID, b.X, b.Y, b.W, b.H)
}

func (Mono) RenderText(buf *bytes.Buffer, b Box) {
	fmt.Fprintf(buf, `      <text x="%.2f" y="%.2f" font-size="14" font-family="monospace" fill="#111">%s</text>`+"\n",
		b.X+6, b.Y+20, EscapeXML(FitLabel(b.Label, b.W-8, 14)))
}

func (Mono) RenderArrow(buf *bytes.Buffer, a Arrow) {
	renderArrow(buf, a, "#333", ` stroke-dasharray="4,2"`)
}
