package styles

// Pastel1 is the nine-color qualitative palette used for service lanes.
var Pastel1 = []string{
	"#fbb4ae", "#b3cde3", "#ccebc5", "#decbe4", "#fed9a6",
	"#ffffcc", "#e5d8bd", "#fddaec", "#f2f2f2",
}

// Palette assigns colors to keys in order of first request, cycling when
// the colors run out. The zero value uses [Pastel1].
type Palette struct {
	Colors   []string
	assigned map[string]string
}

// NewPalette returns a palette over colors. Keys listed in preassign are
// assigned first, in order.
func NewPalette(colors []string, preassign ...string) *Palette {
	p := &Palette{Colors: colors}
	for _, k := range preassign {
		p.Color(k)
	}
	return p
}

// Color returns the color for key.
func (p *Palette) Color(key string) string {
	if c, ok := p.assigned[key]; ok {
		return c
	}
	if p.assigned == nil {
		p.assigned = make(map[string]string)
	}
	colors := p.Colors
	if len(colors) == 0 {
		colors = Pastel1
	}
	c := colors[len(p.assigned)%len(colors)]
	p.assigned[key] = c
	return c
}
