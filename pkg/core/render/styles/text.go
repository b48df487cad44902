package styles

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/matzehuels/spanlane/pkg/schema"
)

// Approximate advance of one character as a fraction of the font size.
const charWidthRatio = 0.55

func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// Caption returns the time axis caption for the given time mode.
func Caption(timeMode string) string {
	if timeMode == schema.TimeModeLinear {
		return "time (ms) →"
	}
	return "time (non-linear) →"
}

// FitLabel shortens label so it roughly fits in width at fontSize. Labels
// are never cut below three characters.
func FitLabel(label string, width, fontSize float64) string {
	if width <= 0 || fontSize <= 0 {
		return label
	}
	maxChars := max(3, int(width/(fontSize*charWidthRatio)))
	runes := []rune(label)
	if len(runes) <= maxChars {
		return label
	}
	return strings.TrimSpace(string(runes[:maxChars-1])) + "…"
}
