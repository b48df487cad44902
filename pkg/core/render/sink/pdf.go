package sink

import (
	"github.com/matzehuels/spanlane/pkg/core/render"
	"github.com/matzehuels/spanlane/pkg/schema"
)

// RenderPDF renders the layout as PDF via SVG conversion.
func RenderPDF(l schema.Layout, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(RenderSVG(l, opts...))
}
