package sink

import (
	"github.com/matzehuels/spanlane/pkg/core/render"
	"github.com/matzehuels/spanlane/pkg/schema"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	svgOpts []SVGOption
	zoom    float64
}

// WithPNGSVGOptions passes options through to the underlying SVG renderer.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.svgOpts = opts }
}

// WithZoom sets the raster zoom factor (default 2.0 for 2x resolution).
// This is applied after the diagram's own time scale.
func WithZoom(z float64) PNGOption {
	return func(r *pngRenderer) { r.zoom = z }
}

// RenderPNG renders the layout as PNG via SVG conversion.
func RenderPNG(l schema.Layout, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{zoom: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	return render.ToPNG(RenderSVG(l, r.svgOpts...), r.zoom)
}
