package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/spanlane/pkg/core/render"
	"github.com/matzehuels/spanlane/pkg/core/render/styles"
	"github.com/matzehuels/spanlane/pkg/errors"
	"github.com/matzehuels/spanlane/pkg/schema"
)

// Options configures span tree rendering.
type Options struct {
	// Detailed adds start, end and duration to node labels.
	// When false, only the span label is shown.
	Detailed bool
	// NoClusters disables grouping spans by service.
	NoClusters bool
}

// ToDOT converts a trace to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(t schema.Trace, opts Options) string {
	palette := &styles.Palette{}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=16, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [color=\"#666\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	if opts.NoClusters {
		for _, s := range t.Spans {
			writeNode(&buf, "  ", s, palette.Color(s.Service), opts.Detailed)
		}
	} else {
		for i, svc := range t.Services() {
			fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
			fmt.Fprintf(&buf, "    label=%q;\n", strings.ToUpper(svc))
			buf.WriteString("    style=dashed;\n    color=\"#ccc\";\n    fontcolor=\"#999\";\n")
			color := palette.Color(svc)
			for _, s := range t.Spans {
				if s.Service == svc {
					writeNode(&buf, "    ", s, color, opts.Detailed)
				}
			}
			buf.WriteString("  }\n")
		}
	}

	buf.WriteString("\n")
	for _, s := range t.Spans {
		if s.Parent != schema.NoParent {
			fmt.Fprintf(&buf, "  %s -> %s;\n", nodeID(s.Parent), nodeID(s.ID))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(id int) string { return "s" + strconv.Itoa(id) }

func writeNode(buf *bytes.Buffer, indent string, s schema.Span, color string, detailed bool) {
	fmt.Fprintf(buf, "%s%s [label=%q, fillcolor=%q];\n", indent, nodeID(s.ID), fmtLabel(s, detailed), color)
}

func fmtLabel(s schema.Span, detailed bool) string {
	label := s.Label
	if label == "" {
		label = "(unnamed)"
	}
	if !detailed {
		return label
	}
	return fmt.Sprintf("%s\n%s → %s (%s)", label, fmtTime(s.Start), fmtTime(s.End), fmtTime(s.Duration()))
}

func fmtTime(t float64) string {
	return strconv.FormatFloat(t, 'f', -1, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing starts at the
// origin and carries explicit pixel dimensions.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDFContext(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion at the given zoom.
func RenderPNG(ctx context.Context, dot string, zoom float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNGContext(ctx, svg, zoom)
}
