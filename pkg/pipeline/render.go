package pipeline

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strconv"

	"github.com/matzehuels/spanlane/pkg/core/render/nodelink"
	"github.com/matzehuels/spanlane/pkg/core/render/sink"
	"github.com/matzehuels/spanlane/pkg/core/render/styles"
	"github.com/matzehuels/spanlane/pkg/errors"
	"github.com/matzehuels/spanlane/pkg/export/otlp"
	"github.com/matzehuels/spanlane/pkg/schema"
)

// RenderFromLayout renders l in every requested format. Options left empty
// fall back to the values recorded in the layout.
func RenderFromLayout(ctx context.Context, l schema.Layout, opts Options) (map[string][]byte, error) {
	opts = applyLayoutMetadata(opts, l)
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error
		switch {
		case format == FormatOTLP:
			data, err = renderOTLP(l)
		case l.IsTree():
			data, err = renderTree(ctx, l, format, opts)
		default:
			data, err = renderLanes(l, format, opts)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFromLayoutData decodes a serialized layout and renders it.
func RenderFromLayoutData(ctx context.Context, data []byte, opts Options) (map[string][]byte, error) {
	l, err := schema.UnmarshalLayout(data)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return RenderFromLayout(ctx, l, opts)
}

func renderLanes(l schema.Layout, format string, opts Options) ([]byte, error) {
	svgOpts, err := buildSVGOptions(opts)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatSVG:
		return sink.RenderSVG(l, svgOpts...), nil
	case FormatPNG:
		return sink.RenderPNG(l, sink.WithPNGSVGOptions(svgOpts...), sink.WithZoom(opts.Zoom))
	case FormatPDF:
		return sink.RenderPDF(l, svgOpts...)
	case FormatJSON:
		return sink.RenderJSON(l,
			sink.WithJSONStyle(opts.Style),
			sink.WithJSONTimeMode(opts.TimeMode),
			sink.WithJSONScale(opts.Scale))
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "format %q is not supported for lanes layouts", format)
}

func renderTree(ctx context.Context, l schema.Layout, format string, opts Options) ([]byte, error) {
	dot, err := nodelink.Parse(l)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		return nodelink.RenderPNG(ctx, dot, opts.Zoom)
	case FormatPDF:
		return nodelink.RenderPDF(ctx, dot)
	case FormatJSON:
		return schema.MarshalLayout(l)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "format %q is not supported for tree layouts", format)
}

// renderOTLP exports the layout's spans. Seeded runs get a trace ID derived
// from model and seed so re-exports of the same run correlate.
func renderOTLP(l schema.Layout) ([]byte, error) {
	var opts []otlp.Option
	if l.Seed != 0 {
		sum := sha256.Sum256([]byte(l.Model + ":" + strconv.FormatUint(l.Seed, 10)))
		opts = append(opts, otlp.WithTraceID([16]byte(sum[:16])))
	}
	data, err := otlp.FromTrace(l.Trace(), opts...)
	if err != nil {
		return nil, err
	}
	return otlp.Marshal(data)
}

func buildSVGOptions(opts Options) ([]sink.SVGOption, error) {
	style, err := styles.New(opts.Style)
	if err != nil {
		return nil, err
	}
	svgOpts := []sink.SVGOption{
		sink.WithStyle(style),
		sink.WithTimeMode(opts.TimeMode),
		sink.WithScale(opts.Scale),
	}
	if opts.NoArrows {
		svgOpts = append(svgOpts, sink.WithoutArrows())
	}
	return svgOpts, nil
}

// applyLayoutMetadata fills empty render options from the layout.
func applyLayoutMetadata(opts Options, l schema.Layout) Options {
	if opts.VizType == "" {
		opts.VizType = l.VizType
	}
	if opts.Style == "" {
		opts.Style = l.Style
	}
	if opts.TimeMode == "" {
		opts.TimeMode = l.TimeMode
	}
	if opts.Scale == 0 {
		opts.Scale = l.Scale
	}
	if opts.Seed == 0 {
		opts.Seed = l.Seed
	}
	return opts
}
