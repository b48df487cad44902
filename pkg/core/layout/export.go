package layout

import (
	"github.com/matzehuels/spanlane/pkg/core/sim"
	"github.com/matzehuels/spanlane/pkg/schema"
)

// Export converts the diagram into a serialized lanes layout. Render options
// (style, time mode, scale) are left for the caller to fill in.
func (d *Diagram) Export(modelName string, seed uint64) schema.Layout {
	out := schema.Layout{
		VizType:   schema.VizTypeLanes,
		Model:     modelName,
		Seed:      seed,
		Times:     append([]float64(nil), d.Times...),
		LastTime:  d.LastTime,
		RowHeight: d.RowHeight,
		Padding:   d.Padding,
		UnitWidth: d.UnitWidth,
		Lanes:     make([]schema.Lane, len(d.Lanes)),
		Spans:     make([]schema.PlacedSpan, len(d.spans)),
	}
	for i, l := range d.Lanes {
		out.Lanes[i] = schema.Lane{Name: l.Name, YOffset: l.YOffset, Height: l.Height, Rows: l.RowCount()}
	}
	for i, s := range d.spans {
		row, _ := d.Row(s)
		y, _ := d.SpanY(s)
		out.Spans[i] = schema.PlacedSpan{
			Span: sim.ExportSpan(s),
			Row:  row,
			Y:    y,
			X0:   d.X(s.Start, Ordinal, 1),
			X1:   d.X(s.End, Ordinal, 1),
		}
	}
	if root := d.spans[0]; root.Parent == nil {
		out.Duration = root.End
	}
	return out
}
