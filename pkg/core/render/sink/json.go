package sink

import (
	"github.com/matzehuels/spanlane/pkg/schema"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*schema.Layout)

// WithJSONStyle records the style name in the output.
func WithJSONStyle(s string) JSONOption { return func(l *schema.Layout) { l.Style = s } }

// WithJSONTimeMode records the time mode so a later render reproduces the
// same axis.
func WithJSONTimeMode(m string) JSONOption { return func(l *schema.Layout) { l.TimeMode = m } }

// WithJSONScale records the scale factor.
func WithJSONScale(s float64) JSONOption { return func(l *schema.Layout) { l.Scale = s } }

// RenderJSON exports the layout as pretty-printed JSON with the given render
// options recorded. l itself is not modified.
func RenderJSON(l schema.Layout, opts ...JSONOption) ([]byte, error) {
	for _, opt := range opts {
		opt(&l)
	}
	return schema.MarshalLayout(l)
}
