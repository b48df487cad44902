package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/spanlane/pkg/schema"
)

func testTrace() schema.Trace {
	return schema.Trace{
		Model: "demo",
		Seed:  3,
		Spans: []schema.Span{
			{ID: 0, Parent: -1, Label: "GET /foo", Service: "Monolith", Start: 0, End: 180},
			{ID: 1, Parent: 0, Label: "fetch", Service: "DB", Start: 0, End: 120},
			{ID: 2, Parent: 0, Label: "render", Service: "Monolith", Start: 120, End: 180},
		},
		Duration: 180,
	}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(testTrace(), Options{})

	for _, want := range []string{
		"digraph G",
		`s0 [label="GET /foo"`,
		"s0 -> s1;",
		"s0 -> s2;",
		`label="MONOLITH";`,
		`label="DB";`,
	} {
		assert.Contains(t, dot, want)
	}
	assert.Equal(t, 2, strings.Count(dot, "subgraph cluster_"), "one cluster per service")
	assert.Equal(t, 2, strings.Count(dot, "->"), "one edge per non-root span")
}

func TestToDOT_NoClusters(t *testing.T) {
	dot := ToDOT(testTrace(), Options{NoClusters: true})
	assert.NotContains(t, dot, "subgraph")
	assert.Contains(t, dot, `fillcolor="#fbb4ae"`, "first service gets the first palette color")
}

func TestFmtLabel(t *testing.T) {
	s := schema.Span{Label: "fetch", Start: 10, End: 42.5}

	assert.Equal(t, "fetch", fmtLabel(s, false))
	assert.Equal(t, "fetch\n10 → 42.5 (32.5)", fmtLabel(s, true))
	assert.Equal(t, "(unnamed)", fmtLabel(schema.Span{}, false))
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(normalizeViewBox([]byte(tt.svg))))
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(testTrace(), Options{Detailed: true}))
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	_, err := RenderSVG(context.Background(), `not valid DOT {{{`)
	assert.Error(t, err)
}

func TestExportParse(t *testing.T) {
	tr := testTrace()
	dot := ToDOT(tr, Options{})
	l := Export(dot, tr, "simple")

	assert.True(t, l.IsTree())
	assert.Equal(t, "dot", l.Engine)
	assert.Equal(t, "demo", l.Model)
	assert.NoError(t, l.Validate())

	got, err := Parse(l)
	require.NoError(t, err)
	assert.Equal(t, dot, got)

	_, err = Parse(schema.Layout{VizType: schema.VizTypeLanes, DOT: dot})
	assert.Error(t, err, "lanes layout accepted")
	_, err = Parse(schema.Layout{VizType: schema.VizTypeTree})
	assert.Error(t, err, "empty DOT accepted")
}
