package sink

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/spanlane/pkg/core/layout"
	"github.com/matzehuels/spanlane/pkg/core/model"
	"github.com/matzehuels/spanlane/pkg/core/render/styles"
	"github.com/matzehuels/spanlane/pkg/core/sim"
	"github.com/matzehuels/spanlane/pkg/schema"
)

func testLayout(t *testing.T) schema.Layout {
	t.Helper()
	tr, err := sim.Simulate(model.Serial("GET /foo", []model.Builder{
		model.Constant("fetch", 120, model.WithService("DB")),
		model.Constant("render", 60),
	}, model.WithSpan(), model.WithService("Monolith")))
	require.NoError(t, err)
	d, err := layout.Build(tr.Spans)
	require.NoError(t, err)
	return d.Export("test", tr.Seed)
}

func TestRenderSVGStructure(t *testing.T) {
	svg := string(RenderSVG(testLayout(t)))

	require.True(t, strings.HasPrefix(svg, "<svg") && strings.HasSuffix(svg, "</svg>\n"), "not a complete svg document")
	assert.Equal(t, 3, strings.Count(svg, `class="span"`), "span boxes")
	assert.Equal(t, 4, strings.Count(svg, `marker-end="url(#triangle)"`), "arrows")
	for _, want := range []string{">MONOLITH<", ">DB<", "time (non-linear) →", ">GET /foo<"} {
		assert.Contains(t, svg, want)
	}
}

func TestRenderSVGFrame(t *testing.T) {
	l := testLayout(t)
	w, h := l.Frame(schema.TimeModeOrdinal, 1)

	// Times 0, 120, 180 put the last event at x=100. Monolith needs two rows
	// (90) and DB one (50).
	assert.Equal(t, 400.0, w)
	assert.Equal(t, 181.0, h)
	svg := string(RenderSVG(l))
	assert.Contains(t, svg, `viewBox="0 0 400.00 181.00" width="400" height="181"`)
}

func TestRenderSVGLinearTicks(t *testing.T) {
	svg := string(RenderSVG(testLayout(t), WithTimeMode(schema.TimeModeLinear), WithScale(2)))

	for _, want := range []string{">0ms<", ">50ms<", ">200ms<", "time (ms) →"} {
		assert.Contains(t, svg, want)
	}
	assert.NotContains(t, svg, ">250ms<", "tick past LastTime + step")
	// The render box spans 120..180 at scale 2.
	assert.Contains(t, svg, `x="240.00"`)
	assert.Contains(t, svg, `width="120.00"`)
}

func TestRenderSVGOrdinalTickLabels(t *testing.T) {
	svg := string(RenderSVG(testLayout(t)))
	for _, want := range []string{`fill="#999">0</text>`, `fill="#999">1</text>`, `fill="#999">2</text>`} {
		assert.Contains(t, svg, want)
	}
}

func TestRenderSVGArrowDirection(t *testing.T) {
	svg := string(RenderSVG(testLayout(t)))
	// fetch sits in the DB lane at y=90, below the root; the entry arrow runs
	// from the root's bottom edge to the child's top edge, the exit arrow back.
	assert.Contains(t, svg, `x1="0.00" y1="40.00" x2="0.00" y2="100.00"`, "downward entry arrow")
	assert.Contains(t, svg, `x1="50.00" y1="100.00" x2="50.00" y2="40.00"`, "upward exit arrow")
}

func TestRenderSVGOptions(t *testing.T) {
	l := testLayout(t)

	assert.NotContains(t, string(RenderSVG(l, WithoutArrows())), "marker-end")

	mono := string(RenderSVG(l, WithStyle(styles.Mono{})))
	assert.NotContains(t, mono, styles.Pastel1[0], "mono style used palette colors")

	p := styles.NewPalette([]string{"#000001", "#000002"})
	custom := string(RenderSVG(l, WithPalette(p)))
	assert.Contains(t, custom, "#000001")
	assert.Contains(t, custom, "#000002")
}

func TestRenderSVGUsesRecordedOptions(t *testing.T) {
	l := testLayout(t)
	l.TimeMode = schema.TimeModeLinear
	assert.Contains(t, string(RenderSVG(l)), "time (ms) →")
}
