package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/spanlane/pkg/core/layout"
	"github.com/matzehuels/spanlane/pkg/core/model"
	"github.com/matzehuels/spanlane/pkg/core/sim"
	"github.com/matzehuels/spanlane/pkg/errors"
)

func TestWithOverheadInterleavesGaps(t *testing.T) {
	n, err := model.Build(WithOverhead("w", 7, []model.Builder{
		model.Constant("a", 1),
		model.Constant("b", 2),
	}))
	require.NoError(t, err)

	require.Len(t, n.Children, 5)
	assert.False(t, n.IncludeSpan)
	for _, i := range []int{0, 2, 4} {
		assert.Equal(t, GapLabel, n.Children[i].Label)
		assert.Equal(t, 7.0, n.Children[i].Duration)
		assert.False(t, n.Children[i].IncludeSpan)
	}
	assert.Equal(t, "a", n.Children[1].Label)
	assert.Equal(t, "b", n.Children[3].Label)
}

func TestCallTiming(t *testing.T) {
	tr, err := sim.Simulate(Call("outer", model.Constant("inner", 50)))
	require.NoError(t, err)

	require.Len(t, tr.Spans, 2)
	assert.Equal(t, 250.0, tr.Root().End)
	assert.Equal(t, 100.0, tr.Spans[1].Start)
	assert.Equal(t, 150.0, tr.Spans[1].End)
}

func TestServiceCall(t *testing.T) {
	tr, err := sim.Simulate(ServiceCall("API", "GET /x", model.Constant("q", 10, model.WithService("DB"))))
	require.NoError(t, err)
	assert.Equal(t, []string{"API", "DB"}, tr.Services())
	assert.Equal(t, "GET /x", tr.Root().Label())
}

func TestHiddenParallel(t *testing.T) {
	n, err := model.Build(HiddenParallel(model.Constant("a", 1)))
	require.NoError(t, err)
	assert.Equal(t, "", n.Label)
	assert.Equal(t, model.KindParallel, n.Kind)
	assert.False(t, n.IncludeSpan)
}

func TestPageLoad(t *testing.T) {
	tr, err := sim.Simulate(PageLoad())
	require.NoError(t, err)

	var labels []string
	for _, s := range tr.Spans {
		labels = append(labels, s.Label())
	}
	assert.Equal(t, []string{
		"user navigates to /foo",
		"GET /foo",
		"[fetch data]",
		"POST /render",
		"GET server-bundle.js",
		"renderToString()",
		"GET client-bundle.js",
		"hydrate()",
	}, labels)

	assert.Equal(t, []string{"Browser", "Monolith", "DB", "SSR", "CDN"}, tr.Services())
	assert.Equal(t, 974.0, tr.Duration())

	get := tr.Spans[1]
	assert.Equal(t, 62.0, get.Start)
	assert.Equal(t, 772.0, get.End)
	assert.Same(t, tr.Root(), get.Parent)

	render := tr.Spans[3]
	assert.Equal(t, 377.0, render.Start)
	assert.Equal(t, 767.0, render.End)
	assert.Same(t, get, render.Parent)
	assert.Same(t, render, tr.Spans[4].Parent)

	hydrate := tr.Spans[7]
	assert.Equal(t, "Browser", hydrate.Service())
	assert.Equal(t, 918.0, hydrate.Start)
	assert.Same(t, tr.Root(), hydrate.Parent)
}

func TestCatalogModelsSimulateAndLayOut(t *testing.T) {
	for _, e := range Catalog() {
		t.Run(e.Name, func(t *testing.T) {
			require.NoError(t, errors.ValidateModelName(e.Name))
			assert.NotEmpty(t, e.Description)

			tr, err := sim.Simulate(e.Builder, sim.WithSeed(1))
			require.NoError(t, err)
			assert.True(t, tr.Root().IsRoot())

			_, err = layout.Build(tr.Spans)
			require.NoError(t, err)
		})
	}
}

func TestLookup(t *testing.T) {
	e, err := Lookup("page-load")
	require.NoError(t, err)
	assert.Equal(t, "page-load", e.Name)

	_, err = Lookup("nope")
	assert.True(t, errors.Is(err, errors.ErrCodeModelNotFound))

	assert.Equal(t, len(Catalog()), len(Names()))
}
