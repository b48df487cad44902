package sink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/spanlane/pkg/schema"
)

func TestRenderJSONRoundTrip(t *testing.T) {
	l := testLayout(t)

	data, err := RenderJSON(l, WithJSONStyle("mono"), WithJSONTimeMode("linear"), WithJSONScale(1.5))
	require.NoError(t, err)
	assert.Empty(t, l.Style, "input modified")

	got, err := schema.UnmarshalLayout(data)
	require.NoError(t, err)
	assert.Equal(t, "mono", got.Style)
	assert.Equal(t, "linear", got.TimeMode)
	assert.Equal(t, 1.5, got.Scale)
	assert.Equal(t, string(RenderSVG(l)), string(RenderSVG(got, WithTimeMode("ordinal"), WithScale(1))),
		"re-rendered layout differs from the original")
}
