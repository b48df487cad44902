package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/spanlane/pkg/errors"
)

func TestToPNGRejectsZoom(t *testing.T) {
	_, err := ToPNG([]byte("<svg/>"), 0)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidScale), "got %v", err)
}

func TestMissingConverter(t *testing.T) {
	if Available() {
		t.Skip("rsvg-convert installed")
	}
	_, err := ToPDF([]byte("<svg/>"))
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported), "got %v", err)
}

func TestToPDF(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	out, err := ToPDF([]byte(`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"/>`))
	require.NoError(t, err)
	assert.True(t, len(out) >= 4 && string(out[:4]) == "%PDF", "output is not a PDF")
}
