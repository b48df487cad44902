package modelfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/spanlane/pkg/core/model"
	"github.com/matzehuels/spanlane/pkg/core/sim"
	"github.com/matzehuels/spanlane/pkg/errors"
	"github.com/matzehuels/spanlane/pkg/models"
)

func checkoutDSL() model.Builder {
	return models.WithOverhead("POST /checkout", 10, []model.Builder{
		model.Constant("SELECT cart", 40, model.WithService("DB")),
		model.Parallel("", []model.Builder{
			model.Normal("charge card", 120, 0, model.WithService("Payments")),
			model.Constant("reserve stock", 30, model.WithService("Inventory")),
		}),
	}, model.WithSpan(), model.WithService("API"))
}

func TestLoadMatchesDSL(t *testing.T) {
	want, err := sim.Simulate(checkoutDSL(), sim.WithSeed(1))
	require.NoError(t, err)

	for _, name := range []string{"checkout.toml", "checkout.yaml", "checkout.json"} {
		t.Run(name, func(t *testing.T) {
			def, err := Load(filepath.Join("testdata", name))
			require.NoError(t, err)
			assert.Equal(t, "checkout", def.Name)

			b, err := def.Builder()
			require.NoError(t, err)
			got, err := sim.Simulate(b, sim.WithSeed(1))
			require.NoError(t, err)

			assert.Equal(t, want.Table(), got.Table())
			assert.Equal(t, 190.0, got.Duration())
		})
	}
}

func TestLoadDefaultsNameToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Ping.yaml")
	require.NoError(t, os.WriteFile(path, []byte("label: ping\nkind: constant\nduration: 1\n"), 0o644))

	def, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ping", def.Name)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))

	_, err = Load("model.txt")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))

	_, err = Load("../model.toml")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidPath))
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		format string
		data   string
	}{
		{FormatTOML, "label = \"x\"\nkind = \"constant\"\ndurration = 1\n"},
		{FormatYAML, "label: x\nkind: constant\ndurration: 1\n"},
		{FormatJSON, `{"label": "x", "kind": "constant", "durration": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), tt.format)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
		})
	}
}

func TestDecodeRejectsBadName(t *testing.T) {
	_, err := Decode([]byte(`{"name": "Bad Name", "kind": "constant", "duration": 1}`), FormatJSON)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestBuilderErrors(t *testing.T) {
	one := 1.0
	tests := []struct {
		name string
		spec Spec
	}{
		{"missing kind", Spec{Label: "x"}},
		{"unknown kind", Spec{Label: "x", Kind: "sometimes"}},
		{"constant without duration", Spec{Label: "x", Kind: "constant"}},
		{"normal without mean", Spec{Label: "x", Kind: "normal"}},
		{"leaf with children", Spec{Label: "x", Kind: "constant", Duration: &one, Children: []Spec{{Kind: "gap", Duration: &one}}}},
		{"nested error", Spec{Kind: "serial", Children: []Spec{{Label: "y", Kind: "normal"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.spec.Builder()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidModel))
		})
	}
}

func TestBuilderNestedErrorPath(t *testing.T) {
	s := Spec{Label: "outer", Kind: "serial", Children: []Spec{{Label: "inner", Kind: "normal"}}}
	_, err := s.Builder()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "root/outer[0]/inner")
}

func TestGapAndCall(t *testing.T) {
	five := 5.0
	s := Spec{Label: "c", Kind: "call", Children: []Spec{{Kind: "gap", Duration: &five}}}
	b, err := s.Builder()
	require.NoError(t, err)

	tr, err := sim.Simulate(b, sim.WithSeed(1))
	require.NoError(t, err)
	require.Len(t, tr.Spans, 1)
	assert.Equal(t, 205.0, tr.Duration())
}

func TestSpanOverride(t *testing.T) {
	one := 1.0
	hide := false
	s := Spec{Label: "root", Kind: "serial", Span: boolPtr(true), Children: []Spec{
		{Label: "shown", Kind: "constant", Duration: &one},
		{Label: "hidden", Kind: "constant", Duration: &one, Span: &hide},
	}}
	b, err := s.Builder()
	require.NoError(t, err)
	n, err := model.Build(b)
	require.NoError(t, err)
	assert.Equal(t, 2, n.VisibleCount())
}

func TestLoadDir(t *testing.T) {
	defs, err := LoadDir("testdata")
	require.NoError(t, err)
	require.Len(t, defs, 3)
	for _, d := range defs {
		assert.Equal(t, "checkout", d.Name)
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.json"), []byte(`{"kind": "constant", "duration": 1}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o644))

	defs, err = LoadDir(dir)
	require.Error(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "good", defs[0].Name)
}

func TestExampleModels(t *testing.T) {
	defs, err := LoadDir(filepath.Join("..", "..", "examples", "models"))
	require.NoError(t, err)
	require.NotEmpty(t, defs)
	for _, d := range defs {
		b, err := d.Builder()
		require.NoError(t, err, d.Name)
		_, err = sim.Simulate(b)
		require.NoError(t, err, d.Name)
	}
}

func boolPtr(v bool) *bool { return &v }
