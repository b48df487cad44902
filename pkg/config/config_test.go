package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/spanlane/pkg/errors"
	"github.com/matzehuels/spanlane/pkg/pipeline"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, BackendFile, cfg.Cache.Backend)
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[render]
style = "mono"
time_mode = "linear"
scale = 2.5
seed = 42
formats = ["svg", "otlp"]

[cache]
backend = "redis"
redis_url = "redis://cache:6379/1"
ttl = "12h"

[server]
addr = ":9000"

[models]
dir = "/srv/models"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mono", cfg.Render.Style)
	assert.Equal(t, "linear", cfg.Render.TimeMode)
	assert.Equal(t, 2.5, cfg.Render.Scale)
	assert.Equal(t, pipeline.DefaultVizType, cfg.Render.VizType)
	assert.Equal(t, BackendRedis, cfg.Cache.Backend)
	assert.Equal(t, 12*time.Hour, cfg.Cache.TTL.Duration)
	assert.Equal(t, int64(DefaultMemoryMB), cfg.Cache.MemoryMB)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, DefaultReadTimeout, cfg.Server.ReadTimeout.Duration)
	assert.Equal(t, "/srv/models", cfg.Models.Dir)

	opts := cfg.PipelineOptions()
	assert.Equal(t, uint64(42), opts.Seed)
	assert.Equal(t, []string{"svg", "otlp"}, opts.Formats)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "got %v", err)
}

func TestLoadDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "spanlane"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "spanlane", "config.toml"), []byte("[cache]\nbackend = \"none\"\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendNone, cfg.Cache.Backend)
}

func TestLoadRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"syntax", "[render\n", errors.ErrCodeInvalidFormat},
		{"unknown key", "[render]\ncolour = \"red\"\n", errors.ErrCodeInvalidFormat},
		{"bad style", "[render]\nstyle = \"neon\"\n", errors.ErrCodeInvalidStyle},
		{"bad scale", "[render]\nscale = -1.0\n", errors.ErrCodeInvalidScale},
		{"bad backend", "[cache]\nbackend = \"disk\"\n", errors.ErrCodeInvalidInput},
		{"bad ttl", "[cache]\nttl = \"soon\"\n", errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "models"), expandHome("~/models"))
	assert.Equal(t, "/abs", expandHome("/abs"))
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Cache.TTL = Duration{90 * time.Second}
	data, err := Encode(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), `ttl = "1m30s"`)

	back := Default()
	require.NoError(t, Decode(data, &back))
	assert.Equal(t, cfg, back)
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := CacheDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/xdg/spanlane", dir)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}
