// Package config loads spanlane's TOML configuration file.
//
// The file lives at $XDG_CONFIG_HOME/spanlane/config.toml (falling back to
// ~/.config/spanlane/config.toml) unless a path is given explicitly. Every
// key is optional:
//
//	[render]
//	style = "mono"
//	time_mode = "linear"
//	scale = 2.0
//	formats = ["svg", "otlp"]
//
//	[cache]
//	backend = "redis"            # file | memory | redis | none
//	redis_url = "redis://localhost:6379/0"
//	ttl = "12h"
//
//	[server]
//	addr = ":8080"
//
//	[models]
//	dir = "~/spanlane/models"
//
// Command-line flags override the file; the file overrides the pipeline
// defaults.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/spanlane/pkg/errors"
	"github.com/matzehuels/spanlane/pkg/pipeline"
)

const appName = "spanlane"

// Cache backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Backends lists the valid cache backends.
var Backends = []string{BackendFile, BackendMemory, BackendRedis, BackendNone}

// Defaults not covered by the pipeline.
const (
	DefaultAddr        = "127.0.0.1:8080"
	DefaultRedisURL    = "redis://localhost:6379/0"
	DefaultMemoryMB    = 256
	DefaultReadTimeout = 10 * time.Second
)

// Config is the decoded configuration file.
type Config struct {
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Models ModelsConfig `toml:"models"`
}

// RenderConfig holds default pipeline options.
type RenderConfig struct {
	VizType  string   `toml:"viz_type"`
	Style    string   `toml:"style"`
	TimeMode string   `toml:"time_mode"`
	Scale    float64  `toml:"scale"`
	Seed     uint64   `toml:"seed"`
	Formats  []string `toml:"formats"`
	NoArrows bool     `toml:"no_arrows"`
}

// CacheConfig selects and tunes the cache backend.
type CacheConfig struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	MemoryMB int64    `toml:"memory_mb"`
	TTL      Duration `toml:"ttl"`
}

// ServerConfig configures `spanlane serve`.
type ServerConfig struct {
	Addr        string   `toml:"addr"`
	ReadTimeout Duration `toml:"read_timeout"`
}

// ModelsConfig points at a directory of extra model files.
type ModelsConfig struct {
	Dir string `toml:"dir"`
}

// Duration is a time.Duration written as a Go duration string ("90s").
type Duration struct{ time.Duration }

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Render: RenderConfig{
			VizType:  pipeline.DefaultVizType,
			Style:    pipeline.DefaultStyle,
			TimeMode: pipeline.DefaultTimeMode,
			Scale:    pipeline.DefaultScale,
			Formats:  []string{pipeline.FormatSVG},
		},
		Cache: CacheConfig{
			Backend:  BackendFile,
			RedisURL: DefaultRedisURL,
			MemoryMB: DefaultMemoryMB,
		},
		Server: ServerConfig{
			Addr:        DefaultAddr,
			ReadTimeout: Duration{DefaultReadTimeout},
		},
	}
}

// DefaultPath returns the XDG config file location.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns the XDG cache directory used by the file backend.
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load reads the file at path on top of [Default]. An empty path loads the
// default location, where a missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.GetCode(err), err, "config file %s", path)
	}
	return cfg, nil
}

// Decode parses TOML data into cfg, keeping values that data does not set.
// Unknown keys are rejected.
func Decode(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidFormat, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	cfg.Cache.Dir = expandHome(cfg.Cache.Dir)
	cfg.Models.Dir = expandHome(cfg.Models.Dir)
	return cfg.Validate()
}

// Validate checks every enumerated value.
func (c *Config) Validate() error {
	opts := c.PipelineOptions()
	if err := opts.ValidateForRender(); err != nil {
		return err
	}
	if !slices.Contains(Backends, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid cache backend %q (must be one of: %s)", c.Cache.Backend, strings.Join(Backends, ", "))
	}
	if c.Cache.MemoryMB < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache memory_mb must not be negative")
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidDuration, "cache ttl must not be negative")
	}
	return nil
}

// PipelineOptions returns pipeline options carrying the render defaults.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		VizType:  c.Render.VizType,
		Style:    c.Render.Style,
		TimeMode: c.Render.TimeMode,
		Scale:    c.Render.Scale,
		Seed:     c.Render.Seed,
		Formats:  slices.Clone(c.Render.Formats),
		NoArrows: c.Render.NoArrows,
	}
}

// Encode writes cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
