// Package cli implements the spanlane command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spanlane/pkg/buildinfo"
	"github.com/matzehuels/spanlane/pkg/cache"
	"github.com/matzehuels/spanlane/pkg/config"
	"github.com/matzehuels/spanlane/pkg/modelfile"
	"github.com/matzehuels/spanlane/pkg/models"
	"github.com/matzehuels/spanlane/pkg/observability"
	"github.com/matzehuels/spanlane/pkg/pipeline"
)

const appName = "spanlane"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	verbose    bool
}

// New creates a CLI that logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Spanlane simulates distributed requests and draws them as swim-lane traces",
		Long: `Spanlane builds a model of a distributed request from nested timed
operations, simulates it into a trace of spans, and renders the trace as a
swim-lane diagram with one lane per service.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/spanlane/config.toml)")

	root.AddCommand(c.modelsCommand())
	root.AddCommand(c.simulateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup applies --verbose and loads the config file before any command runs.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
		observability.NewLogHooks(c.Logger).Register()
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.Config = cfg
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	backend := c.Config.Cache.Backend
	if noCache {
		backend = config.BackendNone
	}
	cc, err := newCache(ctx, c.Config.Cache, backend)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cc, nil, c.Logger)
	r.Models = c.extraModels()
	return r, nil
}

// newCache opens the cache backend named by backend.
func newCache(ctx context.Context, cfg config.CacheConfig, backend string) (cache.Cache, error) {
	var (
		cc  cache.Cache
		err error
	)
	switch backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendMemory:
		cc, err = cache.NewMemoryCache(cfg.MemoryMB << 20)
	case config.BackendRedis:
		cc, err = cache.NewRedisCache(ctx, cfg.RedisURL)
	default:
		dir := cfg.Dir
		if dir == "" {
			if dir, err = config.CacheDir(); err != nil {
				return cache.NewNullCache(), nil
			}
		}
		cc, err = cache.NewFileCache(dir)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", backend, err)
	}
	return cache.WithTTL(cc, cfg.TTL.Duration), nil
}

// extraModels loads the configured model directory. Files that fail to load
// are logged and skipped.
func (c *CLI) extraModels() []models.Entry {
	dir := c.Config.Models.Dir
	if dir == "" {
		return nil
	}
	defs, err := modelfile.LoadDir(dir)
	if err != nil {
		c.Logger.Warn("some model files were skipped", "dir", dir, "err", err)
	}
	var entries []models.Entry
	for _, def := range defs {
		e, err := def.Entry()
		if err != nil {
			c.Logger.Warn("skipping model", "name", def.Name, "err", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

// defaultOptions returns pipeline options seeded from the config file.
// Flags bound to the returned struct override them.
func (c *CLI) defaultOptions() pipeline.Options {
	opts := c.Config.PipelineOptions()
	opts.SetRenderDefaults()
	opts.Logger = c.Logger
	return opts
}

// resolveModel fills Model or ModelFile from a positional argument. Paths to
// existing model files win over catalog names.
func resolveModel(opts *pipeline.Options, arg string) {
	if arg == "" {
		return
	}
	if modelfile.IsModelFile(arg) {
		if _, err := os.Stat(arg); err == nil {
			opts.ModelFile = arg
			opts.Model = ""
			return
		}
	}
	opts.Model = arg
	opts.ModelFile = ""
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
