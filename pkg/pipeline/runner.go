package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spanlane/pkg/cache"
	"github.com/matzehuels/spanlane/pkg/core/model"
	"github.com/matzehuels/spanlane/pkg/core/sim"
	"github.com/matzehuels/spanlane/pkg/modelfile"
	"github.com/matzehuels/spanlane/pkg/models"
	"github.com/matzehuels/spanlane/pkg/observability"
	"github.com/matzehuels/spanlane/pkg/schema"
)

// Cache stage names reported to [observability.CacheHooks].
const (
	stageTrace    = "trace"
	stageLayout   = "layout"
	stageArtifact = "artifact"
)

// Runner executes pipeline stages with caching. It holds no per-run state and
// is safe for concurrent use when its cache is.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Models are searched by name before the built-in catalog.
	Models []models.Entry
}

// NewRunner returns a runner. A nil cache disables caching; a nil keyer
// uses [cache.DefaultKeyer].
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs every stage and returns all intermediate results.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	entry, err := r.LoadModel(opts)
	if err != nil {
		return nil, err
	}
	result := &Result{Model: entry.Name}

	start := time.Now()
	tr, hit, err := r.SimulateWithCacheInfo(ctx, entry, opts)
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	result.Trace = tr
	result.CacheInfo.TraceHit = hit
	result.Stats.SimulateTime = time.Since(start)
	result.Stats.SpanCount = len(tr.Spans)
	result.Stats.Services = len(tr.Services())
	result.Stats.Duration = tr.Duration()
	r.Logger.Info("simulated", "model", entry.Name, "spans", len(tr.Spans), "duration", tr.Duration(), "seed", tr.Seed, "cached", hit)

	start = time.Now()
	l, hit, err := r.LayoutWithCacheInfo(ctx, entry.Name, tr, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.CacheInfo.LayoutHit = hit
	result.Stats.LayoutTime = time.Since(start)
	r.Logger.Info("laid out", "type", l.VizType, "lanes", len(l.Lanes), "cached", hit)

	start = time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = hit
	result.Stats.RenderTime = time.Since(start)
	r.Logger.Info("rendered", "formats", opts.Formats, "cached", hit)

	return result, nil
}

// LoadModel resolves the model named by opts: a model file, one of the
// runner's extra models, or a catalog entry.
func (r *Runner) LoadModel(opts Options) (models.Entry, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return models.Entry{}, err
	}
	if opts.ModelFile != "" {
		def, err := modelfile.Load(opts.ModelFile)
		if err != nil {
			return models.Entry{}, err
		}
		return def.Entry()
	}
	for _, e := range r.Models {
		if e.Name == opts.Model {
			return e, nil
		}
	}
	return models.Lookup(opts.Model)
}

// Catalog returns the runner's extra models followed by the built-in catalog,
// skipping catalog entries shadowed by an extra model of the same name.
func (r *Runner) Catalog() []models.Entry {
	out := append([]models.Entry(nil), r.Models...)
	for _, e := range models.Catalog() {
		if !containsModel(out, e.Name) {
			out = append(out, e)
		}
	}
	return out
}

func containsModel(entries []models.Entry, name string) bool {
	for _, e := range entries {
		if e.Name == name {
			return true
		}
	}
	return false
}

// SimulateWithCacheInfo builds and simulates entry. Seeded runs are cached
// under the hash of the built model tree.
func (r *Runner) SimulateWithCacheInfo(ctx context.Context, entry models.Entry, opts Options) (*sim.Trace, bool, error) {
	hooks := observability.Pipeline()
	hooks.OnSimulateStart(ctx, entry.Name)
	start := time.Now()

	tr, hit, err := r.simulate(ctx, entry, opts)
	spans := 0
	if tr != nil {
		spans = len(tr.Spans)
	}
	hooks.OnSimulateComplete(ctx, entry.Name, spans, time.Since(start), err)
	return tr, hit, err
}

func (r *Runner) simulate(ctx context.Context, entry models.Entry, opts Options) (*sim.Trace, bool, error) {
	node, err := model.Build(entry.Builder)
	if err != nil {
		return nil, false, err
	}

	var simOpts []sim.Option
	if opts.Seed != 0 {
		simOpts = append(simOpts, sim.WithSeed(opts.Seed))
	}
	if !opts.Cacheable() {
		tr, err := sim.Run(node, simOpts...)
		return tr, false, err
	}

	modelHash, err := hashNode(node)
	if err != nil {
		return nil, false, err
	}
	key := r.Keyer.TraceKey(modelHash, opts.Seed)
	if data, ok := r.get(ctx, stageTrace, key); ok {
		if t, err := schema.UnmarshalTrace(data); err == nil {
			if tr, err := sim.Import(t); err == nil {
				return tr, true, nil
			}
		}
		r.Logger.Debug("discarding unreadable cached trace", "key", key)
	}

	tr, err := sim.Run(node, simOpts...)
	if err != nil {
		return nil, false, err
	}
	if data, err := schema.MarshalTrace(tr.Export(entry.Name)); err == nil {
		r.set(ctx, stageTrace, key, data, cache.TTLTrace)
	}
	return tr, false, nil
}

// Simulate is [Runner.SimulateWithCacheInfo] without the cache flag.
func (r *Runner) Simulate(ctx context.Context, entry models.Entry, opts Options) (*sim.Trace, error) {
	tr, _, err := r.SimulateWithCacheInfo(ctx, entry, opts)
	return tr, err
}

// LayoutWithCacheInfo lays out tr, caching by trace content and layout
// options.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, modelName string, tr *sim.Trace, opts Options) (schema.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return schema.Layout{}, false, err
	}
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.VizType, len(tr.Spans))
	start := time.Now()

	l, hit, err := r.layout(ctx, modelName, tr, opts)
	hooks.OnLayoutComplete(ctx, opts.VizType, time.Since(start), err)
	return l, hit, err
}

func (r *Runner) layout(ctx context.Context, modelName string, tr *sim.Trace, opts Options) (schema.Layout, bool, error) {
	if !opts.Cacheable() {
		l, err := GenerateLayout(modelName, tr, opts)
		return l, false, err
	}

	traceData, err := schema.MarshalTrace(tr.Export(modelName))
	if err != nil {
		return schema.Layout{}, false, err
	}
	key := r.Keyer.LayoutKey(cache.Hash(traceData), opts.LayoutKeyOpts())
	if data, ok := r.get(ctx, stageLayout, key); ok {
		if l, err := schema.UnmarshalLayout(data); err == nil {
			return l, true, nil
		}
	}

	l, err := GenerateLayout(modelName, tr, opts)
	if err != nil {
		return schema.Layout{}, false, err
	}
	if data, err := schema.MarshalLayout(l); err == nil {
		r.set(ctx, stageLayout, key, data, cache.TTLLayout)
	}
	return l, false, nil
}

// Layout is [Runner.LayoutWithCacheInfo] without the cache flag.
func (r *Runner) Layout(ctx context.Context, modelName string, tr *sim.Trace, opts Options) (schema.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, modelName, tr, opts)
	return l, err
}

// RenderWithCacheInfo renders l in every requested format. Artifacts are keyed
// by layout content, so they are cached even for unseeded runs. The hit flag
// is true only if all formats came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l schema.Layout, opts Options) (map[string][]byte, bool, error) {
	opts = applyLayoutMetadata(opts, l)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, hit, err := r.render(ctx, l, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, hit, err
}

func (r *Runner) render(ctx context.Context, l schema.Layout, opts Options) (map[string][]byte, bool, error) {
	if opts.Refresh {
		out, err := RenderFromLayout(ctx, l, opts)
		return out, false, err
	}

	layoutData, err := schema.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, ok := r.get(ctx, stageArtifact, key); ok {
			artifacts[format] = data
		} else {
			missing = append(missing, format)
		}
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	sub := opts
	sub.Formats = missing
	rendered, err := RenderFromLayout(ctx, l, sub)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		r.set(ctx, stageArtifact, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact)
	}
	return artifacts, false, nil
}

// Render is [Runner.RenderWithCacheInfo] without the cache flag.
func (r *Runner) Render(ctx context.Context, l schema.Layout, opts Options) (map[string][]byte, error) {
	out, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return out, err
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) get(ctx context.Context, stage, key string) ([]byte, bool) {
	data, ok, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "stage", stage, "err", err)
		ok = false
	}
	if ok {
		observability.Cache().OnCacheHit(ctx, stage)
	} else {
		observability.Cache().OnCacheMiss(ctx, stage)
	}
	return data, ok
}

func (r *Runner) set(ctx context.Context, stage, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "stage", stage, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, stage, len(data))
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func hashNode(n *model.Node) (string, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return "", fmt.Errorf("hash model: %w", err)
	}
	return cache.Hash(data), nil
}
