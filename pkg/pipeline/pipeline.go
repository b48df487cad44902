// Package pipeline runs the load → simulate → layout → render pipeline shared
// by the CLI and the HTTP viewer.
//
// # Stages
//
//  1. Load: resolve a catalog model by name or read a model file
//  2. Simulate: run the model into a trace
//  3. Layout: pack spans into lanes, or build the span tree DOT
//  4. Render: produce SVG, PNG, PDF, layout JSON or OTLP JSON
//
// Each stage can run alone. A [Runner] adds caching between stages; a
// simulation is only cached when it is seeded, so every cached artifact is a
// pure function of its key.
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Model:   "page-load",
//	    Seed:    7,
//	    Formats: []string{"svg", "otlp"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spanlane/pkg/cache"
	"github.com/matzehuels/spanlane/pkg/core/sim"
	"github.com/matzehuels/spanlane/pkg/errors"
	"github.com/matzehuels/spanlane/pkg/schema"
)

// Defaults shared by the CLI, the server and config files.
const (
	DefaultModel    = "page-load"
	DefaultVizType  = schema.VizTypeLanes
	DefaultStyle    = schema.StyleSimple
	DefaultTimeMode = schema.TimeModeOrdinal
	DefaultScale    = 1.0
	DefaultZoom     = 2.0
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatOTLP = "otlp"
)

// Formats lists the supported output formats.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON, FormatOTLP}

// Extension returns the file suffix used when writing format to disk.
func Extension(format string) string {
	switch format {
	case FormatJSON:
		return ".layout.json"
	case FormatOTLP:
		return ".otlp.json"
	}
	return "." + format
}

// Options configures a pipeline run. It is JSON-serializable so the server can
// decode it from query parameters or request bodies.
type Options struct {
	// Load and simulate
	Model     string `json:"model,omitempty"`
	ModelFile string `json:"model_file,omitempty"`
	Seed      uint64 `json:"seed,omitempty"`
	Refresh   bool   `json:"refresh,omitempty"`

	// Layout
	VizType  string `json:"viz_type,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`

	// Render
	Formats  []string `json:"formats,omitempty"`
	Style    string   `json:"style,omitempty"`
	TimeMode string   `json:"time_mode,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	NoArrows bool     `json:"no_arrows,omitempty"`
	Zoom     float64  `json:"zoom,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Result holds the outputs of [Runner.Execute].
type Result struct {
	Model     string
	Trace     *sim.Trace
	Layout    schema.Layout
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats records sizes and stage timings.
type Stats struct {
	SpanCount    int
	Services     int
	Duration     float64
	SimulateTime time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo records which stages were served from the cache.
type CacheInfo struct {
	TraceHit  bool
	LayoutHit bool
	RenderHit bool
}

// Cacheable reports whether results of this run may be cached.
func (o *Options) Cacheable() bool { return o.Seed != 0 && !o.Refresh }

// ValidateFormat checks a single output format.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats checks every format in formats.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks a style name.
func ValidateStyle(style string) error {
	if !schema.IsValidStyle(style) {
		return errors.New(errors.ErrCodeInvalidStyle, "invalid style %q (must be one of: %s)", style, strings.Join(schema.Styles, ", "))
	}
	return nil
}

// ValidateVizType checks a visualization type.
func ValidateVizType(vizType string) error {
	if !schema.IsValidVizType(vizType) {
		return errors.New(errors.ErrCodeInvalidVizType, "invalid viz type %q (must be one of: %s)", vizType, strings.Join(schema.VizTypes, ", "))
	}
	return nil
}

// ValidateTimeMode checks a time mode name.
func ValidateTimeMode(mode string) error {
	if !schema.IsValidTimeMode(mode) {
		return errors.New(errors.ErrCodeInvalidTimeMode, "invalid time mode %q (must be one of: %s)", mode, strings.Join(schema.TimeModes, ", "))
	}
	return nil
}

// ValidateForLoad checks that a model is named, defaulting to
// [DefaultModel] when neither a name nor a file is given.
func (o *Options) ValidateForLoad() error {
	if o.Model == "" && o.ModelFile == "" {
		o.Model = DefaultModel
	}
	if o.Model != "" && o.ModelFile != "" {
		return errors.New(errors.ErrCodeInvalidInput, "model and model_file are mutually exclusive")
	}
	if o.ModelFile != "" {
		return errors.ValidatePath(o.ModelFile)
	}
	return nil
}

// SetLayoutDefaults fills unset layout options.
func (o *Options) SetLayoutDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.TimeMode == "" {
		o.TimeMode = DefaultTimeMode
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	o.setLogger()
}

// ValidateForLayout applies layout defaults and validates them.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	if err := ValidateTimeMode(o.TimeMode); err != nil {
		return err
	}
	return errors.ValidateScale(o.Scale)
}

// SetRenderDefaults fills unset render options.
func (o *Options) SetRenderDefaults() {
	o.SetLayoutDefaults()
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Zoom == 0 {
		o.Zoom = DefaultZoom
	}
}

// ValidateForRender applies render defaults and validates them.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Zoom < 0 {
		return errors.New(errors.ErrCodeInvalidScale, "zoom must be positive, got %v", o.Zoom)
	}
	return nil
}

// ValidateAndSetDefaults prepares options for a full run.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// IsTree reports whether the run produces a span tree instead of lanes.
func (o *Options) IsTree() bool { return o.VizType == schema.VizTypeTree }

// LayoutKeyOpts returns the cache key options for the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		VizType:  o.VizType,
		Detailed: o.Detailed,
		Style:    o.Style,
		TimeMode: o.TimeMode,
		Scale:    o.Scale,
	}
}

// ArtifactKeyOpts returns the cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Style:    o.Style,
		TimeMode: o.TimeMode,
		Scale:    o.Scale,
		NoArrows: o.NoArrows,
		Zoom:     o.Zoom,
	}
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
