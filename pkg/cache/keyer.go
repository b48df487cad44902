package cache

import "fmt"

// Key prefixes.
const (
	prefixTrace    = "trace"
	prefixLayout   = "layout"
	prefixArtifact = "artifact"
)

// Keyer derives cache keys for each pipeline stage.
type Keyer interface {
	TraceKey(modelHash string, seed uint64) string
	LayoutKey(traceHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the options that change a computed layout.
type LayoutKeyOpts struct {
	VizType  string  `json:"viz_type"`
	Detailed bool    `json:"detailed,omitempty"`
	Style    string  `json:"style"`
	TimeMode string  `json:"time_mode"`
	Scale    float64 `json:"scale"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Style    string  `json:"style"`
	TimeMode string  `json:"time_mode"`
	Scale    float64 `json:"scale"`
	NoArrows bool    `json:"no_arrows,omitempty"`
	Zoom     float64 `json:"zoom,omitempty"`
}

// DefaultKeyer hashes stage inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// TraceKey returns the key of a seeded simulation of a model.
func (DefaultKeyer) TraceKey(modelHash string, seed uint64) string {
	return fmt.Sprintf("%s:%s:%d", prefixTrace, modelHash, seed)
}

// LayoutKey returns the key of a layout computed from a trace.
func (DefaultKeyer) LayoutKey(traceHash string, opts LayoutKeyOpts) string {
	return hashKey(prefixLayout, traceHash, opts)
}

// ArtifactKey returns the key of an artifact rendered from a layout.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey(prefixArtifact, layoutHash, opts)
}
