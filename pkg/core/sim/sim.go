package sim

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/matzehuels/spanlane/pkg/core/model"
	"github.com/matzehuels/spanlane/pkg/errors"
)

// Option configures a simulation run.
type Option func(*config)

type config struct {
	seed   uint64
	seeded bool
}

// WithSeed makes the run deterministic. Two runs of the same tree with the
// same seed produce identical traces.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
		c.seeded = true
	}
}

// Simulate builds root against [model.RootContext] and runs it from time 0.
func Simulate(root model.Builder, opts ...Option) (*Trace, error) {
	node, err := model.Build(root)
	if err != nil {
		return nil, err
	}
	return Run(node, opts...)
}

// Run simulates an already built tree from time 0.
func Run(root *model.Node, opts ...Option) (*Trace, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidModel, "root node is nil")
	}

	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.seeded {
		cfg.seed = rand.Uint64()
	}

	out := Step(root, 0, nil, rand.NewPCG(cfg.seed, cfg.seed^0x9e3779b97f4a7c15))
	if len(out.Spans) != 1 {
		return nil, errors.New(errors.ErrCodeRootSpan, "root must produce exactly one span, got %d", len(out.Spans))
	}

	t := &Trace{Seed: cfg.seed}
	flatten(out.Spans[0], &t.Spans)
	return t, nil
}

// Outcome is the result of simulating one node: when it ended and the spans
// it contributes to its parent's span list.
type Outcome struct {
	End   float64
	Spans []*Span
}

// Step simulates n starting at start with parent as the nearest visible
// ancestor span. Visible composites own their descendants, so Spans holds at
// most one span when n is visible.
func Step(n *model.Node, start float64, parent *Span, src rand.Source) Outcome {
	var own *Span
	if n.IncludeSpan {
		own = &Span{Node: n, Start: start, End: start, Parent: parent}
		parent = own
	}

	var end float64
	var spans []*Span

	switch n.Kind {
	case model.KindConstant:
		end = start + n.Duration
	case model.KindNormal:
		end = start + sample(n.Mean, n.StdDev, src)
	case model.KindSerial:
		end = start
		for _, c := range n.Children {
			out := Step(c, end, parent, src)
			end = out.End
			spans = append(spans, out.Spans...)
		}
	case model.KindParallel:
		end = start
		for _, c := range n.Children {
			out := Step(c, start, parent, src)
			end = math.Max(end, out.End)
			spans = append(spans, out.Spans...)
		}
	}

	if own == nil {
		return Outcome{End: end, Spans: spans}
	}
	own.End = end
	own.Children = spans
	return Outcome{End: end, Spans: []*Span{own}}
}

func sample(mean, stdDev float64, src rand.Source) float64 {
	if stdDev == 0 {
		return mean
	}
	d := distuv.Normal{Mu: mean, Sigma: stdDev, Src: src}.Rand()
	if d < 0 {
		return 0
	}
	return d
}

func flatten(s *Span, out *[]*Span) {
	s.ID = len(*out)
	*out = append(*out, s)
	for _, c := range s.Children {
		flatten(c, out)
	}
}
