package models

import (
	"github.com/matzehuels/spanlane/pkg/core/model"
)

// DefaultDuration is the overhead used by [Call] and [ServiceCall].
const DefaultDuration = 100.0

// GapLabel is the label of nodes created by [Gap].
const GapLabel = "gap"

// Gap returns a hidden constant node of the given duration.
func Gap(duration float64) model.Builder {
	return model.Constant(GapLabel, duration, model.WithoutSpan())
}

// WithOverhead wraps children in a serial composite with a gap of overhead
// before the first child, between children and after the last one. opts
// apply to the serial composite; it is hidden unless opts include
// [model.WithSpan].
func WithOverhead(label string, overhead float64, children []model.Builder, opts ...model.Option) model.Builder {
	seq := make([]model.Builder, 0, 2*len(children)+1)
	seq = append(seq, Gap(overhead))
	for _, c := range children {
		seq = append(seq, c, Gap(overhead))
	}
	return model.Serial(label, seq, opts...)
}

// Call is a visible [WithOverhead] using [DefaultDuration].
func Call(label string, children ...model.Builder) model.Builder {
	return WithOverhead(label, DefaultDuration, children, model.WithSpan())
}

// ServiceCall is a [Call] made to service: the span and its descendants
// belong to service unless they override it.
func ServiceCall(service, method string, children ...model.Builder) model.Builder {
	return WithOverhead(method, DefaultDuration, children, model.WithSpan(), model.WithService(service))
}

// HiddenParallel runs children concurrently without a span of its own.
func HiddenParallel(children ...model.Builder) model.Builder {
	return model.Parallel("", children, model.WithoutSpan())
}
