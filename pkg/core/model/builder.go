package model

import (
	"github.com/matzehuels/spanlane/pkg/errors"
)

// Builder instantiates a node tree against an inherited parent context.
// Every call returns a fresh tree that shares nothing with earlier results.
type Builder func(parent Context) (*Node, error)

// Option configures a node built by one of the constructors.
type Option func(*options)

type options struct {
	includeSpan *bool
	context     Context
	err         error
}

// WithSpan makes the node emit a span. This is the default for leaves.
func WithSpan() Option {
	return func(o *options) {
		v := true
		o.includeSpan = &v
	}
}

// WithoutSpan hides the node from the trace. This is the default for
// composites. Hidden nodes still take time.
func WithoutSpan() Option {
	return func(o *options) {
		v := false
		o.includeSpan = &v
	}
}

// WithService overrides the inherited service name. An empty or blank name
// fails the build with INVALID_SERVICE.
func WithService(name string) Option {
	return func(o *options) {
		if err := errors.ValidateServiceName(name); err != nil && o.err == nil {
			o.err = err
		}
		o.context.Service = name
	}
}

// WithAttribute sets a single context attribute on the node and its
// descendants.
func WithAttribute(key, value string) Option {
	return func(o *options) {
		if o.context.Attributes == nil {
			o.context.Attributes = make(map[string]string)
		}
		o.context.Attributes[key] = value
	}
}

// WithContext merges ctx into the node's overrides. A non-empty ctx.Service
// replaces any service set earlier; attributes are added key by key.
func WithContext(ctx Context) Option {
	return func(o *options) { o.context = o.context.Merge(ctx) }
}

func newOptions(label string, defaultSpan bool, opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		o.err = errors.Wrap(errors.GetCode(o.err), o.err, "node %s", quote(label))
	}
	if o.includeSpan == nil {
		o.includeSpan = &defaultSpan
	}
	return o
}

// Constant returns a builder for a leaf that always takes duration.
func Constant(label string, duration float64, opts ...Option) Builder {
	o := newOptions(label, true, opts)
	err := o.err
	if err == nil {
		err = errors.ValidateDuration("duration of "+quote(label), duration)
	}
	return func(parent Context) (*Node, error) {
		if err != nil {
			return nil, err
		}
		ctx, err := resolve(parent, o.context, label)
		if err != nil {
			return nil, err
		}
		return &Node{
			Label:       label,
			Kind:        KindConstant,
			Context:     ctx,
			IncludeSpan: *o.includeSpan,
			Duration:    duration,
		}, nil
	}
}

// Normal returns a builder for a leaf whose duration is drawn from a normal
// distribution with the given mean and standard deviation on every
// simulation.
func Normal(label string, mean, stdDev float64, opts ...Option) Builder {
	o := newOptions(label, true, opts)
	err := o.err
	if err == nil {
		err = errors.ValidateDuration("mean of "+quote(label), mean)
	}
	if err == nil {
		err = errors.ValidateDuration("standard deviation of "+quote(label), stdDev)
	}
	return func(parent Context) (*Node, error) {
		if err != nil {
			return nil, err
		}
		ctx, err := resolve(parent, o.context, label)
		if err != nil {
			return nil, err
		}
		return &Node{
			Label:       label,
			Kind:        KindNormal,
			Context:     ctx,
			IncludeSpan: *o.includeSpan,
			Mean:        mean,
			StdDev:      stdDev,
		}, nil
	}
}

// Serial returns a builder for a composite that runs children back-to-back.
// A serial composite with no children takes no time.
func Serial(label string, children []Builder, opts ...Option) Builder {
	return composite(KindSerial, label, children, opts)
}

// Parallel returns a builder for a composite that starts all children at
// once and finishes with the slowest. At least one child is required.
func Parallel(label string, children []Builder, opts ...Option) Builder {
	return composite(KindParallel, label, children, opts)
}

func composite(kind Kind, label string, children []Builder, opts []Option) Builder {
	o := newOptions(label, false, opts)
	children = append([]Builder(nil), children...)

	err := o.err
	if err == nil && kind == KindParallel && len(children) == 0 {
		err = errors.New(errors.ErrCodeInvalidModel, "parallel %s must have at least one child", quote(label))
	}
	for i, c := range children {
		if c == nil && err == nil {
			err = errors.New(errors.ErrCodeInvalidModel, "child %d of %s %s is nil", i, kind, quote(label))
		}
	}

	return func(parent Context) (*Node, error) {
		if err != nil {
			return nil, err
		}
		ctx, err := resolve(parent, o.context, label)
		if err != nil {
			return nil, err
		}
		n := &Node{
			Label:       label,
			Kind:        kind,
			Context:     ctx,
			IncludeSpan: *o.includeSpan,
			Children:    make([]*Node, 0, len(children)),
		}
		for _, build := range children {
			child, err := build(ctx)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		}
		return n, nil
	}
}

// Build instantiates b against [RootContext].
func Build(b Builder) (*Node, error) {
	if b == nil {
		return nil, errors.New(errors.ErrCodeInvalidModel, "root builder is nil")
	}
	return b(RootContext())
}

func resolve(parent, override Context, label string) (Context, error) {
	ctx := parent.Merge(override)
	if err := errors.ValidateServiceName(ctx.Service); err != nil {
		return Context{}, errors.Wrap(errors.ErrCodeInvalidService, err, "node %s", quote(label))
	}
	return ctx, nil
}

func quote(label string) string {
	if label == "" {
		return "(unnamed)"
	}
	return "\"" + label + "\""
}
