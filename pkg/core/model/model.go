package model

import (
	"fmt"
	"maps"
	"slices"
)

// RootService is the service name of the synthetic root context. It names the
// lane of any node that never sets a service of its own.
const RootService = "root"

// Kind tags the variant a [Node] represents.
type Kind int

const (
	// KindConstant is a leaf with a fixed duration.
	KindConstant Kind = iota
	// KindNormal is a leaf whose duration is drawn from a normal distribution
	// on every simulation.
	KindNormal
	// KindSerial runs its children back-to-back in declaration order.
	KindSerial
	// KindParallel starts all children at the same time and ends with the
	// slowest one.
	KindParallel
)

var kindNames = map[Kind]string{
	KindConstant: "constant",
	KindNormal:   "normal",
	KindSerial:   "serial",
	KindParallel: "parallel",
}

// String returns the lowercase kind name used in model files and exports.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes a kind name produced by [Kind.MarshalText].
func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown node kind %q", text)
}

// IsLeaf reports whether nodes of this kind have a duration of their own.
func (k Kind) IsLeaf() bool { return k == KindConstant || k == KindNormal }

// Context is the set of attributes a node inherits from its parent.
// Service selects the lane a node's span is drawn in.
type Context struct {
	Service    string            `json:"service"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// RootContext returns the context [Build] applies to the root builder.
func RootContext() Context {
	return Context{Service: RootService}
}

// Merge returns c with override applied on top of it. A non-empty
// override.Service replaces c.Service; attributes merge key by key with the
// override winning. Neither input is modified.
func (c Context) Merge(override Context) Context {
	merged := Context{Service: c.Service}
	if override.Service != "" {
		merged.Service = override.Service
	}
	if len(c.Attributes) > 0 || len(override.Attributes) > 0 {
		merged.Attributes = make(map[string]string, len(c.Attributes)+len(override.Attributes))
		maps.Copy(merged.Attributes, c.Attributes)
		maps.Copy(merged.Attributes, override.Attributes)
	}
	return merged
}

// Attribute returns the value of key and whether it is set.
func (c Context) Attribute(key string) (string, bool) {
	v, ok := c.Attributes[key]
	return v, ok
}

// AttributeKeys returns the attribute keys in sorted order.
func (c Context) AttributeKeys() []string {
	return slices.Sorted(maps.Keys(c.Attributes))
}

// Node is one built operation in a model tree. Only the fields relevant to
// Kind are meaningful: Duration for constant leaves, Mean and StdDev for
// normal leaves, Children for composites.
//
// Nodes are treated as read-only once built.
type Node struct {
	Label       string  `json:"label"`
	Kind        Kind    `json:"kind"`
	Context     Context `json:"context"`
	IncludeSpan bool    `json:"include_span"`

	Duration float64 `json:"duration,omitempty"`
	Mean     float64 `json:"mean,omitempty"`
	StdDev   float64 `json:"std_dev,omitempty"`

	Children []*Node `json:"children,omitempty"`
}

// Service returns the resolved service name of the node.
func (n *Node) Service() string { return n.Context.Service }

// IsLeaf reports whether the node is a constant or normal leaf.
func (n *Node) IsLeaf() bool { return n.Kind.IsLeaf() }

// Walk visits n and its descendants in depth-first pre-order. depth is 0 for
// n itself. Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Count returns the number of nodes in the tree rooted at n.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node, int) bool {
		count++
		return true
	})
	return count
}

// VisibleCount returns the number of nodes in the tree that emit a span.
// A simulation of the tree always produces exactly this many spans.
func (n *Node) VisibleCount() int {
	count := 0
	n.Walk(func(node *Node, _ int) bool {
		if node.IncludeSpan {
			count++
		}
		return true
	})
	return count
}
