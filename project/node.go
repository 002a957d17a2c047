// Package project holds the node and graph types actually inserted
// into the reactor's output: an arena of nodes keyed by coordinate,
// with every cross-reference a coordinate-shaped pointer resolved
// through that arena rather than an ad hoc cyclic object graph (spec §9,
// "Design notes - tangled data").
package project

import (
	"github.com/buildgraph/reactor/descriptor"
)

// Variant is which of a coordinate's two possible forms a Node represents.
type Variant int

const (
	Source Variant = iota
	Binary
)

func (v Variant) String() string {
	if v == Binary {
		return "binary"
	}
	return "source"
}

// Node is the node actually inserted into the output graph (spec §3,
// "Project node"): an effective descriptor, the variant chosen, a
// possibly-nil parent node, and the reference lists resolved against
// other nodes already in the graph.
type Node struct {
	Coordinate descriptor.Coordinate
	Effective  *descriptor.EffectiveDescriptor
	Variant    Variant
	Parent     *Node

	Imports      []*Node
	Plugins      []*Node
	Dependencies []*Node

	// Err carries a cascading failure (e.g. a parent or dependency that
	// itself failed to build) so dependents can report it without
	// re-deriving it; per spec §7 the node is still inserted even when
	// this is set.
	Err error
}

// AllReferences returns the union of Dependencies, Plugins and Imports,
// the edges that matter for cycle detection and transitive closures.
func (n *Node) AllReferences() []*Node {
	out := make([]*Node, 0, len(n.Dependencies)+len(n.Plugins)+len(n.Imports))
	out = append(out, n.Dependencies...)
	out = append(out, n.Plugins...)
	out = append(out, n.Imports...)
	return out
}

// TransitivelyReferences reports whether anything reachable from n
// through Dependencies/Plugins/Imports (not n itself) has the given
// variant. Used by the DOWNSTREAM build-behavior policy to decide
// whether a project's closure pulls in a source project (spec §4.D).
func TransitivelyReferences(n *Node, variant Variant) bool {
	visited := map[descriptor.Coordinate]bool{}
	var walk func(*Node) bool
	walk = func(cur *Node) bool {
		if cur == nil || visited[cur.Coordinate] {
			return false
		}
		visited[cur.Coordinate] = true
		if cur.Variant == variant {
			return true
		}
		for _, ref := range cur.AllReferences() {
			if walk(ref) {
				return true
			}
		}
		return false
	}
	for _, ref := range n.AllReferences() {
		if walk(ref) {
			return true
		}
	}
	return false
}
