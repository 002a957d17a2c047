package project

import (
	"fmt"
	"io"

	"github.com/buildgraph/reactor/descriptor"
)

// Graph is the final output of the reactor: an ordered sequence of
// nodes (topological order - every node appears after all of its
// out-edges) plus a reverse-edge index mapping each node to its direct
// dependents (spec §3, "Project graph").
type Graph struct {
	sorted  []*Node
	byCoord map[descriptor.Coordinate]*Node
	// dependents[c] lists every node that directly references c.
	dependents map[descriptor.Coordinate][]*Node
}

// NewGraph builds a Graph from nodes already in topological order (the
// insertion order of the reactor builder's completed memo in buildState,
// by construction - see package reactor).
func NewGraph(sorted []*Node) *Graph {
	g := &Graph{
		sorted:     sorted,
		byCoord:    make(map[descriptor.Coordinate]*Node, len(sorted)),
		dependents: make(map[descriptor.Coordinate][]*Node),
	}
	for _, n := range sorted {
		g.byCoord[n.Coordinate] = n
	}
	for _, n := range sorted {
		for _, ref := range n.AllReferences() {
			g.dependents[ref.Coordinate] = append(g.dependents[ref.Coordinate], n)
		}
	}
	return g
}

// SortedProjects returns the topological sequence.
func (g *Graph) SortedProjects() []*Node {
	return append([]*Node(nil), g.sorted...)
}

// Lookup returns the node for coord, if present in the graph.
func (g *Graph) Lookup(coord descriptor.Coordinate) (*Node, bool) {
	n, ok := g.byCoord[coord]
	return n, ok
}

// UpstreamProjects returns the nodes coord's node depends on: one hop
// if transitive is false, the full dependency closure otherwise.
func (g *Graph) UpstreamProjects(n *Node, transitive bool) []*Node {
	if !transitive {
		return dedupeNodes(n.AllReferences())
	}
	visited := map[descriptor.Coordinate]bool{}
	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		for _, ref := range cur.AllReferences() {
			if visited[ref.Coordinate] {
				continue
			}
			visited[ref.Coordinate] = true
			out = append(out, ref)
			walk(ref)
		}
	}
	walk(n)
	return out
}

// DownstreamProjects returns the nodes that depend on coord's node: one
// hop if transitive is false, the full dependent closure otherwise.
func (g *Graph) DownstreamProjects(n *Node, transitive bool) []*Node {
	if !transitive {
		return dedupeNodes(g.dependents[n.Coordinate])
	}
	visited := map[descriptor.Coordinate]bool{}
	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		for _, dep := range g.dependents[cur.Coordinate] {
			if visited[dep.Coordinate] {
				continue
			}
			visited[dep.Coordinate] = true
			out = append(out, dep)
			walk(dep)
		}
	}
	walk(n)
	return out
}

func dedupeNodes(nodes []*Node) []*Node {
	seen := map[descriptor.Coordinate]bool{}
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if seen[n.Coordinate] {
			continue
		}
		seen[n.Coordinate] = true
		out = append(out, n)
	}
	return out
}

// RunOrder returns the sorted sequence: dependencies before dependents,
// the order an executor walks to build upstream-first.
func (g *Graph) RunOrder() []*Node {
	return g.SortedProjects()
}

// ReverseRunOrder returns dependents before dependencies, the order a
// destroy-style executor walks.
func (g *Graph) ReverseRunOrder() []*Node {
	out := g.SortedProjects()
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// ParallelLevels groups the sorted projects into batches where every
// node in a batch is independent of every other node in the same
// batch - the shape a bounded-parallelism executor walks one batch at
// a time, grounded on configstack's RunModules level-by-level fan-out.
func (g *Graph) ParallelLevels() [][]*Node {
	level := map[descriptor.Coordinate]int{}
	maxLevel := 0
	for _, n := range g.sorted {
		l := 0
		for _, ref := range n.AllReferences() {
			if level[ref.Coordinate]+1 > l {
				l = level[ref.Coordinate] + 1
			}
		}
		level[n.Coordinate] = l
		if l > maxLevel {
			maxLevel = l
		}
	}

	levels := make([][]*Node, maxLevel+1)
	for _, n := range g.sorted {
		l := level[n.Coordinate]
		levels[l] = append(levels[l], n)
	}
	return levels
}

// WriteDot renders the graph as a Graphviz digraph, one node per
// project (nodes carrying a cascading error rendered red), grounded on
// configstack/module_test.go's TestGraph/TestGraphFlagExcluded
// expectations.
func (g *Graph) WriteDot(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "digraph {"); err != nil {
		return err
	}
	for _, n := range g.sorted {
		label := n.Coordinate.String()
		if n.Err != nil {
			if _, err := fmt.Fprintf(w, "\t%q [color=red];\n", label); err != nil {
				return err
			}
		} else {
			if _, err := fmt.Fprintf(w, "\t%q ;\n", label); err != nil {
				return err
			}
		}
		for _, ref := range n.AllReferences() {
			if _, err := fmt.Fprintf(w, "\t%q -> %q;\n", label, ref.Coordinate.String()); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}
