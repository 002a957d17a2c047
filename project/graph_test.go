package project

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildgraph/reactor/descriptor"
)

func coord(artifactID string) descriptor.Coordinate {
	return descriptor.Coordinate{GroupID: "g", ArtifactID: artifactID}
}

// a depends on b depends on c; sorted order is upstream-first: c, b, a.
func chainFixture() (a, b, c *Node) {
	c = &Node{Coordinate: coord("c")}
	b = &Node{Coordinate: coord("b"), Dependencies: []*Node{c}}
	a = &Node{Coordinate: coord("a"), Dependencies: []*Node{b}}
	return a, b, c
}

func TestNewGraphIndexesNodesByCoordinate(t *testing.T) {
	a, b, c := chainFixture()
	g := NewGraph([]*Node{c, b, a})

	n, ok := g.Lookup(coord("b"))
	require.True(t, ok)
	assert.Same(t, b, n)
}

func TestSortedProjectsReturnsACopy(t *testing.T) {
	a, b, c := chainFixture()
	g := NewGraph([]*Node{c, b, a})

	out := g.SortedProjects()
	out[0] = nil

	assert.Same(t, c, g.SortedProjects()[0], "mutating the returned slice must not affect the graph")
}

func TestUpstreamProjectsDirectVsTransitive(t *testing.T) {
	a, b, c := chainFixture()
	g := NewGraph([]*Node{c, b, a})

	direct := g.UpstreamProjects(a, false)
	assert.Len(t, direct, 1)
	assert.Same(t, b, direct[0])

	transitive := g.UpstreamProjects(a, true)
	assert.Len(t, transitive, 2)
}

func TestDownstreamProjectsDirectVsTransitive(t *testing.T) {
	a, b, c := chainFixture()
	g := NewGraph([]*Node{c, b, a})

	direct := g.DownstreamProjects(c, false)
	assert.Len(t, direct, 1)
	assert.Same(t, b, direct[0])

	transitive := g.DownstreamProjects(c, true)
	assert.Len(t, transitive, 2)
}

func TestParallelLevelsGroupsIndependentNodes(t *testing.T) {
	a, b, c := chainFixture()
	g := NewGraph([]*Node{c, b, a})

	levels := g.ParallelLevels()

	require.Len(t, levels, 3)
	assert.Equal(t, c, levels[0][0])
	assert.Equal(t, b, levels[1][0])
	assert.Equal(t, a, levels[2][0])
}

func TestParallelLevelsGroupsSiblingsTogether(t *testing.T) {
	shared := &Node{Coordinate: coord("shared")}
	left := &Node{Coordinate: coord("left"), Dependencies: []*Node{shared}}
	right := &Node{Coordinate: coord("right"), Dependencies: []*Node{shared}}
	g := NewGraph([]*Node{shared, left, right})

	levels := g.ParallelLevels()

	require.Len(t, levels, 2)
	assert.Len(t, levels[1], 2, "left and right share a dependency but not each other, so they batch together")
}

func TestReverseRunOrderReversesSortedProjects(t *testing.T) {
	a, b, c := chainFixture()
	g := NewGraph([]*Node{c, b, a})

	rev := g.ReverseRunOrder()
	assert.Equal(t, []*Node{a, b, c}, rev)
}

func TestWriteDotRendersNodesAndEdges(t *testing.T) {
	a, b, _ := chainFixture()
	g := NewGraph([]*Node{b, a})

	var sb strings.Builder
	require.NoError(t, g.WriteDot(&sb))

	out := sb.String()
	assert.Contains(t, out, "digraph {")
	assert.Contains(t, out, `"g:a" -> "g:b"`)
}

func TestWriteDotColorsFailedNodesRed(t *testing.T) {
	n := &Node{Coordinate: coord("broken"), Err: assert.AnError}
	g := NewGraph([]*Node{n})

	var sb strings.Builder
	require.NoError(t, g.WriteDot(&sb))

	assert.Contains(t, sb.String(), "color=red")
}
