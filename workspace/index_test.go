package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/buildgraph/reactor/descriptor"
)

func raw(groupID, artifactID, sourceFile string) *descriptor.RawDescriptor {
	return &descriptor.RawDescriptor{GroupID: groupID, ArtifactID: artifactID, SourceFile: sourceFile}
}

func TestNewIndexBuildsCoordinateMapping(t *testing.T) {
	idx := NewIndex([]*descriptor.RawDescriptor{
		raw("com.example", "a", "a/project.hcl"),
		raw("com.example", "b", "b/project.hcl"),
	})
	assert.False(t, idx.IsError())
	assert.Equal(t, 2, idx.Value().Len())
	assert.True(t, idx.Value().Has(descriptor.Coordinate{GroupID: "com.example", ArtifactID: "a"}))
}

func TestNewIndexRejectsDuplicateCoordinates(t *testing.T) {
	idx := NewIndex([]*descriptor.RawDescriptor{
		raw("com.example", "a", "first/project.hcl"),
		raw("com.example", "a", "second/project.hcl"),
	})
	assert.True(t, idx.IsError())
	assert.Len(t, idx.Diagnostics(), 1)
}

func TestNewIndexRejectsUnresolvableCoordinate(t *testing.T) {
	idx := NewIndex([]*descriptor.RawDescriptor{
		{ArtifactID: "orphan", SourceFile: "orphan/project.hcl"},
	})
	assert.True(t, idx.IsError())
}

func TestCoordinatesAreSortedDeterministically(t *testing.T) {
	idx := NewIndex([]*descriptor.RawDescriptor{
		raw("com.example", "zeta", "z/project.hcl"),
		raw("com.example", "alpha", "a/project.hcl"),
	})
	coords := idx.Value().Coordinates()
	assert.Equal(t, "alpha", coords[0].ArtifactID)
	assert.Equal(t, "zeta", coords[1].ArtifactID)
}

func TestEmptyIndexHasNothing(t *testing.T) {
	idx := Empty()
	assert.Equal(t, 0, idx.Len())
	assert.False(t, idx.Has(descriptor.Coordinate{GroupID: "g", ArtifactID: "a"}))
	_, ok := idx.Get(descriptor.Coordinate{GroupID: "g", ArtifactID: "a"})
	assert.False(t, ok)
}
