package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoordinateString(t *testing.T) {
	c := Coordinate{GroupID: "com.example", ArtifactID: "widget"}
	assert.Equal(t, "com.example:widget", c.String())
}

func TestCoordinateIsZero(t *testing.T) {
	assert.True(t, Coordinate{}.IsZero())
	assert.False(t, Coordinate{GroupID: "g"}.IsZero())
}

func TestRawDescriptorCoordinateInheritsGroupFromParent(t *testing.T) {
	d := &RawDescriptor{
		ArtifactID: "child",
		Parent:     &ParentReference{GroupID: "com.example", ArtifactID: "root", Version: "1.0"},
	}
	c, err := d.Coordinate()
	assert.NoError(t, err)
	assert.Equal(t, Coordinate{GroupID: "com.example", ArtifactID: "child"}, c)
}

func TestRawDescriptorCoordinateFailsWithoutGroupID(t *testing.T) {
	d := &RawDescriptor{ArtifactID: "child", SourceFile: "child.hcl"}
	_, err := d.Coordinate()
	assert.Error(t, err)
	var invalid *InvalidCoordinateError
	assert.ErrorAs(t, err, &invalid)
}

func TestApplyOverlayMergesAdditively(t *testing.T) {
	d := &RawDescriptor{
		Properties:   map[string]string{"a": "1"},
		Dependencies: []Dependency{{GroupID: "g", ArtifactID: "x"}},
	}
	overlay := &Overlay{
		Properties:   map[string]string{"a": "2", "b": "3"},
		Dependencies: []Dependency{{GroupID: "g", ArtifactID: "y"}},
	}
	out := d.ApplyOverlay(overlay)

	assert.Equal(t, "2", out.Properties["a"])
	assert.Equal(t, "3", out.Properties["b"])
	assert.Equal(t, "1", d.Properties["a"], "original descriptor must not be mutated")
	assert.Len(t, out.Dependencies, 2)
}

func TestCloneIsIndependent(t *testing.T) {
	d := &RawDescriptor{
		Properties: map[string]string{"a": "1"},
		Modules:    []string{"child"},
	}
	clone := d.Clone()
	clone.Properties["a"] = "mutated"
	clone.Modules[0] = "other"

	assert.Equal(t, "1", d.Properties["a"])
	assert.Equal(t, "child", d.Modules[0])
}
