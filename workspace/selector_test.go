package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildgraph/reactor/descriptor"
)

func TestParseSelectorCoordinateForm(t *testing.T) {
	sel, err := ParseSelector("com.example:widget", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, byCoordinate, sel.kind)
}

func TestParseSelectorArtifactOnlyForm(t *testing.T) {
	sel, err := ParseSelector(":widget", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, byArtifact, sel.kind)
}

func TestParseSelectorRejectsBareColon(t *testing.T) {
	_, err := ParseSelector(":", t.TempDir())
	assert.Error(t, err)
	assert.IsType(t, &InvalidSelectorError{}, err)
}

func TestParseSelectorResolvesExistingDirectory(t *testing.T) {
	base := t.TempDir()
	sub := filepath.Join(base, "widget")
	require.NoError(t, os.Mkdir(sub, 0o755))

	sel, err := ParseSelector("widget", base)
	require.NoError(t, err)
	assert.Equal(t, byDirectory, sel.kind)
}

func TestParseSelectorRejectsNonexistentPath(t *testing.T) {
	_, err := ParseSelector("does-not-exist", t.TempDir())
	assert.Error(t, err)
}

func TestSelectMatchesByCoordinate(t *testing.T) {
	idx := mustIndex(t, []*descriptor.RawDescriptor{
		raw("com.example", "a", "a/project.hcl"),
		raw("com.example", "b", "b/project.hcl"),
	})

	result := Select(idx, []string{"com.example:a"}, t.TempDir())
	require.False(t, result.IsError())
	assert.Equal(t, 1, result.Value().Len())
	assert.True(t, result.Value().Has(descriptor.Coordinate{GroupID: "com.example", ArtifactID: "a"}))
}

func TestSelectMatchesByArtifactAcrossGroups(t *testing.T) {
	idx := mustIndex(t, []*descriptor.RawDescriptor{
		raw("com.example", "shared", "x/project.hcl"),
		raw("com.other", "shared", "y/project.hcl"),
	})

	result := Select(idx, []string{":shared"}, t.TempDir())
	require.False(t, result.IsError())
	assert.Equal(t, 2, result.Value().Len())
}

func TestSelectWithNoSelectorsReturnsWholeIndex(t *testing.T) {
	idx := mustIndex(t, []*descriptor.RawDescriptor{
		raw("com.example", "a", "a/project.hcl"),
	})
	result := Select(idx, nil, t.TempDir())
	require.False(t, result.IsError())
	assert.Equal(t, 1, result.Value().Len())
}

func TestSelectFailsOnInvalidSelector(t *testing.T) {
	idx := mustIndex(t, []*descriptor.RawDescriptor{
		raw("com.example", "a", "a/project.hcl"),
	})
	result := Select(idx, []string{"nonexistent-path"}, t.TempDir())
	assert.True(t, result.IsError())
}

func mustIndex(t *testing.T, raws []*descriptor.RawDescriptor) Index {
	t.Helper()
	res := NewIndex(raws)
	require.False(t, res.IsError())
	return res.Value()
}
