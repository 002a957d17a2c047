package reactor

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildgraph/reactor/descriptor"
	"github.com/buildgraph/reactor/session"
	"github.com/buildgraph/reactor/workspace"
)

// stubSuperModel returns an empty bootstrap root - the lineage walk
// always terminates there, no test needs it to contribute content.
type stubSuperModel struct{}

func (stubSuperModel) GetSuperModel(version string) *descriptor.RawDescriptor {
	return &descriptor.RawDescriptor{Version: "1"}
}

// stubResolver answers every external lookup from a fixed table keyed
// by coordinate; ResolveParent looks the parent reference's coordinate
// up in the same table.
type stubResolver struct {
	byCoord map[descriptor.Coordinate]*descriptor.RawDescriptor
}

func (r *stubResolver) ResolveModel(_ context.Context, groupID, artifactID, _ string) (*descriptor.RawDescriptor, error) {
	d, ok := r.byCoord[descriptor.Coordinate{GroupID: groupID, ArtifactID: artifactID}]
	if !ok {
		return nil, assert.AnError
	}
	return d, nil
}

func (r *stubResolver) ResolveParent(_ context.Context, ref descriptor.ParentReference) (*descriptor.RawDescriptor, error) {
	d, ok := r.byCoord[ref.Coordinate()]
	if !ok {
		return nil, assert.AnError
	}
	return d, nil
}

func (r *stubResolver) AddRepository(descriptor.Repository, bool) {}
func (r *stubResolver) NewCopy() descriptor.ExternalResolver { return r }

var _ descriptor.ExternalResolver = (*stubResolver)(nil)

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func newTestBuilder(t *testing.T, sess *session.Session, sourceRaws []*descriptor.RawDescriptor) *Builder {
	t.Helper()
	idx := workspace.NewIndex(sourceRaws)
	require.False(t, idx.IsError())

	b, errResult := New(sess, Config{
		SourceIndex: idx.Value(),
		BinaryIndex: workspace.Empty(),
		Pipeline:    descriptor.DefaultPipeline(),
		Resolver:    &stubResolver{byCoord: map[descriptor.Coordinate]*descriptor.RawDescriptor{}},
		SuperModel:  stubSuperModel{},
		Log:         testLog(),
	})
	require.False(t, errResult.IsError())
	return b
}

func TestBuildSingleProjectNoDependencies(t *testing.T) {
	sess := session.New("project.hcl", "/work")
	raw := &descriptor.RawDescriptor{GroupID: "com.example", ArtifactID: "app", Version: "1.0", SourceFile: "app/project.hcl"}
	b := newTestBuilder(t, sess, []*descriptor.RawDescriptor{raw})

	result := b.Build(context.Background())

	require.False(t, result.IsError())
	graph := result.Value()
	require.Len(t, graph.SortedProjects(), 1)
	assert.Equal(t, "com.example:app", graph.SortedProjects()[0].Coordinate.String())
}

func TestBuildOrdersDependenciesBeforeDependents(t *testing.T) {
	sess := session.New("project.hcl", "/work")
	lib := &descriptor.RawDescriptor{GroupID: "g", ArtifactID: "lib", Version: "1.0", SourceFile: "lib/project.hcl"}
	app := &descriptor.RawDescriptor{
		GroupID: "g", ArtifactID: "app", Version: "1.0", SourceFile: "app/project.hcl",
		Dependencies: []descriptor.Dependency{{GroupID: "g", ArtifactID: "lib", Version: "1.0"}},
	}
	b := newTestBuilder(t, sess, []*descriptor.RawDescriptor{app, lib})

	result := b.Build(context.Background())

	require.False(t, result.IsError())
	sorted := result.Value().SortedProjects()
	require.Len(t, sorted, 2)
	assert.Equal(t, "g:lib", sorted[0].Coordinate.String(), "dependency must precede dependent in topological order")
	assert.Equal(t, "g:app", sorted[1].Coordinate.String())
}

func TestBuildDetectsDependencyCycleAndAborts(t *testing.T) {
	sess := session.New("project.hcl", "/work")
	a := &descriptor.RawDescriptor{
		GroupID: "g", ArtifactID: "a", Version: "1.0", SourceFile: "a/project.hcl",
		Dependencies: []descriptor.Dependency{{GroupID: "g", ArtifactID: "b", Version: "1.0"}},
	}
	bb := &descriptor.RawDescriptor{
		GroupID: "g", ArtifactID: "b", Version: "1.0", SourceFile: "b/project.hcl",
		Dependencies: []descriptor.Dependency{{GroupID: "g", ArtifactID: "a", Version: "1.0"}},
	}
	builder := newTestBuilder(t, sess, []*descriptor.RawDescriptor{a, bb})

	result := builder.Build(context.Background())

	require.True(t, result.IsError())
	var found bool
	for _, d := range result.Diagnostics() {
		if _, ok := d.Cause.(*DependencyCycleError); ok {
			found = true
		}
	}
	assert.True(t, found, "expected a DependencyCycleError diagnostic")
}

func TestBuildResolvesParentLineageFromWorkspace(t *testing.T) {
	sess := session.New("project.hcl", "/work")
	parent := &descriptor.RawDescriptor{
		GroupID: "g", ArtifactID: "parent", Version: "1.0", SourceFile: "parent/project.hcl",
		Properties: map[string]string{"shared.version": "9.9.9"},
	}
	child := &descriptor.RawDescriptor{
		ArtifactID: "child", SourceFile: "child/project.hcl",
		Parent:  &descriptor.ParentReference{GroupID: "g", ArtifactID: "parent", Version: "1.0"},
		Version: "${shared.version}",
	}
	b := newTestBuilder(t, sess, []*descriptor.RawDescriptor{parent, child})

	result := b.Build(context.Background())

	require.False(t, result.IsError())
	node, ok := result.Value().Lookup(descriptor.Coordinate{GroupID: "g", ArtifactID: "child"})
	require.True(t, ok)
	assert.Equal(t, "9.9.9", node.Effective.Raw.Version, "child inherits groupId and interpolates the parent's property")
}

func TestBuildSelectedOnlyModeSeedsFromSelection(t *testing.T) {
	a := &descriptor.RawDescriptor{GroupID: "g", ArtifactID: "a", Version: "1.0", SourceFile: "a/project.hcl"}
	bRaw := &descriptor.RawDescriptor{GroupID: "g", ArtifactID: "b", Version: "1.0", SourceFile: "b/project.hcl"}
	sess := session.New("project.hcl", "/work").WithSelectedProjects("g:a")

	builder := newTestBuilder(t, sess, []*descriptor.RawDescriptor{a, bRaw})

	result := builder.Build(context.Background())

	require.False(t, result.IsError())
	assert.Len(t, result.Value().SortedProjects(), 1, "SELECTED_ONLY must not pull in the unselected sibling")
}
