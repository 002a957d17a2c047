package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/buildgraph/reactor/descriptor"
)

func TestNewSetsPomFileAndBaseDirectory(t *testing.T) {
	s := New("project.hcl", "/work")
	assert.Equal(t, "project.hcl", s.PomFile())
	assert.Equal(t, "/work", s.BaseDirectory())
	assert.Empty(t, s.SelectedProjects())
}

func TestWithMethodsReturnCopiesNotMutations(t *testing.T) {
	base := New("project.hcl", "/work")
	derived := base.WithSelectedProjects("g:a")

	assert.Empty(t, base.SelectedProjects(), "original Session must be untouched")
	assert.Equal(t, []string{"g:a"}, derived.SelectedProjects())
}

func TestMakeBehaviorResolvedDefaultsToAllWithNoSelection(t *testing.T) {
	s := New("project.hcl", "/work")
	assert.Equal(t, MakeAll, s.MakeBehaviorResolved())
}

func TestMakeBehaviorResolvedDefaultsToSelectedOnlyWithSelection(t *testing.T) {
	s := New("project.hcl", "/work").WithSelectedProjects("g:a")
	assert.Equal(t, MakeSelectedOnly, s.MakeBehaviorResolved())
}

func TestMakeBehaviorResolvedHonorsExplicitOverride(t *testing.T) {
	s := New("project.hcl", "/work").
		WithSelectedProjects("g:a").
		WithMakeBehavior(MakeDownstream)
	assert.Equal(t, MakeDownstream, s.MakeBehaviorResolved())
}

func TestWithSystemPropertiesMergesOverExisting(t *testing.T) {
	s := New("project.hcl", "/work").
		WithSystemProperties(map[string]string{"a": "1", "b": "2"}).
		WithSystemProperties(map[string]string{"b": "3"})

	props := s.SystemProperties()
	assert.Equal(t, "1", props["a"])
	assert.Equal(t, "3", props["b"], "later call wins on key conflict")
}

func TestPropertyAccessorsReturnDefensiveCopies(t *testing.T) {
	s := New("project.hcl", "/work").WithUserProperties(map[string]string{"k": "v"})

	props := s.UserProperties()
	props["k"] = "mutated"

	assert.Equal(t, "v", s.UserProperties()["k"], "mutating the returned map must not affect the session")
}

func TestWithExternalProfilesAndRepositories(t *testing.T) {
	s := New("project.hcl", "/work").
		WithExternalProfiles(descriptor.Profile{ID: "ci"}).
		WithRemoteRepositories(descriptor.Repository{ID: "central"}).
		WithRepositorySession("opaque-handle")

	assert.Equal(t, "ci", s.ExternalProfiles()[0].ID)
	assert.Equal(t, "central", s.RemoteRepositories()[0].ID)
	assert.Equal(t, "opaque-handle", s.RepositorySession())
}

func TestCacheIsSharedAcrossClones(t *testing.T) {
	base := New("project.hcl", "/work")
	derived := base.WithValidationLevel(descriptor.ValidationStrict)

	assert.Same(t, base.Cache(), derived.Cache(), "clone() shallow-copies the cache pointer")
}
