package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateMinimalRequiresArtifactID(t *testing.T) {
	problems := (defaultValidator{}).Validate(&RawDescriptor{}, ValidationMinimal)
	assert.NotEmpty(t, problems)
	assert.Equal(t, HintFatal, problems[0].Severity)
}

func TestValidateV2FlagsDuplicateDependencies(t *testing.T) {
	d := &RawDescriptor{
		ArtifactID: "a",
		Dependencies: []Dependency{
			{GroupID: "g", ArtifactID: "x"},
			{GroupID: "g", ArtifactID: "x"},
		},
	}
	problems := (defaultValidator{}).Validate(d, ValidationV2)

	var found bool
	for _, p := range problems {
		if p.Severity == HintWarning {
			found = true
		}
	}
	assert.True(t, found, "expected a duplicate-dependency warning")
}

func TestValidateStrictRequiresResolvedVersions(t *testing.T) {
	d := &RawDescriptor{
		ArtifactID:   "a",
		Dependencies: []Dependency{{GroupID: "g", ArtifactID: "x"}},
	}
	problems := (defaultValidator{}).Validate(d, ValidationStrict)

	var found bool
	for _, p := range problems {
		if p.Severity == HintError {
			found = true
		}
	}
	assert.True(t, found, "strict validation requires every dependency to carry a version")
}

func TestManagedVersionsFirstDeclarationWins(t *testing.T) {
	entries := []Dependency{
		{GroupID: "g", ArtifactID: "x", Version: "1.0"},
		{GroupID: "g", ArtifactID: "x", Version: "2.0"},
	}
	managed := ManagedVersions(entries)
	assert.Equal(t, "1.0", managed[Coordinate{GroupID: "g", ArtifactID: "x"}].Version)
}

func TestDependencyManagementInjectorFillsUnversioned(t *testing.T) {
	d := &RawDescriptor{
		Dependencies: []Dependency{{GroupID: "g", ArtifactID: "x"}},
	}
	managed := map[Coordinate]Dependency{
		{GroupID: "g", ArtifactID: "x"}: {Version: "3.2.1", Scope: "test"},
	}
	out := (defaultDependencyManagementInjector{}).Inject(d, managed)

	assert.Equal(t, "3.2.1", out.Dependencies[0].Version)
	assert.Equal(t, "test", out.Dependencies[0].Scope)
}
