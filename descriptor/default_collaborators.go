package descriptor

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gruntwork-io/go-commons/errors"
)

// DefaultSuperModel is the bootstrap SuperModelProvider: a fixed root
// descriptor, with no properties and only the central repository
// declared, that every parent lineage terminates at when no project
// or external parent resolves further (spec §4.E step 3), mirroring
// Maven's super POM. version is accepted for interface symmetry but
// unused - the bootstrap root carries no version-specific content.
type DefaultSuperModel struct{}

func (DefaultSuperModel) GetSuperModel(version string) *RawDescriptor {
	return &RawDescriptor{
		Properties: map[string]string{},
		Repositories: []Repository{
			{ID: "central", URL: "https://repo.maven.apache.org/maven2"},
		},
	}
}

// DefaultFileName is the descriptor file name FileLocator looks for
// inside a directory.
const DefaultFileName = "project.hcl"

// FileLocator finds DefaultFileName inside a directory, the reference
// Locator implementation (spec §4.B).
type FileLocator struct{}

func (FileLocator) Locate(directory string) (string, bool) {
	candidate := filepath.Join(directory, DefaultFileName)
	if _, err := os.Stat(candidate); err != nil {
		return "", false
	}
	return candidate, true
}

// FilesystemResolver resolves external coordinates against a flat
// directory of vendored descriptors (one file per coordinate, named
// "groupId_artifactId[_version].hcl"), the simplest ExternalResolver a
// standalone CLI invocation can offer without a real artifact
// repository client - swappable with a Nexus/Artifactory-backed
// resolver without touching the reactor core, which only ever depends
// on the ExternalResolver interface.
type FilesystemResolver struct {
	Dir          string
	Parser       Parser
	repositories []Repository
}

func NewFilesystemResolver(dir string, parser Parser) *FilesystemResolver {
	return &FilesystemResolver{Dir: dir, Parser: parser}
}

func (r *FilesystemResolver) ResolveModel(ctx context.Context, groupID, artifactID, version string) (*RawDescriptor, error) {
	return r.resolve(ctx, groupID, artifactID, version)
}

func (r *FilesystemResolver) ResolveParent(ctx context.Context, ref ParentReference) (*RawDescriptor, error) {
	return r.resolve(ctx, ref.GroupID, ref.ArtifactID, ref.Version)
}

func (r *FilesystemResolver) resolve(ctx context.Context, groupID, artifactID, version string) (*RawDescriptor, error) {
	candidates := []string{
		groupID + "_" + artifactID + "_" + version + ".hcl",
		groupID + "_" + artifactID + ".hcl",
	}
	for _, name := range candidates {
		path := filepath.Join(r.Dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		raw, diags, err := r.Parser.Parse(ctx, path, ParseOptions{ValidationLevel: ValidationMinimal})
		if err != nil {
			return nil, errors.WithStackTrace(err)
		}
		for _, d := range diags {
			if d.Severity == HintFatal {
				return nil, errors.WithStackTrace(&InvalidCoordinateError{SourceFile: path})
			}
		}
		return raw, nil
	}
	return nil, errors.WithStackTrace(&ExternalModelNotFoundError{GroupID: groupID, ArtifactID: artifactID, Version: version})
}

func (r *FilesystemResolver) AddRepository(repo Repository, replace bool) {
	if replace {
		r.repositories = []Repository{repo}
		return
	}
	r.repositories = append(r.repositories, repo)
}

func (r *FilesystemResolver) NewCopy() ExternalResolver {
	out := *r
	out.repositories = append([]Repository(nil), r.repositories...)
	return &out
}

// ExternalModelNotFoundError reports an external coordinate no
// configured resolver strategy could locate.
type ExternalModelNotFoundError struct {
	GroupID, ArtifactID, Version string
}

func (e *ExternalModelNotFoundError) Error() string {
	return "external model not found: " + e.GroupID + ":" + e.ArtifactID + ":" + e.Version
}
