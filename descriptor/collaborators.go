package descriptor

import "context"

// This file declares the collaborator interfaces spec §6 calls "out of
// scope, addressed only through their interfaces": the descriptor
// parser, the descriptor locator the loader uses to find a module's
// file inside a directory, the external artifact/model resolver, and
// the super-descriptor (bootstrap root of every parent chain) provider.
// The core never implements any of these; it only calls them.

// ParseOptions configures a single Parser.Parse call.
type ParseOptions struct {
	ValidationLevel ValidationLevel
	TrackLocations  bool
}

// Parser turns a descriptor source file into a RawDescriptor. This is
// the "descriptor parser (XML -> raw descriptor tree)" of spec §1;
// production wiring hands it an XML/HCL parser, tests hand it a fixture
// table - the core only ever calls this interface.
type Parser interface {
	Parse(ctx context.Context, sourceFile string, opts ParseOptions) (*RawDescriptor, []Diagnostic, error)
}

// Diagnostic mirrors diag.Diagnostic without importing package diag, so
// this package stays free of a dependency on the result carrier - the
// descriptor loader translates these at the boundary into diag.Diagnostic.
type Diagnostic struct {
	Severity SeverityHint
	Message  string
	Source   string
}

// Locator finds a descriptor file inside a directory, used when a
// declared module path fragment resolves to a directory rather than a
// file directly (spec §4.B).
type Locator interface {
	Locate(directory string) (file string, found bool)
}

// ExternalResolver fetches descriptors not present in the workspace:
// parent references and dependency-management imports that point
// outside the reactor. Mirrors the teacher's ModelResolver collaborator.
type ExternalResolver interface {
	ResolveModel(ctx context.Context, groupID, artifactID, version string) (*RawDescriptor, error)
	ResolveParent(ctx context.Context, ref ParentReference) (*RawDescriptor, error)
	AddRepository(repo Repository, replace bool)
	NewCopy() ExternalResolver
}

// SuperModelProvider returns the bootstrap root every parent lineage
// terminates at (spec §4.E step 3, "append the bootstrap super-descriptor").
type SuperModelProvider interface {
	GetSuperModel(version string) *RawDescriptor
}
