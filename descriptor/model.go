package descriptor

import (
	"path/filepath"

	"github.com/gruntwork-io/go-commons/errors"
)

// ManagementImportType and ManagementImportScope are the well-known
// type/scope pair that marks a dependency entry as a dependency-management
// import (spec §3, "Import").
const (
	ManagementImportType  = "pom"
	ManagementImportScope = "import"
)

// Dependency is one entry in either a descriptor's dependency list or
// its dependency-management section.
type Dependency struct {
	GroupID    string
	ArtifactID string
	Version    string
	Type       string
	Scope      string
	Optional   bool
}

// Coordinate returns the version-less coordinate this dependency refers to.
func (d Dependency) Coordinate() Coordinate {
	return Coordinate{GroupID: d.GroupID, ArtifactID: d.ArtifactID}
}

// IsManagementImport reports whether this entry is a `pom`-typed,
// `import`-scoped dependency-management import.
func (d Dependency) IsManagementImport() bool {
	return d.Type == ManagementImportType && d.Scope == ManagementImportScope
}

// Plugin is a build-plugin reference, which (like a Dependency) can
// point at another workspace project.
type Plugin struct {
	GroupID       string
	ArtifactID    string
	Version       string
	Configuration map[string]any
}

// Coordinate returns the version-less coordinate this plugin refers to.
func (p Plugin) Coordinate() Coordinate {
	return Coordinate{GroupID: p.GroupID, ArtifactID: p.ArtifactID}
}

// Repository is a declared remote repository.
type Repository struct {
	ID  string
	URL string
}

// Overlay is the partial descriptor content a profile contributes when
// active: anything here is merged into a clone of the owning descriptor.
type Overlay struct {
	Properties           map[string]string
	Dependencies         []Dependency
	DependencyManagement []Dependency
	Plugins              []Plugin
	Repositories         []Repository
	Modules              []string
}

// RawDescriptor is the pure result of parsing: the coordinate, parent
// reference, module fragments, profiles, dependency sections, plugins
// and repositories, before any profile injection or inheritance. Raw
// descriptors are treated as immutable; every transformation below
// returns a new value (typically via Clone).
type RawDescriptor struct {
	GroupID    string
	ArtifactID string
	Version    string

	Parent *ParentReference

	// SourceFile is the descriptor's file path, used by the workspace
	// selector (file/directory forms) and by the external-resolver
	// cache's sanity check.
	SourceFile string

	Modules []string

	Profiles []Profile

	Properties           map[string]string
	DependencyManagement []Dependency
	Dependencies         []Dependency
	Plugins              []Plugin
	Repositories         []Repository
}

// BaseDirectory is the directory containing SourceFile.
func (d *RawDescriptor) BaseDirectory() string {
	if d.SourceFile == "" {
		return ""
	}
	return filepath.Dir(d.SourceFile)
}

// Coordinate derives this descriptor's coordinate without any
// inheritance or interpolation, per spec §3: if GroupID is absent it
// is taken from the parent reference; if still absent the descriptor
// is invalid.
func (d *RawDescriptor) Coordinate() (Coordinate, error) {
	groupID := d.GroupID
	if groupID == "" && d.Parent != nil {
		groupID = d.Parent.GroupID
	}
	if groupID == "" || d.ArtifactID == "" {
		return Coordinate{}, errors.WithStackTrace(&InvalidCoordinateError{SourceFile: d.SourceFile})
	}
	return Coordinate{GroupID: groupID, ArtifactID: d.ArtifactID}, nil
}

// InvalidCoordinateError reports a descriptor from which no coordinate
// could be derived: no groupId, and no parent to borrow one from.
type InvalidCoordinateError struct {
	SourceFile string
}

func (e *InvalidCoordinateError) Error() string {
	return "descriptor at " + e.SourceFile + " has no groupId and no parent to inherit one from"
}

// Clone returns a deep-enough copy of d so that overlay merges and
// lineage assembly never mutate a shared RawDescriptor in place.
func (d *RawDescriptor) Clone() *RawDescriptor {
	out := *d
	if d.Parent != nil {
		p := *d.Parent
		out.Parent = &p
	}
	out.Modules = append([]string(nil), d.Modules...)
	out.Profiles = append([]Profile(nil), d.Profiles...)
	out.Properties = cloneStringMap(d.Properties)
	out.DependencyManagement = append([]Dependency(nil), d.DependencyManagement...)
	out.Dependencies = append([]Dependency(nil), d.Dependencies...)
	out.Plugins = append([]Plugin(nil), d.Plugins...)
	out.Repositories = append([]Repository(nil), d.Repositories...)
	return &out
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ApplyOverlay merges o into a clone of d: list-valued sections are
// appended with no identity-key dedup (an overlay is additive by
// definition, and the inheritance assembler keeps duplicates within one
// descriptor's own lists), scalar-valued properties are overridden key
// by key.
func (d *RawDescriptor) ApplyOverlay(o *Overlay) *RawDescriptor {
	if o == nil {
		return d
	}
	out := d.Clone()
	if out.Properties == nil {
		out.Properties = map[string]string{}
	}
	for k, v := range o.Properties {
		out.Properties[k] = v
	}
	out.Dependencies = append(out.Dependencies, o.Dependencies...)
	out.DependencyManagement = append(out.DependencyManagement, o.DependencyManagement...)
	out.Plugins = append(out.Plugins, o.Plugins...)
	out.Repositories = append(out.Repositories, o.Repositories...)
	out.Modules = append(out.Modules, o.Modules...)
	return out
}
