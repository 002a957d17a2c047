package descriptor

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// HCLParser is the reference Parser implementation: descriptors are
// written as a single labeled `project "groupId" "artifactId" { ... }`
// block. Grounded on the teacher's own config package, which decodes
// terragrunt.hcl with hashicorp/hcl/v2 + gohcl - this uses that same
// pair directly rather than the teacher's internal hclparse wrapper
// (config/hclparse), which was never retrieved into the pack; a plain
// hclparse.Parser + gohcl.DecodeBody pair covers the same concern.
type HCLParser struct{}

type hclProjectWithLabels struct {
	GroupID    string               `hcl:"group_id,label"`
	ArtifactID string               `hcl:"artifact_id,label"`
	Version    string               `hcl:"version,optional"`
	Parent     *hclParentBlock      `hcl:"parent,block"`
	Modules    []string             `hcl:"modules,optional"`
	Properties map[string]string    `hcl:"properties,optional"`
	DepMgmt    []hclDependencyBlock `hcl:"dependency_management,block"`
	Deps       []hclDependencyBlock `hcl:"dependency,block"`
	Plugins    []hclPluginBlock     `hcl:"plugin,block"`
	Repos      []hclRepositoryBlock `hcl:"repository,block"`
	Profiles   []hclProfileBlock    `hcl:"profile,block"`
}

type hclParentBlock struct {
	GroupID    string `hcl:"group_id"`
	ArtifactID string `hcl:"artifact_id"`
	Version    string `hcl:"version,optional"`
}

type hclDependencyBlock struct {
	GroupID    string `hcl:"group_id"`
	ArtifactID string `hcl:"artifact_id"`
	Version    string `hcl:"version,optional"`
	Type       string `hcl:"type,optional"`
	Scope      string `hcl:"scope,optional"`
	Optional   bool   `hcl:"optional,optional"`
}

type hclPluginBlock struct {
	GroupID    string `hcl:"group_id"`
	ArtifactID string `hcl:"artifact_id"`
	Version    string `hcl:"version,optional"`
}

type hclRepositoryBlock struct {
	ID  string `hcl:"id,label"`
	URL string `hcl:"url"`
}

type hclProfileBlock struct {
	ID              string                 `hcl:"id,label"`
	ActiveByDefault bool                   `hcl:"active_by_default,optional"`
	JDK             string                 `hcl:"jdk,optional"`
	Property        *hclPropertyActivation `hcl:"property,block"`
	File            *hclFileActivation     `hcl:"file,block"`
	OS              *hclOSActivation       `hcl:"os,block"`
	Properties      map[string]string      `hcl:"properties,optional"`
	Deps            []hclDependencyBlock   `hcl:"dependency,block"`
	DepMgmt         []hclDependencyBlock   `hcl:"dependency_management,block"`
	Plugins         []hclPluginBlock       `hcl:"plugin,block"`
	Repos           []hclRepositoryBlock   `hcl:"repository,block"`
	Modules         []string               `hcl:"modules,optional"`
}

type hclPropertyActivation struct {
	Name  string `hcl:"name"`
	Value string `hcl:"value,optional"`
}

type hclFileActivation struct {
	Exists  string `hcl:"exists,optional"`
	Missing string `hcl:"missing,optional"`
}

type hclOSActivation struct {
	Name    string `hcl:"name,optional"`
	Family  string `hcl:"family,optional"`
	Arch    string `hcl:"arch,optional"`
	Version string `hcl:"version,optional"`
}

// wrapperFile is the file's single top-level block: project "g" "a" {}.
type wrapperFile struct {
	Project hclProjectWithLabels `hcl:"project,block"`
}

func (HCLParser) Parse(ctx context.Context, sourceFile string, opts ParseOptions) (*RawDescriptor, []Diagnostic, error) {
	parser := hclparse.NewParser()
	f, hclDiags := parser.ParseHCLFile(sourceFile)
	if hclDiags.HasErrors() {
		return nil, translateHCLDiagnostics(hclDiags, sourceFile), fmt.Errorf("parsing %s: %w", sourceFile, hclDiags)
	}

	var wrapper wrapperFile
	decodeDiags := gohcl.DecodeBody(f.Body, nil, &wrapper)
	diagnostics := translateHCLDiagnostics(decodeDiags, sourceFile)
	if decodeDiags.HasErrors() {
		return nil, diagnostics, fmt.Errorf("decoding %s: %w", sourceFile, decodeDiags)
	}

	raw := &RawDescriptor{
		GroupID:    wrapper.Project.GroupID,
		ArtifactID: wrapper.Project.ArtifactID,
		Version:    wrapper.Project.Version,
		SourceFile: sourceFile,
		Modules:    wrapper.Project.Modules,
		Properties: wrapper.Project.Properties,
	}
	if wrapper.Project.Parent != nil {
		raw.Parent = &ParentReference{
			GroupID:    wrapper.Project.Parent.GroupID,
			ArtifactID: wrapper.Project.Parent.ArtifactID,
			Version:    wrapper.Project.Parent.Version,
		}
	}
	for _, d := range wrapper.Project.DepMgmt {
		raw.DependencyManagement = append(raw.DependencyManagement, toDependency(d))
	}
	for _, d := range wrapper.Project.Deps {
		raw.Dependencies = append(raw.Dependencies, toDependency(d))
	}
	for _, p := range wrapper.Project.Plugins {
		raw.Plugins = append(raw.Plugins, Plugin{GroupID: p.GroupID, ArtifactID: p.ArtifactID, Version: p.Version})
	}
	for _, r := range wrapper.Project.Repos {
		raw.Repositories = append(raw.Repositories, Repository{ID: r.ID, URL: r.URL})
	}
	for _, p := range wrapper.Project.Profiles {
		raw.Profiles = append(raw.Profiles, toProfile(p))
	}

	return raw, diagnostics, nil
}

func toDependency(d hclDependencyBlock) Dependency {
	return Dependency{GroupID: d.GroupID, ArtifactID: d.ArtifactID, Version: d.Version, Type: d.Type, Scope: d.Scope, Optional: d.Optional}
}

func toProfile(p hclProfileBlock) Profile {
	activation := Activation{ActiveByDefault: p.ActiveByDefault, JDK: p.JDK}
	if p.Property != nil {
		activation.Property = &PropertyActivation{Name: p.Property.Name, Value: p.Property.Value}
	}
	if p.File != nil {
		activation.File = &FileActivation{Exists: p.File.Exists, Missing: p.File.Missing}
	}
	if p.OS != nil {
		activation.OS = &OSActivation{Name: p.OS.Name, Family: p.OS.Family, Arch: p.OS.Arch, Version: p.OS.Version}
	}

	overlay := &Overlay{Properties: p.Properties, Modules: p.Modules}
	for _, d := range p.Deps {
		overlay.Dependencies = append(overlay.Dependencies, toDependency(d))
	}
	for _, d := range p.DepMgmt {
		overlay.DependencyManagement = append(overlay.DependencyManagement, toDependency(d))
	}
	for _, pl := range p.Plugins {
		overlay.Plugins = append(overlay.Plugins, Plugin{GroupID: pl.GroupID, ArtifactID: pl.ArtifactID, Version: pl.Version})
	}
	for _, r := range p.Repos {
		overlay.Repositories = append(overlay.Repositories, Repository{ID: r.ID, URL: r.URL})
	}

	return Profile{ID: p.ID, Activation: activation, Overlay: overlay}
}

func translateHCLDiagnostics(diags hcl.Diagnostics, sourceFile string) []Diagnostic {
	out := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		hint := HintError
		if d.Severity == hcl.DiagError {
			hint = HintFatal
		}
		out = append(out, Diagnostic{Severity: hint, Message: d.Summary + ": " + d.Detail, Source: sourceFile})
	}
	return out
}
