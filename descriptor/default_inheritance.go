package descriptor

import "dario.cat/mergo"

// defaultInheritanceAssembler is the reference InheritanceAssembler.
// Scalar fields are merged with dario.cat/mergo the same way
// config/cty_helpers.go deep-merges cty maps: child values are kept
// untouched, parent values fill in only where the child left the zero
// value, via a plain mergo.Merge of the parent into the child (no
// WithOverride). List-valued sections merge by identity key (coordinate),
// which mergo cannot express on its own, so those are merged by hand.
type defaultInheritanceAssembler struct{}

func (defaultInheritanceAssembler) Merge(parent, child *RawDescriptor) *RawDescriptor {
	if parent == nil {
		return child.Clone()
	}
	if child == nil {
		return parent.Clone()
	}

	merged := child.Clone()

	scalarParent := struct {
		GroupID string
		Version string
	}{GroupID: parent.GroupID, Version: parent.Version}
	scalarChild := struct {
		GroupID string
		Version string
	}{GroupID: merged.GroupID, Version: merged.Version}
	// child wins on conflicts: merge parent's values into child's,
	// but never override a field the child already set.
	_ = mergo.Merge(&scalarChild, scalarParent)
	merged.GroupID = scalarChild.GroupID
	merged.Version = scalarChild.Version

	merged.Properties = mergeProperties(parent.Properties, child.Properties)
	merged.DependencyManagement = mergeDependencies(parent.DependencyManagement, child.DependencyManagement)
	merged.Dependencies = mergeDependencies(parent.Dependencies, child.Dependencies)
	merged.Plugins = mergePlugins(parent.Plugins, child.Plugins)
	merged.Repositories = mergeRepositories(parent.Repositories, child.Repositories)

	return merged
}

// mergeProperties: child wins on key conflicts.
func mergeProperties(parent, child map[string]string) map[string]string {
	out := map[string]string{}
	for k, v := range parent {
		out[k] = v
	}
	for k, v := range child {
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// mergeDependencies merges by (groupId, artifactId) identity key:
// child entries win outright, and any parent entry whose coordinate
// isn't already present in the child is appended, preserving the
// child's declaration order followed by the parent's.
func mergeDependencies(parent, child []Dependency) []Dependency {
	seen := map[Coordinate]bool{}
	out := append([]Dependency(nil), child...)
	for _, d := range child {
		seen[d.Coordinate()] = true
	}
	for _, d := range parent {
		if !seen[d.Coordinate()] {
			out = append(out, d)
			seen[d.Coordinate()] = true
		}
	}
	return out
}

func mergePlugins(parent, child []Plugin) []Plugin {
	seen := map[Coordinate]bool{}
	out := append([]Plugin(nil), child...)
	for _, p := range child {
		seen[p.Coordinate()] = true
	}
	for _, p := range parent {
		if !seen[p.Coordinate()] {
			out = append(out, p)
			seen[p.Coordinate()] = true
		}
	}
	return out
}

func mergeRepositories(parent, child []Repository) []Repository {
	seen := map[string]bool{}
	out := append([]Repository(nil), child...)
	for _, r := range child {
		seen[r.ID] = true
	}
	for _, r := range parent {
		if !seen[r.ID] {
			out = append(out, r)
			seen[r.ID] = true
		}
	}
	return out
}
