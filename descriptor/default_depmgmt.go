package descriptor

// defaultDependencyManagementInjector is the reference
// DependencyManagementInjector: any dependency with no version gets
// the managed version for its coordinate, when one exists.
type defaultDependencyManagementInjector struct{}

func (defaultDependencyManagementInjector) Inject(d *RawDescriptor, managed map[Coordinate]Dependency) *RawDescriptor {
	if len(managed) == 0 {
		return d
	}
	out := d.Clone()
	for i, dep := range out.Dependencies {
		if dep.Version != "" {
			continue
		}
		if m, ok := managed[dep.Coordinate()]; ok {
			out.Dependencies[i].Version = m.Version
			if out.Dependencies[i].Scope == "" {
				out.Dependencies[i].Scope = m.Scope
			}
		}
	}
	return out
}

// ManagedVersions reduces a dependency-management list (already merged
// from the descriptor's own section plus any resolved imports, in
// source order) to a coordinate -> Dependency lookup, first
// declaration winning - matching the import-merge order spec §4.E
// step 4 describes ("merged in source-order").
func ManagedVersions(entries []Dependency) map[Coordinate]Dependency {
	out := map[Coordinate]Dependency{}
	for _, e := range entries {
		c := e.Coordinate()
		if _, exists := out[c]; !exists {
			out[c] = e
		}
	}
	return out
}
