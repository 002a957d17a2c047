package descriptor

// ActivatedDescriptor is a raw descriptor with its active profiles
// (both its own and the session's external ones) injected. Immutable
// once produced.
type ActivatedDescriptor struct {
	Raw                     *RawDescriptor
	ActiveExternalProfiles  []string
	ActivePOMProfileIDs     []string
}

// InterpolatedDescriptor is an ActivatedDescriptor after its parent
// lineage has been assembled by inheritance and every ${expr} resolved.
type InterpolatedDescriptor struct {
	Raw *RawDescriptor
}

// EffectiveDescriptor is an InterpolatedDescriptor after
// dependency-management injection, default-value injection, and
// effective-model validation.
type EffectiveDescriptor struct {
	Raw         *RawDescriptor
	Diagnostics []ValidationProblem
}

// HasFatal reports whether validation produced a Fatal-severity problem.
func (e *EffectiveDescriptor) HasFatal() bool {
	for _, p := range e.Diagnostics {
		if p.Severity == HintFatal {
			return true
		}
	}
	return false
}

// InjectDefaults fills in the descriptor-wide defaults the enablement
// stage applies before validation: an unset dependency scope defaults
// to "compile" and an unset dependency type to "library"; versions and
// plugins are left untouched.
func InjectDefaults(d *RawDescriptor) *RawDescriptor {
	out := d.Clone()
	for i := range out.Dependencies {
		if out.Dependencies[i].Scope == "" {
			out.Dependencies[i].Scope = "compile"
		}
		if out.Dependencies[i].Type == "" {
			out.Dependencies[i].Type = "library"
		}
	}
	return out
}
