package descriptor

// This file declares the five stage contracts the model pipeline (spec
// §4.F) depends on. Each is a stateless pure transformation; the core
// graph builder (package reactor) depends on these interfaces only, the
// same way terragrunt's config package depends on the hcl2 parser and
// zclconf/go-cty rather than hand-rolling expression evaluation. A
// Default* implementation of each ships in this package so the module
// is usable end to end, but any of the five can be swapped out via
// reactor.Config's Pipeline field without touching package reactor.

// ProfileSelector returns the active subset of profiles for an
// activation context, deterministically ordered by profile id.
type ProfileSelector interface {
	SelectActive(profiles []Profile, ctx ActivationContext) []Profile
}

// InheritanceAssembler merges a parent descriptor into a child,
// element-wise: the child wins on scalar conflicts, list-valued
// sections merge by identity key (coordinate for dependencies/plugins).
type InheritanceAssembler interface {
	Merge(parent, child *RawDescriptor) *RawDescriptor
}

// Interpolator performs fixed-point expansion of ${expr} references in
// a descriptor against a read-only property stack. Expression cycles
// are reported as Error-severity diagnostics, not fatal aborts - the
// offending field keeps its partly expanded text, unresolved ${...}
// tokens included.
type Interpolator interface {
	Interpolate(d *RawDescriptor, stack PropertyStack) (*RawDescriptor, []InterpolationProblem)
}

// InterpolationProblem names one ${expr} the interpolator could not
// resolve, e.g. because it formed a cycle.
type InterpolationProblem struct {
	Expression string
	Reason     string
}

// DependencyManagementInjector propagates managed versions onto
// unversioned dependencies.
type DependencyManagementInjector interface {
	Inject(d *RawDescriptor, managed map[Coordinate]Dependency) *RawDescriptor
}

// ValidationLevel selects how strictly Validator checks an effective descriptor.
type ValidationLevel int

const (
	ValidationMinimal ValidationLevel = iota
	ValidationV2
	ValidationStrict
)

// Validator applies the chosen rule level and reports diagnostics.
type Validator interface {
	Validate(d *RawDescriptor, level ValidationLevel) []ValidationProblem
}

// ValidationProblem is one Validator finding, with the severity it
// escalates to under the active ValidationLevel.
type ValidationProblem struct {
	Severity SeverityHint
	Message  string
}

// SeverityHint mirrors diag.Severity without importing package diag
// here, keeping this package free of a dependency on the result
// carrier - the reactor package translates these at the boundary.
type SeverityHint int

const (
	HintWarning SeverityHint = iota
	HintError
	HintFatal
)

// Pipeline bundles the five stages used together by the graph builder.
type Pipeline struct {
	ProfileSelector              ProfileSelector
	InheritanceAssembler         InheritanceAssembler
	Interpolator                 Interpolator
	DependencyManagementInjector DependencyManagementInjector
	Validator                    Validator
}

// DefaultPipeline wires the reference implementations shipped in this
// package.
func DefaultPipeline() *Pipeline {
	return &Pipeline{
		ProfileSelector:              &defaultProfileSelector{},
		InheritanceAssembler:         &defaultInheritanceAssembler{},
		Interpolator:                 &defaultInterpolator{},
		DependencyManagementInjector: &defaultDependencyManagementInjector{},
		Validator:                    &defaultValidator{},
	}
}
