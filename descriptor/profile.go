package descriptor

// Profile is a raw descriptor's own conditionally-activated overlay:
// an id, an activation predicate, and the content merged in when active.
type Profile struct {
	ID         string
	Activation Activation
	Overlay    *Overlay
}

// Activation is the predicate evaluated against an ActivationContext to
// decide whether a Profile is active. All non-zero fields must match
// for the predicate to be satisfied (conjunction), mirroring Maven's
// profile activation semantics, except ActiveByDefault, which only
// applies when nothing else in the descriptor activated any profile.
type Activation struct {
	ActiveByDefault bool

	// Property activation: Name must be set in the context's property
	// map. If Value is also set, the property's value must equal it;
	// otherwise its mere presence (or, with a leading "!", its absence)
	// is enough.
	Property *PropertyActivation

	// File activation: exactly one of Exists/Missing, resolved relative
	// to the context's base directory.
	File *FileActivation

	// JDK is a version-range-like string compared against the
	// context's JDK version. Exact-match only; range syntax is a
	// documented simplification (see DESIGN.md).
	JDK string

	OS *OSActivation
}

// PropertyActivation is the `<property>` activation predicate.
type PropertyActivation struct {
	Name  string
	Value string // empty means "present" (or, if Name starts with "!", "absent")
}

// FileActivation is the `<file>` activation predicate.
type FileActivation struct {
	Exists  string
	Missing string
}

// OSActivation is the `<os>` activation predicate.
type OSActivation struct {
	Name   string
	Family string
	Arch   string
	Version string
}

// ActivationContext is the read-only context a profile's Activation is
// evaluated against: properties visible at the point of evaluation, the
// descriptor's base directory (for file activation), explicit
// activation/deactivation by id, and host JDK/OS facts.
type ActivationContext struct {
	Properties    map[string]string
	BaseDirectory string

	ActiveProfileIDs   []string
	InactiveProfileIDs []string

	JDKVersion string
	OSName     string
	OSFamily   string
	OSArch     string
	OSVersion  string
}

// IsExplicitlyActive reports whether id is named in ActiveProfileIDs.
func (ctx ActivationContext) IsExplicitlyActive(id string) bool {
	return containsString(ctx.ActiveProfileIDs, id)
}

// IsExplicitlyInactive reports whether id is named in InactiveProfileIDs.
func (ctx ActivationContext) IsExplicitlyInactive(id string) bool {
	return containsString(ctx.InactiveProfileIDs, id)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
