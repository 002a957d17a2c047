// Package session holds the per-invocation configuration the core
// reactor package consumes (spec §6): the immutable Session value plus
// the invocation-owned external-descriptor cache. Modeled on the
// teacher's options.TerragruntOptions - a flat struct of path,
// selection and property inputs, built once at the CLI boundary and
// threaded down read-only - generalized from Terragrunt's single
// "terragrunt.hcl" input to the project-selection and profile-activation
// inputs this spec's reactor needs.
package session

import (
	"github.com/buildgraph/reactor/descriptor"
)

// MakeBehavior selects one of the build-behavior modes a session
// requests (spec §6); translated to policy.Kind at the reactor boundary
// once the workspace index is known; kept independent of package policy
// so this package never imports it.
type MakeBehavior int

const (
	// MakeUnspecified resolves to SELECTED_ONLY if selectedProjects is
	// non-empty, else ALL - the "null" entry in spec §6's table.
	MakeUnspecified MakeBehavior = iota
	MakeAll
	MakeSelectedOnly
	MakeUpstream
	MakeDownstream
	MakeBoth
)

// Session is the immutable set of inputs to one reactor invocation
// (spec §6). Built with New and narrowed with the fluent With* methods,
// each of which returns a modified copy rather than mutating in place,
// matching the teacher's options.Clone()-based configuration idiom.
type Session struct {
	pomFile       string
	baseDirectory string

	selectedProjects []string
	makeBehavior     MakeBehavior

	activeProfileIDs   []string
	inactiveProfileIDs []string

	systemProperties map[string]string
	userProperties   map[string]string

	validationLevel descriptor.ValidationLevel

	profiles []descriptor.Profile

	repositorySession  any
	remoteRepositories []descriptor.Repository

	cache *externalCache
}

// New builds a Session rooted at pomFile, with baseDirectory stored as
// given (no default is derived from pomFile) and every other input at its
// zero value (ALL mode, minimal validation, no profiles, no properties).
func New(pomFile, baseDirectory string) *Session {
	return &Session{
		pomFile:          pomFile,
		baseDirectory:    baseDirectory,
		systemProperties: map[string]string{},
		userProperties:   map[string]string{},
		cache:            newExternalCache(),
	}
}

func (s *Session) clone() *Session {
	out := *s
	return &out
}

// WithSelectedProjects returns a copy selecting selectors, implying
// SELECTED_ONLY make-behavior unless WithMakeBehavior overrides it.
func (s *Session) WithSelectedProjects(selectors ...string) *Session {
	out := s.clone()
	out.selectedProjects = append([]string(nil), selectors...)
	return out
}

// WithMakeBehavior returns a copy with an explicit build-behavior mode.
func (s *Session) WithMakeBehavior(m MakeBehavior) *Session {
	out := s.clone()
	out.makeBehavior = m
	return out
}

// WithActiveProfiles returns a copy with explicit profile activation ids.
func (s *Session) WithActiveProfiles(ids ...string) *Session {
	out := s.clone()
	out.activeProfileIDs = append([]string(nil), ids...)
	return out
}

// WithInactiveProfiles returns a copy with explicit profile deactivation ids.
func (s *Session) WithInactiveProfiles(ids ...string) *Session {
	out := s.clone()
	out.inactiveProfileIDs = append([]string(nil), ids...)
	return out
}

// WithSystemProperties returns a copy with the given system properties
// merged over the existing set (later calls win on key conflicts).
func (s *Session) WithSystemProperties(props map[string]string) *Session {
	out := s.clone()
	out.systemProperties = mergeStringMaps(s.systemProperties, props)
	return out
}

// WithUserProperties returns a copy with the given user properties
// merged over the existing set.
func (s *Session) WithUserProperties(props map[string]string) *Session {
	out := s.clone()
	out.userProperties = mergeStringMaps(s.userProperties, props)
	return out
}

// WithValidationLevel returns a copy requesting a different validation strictness.
func (s *Session) WithValidationLevel(level descriptor.ValidationLevel) *Session {
	out := s.clone()
	out.validationLevel = level
	return out
}

// WithExternalProfiles returns a copy carrying externally contributed
// profile definitions (spec §6, "profiles").
func (s *Session) WithExternalProfiles(profiles ...descriptor.Profile) *Session {
	out := s.clone()
	out.profiles = append([]descriptor.Profile(nil), profiles...)
	return out
}

// WithRepositorySession returns a copy carrying an opaque repository
// session handed to the external resolver unchanged.
func (s *Session) WithRepositorySession(repoSession any) *Session {
	out := s.clone()
	out.repositorySession = repoSession
	return out
}

// WithRemoteRepositories returns a copy carrying the declared remote repositories.
func (s *Session) WithRemoteRepositories(repos ...descriptor.Repository) *Session {
	out := s.clone()
	out.remoteRepositories = append([]descriptor.Repository(nil), repos...)
	return out
}

// PomFile is the filesystem path to the root descriptor.
func (s *Session) PomFile() string { return s.pomFile }

// BaseDirectory is the directory project selectors resolve against.
func (s *Session) BaseDirectory() string { return s.baseDirectory }

// SelectedProjects is the ordered list of raw selector strings.
func (s *Session) SelectedProjects() []string {
	return append([]string(nil), s.selectedProjects...)
}

// MakeBehaviorResolved reports the requested build-behavior mode,
// resolving MakeUnspecified per spec §6's table: SELECTED_ONLY if
// selections are present, else ALL.
func (s *Session) MakeBehaviorResolved() MakeBehavior {
	if s.makeBehavior != MakeUnspecified {
		return s.makeBehavior
	}
	if len(s.selectedProjects) > 0 {
		return MakeSelectedOnly
	}
	return MakeAll
}

// ActiveProfileIDs is the explicit activation override list.
func (s *Session) ActiveProfileIDs() []string { return append([]string(nil), s.activeProfileIDs...) }

// InactiveProfileIDs is the explicit deactivation override list.
func (s *Session) InactiveProfileIDs() []string {
	return append([]string(nil), s.inactiveProfileIDs...)
}

// SystemProperties is the property map used for activation and
// interpolation, below user properties in precedence.
func (s *Session) SystemProperties() map[string]string { return mergeStringMaps(nil, s.systemProperties) }

// UserProperties is the property map used for activation and
// interpolation, above system properties in precedence.
func (s *Session) UserProperties() map[string]string { return mergeStringMaps(nil, s.userProperties) }

// ValidationLevel is the requested validation strictness.
func (s *Session) ValidationLevel() descriptor.ValidationLevel { return s.validationLevel }

// ExternalProfiles is the externally contributed profile definitions.
func (s *Session) ExternalProfiles() []descriptor.Profile {
	return append([]descriptor.Profile(nil), s.profiles...)
}

// RepositorySession is the opaque handle passed to the external resolver unchanged.
func (s *Session) RepositorySession() any { return s.repositorySession }

// RemoteRepositories is the declared remote repositories list.
func (s *Session) RemoteRepositories() []descriptor.Repository {
	return append([]descriptor.Repository(nil), s.remoteRepositories...)
}

// Cache returns the invocation's external-descriptor cache, created once in New.
func (s *Session) Cache() *externalCache { return s.cache }

func mergeStringMaps(base, overlay map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}
