// Package reactor is the algorithmic heart of the module (spec §4.E):
// it drives recursion over coordinates, memoizes partial results via
// buildState, and detects dependency cycles. Modeled on
// config_graph.go's dag.AcyclicGraph-based evaluator - recursive
// resolution with a per-run memo and a cycle-detected "currently
// evaluating" set - generalized from Terraform locals/globals
// evaluation to descriptor coordinates.
package reactor

import (
	"context"

	"github.com/google/uuid"
	"github.com/gruntwork-io/go-commons/errors"
	"github.com/sirupsen/logrus"

	"github.com/buildgraph/reactor/descriptor"
	"github.com/buildgraph/reactor/diag"
	"github.com/buildgraph/reactor/policy"
	"github.com/buildgraph/reactor/project"
	"github.com/buildgraph/reactor/session"
	"github.com/buildgraph/reactor/workspace"
)

// Builder is the graph builder: one per invocation, holding the
// immutable collaborators (session, pipeline, resolver) plus the
// mutable buildState it owns exclusively for the lifetime of one
// Build call.
type Builder struct {
	session *session.Session

	sourceIndex workspace.Index
	binaryIndex workspace.Index

	policy   *policy.Policy
	pipeline *descriptor.Pipeline

	resolver   descriptor.ExternalResolver
	superModel descriptor.SuperModelProvider

	log *logrus.Entry

	state *buildState
}

// Config bundles the collaborators New needs beyond the session:
// everything spec §6 calls "collaborator interfaces the core
// consumes", plus the two workspace indexes (source always populated,
// binary only under SELECTED_ONLY/DOWNSTREAM).
type Config struct {
	SourceIndex workspace.Index
	BinaryIndex workspace.Index
	Pipeline    *descriptor.Pipeline
	Resolver    descriptor.ExternalResolver
	SuperModel  descriptor.SuperModelProvider
	Log         *logrus.Entry
}

// New builds a Builder for one invocation of sess. It fails fast - no
// recursion has started yet - if sess requests the unsupported BOTH
// mode, per spec §6/§7.
func New(sess *session.Session, cfg Config) (*Builder, diag.Result[*project.Graph]) {
	mode := sess.MakeBehaviorResolved()
	if mode == session.MakeBoth {
		return nil, diag.ErrorResult[*project.Graph](diag.FatalD("", "BOTH build-behavior mode is not supported", &BothModeUnsupportedError{}))
	}

	selected := selectedCoordinates(sess, cfg.SourceIndex, cfg.BinaryIndex)

	var kind policy.Kind
	switch mode {
	case session.MakeAll:
		kind = policy.All
	case session.MakeSelectedOnly:
		kind = policy.SelectedOnly
	case session.MakeUpstream:
		kind = policy.Upstream
	case session.MakeDownstream:
		kind = policy.Downstream
	}

	log := cfg.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	b := &Builder{
		session:     sess,
		sourceIndex: cfg.SourceIndex,
		binaryIndex: cfg.BinaryIndex,
		policy:      policy.New(kind, cfg.SourceIndex, cfg.BinaryIndex, selected),
		pipeline:    cfg.Pipeline,
		resolver:    cfg.Resolver,
		superModel:  cfg.SuperModel,
		log:         log,
		state:       newBuildState(),
	}
	return b, diag.Result[*project.Graph]{}
}

// selectedCoordinates resolves the session's raw selector strings
// against the source index (spec §4.C); an invalid selector yields no
// coordinates here - Build surfaces it as a fatal diagnostic instead,
// since selector validity is checked again at that boundary below.
func selectedCoordinates(sess *session.Session, sourceIndex, binaryIndex workspace.Index) []descriptor.Coordinate {
	selectedIdx := workspace.Select(sourceIndex, sess.SelectedProjects(), sess.BaseDirectory())
	if selectedIdx.IsError() {
		return nil
	}
	coords := selectedIdx.Value().Coordinates()

	// SELECTED_ONLY also honors selectors that only name a binary
	// variant project (spec §4.D table, "in source OR binary index").
	binSelected := workspace.Select(binaryIndex, sess.SelectedProjects(), sess.BaseDirectory())
	if !binSelected.IsError() {
		seen := map[descriptor.Coordinate]bool{}
		for _, c := range coords {
			seen[c] = true
		}
		for _, c := range binSelected.Value().Coordinates() {
			if !seen[c] {
				coords = append(coords, c)
				seen[c] = true
			}
		}
	}
	return coords
}

// Build runs the whole traversal: every seed coordinate through
// buildByCoord, then flattens the memo into the final graph (spec §4.E
// top-level).
func (b *Builder) Build(ctx context.Context) diag.Result[*project.Graph] {
	buildID := uuid.NewString()
	log := b.log.WithField("build_id", buildID)

	if errs := validateSelectors(b.session); errs != nil {
		return diag.ErrorResult[*project.Graph](*errs)
	}

	seeds := b.policy.SeedCoordinates()
	log.Debugf("reactor: building %d seed coordinate(s) in %s mode", len(seeds), b.policy.Kind())

	for _, seed := range seeds {
		result := b.buildByCoord(ctx, seed)
		if isDependencyCycle(result) {
			log.Errorf("reactor: aborting build, dependency cycle detected while building %s", seed)
			return diag.ErrorWithValue[*project.Graph](nil, result.Diagnostics()...)
		}
	}

	resultSet := diag.NewResultSet(b.state.results())
	graph := project.NewGraph(resultSet.Value().Values)

	if resultSet.IsError() {
		return diag.ErrorWithValue(graph, resultSet.Diagnostics()...)
	}
	return diag.SuccessWith(graph, resultSet.Diagnostics())
}

func validateSelectors(sess *session.Session) *diag.Diagnostic {
	for _, raw := range sess.SelectedProjects() {
		if _, err := workspace.ParseSelector(raw, sess.BaseDirectory()); err != nil {
			d := diag.FatalD(raw, "invalid project selector", err)
			return &d
		}
	}
	return nil
}

func isDependencyCycle(r diag.Result[*project.Node]) bool {
	for _, d := range r.Diagnostics() {
		if _, ok := d.Cause.(*DependencyCycleError); ok {
			return true
		}
	}
	return false
}

// buildByCoord is the single memoized entry point for any coordinate,
// workspace or external (spec §4.E). This collapses spec §4.E's
// "workspace resolver adapter" - a check for workspace membership, then
// a fallback to the external resolver - into one recursive call: every
// collaborator that needs a coordinate's descriptor (parent resolution,
// import resolution, reference resolution) calls this same method
// rather than two different paths.
func (b *Builder) buildByCoord(ctx context.Context, coord descriptor.Coordinate) diag.Result[*project.Node] {
	if r, ok := b.state.lookupCompleted(coord); ok {
		return r
	}

	if cycleErr := b.state.beginBuilding(coord); cycleErr != nil {
		return diag.ErrorResult[*project.Node](diag.FatalD(coord.String(), cycleErr.Error(), cycleErr))
	}

	var result diag.Result[*project.Node]
	if b.policy.IsProject(coord) {
		result = b.policy.Build(ctx, coord, b)
	} else {
		result = b.buildExternal(ctx, coord)
	}

	b.state.endBuilding(coord)
	b.state.insertCompleted(coord, result)
	return result
}

// BuildSource builds coord's source-variant node, satisfying
// policy.Builder. Asserts coord is actually present in the source
// index - an internal invariant violation, not a data error, if not,
// since the policy only calls this after deciding the coordinate has a
// source variant.
func (b *Builder) BuildSource(ctx context.Context, coord descriptor.Coordinate) diag.Result[*project.Node] {
	raw, ok := b.sourceIndex.Get(coord)
	if !ok {
		return diag.ErrorResult[*project.Node](diag.FatalD(coord.String(), "internal error", &UnrecognizedCoordinateError{Coordinate: coord}))
	}
	return b.buildByVariant(ctx, coord, project.Source, raw)
}

// BuildBinary builds coord's binary-variant node, satisfying policy.Builder.
func (b *Builder) BuildBinary(ctx context.Context, coord descriptor.Coordinate) diag.Result[*project.Node] {
	raw, ok := b.binaryIndex.Get(coord)
	if !ok {
		return diag.ErrorResult[*project.Node](diag.FatalD(coord.String(), "internal error", &UnrecognizedCoordinateError{Coordinate: coord}))
	}
	return b.buildByVariant(ctx, coord, project.Binary, raw)
}

// buildExternal resolves a non-workspace coordinate through the
// external resolver (cached by the session) and builds it as a Binary
// node - an externally resolved artifact is, by construction, never a
// source project the reactor can descend further into.
func (b *Builder) buildExternal(ctx context.Context, coord descriptor.Coordinate) diag.Result[*project.Node] {
	raw, err := b.resolveModel(ctx, coord.GroupID, coord.ArtifactID, "", "")
	if err != nil {
		return diag.ErrorResult[*project.Node](diag.FatalD(coord.String(), "failed to resolve external model", err))
	}
	return b.buildByVariant(ctx, coord, project.Binary, raw)
}

// resolveModel fetches (groupId, artifactId) from the session cache,
// falling back to the external resolver on a miss or a sanity-check
// failure (spec §5: "on a hit, perform a sanity check that the cached
// descriptor's source file matches the expected parent path; on
// mismatch, bypass the cache and re-resolve").
func (b *Builder) resolveModel(ctx context.Context, groupID, artifactID, version, expectedSourceFile string) (*descriptor.RawDescriptor, error) {
	if cached, ok := b.session.Cache().getModel(groupID, artifactID, version, expectedSourceFile); ok {
		return cached, nil
	}
	raw, err := b.resolver.ResolveModel(ctx, groupID, artifactID, version)
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}
	b.session.Cache().putModel(groupID, artifactID, version, raw)
	return raw, nil
}

func (b *Builder) resolveParent(ctx context.Context, ref descriptor.ParentReference, expectedSourceFile string) (*descriptor.RawDescriptor, error) {
	if cached, ok := b.session.Cache().getParent(ref, expectedSourceFile); ok {
		return cached, nil
	}
	raw, err := b.resolver.ResolveParent(ctx, ref)
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}
	b.session.Cache().putParent(ref, raw)
	return raw, nil
}
