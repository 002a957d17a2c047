package reactor

import (
	"context"

	"github.com/buildgraph/reactor/descriptor"
	"github.com/buildgraph/reactor/diag"
	"github.com/buildgraph/reactor/project"
)

// buildByVariant executes the per-descriptor pipeline (spec §4.E,
// component F) for one raw descriptor already resolved to a concrete
// variant, and constructs the project node. Each of the six steps is
// short-circuited on a fatal diagnostic; non-fatal diagnostics
// accumulate and ride along on the returned Result.
func (b *Builder) buildByVariant(ctx context.Context, coord descriptor.Coordinate, variant project.Variant, raw *descriptor.RawDescriptor) diag.Result[*project.Node] {
	var diagnostics []diag.Diagnostic

	node := &project.Node{Coordinate: coord, Variant: variant}

	// Step 1: parent resolution.
	parentNode, parentDiags := b.resolveParentNode(ctx, raw)
	diagnostics = append(diagnostics, parentDiags...)
	if hasFatal(parentDiags) {
		node.Err = firstCause(parentDiags)
		return diag.ErrorWithValue(node, diagnostics...)
	}
	node.Parent = parentNode

	// Step 2: activation - inject this descriptor's own active profile overlays.
	activated, actDiags := b.activate(raw, raw)
	diagnostics = append(diagnostics, actDiags...)

	// Step 3: lineage traversal, inheritance, interpolation.
	interpolated, lineageDiags := b.assembleLineage(ctx, activated, node.Parent)
	diagnostics = append(diagnostics, lineageDiags...)
	if hasFatal(lineageDiags) {
		node.Err = firstCause(lineageDiags)
		return diag.ErrorWithValue(node, diagnostics...)
	}

	// Step 4: import resolution.
	withImports, importDiags := b.resolveImports(ctx, interpolated)
	diagnostics = append(diagnostics, importDiags...)
	if hasFatal(importDiags) {
		node.Err = firstCause(importDiags)
		return diag.ErrorWithValue(node, diagnostics...)
	}

	// Step 5: enablement (defaults, dependency management, validation).
	effective, enableDiags := b.enable(withImports)
	diagnostics = append(diagnostics, enableDiags...)
	node.Effective = effective
	if effective.HasFatal() {
		node.Err = firstValidationFatal(effective.Diagnostics)
		return diag.ErrorWithValue(node, diagnostics...)
	}

	// Step 6: reference resolution.
	refDiags := b.resolveReferences(ctx, node, effective.Raw)
	diagnostics = append(diagnostics, refDiags...)
	if hasFatal(refDiags) {
		node.Err = firstCause(refDiags)
		return diag.ErrorWithValue(node, diagnostics...)
	}

	if hasFatalOrError(diagnostics) {
		return diag.ErrorWithValue(node, diagnostics...)
	}
	return diag.SuccessWith(node, diagnostics)
}

// resolveParentNode implements step 1: if the descriptor declares a
// parent that is a workspace project, recursively build it (routing
// through buildByCoord, so memoization and cycle detection apply
// uniformly) and attach the resulting node. An external parent is left
// for step 3's lineage walk to resolve.
func (b *Builder) resolveParentNode(ctx context.Context, raw *descriptor.RawDescriptor) (*project.Node, []diag.Diagnostic) {
	if raw.Parent == nil {
		return nil, nil
	}
	coord := raw.Parent.Coordinate()
	if !b.policy.IsProject(coord) {
		return nil, nil
	}

	result := b.buildByCoord(ctx, coord)
	if result.IsError() {
		return nil, append(result.Diagnostics(), diag.FatalD(raw.SourceFile, "failed to resolve parent "+coord.String(), nil))
	}
	return result.Value(), result.Diagnostics()
}

// activate runs the profile selector over raw's own profiles (spec §4.E
// step 2), in the activation context derived from activationSource, and
// applies each active overlay to a clone of raw.
func (b *Builder) activate(raw, activationSource *descriptor.RawDescriptor) (*descriptor.RawDescriptor, []diag.Diagnostic) {
	ctx := b.activationContext(activationSource)

	active := b.pipeline.ProfileSelector.SelectActive(raw.Profiles, ctx)
	out := raw
	for _, p := range active {
		out = out.ApplyOverlay(p.Overlay)
	}

	// External profiles the session contributes (spec §6, "profiles")
	// are applied unconditionally, with no activation predicate evaluated
	// - they represent already-resolved external activation.
	for _, p := range b.session.ExternalProfiles() {
		out = out.ApplyOverlay(p.Overlay)
	}

	return out, nil
}

func (b *Builder) activationContext(raw *descriptor.RawDescriptor) descriptor.ActivationContext {
	return descriptor.ActivationContext{
		Properties:         raw.Properties,
		BaseDirectory:      raw.BaseDirectory(),
		ActiveProfileIDs:   b.session.ActiveProfileIDs(),
		InactiveProfileIDs: b.session.InactiveProfileIDs(),
	}
}

func hasFatal(ds []diag.Diagnostic) bool {
	for _, d := range ds {
		if d.Severity == diag.Fatal {
			return true
		}
	}
	return false
}

func hasFatalOrError(ds []diag.Diagnostic) bool {
	for _, d := range ds {
		if d.Severity == diag.Fatal || d.Severity == diag.Error {
			return true
		}
	}
	return false
}

func firstCause(ds []diag.Diagnostic) error {
	for _, d := range ds {
		if d.Severity == diag.Fatal {
			return d
		}
	}
	return nil
}

func firstValidationFatal(problems []descriptor.ValidationProblem) error {
	for _, p := range problems {
		if p.Severity == descriptor.HintFatal {
			return &effectiveValidationError{message: p.Message}
		}
	}
	return nil
}

type effectiveValidationError struct{ message string }

func (e *effectiveValidationError) Error() string { return e.message }
