// Package policy implements the build-behavior policy (spec §4.D): per
// invocation it decides which coordinates seed the graph traversal,
// which coordinates count as in-workspace, and which variant (source
// vs binary) represents each coordinate. Expressed as the tagged sum
// spec §9's design notes call for - one Kind plus a uniform Build
// dispatch - rather than one interface implementation per mode, since
// every mode shares the same seed/isProject/build shape and only the
// decision logic differs.
package policy

import (
	"context"

	"github.com/buildgraph/reactor/descriptor"
	"github.com/buildgraph/reactor/diag"
	"github.com/buildgraph/reactor/project"
	"github.com/buildgraph/reactor/workspace"
)

// Kind selects one of the five build-behavior modes.
type Kind int

const (
	All Kind = iota
	SelectedOnly
	Upstream
	Downstream
	Both
)

func (k Kind) String() string {
	switch k {
	case All:
		return "ALL"
	case SelectedOnly:
		return "SELECTED_ONLY"
	case Upstream:
		return "UPSTREAM"
	case Downstream:
		return "DOWNSTREAM"
	case Both:
		return "BOTH"
	default:
		return "UNKNOWN"
	}
}

// Builder is the narrow slice of the reactor's graph builder the
// policy needs to decide a coordinate's variant: build the source or
// binary raw descriptor for coord directly (bypassing the
// memoized-by-coordinate recursion one level up, which has already
// marked coord as "building" by the time Build is invoked).
type Builder interface {
	BuildSource(ctx context.Context, coord descriptor.Coordinate) diag.Result[*project.Node]
	BuildBinary(ctx context.Context, coord descriptor.Coordinate) diag.Result[*project.Node]
}

// Policy is the tagged-sum build-behavior policy.
type Policy struct {
	kind         Kind
	sourceIndex  workspace.Index
	binaryIndex  workspace.Index
	selected     map[descriptor.Coordinate]bool
}

// New builds a Policy. binaryIndex may be the zero Index if no binary
// variants are available; selected is the project-selector subset.
// ALL and DOWNSTREAM seed from the full source index regardless;
// DOWNSTREAM still consults selected to force a coordinate to source.
func New(kind Kind, sourceIndex, binaryIndex workspace.Index, selected []descriptor.Coordinate) *Policy {
	sel := make(map[descriptor.Coordinate]bool, len(selected))
	for _, c := range selected {
		sel[c] = true
	}
	return &Policy{kind: kind, sourceIndex: sourceIndex, binaryIndex: binaryIndex, selected: sel}
}

// Kind reports which mode this Policy realizes.
func (p *Policy) Kind() Kind { return p.kind }

// SeedCoordinates returns the coordinates that start the traversal
// (spec §4.D table).
func (p *Policy) SeedCoordinates() []descriptor.Coordinate {
	switch p.kind {
	case All, Downstream:
		return p.sourceIndex.Coordinates()
	case SelectedOnly, Upstream:
		return sortedKeys(p.selected)
	default: // Both
		return nil
	}
}

// IsProject reports whether coord is considered part of the workspace.
func (p *Policy) IsProject(coord descriptor.Coordinate) bool {
	switch p.kind {
	case All, Upstream:
		return p.sourceIndex.Has(coord)
	case SelectedOnly, Downstream:
		return p.sourceIndex.Has(coord) || p.binaryIndex.Has(coord)
	default: // Both
		return false
	}
}

// Build decides which variant represents coord and builds it,
// delegating the actual pipeline work back to b.
func (p *Policy) Build(ctx context.Context, coord descriptor.Coordinate, b Builder) diag.Result[*project.Node] {
	switch p.kind {
	case All, Upstream:
		return b.BuildSource(ctx, coord)

	case SelectedOnly:
		if p.selected[coord] {
			return b.BuildSource(ctx, coord)
		}
		if p.binaryIndex.Has(coord) {
			return b.BuildBinary(ctx, coord)
		}
		return diag.ErrorResult[*project.Node](diag.FatalD(coord.String(),
			"coordinate is neither selected nor available as a binary variant", nil))

	case Downstream:
		return p.buildDownstream(ctx, coord, b)

	default: // Both
		return diag.ErrorResult[*project.Node](diag.FatalD(coord.String(), "BOTH build-behavior mode is not supported", nil))
	}
}

// buildDownstream implements spec §4.D's documented DOWNSTREAM variant
// decision: build source first if it exists; emit it when selected or
// when its own closure already touches a source project. Otherwise try
// the binary; if the binary's closure touches a source project, fall
// back to source ("use source because binary would pull in source")
// when a source variant of THIS coordinate exists, or fail fatally when
// it does not (the binary refers to a source project with no local
// source counterpart to fall back to).
func (p *Policy) buildDownstream(ctx context.Context, coord descriptor.Coordinate, b Builder) diag.Result[*project.Node] {
	hasSource := p.sourceIndex.Has(coord)

	var sourceResult diag.Result[*project.Node]
	if hasSource {
		sourceResult = b.BuildSource(ctx, coord)
		if sourceResult.IsError() {
			return sourceResult
		}
		if p.selected[coord] || project.TransitivelyReferences(sourceResult.Value(), project.Source) {
			return sourceResult
		}
	}

	if !p.binaryIndex.Has(coord) {
		if hasSource {
			return sourceResult
		}
		return diag.ErrorResult[*project.Node](diag.FatalD(coord.String(), "coordinate has neither a source nor a binary variant", nil))
	}

	binaryResult := b.BuildBinary(ctx, coord)
	if binaryResult.IsError() {
		return binaryResult
	}

	if project.TransitivelyReferences(binaryResult.Value(), project.Source) {
		if hasSource {
			return sourceResult
		}
		return diag.ErrorResult[*project.Node](diag.FatalD(coord.String(),
			"binary project refers to a source project, but no source project with same id available", nil))
	}

	return binaryResult
}

func sortedKeys(m map[descriptor.Coordinate]bool) []descriptor.Coordinate {
	out := make([]descriptor.Coordinate, 0, len(m))
	for c := range m {
		out = append(out, c)
	}
	// Deterministic order matters for reproducible seed iteration;
	// lexical on the textual coordinate form is sufficient.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].String() < out[j-1].String(); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
