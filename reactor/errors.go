package reactor

import (
	"strings"

	"github.com/buildgraph/reactor/descriptor"
)

// DependencyCycleError is the fatal, build-terminating diagnostic cause
// for a dependency cycle among project coordinates (spec §7): the
// in-progress build stack, in recursion order, with the re-entered
// coordinate appended at the end so the cycle reads naturally.
type DependencyCycleError struct {
	Cycle []descriptor.Coordinate
}

func (e *DependencyCycleError) Error() string {
	parts := make([]string, len(e.Cycle))
	for i, c := range e.Cycle {
		parts[i] = c.String()
	}
	return "dependency cycle detected: " + strings.Join(parts, " -> ")
}

// BinaryDependsOnMissingSourceError reports a binary project whose
// transitive closure touches a source-variant project for which no
// source variant is actually available in the workspace (spec §4.D).
type BinaryDependsOnMissingSourceError struct {
	Coordinate descriptor.Coordinate
}

func (e *BinaryDependsOnMissingSourceError) Error() string {
	return "binary project " + e.Coordinate.String() + " refers to a source project, but no source project with same id available"
}

// UnrecognizedCoordinateError is an internal assertion violation: a
// coordinate requested that is neither a workspace source nor binary
// project nor resolvable externally. Spec §7 classifies this as a
// programming error, not a data error.
type UnrecognizedCoordinateError struct {
	Coordinate descriptor.Coordinate
}

func (e *UnrecognizedCoordinateError) Error() string {
	return "assertion violation: coordinate " + e.Coordinate.String() + " requested from an index that does not contain it"
}

// BothModeUnsupportedError is the fatal diagnostic BOTH-mode requests
// produce unconditionally (spec §4.D, §7).
type BothModeUnsupportedError struct{}

func (e *BothModeUnsupportedError) Error() string {
	return "BOTH build-behavior mode is not supported"
}
