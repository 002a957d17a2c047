package reactor

import (
	"github.com/buildgraph/reactor/descriptor"
	"github.com/buildgraph/reactor/diag"
	"github.com/buildgraph/reactor/project"
)

// buildState is the per-invocation recursion state spec §4.E calls for:
// an insertion-ordered memo of finished builds and an insertion-ordered
// set of coordinates currently being built, used to detect a cycle the
// instant it closes. Owned exclusively by one Builder.Build call -
// never shared across invocations, matching spec §5's "owned
// exclusively by one invocation" concurrency note.
type buildState struct {
	completed      map[descriptor.Coordinate]diag.Result[*project.Node]
	completedOrder []descriptor.Coordinate

	building      map[descriptor.Coordinate]bool
	buildingOrder []descriptor.Coordinate
}

func newBuildState() *buildState {
	return &buildState{
		completed: make(map[descriptor.Coordinate]diag.Result[*project.Node]),
		building:  make(map[descriptor.Coordinate]bool),
	}
}

func (s *buildState) lookupCompleted(coord descriptor.Coordinate) (diag.Result[*project.Node], bool) {
	r, ok := s.completed[coord]
	return r, ok
}

func (s *buildState) isBuilding(coord descriptor.Coordinate) bool {
	return s.building[coord]
}

// beginBuilding marks coord as in-progress, returning a DependencyCycleError
// naming the in-progress stack (in recursion order) if coord is already
// present - the DAG invariant is enforced here, not recovered from.
func (s *buildState) beginBuilding(coord descriptor.Coordinate) *DependencyCycleError {
	if s.building[coord] {
		cycle := append(append([]descriptor.Coordinate(nil), s.buildingOrder...), coord)
		return &DependencyCycleError{Cycle: cycle}
	}
	s.building[coord] = true
	s.buildingOrder = append(s.buildingOrder, coord)
	return nil
}

func (s *buildState) endBuilding(coord descriptor.Coordinate) {
	delete(s.building, coord)
	for i, c := range s.buildingOrder {
		if c == coord {
			s.buildingOrder = append(s.buildingOrder[:i], s.buildingOrder[i+1:]...)
			break
		}
	}
}

func (s *buildState) insertCompleted(coord descriptor.Coordinate, r diag.Result[*project.Node]) {
	if _, exists := s.completed[coord]; !exists {
		s.completedOrder = append(s.completedOrder, coord)
	}
	s.completed[coord] = r
}

// nodes returns every completed node in insertion order - a valid
// topological order of the output DAG, since a node is inserted only
// after every coordinate it references is already completed.
func (s *buildState) nodes() []*project.Node {
	out := make([]*project.Node, 0, len(s.completedOrder))
	for _, c := range s.completedOrder {
		r := s.completed[c]
		if r.HasValue() {
			out = append(out, r.Value())
		}
	}
	return out
}

func (s *buildState) results() []diag.Result[*project.Node] {
	out := make([]diag.Result[*project.Node], 0, len(s.completedOrder))
	for _, c := range s.completedOrder {
		out = append(out, s.completed[c])
	}
	return out
}
