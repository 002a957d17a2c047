// Package workspace reduces raw descriptors to a unique coordinate
// index and applies project selectors to it (spec §4.C).
package workspace

import (
	"sort"

	"github.com/buildgraph/reactor/descriptor"
	"github.com/buildgraph/reactor/diag"
)

// Index is a coordinate -> raw descriptor mapping built once per
// invocation and treated as read-only thereafter.
type Index struct {
	byCoordinate map[descriptor.Coordinate]*descriptor.RawDescriptor
}

// NewIndex folds raws into a mapping by coordinate. If two descriptors
// share a coordinate, it fails with a single Fatal diagnostic and no
// partial index, per spec §4.C / §7.
func NewIndex(raws []*descriptor.RawDescriptor) diag.Result[Index] {
	byCoordinate := make(map[descriptor.Coordinate]*descriptor.RawDescriptor, len(raws))

	for _, raw := range raws {
		coord, err := raw.Coordinate()
		if err != nil {
			return diag.ErrorResult[Index](diag.FatalD(raw.SourceFile, "cannot derive project coordinate", err))
		}
		if existing, dup := byCoordinate[coord]; dup {
			return diag.ErrorResult[Index](diag.FatalD(raw.SourceFile,
				"Duplicate project identifiers: "+coord.String()+" ("+existing.SourceFile+" and "+raw.SourceFile+")", nil))
		}
		byCoordinate[coord] = raw
	}

	return diag.Success(Index{byCoordinate: byCoordinate})
}

// Empty returns an Index with no entries - used as the binary index in
// modes that never provide one.
func Empty() Index {
	return Index{byCoordinate: map[descriptor.Coordinate]*descriptor.RawDescriptor{}}
}

// Has reports whether coord is present in the index.
func (idx Index) Has(coord descriptor.Coordinate) bool {
	if idx.byCoordinate == nil {
		return false
	}
	_, ok := idx.byCoordinate[coord]
	return ok
}

// Get returns the raw descriptor for coord, if present.
func (idx Index) Get(coord descriptor.Coordinate) (*descriptor.RawDescriptor, bool) {
	if idx.byCoordinate == nil {
		return nil, false
	}
	d, ok := idx.byCoordinate[coord]
	return d, ok
}

// Coordinates returns every coordinate in the index, sorted for
// deterministic iteration (insertion order into the final graph still
// comes from the builder's recursion, not from this order).
func (idx Index) Coordinates() []descriptor.Coordinate {
	out := make([]descriptor.Coordinate, 0, len(idx.byCoordinate))
	for c := range idx.byCoordinate {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GroupID != out[j].GroupID {
			return out[i].GroupID < out[j].GroupID
		}
		return out[i].ArtifactID < out[j].ArtifactID
	})
	return out
}

// Len reports how many descriptors the index holds.
func (idx Index) Len() int { return len(idx.byCoordinate) }
