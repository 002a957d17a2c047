package workspace

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/buildgraph/reactor/descriptor"
	"github.com/buildgraph/reactor/diag"
)

// Selector is the tagged sum spec §9's "Design notes" calls for:
// ByCoordinate ("groupId:artifactId"), ByArtifact (":artifactId"), or a
// path expression resolved against a base directory, which narrows
// further to ByFile or ByDirectory once the filesystem is consulted.
type Selector struct {
	kind       selectorKind
	groupID    string
	artifactID string
	path       string
}

type selectorKind int

const (
	byCoordinate selectorKind = iota
	byArtifact
	byFile
	byDirectory
)

// ParseSelector classifies a raw selector string against baseDirectory,
// per spec §4.C. An error is returned if the string is neither a
// group:artifact / :artifact form nor a path that exists on disk.
func ParseSelector(raw, baseDirectory string) (Selector, error) {
	if strings.Contains(raw, ":") {
		parts := strings.SplitN(raw, ":", 2)
		groupID, artifactID := parts[0], parts[1]
		if groupID == "" {
			if artifactID == "" {
				return Selector{}, &InvalidSelectorError{Selector: raw}
			}
			return Selector{kind: byArtifact, artifactID: artifactID}, nil
		}
		return Selector{kind: byCoordinate, groupID: groupID, artifactID: artifactID}, nil
	}

	resolved := raw
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(baseDirectory, raw)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return Selector{}, &InvalidSelectorError{Selector: raw}
	}
	if info.IsDir() {
		return Selector{kind: byDirectory, path: filepath.Clean(resolved)}, nil
	}
	return Selector{kind: byFile, path: filepath.Clean(resolved)}, nil
}

// Matches reports whether raw (the raw descriptor's coordinate and
// source file) satisfies this selector.
func (s Selector) Matches(coord descriptor.Coordinate, raw *descriptor.RawDescriptor) bool {
	switch s.kind {
	case byCoordinate:
		return coord.GroupID == s.groupID && coord.ArtifactID == s.artifactID
	case byArtifact:
		return coord.ArtifactID == s.artifactID
	case byFile:
		return filepath.Clean(raw.SourceFile) == s.path
	case byDirectory:
		return filepath.Clean(raw.BaseDirectory()) == s.path
	default:
		return false
	}
}

// InvalidSelectorError reports a selector string that is neither a
// coordinate form nor a path that exists.
type InvalidSelectorError struct {
	Selector string
}

func (e *InvalidSelectorError) Error() string {
	return "invalid project selector: " + e.Selector
}

// Select produces the subset of idx matching any of the given selector
// strings, per spec §4.C.
func Select(idx Index, rawSelectors []string, baseDirectory string) diag.Result[Index] {
	if len(rawSelectors) == 0 {
		return diag.Success(idx)
	}

	selectors := make([]Selector, 0, len(rawSelectors))
	for _, raw := range rawSelectors {
		sel, err := ParseSelector(raw, baseDirectory)
		if err != nil {
			return diag.ErrorResult[Index](diag.FatalD(raw, "invalid project selector", err))
		}
		selectors = append(selectors, sel)
	}

	matched := map[descriptor.Coordinate]*descriptor.RawDescriptor{}
	for coord, raw := range idx.byCoordinate {
		for _, sel := range selectors {
			if sel.Matches(coord, raw) {
				matched[coord] = raw
				break
			}
		}
	}

	return diag.Success(Index{byCoordinate: matched})
}
