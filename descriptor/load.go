package descriptor

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/buildgraph/reactor/diag"
)

// Load walks the aggregation tree from rootFile, returning the raw
// descriptor of every reachable module (spec §4.B). It never recurses
// into a file already visited - the visited set is global to the whole
// traversal, not per-branch, so a diamond-shaped aggregation (two
// parents declaring the same child module) only parses that child once;
// the second reference, like a genuine cycle, is reported as an
// aggregation-cycle ERROR where it is met.
func Load(ctx context.Context, rootFile string, parser Parser, locator Locator, level ValidationLevel) diag.Result[[]*RawDescriptor] {
	l := &loader{parser: parser, locator: locator, level: level, visited: map[string]bool{}}
	var out []*RawDescriptor
	var diagnostics []diag.Diagnostic
	isError := l.load(ctx, rootFile, &out, &diagnostics)

	if isError {
		return diag.ErrorWithValue(out, diagnostics...)
	}
	return diag.SuccessWith(out, diagnostics)
}

type loader struct {
	parser  Parser
	locator Locator
	level   ValidationLevel
	visited map[string]bool
}

// load parses file and descends into its declared modules, appending
// every raw descriptor it successfully parses to *out in document
// order (a descriptor appears before its children, for readability;
// the graph builder does its own topological ordering). It returns
// true if any diagnostic reached Error/Fatal severity.
func (l *loader) load(ctx context.Context, file string, out *[]*RawDescriptor, diagnostics *[]diag.Diagnostic) bool {
	canonicalFile := canonicalPath(file)

	if l.visited[canonicalFile] {
		*diagnostics = append(*diagnostics, diag.ErrorD(file, "aggregation cycle detected: "+canonicalFile+" was already visited", nil))
		return true
	}
	l.visited[canonicalFile] = true

	raw, parseDiags, err := l.parser.Parse(ctx, file, ParseOptions{ValidationLevel: l.level, TrackLocations: true})
	for _, d := range parseDiags {
		*diagnostics = append(*diagnostics, diag.Diagnostic{Severity: translateSeverity(d.Severity), Message: d.Message, Source: d.Source})
	}
	if err != nil {
		*diagnostics = append(*diagnostics, diag.FatalD(file, "failed to parse descriptor", err))
		return true
	}
	if raw == nil {
		return hasErrorSeverity(*diagnostics)
	}

	*out = append(*out, raw)
	isError := hasErrorSeverity(*diagnostics)

	baseDir := filepath.Dir(canonicalFile)
	for _, modulePath := range raw.Modules {
		normalized := normalizeModulePath(modulePath)
		childPath := filepath.Join(baseDir, normalized)

		info, statErr := os.Stat(childPath)
		switch {
		case statErr == nil && !info.IsDir():
			if l.load(ctx, childPath, out, diagnostics) {
				isError = true
			}
		case statErr == nil && info.IsDir():
			located, found := l.locator.Locate(childPath)
			if !found {
				*diagnostics = append(*diagnostics, diag.ErrorD(file, "Child module "+modulePath+" does not contain a descriptor", nil))
				isError = true
				continue
			}
			if l.load(ctx, located, out, diagnostics) {
				isError = true
			}
		default:
			*diagnostics = append(*diagnostics, diag.ErrorD(file, "Child module "+modulePath+" does not exist", nil))
			isError = true
		}
	}

	return isError
}

// translateSeverity maps the parser's SeverityHint onto diag.Severity;
// the two enumerations are deliberately decoupled so this package never
// imports diag's Severity type directly into its own public surface.
func translateSeverity(h SeverityHint) diag.Severity {
	switch h {
	case HintWarning:
		return diag.Warning
	case HintError:
		return diag.Error
	case HintFatal:
		return diag.Fatal
	default:
		return diag.Warning
	}
}

func hasErrorSeverity(diagnostics []diag.Diagnostic) bool {
	for _, d := range diagnostics {
		if d.Severity == diag.Error || d.Severity == diag.Fatal {
			return true
		}
	}
	return false
}

// normalizeModulePath normalizes both forward and backward path
// separators so a descriptor written on one OS can declare modules
// parsed on another (spec §4.B).
func normalizeModulePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return filepath.FromSlash(p)
}

func canonicalPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}
