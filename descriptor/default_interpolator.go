package descriptor

import (
	"regexp"

	"github.com/zclconf/go-cty/cty"
)

// exprPattern matches a single ${...} interpolation expression.
var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

const maxExpansionPasses = 25

// defaultInterpolator is the reference Interpolator. It performs
// fixed-point substitution of ${expr} tokens against a PropertyStack.
// Expressions that never converge within maxExpansionPasses (the
// hallmark of a reference cycle, e.g. a=${b}, b=${a}) are reported as
// InterpolationProblems rather than looping forever - the same
// trade-off config_graph.go makes by running its dependency graph
// through a bounded breadth-first walk instead of a general solver.
type defaultInterpolator struct{}

func (defaultInterpolator) Interpolate(d *RawDescriptor, stack PropertyStack) (*RawDescriptor, []InterpolationProblem) {
	var problems []InterpolationProblem

	resolvedProps := resolveProperties(d.Properties, stack, &problems)
	// Resolved descriptor properties sit beneath the caller's layers so
	// system and user properties keep precedence over them.
	finalStack := PropertyStack{layers: append([]map[string]cty.Value{stringMapToCty(resolvedProps)}, stack.layers...)}

	out := d.Clone()
	out.Properties = resolvedProps
	out.GroupID = expand(out.GroupID, finalStack, &problems)
	out.ArtifactID = expand(out.ArtifactID, finalStack, &problems)
	out.Version = expand(out.Version, finalStack, &problems)

	for i := range out.Dependencies {
		out.Dependencies[i].Version = expand(out.Dependencies[i].Version, finalStack, &problems)
	}
	for i := range out.DependencyManagement {
		out.DependencyManagement[i].Version = expand(out.DependencyManagement[i].Version, finalStack, &problems)
	}
	for i := range out.Plugins {
		out.Plugins[i].Version = expand(out.Plugins[i].Version, finalStack, &problems)
	}
	for i := range out.Repositories {
		out.Repositories[i].URL = normalizeURL(expand(out.Repositories[i].URL, finalStack, &problems))
	}

	return out, problems
}

// resolveProperties expands each property's own value against the
// stack plus the (partially resolved) property map itself, so
// properties may reference one another.
func resolveProperties(props map[string]string, stack PropertyStack, problems *[]InterpolationProblem) map[string]string {
	if len(props) == 0 {
		return props
	}

	resolved := cloneStringMap(props)
	for pass := 0; pass < maxExpansionPasses; pass++ {
		changed := false
		workingStack := PropertyStack{layers: append([]map[string]cty.Value{stringMapToCty(resolved)}, stack.layers...)}
		for k, v := range resolved {
			next := expandOnce(v, workingStack)
			if next != v {
				resolved[k] = next
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	for k, v := range resolved {
		if exprPattern.MatchString(v) {
			*problems = append(*problems, InterpolationProblem{Expression: v, Reason: "property " + k + " did not converge, likely a reference cycle"})
		}
	}
	return resolved
}

// expand fully expands s, recording a problem if it fails to converge.
func expand(s string, stack PropertyStack, problems *[]InterpolationProblem) string {
	if s == "" || !exprPattern.MatchString(s) {
		return s
	}
	cur := s
	for pass := 0; pass < maxExpansionPasses; pass++ {
		next := expandOnce(cur, stack)
		if next == cur {
			break
		}
		cur = next
	}
	if exprPattern.MatchString(cur) {
		*problems = append(*problems, InterpolationProblem{Expression: s, Reason: "expression did not converge, likely a reference cycle"})
	}
	return cur
}

// expandOnce substitutes every ${name} token it can resolve in one pass.
func expandOnce(s string, stack PropertyStack) string {
	return exprPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := exprPattern.FindStringSubmatch(match)[1]
		if v, ok := stack.Lookup(name); ok {
			return v
		}
		return match
	})
}

// normalizeURL trims a trailing slash, per spec §4.E step 3 "Normalize URLs".
func normalizeURL(u string) string {
	for len(u) > 0 && u[len(u)-1] == '/' {
		u = u[:len(u)-1]
	}
	return u
}
