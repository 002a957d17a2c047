package descriptor

// defaultValidator is the reference Validator. Minimal level only
// checks the descriptor has an artifactId and dependencies name a
// coordinate; V2 additionally warns on duplicate dependency declarations; Strict
// additionally requires every dependency to carry an explicit version
// (post dependency-management injection) and every declared module
// path to be non-empty.
type defaultValidator struct{}

func (defaultValidator) Validate(d *RawDescriptor, level ValidationLevel) []ValidationProblem {
	var problems []ValidationProblem

	if d.ArtifactID == "" {
		problems = append(problems, ValidationProblem{Severity: HintFatal, Message: "missing artifactId"})
	}
	for _, dep := range d.Dependencies {
		if dep.ArtifactID == "" || dep.GroupID == "" {
			problems = append(problems, ValidationProblem{Severity: HintError, Message: "dependency missing groupId or artifactId"})
		}
	}

	if level == ValidationMinimal {
		return problems
	}

	seen := map[Coordinate]bool{}
	for _, dep := range d.Dependencies {
		c := dep.Coordinate()
		if seen[c] {
			problems = append(problems, ValidationProblem{Severity: HintWarning, Message: "duplicate dependency declaration: " + c.String()})
		}
		seen[c] = true
	}

	if level == ValidationV2 {
		return problems
	}

	for _, dep := range d.Dependencies {
		if dep.Version == "" {
			problems = append(problems, ValidationProblem{Severity: HintError, Message: "dependency " + dep.Coordinate().String() + " has no resolvable version"})
		}
	}
	for _, m := range d.Modules {
		if m == "" {
			problems = append(problems, ValidationProblem{Severity: HintError, Message: "empty module path declared"})
		}
	}

	return problems
}
