package descriptor

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// defaultProfileSelector is the reference ProfileSelector. It evaluates
// each profile's Activation against the context and falls back to
// ActiveByDefault profiles only when nothing else activated. Results
// are sorted by profile id for deterministic ordering, per spec §4.F.
type defaultProfileSelector struct{}

func (defaultProfileSelector) SelectActive(profiles []Profile, ctx ActivationContext) []Profile {
	var active []Profile
	var byDefault []Profile

	for _, p := range profiles {
		if ctx.IsExplicitlyInactive(p.ID) {
			continue
		}
		if ctx.IsExplicitlyActive(p.ID) {
			active = append(active, p)
			continue
		}
		if matchesActivation(p.Activation, ctx) {
			active = append(active, p)
			continue
		}
		if p.Activation.ActiveByDefault {
			byDefault = append(byDefault, p)
		}
	}

	if len(active) == 0 {
		active = byDefault
	}

	sort.SliceStable(active, func(i, j int) bool { return active[i].ID < active[j].ID })
	return active
}

func matchesActivation(a Activation, ctx ActivationContext) bool {
	matched := false

	if a.Property != nil {
		if !matchesProperty(*a.Property, ctx.Properties) {
			return false
		}
		matched = true
	}

	if a.File != nil {
		ok, ran := matchesFile(*a.File, ctx.BaseDirectory)
		if ran {
			if !ok {
				return false
			}
			matched = true
		}
	}

	if a.JDK != "" {
		if a.JDK != ctx.JDKVersion {
			return false
		}
		matched = true
	}

	if a.OS != nil {
		if !matchesOS(*a.OS, ctx) {
			return false
		}
		matched = true
	}

	return matched
}

func matchesProperty(p PropertyActivation, props map[string]string) bool {
	name := p.Name
	negate := strings.HasPrefix(name, "!")
	if negate {
		name = strings.TrimPrefix(name, "!")
	}
	value, present := props[name]
	if p.Value == "" {
		if negate {
			return !present
		}
		return present
	}
	if negate {
		return !present || value != p.Value
	}
	return present && value == p.Value
}

func matchesFile(f FileActivation, baseDir string) (matched bool, evaluated bool) {
	switch {
	case f.Exists != "":
		_, err := os.Stat(resolveRelative(baseDir, f.Exists))
		return err == nil, true
	case f.Missing != "":
		_, err := os.Stat(resolveRelative(baseDir, f.Missing))
		return err != nil, true
	default:
		return false, false
	}
}

func resolveRelative(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

func matchesOS(o OSActivation, ctx ActivationContext) bool {
	if o.Name != "" && o.Name != ctx.OSName {
		return false
	}
	if o.Family != "" && o.Family != ctx.OSFamily {
		return false
	}
	if o.Arch != "" && o.Arch != ctx.OSArch {
		return false
	}
	if o.Version != "" && o.Version != ctx.OSVersion {
		return false
	}
	return true
}
