package descriptor

import (
	"github.com/gruntwork-io/go-commons/errors"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// PropertyStack is the read-only, layered property lookup the
// interpolator expands ${expr} references against: descriptor
// properties < system properties < user properties, with active-profile
// properties contributing through the descriptor layer (spec §3,
// Interpolated descriptor). Later layers win on key conflicts.
//
// Values are carried as cty.Value the same way config_graph.go's
// configEvaluator represents locals/globals, which keeps the door open
// for richer (non-string) property types later without changing this
// type's shape.
type PropertyStack struct {
	layers []map[string]cty.Value
}

// NewPropertyStack builds a stack from low to high priority:
// descriptor properties, system properties, user properties.
func NewPropertyStack(descriptorProps, systemProps, userProps map[string]string) PropertyStack {
	return PropertyStack{layers: []map[string]cty.Value{
		stringMapToCty(descriptorProps),
		stringMapToCty(systemProps),
		stringMapToCty(userProps),
	}}
}

func stringMapToCty(m map[string]string) map[string]cty.Value {
	out := make(map[string]cty.Value, len(m))
	for k, v := range m {
		out[k] = cty.StringVal(v)
	}
	return out
}

// Lookup resolves name against the stack, highest layer first.
func (s PropertyStack) Lookup(name string) (string, bool) {
	for i := len(s.layers) - 1; i >= 0; i-- {
		if v, ok := s.layers[i][name]; ok {
			var str string
			if err := gocty.FromCtyValue(v, &str); err != nil {
				continue
			}
			return str, true
		}
	}
	return "", false
}

// AsVariables flattens the stack into one map, highest-priority layer
// winning, for use as a single hcl/cty evaluation scope.
func (s PropertyStack) AsVariables() (map[string]cty.Value, error) {
	out := map[string]cty.Value{}
	for _, layer := range s.layers {
		for k, v := range layer {
			out[k] = v
		}
	}
	return out, nil
}

func generateTypeFromMap(value map[string]cty.Value) cty.Type {
	typeMap := map[string]cty.Type{}
	for k, v := range value {
		typeMap[k] = v.Type()
	}
	return cty.Object(typeMap)
}

// AsObject renders the flattened stack as a single cty.Value of object
// type, mirroring configEvaluator.convertValuesToVariables.
func (s PropertyStack) AsObject() (cty.Value, error) {
	vars, err := s.AsVariables()
	if err != nil {
		return cty.NilVal, err
	}
	obj, err := gocty.ToCtyValue(vars, generateTypeFromMap(vars))
	if err != nil {
		return cty.NilVal, errors.WithStackTrace(err)
	}
	return obj, nil
}
