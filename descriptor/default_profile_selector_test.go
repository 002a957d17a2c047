package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectActivePropertyActivation(t *testing.T) {
	profiles := []Profile{
		{ID: "ci", Activation: Activation{Property: &PropertyActivation{Name: "env", Value: "ci"}}},
		{ID: "local", Activation: Activation{Property: &PropertyActivation{Name: "env", Value: "local"}}},
	}
	ctx := ActivationContext{Properties: map[string]string{"env": "ci"}}

	active := (defaultProfileSelector{}).SelectActive(profiles, ctx)

	assert.Len(t, active, 1)
	assert.Equal(t, "ci", active[0].ID)
}

func TestSelectActiveFallsBackToActiveByDefault(t *testing.T) {
	profiles := []Profile{
		{ID: "default-on", Activation: Activation{ActiveByDefault: true}},
		{ID: "needs-property", Activation: Activation{Property: &PropertyActivation{Name: "missing"}}},
	}
	active := (defaultProfileSelector{}).SelectActive(profiles, ActivationContext{})

	assert.Len(t, active, 1)
	assert.Equal(t, "default-on", active[0].ID)
}

func TestSelectActiveExplicitActivationOverridesPredicate(t *testing.T) {
	profiles := []Profile{
		{ID: "p", Activation: Activation{Property: &PropertyActivation{Name: "never-set"}}},
	}
	ctx := ActivationContext{ActiveProfileIDs: []string{"p"}}

	active := (defaultProfileSelector{}).SelectActive(profiles, ctx)

	assert.Len(t, active, 1)
}

func TestSelectActiveExplicitDeactivationWins(t *testing.T) {
	profiles := []Profile{
		{ID: "p", Activation: Activation{ActiveByDefault: true}},
	}
	ctx := ActivationContext{InactiveProfileIDs: []string{"p"}}

	active := (defaultProfileSelector{}).SelectActive(profiles, ctx)

	assert.Empty(t, active)
}

func TestSelectActiveSortsByID(t *testing.T) {
	profiles := []Profile{
		{ID: "zeta", Activation: Activation{ActiveByDefault: true}},
		{ID: "alpha", Activation: Activation{ActiveByDefault: true}},
	}
	active := (defaultProfileSelector{}).SelectActive(profiles, ActivationContext{})

	assert.Equal(t, []string{"alpha", "zeta"}, []string{active[0].ID, active[1].ID})
}

func TestMatchesPropertyNegation(t *testing.T) {
	assert.True(t, matchesProperty(PropertyActivation{Name: "!env"}, map[string]string{}))
	assert.False(t, matchesProperty(PropertyActivation{Name: "!env"}, map[string]string{"env": "x"}))
}
