package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpolateExpandsPropertyReference(t *testing.T) {
	d := &RawDescriptor{
		Properties: map[string]string{"base.version": "1.2.3"},
		Version:    "${base.version}",
	}
	stack := NewPropertyStack(nil, nil, nil)

	out, problems := (defaultInterpolator{}).Interpolate(d, stack)

	assert.Empty(t, problems)
	assert.Equal(t, "1.2.3", out.Version)
}

func TestInterpolatePropertiesReferenceEachOther(t *testing.T) {
	d := &RawDescriptor{
		Properties: map[string]string{
			"major":   "1",
			"version": "${major}.0.0",
		},
	}
	out, problems := (defaultInterpolator{}).Interpolate(d, NewPropertyStack(nil, nil, nil))

	assert.Empty(t, problems)
	assert.Equal(t, "1.0.0", out.Properties["version"])
}

func TestInterpolateReportsCycleAsProblem(t *testing.T) {
	d := &RawDescriptor{
		Properties: map[string]string{
			"a": "${b}",
			"b": "${a}",
		},
	}
	_, problems := (defaultInterpolator{}).Interpolate(d, NewPropertyStack(nil, nil, nil))

	assert.NotEmpty(t, problems)
}

func TestInterpolateUserPropertiesWinOverDescriptorProperties(t *testing.T) {
	d := &RawDescriptor{
		Properties: map[string]string{"env": "dev"},
		Version:    "${env}",
	}
	stack := NewPropertyStack(d.Properties, nil, map[string]string{"env": "prod"})

	out, problems := (defaultInterpolator{}).Interpolate(d, stack)

	assert.Empty(t, problems)
	assert.Equal(t, "prod", out.Version)
}

func TestNormalizeURLTrimsTrailingSlash(t *testing.T) {
	assert.Equal(t, "https://repo.example.com", normalizeURL("https://repo.example.com/"))
	assert.Equal(t, "https://repo.example.com", normalizeURL("https://repo.example.com"))
}
