package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuccessHasNoError(t *testing.T) {
	r := Success(42)
	assert.False(t, r.IsError())
	assert.True(t, r.HasValue())
	assert.Equal(t, 42, r.Value())
	assert.Empty(t, r.Diagnostics())
}

func TestSuccessWithPanicsOnErrorSeverity(t *testing.T) {
	assert.Panics(t, func() {
		SuccessWith(1, []Diagnostic{ErrorD("x", "boom", nil)})
	})
}

func TestErrorResultCarriesNoValue(t *testing.T) {
	r := ErrorResult[string](FatalD("src", "bad", nil))
	assert.True(t, r.IsError())
	assert.False(t, r.HasValue())
	assert.Len(t, r.Diagnostics(), 1)
}

func TestErrorWithValueCarriesPartial(t *testing.T) {
	r := ErrorWithValue("partial", ErrorD("src", "bad", nil))
	assert.True(t, r.IsError())
	assert.True(t, r.HasValue())
	assert.Equal(t, "partial", r.Value())
}

func TestAddProblemsEscalatesErrorState(t *testing.T) {
	r := Success("ok")
	r = AddProblem(r, WarningD("src", "fyi"))
	assert.False(t, r.IsError())

	r = AddProblem(r, ErrorD("src", "uh oh", nil))
	assert.True(t, r.IsError())
	assert.Len(t, r.Diagnostics(), 2)
}

func TestNewResultSetAggregatesValuesAndDiagnostics(t *testing.T) {
	results := []Result[int]{
		Success(1),
		ErrorWithValue(2, ErrorD("b", "broken", nil)),
		Success(3),
	}
	set := NewResultSet(results)
	assert.True(t, set.IsError())
	assert.Equal(t, []int{1, 2, 3}, set.Value().Values)
	assert.Len(t, set.Diagnostics(), 1)
}

func TestDiagnosticErrorStringIncludesCause(t *testing.T) {
	d := FatalD("coord:a", "failed to resolve", assert.AnError)
	msg := d.Error()
	assert.Contains(t, msg, "FATAL")
	assert.Contains(t, msg, "coord:a")
	assert.Contains(t, msg, "failed to resolve")
	assert.Contains(t, msg, assert.AnError.Error())
}
