// Package diag provides the uniform outcome type every stage of the
// reactor pipeline returns: a value together with an ordered collection
// of classified diagnostics. Modeled on the way terragrunt's config
// package accumulates hcl.Diagnostics while still surfacing a partial
// value to the caller.
package diag

import "strings"

// Severity classifies a Diagnostic. Fatal and Error diagnostics put a
// Result into the error state; Warning and Info never do.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "INFO"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	case Fatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Diagnostic is one problem surfaced by a stage of the pipeline.
type Diagnostic struct {
	Severity Severity
	Message  string
	// Source is a human-readable location hint, e.g. a descriptor's
	// source file path or a coordinate string.
	Source string
	Cause  error
}

func (d Diagnostic) Error() string {
	var b strings.Builder
	b.WriteString(d.Severity.String())
	if d.Source != "" {
		b.WriteString(" [")
		b.WriteString(d.Source)
		b.WriteString("]")
	}
	b.WriteString(": ")
	b.WriteString(d.Message)
	if d.Cause != nil {
		b.WriteString(": ")
		b.WriteString(d.Cause.Error())
	}
	return b.String()
}

func (s Severity) isError() bool {
	return s == Error || s == Fatal
}

// Result carries an optional value and the ordered diagnostics produced
// while computing it. It is immutable: every mutating operation returns
// a new Result rather than editing one in place.
type Result[T any] struct {
	value       T
	hasValue    bool
	diagnostics []Diagnostic
	isError     bool
}

// Success builds a Result in the non-error state with no diagnostics.
func Success[T any](value T) Result[T] {
	return Result[T]{value: value, hasValue: true}
}

// SuccessWith builds a Result in the non-error state carrying
// diagnostics. It panics if any diagnostic is Error or Fatal severity,
// since that would contradict the non-error state - use ErrorResult or
// ErrorWithValue instead.
func SuccessWith[T any](value T, diagnostics []Diagnostic) Result[T] {
	for _, d := range diagnostics {
		if d.Severity.isError() {
			panic("diag: SuccessWith called with an error-severity diagnostic")
		}
	}
	return Result[T]{value: value, hasValue: true, diagnostics: append([]Diagnostic(nil), diagnostics...)}
}

// ErrorResult builds a Result in the error state, with no value present.
func ErrorResult[T any](diagnostics ...Diagnostic) Result[T] {
	return Result[T]{diagnostics: append([]Diagnostic(nil), diagnostics...), isError: true}
}

// ErrorWithValue builds a Result in the error state that still carries a
// partial value, so downstream reporting (e.g. a cascading dependent)
// can describe what was being built when it failed.
func ErrorWithValue[T any](value T, diagnostics ...Diagnostic) Result[T] {
	return Result[T]{value: value, hasValue: true, diagnostics: append([]Diagnostic(nil), diagnostics...), isError: true}
}

// IsError reports whether the Result carries any Fatal or Error diagnostic.
func (r Result[T]) IsError() bool { return r.isError }

// HasValue reports whether a value is present (possible even in the
// error state, for partial/cascading values).
func (r Result[T]) HasValue() bool { return r.hasValue }

// Value returns the carried value. Callers should check HasValue first
// if the Result may be in the error state.
func (r Result[T]) Value() T { return r.value }

// Diagnostics returns the ordered diagnostics accumulated so far.
func (r Result[T]) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), r.diagnostics...)
}

// AddProblem returns a new Result with d appended to the diagnostics,
// re-deriving the error state if d is itself an error-severity diagnostic.
func AddProblem[T any](r Result[T], d Diagnostic) Result[T] {
	return AddProblems(r, []Diagnostic{d})
}

// AddProblems returns a new Result with ds appended to the diagnostics.
func AddProblems[T any](r Result[T], ds []Diagnostic) Result[T] {
	out := r
	out.diagnostics = append(append([]Diagnostic(nil), r.diagnostics...), ds...)
	for _, d := range ds {
		if d.Severity.isError() {
			out.isError = true
		}
	}
	return out
}

// ResultSet is the value of NewResultSet: a lazy-looking but eagerly
// computed ordered view over the inner values of a list of Results.
type ResultSet[T any] struct {
	Values []T
}

// NewResultSet combines a list of Results into one: diagnostics are
// concatenated in order, the error state is the disjunction of every
// input Result's error state, and the value is the ordered list of
// inner values (only the ones present).
func NewResultSet[T any](results []Result[T]) Result[ResultSet[T]] {
	var diagnostics []Diagnostic
	var values []T
	isError := false

	for _, r := range results {
		diagnostics = append(diagnostics, r.diagnostics...)
		if r.isError {
			isError = true
		}
		if r.hasValue {
			values = append(values, r.value)
		}
	}

	out := Result[ResultSet[T]]{
		value:       ResultSet[T]{Values: values},
		hasValue:    true,
		diagnostics: diagnostics,
		isError:     isError,
	}
	return out
}

// FatalD is a convenience constructor for a Fatal-severity diagnostic.
func FatalD(source, message string, cause error) Diagnostic {
	return Diagnostic{Severity: Fatal, Source: source, Message: message, Cause: cause}
}

// ErrorD is a convenience constructor for an Error-severity diagnostic.
func ErrorD(source, message string, cause error) Diagnostic {
	return Diagnostic{Severity: Error, Source: source, Message: message, Cause: cause}
}

// WarningD is a convenience constructor for a Warning-severity diagnostic.
func WarningD(source, message string) Diagnostic {
	return Diagnostic{Severity: Warning, Source: source, Message: message}
}

// InfoD is a convenience constructor for an Info-severity diagnostic.
func InfoD(source, message string) Diagnostic {
	return Diagnostic{Severity: Info, Source: source, Message: message}
}
