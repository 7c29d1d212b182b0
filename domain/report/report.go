// Package report carries the structured diagnostics every pipeline run
// returns. Row-level failures stay isolated to their row, field-level
// failures to their field; the run itself always completes with a report
// rather than raising past its boundary.
package report

import "fmt"

// Kind enumerates the diagnostic taxonomy
type Kind string

const (
	MissingRequiredField      Kind = "missing_required_field"
	AmbiguousMapping          Kind = "ambiguous_mapping"
	TypeCoercionFailure       Kind = "type_coercion_failure"
	NoMatchingRows            Kind = "no_matching_rows"
	LowConfidencePlatformFilter Kind = "low_confidence_platform_filter"
	PossibleMultiPlatform     Kind = "possible_multi_platform"
	EmptyDataset              Kind = "empty_dataset"
)

// Severity distinguishes advisory warnings from failures the caller must
// remediate before the headline metric is trustworthy
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic is one warning or error with enough context to act on
type Diagnostic struct {
	Kind     Kind     `json:"kind"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Field    string   `json:"field,omitempty"`
	Column   string   `json:"column,omitempty"`
	RowIndex *int     `json:"row_index,omitempty"`
}

// Report collects all diagnostics from a single run
type Report struct {
	Warnings []Diagnostic `json:"warnings"`
	Errors   []Diagnostic `json:"errors"`
}

// Warn appends an advisory diagnostic
func (r *Report) Warn(kind Kind, format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, Diagnostic{
		Kind:     kind,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf(format, args...),
	})
}

// WarnRow appends a row-scoped advisory diagnostic
func (r *Report) WarnRow(kind Kind, rowIndex int, format string, args ...interface{}) {
	row := rowIndex
	r.Warnings = append(r.Warnings, Diagnostic{
		Kind:     kind,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf(format, args...),
		RowIndex: &row,
	})
}

// WarnField appends a field-scoped advisory diagnostic
func (r *Report) WarnField(kind Kind, field string, format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, Diagnostic{
		Kind:     kind,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf(format, args...),
		Field:    field,
	})
}

// Fail appends an error diagnostic. Errors never abort the run; they mark
// results the caller cannot rely on.
func (r *Report) Fail(kind Kind, field string, format string, args ...interface{}) {
	r.Errors = append(r.Errors, Diagnostic{
		Kind:     kind,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Field:    field,
	})
}

// Merge appends another report's diagnostics in order
func (r *Report) Merge(other Report) {
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Errors = append(r.Errors, other.Errors...)
}

// HasErrors reports whether any error-severity diagnostic was recorded
func (r Report) HasErrors() bool { return len(r.Errors) > 0 }

// CountKind returns how many diagnostics of the given kind were recorded
func (r Report) CountKind(kind Kind) int {
	n := 0
	for _, d := range r.Warnings {
		if d.Kind == kind {
			n++
		}
	}
	for _, d := range r.Errors {
		if d.Kind == kind {
			n++
		}
	}
	return n
}
