package diagnostic

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"mixin-resolver/internal/common"
)

// Diagnostic codes.
const (
	CodeMalformed      = "malformed"        // directive or manifest entry cannot be parsed
	CodeUnknownVerb    = "unknown_verb"     // directive verb is not recognised
	CodeUnknownType    = "unknown_type"     // type reference does not resolve
	CodeAmbiguousType  = "ambiguous_type"   // type reference matches several types
	CodeInvalidOption  = "invalid_option"   // key=value option has a bad value
	CodeInvalidGeneric = "invalid_generic"  // generic reference has bad arguments
	CodeMisplaced      = "misplaced"        // directive attached to the wrong kind of type
	CodeDuplicateElide = "duplicate_elided" // equal redeclaration ignored
	CodeBuildFailed    = "build_failed"     // configuration builder rejected the declarations
)

// Diagnostics holds all diagnostic information from a front end or a build.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Subject names the target/mixin pair or type this relates to (if any).
	Subject string
	// Location is the file:line or manifest path of the declaration (if any).
	Location string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, subject, location string, suggestions ...string) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity:    DiagnosticError,
		Code:        code,
		Message:     message,
		Subject:     subject,
		Location:    location,
		Suggestions: suggestions,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, subject, location string, suggestions ...string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity:    DiagnosticWarning,
		Code:        code,
		Message:     message,
		Subject:     subject,
		Location:    location,
		Suggestions: suggestions,
	})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, subject, location string) {
	d.Infos = append(d.Infos, Diagnostic{
		Severity: DiagnosticInfo,
		Code:     code,
		Message:  message,
		Subject:  subject,
		Location: location,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// All returns every diagnostic, errors first, each group ordered by location.
func (d *Diagnostics) All() []Diagnostic {
	out := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings)+len(d.Infos))
	for _, group := range [][]Diagnostic{d.Errors, d.Warnings, d.Infos} {
		sorted := append([]Diagnostic(nil), group...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Location < sorted[j].Location
		})
		out = append(out, sorted...)
	}

	return out
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Location != "" {
		prefix = append(prefix, d.Location)
	}

	if d.Subject != "" {
		prefix = append(prefix, "["+d.Subject+"]")
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(d.Suggestions, ", ") + "?)"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
