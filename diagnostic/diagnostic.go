// Copyright © 2024 The ELPS authors

// Package diagnostic renders annotated source snippets for TanScript CLI
// output.  It does not depend on the interpreter packages, so any command
// can convert its own error types into a Diagnostic.
package diagnostic

import (
	"errors"

	"github.com/tanndlin/tanscript/util/errwrap"
)

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// MarshalYAML encodes s by name.
func (s Severity) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// Span identifies a region of source code to highlight in the diagnostic.
type Span struct {
	File   string `yaml:"file"`              // path for reading source; display name if unreadable
	Line   int    `yaml:"line"`              // 1-based line number
	Col    int    `yaml:"col"`               // 1-based start column
	EndCol int    `yaml:"end_col,omitempty"` // 1-based end column (0 = the token starting at Col)
	Label  string `yaml:"label,omitempty"`   // text shown under the underline
}

// Diagnostic is a single error, warning or note with optional source
// annotations and trailing notes.
type Diagnostic struct {
	Severity Severity `yaml:"severity"`
	// Code classifies the diagnostic, e.g. "type-error".  It is rendered
	// next to the severity when not empty.
	Code    string   `yaml:"code,omitempty"`
	Message string   `yaml:"message"`
	Spans   []Span   `yaml:"spans,omitempty"`
	Notes   []string `yaml:"notes,omitempty"` // "= note:" lines (stack trace frames, etc.)
}

// Diagnoser is implemented by errors that can describe themselves as a
// Diagnostic.
type Diagnoser interface {
	Diagnostic() Diagnostic
}

// FromError returns a Diagnostic for each error aggregated in err.  Errors
// which do not carry a Diagnoser are reported by message only.
func FromError(err error) []Diagnostic {
	var diags []Diagnostic
	for _, e := range errwrap.Errors(err) {
		var dg Diagnoser
		if errors.As(e, &dg) {
			diags = append(diags, dg.Diagnostic())
			continue
		}
		diags = append(diags, Diagnostic{
			Severity: SeverityError,
			Message:  e.Error(),
		})
	}
	return diags
}
