// Copyright © 2024 The ELPS authors

package lang

import (
	"github.com/tanndlin/tanscript/diagnostic"
)

// Diagnostic converts e for display by a diagnostic.Renderer.  The call
// stack, innermost call first, is attached as notes.
func (e *Error) Diagnostic() diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Code:     string(e.Condition),
		Message:  e.Message,
	}
	if fname := e.FunName(); fname != "" {
		d.Message = fname + ": " + d.Message
	}
	if e.Source != nil && e.Source.Pos >= 0 && e.Source.Line > 0 {
		span := diagnostic.Span{
			File: e.Source.File,
			Line: e.Source.Line,
			Col:  e.Source.Col,
		}
		if e.Source.Path != "" {
			span.File = e.Source.Path
		}
		d.Spans = append(d.Spans, span)
	}
	if e.Stack != nil {
		for i := len(e.Stack.Frames) - 1; i >= 0; i-- {
			frame := &e.Stack.Frames[i]
			if frame.Name == "" {
				continue
			}
			d.Notes = append(d.Notes, "in "+frame.Name+" called at "+frame.Source.String())
		}
	}
	return d
}
