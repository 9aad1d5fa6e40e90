// Copyright © 2018 The ELPS authors

package profiler

import (
	"path/filepath"

	"github.com/tanndlin/tanscript/lang"
)

// FunLabeler provides an alternative name for a function label in the trace.
type FunLabeler func(runtime *lang.Runtime, frame *lang.CallFrame) string

// WithFunLabeler sets the labeler for tracing spans.
func WithFunLabeler(funLabeler FunLabeler) Option {
	return func(p *profiler) {
		p.funLabeler = funLabeler
	}
}

// WithFileLabeler labels spans with the base name of the file defining the
// function followed by the function name, e.g. "main.tan:fib".
func WithFileLabeler() Option {
	return WithFunLabeler(fileFunLabeler)
}

func fileFunLabeler(runtime *lang.Runtime, frame *lang.CallFrame) string {
	if frame.Def == nil || frame.Def.Source == nil || frame.Def.Source.File == "" {
		return ""
	}
	return filepath.Base(frame.Def.Source.File) + ":" + frame.Name
}
