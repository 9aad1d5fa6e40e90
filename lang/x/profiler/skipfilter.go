// Copyright © 2018 The ELPS authors

package profiler

import (
	"regexp"

	"github.com/tanndlin/tanscript/lang"
)

// SkipFilter reports whether the call in frame should not be traced.
type SkipFilter func(frame *lang.CallFrame) bool

func defaultSkipFilter(frame *lang.CallFrame) bool {
	return frame == nil || frame.Name == ""
}

// WithSkipFilter sets the filter for tracing spans.
func WithSkipFilter(skipFilter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = skipFilter
	}
}

// WithNameFilter restricts tracing to functions with a name matched by re.
func WithNameFilter(re *regexp.Regexp) Option {
	return WithSkipFilter(func(frame *lang.CallFrame) bool {
		return !re.MatchString(frame.Name)
	})
}
