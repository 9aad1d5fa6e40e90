// Copyright © 2018 The ELPS authors

package lang

import (
	"context"
	"io"
)

// Config is a function that configures a root scope or its runtime.
type Config func(s *Scope) error

// WithStdout returns a Config that makes print write to w instead of the
// default, os.Stdout.
func WithStdout(w io.Writer) Config {
	return func(s *Scope) error {
		s.Runtime.Stdout = w
		return nil
	}
}

// WithStderr returns a Config that makes environments write debugging output
// to w instead of the default, os.Stderr.
func WithStderr(w io.Writer) Config {
	return func(s *Scope) error {
		s.Runtime.Stderr = w
		return nil
	}
}

// WithReader returns a Config that makes environments use r to parse source
// streams.  There is no default Reader for an environment.
func WithReader(r Reader) Config {
	return func(s *Scope) error {
		s.Runtime.Reader = r
		return nil
	}
}

// WithOptimizer returns a Config that rewrites every loaded program with o
// before it is evaluated.
func WithOptimizer(o Optimizer) Config {
	return func(s *Scope) error {
		s.Runtime.Optimizer = o
		return nil
	}
}

// WithMaximumStackHeight returns a Config that will prevent an execution
// environment from allowing the number of active user function calls to
// exceed n.  A value of 0 means unlimited (the default).
func WithMaximumStackHeight(n int) Config {
	return func(s *Scope) error {
		s.Runtime.Stack.MaxHeight = n
		return nil
	}
}

// WithMaxSteps returns a Config that sets the maximum number of evaluation
// steps before evaluation returns a CondStepLimitExceeded error.  A step is
// counted for each evaluated node.  A value of 0 means unlimited (the
// default).
func WithMaxSteps(n int64) Config {
	return func(s *Scope) error {
		s.Runtime.maxSteps = n
		return nil
	}
}

// WithContext returns a Config that sets the context.Context checked at each
// evaluation step; if it is cancelled or its deadline expires, evaluation
// returns a CondContextCancelled error.
func WithContext(ctx context.Context) Config {
	return func(s *Scope) error {
		s.Runtime.ctx = ctx
		return nil
	}
}

// WithProfiler returns a Config that attaches p to the runtime.  p is
// invoked around every user function call.
func WithProfiler(p Profiler) Config {
	return func(s *Scope) error {
		s.Runtime.Profiler = p
		return nil
	}
}

// WithLogf returns a Config that directs evaluator debugging output to logf.
func WithLogf(logf func(format string, v ...interface{})) Config {
	return func(s *Scope) error {
		s.Runtime.Logf = logf
		s.Runtime.Signals.logf = logf
		return nil
	}
}
