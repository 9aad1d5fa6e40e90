// Copyright © 2018 The ELPS authors

package lang

import (
	"context"
	"io"
	"os"
	"sync/atomic"

	"github.com/tanndlin/tanscript/ast"
)

// Reader abstracts a parser implementation so that it may be implemented in a
// separate package as an optional/swappable component.
type Reader interface {
	// Read the contents of r and return the program it contains.
	Read(name string, r io.Reader) (*ast.Program, error)
}

// Optimizer rewrites a parsed program before it is evaluated.
type Optimizer interface {
	Optimize(prog *ast.Program) *ast.Program
}

// Runtime is an object underlying a tree of Scope values.  It is responsible
// for holding shared evaluation state (the signal graph, call stack and
// built-in registry) and the streams programs write to.
type Runtime struct {
	Stdout    io.Writer
	Stderr    io.Writer
	Reader    Reader
	Optimizer Optimizer
	Stack     *CallStack
	Signals   *SignalGraph
	Builtins  map[string]*Builtin
	Profiler  Profiler

	// Logf receives debugging output about scope creation and signal
	// propagation.  Logf may be nil.
	Logf func(format string, v ...interface{})

	ctx      context.Context
	maxSteps int64
	steps    int64
	numscope atomicCounter
}

// StandardRuntime returns a new Runtime with the standard built-ins writing
// to os.Stdout and os.Stderr.
func StandardRuntime() *Runtime {
	return &Runtime{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Stack:    &CallStack{},
		Signals:  NewSignalGraph(),
		Builtins: DefaultBuiltins(),
	}
}

// Steps returns the number of evaluation steps taken so far.
func (r *Runtime) Steps() int64 {
	return r.steps
}

func (r *Runtime) genScopeID() uint {
	return r.numscope.Add(1)
}

func (r *Runtime) debugf(format string, v ...interface{}) {
	if r.Logf != nil {
		r.Logf(format, v...)
	}
}

// step accounts for the evaluation of a single node and enforces the step
// budget and context cancellation.
func (r *Runtime) step() error {
	r.steps++
	if r.maxSteps > 0 && r.steps > r.maxSteps {
		return Errorf(CondStepLimitExceeded, "evaluation exceeded %d steps", r.maxSteps)
	}
	if r.ctx != nil {
		if err := r.ctx.Err(); err != nil {
			return &Error{
				Condition: CondContextCancelled,
				Message:   err.Error(),
				Err:       err,
			}
		}
	}
	return nil
}

type atomicCounter uint64

func (c *atomicCounter) Add(n uint) uint {
	return uint(atomic.AddUint64((*uint64)(c), uint64(n)))
}
