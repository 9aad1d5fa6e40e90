// Copyright © 2018 The ELPS authors

package profiler

import (
	"context"
	"runtime/pprof"

	"github.com/tanndlin/tanscript/lang"
)

// FunctionLabel is the pprof label holding the name of the TanScript
// function being evaluated.
const FunctionLabel = "tanscript.function"

// pprofAnnotator labels the evaluating goroutine with the active function so
// that CPU profiles can be broken down by TanScript function.  Profiling
// itself must be started by the caller.
type pprofAnnotator struct {
	profiler
	currentContext context.Context
}

var _ lang.Profiler = &pprofAnnotator{}

// NewPprofAnnotator returns a profiler which sets pprof labels derived from
// parentContext.
func NewPprofAnnotator(runtime *lang.Runtime, parentContext context.Context, opts ...Option) *pprofAnnotator {
	p := &pprofAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *pprofAnnotator) Enable() error {
	if p.currentContext == nil {
		p.currentContext = context.Background()
	}
	p.runtime.Profiler = p
	return p.profiler.Enable()
}

func (p *pprofAnnotator) Complete() error {
	pprof.SetGoroutineLabels(context.Background())
	return p.profiler.Complete()
}

func (p *pprofAnnotator) Start(frame *lang.CallFrame) func() {
	if p.skipTrace(frame) {
		return func() {}
	}
	oldContext := p.currentContext
	label, _ := p.prettyFunName(frame)
	p.currentContext = pprof.WithLabels(p.currentContext, pprof.Labels(FunctionLabel, label))
	pprof.SetGoroutineLabels(p.currentContext)
	return func() {
		p.currentContext = oldContext
		pprof.SetGoroutineLabels(p.currentContext)
	}
}

// label returns the value of the function label in the current context.
func (p *pprofAnnotator) label() (string, bool) {
	return pprof.Label(p.currentContext, FunctionLabel)
}
