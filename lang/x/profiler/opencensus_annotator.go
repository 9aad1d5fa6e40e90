// Copyright © 2018 The ELPS authors

package profiler

import (
	"context"
	"errors"

	"github.com/tanndlin/tanscript/lang"
	"go.opencensus.io/trace"
)

var _ lang.Profiler = &ocAnnotator{}

type ocAnnotator struct {
	profiler
	currentContext context.Context
	currentSpan    *trace.Span
}

// NewOpenCensusAnnotator returns a profiler that records an OpenCensus span
// for each user function call.  Spans are children of the span in
// parentContext, if it has one.
func NewOpenCensusAnnotator(runtime *lang.Runtime, parentContext context.Context, opts ...Option) *ocAnnotator {
	p := &ocAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *ocAnnotator) Enable() error {
	if p.currentContext == nil {
		return errors.New("we can only append spans to a context that is linked to opencensus")
	}
	p.runtime.Profiler = p
	return p.profiler.Enable()
}

func (p *ocAnnotator) Start(frame *lang.CallFrame) func() {
	if p.skipTrace(frame) {
		return func() {}
	}
	oldContext := p.currentContext
	prettyLabel, funName := p.prettyFunName(frame)
	p.currentContext, p.currentSpan = trace.StartSpan(p.currentContext, prettyLabel)
	p.currentSpan.AddAttributes(
		trace.StringAttribute("function", funName),
		trace.Int64Attribute("depth", int64(p.runtime.Stack.Height())),
	)
	span := p.currentSpan
	return func() {
		file, line := sourceOf(frame)
		span.Annotate([]trace.Attribute{
			trace.StringAttribute("file", file),
			trace.Int64Attribute("line", int64(line)),
		}, "source")
		span.End()
		p.currentContext = oldContext
		p.currentSpan = trace.FromContext(p.currentContext)
	}
}

func sourceOf(frame *lang.CallFrame) (string, int) {
	if frame.Def == nil || frame.Def.Source == nil {
		return "no-source", 0
	}
	return frame.Def.Source.File, frame.Def.Source.Line
}
