// Copyright © 2018 The ELPS authors

package profiler

import (
	"context"
	"errors"

	"github.com/tanndlin/tanscript/lang"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

type contextKey string

const (
	// ContextOpenTelemetryTracerKey looks up a parent tracer name from a context key.
	ContextOpenTelemetryTracerKey contextKey = "otelParentTracer"

	// CallDepthKey is the span attribute holding the call stack height.
	CallDepthKey = attribute.Key("tanscript.call.depth")
)

var _ lang.Profiler = &otelAnnotator{}

type otelAnnotator struct {
	profiler
	currentContext context.Context
	currentSpan    trace.Span
}

// NewOpenTelemetryAnnotator returns a profiler that opens a span for each
// user function call.  Spans are children of the span in parentContext.
func NewOpenTelemetryAnnotator(runtime *lang.Runtime, parentContext context.Context, opts ...Option) *otelAnnotator {
	p := &otelAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *otelAnnotator) Enable() error {
	if p.currentContext == nil {
		return errors.New("we can only append spans to a context that is linked to opentelemetry")
	}
	p.runtime.Profiler = p
	return p.profiler.Enable()
}

func contextTracer(ctx context.Context) trace.Tracer {
	tracerName, ok := ctx.Value(ContextOpenTelemetryTracerKey).(string)
	if !ok {
		tracerName = "tanscript"
	}
	return otel.GetTracerProvider().Tracer(tracerName)
}

func (p *otelAnnotator) Start(frame *lang.CallFrame) func() {
	if p.skipTrace(frame) {
		return func() {}
	}
	oldContext := p.currentContext
	prettyLabel, funName := p.prettyFunName(frame)
	p.currentContext, p.currentSpan = contextTracer(p.currentContext).Start(p.currentContext, prettyLabel)
	p.addCodeAttributes(frame, funName)
	return func() {
		p.currentSpan.End()
		// And pop the current context back
		p.currentContext = oldContext
		p.currentSpan = trace.SpanFromContext(p.currentContext)
	}
}

func (p *otelAnnotator) addCodeAttributes(frame *lang.CallFrame, funName string) {
	attrs := []attribute.KeyValue{
		semconv.CodeFunction(funName),
		CallDepthKey.Int(p.runtime.Stack.Height()),
	}
	if frame.Def != nil && frame.Def.Source != nil {
		loc := frame.Def.Source
		attrs = append(attrs,
			semconv.CodeNamespace(loc.File),
			semconv.CodeFilepath(loc.File),
			semconv.CodeLineNumber(loc.Line),
			semconv.CodeColumn(loc.Col),
		)
	}
	p.currentSpan.SetAttributes(attrs...)
}
