// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	octrace "go.opencensus.io/trace"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// logExporter writes finished spans to the command log.
type logExporter struct{}

var _ sdktrace.SpanExporter = logExporter{}

func (logExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		attrs := make([]string, 0, len(span.Attributes()))
		for _, kv := range span.Attributes() {
			attrs = append(attrs, string(kv.Key)+"="+kv.Value.Emit())
		}
		log.Noticef("span %s %s parent=%s %s [%s]",
			span.SpanContext().SpanID(),
			span.Name(),
			span.Parent().SpanID(),
			span.EndTime().Sub(span.StartTime()),
			strings.Join(attrs, " "))
	}
	return nil
}

func (logExporter) Shutdown(ctx context.Context) error {
	return nil
}

const (
	traceOpenTelemetry = "opentelemetry"
	traceOpenCensus    = "opencensus"
)

// ocLogExporter writes finished OpenCensus spans to the command log.
type ocLogExporter struct{}

var _ octrace.Exporter = ocLogExporter{}

func (ocLogExporter) ExportSpan(sd *octrace.SpanData) {
	attrs := make([]string, 0, len(sd.Attributes))
	for k, v := range sd.Attributes {
		attrs = append(attrs, fmt.Sprintf("%s=%v", k, v))
	}
	sort.Strings(attrs)
	log.Noticef("span %s %s parent=%s %s [%s]",
		sd.SpanID,
		sd.Name,
		sd.ParentSpanID,
		sd.EndTime.Sub(sd.StartTime),
		strings.Join(attrs, " "))
}

// startTracing installs a global exporter for api which logs each span
// synchronously.  The returned function flushes and removes it.
func startTracing(api string) (func(), error) {
	switch api {
	case traceOpenTelemetry:
		return startOpenTelemetry(), nil
	case traceOpenCensus:
		exp := ocLogExporter{}
		octrace.ApplyConfig(octrace.Config{DefaultSampler: octrace.AlwaysSample()})
		octrace.RegisterExporter(exp)
		return func() { octrace.UnregisterExporter(exp) }, nil
	default:
		return nil, fmt.Errorf("unknown trace api %q", api)
	}
}

func startOpenTelemetry() func() {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(logExporter{}))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	return func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Errorf("tracer shutdown: %v", err)
		}
		otel.SetTracerProvider(prev)
	}
}
