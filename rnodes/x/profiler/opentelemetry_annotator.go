// Copyright © 2024 The ELPS authors

package profiler

import (
	"context"
	"errors"

	"github.com/luthersystems/rvm/rnodes"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

type contextKey string

const (
	// ContextOpenTelemetryTracerKey looks up a parent tracer name from a context key.
	ContextOpenTelemetryTracerKey contextKey = "otelParentTracer"
)

var _ rnodes.Profiler = &otelAnnotator{}

type otelAnnotator struct {
	profiler
	runtime       *rnodes.Runtime
	parentContext context.Context
}

// NewOpenTelemetryAnnotator returns a profiler that records a span for
// every node execution.  Executions whose context carries no span become
// children of the span in parentContext.
func NewOpenTelemetryAnnotator(runtime *rnodes.Runtime, parentContext context.Context, opts ...Option) *otelAnnotator {
	p := &otelAnnotator{
		runtime:       runtime,
		parentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *otelAnnotator) Enable() error {
	p.runtime.Profiler = p
	if p.parentContext == nil {
		return errors.New("we can only append spans to a context that is linked to opentelemetry")
	}
	return p.profiler.Enable()
}

func (p *otelAnnotator) Complete() error {
	p.enabled.Store(false)
	return nil
}

func contextTracer(ctx context.Context) trace.Tracer {
	tracerName, ok := ctx.Value(ContextOpenTelemetryTracerKey).(string)
	if !ok {
		tracerName = "rvm"
	}
	return otel.GetTracerProvider().Tracer(tracerName)
}

func (p *otelAnnotator) Start(ctx context.Context, node rnodes.Node) (context.Context, func()) {
	if p.skipTrace(node) {
		return ctx, func() {}
	}
	if !trace.SpanContextFromContext(ctx).IsValid() {
		ctx = trace.ContextWithSpan(ctx, trace.SpanFromContext(p.parentContext))
	}
	ctx, span := contextTracer(ctx).Start(ctx, p.label(node))
	p.addCodeAttributes(span, node)
	return ctx, func() {
		span.End()
	}
}

func (p *otelAnnotator) addCodeAttributes(span trace.Span, node rnodes.Node) {
	attrs := []attribute.KeyValue{
		semconv.CodeNamespace("rvm"),
		semconv.CodeFunction(node.Name()),
	}
	if s, ok := cachedPath(node); ok {
		attrs = append(attrs,
			attribute.String("rvm.path", s.Path.String()),
			attribute.Int64("rvm.cache.hits", int64(s.Hits)),
			attribute.Int64("rvm.cache.misses", int64(s.Misses)),
		)
	}
	span.SetAttributes(attrs...)
}
