// Copyright © 2024 The ELPS authors

package profiler

import (
	"context"
	"errors"

	"github.com/luthersystems/rvm/rnodes"
	"go.opencensus.io/trace"
)

var _ rnodes.Profiler = &ocAnnotator{}

type ocAnnotator struct {
	profiler
	runtime       *rnodes.Runtime
	parentContext context.Context
}

// NewOpenCensusAnnotator returns a profiler that records an OpenCensus
// span for every node execution.
func NewOpenCensusAnnotator(runtime *rnodes.Runtime, parentContext context.Context, opts ...Option) *ocAnnotator {
	p := &ocAnnotator{
		runtime:       runtime,
		parentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

// EnableWithContext enables the profiler with ctx as the parent of
// executions that carry no span.
func (p *ocAnnotator) EnableWithContext(ctx context.Context) error {
	if ctx == nil {
		return errors.New("set a context to use this function")
	}
	p.parentContext = ctx
	return p.Enable()
}

func (p *ocAnnotator) Enable() error {
	p.runtime.Profiler = p
	if p.parentContext == nil {
		return errors.New("we can only append spans to a context that is linked to opencensus")
	}
	return p.profiler.Enable()
}

func (p *ocAnnotator) Complete() error {
	p.enabled.Store(false)
	return nil
}

func (p *ocAnnotator) Start(ctx context.Context, node rnodes.Node) (context.Context, func()) {
	if p.skipTrace(node) {
		return ctx, func() {}
	}
	if trace.FromContext(ctx) == nil {
		ctx = trace.NewContext(ctx, trace.FromContext(p.parentContext))
	}
	ctx, span := trace.StartSpan(ctx, p.label(node))
	return ctx, func() {
		if s, ok := cachedPath(node); ok {
			span.Annotate([]trace.Attribute{
				trace.StringAttribute("path", s.Path.String()),
				trace.Int64Attribute("hits", int64(s.Hits)),
				trace.Int64Attribute("misses", int64(s.Misses)),
			}, "inline cache")
		}
		span.End()
	}
}
