// Copyright © 2024 The ELPS authors

package profiler

import (
	"context"
	"runtime/pprof"

	"github.com/luthersystems/rvm/rnodes"
)

// This profiler type appends labels to pprof samples if pprof is enabled.
// It does not start pprof.  Samples are taken at 100Hz, so only long
// running operators show up.
type pprofAnnotator struct {
	profiler
	runtime *rnodes.Runtime
}

var _ rnodes.Profiler = &pprofAnnotator{}

func NewPprofAnnotator(runtime *rnodes.Runtime, opts ...Option) *pprofAnnotator {
	p := &pprofAnnotator{
		runtime: runtime,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *pprofAnnotator) Enable() error {
	p.runtime.Profiler = p
	return p.profiler.Enable()
}

func (p *pprofAnnotator) Complete() error {
	p.enabled.Store(false)
	pprof.SetGoroutineLabels(context.Background())
	return nil
}

func (p *pprofAnnotator) Start(ctx context.Context, node rnodes.Node) (context.Context, func()) {
	if p.skipTrace(node) {
		return ctx, func() {}
	}
	outer := ctx
	ctx = pprof.WithLabels(ctx, pprof.Labels("operator", p.label(node)))
	pprof.SetGoroutineLabels(ctx)
	return ctx, func() {
		pprof.SetGoroutineLabels(outer)
	}
}
