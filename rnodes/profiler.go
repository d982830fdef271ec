// Copyright © 2024 The ELPS authors

package rnodes

import "context"

// Profiler observes node executions.
type Profiler interface {
	// Is the profiler enabled?
	IsEnabled() bool
	// Enable the profiler
	Enable() error
	// End the profiling session
	Complete() error
	// Start marks the start of an execution of node.  It returns the
	// context the execution runs in and a function marking its end.
	Start(ctx context.Context, node Node) (context.Context, func())
}

func (rt *Runtime) profile(ctx context.Context, node Node) (context.Context, func()) {
	if rt.Profiler == nil || !rt.Profiler.IsEnabled() {
		return ctx, func() {}
	}
	return rt.Profiler.Start(ctx, node)
}
