// Copyright © 2024 The ELPS authors

// Package profiler contains rnodes.Profiler implementations that export
// node executions to tracing and profiling tools.
package profiler

import (
	"fmt"
	"sync/atomic"

	"github.com/luthersystems/rvm/rnodes"
)

// profiler is a minimal rnodes.Profiler
type profiler struct {
	enabled    atomic.Bool
	skipFilter SkipFilter
	labeler    NodeLabeler
}

type Option func(*profiler)

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *profiler) IsEnabled() bool {
	return p.enabled.Load()
}

func (p *profiler) Enable() error {
	if !p.enabled.CompareAndSwap(false, true) {
		return fmt.Errorf("profiler already enabled")
	}
	return nil
}

// label returns the span label of node.  The labeler may rename a node;
// an empty label falls back to the operator name.
func (p *profiler) label(node rnodes.Node) string {
	name := node.Name()
	if p.labeler == nil {
		return name
	}
	if label := sanitizeLabel(p.labeler(node)); label != "" {
		return label
	}
	return name
}

// skipTrace is a helper function to decide whether to skip tracing.
func (p *profiler) skipTrace(node rnodes.Node) bool {
	return !p.IsEnabled() || p.skipFilter != nil && p.skipFilter(node)
}

// cachedPath returns the inline cache path of node, if it has one.
func cachedPath(node rnodes.Node) (rnodes.Stats, bool) {
	s, ok := node.(interface{ Stats() rnodes.Stats })
	if !ok {
		return rnodes.Stats{}, false
	}
	return s.Stats(), true
}
