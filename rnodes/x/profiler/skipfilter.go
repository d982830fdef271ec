// Copyright © 2024 The ELPS authors

package profiler

import "github.com/luthersystems/rvm/rnodes"

// SkipFilter returns true for nodes that should not be traced.
type SkipFilter func(node rnodes.Node) bool

// WithSkipFilter sets the filter for tracing spans.
func WithSkipFilter(skipFilter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = skipFilter
	}
}

// WithOperatorFilter only traces nodes applying one of the named
// operators.
func WithOperatorFilter(names ...string) Option {
	traced := make(map[string]bool, len(names))
	for _, name := range names {
		traced[name] = true
	}
	return WithSkipFilter(func(node rnodes.Node) bool {
		return !traced[node.Name()]
	})
}
