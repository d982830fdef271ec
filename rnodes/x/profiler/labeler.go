// Copyright © 2024 The ELPS authors

package profiler

import (
	"regexp"

	"github.com/luthersystems/rvm/rnodes"
)

// NodeLabeler provides an alternative name for a node label in the trace.
type NodeLabeler func(node rnodes.Node) string

// WithNodeLabeler sets the labeler for tracing spans.
func WithNodeLabeler(labeler NodeLabeler) Option {
	return func(p *profiler) {
		p.labeler = labeler
	}
}

// WithPathLabeler labels spans with the operator name and the dispatch
// path cached by the node when the execution starts, as in "+ vector".
func WithPathLabeler() Option {
	return WithNodeLabeler(pathLabeler)
}

func pathLabeler(node rnodes.Node) string {
	s, ok := cachedPath(node)
	if !ok {
		return ""
	}
	return node.Name() + " " + s.Path.String()
}

var (
	sanitizeRegExp   = regexp.MustCompile(`[\s_]+`)
	validLabelRegExp = regexp.MustCompile(`[[:graph:]]*`)
)

func sanitizeLabel(userLabel string) string {
	if userLabel == "" {
		return ""
	}

	// Replace spaces with underscores
	userLabel = sanitizeRegExp.ReplaceAllString(userLabel, "_")

	// Find the first valid label match
	matches := validLabelRegExp.FindStringSubmatch(userLabel)
	if len(matches) > 0 {
		return matches[0]
	}

	return ""
}
