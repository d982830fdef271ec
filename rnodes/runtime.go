// Copyright © 2024 The ELPS authors

// Package rnodes implements execution nodes for arithmetic operators.
//
// A node applies one operator to the operands it is given.  It remembers
// the strategy that computed its last result and tries that strategy
// first on the next call, falling back to the general dispatch when the
// operands no longer fit it.
package rnodes

import (
	"io"
	"log/slog"
	"os"

	"github.com/luthersystems/rvm/rops"
	"github.com/luthersystems/rvm/rstats"
	"github.com/luthersystems/rvm/rthread"
)

// Runtime holds the state shared by the nodes of one evaluator and the
// threads it spawns.
type Runtime struct {
	// Stderr receives diagnostic output.  The default logger writes here.
	Stderr io.Writer
	Logger *slog.Logger
	// Profiler, when non-nil and enabled, is notified of every node
	// execution.
	Profiler Profiler
	Threads  *rthread.Registry
	RNG      rstats.Source
	Methods  *MethodTable
	// Options disables dispatch fast paths for every node of the runtime.
	Options rops.Options

	threadLimit int64
}

// NewRuntime returns a runtime configured by configs.  Unless configured
// otherwise, diagnostics go to os.Stderr, thread spawning is unbounded,
// and RNG is the default generator seeded with rstats.DefaultSeed.
func NewRuntime(configs ...Config) (*Runtime, error) {
	rt := &Runtime{
		Stderr:  os.Stderr,
		Methods: NewMethodTable(),
	}
	for _, config := range configs {
		if err := config(rt); err != nil {
			return nil, err
		}
	}
	if rt.Logger == nil {
		rt.Logger = slog.New(slog.NewTextHandler(rt.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	if rt.RNG == nil {
		rt.RNG = rstats.NewSource(rstats.DefaultSeed)
	}
	rt.RNG = rstats.Locked(rt.RNG)
	rt.Threads = rthread.NewRegistry(
		rthread.WithLimit(rt.threadLimit),
		rthread.WithLogger(rt.Logger),
	)
	return rt, nil
}
