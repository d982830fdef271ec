// Copyright © 2024 The ELPS authors

package rnodes

import (
	"errors"
	"io"
	"log/slog"

	"github.com/luthersystems/rvm/rstats"
)

// Config is a function that configures a runtime.
type Config func(rt *Runtime) error

// WithStderr returns a Config that makes the runtime write diagnostic
// output to w instead of the default, os.Stderr.
func WithStderr(w io.Writer) Config {
	return func(rt *Runtime) error {
		if w == nil {
			return errors.New("nil stderr writer")
		}
		rt.Stderr = w
		return nil
	}
}

// WithLogger returns a Config that makes the runtime log structured events
// to l.  Node respecialization, thread lifecycle and recovered contract
// violations are logged.
func WithLogger(l *slog.Logger) Config {
	return func(rt *Runtime) error {
		rt.Logger = l
		return nil
	}
}

// WithProfiler returns a Config that attaches p to the runtime.  The
// profiler still has to be enabled before it observes anything.
func WithProfiler(p Profiler) Config {
	return func(rt *Runtime) error {
		rt.Profiler = p
		return nil
	}
}

// WithThreadLimit returns a Config that limits the number of spawned
// threads running at once.  Spawning blocks while n threads are running.
// Zero means unbounded.
func WithThreadLimit(n int64) Config {
	return func(rt *Runtime) error {
		if n < 0 {
			return errors.New("negative thread limit")
		}
		rt.threadLimit = n
		return nil
	}
}

// WithSequenceFolding returns a Config that enables or disables applying
// operators to sequences without materializing them.  Folding is enabled
// by default.
func WithSequenceFolding(enabled bool) Config {
	return func(rt *Runtime) error {
		rt.Options.NoFold = !enabled
		return nil
	}
}

// WithScalarResults returns a Config that enables or disables returning
// bare elements for length one operands.  Scalar results are enabled by
// default.
func WithScalarResults(enabled bool) Config {
	return func(rt *Runtime) error {
		rt.Options.NoScalar = !enabled
		return nil
	}
}

// WithOperandReuse returns a Config that enables or disables writing
// results into temporary operands.  Reuse is enabled by default.
func WithOperandReuse(enabled bool) Config {
	return func(rt *Runtime) error {
		rt.Options.NoReuse = !enabled
		return nil
	}
}

// WithRNG returns a Config that makes the runtime draw random numbers
// from src.
func WithRNG(src rstats.Source) Config {
	return func(rt *Runtime) error {
		rt.RNG = src
		return nil
	}
}
