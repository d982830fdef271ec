// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/luthersystems/rvm/rdata"
	"github.com/luthersystems/rvm/rnodes"
	"github.com/luthersystems/rvm/rnodes/x/profiler"
	"github.com/luthersystems/rvm/rparse"
	"github.com/luthersystems/rvm/rprint"
	"github.com/luthersystems/rvm/rstats"
	"github.com/spf13/viper"
)

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// newRuntime returns a runtime configured from viper.  The returned
// function completes the profile, if one was requested.
func newRuntime(stderr io.Writer) (*rnodes.Runtime, func() error, error) {
	level, err := parseLevel(viper.GetString("log-level"))
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	var rng rstats.Source = rstats.NewSource(viper.GetUint64("seed"))
	if viper.GetBool("marsaglia") {
		rng = rstats.NewMarsagliaSource()
	}
	rt, err := rnodes.NewRuntime(
		rnodes.WithStderr(stderr),
		rnodes.WithLogger(logger),
		rnodes.WithSequenceFolding(viper.GetBool("fold")),
		rnodes.WithScalarResults(viper.GetBool("scalar")),
		rnodes.WithOperandReuse(viper.GetBool("reuse")),
		rnodes.WithThreadLimit(viper.GetInt64("thread-limit")),
		rnodes.WithRNG(rng),
	)
	if err != nil {
		return nil, nil, err
	}
	complete := func() error { return nil }
	if file := viper.GetString("callgrind"); file != "" {
		p := profiler.NewCallgrindProfiler(rt)
		if err := p.SetFile(file); err != nil {
			return nil, nil, err
		}
		if err := p.Enable(); err != nil {
			return nil, nil, err
		}
		complete = p.Complete
	}
	return rt, complete, nil
}

// parseOperand parses the vector literal of the named argument and
// presents it as kind typ when typ is not empty.
func parseOperand(name, text, typ string) (rdata.Vector, error) {
	v, err := rparse.Parse(text)
	if err != nil {
		return nil, &operandError{name: name, err: err}
	}
	if typ == "" {
		return v, nil
	}
	t, ok := rdata.ParseRType(strings.ToLower(typ))
	if !ok {
		return nil, fmt.Errorf("unknown type %q", typ)
	}
	return rdata.Wrap(v, t)
}

// printResult prints r and, when requested, a description of its
// representation.
func printResult(w io.Writer, r rdata.Value) error {
	width := viper.GetInt("width")
	if err := rprint.New(w, rprint.WithWidth(width)).Print(r); err != nil {
		return err
	}
	if !viper.GetBool("describe") {
		return nil
	}
	v, ok := r.(rdata.Vector)
	if !ok {
		_, err := fmt.Fprintf(w, "bare %T\n", r)
		return err
	}
	return rprint.Describe(w, v, width)
}
