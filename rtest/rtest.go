// Copyright © 2024 The ELPS authors

// Package rtest contains helpers for testing code built on the runtime.
package rtest

import (
	"math"
	"testing"

	"github.com/luthersystems/rvm/rdata"
	"github.com/luthersystems/rvm/rnodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewRuntime returns a runtime whose diagnostics go to the test log.
// Configs are applied after the test defaults.
func NewRuntime(t testing.TB, configs ...rnodes.Config) *rnodes.Runtime {
	t.Helper()
	stderr := NewLogger(t)
	t.Cleanup(stderr.Flush)
	configs = append([]rnodes.Config{
		rnodes.WithStderr(stderr),
		rnodes.WithLogger(Slog(t)),
	}, configs...)
	rt, err := rnodes.NewRuntime(configs...)
	require.NoError(t, err)
	return rt
}

// Shared marks v as bound so that operators may not overwrite it.
func Shared(v rdata.Concrete) rdata.Concrete {
	v.MarkNonTemporary()
	return v
}

// Vector returns r as a vector, failing the test if it is a bare element.
func Vector(t testing.TB, r rdata.Value) rdata.Vector {
	t.Helper()
	v, ok := r.(rdata.Vector)
	require.True(t, ok, "expected a vector, got %T", r)
	return v
}

// AssertVector checks the invariants every vector must satisfy.  A
// complete vector holds no NA, and materializing or copying preserves the
// elements.
func AssertVector(t testing.TB, v rdata.Vector) bool {
	t.Helper()
	ok := true
	if v.IsComplete() {
		for i := 0; i < v.Len(); i++ {
			if !assert.False(t, v.IsNA(i), "complete vector has NA at %d", i) {
				ok = false
				break
			}
		}
	}
	want := rdata.FormatVector(v)
	ok = assert.Equal(t, want, rdata.FormatVector(v.Materialize()), "materialized") && ok
	c := v.Copy()
	ok = assert.Equal(t, want, rdata.FormatVector(c), "copy") && ok
	ok = assert.True(t, c.IsTemporary(), "copy is temporary") && ok
	ok = assert.Equal(t, v.Len(), c.Len()) && ok
	return ok
}

// AssertElements checks that r formats as want, whatever its
// representation.
func AssertElements(t testing.TB, want string, r rdata.Value) bool {
	t.Helper()
	if v, ok := r.(rdata.Vector); ok {
		return assert.Equal(t, want, rdata.FormatVector(v))
	}
	return assert.Equal(t, want, rdata.FormatValue(r))
}

// Operand is a named constructor of a test vector.  Each call returns a
// fresh vector, so operands overwritten by one call do not leak into the
// next.
type Operand struct {
	Name string
	New  func() rdata.Vector
}

func wrapped(v rdata.Vector, to rdata.RType) rdata.Vector {
	w, err := rdata.Wrap(v, to)
	if err != nil {
		panic(err)
	}
	return w
}

func shared(v rdata.Concrete) rdata.Vector {
	return Shared(v)
}

func withNames(v rdata.Concrete, names ...string) rdata.Vector {
	v.SetAttr(rdata.AttrNames, rdata.Strings(names...))
	return v
}

// Operands returns the canonical operand set: every element kind and
// every form, with and without NA, empty and length one vectors, shared
// and temporary.
func Operands() []Operand {
	return []Operand{
		{"logical", func() rdata.Vector { return rdata.Logicals(rdata.True, rdata.False) }},
		{"logical NA", func() rdata.Vector { return rdata.Logicals(rdata.True, rdata.LogicalNA) }},
		{"integer", func() rdata.Vector { return rdata.Ints(1, -2, 3) }},
		{"integer NA", func() rdata.Vector { return rdata.Ints(1, rdata.IntNA, 3) }},
		{"integer shared", func() rdata.Vector { return shared(rdata.Ints(4, 5)) }},
		{"integer scalar", func() rdata.Vector { return rdata.Ints(7) }},
		{"integer empty", func() rdata.Vector { return rdata.Ints() }},
		{"integer named", func() rdata.Vector { return withNames(rdata.Ints(1, 2), "a", "b") }},
		{"double", func() rdata.Vector { return rdata.Doubles(1.5, -2.25) }},
		{"double NA", func() rdata.Vector { return rdata.Doubles(rdata.DoubleNA, 0.5) }},
		{"double NaN", func() rdata.Vector { return rdata.Doubles(math.NaN(), math.Inf(-1)) }},
		{"double shared scalar", func() rdata.Vector { return shared(rdata.Doubles(2.5)) }},
		{"complex", func() rdata.Vector { return rdata.Complexes(1+2i, -3) }},
		{"complex NA", func() rdata.Vector { return rdata.Complexes(rdata.ComplexNA) }},
		{"character", func() rdata.Vector { return rdata.NewStringVector([]string{"a", ""}, 1) }},
		{"raw", func() rdata.Vector { return rdata.NewRawVector([]byte{1, 2}) }},
		{"list", func() rdata.Vector { return rdata.List(int32(1), "a") }},
		{"integer sequence", func() rdata.Vector { return rdata.NewIntSequence(1, 1, 5) }},
		{"integer sequence descending", func() rdata.Vector { return rdata.NewIntSequence(10, -3, 4) }},
		{"integer sequence scalar", func() rdata.Vector { return rdata.NewIntSequence(9, 1, 1) }},
		{"double sequence", func() rdata.Vector { return rdata.NewDoubleSequence(0.5, 0.25, 4) }},
		{"integer as double", func() rdata.Vector { return wrapped(rdata.Ints(1, rdata.IntNA), rdata.RDouble) }},
		{"logical as integer", func() rdata.Vector { return wrapped(rdata.Logicals(rdata.True, rdata.False), rdata.RInteger) }},
		{"character as double", func() rdata.Vector {
			return wrapped(rdata.Strings("1.5", "x"), rdata.RDouble)
		}},
	}
}
