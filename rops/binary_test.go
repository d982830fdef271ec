// Copyright © 2024 The ELPS authors

package rops_test

import (
	"errors"
	"math"
	"testing"

	"github.com/luthersystems/rvm/rdata"
	"github.com/luthersystems/rvm/rops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryArithmetic(t *testing.T) {
	tests := []struct {
		op     *rops.BinaryOp
		x, y   rdata.Vector
		result string
		typ    rdata.RType
	}{
		{rops.Add, rdata.Ints(1, 2, 3), rdata.Ints(10, 20, 30), "11 22 33", rdata.RInteger},
		{rops.Add, rdata.Ints(1, 2, 3, 4), rdata.Ints(10, 20), "11 22 13 24", rdata.RInteger},
		{rops.Subtract, rdata.Doubles(1.5), rdata.Ints(1, 2), "0.5 -0.5", rdata.RDouble},
		{rops.Multiply, rdata.Logicals(rdata.True, rdata.False), rdata.Ints(5, 5), "5 0", rdata.RInteger},
		{rops.Divide, rdata.Ints(1, 3), rdata.Ints(2, 0), "0.5 Inf", rdata.RDouble},
		{rops.Pow, rdata.Ints(2, 3), rdata.Ints(3, 2), "8 9", rdata.RDouble},
		{rops.Mod, rdata.Ints(5, -5, 5), rdata.Ints(3, 3, -3), "2 1 -1", rdata.RInteger},
		{rops.Mod, rdata.Doubles(5.5, -1), rdata.Doubles(2, 3), "1.5 2", rdata.RDouble},
		{rops.IntDiv, rdata.Ints(7, -7, 7), rdata.Ints(2, 2, 0), "3 -4 NA", rdata.RInteger},
		{rops.Add, rdata.Complexes(complex(1, 1)), rdata.Ints(1, 2), "2+1i 3+1i", rdata.RComplex},
		{rops.Add, rdata.Ints(), rdata.Ints(1, 2), "integer(0)", rdata.RInteger},
	}
	for _, test := range tests {
		t.Run(test.op.Name+" "+test.result, func(t *testing.T) {
			r, _, err := rops.Options{NoScalar: true}.ApplyBinary(test.op, test.x, test.y)
			require.NoError(t, err)
			res := r.(rdata.Vector)
			assert.Equal(t, test.typ, res.Type())
			assert.Equal(t, test.result, res.String())
		})
	}
}

func TestBinaryIntegerOverflow(t *testing.T) {
	r, _, err := rops.ApplyBinary(rops.Add, rdata.Ints(math.MaxInt32, 1), rdata.Ints(1, 1))
	require.NoError(t, err)
	res := r.(rdata.Vector)
	assert.Equal(t, "NA 2", res.String())
	assert.False(t, res.IsComplete())

	r, path, err := rops.ApplyBinary(rops.Multiply, rdata.Ints(1<<20), rdata.Ints(1<<20))
	require.NoError(t, err)
	assert.Equal(t, rops.PathScalar, path)
	assert.Equal(t, rdata.IntNA, r)
}

func TestBinaryNA(t *testing.T) {
	r, _, err := rops.ApplyBinary(rops.Add, rdata.Doubles(1, rdata.DoubleNA), rdata.Doubles(1, 1))
	require.NoError(t, err)
	res := r.(rdata.Vector)
	assert.Equal(t, "2 NA", res.String())
	assert.False(t, res.IsComplete())

	// x^0 and 1^y are 1 even when the other operand is NA.
	r, _, err = rops.ApplyBinary(rops.Pow, rdata.Doubles(rdata.DoubleNA, 1, 2), rdata.Doubles(0, rdata.DoubleNA, rdata.DoubleNA))
	require.NoError(t, err)
	assert.Equal(t, "1 1 NA", r.(rdata.Vector).String())
}

func TestBinaryFold(t *testing.T) {
	s := rdata.NewIntSequence(1, 1, 5)
	tests := []struct {
		op     *rops.BinaryOp
		x, y   rdata.Vector
		start  float64
		stride float64
		typ    rdata.RType
	}{
		{rops.Add, s, rdata.Ints(10), 11, 1, rdata.RInteger},
		{rops.Add, rdata.Ints(10), s, 11, 1, rdata.RInteger},
		{rops.Subtract, s, rdata.Ints(1), 0, 1, rdata.RInteger},
		{rops.Subtract, rdata.Ints(10), s, 9, -1, rdata.RInteger},
		{rops.Multiply, s, rdata.Ints(3), 3, 3, rdata.RInteger},
		{rops.Multiply, rdata.Logicals(rdata.True), s, 1, 1, rdata.RInteger},
	}
	for _, test := range tests {
		r, path, err := rops.ApplyBinary(test.op, test.x, test.y)
		require.NoError(t, err)
		assert.Equal(t, rops.PathFold, path)
		seq, ok := r.(rdata.Sequence)
		require.True(t, ok)
		assert.Equal(t, test.typ, seq.Type())
		assert.Equal(t, 5, seq.Len())
		assert.Equal(t, test.start, rdata.ElementAsDouble(seq, 0))
		assert.Equal(t, test.start+4*test.stride, rdata.ElementAsDouble(seq, 4))

		mapped, _, err := rops.Options{NoFold: true}.ApplyBinary(test.op, test.x, test.y)
		require.NoError(t, err)
		assert.Equal(t, mapped.(rdata.Vector).String(), rdata.FormatVector(seq))
	}
}

func TestBinaryFoldDeclined(t *testing.T) {
	s := rdata.NewIntSequence(1, 1, 5)
	for _, test := range []struct {
		op *rops.BinaryOp
		y  rdata.Vector
	}{
		{rops.Add, rdata.Ints(rdata.IntNA)},
		{rops.Add, rdata.Ints(math.MaxInt32)},
		{rops.Divide, rdata.Ints(2)},
		{rops.Add, rdata.Complexes(1)},
		{rops.Add, rdata.Ints(1, 2, 3, 4, 5)},
		{rops.Multiply, rdata.Doubles(0.5)},
		{rops.Add, rdata.Doubles(0.25)},
	} {
		r, path, err := rops.ApplyBinary(test.op, s, test.y)
		require.NoError(t, err)
		assert.NotEqual(t, rops.PathFold, path)
		assert.False(t, rdata.IsSequence(r.(rdata.Vector)))
	}
}

// Double results are never folded, so every path yields the same elements
// as the materialized computation.
func TestBinaryDoubleSequenceExact(t *testing.T) {
	tests := []struct {
		op   *rops.BinaryOp
		x, y rdata.Vector
	}{
		{rops.Multiply, rdata.NewIntSequence(1, 1, 10), rdata.Doubles(0.1)},
		{rops.Multiply, rdata.NewDoubleSequence(0.1, 0.7, 10), rdata.Doubles(3)},
		{rops.Add, rdata.NewDoubleSequence(0.1, 0.2, 10), rdata.Doubles(0.3)},
		{rops.Subtract, rdata.Doubles(1), rdata.NewDoubleSequence(0.1, 0.1, 10)},
		{rops.Add, rdata.NewDoubleSequence(0, 0.5, 5), rdata.Logicals(rdata.True)},
	}
	for _, test := range tests {
		r, path, err := rops.ApplyBinary(test.op, test.x, test.y)
		require.NoError(t, err)
		assert.NotEqual(t, rops.PathFold, path)
		mapped, _, err := rops.Options{NoFold: true}.ApplyBinary(test.op, test.x, test.y)
		require.NoError(t, err)
		got, want := r.(rdata.DoubleReader), mapped.(rdata.DoubleReader)
		require.Equal(t, mapped.(rdata.Vector).Len(), r.(rdata.Vector).Len())
		for i := 0; i < r.(rdata.Vector).Len(); i++ {
			assert.True(t, got.DoubleAt(i) == want.DoubleAt(i), "%s element %d", test.op, i)
		}
	}
}

func TestBinaryReuse(t *testing.T) {
	x := rdata.Ints(1, 2)
	y := rdata.Ints(3, 4)
	r, path, err := rops.ApplyBinary(rops.Add, x, y)
	require.NoError(t, err)
	assert.Equal(t, rops.PathInPlace, path)
	assert.Same(t, x, r)

	x = rdata.Ints(1, 2)
	x.MarkNonTemporary()
	r, path, err = rops.ApplyBinary(rops.Add, x, y)
	require.NoError(t, err)
	assert.Equal(t, rops.PathInPlace, path)
	assert.Same(t, y, r)
	assert.Equal(t, "1 2", x.String())

	y.MarkNonTemporary()
	x2 := rdata.Ints(1)
	r, path, err = rops.Options{NoScalar: true}.ApplyBinary(rops.Add, x2, y)
	require.NoError(t, err)
	assert.Equal(t, rops.PathVector, path)
	assert.NotSame(t, x2, r)

	r, path, err = rops.Options{NoReuse: true}.ApplyBinary(rops.Add, rdata.Ints(1, 2), rdata.Ints(1, 2))
	require.NoError(t, err)
	assert.Equal(t, rops.PathVector, path)
	assert.Equal(t, "2 4", r.(rdata.Vector).String())
}

func TestBinaryAttributes(t *testing.T) {
	x := rdata.Ints(1, 2)
	x.SetAttr("a", rdata.Strings("x"))
	x.SetAttr("b", rdata.Strings("x"))
	x.MarkNonTemporary()
	y := rdata.Ints(3, 4)
	y.SetAttr("b", rdata.Strings("y"))
	y.SetAttr("c", rdata.Strings("y"))
	y.MarkNonTemporary()

	r, _, err := rops.ApplyBinary(rops.Add, x, y)
	require.NoError(t, err)
	attrs := r.(rdata.Vector).Attributes()
	assert.ElementsMatch(t, []string{"a", "b", "c"}, attrs.Names())
	b, _ := attrs.Get("b")
	assert.Equal(t, "x", b.(rdata.StringReader).StringAt(0))

	short := rdata.Ints(1)
	short.SetAttr("d", rdata.Strings("short"))
	r, _, err = rops.ApplyBinary(rops.Add, short, y)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b", "c"}, r.(rdata.Vector).Attributes().Names())
}

func TestBinaryTypeMismatch(t *testing.T) {
	_, _, err := rops.ApplyBinary(rops.Add, rdata.Strings("1"), rdata.Ints(1))
	assert.True(t, errors.Is(err, rdata.ErrTypeMismatch))
	_, _, err = rops.ApplyBinary(rops.Mod, rdata.Complexes(1), rdata.Ints(1))
	assert.True(t, errors.Is(err, rdata.ErrTypeMismatch))
	_, _, err = rops.ApplyBinary(rops.IntDiv, rdata.Ints(1), rdata.Complexes(1))
	assert.True(t, errors.Is(err, rdata.ErrTypeMismatch))
}

func TestLookupBinary(t *testing.T) {
	op, ok := rops.LookupBinary("%/%")
	assert.True(t, ok)
	assert.Same(t, rops.IntDiv, op)
	_, ok = rops.LookupBinary("&&")
	assert.False(t, ok)
	assert.Len(t, rops.BinaryOpNames(), len(rops.AllBinary))
}
