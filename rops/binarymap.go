// Copyright © 2024 The ELPS authors

package rops

import (
	"math"

	"github.com/luthersystems/rvm/rdata"
)

// ApplyBinary applies op to x and y using the default options.
func ApplyBinary(op *BinaryOp, x, y rdata.Vector) (rdata.Value, Path, error) {
	return Options{}.ApplyBinary(op, x, y)
}

// ApplyBinary applies op element-wise to x and y, recycling the shorter
// operand.  A result of length zero is produced when either operand is
// empty.  As with ApplyUnary the result may be a folded sequence, a bare
// element, or a concrete vector.
func (o Options) ApplyBinary(op *BinaryOp, x, y rdata.Vector) (rdata.Value, Path, error) {
	if _, _, err := op.Types(x.Type(), y.Type()); err != nil {
		return nil, PathNone, err
	}
	if !o.NoFold {
		if r, ok := TryFoldBinary(op, x, y); ok {
			return r, PathFold, nil
		}
	}
	if !o.NoScalar {
		if r, ok := TryScalarBinary(op, x, y); ok {
			return r, PathScalar, nil
		}
	}
	return o.MapBinary(op, x, y)
}

// TryFoldBinary applies op to a sequence and a length one operand by
// computing the start and stride of the result.  The fold is declined
// when the scalar is NA or the result would not be a valid sequence.
func TryFoldBinary(op *BinaryOp, x, y rdata.Vector) (rdata.Sequence, bool) {
	if op.foldSeq == nil {
		return nil, false
	}
	// Only integer arithmetic is exact: a folded double sequence would not
	// reproduce the elements of the materialized result bit for bit.
	arg, _, err := op.Types(x.Type(), y.Type())
	if err != nil || arg != rdata.RInteger {
		return nil, false
	}
	seq, c, seqLeft := splitSequence(x, y)
	if seq == nil || rdata.HasAttributes(c) || c.IsNA(0) {
		return nil, false
	}
	start, stride := sequenceShape(seq)
	start, stride, ok := op.foldSeq(start, stride, rdata.ElementAsDouble(c, 0), seqLeft)
	if !ok {
		return nil, false
	}
	n := seq.Len()
	if !fitsInt32(start) || !fitsInt32(stride) {
		return nil, false
	}
	if rdata.ValidIntSequence(int32(start), int32(stride), n) != nil {
		return nil, false
	}
	return rdata.NewIntSequence(int32(start), int32(stride), n), true
}

// splitSequence returns the sequence operand, the scalar operand, and
// whether the sequence is on the left.
func splitSequence(x, y rdata.Vector) (rdata.Sequence, rdata.Vector, bool) {
	if s, ok := x.(rdata.Sequence); ok && y.Len() == 1 {
		return s, y, true
	}
	if s, ok := y.(rdata.Sequence); ok && x.Len() == 1 {
		return s, x, false
	}
	return nil, nil, false
}

func sequenceShape(s rdata.Sequence) (start, stride float64) {
	switch s := s.(type) {
	case *rdata.IntSequence:
		return float64(s.Start()), float64(s.Stride())
	case *rdata.DoubleSequence:
		return s.Start(), s.Stride()
	}
	return math.NaN(), math.NaN()
}

func fitsInt32(x float64) bool {
	return x == math.Trunc(x) && x >= math.MinInt32 && x <= math.MaxInt32
}

// TryScalarBinary returns the bare result element for two length one
// operands without attributes.
func TryScalarBinary(op *BinaryOp, x, y rdata.Vector) (rdata.Value, bool) {
	if x.Len() != 1 || y.Len() != 1 {
		return nil, false
	}
	for _, v := range [...]rdata.Vector{x, y} {
		if v.Form() == rdata.FormSequence || rdata.HasAttributes(v) {
			return nil, false
		}
	}
	arg, _, err := op.Types(x.Type(), y.Type())
	if err != nil {
		return nil, false
	}
	a, err := rdata.Wrap(x, arg)
	if err != nil {
		return nil, false
	}
	b, err := rdata.Wrap(y, arg)
	if err != nil {
		return nil, false
	}
	switch arg {
	case rdata.RInteger:
		r, _ := op.ints(a.(rdata.IntReader).IntAt(0), b.(rdata.IntReader).IntAt(0))
		return r, true
	case rdata.RDouble:
		r, _ := op.doubles(a.(rdata.DoubleReader).DoubleAt(0), b.(rdata.DoubleReader).DoubleAt(0))
		return r, true
	case rdata.RComplex:
		r, _ := op.complexes(a.(rdata.ComplexReader).ComplexAt(0), b.(rdata.ComplexReader).ComplexAt(0))
		return r, true
	}
	return nil, false
}

// ints applies op to integer elements.  It reports false when the result
// is NA.
func (op *BinaryOp) ints(x, y int32) (int32, bool) {
	if rdata.IsIntNA(x) || rdata.IsIntNA(y) {
		return rdata.IntNA, false
	}
	return op.intFn(x, y)
}

func (op *BinaryOp) doubles(x, y float64) (float64, bool) {
	if rdata.IsDoubleNA(x) || rdata.IsDoubleNA(y) {
		if op.naExempt != nil {
			if r, ok := op.naExempt(x, y); ok {
				return r, true
			}
		}
		return rdata.DoubleNA, false
	}
	return op.doubleFn(x, y), true
}

func (op *BinaryOp) complexes(x, y complex128) (complex128, bool) {
	if rdata.IsComplexNA(x) || rdata.IsComplexNA(y) {
		return rdata.ComplexNA, false
	}
	return op.complexFn(x, y), true
}

// MapBinary applies op element-wise.  A temporary concrete operand of the
// result kind and length receives the result in place, the left operand
// taking preference.
func (o Options) MapBinary(op *BinaryOp, x, y rdata.Vector) (rdata.Concrete, Path, error) {
	arg, result, err := op.Types(x.Type(), y.Type())
	if err != nil {
		return nil, PathNone, err
	}
	a, err := rdata.Wrap(x, arg)
	if err != nil {
		return nil, PathNone, err
	}
	b, err := rdata.Wrap(y, arg)
	if err != nil {
		return nil, PathNone, err
	}
	na, nb := x.Len(), y.Len()
	n := 0
	if na > 0 && nb > 0 {
		n = na
		if nb > n {
			n = nb
		}
	}
	attrs := mergeAttributes(x, y)
	target, path := o.binaryTarget(x, y, result, n)

	complete := x.IsComplete() && y.IsComplete()
	switch arg {
	case rdata.RInteger:
		ra, rb := a.(rdata.IntReader), b.(rdata.IntReader)
		out := target.Store().([]int32)
		for i := 0; i < n; i++ {
			r, ok := op.ints(ra.IntAt(i%na), rb.IntAt(i%nb))
			out[i] = r
			complete = complete && ok
		}
	case rdata.RDouble:
		ra, rb := a.(rdata.DoubleReader), b.(rdata.DoubleReader)
		out := target.Store().([]float64)
		for i := 0; i < n; i++ {
			r, ok := op.doubles(ra.DoubleAt(i%na), rb.DoubleAt(i%nb))
			out[i] = r
			complete = complete && ok
		}
	case rdata.RComplex:
		ra, rb := a.(rdata.ComplexReader), b.(rdata.ComplexReader)
		out := target.Store().([]complex128)
		for i := 0; i < n; i++ {
			r, ok := op.complexes(ra.ComplexAt(i%na), rb.ComplexAt(i%nb))
			out[i] = r
			complete = complete && ok
		}
	default:
		return nil, PathNone, rdata.TypeMismatch(op.Name, "non-numeric argument to binary operator")
	}
	target.SetComplete(complete || n == 0)
	if attrs.Len() > 0 || rdata.HasAttributes(target) {
		target.SetAttributes(attrs)
	}
	return target, path, nil
}

func (o Options) binaryTarget(x, y rdata.Vector, result rdata.RType, n int) (rdata.Concrete, Path) {
	if !o.NoReuse {
		for _, v := range [...]rdata.Vector{x, y} {
			if v.Type() != result || v.Len() != n {
				continue
			}
			if c, ok := v.(rdata.Concrete); ok && c.IsTemporary() {
				return c, PathInPlace
			}
		}
	}
	return rdata.Create(result, n, true), PathVector
}

// mergeAttributes returns the attributes of the result of a binary
// operation.  Operands of equal length contribute all their attributes,
// with x taking precedence; otherwise only the longer operand's attributes
// are kept.
func mergeAttributes(x, y rdata.Vector) *rdata.Attributes {
	ax, ay := x.Attributes(), y.Attributes()
	switch {
	case x.Len() > y.Len():
		return ax.Copy()
	case y.Len() > x.Len():
		return ay.Copy()
	case ay.Len() == 0:
		return ax.Copy()
	}
	merged := ay.Copy()
	ax.Each(func(name string, v rdata.Value) bool {
		if sh, ok := v.(rdata.Shareable); ok {
			sh.IncRefCount()
		}
		merged.Put(name, v)
		return true
	})
	return merged
}
