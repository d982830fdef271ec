// Copyright © 2024 The ELPS authors

package rops

import (
	"github.com/luthersystems/rvm/rdata"
)

// Options disables engine fast paths.  The zero value enables all of them.
// Disabling a path never changes a result's elements, only its
// representation.
type Options struct {
	NoFold   bool
	NoScalar bool
	NoReuse  bool
}

// ApplyUnary applies op to v using the default options.
func ApplyUnary(op *UnaryOp, v rdata.Vector) (rdata.Value, Path, error) {
	return Options{}.ApplyUnary(op, v)
}

// ApplyUnary applies op to v.  The result is a sequence when v is a
// sequence and op folds, a bare element when v has length one and carries
// no attributes, and a concrete vector otherwise.  The returned Path
// reports which of these happened.
func (o Options) ApplyUnary(op *UnaryOp, v rdata.Vector) (rdata.Value, Path, error) {
	if _, _, err := op.Types(v.Type()); err != nil {
		return nil, PathNone, err
	}
	if !o.NoFold {
		if r, path, ok := TryFoldUnary(op, v); ok {
			return r, path, nil
		}
	}
	if !o.NoScalar {
		if r, ok := TryScalarUnary(op, v); ok {
			return r, PathScalar, nil
		}
	}
	return o.MapUnary(op, v)
}

// TryFoldUnary applies op without touching v's elements.  Sequences fold
// when op has an exact fold.  Identity operators return a temporary
// operand of the right kind unchanged.
func TryFoldUnary(op *UnaryOp, v rdata.Vector) (rdata.Vector, Path, bool) {
	arg, _, err := op.Types(v.Type())
	if err != nil {
		return nil, PathNone, false
	}
	if s, ok := v.(rdata.Sequence); ok && op.fold != nil {
		r, ok := op.fold(s)
		if ok {
			return r, PathFold, true
		}
		return nil, PathNone, false
	}
	if op.identity && v.Type() == arg {
		if c, ok := v.(rdata.Concrete); ok && c.IsTemporary() {
			return c, PathIdentity, true
		}
	}
	return nil, PathNone, false
}

// TryScalarUnary applies op to a length one operand and returns the bare
// result element.  Operands with attributes need a vector result and are
// rejected, as are sequences.
func TryScalarUnary(op *UnaryOp, v rdata.Vector) (rdata.Value, bool) {
	if v.Len() != 1 || v.Form() == rdata.FormSequence || rdata.HasAttributes(v) {
		return nil, false
	}
	arg, result, err := op.Types(v.Type())
	if err != nil {
		return nil, false
	}
	src, err := rdata.Wrap(v, arg)
	if err != nil {
		return nil, false
	}
	switch arg {
	case rdata.RInteger:
		x := src.(rdata.IntReader).IntAt(0)
		if rdata.IsIntNA(x) {
			return rdata.IntNA, true
		}
		return op.intFn(x), true
	case rdata.RDouble:
		x := src.(rdata.DoubleReader).DoubleAt(0)
		if rdata.IsDoubleNA(x) {
			return rdata.DoubleNA, true
		}
		return op.doubleFn(x), true
	case rdata.RComplex:
		z := src.(rdata.ComplexReader).ComplexAt(0)
		if result == rdata.RDouble {
			if rdata.IsComplexNA(z) {
				return rdata.DoubleNA, true
			}
			return op.modulusFn(z), true
		}
		if rdata.IsComplexNA(z) {
			return rdata.ComplexNA, true
		}
		return op.complexFn(z), true
	}
	return nil, false
}

// MapUnary applies op element-wise.  A temporary concrete operand whose
// kind equals the result kind is overwritten and returned; otherwise a new
// vector is allocated.  NA elements map to NA.
func (o Options) MapUnary(op *UnaryOp, v rdata.Vector) (rdata.Concrete, Path, error) {
	arg, result, err := op.Types(v.Type())
	if err != nil {
		return nil, PathNone, err
	}
	src, err := rdata.Wrap(v, arg)
	if err != nil {
		return nil, PathNone, err
	}
	n := v.Len()
	target, path := o.createOrShare(v, result, n)

	seenNA := false
	switch arg {
	case rdata.RInteger:
		in := src.(rdata.IntReader)
		out := target.Store().([]int32)
		for i := 0; i < n; i++ {
			x := in.IntAt(i)
			if rdata.IsIntNA(x) {
				out[i] = rdata.IntNA
				continue
			}
			out[i] = op.intFn(x)
			seenNA = seenNA || rdata.IsIntNA(out[i])
		}
	case rdata.RDouble:
		in := src.(rdata.DoubleReader)
		out := target.Store().([]float64)
		for i := 0; i < n; i++ {
			x := in.DoubleAt(i)
			if rdata.IsDoubleNA(x) {
				out[i] = rdata.DoubleNA
				continue
			}
			out[i] = op.doubleFn(x)
			seenNA = seenNA || rdata.IsDoubleNA(out[i])
		}
	case rdata.RComplex:
		in := src.(rdata.ComplexReader)
		if result == rdata.RDouble {
			out := target.Store().([]float64)
			for i := 0; i < n; i++ {
				z := in.ComplexAt(i)
				if rdata.IsComplexNA(z) {
					out[i] = rdata.DoubleNA
					continue
				}
				out[i] = op.modulusFn(z)
			}
			break
		}
		out := target.Store().([]complex128)
		for i := 0; i < n; i++ {
			z := in.ComplexAt(i)
			if rdata.IsComplexNA(z) {
				out[i] = rdata.ComplexNA
				continue
			}
			out[i] = op.complexFn(z)
			seenNA = seenNA || rdata.IsComplexNA(out[i])
		}
	default:
		return nil, PathNone, rdata.TypeMismatch(op.Name, "invalid argument to unary operator")
	}

	complete := n == 0 || v.IsComplete()
	if op.introducesNA && seenNA {
		complete = false
	}
	target.SetComplete(complete)
	copyAttributes(target, v)
	return target, path, nil
}

// createOrShare returns the vector the result is written to.
func (o Options) createOrShare(v rdata.Vector, result rdata.RType, n int) (rdata.Concrete, Path) {
	if !o.NoReuse && v.Type() == result {
		if c, ok := v.(rdata.Concrete); ok && c.IsTemporary() {
			return c, PathInPlace
		}
	}
	return rdata.Create(result, n, true), PathVector
}

// copyAttributes gives target an independent copy of the attributes of v.
// When target is v itself the map is replaced by a copy as well, so that no
// other vector can hold the map target ends up with.
func copyAttributes(target rdata.Concrete, v rdata.Vector) {
	attrs := v.Attributes()
	if attrs.Len() == 0 {
		return
	}
	target.SetAttributes(attrs.Copy())
}
