// Copyright © 2024 The ELPS authors

package rops

import (
	"math"
	"math/cmplx"
	"sort"

	"github.com/luthersystems/rvm/rdata"
)

// UnaryOp describes a unary arithmetic operator: which element kinds it is
// defined on, the element functions applied per kind, and whether it can be
// applied to the shape of an arithmetic progression without expanding it.
type UnaryOp struct {
	Name string
	// minArg is the least kind an operand is widened to before the element
	// function is applied.  Logical operands always widen to integer.
	minArg rdata.RType
	// noComplex rejects complex operands.
	noComplex bool
	// complexToDouble is set when the complex element function yields a
	// double result.
	complexToDouble bool

	intFn     func(x int32) int32
	doubleFn  func(x float64) float64
	complexFn func(z complex128) complex128
	modulusFn func(z complex128) float64

	// fold applies the operator to a sequence in constant time.  Folding
	// must be exact: an operator whose result is not an arithmetic
	// progression of the same kind must not have a fold.
	fold func(s rdata.Sequence) (rdata.Vector, bool)
	// identity is set for operators that return numeric operands unchanged.
	identity bool
	// introducesNA is set for operators that may produce NA from a non-NA
	// element.
	introducesNA bool
}

// Types returns the kind the operand is read as and the kind of the
// result.  Operands the operator is not defined on produce a type-mismatch
// error.
func (op *UnaryOp) Types(operand rdata.RType) (arg, result rdata.RType, err error) {
	if !operand.IsNumeric() {
		return 0, 0, rdata.TypeMismatch(op.Name, "invalid argument to unary operator")
	}
	arg = rdata.MaxPrecedence(operand, op.minArg)
	if arg == rdata.RComplex {
		if op.noComplex {
			return 0, 0, rdata.TypeMismatch(op.Name, "invalid argument to unary operator")
		}
		if op.complexToDouble {
			return arg, rdata.RDouble, nil
		}
	}
	return arg, arg, nil
}

// Foldable reports whether the operator can be applied to a sequence
// without materializing it.
func (op *UnaryOp) Foldable() bool {
	return op.fold != nil
}

// IntroducesNA reports whether the operator may produce NA from non-NA
// input.
func (op *UnaryOp) IntroducesNA() bool {
	return op.introducesNA
}

func (op *UnaryOp) String() string {
	return op.Name
}

// Unary operators
var (
	Negate = &UnaryOp{
		Name:      "-",
		minArg:    rdata.RInteger,
		intFn:     func(x int32) int32 { return -x },
		doubleFn:  func(x float64) float64 { return -x },
		complexFn: func(z complex128) complex128 { return -z },
		fold:      foldNegate,
	}
	Plus = &UnaryOp{
		Name:      "+",
		minArg:    rdata.RInteger,
		intFn:     func(x int32) int32 { return x },
		doubleFn:  func(x float64) float64 { return x },
		complexFn: func(z complex128) complex128 { return z },
		fold:      func(s rdata.Sequence) (rdata.Vector, bool) { return s, true },
		identity:  true,
	}
	Round = &UnaryOp{
		Name:      "round",
		minArg:    rdata.RInteger,
		intFn:     func(x int32) int32 { return x },
		doubleFn:  math.RoundToEven,
		complexFn: func(z complex128) complex128 { return complex(math.RoundToEven(real(z)), math.RoundToEven(imag(z))) },
	}
	Floor = &UnaryOp{
		Name:      "floor",
		minArg:    rdata.RInteger,
		noComplex: true,
		intFn:     func(x int32) int32 { return x },
		doubleFn:  math.Floor,
	}
	Ceiling = &UnaryOp{
		Name:      "ceiling",
		minArg:    rdata.RInteger,
		noComplex: true,
		intFn:     func(x int32) int32 { return x },
		doubleFn:  math.Ceil,
	}
	Abs = &UnaryOp{
		Name:   "abs",
		minArg: rdata.RInteger,
		intFn: func(x int32) int32 {
			if x < 0 {
				return -x
			}
			return x
		},
		doubleFn:        math.Abs,
		complexToDouble: true,
		modulusFn:       cmplx.Abs,
	}
	Sqrt = &UnaryOp{
		Name:      "sqrt",
		minArg:    rdata.RDouble,
		doubleFn:  math.Sqrt,
		complexFn: cmplx.Sqrt,
	}
)

var unaryOps = map[string]*UnaryOp{
	"-":       Negate,
	"negate":  Negate,
	"+":       Plus,
	"plus":    Plus,
	"round":   Round,
	"floor":   Floor,
	"ceiling": Ceiling,
	"abs":     Abs,
	"sqrt":    Sqrt,
	"signif":  Signif(DefaultSignifDigits),
}

// LookupUnary returns the unary operator called name.
func LookupUnary(name string) (*UnaryOp, bool) {
	op, ok := unaryOps[name]
	return op, ok
}

// UnaryOpNames returns the names accepted by LookupUnary.
func UnaryOpNames() []string {
	names := make([]string, 0, len(unaryOps))
	for name := range unaryOps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllUnary lists every unary operator once.
var AllUnary = []*UnaryOp{Negate, Plus, Round, Floor, Ceiling, Abs, Sqrt}

func foldNegate(s rdata.Sequence) (rdata.Vector, bool) {
	switch s := s.(type) {
	case *rdata.IntSequence:
		// -MinInt32 is not representable.
		if s.Stride() == math.MinInt32 {
			return nil, false
		}
		if rdata.ValidIntSequence(-s.Start(), -s.Stride(), s.Len()) != nil {
			return nil, false
		}
		return rdata.NewIntSequence(-s.Start(), -s.Stride(), s.Len()), true
	case *rdata.DoubleSequence:
		return rdata.NewDoubleSequence(-s.Start(), -s.Stride(), s.Len()), true
	}
	return nil, false
}
