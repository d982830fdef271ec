// Copyright © 2024 The ELPS authors

package rops

import (
	"math"
	"math/cmplx"
	"sort"

	"github.com/luthersystems/rvm/rdata"
)

// BinaryOp describes a binary arithmetic operator.
type BinaryOp struct {
	Name string
	// minArg is the least kind both operands are widened to.
	minArg    rdata.RType
	noComplex bool

	// intFn reports ok=false when the result is NA (overflow or a zero
	// divisor).
	intFn     func(x, y int32) (int32, bool)
	doubleFn  func(x, y float64) float64
	complexFn func(x, y complex128) complex128

	// naExempt returns true, with the result, for element pairs whose
	// result is defined even though one of them is NA (1^NA is 1).
	naExempt func(x, y float64) (float64, bool)

	// foldSeq applies the operator to a sequence and a scalar read as
	// integers.  seqLeft is true when the sequence is the left operand.
	foldSeq func(start, stride, c float64, seqLeft bool) (float64, float64, bool)
}

// Types returns the kind both operands are read as and the result kind.
func (op *BinaryOp) Types(x, y rdata.RType) (arg, result rdata.RType, err error) {
	if !x.IsNumeric() || !y.IsNumeric() {
		return 0, 0, rdata.TypeMismatch(op.Name, "non-numeric argument to binary operator")
	}
	arg = rdata.MaxPrecedence(rdata.MaxPrecedence(x, y), op.minArg)
	if arg == rdata.RComplex && op.noComplex {
		return 0, 0, rdata.TypeMismatch(op.Name, "invalid operation on complex numbers")
	}
	return arg, arg, nil
}

// Foldable reports whether the operator can be applied to a sequence and
// a scalar without materializing the sequence.
func (op *BinaryOp) Foldable() bool {
	return op.foldSeq != nil
}

func (op *BinaryOp) String() string {
	return op.Name
}

func intResult(r int64) (int32, bool) {
	if r > math.MaxInt32 || r <= math.MinInt32 {
		return rdata.IntNA, false
	}
	return int32(r), true
}

// Binary operators
var (
	Add = &BinaryOp{
		Name:      "+",
		minArg:    rdata.RInteger,
		intFn:     func(x, y int32) (int32, bool) { return intResult(int64(x) + int64(y)) },
		doubleFn:  func(x, y float64) float64 { return x + y },
		complexFn: func(x, y complex128) complex128 { return x + y },
		foldSeq: func(start, stride, c float64, _ bool) (float64, float64, bool) {
			return start + c, stride, true
		},
	}
	Subtract = &BinaryOp{
		Name:      "-",
		minArg:    rdata.RInteger,
		intFn:     func(x, y int32) (int32, bool) { return intResult(int64(x) - int64(y)) },
		doubleFn:  func(x, y float64) float64 { return x - y },
		complexFn: func(x, y complex128) complex128 { return x - y },
		foldSeq: func(start, stride, c float64, seqLeft bool) (float64, float64, bool) {
			if seqLeft {
				return start - c, stride, true
			}
			return c - start, -stride, true
		},
	}
	Multiply = &BinaryOp{
		Name:      "*",
		minArg:    rdata.RInteger,
		intFn:     func(x, y int32) (int32, bool) { return intResult(int64(x) * int64(y)) },
		doubleFn:  func(x, y float64) float64 { return x * y },
		complexFn: func(x, y complex128) complex128 { return x * y },
		foldSeq: func(start, stride, c float64, _ bool) (float64, float64, bool) {
			return start * c, stride * c, true
		},
	}
	Divide = &BinaryOp{
		Name:      "/",
		minArg:    rdata.RDouble,
		doubleFn:  func(x, y float64) float64 { return x / y },
		complexFn: func(x, y complex128) complex128 { return x / y },
	}
	Pow = &BinaryOp{
		Name:      "^",
		minArg:    rdata.RDouble,
		doubleFn:  math.Pow,
		complexFn: cmplx.Pow,
		naExempt: func(x, y float64) (float64, bool) {
			if x == 1 || y == 0 {
				return 1, true
			}
			return 0, false
		},
	}
	Mod = &BinaryOp{
		Name:      "%%",
		minArg:    rdata.RInteger,
		noComplex: true,
		intFn: func(x, y int32) (int32, bool) {
			if y == 0 {
				return rdata.IntNA, false
			}
			r := x % y
			if r != 0 && (r < 0) != (y < 0) {
				r += y
			}
			return r, true
		},
		doubleFn: func(x, y float64) float64 {
			if y == 0 {
				return math.NaN()
			}
			return x - math.Floor(x/y)*y
		},
	}
	IntDiv = &BinaryOp{
		Name:      "%/%",
		minArg:    rdata.RInteger,
		noComplex: true,
		intFn: func(x, y int32) (int32, bool) {
			if y == 0 {
				return rdata.IntNA, false
			}
			return intResult(int64(math.Floor(float64(x) / float64(y))))
		},
		doubleFn: func(x, y float64) float64 { return math.Floor(x / y) },
	}
)

var binaryOps = map[string]*BinaryOp{
	"+":   Add,
	"-":   Subtract,
	"*":   Multiply,
	"/":   Divide,
	"^":   Pow,
	"%%":  Mod,
	"%/%": IntDiv,
}

// LookupBinary returns the binary operator called name.
func LookupBinary(name string) (*BinaryOp, bool) {
	op, ok := binaryOps[name]
	return op, ok
}

// BinaryOpNames returns the names accepted by LookupBinary.
func BinaryOpNames() []string {
	names := make([]string, 0, len(binaryOps))
	for name := range binaryOps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllBinary lists every binary operator.
var AllBinary = []*BinaryOp{Add, Subtract, Multiply, Divide, Pow, Mod, IntDiv}
