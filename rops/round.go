// Copyright © 2024 The ELPS authors

package rops

import (
	"math"
	"strconv"

	"github.com/luthersystems/rvm/rdata"
)

// DefaultSignifDigits is the precision of the signif operator found by
// LookupUnary.
const DefaultSignifDigits = 6

// RoundDigits returns an operator rounding to digits decimal places.
// Negative digits round to a multiple of a power of ten and produce
// doubles.  RoundDigits(0) is Round.  Ties are resolved on the exact binary
// value of an element, so 0.15 rounds to 0.1 at one digit.
func RoundDigits(digits int) *UnaryOp {
	if digits == 0 {
		return Round
	}
	op := &UnaryOp{
		Name:     "round",
		minArg:   rdata.RInteger,
		intFn:    func(x int32) int32 { return x },
		doubleFn: func(x float64) float64 { return roundDigits(x, digits) },
		complexFn: func(z complex128) complex128 {
			return complex(roundDigits(real(z), digits), roundDigits(imag(z), digits))
		},
	}
	if digits < 0 {
		op.minArg = rdata.RDouble
	}
	return op
}

// Signif returns an operator rounding to digits significant digits.
// Digits less than one are treated as one.  The result is always double
// or complex.
func Signif(digits int) *UnaryOp {
	if digits < 1 {
		digits = 1
	}
	return &UnaryOp{
		Name:     "signif",
		minArg:   rdata.RDouble,
		doubleFn: func(x float64) float64 { return signifDigits(x, digits) },
		complexFn: func(z complex128) complex128 {
			return complex(signifDigits(real(z), digits), signifDigits(imag(z), digits))
		},
	}
}

// maxDecimalDigits is beyond the precision of any finite double.
const maxDecimalDigits = 340

func roundDigits(x float64, digits int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) || digits >= maxDecimalDigits {
		return x
	}
	if digits >= 0 {
		return parseRounded(strconv.FormatFloat(x, 'f', digits, 64), x)
	}
	if -digits >= maxDecimalDigits {
		return math.Copysign(0, x)
	}
	p := math.Pow(10, float64(-digits))
	return math.RoundToEven(x/p) * p
}

func signifDigits(x float64, digits int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) || x == 0 || digits >= 17 {
		return x
	}
	return parseRounded(strconv.FormatFloat(x, 'g', digits, 64), x)
}

func parseRounded(s string, x float64) float64 {
	r, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return x
	}
	return r
}
