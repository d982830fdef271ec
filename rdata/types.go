// Copyright © 2024 The ELPS authors

package rdata

import "math"

// RType is the element kind of a vector.  The numeric order of the
// constants is the coercion precedence used when two kinds meet in an
// operation: a value of lower precedence can always be widened into one of
// higher precedence.
type RType uint8

// Possible RType values
const (
	// RNull (0) is the kind of the empty value and of nothing else.
	RNull RType = iota
	RRaw
	RLogical
	RInteger
	RDouble
	RComplex
	RCharacter
	RList
	// RTypeMax is not a real type but represents a value numerically greater
	// than all valid RType values.
	RTypeMax
)

var rtypeStrings = []string{
	RNull:      "NULL",
	RRaw:       "raw",
	RLogical:   "logical",
	RInteger:   "integer",
	RDouble:    "double",
	RComplex:   "complex",
	RCharacter: "character",
	RList:      "list",
}

func (t RType) String() string {
	if t >= RType(len(rtypeStrings)) {
		return "invalid"
	}
	return rtypeStrings[t]
}

// IsNumeric returns true for the kinds arithmetic is defined on.  Logical
// values take part in arithmetic after widening to integer.
func (t RType) IsNumeric() bool {
	switch t {
	case RLogical, RInteger, RDouble, RComplex:
		return true
	default:
		return false
	}
}

// ParseRType returns the RType named by s.  The R mode "numeric" is
// accepted as an alias for double.
func ParseRType(s string) (RType, bool) {
	if s == "numeric" {
		return RDouble, true
	}
	for i, name := range rtypeStrings {
		if name == s {
			return RType(i), true
		}
	}
	return RNull, false
}

// MaxPrecedence returns the kind both a and b coerce to.
func MaxPrecedence(a, b RType) RType {
	if a > b {
		return a
	}
	return b
}

// Logical is an R logical value: TRUE, FALSE or NA.
type Logical int8

// Logical constants
const (
	False     Logical = 0
	True      Logical = 1
	LogicalNA Logical = -1
)

func (l Logical) String() string {
	switch l {
	case True:
		return "TRUE"
	case False:
		return "FALSE"
	default:
		return "NA"
	}
}

// AsLogical converts a Go bool.
func AsLogical(b bool) Logical {
	if b {
		return True
	}
	return False
}

// naLowWord is the payload of the NaN used to represent a missing double.
const naLowWord = 1954

// NA values for each element kind.  Raw vectors and lists have no NA.
var (
	IntNA     int32   = math.MinInt32
	DoubleNA  float64 = math.Float64frombits(0x7ff0000000000000 | naLowWord)
	ComplexNA         = complex(DoubleNA, 0)
)

// IsIntNA reports whether x is the integer NA.
func IsIntNA(x int32) bool {
	return x == IntNA
}

// IsDoubleNA reports whether x is the double NA.  An ordinary NaN is not
// NA, although R's is.na is true for both.
func IsDoubleNA(x float64) bool {
	return math.IsNaN(x) && uint32(math.Float64bits(x)) == naLowWord
}

// IsNAorNaN is R's is.na for doubles.
func IsNAorNaN(x float64) bool {
	return math.IsNaN(x)
}

// IsComplexNA reports whether either part of z is NA.
func IsComplexNA(z complex128) bool {
	return IsDoubleNA(real(z)) || IsDoubleNA(imag(z))
}

// IsLogicalNA reports whether l is NA.
func IsLogicalNA(l Logical) bool {
	return l != True && l != False
}
