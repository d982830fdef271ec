// Copyright © 2024 The ELPS authors

package rdata

import (
	"math"
	"strconv"
	"strings"
)

// Closure is a read-only view presenting a source vector as another element
// kind.  Elements are coerced on every read.  A closure does not own its
// source; the source must not be modified while the closure is in use.
type Closure interface {
	Vector
	Source() Vector
}

// Wrap returns a view of src as kind to.  When src already has kind to it
// is returned unchanged.  Coercions that are undefined (for example
// character to complex, or anything involving lists) fail with a
// type-mismatch error.
func Wrap(src Vector, to RType) (Vector, error) {
	from := src.Type()
	if from == to {
		return src, nil
	}
	if from == RList || from == RNull {
		return nil, TypeMismatch("wrap", "cannot coerce %v to %v", from, to)
	}
	base := closureBase{src: src, total: coercionTotal(from, to)}
	switch to {
	case RInteger:
		return &intClosure{closureBase: base}, nil
	case RDouble:
		return &doubleClosure{closureBase: base}, nil
	case RLogical:
		return &logicalClosure{closureBase: base}, nil
	case RComplex:
		if from == RCharacter {
			break
		}
		return &complexClosure{closureBase: base}, nil
	case RCharacter:
		return &stringClosure{closureBase: base}, nil
	}
	return nil, TypeMismatch("wrap", "cannot coerce %v to %v", from, to)
}

// coercionTotal returns true if converting a non-NA element of kind from to
// kind to can never produce NA.
func coercionTotal(from, to RType) bool {
	switch {
	case from == RCharacter:
		return to == RCharacter
	case to == RCharacter:
		return true
	case from == RDouble && to == RInteger, from == RComplex && to == RInteger:
		return false
	case from == RDouble && to == RLogical, from == RComplex && to == RLogical:
		// NaN becomes NA.
		return false
	default:
		return from <= to || to == RLogical
	}
}

type closureBase struct {
	src   Vector
	total bool
}

func (c *closureBase) Len() int                { return c.src.Len() }
func (c *closureBase) Form() Form              { return FormClosure }
func (c *closureBase) Source() Vector          { return c.src }
func (c *closureBase) Attributes() *Attributes { return c.src.Attributes() }

// IsComplete is conservative: a coercion that can fail reports incomplete
// until the closure is materialized and checked.
func (c *closureBase) IsComplete() bool {
	return c.total && c.src.IsComplete()
}

type intClosure struct{ closureBase }

func (c *intClosure) Type() RType { return RInteger }

func (c *intClosure) IntAt(i int) int32 {
	return elementAsInt(c.src, i)
}

func (c *intClosure) IsNA(i int) bool { return IsIntNA(c.IntAt(i)) }

func (c *intClosure) Materialize() Concrete {
	n := c.Len()
	data := make([]int32, n)
	complete := true
	for i := range data {
		data[i] = c.IntAt(i)
		if IsIntNA(data[i]) {
			complete = false
		}
	}
	v := NewIntVector(data, complete)
	CopyAttributes(v, c.src)
	return v
}

func (c *intClosure) Copy() Concrete { return c.Materialize() }
func (c *intClosure) String() string { return FormatVector(c) }

type doubleClosure struct{ closureBase }

func (c *doubleClosure) Type() RType { return RDouble }

func (c *doubleClosure) DoubleAt(i int) float64 {
	return elementAsDouble(c.src, i)
}

func (c *doubleClosure) IsNA(i int) bool { return IsDoubleNA(c.DoubleAt(i)) }

func (c *doubleClosure) Materialize() Concrete {
	n := c.Len()
	data := make([]float64, n)
	complete := true
	for i := range data {
		data[i] = c.DoubleAt(i)
		if IsDoubleNA(data[i]) {
			complete = false
		}
	}
	v := NewDoubleVector(data, complete)
	CopyAttributes(v, c.src)
	return v
}

func (c *doubleClosure) Copy() Concrete { return c.Materialize() }
func (c *doubleClosure) String() string { return FormatVector(c) }

type logicalClosure struct{ closureBase }

func (c *logicalClosure) Type() RType { return RLogical }

func (c *logicalClosure) LogicalAt(i int) Logical {
	return elementAsLogical(c.src, i)
}

func (c *logicalClosure) IsNA(i int) bool { return IsLogicalNA(c.LogicalAt(i)) }

func (c *logicalClosure) Materialize() Concrete {
	n := c.Len()
	data := make([]Logical, n)
	complete := true
	for i := range data {
		data[i] = c.LogicalAt(i)
		if IsLogicalNA(data[i]) {
			complete = false
		}
	}
	v := NewLogicalVector(data, complete)
	CopyAttributes(v, c.src)
	return v
}

func (c *logicalClosure) Copy() Concrete { return c.Materialize() }
func (c *logicalClosure) String() string { return FormatVector(c) }

type complexClosure struct{ closureBase }

func (c *complexClosure) Type() RType { return RComplex }

func (c *complexClosure) ComplexAt(i int) complex128 {
	return elementAsComplex(c.src, i)
}

func (c *complexClosure) IsNA(i int) bool { return IsComplexNA(c.ComplexAt(i)) }

func (c *complexClosure) Materialize() Concrete {
	n := c.Len()
	data := make([]complex128, n)
	complete := true
	for i := range data {
		data[i] = c.ComplexAt(i)
		if IsComplexNA(data[i]) {
			complete = false
		}
	}
	v := NewComplexVector(data, complete)
	CopyAttributes(v, c.src)
	return v
}

func (c *complexClosure) Copy() Concrete { return c.Materialize() }
func (c *complexClosure) String() string { return FormatVector(c) }

type stringClosure struct{ closureBase }

func (c *stringClosure) Type() RType { return RCharacter }

func (c *stringClosure) StringAt(i int) string {
	return FormatElement(c.src, i)
}

func (c *stringClosure) IsNA(i int) bool { return c.src.IsNA(i) }

func (c *stringClosure) Materialize() Concrete {
	n := c.Len()
	data := make([]string, n)
	var na []int
	for i := range data {
		if c.src.IsNA(i) {
			na = append(na, i)
			continue
		}
		data[i] = c.StringAt(i)
	}
	v := NewStringVector(data, na...)
	CopyAttributes(v, c.src)
	return v
}

func (c *stringClosure) Copy() Concrete { return c.Materialize() }
func (c *stringClosure) String() string { return FormatVector(c) }

// elementAsInt reads element i of v as an integer.  v must not be a list.
func elementAsInt(v Vector, i int) int32 {
	switch v := v.(type) {
	case IntReader:
		return v.IntAt(i)
	case LogicalReader:
		x := v.LogicalAt(i)
		if IsLogicalNA(x) {
			return IntNA
		}
		return int32(x)
	case DoubleReader:
		return doubleToInt(v.DoubleAt(i))
	case ComplexReader:
		z := v.ComplexAt(i)
		if IsComplexNA(z) {
			return IntNA
		}
		return doubleToInt(real(z))
	case RawReader:
		return int32(v.RawAt(i))
	case StringReader:
		if v.IsNA(i) {
			return IntNA
		}
		return doubleToInt(parseDouble(v.StringAt(i)))
	}
	fatalf("elementAsInt", "no integer coercion from %v", v.Type())
	return IntNA
}

func doubleToInt(x float64) int32 {
	if math.IsNaN(x) || x >= math.MaxInt32+1.0 || x <= math.MinInt32 {
		return IntNA
	}
	return int32(x)
}

// elementAsDouble reads element i of v as a double.  v must not be a list.
func elementAsDouble(v Vector, i int) float64 {
	switch v := v.(type) {
	case DoubleReader:
		return v.DoubleAt(i)
	case IntReader:
		x := v.IntAt(i)
		if IsIntNA(x) {
			return DoubleNA
		}
		return float64(x)
	case LogicalReader:
		x := v.LogicalAt(i)
		if IsLogicalNA(x) {
			return DoubleNA
		}
		return float64(x)
	case ComplexReader:
		z := v.ComplexAt(i)
		if IsComplexNA(z) {
			return DoubleNA
		}
		return real(z)
	case RawReader:
		return float64(v.RawAt(i))
	case StringReader:
		if v.IsNA(i) {
			return DoubleNA
		}
		return parseDouble(v.StringAt(i))
	}
	fatalf("elementAsDouble", "no double coercion from %v", v.Type())
	return DoubleNA
}

// elementAsLogical reads element i of v as a logical.
func elementAsLogical(v Vector, i int) Logical {
	switch v := v.(type) {
	case LogicalReader:
		return v.LogicalAt(i)
	case IntReader:
		x := v.IntAt(i)
		if IsIntNA(x) {
			return LogicalNA
		}
		return AsLogical(x != 0)
	case DoubleReader:
		x := v.DoubleAt(i)
		if math.IsNaN(x) {
			return LogicalNA
		}
		return AsLogical(x != 0)
	case ComplexReader:
		z := v.ComplexAt(i)
		if math.IsNaN(real(z)) || math.IsNaN(imag(z)) {
			return LogicalNA
		}
		return AsLogical(z != 0)
	case RawReader:
		return AsLogical(v.RawAt(i) != 0)
	case StringReader:
		if v.IsNA(i) {
			return LogicalNA
		}
		return parseLogical(v.StringAt(i))
	}
	fatalf("elementAsLogical", "no logical coercion from %v", v.Type())
	return LogicalNA
}

// elementAsComplex reads element i of v as a complex number.
func elementAsComplex(v Vector, i int) complex128 {
	switch v := v.(type) {
	case ComplexReader:
		return v.ComplexAt(i)
	case StringReader:
		break
	default:
		if v.IsNA(i) {
			return ComplexNA
		}
		return complex(elementAsDouble(v, i), 0)
	}
	fatalf("elementAsComplex", "no complex coercion from %v", v.Type())
	return ComplexNA
}

// ElementAsDouble reads element i of any atomic vector as a double.
func ElementAsDouble(v Vector, i int) float64 { return elementAsDouble(v, i) }

// ElementAsInt reads element i of any atomic vector as an integer.
func ElementAsInt(v Vector, i int) int32 { return elementAsInt(v, i) }

func parseDouble(s string) float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "NA":
		return DoubleNA
	case "Inf", "inf":
		return math.Inf(1)
	case "-Inf", "-inf":
		return math.Inf(-1)
	case "NaN":
		return math.NaN()
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if n, err := strconv.ParseInt(s, 0, 64); err == nil {
			return float64(n)
		}
		return DoubleNA
	}
	return x
}

func parseLogical(s string) Logical {
	switch s {
	case "TRUE", "true", "True", "T":
		return True
	case "FALSE", "false", "False", "F":
		return False
	default:
		return LogicalNA
	}
}
