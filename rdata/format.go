// Copyright © 2024 The ELPS authors

package rdata

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatDouble formats x the way R prints a double element.
func FormatDouble(x float64) string {
	switch {
	case IsDoubleNA(x):
		return "NA"
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Inf"
	case math.IsInf(x, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(x, 'g', 15, 64)
}

// FormatComplex formats z as re+imi.
func FormatComplex(z complex128) string {
	if IsComplexNA(z) {
		return "NA"
	}
	im := imag(z)
	sign := "+"
	if im < 0 || math.Signbit(im) {
		sign = "-"
		im = -im
	}
	return FormatDouble(real(z)) + sign + FormatDouble(im) + "i"
}

// FormatElement returns the printed form of element i of v.  Character
// elements are returned without quotes.
func FormatElement(v Vector, i int) string {
	switch v := v.(type) {
	case IntReader:
		x := v.IntAt(i)
		if IsIntNA(x) {
			return "NA"
		}
		return strconv.FormatInt(int64(x), 10)
	case DoubleReader:
		return FormatDouble(v.DoubleAt(i))
	case LogicalReader:
		return v.LogicalAt(i).String()
	case ComplexReader:
		return FormatComplex(v.ComplexAt(i))
	case StringReader:
		return v.StringAt(i)
	case RawReader:
		return fmt.Sprintf("%02x", v.RawAt(i))
	case ListReader:
		return FormatValue(v.ElemAt(i))
	}
	return "?"
}

// FormatValue formats a vector or a bare element.
func FormatValue(x Value) string {
	switch x := x.(type) {
	case nil:
		return "NULL"
	case Vector:
		return x.String()
	case int32:
		if IsIntNA(x) {
			return "NA"
		}
		return strconv.FormatInt(int64(x), 10)
	case float64:
		return FormatDouble(x)
	case complex128:
		return FormatComplex(x)
	case Logical:
		return x.String()
	case string:
		return strconv.Quote(x)
	case byte:
		return fmt.Sprintf("%02x", x)
	default:
		return fmt.Sprint(x)
	}
}

// FormatVector returns the elements of v separated by spaces.  Character
// elements are quoted and list elements are bracketed.
func FormatVector(v Vector) string {
	n := v.Len()
	if n == 0 {
		return v.Type().String() + "(0)"
	}
	elems := make([]string, n)
	for i := range elems {
		s := FormatElement(v, i)
		switch v.Type() {
		case RCharacter:
			if !v.IsNA(i) {
				s = strconv.Quote(s)
			}
		case RList:
			s = "[" + s + "]"
		}
		elems[i] = s
	}
	return strings.Join(elems, " ")
}
