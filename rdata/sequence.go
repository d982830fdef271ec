// Copyright © 2024 The ELPS authors

package rdata

import (
	"fmt"
	"math"
)

// Sequence is an arithmetic progression stored as start, stride and length.
// Element i is start + i*stride.  Sequences are immutable, have no
// attributes, and are always complete.
type Sequence interface {
	Vector
	StartValue() Value
	StrideValue() Value
}

// IntSequence is an integer arithmetic progression.
type IntSequence struct {
	start  int32
	stride int32
	n      int
}

var _ Sequence = (*IntSequence)(nil)
var _ IntReader = (*IntSequence)(nil)

// ValidIntSequence returns an error unless every element of the progression
// is a representable, non-NA integer and n is positive.
func ValidIntSequence(start, stride int32, n int) error {
	if n < 1 {
		return fmt.Errorf("sequence length must be positive: %d", n)
	}
	end := int64(start) + int64(n-1)*int64(stride)
	for _, x := range [...]int64{int64(start), end} {
		if x <= math.MinInt32 || x > math.MaxInt32 {
			return fmt.Errorf("sequence element out of integer range: %d", x)
		}
	}
	return nil
}

// NewIntSequence returns the progression start, start+stride, ... of
// length n.  It is a fatal internal error to describe an invalid sequence;
// see ValidIntSequence.
func NewIntSequence(start, stride int32, n int) *IntSequence {
	if err := ValidIntSequence(start, stride, n); err != nil {
		fatalf("createIntSequence", "%v", err)
	}
	return &IntSequence{start: start, stride: stride, n: n}
}

func (s *IntSequence) Type() RType             { return RInteger }
func (s *IntSequence) Len() int                { return s.n }
func (s *IntSequence) Form() Form              { return FormSequence }
func (s *IntSequence) IsComplete() bool        { return true }
func (s *IntSequence) Attributes() *Attributes { return nil }
func (s *IntSequence) Start() int32            { return s.start }
func (s *IntSequence) Stride() int32           { return s.stride }
func (s *IntSequence) StartValue() Value       { return s.start }
func (s *IntSequence) StrideValue() Value      { return s.stride }

// End returns the last element.
func (s *IntSequence) End() int32 {
	return s.start + int32(s.n-1)*s.stride
}

func (s *IntSequence) IsNA(i int) bool {
	checkIndex(i, s.n)
	return false
}

func (s *IntSequence) IntAt(i int) int32 {
	checkIndex(i, s.n)
	return s.start + int32(i)*s.stride
}

// RemoveFirst returns the sequence without its first element.  The
// receiver must have at least two elements.
func (s *IntSequence) RemoveFirst() *IntSequence {
	return NewIntSequence(s.start+s.stride, s.stride, s.n-1)
}

// RemoveLast returns the sequence without its last element.  The receiver
// must have at least two elements.
func (s *IntSequence) RemoveLast() *IntSequence {
	return NewIntSequence(s.start, s.stride, s.n-1)
}

// Materialize expands the progression into a new temporary vector.
func (s *IntSequence) Materialize() Concrete {
	data := make([]int32, s.n)
	cur := s.start
	for i := range data {
		data[i] = cur
		cur += s.stride
	}
	return NewIntVector(data, true)
}

func (s *IntSequence) Copy() Concrete { return s.Materialize() }

func (s *IntSequence) String() string {
	if s.stride == 1 {
		return fmt.Sprintf("%d:%d", s.start, s.End())
	}
	return FormatVector(s)
}

// DoubleSequence is a double arithmetic progression.
type DoubleSequence struct {
	start  float64
	stride float64
	n      int
}

var _ Sequence = (*DoubleSequence)(nil)
var _ DoubleReader = (*DoubleSequence)(nil)

// ValidDoubleSequence returns an error unless the progression has positive
// length and finite, non-NA parameters.
func ValidDoubleSequence(start, stride float64, n int) error {
	if n < 1 {
		return fmt.Errorf("sequence length must be positive: %d", n)
	}
	if math.IsNaN(start) || math.IsNaN(stride) || math.IsInf(start, 0) || math.IsInf(stride, 0) {
		return fmt.Errorf("sequence parameters must be finite: %v, %v", start, stride)
	}
	return nil
}

// NewDoubleSequence returns the progression start, start+stride, ... of
// length n.  It is a fatal internal error to describe an invalid sequence.
func NewDoubleSequence(start, stride float64, n int) *DoubleSequence {
	if err := ValidDoubleSequence(start, stride, n); err != nil {
		fatalf("createDoubleSequence", "%v", err)
	}
	return &DoubleSequence{start: start, stride: stride, n: n}
}

func (s *DoubleSequence) Type() RType             { return RDouble }
func (s *DoubleSequence) Len() int                { return s.n }
func (s *DoubleSequence) Form() Form              { return FormSequence }
func (s *DoubleSequence) IsComplete() bool        { return true }
func (s *DoubleSequence) Attributes() *Attributes { return nil }
func (s *DoubleSequence) Start() float64          { return s.start }
func (s *DoubleSequence) Stride() float64         { return s.stride }
func (s *DoubleSequence) StartValue() Value       { return s.start }
func (s *DoubleSequence) StrideValue() Value      { return s.stride }

// End returns the last element.
func (s *DoubleSequence) End() float64 {
	return s.start + float64(s.n-1)*s.stride
}

func (s *DoubleSequence) IsNA(i int) bool {
	checkIndex(i, s.n)
	return false
}

func (s *DoubleSequence) DoubleAt(i int) float64 {
	checkIndex(i, s.n)
	return s.start + float64(i)*s.stride
}

// RemoveFirst returns the sequence without its first element.
func (s *DoubleSequence) RemoveFirst() *DoubleSequence {
	return NewDoubleSequence(s.start+s.stride, s.stride, s.n-1)
}

// RemoveLast returns the sequence without its last element.
func (s *DoubleSequence) RemoveLast() *DoubleSequence {
	return NewDoubleSequence(s.start, s.stride, s.n-1)
}

// Materialize expands the progression into a new temporary vector.
// Elements are computed as start + i*stride so that they agree exactly
// with DoubleAt.
func (s *DoubleSequence) Materialize() Concrete {
	data := make([]float64, s.n)
	for i := range data {
		data[i] = s.start + float64(i)*s.stride
	}
	return NewDoubleVector(data, true)
}

func (s *DoubleSequence) Copy() Concrete { return s.Materialize() }

func (s *DoubleSequence) String() string { return FormatVector(s) }

// IsSequence returns true if v is stored as an arithmetic progression.
func IsSequence(v Vector) bool {
	return v.Form() == FormSequence
}
