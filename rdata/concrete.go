// Copyright © 2024 The ELPS authors

package rdata

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// IntVector is a concrete integer vector.
type IntVector struct {
	vectorBase
	data []int32
}

var _ IntReader = (*IntVector)(nil)
var _ Concrete = (*IntVector)(nil)

// NewIntVector returns a temporary vector that takes ownership of data.
// The caller is responsible for complete being conservatively correct.
func NewIntVector(data []int32, complete bool) *IntVector {
	return &IntVector{vectorBase: vectorBase{complete: complete}, data: data}
}

// Ints returns a temporary vector holding xs.  Completeness is computed.
func Ints(xs ...int32) *IntVector {
	complete := true
	for _, x := range xs {
		if IsIntNA(x) {
			complete = false
			break
		}
	}
	return NewIntVector(xs, complete)
}

func (v *IntVector) Type() RType { return RInteger }
func (v *IntVector) Len() int    { return len(v.data) }

func (v *IntVector) IsNA(i int) bool {
	return IsIntNA(v.IntAt(i))
}

func (v *IntVector) IntAt(i int) int32 {
	checkIndex(i, len(v.data))
	return v.data[i]
}

// SetIntAt stores x at index i.  Storing NA clears the complete flag.
func (v *IntVector) SetIntAt(i int, x int32) {
	v.checkWritable("setElementAt")
	checkIndex(i, len(v.data))
	v.data[i] = x
	if IsIntNA(x) {
		v.complete = false
	}
}

func (v *IntVector) Materialize() Concrete { return v }

func (v *IntVector) Copy() Concrete {
	return &IntVector{vectorBase: v.copyBase(), data: append([]int32(nil), v.data...)}
}

func (v *IntVector) Own() Concrete {
	if v.IsTemporary() {
		return v
	}
	return v.Copy()
}

func (v *IntVector) Store() interface{} { return v.data }
func (v *IntVector) String() string     { return FormatVector(v) }

// DoubleVector is a concrete double vector.
type DoubleVector struct {
	vectorBase
	data []float64
}

var _ DoubleReader = (*DoubleVector)(nil)
var _ Concrete = (*DoubleVector)(nil)

// NewDoubleVector returns a temporary vector that takes ownership of data.
func NewDoubleVector(data []float64, complete bool) *DoubleVector {
	return &DoubleVector{vectorBase: vectorBase{complete: complete}, data: data}
}

// Doubles returns a temporary vector holding xs.  Completeness is computed.
func Doubles(xs ...float64) *DoubleVector {
	complete := true
	for _, x := range xs {
		if IsDoubleNA(x) {
			complete = false
			break
		}
	}
	return NewDoubleVector(xs, complete)
}

func (v *DoubleVector) Type() RType { return RDouble }
func (v *DoubleVector) Len() int    { return len(v.data) }

func (v *DoubleVector) IsNA(i int) bool {
	return IsDoubleNA(v.DoubleAt(i))
}

func (v *DoubleVector) DoubleAt(i int) float64 {
	checkIndex(i, len(v.data))
	return v.data[i]
}

// SetDoubleAt stores x at index i.  Storing NA clears the complete flag.
func (v *DoubleVector) SetDoubleAt(i int, x float64) {
	v.checkWritable("setElementAt")
	checkIndex(i, len(v.data))
	v.data[i] = x
	if IsDoubleNA(x) {
		v.complete = false
	}
}

func (v *DoubleVector) Materialize() Concrete { return v }

func (v *DoubleVector) Copy() Concrete {
	return &DoubleVector{vectorBase: v.copyBase(), data: append([]float64(nil), v.data...)}
}

func (v *DoubleVector) Own() Concrete {
	if v.IsTemporary() {
		return v
	}
	return v.Copy()
}

func (v *DoubleVector) Store() interface{} { return v.data }
func (v *DoubleVector) String() string     { return FormatVector(v) }

// LogicalVector is a concrete logical vector.
type LogicalVector struct {
	vectorBase
	data []Logical
}

var _ LogicalReader = (*LogicalVector)(nil)
var _ Concrete = (*LogicalVector)(nil)

// NewLogicalVector returns a temporary vector that takes ownership of data.
func NewLogicalVector(data []Logical, complete bool) *LogicalVector {
	return &LogicalVector{vectorBase: vectorBase{complete: complete}, data: data}
}

// Logicals returns a temporary vector holding xs.  Completeness is
// computed.
func Logicals(xs ...Logical) *LogicalVector {
	complete := true
	for _, x := range xs {
		if IsLogicalNA(x) {
			complete = false
			break
		}
	}
	return NewLogicalVector(xs, complete)
}

func (v *LogicalVector) Type() RType { return RLogical }
func (v *LogicalVector) Len() int    { return len(v.data) }

func (v *LogicalVector) IsNA(i int) bool {
	return IsLogicalNA(v.LogicalAt(i))
}

func (v *LogicalVector) LogicalAt(i int) Logical {
	checkIndex(i, len(v.data))
	return v.data[i]
}

// SetLogicalAt stores x at index i.
func (v *LogicalVector) SetLogicalAt(i int, x Logical) {
	v.checkWritable("setElementAt")
	checkIndex(i, len(v.data))
	v.data[i] = x
	if IsLogicalNA(x) {
		v.complete = false
	}
}

func (v *LogicalVector) Materialize() Concrete { return v }

func (v *LogicalVector) Copy() Concrete {
	return &LogicalVector{vectorBase: v.copyBase(), data: append([]Logical(nil), v.data...)}
}

func (v *LogicalVector) Own() Concrete {
	if v.IsTemporary() {
		return v
	}
	return v.Copy()
}

func (v *LogicalVector) Store() interface{} { return v.data }
func (v *LogicalVector) String() string     { return FormatVector(v) }

// ComplexVector is a concrete complex vector.
type ComplexVector struct {
	vectorBase
	data []complex128
}

var _ ComplexReader = (*ComplexVector)(nil)
var _ Concrete = (*ComplexVector)(nil)

// NewComplexVector returns a temporary vector that takes ownership of data.
func NewComplexVector(data []complex128, complete bool) *ComplexVector {
	return &ComplexVector{vectorBase: vectorBase{complete: complete}, data: data}
}

// Complexes returns a temporary vector holding xs.  Completeness is
// computed.
func Complexes(xs ...complex128) *ComplexVector {
	complete := true
	for _, x := range xs {
		if IsComplexNA(x) {
			complete = false
			break
		}
	}
	return NewComplexVector(xs, complete)
}

func (v *ComplexVector) Type() RType { return RComplex }
func (v *ComplexVector) Len() int    { return len(v.data) }

func (v *ComplexVector) IsNA(i int) bool {
	return IsComplexNA(v.ComplexAt(i))
}

func (v *ComplexVector) ComplexAt(i int) complex128 {
	checkIndex(i, len(v.data))
	return v.data[i]
}

// SetComplexAt stores x at index i.
func (v *ComplexVector) SetComplexAt(i int, x complex128) {
	v.checkWritable("setElementAt")
	checkIndex(i, len(v.data))
	v.data[i] = x
	if IsComplexNA(x) {
		v.complete = false
	}
}

func (v *ComplexVector) Materialize() Concrete { return v }

func (v *ComplexVector) Copy() Concrete {
	return &ComplexVector{vectorBase: v.copyBase(), data: append([]complex128(nil), v.data...)}
}

func (v *ComplexVector) Own() Concrete {
	if v.IsTemporary() {
		return v
	}
	return v.Copy()
}

func (v *ComplexVector) Store() interface{} { return v.data }
func (v *ComplexVector) String() string     { return FormatVector(v) }

// StringVector is a concrete character vector.  Missing strings are
// tracked in a bitmap because every Go string is a valid element.
type StringVector struct {
	vectorBase
	data []string
	na   *roaring.Bitmap
}

var _ StringReader = (*StringVector)(nil)
var _ Concrete = (*StringVector)(nil)

// NewStringVector returns a temporary vector that takes ownership of data.
// The indices in na are marked missing.
func NewStringVector(data []string, na ...int) *StringVector {
	v := &StringVector{vectorBase: vectorBase{complete: true}, data: data}
	for _, i := range na {
		checkIndex(i, len(data))
		v.markNA(i)
	}
	return v
}

// Strings returns a temporary vector holding xs with no missing elements.
func Strings(xs ...string) *StringVector {
	return NewStringVector(xs)
}

func (v *StringVector) markNA(i int) {
	if v.na == nil {
		v.na = roaring.New()
	}
	v.na.Add(uint32(i))
	v.complete = false
}

func (v *StringVector) Type() RType { return RCharacter }
func (v *StringVector) Len() int    { return len(v.data) }

func (v *StringVector) IsNA(i int) bool {
	checkIndex(i, len(v.data))
	return v.na != nil && v.na.Contains(uint32(i))
}

// StringAt returns element i.  A missing element reads as "NA"; use IsNA
// to tell it apart from the string "NA".
func (v *StringVector) StringAt(i int) string {
	if v.IsNA(i) {
		return "NA"
	}
	return v.data[i]
}

// SetStringAt stores s at index i.
func (v *StringVector) SetStringAt(i int, s string) {
	v.checkWritable("setElementAt")
	checkIndex(i, len(v.data))
	v.data[i] = s
	if v.na != nil {
		v.na.Remove(uint32(i))
	}
}

// SetNAAt marks element i missing.
func (v *StringVector) SetNAAt(i int) {
	v.checkWritable("setElementAt")
	checkIndex(i, len(v.data))
	v.data[i] = ""
	v.markNA(i)
}

func (v *StringVector) Materialize() Concrete { return v }

func (v *StringVector) Copy() Concrete {
	cp := &StringVector{vectorBase: v.copyBase(), data: append([]string(nil), v.data...)}
	if v.na != nil && !v.na.IsEmpty() {
		cp.na = v.na.Clone()
	}
	return cp
}

func (v *StringVector) Own() Concrete {
	if v.IsTemporary() {
		return v
	}
	return v.Copy()
}

func (v *StringVector) Store() interface{} { return v.data }
func (v *StringVector) String() string     { return FormatVector(v) }

// RawVector is a concrete raw vector.  Raw vectors have no NA and are
// always complete.
type RawVector struct {
	vectorBase
	data []byte
}

var _ RawReader = (*RawVector)(nil)
var _ Concrete = (*RawVector)(nil)

// NewRawVector returns a temporary vector that takes ownership of data.
func NewRawVector(data []byte) *RawVector {
	return &RawVector{vectorBase: vectorBase{complete: true}, data: data}
}

func (v *RawVector) Type() RType { return RRaw }
func (v *RawVector) Len() int    { return len(v.data) }

func (v *RawVector) IsNA(i int) bool {
	checkIndex(i, len(v.data))
	return false
}

func (v *RawVector) RawAt(i int) byte {
	checkIndex(i, len(v.data))
	return v.data[i]
}

// SetRawAt stores x at index i.
func (v *RawVector) SetRawAt(i int, x byte) {
	v.checkWritable("setElementAt")
	checkIndex(i, len(v.data))
	v.data[i] = x
}

// SetComplete ignores its argument; raw vectors are always complete.
func (v *RawVector) SetComplete(bool) {}

func (v *RawVector) Materialize() Concrete { return v }

func (v *RawVector) Copy() Concrete {
	return &RawVector{vectorBase: v.copyBase(), data: append([]byte(nil), v.data...)}
}

func (v *RawVector) Own() Concrete {
	if v.IsTemporary() {
		return v
	}
	return v.Copy()
}

func (v *RawVector) Store() interface{} { return v.data }
func (v *RawVector) String() string     { return FormatVector(v) }

// ListVector is a generic vector whose elements are arbitrary values.
type ListVector struct {
	vectorBase
	data []Value
}

var _ ListReader = (*ListVector)(nil)
var _ Concrete = (*ListVector)(nil)

// NewListVector returns a temporary list that takes ownership of data.
// Vector elements are marked non-temporary since the list now refers to
// them.
func NewListVector(data []Value) *ListVector {
	v := &ListVector{vectorBase: vectorBase{complete: true}, data: data}
	for _, x := range data {
		if isListElemNA(x) {
			v.complete = false
		}
		if s, ok := x.(Shareable); ok {
			s.MarkNonTemporary()
		}
	}
	return v
}

// List returns a temporary list holding xs.
func List(xs ...Value) *ListVector {
	return NewListVector(xs)
}

// isListElemNA follows is.na on lists: an element is NA when it is a
// length one atomic vector holding NA.
func isListElemNA(x Value) bool {
	v, ok := x.(Vector)
	if !ok || v.Len() != 1 || v.Type() == RList {
		return false
	}
	return v.IsNA(0)
}

func (v *ListVector) Type() RType { return RList }
func (v *ListVector) Len() int    { return len(v.data) }

func (v *ListVector) IsNA(i int) bool {
	return isListElemNA(v.ElemAt(i))
}

func (v *ListVector) ElemAt(i int) Value {
	checkIndex(i, len(v.data))
	return v.data[i]
}

// SetElemAt stores x at index i.
func (v *ListVector) SetElemAt(i int, x Value) {
	v.checkWritable("setElementAt")
	checkIndex(i, len(v.data))
	if s, ok := x.(Shareable); ok {
		s.MarkNonTemporary()
	}
	v.data[i] = x
	if isListElemNA(x) {
		v.complete = false
	}
}

func (v *ListVector) Materialize() Concrete { return v }

// Copy returns a shallow copy.  Vector elements become shared between the
// two lists.
func (v *ListVector) Copy() Concrete {
	cp := &ListVector{vectorBase: v.copyBase(), data: append([]Value(nil), v.data...)}
	for _, x := range cp.data {
		if s, ok := x.(Shareable); ok {
			s.IncRefCount()
		}
	}
	return cp
}

func (v *ListVector) Own() Concrete {
	if v.IsTemporary() {
		return v
	}
	return v.Copy()
}

func (v *ListVector) Store() interface{} { return v.data }
func (v *ListVector) String() string     { return FormatVector(v) }

// Create allocates a temporary concrete vector of kind t and length n.
// When complete is true the elements are zero; otherwise they are NA for
// the kinds that have an NA.
func Create(t RType, n int, complete bool) Concrete {
	switch t {
	case RInteger:
		data := make([]int32, n)
		if !complete {
			for i := range data {
				data[i] = IntNA
			}
		}
		return NewIntVector(data, complete || n == 0)
	case RDouble:
		data := make([]float64, n)
		if !complete {
			for i := range data {
				data[i] = DoubleNA
			}
		}
		return NewDoubleVector(data, complete || n == 0)
	case RLogical:
		data := make([]Logical, n)
		if !complete {
			for i := range data {
				data[i] = LogicalNA
			}
		}
		return NewLogicalVector(data, complete || n == 0)
	case RComplex:
		data := make([]complex128, n)
		if !complete {
			for i := range data {
				data[i] = ComplexNA
			}
		}
		return NewComplexVector(data, complete || n == 0)
	case RCharacter:
		v := NewStringVector(make([]string, n))
		if !complete {
			for i := 0; i < n; i++ {
				v.markNA(i)
			}
		}
		return v
	case RRaw:
		return NewRawVector(make([]byte, n))
	case RList:
		return NewListVector(make([]Value, n))
	default:
		fatalf("create", "cannot allocate a vector of type %v", t)
		return nil
	}
}
