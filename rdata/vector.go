// Copyright © 2024 The ELPS authors

package rdata

import (
	"fmt"
	"math"
)

// Value is any R value produced or consumed by the runtime.  It is either a
// Vector or, for results of the scalar fast path, a bare element: int32,
// float64, Logical, complex128, string or byte.
type Value interface{}

// Form is the storage variant of a Vector.
type Form uint8

// Form constants.  Together with RType they make up the closed set of
// vector representations.
const (
	// FormConcrete vectors store every element.
	FormConcrete Form = iota
	// FormSequence vectors are arithmetic progressions stored as start,
	// stride and length.
	FormSequence
	// FormClosure vectors are coercion views over another vector.
	FormClosure
)

var formStrings = []string{
	FormConcrete: "concrete",
	FormSequence: "sequence",
	FormClosure:  "closure",
}

func (f Form) String() string {
	if int(f) >= len(formStrings) {
		return "invalid"
	}
	return formStrings[f]
}

// Vector is the read contract shared by every vector representation.  Code
// that only reads elements never needs to know the concrete variant.
type Vector interface {
	fmt.Stringer
	Type() RType
	Len() int
	// IsComplete returns true only if no element is NA.  A false result does
	// not imply that an NA is present.
	IsComplete() bool
	// IsNA reports whether element i is NA.  It panics with an index error
	// when i is outside [0, Len()).
	IsNA(i int) bool
	Form() Form
	// Attributes returns the attribute map, or nil.  Callers must not
	// modify the returned map.
	Attributes() *Attributes
	// Materialize returns a vector with stored elements.  Concrete vectors
	// return themselves.
	Materialize() Concrete
	// Copy returns an independent temporary vector with the same elements,
	// completeness and attributes.
	Copy() Concrete
}

// Typed element readers.  Every vector of the matching RType implements the
// corresponding reader, whatever its Form.
type (
	IntReader interface {
		Vector
		IntAt(i int) int32
	}
	DoubleReader interface {
		Vector
		DoubleAt(i int) float64
	}
	LogicalReader interface {
		Vector
		LogicalAt(i int) Logical
	}
	ComplexReader interface {
		Vector
		ComplexAt(i int) complex128
	}
	StringReader interface {
		Vector
		StringAt(i int) string
	}
	RawReader interface {
		Vector
		RawAt(i int) byte
	}
	ListReader interface {
		Vector
		ElemAt(i int) Value
	}
)

// SharingState describes how many bindings refer to a vector.  The state
// only ever moves forward.
type SharingState uint8

// SharingState values
const (
	Temporary SharingState = iota
	SharedOnce
	SharedMany
)

var sharingStrings = []string{
	Temporary:  "temporary",
	SharedOnce: "shared-once",
	SharedMany: "shared-many",
}

func (s SharingState) String() string {
	if int(s) >= len(sharingStrings) {
		return "invalid"
	}
	return sharingStrings[s]
}

// Shareable is implemented by values that track their sharing state.  The
// state is not synchronized; a shareable value must not be observed by two
// goroutines at once.
type Shareable interface {
	Sharing() SharingState
	IsTemporary() bool
	IsShared() bool
	// IncRefCount records one more binding.
	IncRefCount()
	// MarkNonTemporary moves a temporary value to SharedOnce and leaves any
	// other state unchanged.
	MarkNonTemporary()
}

// Concrete is a materialized vector.  Only concrete vectors carry
// attributes and a sharing state, and only a temporary concrete vector may
// be modified in place.
type Concrete interface {
	Vector
	Shareable
	SetComplete(complete bool)
	// SetAttr binds an attribute.  It is a fatal internal error to call
	// SetAttr on a vector that is not temporary.
	SetAttr(name string, v Value)
	RemoveAttr(name string)
	// SetAttributes replaces the attribute map.  The vector takes ownership
	// of attrs.
	SetAttributes(attrs *Attributes)
	// Own returns the receiver when it is temporary and a temporary copy
	// otherwise.  The result may be modified in place.
	Own() Concrete
	// Store returns the backing slice ([]int32, []float64, []Logical,
	// []complex128, []string, []byte or []Value).  Writes through the
	// returned slice are subject to the same rules as the Set methods.
	Store() interface{}
}

const sharedMax = math.MaxInt32

type vectorBase struct {
	attrs    *Attributes
	complete bool
	refs     int32
}

func (b *vectorBase) Form() Form {
	return FormConcrete
}

func (b *vectorBase) IsComplete() bool {
	return b.complete
}

func (b *vectorBase) SetComplete(complete bool) {
	b.complete = complete
}

func (b *vectorBase) Attributes() *Attributes {
	return b.attrs
}

func (b *vectorBase) SetAttr(name string, v Value) {
	b.checkWritable("setAttr")
	if b.attrs == nil {
		b.attrs = NewAttributes()
	}
	b.attrs.Put(name, v)
}

func (b *vectorBase) RemoveAttr(name string) {
	b.checkWritable("removeAttr")
	b.attrs.Remove(name)
	if b.attrs.Len() == 0 {
		b.attrs = nil
	}
}

func (b *vectorBase) SetAttributes(attrs *Attributes) {
	b.checkWritable("setAttributes")
	if attrs.Len() == 0 {
		attrs = nil
	}
	b.attrs = attrs
}

func (b *vectorBase) Sharing() SharingState {
	switch b.refs {
	case 0:
		return Temporary
	case 1:
		return SharedOnce
	default:
		return SharedMany
	}
}

func (b *vectorBase) IsTemporary() bool {
	return b.refs == 0
}

func (b *vectorBase) IsShared() bool {
	return b.refs > 1
}

func (b *vectorBase) IncRefCount() {
	if b.refs < sharedMax {
		b.refs++
	}
}

func (b *vectorBase) MarkNonTemporary() {
	if b.refs == 0 {
		b.refs = 1
	}
}

func (b *vectorBase) checkWritable(op string) {
	if b.refs != 0 {
		fatalf(op, "in-place modification of a %s vector", b.Sharing())
	}
}

// copyBase returns the metadata for a copy of b: the same completeness, an
// independent attribute map, and a temporary sharing state.
func (b *vectorBase) copyBase() vectorBase {
	return vectorBase{
		attrs:    b.attrs.Copy(),
		complete: b.complete,
	}
}

// Shared is a read-only handle to a vector that has been bound more than
// once.  It exposes no mutators, so code holding a Shared cannot modify the
// vector in place; it must call Own on the underlying vector, which copies.
type Shared struct {
	v Concrete
}

// Share records a new binding of v and returns a read-only handle to it.
func Share(v Concrete) Shared {
	v.IncRefCount()
	return Shared{v: v}
}

// Vector returns the shared vector through its read-only contract.
func (s Shared) Vector() Vector {
	return s.v
}

// Own returns a temporary copy of the shared vector.
func (s Shared) Own() Concrete {
	return s.v.Own()
}

// Copy copies any vector into an independent concrete vector.
func Copy(v Vector) Concrete {
	return v.Copy()
}

// DeepCopy copies v together with every vector reachable from it through
// attributes and list elements.  The result shares no reference-counted
// vector with v, so it can be handed to another goroutine.  Sequences are
// immutable and are not copied.
func DeepCopy(v Vector) Concrete {
	c := v.Copy()
	if attrs := v.Attributes(); attrs.Len() > 0 {
		deep := NewAttributes()
		attrs.Each(func(name string, x Value) bool {
			deep.Put(name, deepValue(x))
			return true
		})
		c.SetAttributes(deep)
	}
	if l, ok := c.(*ListVector); ok {
		for i, x := range l.data {
			l.data[i] = deepValue(x)
		}
	}
	return c
}

// deepValue copies a vector held by another value.  The copy is bound
// once, as the original was.
func deepValue(x Value) Value {
	v, ok := x.(Vector)
	if !ok || IsSequence(v) {
		return x
	}
	c := DeepCopy(v)
	c.MarkNonTemporary()
	return c
}

// CopyAttributes gives dst an independent copy of src's attributes.  dst
// must be temporary.
func CopyAttributes(dst Concrete, src Vector) {
	attrs := src.Attributes()
	if attrs.Len() == 0 {
		return
	}
	dst.SetAttributes(attrs.Copy())
}

// HasAttributes returns true if v carries at least one attribute.
func HasAttributes(v Vector) bool {
	return v.Attributes().Len() > 0
}
