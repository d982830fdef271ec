// Copyright © 2024 The ELPS authors

// Package rffi exposes vector storage to foreign code as flat Go slices.
//
// Foreign code may write anything into a view, including NA.  The vector
// is unusable until the view is released; Release rescans the elements so
// that the completeness flag is trustworthy again.
package rffi

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/luthersystems/rvm/rdata"
)

// View is a writable flat view of an integer or double vector.
type View struct {
	v        rdata.Concrete
	ints     []int32
	doubles  []float64
	released bool
	na       *roaring.Bitmap
}

// Acquire materializes v and returns a view of its elements.  When v is
// not temporary the view is of a private copy, so v itself is never
// modified.
func Acquire(v rdata.Vector) (*View, error) {
	switch v.Type() {
	case rdata.RInteger, rdata.RDouble:
	default:
		return nil, rdata.TypeMismatch("ffi", "cannot pass a %s vector as a flat array", v.Type())
	}
	c := v.Materialize().Own()
	w := &View{v: c}
	switch data := c.Store().(type) {
	case []int32:
		w.ints = data
	case []float64:
		w.doubles = data
	}
	return w, nil
}

// Type returns the element kind of the view.
func (w *View) Type() rdata.RType {
	return w.v.Type()
}

// Len returns the number of elements.
func (w *View) Len() int {
	return w.v.Len()
}

// Ints returns the elements of an integer view, or nil.
func (w *View) Ints() []int32 {
	w.checkLive("ints")
	return w.ints
}

// Doubles returns the elements of a double view, or nil.
func (w *View) Doubles() []float64 {
	w.checkLive("doubles")
	return w.doubles
}

// Release ends foreign access and returns the vector behind the view with
// its completeness recomputed.  Calling Release twice returns the same
// vector.
func (w *View) Release() rdata.Concrete {
	if w.released {
		return w.v
	}
	w.released = true
	w.na = roaring.New()
	for i, x := range w.ints {
		if rdata.IsIntNA(x) {
			w.na.Add(uint32(i))
		}
	}
	for i, x := range w.doubles {
		if rdata.IsDoubleNA(x) {
			w.na.Add(uint32(i))
		}
	}
	w.v.SetComplete(w.na.IsEmpty())
	w.ints, w.doubles = nil, nil
	return w.v
}

// NA returns the positions of NA elements found by Release, or nil before
// Release.
func (w *View) NA() *roaring.Bitmap {
	return w.na
}

func (w *View) checkLive(op string) {
	if w.released {
		panic(&rdata.Error{Cond: rdata.CondFatalInternal, Op: op, Msg: "view used after release"})
	}
}
