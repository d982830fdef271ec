// Copyright © 2024 The ELPS authors

package rdata

import (
	"bytes"
	"fmt"
)

// Well known attribute names.
const (
	AttrNames    = "names"
	AttrDim      = "dim"
	AttrDimNames = "dimnames"
	AttrClass    = "class"
)

// Attributes is an ordered mapping from attribute name to value.  An
// Attributes map is owned by exactly one vector; vectors that need the same
// attributes hold copies.
//
// Lookup is linear.  Attribute maps rarely hold more than a handful of
// entries.
type Attributes struct {
	names  []string
	values []Value
}

// NewAttributes returns an empty attribute map.
func NewAttributes() *Attributes {
	return &Attributes{}
}

func (a *Attributes) find(name string) int {
	for i := range a.names {
		if a.names[i] == name {
			return i
		}
	}
	return -1
}

// Len returns the number of attributes.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.names)
}

// Get returns the value bound to name.
func (a *Attributes) Get(name string) (Value, bool) {
	if a == nil {
		return nil, false
	}
	i := a.find(name)
	if i < 0 {
		return nil, false
	}
	return a.values[i], true
}

// Put binds name to v.  An existing binding keeps its position in the
// iteration order and has its value replaced.
func (a *Attributes) Put(name string, v Value) {
	i := a.find(name)
	if i < 0 {
		a.names = append(a.names, name)
		a.values = append(a.values, v)
		return
	}
	a.values[i] = v
}

// Remove deletes the binding for name, if any.
func (a *Attributes) Remove(name string) {
	if a == nil {
		return
	}
	i := a.find(name)
	if i < 0 {
		return
	}
	a.names = append(a.names[:i], a.names[i+1:]...)
	a.values = append(a.values[:i], a.values[i+1:]...)
}

// Clear removes all bindings.
func (a *Attributes) Clear() {
	a.names = nil
	a.values = nil
}

// Names returns the attribute names in insertion order.
func (a *Attributes) Names() []string {
	if a == nil {
		return nil
	}
	return append([]string(nil), a.names...)
}

// Each calls fn for every attribute in insertion order until fn returns
// false.
func (a *Attributes) Each(fn func(name string, v Value) bool) {
	if a == nil {
		return
	}
	for i := range a.names {
		if !fn(a.names[i], a.values[i]) {
			return
		}
	}
}

// Copy returns an independent map with the same bindings.  Vector values
// are shared with the source rather than duplicated, which makes them
// immutable in place for both owners.
func (a *Attributes) Copy() *Attributes {
	if a == nil {
		return nil
	}
	cp := &Attributes{
		names:  append([]string(nil), a.names...),
		values: make([]Value, len(a.values)),
	}
	for i, v := range a.values {
		if s, ok := v.(Shareable); ok {
			s.IncRefCount()
		}
		cp.values[i] = v
	}
	return cp
}

func (a *Attributes) String() string {
	var buf bytes.Buffer
	buf.WriteString("{")
	a.Each(func(name string, v Value) bool {
		if buf.Len() > 1 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%s=%v", name, v)
		return true
	})
	buf.WriteString("}")
	return buf.String()
}
