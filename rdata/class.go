// Copyright © 2024 The ELPS authors

package rdata

// ExplicitClass returns the class attribute of v, or nil.
func ExplicitClass(v Vector) []string {
	x, ok := v.Attributes().Get(AttrClass)
	if !ok {
		return nil
	}
	cls, ok := x.(StringReader)
	if !ok {
		return nil
	}
	names := make([]string, cls.Len())
	for i := range names {
		names[i] = cls.StringAt(i)
	}
	return names
}

// IsObject returns true if v carries a class attribute and is therefore
// subject to method dispatch.
func IsObject(v Vector) bool {
	_, ok := v.Attributes().Get(AttrClass)
	return ok
}

// Dim returns the dim attribute of v, or nil.
func Dim(v Vector) []int {
	x, ok := v.Attributes().Get(AttrDim)
	if !ok {
		return nil
	}
	dim, ok := x.(Vector)
	if !ok {
		return nil
	}
	out := make([]int, dim.Len())
	for i := range out {
		out[i] = int(elementAsInt(dim, i))
	}
	return out
}

// Names returns the names attribute of v, or nil.
func Names(v Vector) StringReader {
	x, ok := v.Attributes().Get(AttrNames)
	if !ok {
		return nil
	}
	names, _ := x.(StringReader)
	return names
}

// ImplicitClass returns the class R assigns to v when it has no class
// attribute.
func ImplicitClass(v Vector) []string {
	var cls []string
	switch len(Dim(v)) {
	case 0:
	case 2:
		cls = append(cls, "matrix")
	default:
		cls = append(cls, "array")
	}
	switch v.Type() {
	case RInteger:
		cls = append(cls, "integer", "numeric")
	case RDouble:
		cls = append(cls, "double", "numeric")
	case RList:
		cls = append(cls, "list")
	default:
		cls = append(cls, v.Type().String())
	}
	return cls
}

// ClassHierarchy returns the classes searched, in order, when dispatching
// a method on v.
func ClassHierarchy(v Vector) []string {
	if cls := ExplicitClass(v); cls != nil {
		return cls
	}
	return ImplicitClass(v)
}
