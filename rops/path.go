// Copyright © 2024 The ELPS authors

package rops

// Path identifies the strategy the engine used to compute a result.
type Path uint8

// Path constants
const (
	// PathNone means no result was computed.
	PathNone Path = iota
	// PathFold applied the operator to a sequence's shape.
	PathFold
	// PathIdentity returned a temporary operand unchanged.
	PathIdentity
	// PathScalar returned a bare element for a length one operand.
	PathScalar
	// PathInPlace overwrote a temporary operand with the result.
	PathInPlace
	// PathVector allocated a new result vector.
	PathVector
)

var pathStrings = []string{
	PathNone:     "none",
	PathFold:     "fold",
	PathIdentity: "identity",
	PathScalar:   "scalar",
	PathInPlace:  "in-place",
	PathVector:   "vector",
}

func (p Path) String() string {
	if int(p) >= len(pathStrings) {
		return "invalid"
	}
	return pathStrings[p]
}
