// Copyright © 2024 The ELPS authors

package rnodes

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/luthersystems/rvm/rdata"
	"github.com/luthersystems/rvm/rops"
)

// Node is an executable operator application.
type Node interface {
	// Name returns the operator name.
	Name() string
	// Execute applies the operator.  Operands may be vectors or bare
	// elements.
	Execute(ctx context.Context, operands ...rdata.Value) (rdata.Value, error)
}

// EvalError is an error raised while executing a node.  It wraps the
// underlying *rdata.Error, so errors.Is matches the rdata sentinels.
type EvalError struct {
	Op       string
	Operands []string
	Err      error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%s(%s): %v", e.Op, strings.Join(e.Operands, ", "), e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// describe returns a short description of v for error messages.
func describe(v rdata.Value) string {
	x, ok := v.(rdata.Vector)
	if !ok {
		return fmt.Sprintf("%T %s", v, rdata.FormatValue(v))
	}
	return fmt.Sprintf("%s %s[%d]", x.Form(), x.Type(), x.Len())
}

func evalError(op string, operands []rdata.Value, err error) *EvalError {
	desc := make([]string, len(operands))
	for i, v := range operands {
		desc[i] = describe(v)
	}
	return &EvalError{Op: op, Operands: desc, Err: err}
}

// recoverContract converts a contract violation raised by panic into an
// error.  Other panics propagate.
func (rt *Runtime) recoverContract(op string, operands []rdata.Value, err *error) {
	r := recover()
	if r == nil {
		return
	}
	e, ok := r.(*rdata.Error)
	if !ok || !rdata.IsContractViolation(e) {
		panic(r)
	}
	rt.Logger.Error("contract violation", "op", op, "cond", string(e.Cond), "msg", e.Msg)
	*err = evalError(op, operands, e)
}

// AsVector returns v as a vector.  Bare elements become vectors of length
// one.
func AsVector(v rdata.Value) (rdata.Vector, error) {
	switch x := v.(type) {
	case rdata.Vector:
		return x, nil
	case int32:
		return rdata.Ints(x), nil
	case float64:
		return rdata.Doubles(x), nil
	case complex128:
		return rdata.Complexes(x), nil
	case rdata.Logical:
		return rdata.Logicals(x), nil
	case string:
		return rdata.Strings(x), nil
	case byte:
		return rdata.NewRawVector([]byte{x}), nil
	case nil:
		return nil, rdata.TypeMismatch("", "NULL operand")
	}
	return nil, rdata.TypeMismatch("", "unsupported operand of type %T", v)
}

// specialization is a node's inline cache: the path that produced its
// last result and hit statistics.
type specialization struct {
	path   atomic.Uint32
	hits   atomic.Uint64
	misses atomic.Uint64
}

func (s *specialization) cached() rops.Path {
	return rops.Path(s.path.Load())
}

// record notes the path used by a call.  It reports whether the node was
// respecialized.
func (s *specialization) record(p rops.Path, hit bool) bool {
	if hit {
		s.hits.Add(1)
		return false
	}
	s.misses.Add(1)
	return rops.Path(s.path.Swap(uint32(p))) != p
}

// Stats reports the inline cache state of a node.
type Stats struct {
	Path   rops.Path
	Hits   uint64
	Misses uint64
}

func (s *specialization) stats() Stats {
	return Stats{Path: s.cached(), Hits: s.hits.Load(), Misses: s.misses.Load()}
}

// generalShape is the guard of the vector paths: the general dispatch
// would neither fold v nor return a bare element for it.
func generalShape(v rdata.Vector, o rops.Options, foldable bool) bool {
	if v.Form() == rdata.FormSequence && foldable && !o.NoFold {
		return false
	}
	if v.Len() == 1 && !o.NoScalar && v.Form() != rdata.FormSequence && !rdata.HasAttributes(v) {
		return false
	}
	return true
}
