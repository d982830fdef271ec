// Copyright © 2024 The ELPS authors

package rnodes

import (
	"context"

	"github.com/luthersystems/rvm/rdata"
	"github.com/luthersystems/rvm/rops"
)

// BinaryNode applies a binary operator.
type BinaryNode struct {
	rt    *Runtime
	op    *rops.BinaryOp
	cache specialization
}

var _ Node = (*BinaryNode)(nil)

// NewBinaryNode returns a node applying op.
func NewBinaryNode(rt *Runtime, op *rops.BinaryOp) *BinaryNode {
	return &BinaryNode{rt: rt, op: op}
}

// Name returns the operator name.
func (n *BinaryNode) Name() string {
	return n.op.Name
}

// Stats returns the node's inline cache state.
func (n *BinaryNode) Stats() Stats {
	return n.cache.stats()
}

// Execute applies the operator to its two operands.  Methods are resolved
// from the left operand's classes before the right operand's.
func (n *BinaryNode) Execute(ctx context.Context, operands ...rdata.Value) (result rdata.Value, err error) {
	if len(operands) != 2 {
		return nil, evalError(n.op.Name, operands,
			rdata.TypeMismatch(n.op.Name, "expected 2 operands, got %d", len(operands)))
	}
	defer n.rt.recoverContract(n.op.Name, operands, &err)
	ctx, done := n.rt.profile(ctx, n)
	defer done()

	x, err := AsVector(operands[0])
	if err != nil {
		return nil, evalError(n.op.Name, operands, err)
	}
	y, err := AsVector(operands[1])
	if err != nil {
		return nil, evalError(n.op.Name, operands, err)
	}
	r, ok, err := n.rt.Methods.dispatch(ctx, n.rt, n.op.Name, []rdata.Vector{x, y})
	if ok {
		if err != nil {
			return nil, evalError(n.op.Name, operands, err)
		}
		return r, nil
	}
	r, path, hit, err := n.apply(x, y)
	if err != nil {
		return nil, evalError(n.op.Name, operands, err)
	}
	if n.cache.record(path, hit) {
		n.rt.Logger.Debug("respecialize", "op", n.op.Name, "path", path.String())
	}
	return r, nil
}

func (n *BinaryNode) apply(x, y rdata.Vector) (rdata.Value, rops.Path, bool, error) {
	o := n.rt.Options
	switch p := n.cache.cached(); p {
	case rops.PathFold:
		if o.NoFold {
			break
		}
		if r, ok := rops.TryFoldBinary(n.op, x, y); ok {
			return r, p, true, nil
		}
	case rops.PathScalar:
		if o.NoScalar {
			break
		}
		if r, ok := rops.TryScalarBinary(n.op, x, y); ok {
			return r, p, true, nil
		}
	case rops.PathInPlace, rops.PathVector:
		if n.generalShape(x, y, o) {
			r, path, err := o.MapBinary(n.op, x, y)
			return r, path, err == nil && path == p, err
		}
	}
	r, path, err := o.ApplyBinary(n.op, x, y)
	return r, path, false, err
}

// generalShape is the guard of the vector paths.  An operand pair that
// could fold or produce a bare element takes the general dispatch.
func (n *BinaryNode) generalShape(x, y rdata.Vector, o rops.Options) bool {
	if n.op.Foldable() && !o.NoFold {
		if x.Form() == rdata.FormSequence || y.Form() == rdata.FormSequence {
			return false
		}
	}
	if o.NoScalar || x.Len() != 1 || y.Len() != 1 {
		return true
	}
	return rdata.HasAttributes(x) || rdata.HasAttributes(y)
}
