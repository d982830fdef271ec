// Copyright © 2024 The ELPS authors

package rnodes

import (
	"context"

	"github.com/luthersystems/rvm/rdata"
	"github.com/luthersystems/rvm/rops"
)

// UnaryNode applies a unary operator.
type UnaryNode struct {
	rt    *Runtime
	op    *rops.UnaryOp
	cache specialization
}

var _ Node = (*UnaryNode)(nil)

// NewUnaryNode returns a node applying op.
func NewUnaryNode(rt *Runtime, op *rops.UnaryOp) *UnaryNode {
	return &UnaryNode{rt: rt, op: op}
}

// Name returns the operator name.
func (n *UnaryNode) Name() string {
	return n.op.Name
}

// Stats returns the node's inline cache state.
func (n *UnaryNode) Stats() Stats {
	return n.cache.stats()
}

// Execute applies the operator to its single operand.  A class method
// registered for the operand's class takes precedence over the primitive
// operator.
func (n *UnaryNode) Execute(ctx context.Context, operands ...rdata.Value) (result rdata.Value, err error) {
	if len(operands) != 1 {
		return nil, evalError(n.op.Name, operands,
			rdata.TypeMismatch(n.op.Name, "expected 1 operand, got %d", len(operands)))
	}
	defer n.rt.recoverContract(n.op.Name, operands, &err)
	ctx, done := n.rt.profile(ctx, n)
	defer done()

	v, err := AsVector(operands[0])
	if err != nil {
		return nil, evalError(n.op.Name, operands, err)
	}
	r, ok, err := n.rt.Methods.dispatch(ctx, n.rt, n.op.Name, []rdata.Vector{v})
	if ok {
		if err != nil {
			return nil, evalError(n.op.Name, operands, err)
		}
		return r, nil
	}
	r, path, hit, err := n.apply(v)
	if err != nil {
		return nil, evalError(n.op.Name, operands, err)
	}
	if n.cache.record(path, hit) {
		n.rt.Logger.Debug("respecialize", "op", n.op.Name, "path", path.String())
	}
	return r, nil
}

// apply tries the cached path and falls back to the general dispatch.
func (n *UnaryNode) apply(v rdata.Vector) (rdata.Value, rops.Path, bool, error) {
	o := n.rt.Options
	switch p := n.cache.cached(); p {
	case rops.PathFold, rops.PathIdentity:
		if o.NoFold {
			break
		}
		if r, path, ok := rops.TryFoldUnary(n.op, v); ok {
			return r, path, path == p, nil
		}
	case rops.PathScalar:
		if o.NoScalar {
			break
		}
		if !o.NoFold {
			if _, _, ok := rops.TryFoldUnary(n.op, v); ok {
				break
			}
		}
		if r, ok := rops.TryScalarUnary(n.op, v); ok {
			return r, p, true, nil
		}
	case rops.PathInPlace, rops.PathVector:
		if generalShape(v, o, n.op.Foldable()) && !n.identityApplies(v) {
			r, path, err := o.MapUnary(n.op, v)
			return r, path, err == nil && path == p, err
		}
	}
	r, path, err := o.ApplyUnary(n.op, v)
	return r, path, false, err
}

// identityApplies reports whether the general dispatch would return v
// itself.
func (n *UnaryNode) identityApplies(v rdata.Vector) bool {
	if n.rt.Options.NoFold {
		return false
	}
	_, path, ok := rops.TryFoldUnary(n.op, v)
	return ok && path == rops.PathIdentity
}
