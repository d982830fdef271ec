// Copyright © 2024 The ELPS authors

package rnodes

import (
	"context"

	"github.com/luthersystems/rvm/rdata"
	"github.com/luthersystems/rvm/rthread"
)

// Spawn executes node on a new thread.  The thread receives copies of the
// operands, so the caller may keep mutating its own temporaries.
func (rt *Runtime) Spawn(ctx context.Context, node Node, operands ...rdata.Value) (rthread.Handle, error) {
	args := make([]rdata.Vector, len(operands))
	for i, v := range operands {
		x, err := AsVector(v)
		if err != nil {
			return rthread.Handle{}, evalError(node.Name(), operands, err)
		}
		args[i] = x
	}
	return rt.Threads.Spawn(ctx, func(ctx context.Context, args []rdata.Vector) (rdata.Value, error) {
		vals := make([]rdata.Value, len(args))
		for i, v := range args {
			vals[i] = v
		}
		return node.Execute(ctx, vals...)
	}, args...)
}

// Join waits for the thread named by h and returns its result.
func (rt *Runtime) Join(h rthread.Handle) (rdata.Value, error) {
	return rt.Threads.Join(h)
}

// JoinAll waits for every running thread.
func (rt *Runtime) JoinAll(ctx context.Context) ([]rdata.Value, error) {
	return rt.Threads.JoinAll(ctx)
}
