// Copyright © 2024 The ELPS authors

package rnodes_test

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/luthersystems/rvm/rdata"
	"github.com/luthersystems/rvm/rnodes"
	"github.com/luthersystems/rvm/rops"
	"github.com/luthersystems/rvm/rstats"
	"github.com/luthersystems/rvm/rtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntimeConfig(t *testing.T) {
	_, err := rnodes.NewRuntime(rnodes.WithStderr(nil))
	assert.Error(t, err)
	_, err = rnodes.NewRuntime(rnodes.WithThreadLimit(-1))
	assert.Error(t, err)

	var buf bytes.Buffer
	rt, err := rnodes.NewRuntime(rnodes.WithStderr(&buf), rnodes.WithThreadLimit(3))
	require.NoError(t, err)
	assert.Equal(t, int64(3), rt.Threads.Limit())
	assert.Equal(t, rops.Options{}, rt.Options)

	// The default logger reports warnings and errors to Stderr.
	rt.Logger.Debug("hidden")
	rt.Logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestRuntimeRNG(t *testing.T) {
	a := rtest.NewRuntime(t)
	b := rtest.NewRuntime(t, rnodes.WithRNG(rstats.NewSource(rstats.DefaultSeed)))
	assert.Equal(t, a.RNG.Float64(), b.RNG.Float64())
}

type recordingProfiler struct {
	mu      sync.Mutex
	enabled bool
	started []string
	ended   int
}

func (p *recordingProfiler) IsEnabled() bool { return p.enabled }
func (p *recordingProfiler) Enable() error   { p.enabled = true; return nil }
func (p *recordingProfiler) Complete() error { p.enabled = false; return nil }

func (p *recordingProfiler) Start(ctx context.Context, node rnodes.Node) (context.Context, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started = append(p.started, node.Name())
	return ctx, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.ended++
	}
}

func TestRuntimeProfiler(t *testing.T) {
	p := &recordingProfiler{}
	rt := rtest.NewRuntime(t, rnodes.WithProfiler(p))
	n := rnodes.NewBinaryNode(rt, rops.Multiply)
	_, err := n.Execute(context.Background(), int32(2), int32(3))
	require.NoError(t, err)
	assert.Empty(t, p.started)

	require.NoError(t, p.Enable())
	_, err = n.Execute(context.Background(), int32(2), int32(3))
	require.NoError(t, err)
	_, err = n.Execute(context.Background(), rdata.Ints(1), rdata.Strings("x"))
	require.Error(t, err)
	assert.Equal(t, []string{"*", "*"}, p.started)
	assert.Equal(t, 2, p.ended)
}

func TestRuntimeThreads(t *testing.T) {
	rt := rtest.NewRuntime(t, rnodes.WithThreadLimit(2))
	neg := rnodes.NewUnaryNode(rt, rops.Negate)
	ctx := context.Background()

	v := rdata.Ints(1, 2, 3)
	h, err := rt.Spawn(ctx, neg, v)
	require.NoError(t, err)
	r, err := rt.Join(h)
	require.NoError(t, err)
	rtest.AssertElements(t, "-1 -2 -3", r)
	// The thread worked on a copy of the temporary operand.
	assert.Equal(t, "1 2 3", v.String())

	for i := int32(0); i < 4; i++ {
		_, err := rt.Spawn(ctx, neg, rdata.NewIntSequence(i, 1, 2))
		require.NoError(t, err)
	}
	rs, err := rt.JoinAll(ctx)
	require.NoError(t, err)
	assert.Len(t, rs, 4)
	assert.Equal(t, 0, rt.Threads.Len())

	h, err = rt.Spawn(ctx, neg, rdata.Strings("a"))
	require.NoError(t, err)
	_, err = rt.Join(h)
	assert.ErrorIs(t, err, rdata.ErrTypeMismatch)

	_, err = rt.Spawn(ctx, neg, nil)
	assert.ErrorIs(t, err, rdata.ErrTypeMismatch)
}

// Threads and their caller may share the attribute values of an operand
// only through copies, so this runs clean under the race detector.
func TestRuntimeThreadsNamedOperand(t *testing.T) {
	rt := rtest.NewRuntime(t)
	neg := rnodes.NewUnaryNode(rt, rops.Negate)
	ctx := context.Background()

	v := rdata.Ints(1, 2, 3)
	v.SetAttr(rdata.AttrNames, rdata.Strings("a", "b", "c"))
	v.MarkNonTemporary()
	for i := 0; i < 8; i++ {
		_, err := rt.Spawn(ctx, neg, v)
		require.NoError(t, err)
	}
	for i := 0; i < 100; i++ {
		rdata.CopyAttributes(rdata.Ints(0, 0, 0), v)
	}
	rs, err := rt.JoinAll(ctx)
	require.NoError(t, err)
	require.Len(t, rs, 8)
	for _, r := range rs {
		rtest.AssertElements(t, "-1 -2 -3", r)
		names := rdata.Names(r.(rdata.Vector))
		require.NotNil(t, names)
		assert.Equal(t, "b", names.StringAt(1))
	}
}
