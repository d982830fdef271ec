// Copyright © 2024 The ELPS authors

package rthread_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/luthersystems/rvm/rdata"
	"github.com/luthersystems/rvm/rthread"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrySlots(t *testing.T) {
	r := rthread.NewRegistry()
	a := r.Add(&rthread.Thread{})
	b := r.Add(&rthread.Thread{})
	assert.False(t, a.IsZero())
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, r.Len())

	assert.True(t, r.Remove(a))
	assert.False(t, r.Remove(a))
	_, ok := r.Get(a)
	assert.False(t, ok)

	// The freed slot is reused under a new generation.
	c := r.Add(&rthread.Thread{})
	assert.NotEqual(t, a, c)
	_, ok = r.Get(a)
	assert.False(t, ok)
	_, ok = r.Get(b)
	assert.True(t, ok)
	assert.Equal(t, []rthread.Handle{c, b}, r.Handles())

	_, ok = r.Get(rthread.Handle{})
	assert.False(t, ok)
}

func TestRegistryConcurrentAddRemove(t *testing.T) {
	r := rthread.NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				h := r.Add(&rthread.Thread{})
				assert.True(t, r.Remove(h))
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, r.Len())
}

func negateAll(_ context.Context, args []rdata.Vector) (rdata.Value, error) {
	v := args[0].(*rdata.IntVector)
	for i := 0; i < v.Len(); i++ {
		v.SetIntAt(i, -v.IntAt(i))
	}
	return v, nil
}

func TestSpawnCopiesOperands(t *testing.T) {
	r := rthread.NewRegistry()
	v := rdata.Ints(1, 2, 3)
	v.MarkNonTemporary()
	h, err := r.Spawn(context.Background(), negateAll, v)
	require.NoError(t, err)
	res, err := r.Join(h)
	require.NoError(t, err)
	assert.Equal(t, "-1 -2 -3", res.(rdata.Vector).String())
	assert.Equal(t, "1 2 3", v.String())
	assert.Equal(t, 0, r.Len())

	_, err = r.Join(h)
	assert.True(t, errors.Is(err, rthread.ErrUnknownThread))
}

func TestSpawnRecoversContractViolation(t *testing.T) {
	r := rthread.NewRegistry()
	h, err := r.Spawn(context.Background(), func(_ context.Context, args []rdata.Vector) (rdata.Value, error) {
		return args[0].(rdata.IntReader).IntAt(10), nil
	}, rdata.Ints(1))
	require.NoError(t, err)
	_, err = r.Join(h)
	assert.True(t, errors.Is(err, rdata.ErrIndex))
}

func TestJoinAll(t *testing.T) {
	r := rthread.NewRegistry(rthread.WithLimit(2))
	assert.Equal(t, int64(2), r.Limit())
	var running, peak int32
	body := func(_ context.Context, args []rdata.Vector) (rdata.Value, error) {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		defer atomic.AddInt32(&running, -1)
		return args[0].Len(), nil
	}
	for i := 1; i <= 6; i++ {
		_, err := r.Spawn(context.Background(), body, rdata.NewIntSequence(1, 1, i))
		require.NoError(t, err)
	}
	results, err := r.JoinAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, results, 6)
	assert.ElementsMatch(t, []rdata.Value{1, 2, 3, 4, 5, 6}, results)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
	assert.Equal(t, 0, r.Len())
}

func TestJoinAllReportsError(t *testing.T) {
	r := rthread.NewRegistry()
	boom := errors.New("boom")
	_, err := r.Spawn(context.Background(), func(context.Context, []rdata.Vector) (rdata.Value, error) {
		return nil, boom
	})
	require.NoError(t, err)
	_, err = r.Spawn(context.Background(), func(context.Context, []rdata.Vector) (rdata.Value, error) {
		return int32(1), nil
	})
	require.NoError(t, err)
	_, err = r.JoinAll(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, r.Len())
}

func TestSpawnLimitContext(t *testing.T) {
	r := rthread.NewRegistry(rthread.WithLimit(1))
	release := make(chan struct{})
	h, err := r.Spawn(context.Background(), func(context.Context, []rdata.Vector) (rdata.Value, error) {
		<-release
		return nil, nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Spawn(ctx, func(context.Context, []rdata.Vector) (rdata.Value, error) {
		return nil, nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	_, err = r.Join(h)
	assert.NoError(t, err)
}

func TestSpawnSharesSequences(t *testing.T) {
	r := rthread.NewRegistry()
	s := rdata.NewIntSequence(1, 1, 3)
	h, err := r.Spawn(context.Background(), func(_ context.Context, args []rdata.Vector) (rdata.Value, error) {
		return args[0], nil
	}, s)
	require.NoError(t, err)
	res, err := r.Join(h)
	require.NoError(t, err)
	assert.Same(t, s, res)
}
