// Copyright © 2024 The ELPS authors

package rthread

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/luthersystems/rvm/rdata"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// ErrUnknownThread is returned when joining a handle that names no thread.
var ErrUnknownThread = errors.New("unknown thread")

// Func is the body of a thread.  It receives private copies of the
// operands passed to Spawn.
type Func func(ctx context.Context, args []rdata.Vector) (rdata.Value, error)

// Thread is a spawned evaluation.
type Thread struct {
	done   chan struct{}
	result rdata.Value
	err    error
}

// Done is closed when the thread has finished.
func (t *Thread) Done() <-chan struct{} {
	return t.done
}

// Result returns the thread's result.  It blocks until the thread is done.
func (t *Thread) Result() (rdata.Value, error) {
	<-t.done
	return t.result, t.err
}

type limiter struct {
	sem *semaphore.Weighted
	n   int64
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// WithLimit bounds the number of threads running at once.  Spawn blocks
// while n threads are running.  A limit of zero or less means unbounded.
func WithLimit(n int64) Option {
	return func(r *Registry) {
		if n <= 0 {
			r.limit = nil
			return
		}
		r.limit = &limiter{sem: semaphore.NewWeighted(n), n: n}
	}
}

// WithLogger makes the registry log thread lifecycle events to l.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// Spawn starts fn in a new goroutine and registers it.  Every operand
// other than an immutable sequence is deep copied before fn sees it, along
// with its attribute values and list elements, so that no vector with a
// sharing state is reachable from two threads.  Spawn only fails when
// ctx is done while waiting for the thread limit.
func (r *Registry) Spawn(ctx context.Context, fn Func, operands ...rdata.Vector) (Handle, error) {
	if r.limit != nil {
		if err := r.limit.sem.Acquire(ctx, 1); err != nil {
			return Handle{}, err
		}
	}
	args := make([]rdata.Vector, len(operands))
	for i, v := range operands {
		if s, ok := v.(rdata.Sequence); ok {
			args[i] = s
			continue
		}
		args[i] = rdata.DeepCopy(v)
	}
	t := &Thread{done: make(chan struct{})}
	h := r.Add(t)
	r.log.Debug("spawn thread", "thread", h.String(), "operands", len(args))
	go func() {
		defer close(t.done)
		if r.limit != nil {
			defer r.limit.sem.Release(1)
		}
		t.result, t.err = run(ctx, fn, args)
	}()
	return h, nil
}

func run(ctx context.Context, fn Func, args []rdata.Vector) (result rdata.Value, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if e, ok := rec.(*rdata.Error); ok {
				err = e
				return
			}
			err = fmt.Errorf("thread panic: %v", rec)
		}
	}()
	return fn(ctx, args)
}

// Join waits for the thread named by h, removes it from the registry, and
// returns its result.  Join has no timeout; it blocks until the thread
// finishes.
func (r *Registry) Join(h Handle) (rdata.Value, error) {
	t, ok := r.Get(h)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownThread, h)
	}
	v, err := t.Result()
	r.Remove(h)
	r.log.Debug("join thread", "thread", h.String(), "error", err)
	return v, err
}

// JoinAll joins every registered thread.  Results are returned in the order
// of Handles at the time of the call.  The first thread error is returned
// after all threads have been joined; ctx does not interrupt running
// threads.
func (r *Registry) JoinAll(ctx context.Context) ([]rdata.Value, error) {
	hs := r.Handles()
	results := make([]rdata.Value, len(hs))
	g, _ := errgroup.WithContext(ctx)
	for i, h := range hs {
		g.Go(func() error {
			v, err := r.Join(h)
			results[i] = v
			return err
		})
	}
	return results, g.Wait()
}

// Limit returns the maximum number of concurrently running threads, or
// zero when unbounded.
func (r *Registry) Limit() int64 {
	if r.limit == nil {
		return 0
	}
	return r.limit.n
}
