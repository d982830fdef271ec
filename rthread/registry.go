// Copyright © 2024 The ELPS authors

// Package rthread tracks evaluation threads spawned by a runtime.
//
// A Registry is a slot map: a handle stays valid until the thread it names
// is removed, however many other threads are added or removed meanwhile,
// and a stale handle never resolves to a different thread.
package rthread

import (
	"fmt"
	"log/slog"
	"sync"
)

// Handle identifies a thread in a Registry.  The zero Handle is never
// issued.
type Handle struct {
	index uint32
	gen   uint32
}

func (h Handle) String() string {
	return fmt.Sprintf("thread#%d.%d", h.index, h.gen)
}

// IsZero returns true for the zero Handle.
func (h Handle) IsZero() bool {
	return h.gen == 0
}

type slot struct {
	gen    uint32
	thread *Thread
}

// slots is the unsynchronized slot map backing a Registry.
type slots struct {
	entries []slot
	free    []uint32
	live    int
}

func (s *slots) add(t *Thread) Handle {
	var i uint32
	if n := len(s.free); n > 0 {
		i = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		i = uint32(len(s.entries))
		s.entries = append(s.entries, slot{})
	}
	e := &s.entries[i]
	e.gen++
	e.thread = t
	s.live++
	return Handle{index: i, gen: e.gen}
}

func (s *slots) get(h Handle) (*Thread, bool) {
	if h.IsZero() || int(h.index) >= len(s.entries) {
		return nil, false
	}
	e := &s.entries[h.index]
	if e.gen != h.gen || e.thread == nil {
		return nil, false
	}
	return e.thread, true
}

func (s *slots) remove(h Handle) bool {
	if _, ok := s.get(h); !ok {
		return false
	}
	s.entries[h.index].thread = nil
	s.free = append(s.free, h.index)
	s.live--
	return true
}

func (s *slots) handles() []Handle {
	hs := make([]Handle, 0, s.live)
	for i, e := range s.entries {
		if e.thread != nil {
			hs = append(hs, Handle{index: uint32(i), gen: e.gen})
		}
	}
	return hs
}

// Registry is the set of threads spawned by one runtime.  All methods are
// safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	slots slots
	limit *limiter
	log   *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{log: discardLogger()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add records t and returns its handle.
func (r *Registry) Add(t *Thread) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slots.add(t)
}

// Get returns the thread named by h.
func (r *Registry) Get(h Handle) (*Thread, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slots.get(h)
}

// Remove forgets the thread named by h.  It returns false if h is stale.
func (r *Registry) Remove(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slots.remove(h)
}

// Len returns the number of registered threads.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slots.live
}

// Handles returns the handles of all registered threads in slot order.
func (r *Registry) Handles() []Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slots.handles()
}
