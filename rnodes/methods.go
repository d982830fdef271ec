// Copyright © 2024 The ELPS authors

package rnodes

import (
	"context"
	"sort"
	"sync"

	"github.com/luthersystems/rvm/rdata"
)

// GroupOps is the group generic consulted after an operator's own
// methods.
const GroupOps = "Ops"

// Method implements an operator for operands of a class.
type Method func(ctx context.Context, rt *Runtime, operands []rdata.Vector) (rdata.Value, error)

// MethodTable maps generic.class names to methods.  It is safe for
// concurrent use.
type MethodTable struct {
	mu      sync.RWMutex
	methods map[string]Method
}

// NewMethodTable returns an empty table.
func NewMethodTable() *MethodTable {
	return &MethodTable{methods: make(map[string]Method)}
}

func methodName(generic, class string) string {
	return generic + "." + class
}

// Register binds m as the method of generic for class.
func (t *MethodTable) Register(generic, class string, m Method) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.methods[methodName(generic, class)] = m
}

// Unregister removes the method of generic for class.
func (t *MethodTable) Unregister(generic, class string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.methods, methodName(generic, class))
}

// Lookup returns the method of generic for class.
func (t *MethodTable) Lookup(generic, class string) (Method, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	m, ok := t.methods[methodName(generic, class)]
	return m, ok
}

// Names returns the registered method names in sorted order.
func (t *MethodTable) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.methods))
	for name := range t.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve finds the method for an application of generic.  Operands are
// considered in order; for each operand with a class attribute its
// classes are tried in order, first for generic and then for the Ops
// group generic.
func (t *MethodTable) Resolve(generic string, operands []rdata.Vector) (Method, string, bool) {
	for _, v := range operands {
		if !rdata.IsObject(v) {
			continue
		}
		for _, class := range rdata.ClassHierarchy(v) {
			for _, g := range [...]string{generic, GroupOps} {
				if m, ok := t.Lookup(g, class); ok {
					return m, methodName(g, class), true
				}
			}
		}
	}
	return nil, "", false
}

// dispatch runs the method resolved for generic.  It reports false when
// there is none and the primitive operator applies.
func (t *MethodTable) dispatch(ctx context.Context, rt *Runtime, generic string, operands []rdata.Vector) (rdata.Value, bool, error) {
	if t == nil {
		return nil, false, nil
	}
	m, name, ok := t.Resolve(generic, operands)
	if !ok {
		return nil, false, nil
	}
	rt.Logger.Debug("dispatch method", "method", name)
	r, err := m(ctx, rt, operands)
	return r, true, err
}
