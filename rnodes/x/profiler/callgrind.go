// Copyright © 2024 The ELPS authors

package profiler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/luthersystems/rvm/rnodes"
)

// errWriter wraps an io.Writer and captures the first write error,
// short-circuiting subsequent writes after a failure.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) print(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprint(ew.w, s)
}

// A profiler implementation that builds Callgrind files.  Every node
// execution is a function; a method that executes other nodes is their
// caller.  The resulting files can be opened in KCacheGrind or
// QCacheGrind.
type callgrindProfiler struct {
	profiler
	sync.Mutex
	runtime    *rnodes.Runtime
	writer     io.Writer
	writeErr   error
	startTime  time.Time
	refs       map[string]int
	refCounter int
	root       *callRef
}

var _ rnodes.Profiler = &callgrindProfiler{}

// Returns a new Callgrind processor
func NewCallgrindProfiler(runtime *rnodes.Runtime, opts ...Option) *callgrindProfiler {
	p := &callgrindProfiler{runtime: runtime}
	p.applyConfigs(opts...)
	return p
}

// Represents something that got called
type callRef struct {
	start       time.Time
	name        string
	children    []*callRef
	duration    time.Duration
	startMemory uint64
}

type callRefKey struct{}

// SetOutput directs the profile to w.  It is closed by Complete when it
// implements io.Closer.
func (p *callgrindProfiler) SetOutput(w io.Writer) error {
	p.Lock()
	defer p.Unlock()
	if p.IsEnabled() {
		return errors.New("profiler already enabled")
	}
	p.writer = w
	return nil
}

func (p *callgrindProfiler) SetFile(filename string) error {
	f, err := os.Create(filename) //#nosec G304
	if err != nil {
		return err
	}
	if err := p.SetOutput(f); err != nil {
		_ = f.Close()
		return err
	}
	return nil
}

func (p *callgrindProfiler) Enable() error {
	p.Lock()
	defer p.Unlock()
	if p.IsEnabled() {
		return errors.New("profiler already enabled")
	}
	if p.writer == nil {
		return errors.New("no output set in profiler")
	}
	w := &errWriter{w: p.writer}
	w.printf("version: 1\ncreator: rvm (Go %s)\n", runtime.Version())
	w.printf("cmd: Execute\npart: 1\npositions: line\n\n")
	w.printf("events: Time_(ns) Memory_(bytes)\n\n")
	if w.err != nil {
		return w.err
	}
	p.startTime = time.Now()
	p.refs = make(map[string]int)
	p.refCounter = 0
	p.root = newCallRef("ENTRYPOINT")
	p.runtime.Profiler = p
	return p.profiler.Enable()
}

func (p *callgrindProfiler) Complete() error {
	p.enabled.Store(false)
	p.Lock()
	defer p.Unlock()
	if p.root == nil {
		return errors.New("profiler not enabled")
	}
	if p.writeErr != nil {
		return p.writeErr
	}
	ref := p.root
	ref.duration = time.Since(ref.start)
	w := &errWriter{w: p.writer}
	w.printf("fn=%s\n", p.getRef(ref.name))
	w.printf("%d %d %d\n", 0, ref.duration, 0)
	p.writeCalls(w, ref)
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	w.printf("summary %d %d\n\n", time.Since(p.startTime).Nanoseconds(), ms.TotalAlloc)
	if w.err != nil {
		return w.err
	}
	if c, ok := p.writer.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (p *callgrindProfiler) getRef(name string) string {
	if ref, ok := p.refs[name]; ok {
		return fmt.Sprintf("(%d)", ref)
	}
	p.refCounter++
	p.refs[name] = p.refCounter
	return fmt.Sprintf("(%d) %s", p.refCounter, name)
}

func newCallRef(name string) *callRef {
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	return &callRef{
		name:        name,
		start:       time.Now(),
		startMemory: ms.TotalAlloc,
	}
}

func (p *callgrindProfiler) Start(ctx context.Context, node rnodes.Node) (context.Context, func()) {
	if p.skipTrace(node) {
		return ctx, func() {}
	}
	ref := newCallRef(p.label(node))
	p.Lock()
	caller, ok := ctx.Value(callRefKey{}).(*callRef)
	if !ok {
		caller = p.root
	}
	caller.children = append(caller.children, ref)
	p.Unlock()
	return context.WithValue(ctx, callRefKey{}, ref), func() {
		p.end(ref)
	}
}

func (p *callgrindProfiler) end(ref *callRef) {
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	p.Lock()
	defer p.Unlock()
	if p.writeErr != nil {
		return
	}
	ref.duration = time.Since(ref.start)
	if ref.duration == 0 {
		ref.duration = 1
	}
	memory := ms.TotalAlloc - ref.startMemory
	w := &errWriter{w: p.writer}
	w.printf("fn=%s\n", p.getRef(ref.name))
	w.printf("%d %d %d\n", 0, ref.duration, memory)
	p.writeCalls(w, ref)
	if w.err != nil {
		p.writeErr = w.err
	}
}

// writeCalls outputs the things ref called and ends the entry.
func (p *callgrindProfiler) writeCalls(w *errWriter, ref *callRef) {
	for _, entry := range ref.children {
		w.printf("cfn=%s\n", p.getRef(entry.name))
		w.print("calls=1 0\n")
		w.printf("%d %d %d\n", 0, entry.duration, 0)
	}
	w.print("\n")
}
