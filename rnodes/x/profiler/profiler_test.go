// Copyright © 2024 The ELPS authors

package profiler_test

import (
	"bytes"
	"context"
	"runtime/pprof"
	"sync"
	"testing"

	"github.com/luthersystems/rvm/rdata"
	"github.com/luthersystems/rvm/rnodes"
	"github.com/luthersystems/rvm/rnodes/x/profiler"
	"github.com/luthersystems/rvm/rops"
	"github.com/luthersystems/rvm/rtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opencensus.io/trace"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// execute runs a few operators, one of them through a class method that
// executes another node.
func execute(t *testing.T, rt *rnodes.Runtime) {
	t.Helper()
	add := rnodes.NewBinaryNode(rt, rops.Add)
	neg := rnodes.NewUnaryNode(rt, rops.Negate)
	rt.Methods.Register("-", "wrapped", func(ctx context.Context, rt *rnodes.Runtime, operands []rdata.Vector) (rdata.Value, error) {
		return add.Execute(ctx, operands[0], int32(1))
	})
	ctx := context.Background()
	_, err := add.Execute(ctx, rdata.Ints(1, 2), int32(3))
	require.NoError(t, err)
	_, err = neg.Execute(ctx, rdata.NewIntSequence(1, 1, 10))
	require.NoError(t, err)
	v := rdata.Ints(1)
	v.SetAttr(rdata.AttrClass, rdata.Strings("wrapped"))
	_, err = neg.Execute(ctx, v)
	require.NoError(t, err)
}

func newTracerProvider(t *testing.T) *tracetest.InMemoryExporter {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	t.Cleanup(func() {
		err := tp.Shutdown(context.Background())
		assert.NoError(t, err, "TracerProvider shutdown")
	})
	otel.SetTracerProvider(tp)
	return exporter
}

func TestNewOpenTelemetryAnnotator(t *testing.T) {
	exporter := newTracerProvider(t)
	rt := rtest.NewRuntime(t)
	ppa := profiler.NewOpenTelemetryAnnotator(rt, context.Background())
	require.NoError(t, ppa.Enable())
	assert.Error(t, ppa.Enable())
	execute(t, rt)
	require.NoError(t, ppa.Complete())

	spans := exporter.GetSpans()
	require.Len(t, spans, 4)
	names := make([]string, len(spans))
	for i, s := range spans {
		names[i] = s.Name
	}
	// Spans are exported as they end, so the method's inner span comes
	// first.
	assert.Equal(t, []string{"+", "-", "+", "-"}, names)
	assert.Equal(t, spans[3].SpanContext.SpanID(), spans[2].Parent.SpanID())
	assert.False(t, spans[0].Parent.IsValid())

	// Disabled profilers record nothing.
	exporter.Reset()
	execute(t, rt)
	assert.Empty(t, exporter.GetSpans())
}

func TestNewOpenTelemetryAnnotatorSkip(t *testing.T) {
	exporter := newTracerProvider(t)
	rt := rtest.NewRuntime(t)
	ppa := profiler.NewOpenTelemetryAnnotator(rt, context.Background(),
		profiler.WithOperatorFilter("+"),
		profiler.WithPathLabeler())
	require.NoError(t, ppa.Enable())
	execute(t, rt)
	require.NoError(t, ppa.Complete())

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "+_none", spans[0].Name, "Expected path label")
	assert.Equal(t, "+_in-place", spans[1].Name, "Expected path label")
}

type spanRecorder struct {
	mu    sync.Mutex
	names []string
}

func (r *spanRecorder) ExportSpan(sd *trace.SpanData) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, sd.Name)
}

func TestNewOpenCensusAnnotator(t *testing.T) {
	trace.ApplyConfig(trace.Config{DefaultSampler: trace.AlwaysSample()})
	rec := &spanRecorder{}
	trace.RegisterExporter(rec)
	t.Cleanup(func() { trace.UnregisterExporter(rec) })

	rt := rtest.NewRuntime(t)
	ppa := profiler.NewOpenCensusAnnotator(rt, nil)
	assert.Error(t, ppa.Enable())
	require.NoError(t, ppa.EnableWithContext(context.Background()))
	execute(t, rt)
	require.NoError(t, ppa.Complete())

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, []string{"+", "-", "+", "-"}, rec.names)
}

func TestNewCallgrind(t *testing.T) {
	rt := rtest.NewRuntime(t)
	p := profiler.NewCallgrindProfiler(rt)
	assert.Error(t, p.Enable())
	var buf bytes.Buffer
	require.NoError(t, p.SetOutput(&buf))
	require.NoError(t, p.Enable())
	assert.Error(t, p.SetOutput(&buf))
	execute(t, rt)
	require.NoError(t, p.Complete())

	out := buf.String()
	assert.Contains(t, out, "events: Time_(ns) Memory_(bytes)\n")
	assert.Contains(t, out, "fn=(1) +\n")
	assert.Contains(t, out, "fn=(2) -\n")
	// The method's inner addition is a call of the negation.
	assert.Contains(t, out, "fn=(2)\n0 ")
	assert.Contains(t, out, "cfn=(1)\ncalls=1 0\n")
	assert.Contains(t, out, "fn=(3) ENTRYPOINT\n")
	assert.Contains(t, out, "summary ")
}

func TestNewPprofAnnotator(t *testing.T) {
	rt := rtest.NewRuntime(t)
	ppa := profiler.NewPprofAnnotator(rt)
	require.NoError(t, ppa.Enable())
	var label string
	rt.Methods.Register(rnodes.GroupOps, "labeled", func(ctx context.Context, rt *rnodes.Runtime, operands []rdata.Vector) (rdata.Value, error) {
		label, _ = pprof.Label(ctx, "operator")
		return operands[0], nil
	})
	v := rdata.Ints(1)
	v.SetAttr(rdata.AttrClass, rdata.Strings("labeled"))
	_, err := rnodes.NewUnaryNode(rt, rops.Abs).Execute(context.Background(), v)
	require.NoError(t, err)
	require.NoError(t, ppa.Complete())
	assert.Equal(t, "abs", label)
}
