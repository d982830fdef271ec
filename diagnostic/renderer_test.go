// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, d Diagnostic) string {
	t.Helper()
	var buf bytes.Buffer
	r := &Renderer{Color: ColorNever}
	require.NoError(t, r.Render(&buf, d))
	return buf.String()
}

func TestRenderError(t *testing.T) {
	got := render(t, Diagnostic{
		Severity: SeverityError,
		Message:  "unexpected text in vector literal",
		Spans: []Span{
			{Name: "operand 1", Text: "1, 2 3", Offset: 5, Label: "expected ','"},
		},
	})
	want := "error: unexpected text in vector literal\n" +
		"  --> operand 1:6\n" +
		"   |\n" +
		"   |  1, 2 3\n" +
		"   |       ^ expected ','\n" +
		"   |\n"
	assert.Equal(t, want, got)
}

func TestRenderTokenUnderline(t *testing.T) {
	got := render(t, Diagnostic{
		Severity: SeverityError,
		Message:  "bad",
		Spans:    []Span{{Text: "c(1, foo)", Offset: 5}},
	})
	assert.Contains(t, got, "   |  c(1, foo)\n   |       ^^^\n")
	assert.NotContains(t, got, "-->")
}

func TestRenderEndOfInput(t *testing.T) {
	got := render(t, Diagnostic{
		Severity: SeverityError,
		Message:  "truncated",
		Spans:    []Span{{Name: "lhs", Text: "1,", Offset: 2}},
	})
	assert.Contains(t, got, "  --> lhs:3\n")
	assert.Contains(t, got, "   |    ^\n")
}

func TestRenderNoOffset(t *testing.T) {
	got := render(t, Diagnostic{
		Severity: SeverityWarning,
		Message:  "empty vector literal",
		Spans:    []Span{{Name: "rhs", Text: "", Offset: -1}},
		Notes:    []string{"use NA for a missing value"},
	})
	want := "warning: empty vector literal\n" +
		"  --> rhs\n" +
		"   |\n" +
		"   |  \n" +
		"   |\n" +
		"   = note: use NA for a missing value\n"
	assert.Equal(t, want, got)
}

func TestRenderAll(t *testing.T) {
	var buf bytes.Buffer
	r := &Renderer{Color: ColorNever}
	err := r.RenderAll(&buf, []Diagnostic{
		{Severity: SeverityError, Message: "one"},
		{Severity: SeverityNote, Message: "two"},
	})
	require.NoError(t, err)
	assert.Equal(t, "error: one\n\nnote: two\n", buf.String())
}

func TestRenderColor(t *testing.T) {
	var buf bytes.Buffer
	r := &Renderer{Color: ColorAlways}
	require.NoError(t, r.Render(&buf, Diagnostic{Message: "x"}))
	assert.Contains(t, buf.String(), "\033[1;31merror\033[0m")
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestRenderWriteError(t *testing.T) {
	r := &Renderer{Color: ColorNever}
	err := r.Render(failWriter{}, Diagnostic{Message: "x"})
	assert.EqualError(t, err, "closed")
}

func TestParseColorMode(t *testing.T) {
	for s, want := range map[string]ColorMode{"": ColorAuto, "auto": ColorAuto, "always": ColorAlways, "never": ColorNever} {
		m, ok := ParseColorMode(s)
		assert.True(t, ok, s)
		assert.Equal(t, want, m, s)
	}
	_, ok := ParseColorMode("sometimes")
	assert.False(t, ok)
}
