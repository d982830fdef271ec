// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Renderer formats diagnostics as annotated input snippets.
type Renderer struct {
	Color ColorMode
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	p := choosePalette(r.Color, w)
	bw := bufio.NewWriter(w)
	ew := &errWriter{w: bw}

	writeHeader(ew, d, p)
	for _, span := range d.Spans {
		writeSpan(ew, span, p)
	}
	for _, note := range d.Notes {
		ew.printf("   %s=%s note: %s\n", p.boldCyan, p.reset, note)
	}
	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}

// RenderAll writes diagnostics to w separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	return nil
}

// errWriter captures the first write error and skips later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, a ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, a...)
}

func writeHeader(ew *errWriter, d Diagnostic, p palette) {
	color := p.boldRed
	switch d.Severity {
	case SeverityWarning:
		color = p.yellow
	case SeverityNote:
		color = p.boldCyan
	}
	ew.printf("%s%s%s: %s%s%s\n", color, d.Severity, p.reset, p.bold, d.Message, p.reset)
}

func writeSpan(ew *errWriter, span Span, p palette) {
	if span.Name != "" {
		loc := span.Name
		if span.Offset >= 0 {
			loc = fmt.Sprintf("%s:%d", span.Name, span.Offset+1)
		}
		ew.printf("  %s-->%s %s\n", p.boldBlue, p.reset, loc)
	}
	text := firstLine(span.Text)
	ew.printf("   %s|%s\n", p.boldBlue, p.reset)
	ew.printf("   %s|%s  %s\n", p.boldBlue, p.reset, text)
	if span.Offset < 0 {
		ew.printf("   %s|%s\n", p.boldBlue, p.reset)
		return
	}
	start := span.Offset
	if start > len(text) {
		start = len(text)
	}
	n := span.Len
	if n <= 0 {
		n = tokenLen(text[start:])
	}
	pad := strings.Repeat(" ", utf8.RuneCountInString(text[:start]))
	ew.printf("   %s|%s  %s%s%s%s", p.boldBlue, p.reset, pad, p.boldRed, strings.Repeat("^", n), p.reset)
	if span.Label != "" {
		ew.printf(" %s%s%s", p.boldRed, span.Label, p.reset)
	}
	ew.printf("\n   %s|%s\n", p.boldBlue, p.reset)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// tokenLen returns the rune length of the token at the start of s.  It is
// at least one so that an error at the end of the input is still marked.
func tokenLen(s string) int {
	n := 0
	for _, ch := range s {
		if ch == ' ' || ch == ',' || ch == '(' || ch == ')' {
			break
		}
		n++
	}
	if n == 0 {
		return 1
	}
	return n
}
