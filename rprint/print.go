// Copyright © 2024 The ELPS authors

// Package rprint renders values the way the R console prints them.
package rprint

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/luthersystems/rvm/rdata"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// DefaultWidth is the line width used when none is configured.
const DefaultWidth = 80

// Printer writes values to an output stream.
type Printer struct {
	w     io.Writer
	width int
}

// Option configures a Printer.
type Option func(*Printer)

// WithWidth sets the maximum line width.
func WithWidth(n int) Option {
	return func(p *Printer) {
		if n > 0 {
			p.width = n
		}
	}
}

// New returns a Printer writing to w.
func New(w io.Writer, opts ...Option) *Printer {
	p := &Printer{w: w, width: DefaultWidth}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Sprint returns the printed form of x.
func Sprint(x rdata.Value, opts ...Option) string {
	var buf strings.Builder
	_ = New(&buf, opts...).Print(x)
	return buf.String()
}

// Print writes x followed by a newline.
func (p *Printer) Print(x rdata.Value) error {
	var buf strings.Builder
	p.value(&buf, x, "")
	_, err := io.WriteString(p.w, buf.String())
	return err
}

func (p *Printer) value(buf *strings.Builder, x rdata.Value, tag string) {
	switch x := x.(type) {
	case nil:
		buf.WriteString("NULL\n")
	case rdata.Vector:
		if x.Type() == rdata.RList {
			p.list(buf, x.(rdata.ListReader), tag)
		} else {
			p.atomic(buf, x)
		}
		p.attributes(buf, x)
	default:
		p.cells(buf, []string{rdata.FormatValue(x)})
	}
}

func (p *Printer) list(buf *strings.Builder, v rdata.ListReader, tag string) {
	n := v.Len()
	if n == 0 {
		buf.WriteString("list()\n")
		return
	}
	names := rdata.Names(v)
	for i := 0; i < n; i++ {
		elemTag := tag + "[[" + strconv.Itoa(i+1) + "]]"
		if names != nil && !names.IsNA(i) && names.StringAt(i) != "" {
			elemTag = tag + "$" + names.StringAt(i)
		}
		buf.WriteString(elemTag + "\n")
		p.value(buf, v.ElemAt(i), elemTag)
		buf.WriteString("\n")
	}
}

func (p *Printer) atomic(buf *strings.Builder, v rdata.Vector) {
	n := v.Len()
	if n == 0 {
		buf.WriteString(v.Type().String() + "(0)\n")
		return
	}
	cells := make([]string, n)
	for i := range cells {
		cells[i] = formatCell(v, i)
	}
	if names := rdata.Names(v); names != nil && names.Len() == n {
		p.named(buf, names, cells)
		return
	}
	p.cells(buf, cells)
}

func formatCell(v rdata.Vector, i int) string {
	s := rdata.FormatElement(v, i)
	if v.Type() == rdata.RCharacter && !v.IsNA(i) {
		return strconv.Quote(s)
	}
	return s
}

// cells lays out right-aligned cells in rows, each prefixed with the
// index of its first cell.
func (p *Printer) cells(buf *strings.Builder, cells []string) {
	cw := maxWidth(cells)
	label := func(i int) string { return "[" + strconv.Itoa(i+1) + "]" }
	lw := ansi.PrintableRuneWidth(label(len(cells) - 1))
	perLine := (p.width - lw) / (cw + 1)
	if perLine < 1 {
		perLine = 1
	}
	for i := 0; i < len(cells); i += perLine {
		buf.WriteString(padLeft(label(i), lw))
		for j := i; j < i+perLine && j < len(cells); j++ {
			buf.WriteString(" ")
			buf.WriteString(padLeft(cells[j], cw))
		}
		buf.WriteString("\n")
	}
}

// named lays out cells under their names, without index labels.
func (p *Printer) named(buf *strings.Builder, names rdata.StringReader, cells []string) {
	heads := make([]string, len(cells))
	for i := range heads {
		if names.IsNA(i) {
			heads[i] = "<NA>"
		} else {
			heads[i] = names.StringAt(i)
		}
	}
	cw := maxWidth(heads)
	if w := maxWidth(cells); w > cw {
		cw = w
	}
	perLine := (p.width + 1) / (cw + 1)
	if perLine < 1 {
		perLine = 1
	}
	for i := 0; i < len(cells); i += perLine {
		end := i + perLine
		if end > len(cells) {
			end = len(cells)
		}
		row := func(xs []string) {
			for j, x := range xs {
				if j > 0 {
					buf.WriteString(" ")
				}
				buf.WriteString(padLeft(x, cw))
			}
			buf.WriteString("\n")
		}
		row(heads[i:end])
		row(cells[i:end])
	}
}

// attributes prints the attributes that are not part of the layout.
func (p *Printer) attributes(buf *strings.Builder, v rdata.Vector) {
	v.Attributes().Each(func(name string, x rdata.Value) bool {
		if name == rdata.AttrNames {
			return true
		}
		fmt.Fprintf(buf, "attr(,%q)\n", name)
		p.value(buf, x, "")
		return true
	})
}

func maxWidth(xs []string) int {
	w := 0
	for _, x := range xs {
		if n := ansi.PrintableRuneWidth(x); n > w {
			w = n
		}
	}
	return w
}

func padLeft(s string, w int) string {
	n := ansi.PrintableRuneWidth(s)
	if n >= w {
		return s
	}
	return strings.Repeat(" ", w-n) + s
}

// Describe writes a summary of the representation of v: its form, kind,
// length, sharing state and attributes.
func Describe(w io.Writer, v rdata.Vector, width int) error {
	if width <= 0 {
		width = DefaultWidth
	}
	var body strings.Builder
	switch v := v.(type) {
	case rdata.Sequence:
		fmt.Fprintf(&body, "start %s, stride %s\n",
			rdata.FormatValue(v.StartValue()), rdata.FormatValue(v.StrideValue()))
	case rdata.Concrete:
		fmt.Fprintf(&body, "sharing %s\n", v.Sharing())
	}
	fmt.Fprintf(&body, "complete %t\n", v.IsComplete())
	if rdata.HasAttributes(v) {
		body.WriteString(wordwrap.String("attributes "+v.Attributes().String(), width-2))
		body.WriteString("\n")
	}
	header := fmt.Sprintf("%s %s, length %d\n", v.Type(), v.Form(), v.Len())
	_, err := io.WriteString(w, header+indent.String(body.String(), 2))
	return err
}
