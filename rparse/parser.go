// Copyright © 2024 The ELPS authors

/*
Package rparse parses vector literals.

	operand  := <seq> | <range> | 'c(' <elems> ')' | <elems>
	seq      := 'seq(' <number> ',' <number> ',' <number> ')'
	range    := <number> ':' <number>
	elems    := <elem> (',' <elem>)*
	elem     := <complex> | <number> | 'NA' | 'TRUE' | 'FALSE' | <string>
	number   := /[+-]?[0-9]+/ <fraction>? <exponent>? 'L'?
	complex  := <number> /[+-]/ <number> 'i'

Numbers are double unless suffixed with L.  A range is an integer sequence
with stride 1 or -1 when both ends are whole, and seq(start, stride, n) is
an integer sequence when start and stride are whole.
*/
package rparse

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/luthersystems/rvm/rdata"
	parsec "github.com/prataprc/goparsec"
)

// element is a parsed vector element.  An NA element has kind RNull and
// takes the kind of the vector it ends up in.
type element struct {
	kind rdata.RType
	text string
}

type sequenceSpec struct {
	start, stride float64
	n             int
}

const (
	decimalPattern = `[+-]?[0-9]+(?:[.][0-9]+)?(?:[eE][+-]?[0-9]+)?`
)

// SyntaxError reports text that is not a vector literal.
type SyntaxError struct {
	Text string
	// Offset is the byte offset of the unexpected text.
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d: %s", e.Offset, e.Msg)
}

// Parse parses a vector literal.
func Parse(text string) (rdata.Vector, error) {
	s := parsec.NewScanner([]byte(text))
	root, s := newParsecParser()(s)
	_, s = s.SkipWS()
	if root == nil || !s.Endof() {
		b, _ := s.Match(`.{1,16}`)
		return nil, &SyntaxError{
			Text:   text,
			Offset: s.GetCursor(),
			Msg:    fmt.Sprintf("unexpected text in vector literal: %q", b),
		}
	}
	nodes := flatten(root)
	if len(nodes) == 0 {
		return nil, &SyntaxError{Text: text, Msg: "empty vector literal"}
	}
	switch x := nodes[0].(type) {
	case error:
		return nil, x
	case sequenceSpec:
		return x.vector()
	}
	elems := make([]element, 0, len(nodes))
	for _, n := range nodes {
		if err, ok := n.(error); ok {
			return nil, err
		}
		e, ok := n.(element)
		if !ok {
			return nil, fmt.Errorf("unexpected node %v", n)
		}
		elems = append(elems, e)
	}
	return build(elems)
}

func newParsecParser() parsec.Parser {
	comma := parsec.Atom(",", "COMMA")
	colon := parsec.Atom(":", "COLON")
	openSeq := parsec.Atom("seq(", "OPENSEQ")
	openC := parsec.Atom("c(", "OPENC")
	closeP := parsec.Atom(")", "CLOSEP")
	complexNum := parsec.Token(decimalPattern+`[+-][0-9]+(?:[.][0-9]+)?(?:[eE][+-]?[0-9]+)?i`, "COMPLEX")
	integer := parsec.Token(`[+-]?[0-9]+L`, "INTEGER")
	decimal := parsec.Token(decimalPattern, "DECIMAL")
	na := parsec.Token(`NA\b`, "NA")
	logical := parsec.Token(`(?:TRUE|FALSE)\b`, "LOGICAL")

	number := parsec.OrdChoice(nil, integer, decimal)
	elem := parsec.OrdChoice(elemNode, complexNum, integer, decimal, na, logical, parsec.String())
	elems := parsec.Kleene(nil, elem, comma)
	seq := parsec.And(seqNode, openSeq, number, comma, number, comma, number, closeP)
	rng := parsec.And(rangeNode, number, colon, number)
	cexpr := parsec.And(nil, openC, elems, closeP)
	return parsec.OrdChoice(nil, seq, rng, cexpr, elems)
}

// flatten returns the semantic nodes below n, dropping punctuation.
func flatten(n parsec.ParsecNode) []parsec.ParsecNode {
	switch n := n.(type) {
	case []parsec.ParsecNode:
		var out []parsec.ParsecNode
		for _, c := range n {
			out = append(out, flatten(c)...)
		}
		return out
	case *parsec.Terminal:
		switch n.GetName() {
		case "COMMA", "COLON", "OPENSEQ", "OPENC", "CLOSEP":
			return nil
		}
		return []parsec.ParsecNode{n}
	case nil:
		return nil
	}
	return []parsec.ParsecNode{n}
}

func elemNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes = flatten(nodes)
	if len(nodes) != 1 {
		return fmt.Errorf("invalid element")
	}
	switch t := nodes[0].(type) {
	case string:
		s, err := strconv.Unquote(t)
		if err != nil {
			return fmt.Errorf("bad string %s: %v", t, err)
		}
		return element{kind: rdata.RCharacter, text: s}
	case *parsec.Terminal:
		switch t.GetName() {
		case "COMPLEX":
			return element{kind: rdata.RComplex, text: t.GetValue()}
		case "INTEGER":
			return element{kind: rdata.RInteger, text: strings.TrimSuffix(t.GetValue(), "L")}
		case "DECIMAL":
			return element{kind: rdata.RDouble, text: t.GetValue()}
		case "LOGICAL":
			return element{kind: rdata.RLogical, text: t.GetValue()}
		case "NA":
			return element{kind: rdata.RNull}
		}
	}
	return fmt.Errorf("invalid element %v", nodes[0])
}

func numbers(nodes []parsec.ParsecNode) ([]float64, error) {
	nodes = flatten(nodes)
	xs := make([]float64, len(nodes))
	for i, n := range nodes {
		t, ok := n.(*parsec.Terminal)
		if !ok {
			return nil, fmt.Errorf("expected a number, got %v", n)
		}
		x, err := strconv.ParseFloat(strings.TrimSuffix(t.GetValue(), "L"), 64)
		if err != nil {
			return nil, fmt.Errorf("bad number: %v (%s)", err, t.GetValue())
		}
		xs[i] = x
	}
	return xs, nil
}

func seqNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	xs, err := numbers(nodes)
	if err != nil {
		return err
	}
	if len(xs) != 3 {
		return fmt.Errorf("seq takes start, stride and length")
	}
	if xs[2] < 0 || xs[2] != math.Trunc(xs[2]) {
		return fmt.Errorf("invalid sequence length %v", xs[2])
	}
	return sequenceSpec{start: xs[0], stride: xs[1], n: int(xs[2])}
}

func rangeNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	xs, err := numbers(nodes)
	if err != nil {
		return err
	}
	if len(xs) != 2 {
		return fmt.Errorf("a range takes two ends")
	}
	from, to := xs[0], xs[1]
	stride := 1.0
	if to < from {
		stride = -1
	}
	n := math.Floor(math.Abs(to-from)) + 1
	if n > math.MaxInt32 {
		return fmt.Errorf("range %v:%v is too long", from, to)
	}
	return sequenceSpec{start: from, stride: stride, n: int(n)}
}

func whole(x float64) bool {
	return x == math.Trunc(x) && x > math.MinInt32 && x <= math.MaxInt32
}

func (s sequenceSpec) vector() (rdata.Vector, error) {
	if whole(s.start) && whole(s.stride) {
		start, stride := int32(s.start), int32(s.stride)
		if err := rdata.ValidIntSequence(start, stride, s.n); err == nil {
			return rdata.NewIntSequence(start, stride, s.n), nil
		}
	}
	if err := rdata.ValidDoubleSequence(s.start, s.stride, s.n); err != nil {
		return nil, err
	}
	return rdata.NewDoubleSequence(s.start, s.stride, s.n), nil
}

// build returns a vector of the highest kind among elems.  A vector of
// only NA elements is logical.
func build(elems []element) (rdata.Vector, error) {
	kind := rdata.RLogical
	for _, e := range elems {
		kind = rdata.MaxPrecedence(kind, e.kind)
	}
	n := len(elems)
	if kind == rdata.RCharacter {
		data := make([]string, n)
		var na []int
		for i, e := range elems {
			if e.kind == rdata.RNull {
				na = append(na, i)
				continue
			}
			data[i] = e.text
		}
		return rdata.NewStringVector(data, na...), nil
	}
	v := rdata.Create(kind, n, true)
	for i, e := range elems {
		if err := set(v, i, e); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// set stores e, widened to the kind of v, at index i.
func set(v rdata.Concrete, i int, e element) error {
	if e.kind == rdata.RNull {
		switch v := v.(type) {
		case *rdata.LogicalVector:
			v.SetLogicalAt(i, rdata.LogicalNA)
		case *rdata.IntVector:
			v.SetIntAt(i, rdata.IntNA)
		case *rdata.DoubleVector:
			v.SetDoubleAt(i, rdata.DoubleNA)
		case *rdata.ComplexVector:
			v.SetComplexAt(i, rdata.ComplexNA)
		}
		return nil
	}
	switch v := v.(type) {
	case *rdata.LogicalVector:
		v.SetLogicalAt(i, rdata.AsLogical(e.text == "TRUE"))
	case *rdata.IntVector:
		x, err := strconv.ParseInt(e.text, 10, 32)
		if err != nil || rdata.IsIntNA(int32(x)) {
			if e.kind == rdata.RLogical {
				x = 0
				if e.text == "TRUE" {
					x = 1
				}
			} else {
				return fmt.Errorf("bad integer: %s", e.text)
			}
		}
		v.SetIntAt(i, int32(x))
	case *rdata.DoubleVector:
		x, err := parseReal(e)
		if err != nil {
			return err
		}
		v.SetDoubleAt(i, x)
	case *rdata.ComplexVector:
		if e.kind != rdata.RComplex {
			x, err := parseReal(e)
			if err != nil {
				return err
			}
			v.SetComplexAt(i, complex(x, 0))
			return nil
		}
		z, err := strconv.ParseComplex(e.text, 128)
		if err != nil {
			return fmt.Errorf("bad complex number: %s", e.text)
		}
		v.SetComplexAt(i, z)
	}
	return nil
}

func parseReal(e element) (float64, error) {
	if e.kind == rdata.RLogical {
		if e.text == "TRUE" {
			return 1, nil
		}
		return 0, nil
	}
	x, err := strconv.ParseFloat(e.text, 64)
	if err != nil {
		return 0, fmt.Errorf("bad number: %s", e.text)
	}
	return x, nil
}
