// Copyright © 2024 The ELPS authors

// Package rserialize encodes vectors in a compact binary format.
//
// An encoded vector starts with a five byte header, the magic "RVEC"
// followed by the compression method.  The remainder, after
// decompression, is a format version byte and one encoded value.
// Sequences are stored by shape and decode as sequences; closures are
// materialized.
package rserialize

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/luthersystems/rvm/rdata"
)

const (
	magic   = "RVEC"
	version = 1
)

// ErrFormat is returned for input that is not an encoded vector.
var ErrFormat = errors.New("invalid vector encoding")

// value tags
const (
	tagNull byte = iota
	tagVector
	tagInt
	tagDouble
	tagLogical
	tagComplex
	tagString
	tagRaw
)

// Marshal returns the encoding of v.
func Marshal(v rdata.Vector, c Compression) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, v, c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a vector produced by Marshal.
func Unmarshal(b []byte, opts ...DecodeOption) (rdata.Vector, error) {
	return Decode(bytes.NewReader(b), opts...)
}

// DefaultMaxSequenceLen bounds the length of decoded sequences.  A
// sequence is stored by shape, so its length is not limited by the size of
// the input.
const DefaultMaxSequenceLen = 1 << 28

// DecodeOption configures Decode.
type DecodeOption func(d *decoder)

// WithMaxSequenceLen returns a DecodeOption that rejects sequences longer
// than n instead of DefaultMaxSequenceLen.
func WithMaxSequenceLen(n int) DecodeOption {
	return func(d *decoder) {
		d.maxSeq = n
	}
}

// Encode writes the encoding of v to w.
func Encode(w io.Writer, v rdata.Vector, c Compression) error {
	body, err := appendVector([]byte{version}, v)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, magic); err != nil {
		return err
	}
	if _, err := w.Write([]byte{byte(c)}); err != nil {
		return err
	}
	cw, err := c.writer(w)
	if err != nil {
		return err
	}
	if _, err := cw.Write(body); err != nil {
		cw.Close()
		return err
	}
	return cw.Close()
}

// Decode reads one encoded vector from r.  The complete flag of a decoded
// vector is recomputed from its elements.
func Decode(r io.Reader, opts ...DecodeOption) (rdata.Vector, error) {
	var header [len(magic) + 1]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if string(header[:len(magic)]) != magic {
		return nil, fmt.Errorf("%w: bad magic", ErrFormat)
	}
	cr, err := Compression(header[len(magic)]).reader(r)
	if err != nil {
		return nil, err
	}
	defer cr.Close()
	body, err := io.ReadAll(cr)
	if err != nil {
		return nil, err
	}
	d := &decoder{b: body, maxSeq: DefaultMaxSequenceLen}
	for _, opt := range opts {
		opt(d)
	}
	if v := d.u8(); v != version {
		if d.err != nil {
			return nil, d.err
		}
		return nil, fmt.Errorf("%w: unsupported version %d", ErrFormat, v)
	}
	v := d.vector()
	if d.err != nil {
		return nil, d.err
	}
	return v, nil
}

func appendVector(b []byte, v rdata.Vector) ([]byte, error) {
	b = append(b, byte(v.Type()), byte(v.Form()))
	if v.Form() == rdata.FormSequence {
		return appendSequence(b, v.(rdata.Sequence))
	}
	if v.Form() == rdata.FormClosure {
		v = v.Materialize()
		b[len(b)-1] = byte(rdata.FormConcrete)
	}
	b = append(b, boolByte(v.IsComplete()))
	n := v.Len()
	b = binary.AppendUvarint(b, uint64(n))

	var err error
	if b, err = appendAttributes(b, v.Attributes()); err != nil {
		return nil, err
	}
	switch v := v.(type) {
	case rdata.IntReader:
		for i := 0; i < n; i++ {
			b = binary.LittleEndian.AppendUint32(b, uint32(v.IntAt(i)))
		}
	case rdata.DoubleReader:
		for i := 0; i < n; i++ {
			b = binary.LittleEndian.AppendUint64(b, math.Float64bits(v.DoubleAt(i)))
		}
	case rdata.LogicalReader:
		for i := 0; i < n; i++ {
			b = append(b, byte(v.LogicalAt(i)))
		}
	case rdata.ComplexReader:
		for i := 0; i < n; i++ {
			z := v.ComplexAt(i)
			b = binary.LittleEndian.AppendUint64(b, math.Float64bits(real(z)))
			b = binary.LittleEndian.AppendUint64(b, math.Float64bits(imag(z)))
		}
	case rdata.StringReader:
		for i := 0; i < n; i++ {
			if v.IsNA(i) {
				b = append(b, 1)
				continue
			}
			b = appendString(append(b, 0), v.StringAt(i))
		}
	case rdata.RawReader:
		for i := 0; i < n; i++ {
			b = append(b, v.RawAt(i))
		}
	case rdata.ListReader:
		for i := 0; i < n; i++ {
			if b, err = appendValue(b, v.ElemAt(i)); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("cannot encode %s vector", v.Type())
	}
	return b, nil
}

func appendSequence(b []byte, s rdata.Sequence) ([]byte, error) {
	b = binary.AppendUvarint(b, uint64(s.Len()))
	switch s := s.(type) {
	case *rdata.IntSequence:
		b = binary.LittleEndian.AppendUint32(b, uint32(s.Start()))
		b = binary.LittleEndian.AppendUint32(b, uint32(s.Stride()))
	case *rdata.DoubleSequence:
		b = binary.LittleEndian.AppendUint64(b, math.Float64bits(s.Start()))
		b = binary.LittleEndian.AppendUint64(b, math.Float64bits(s.Stride()))
	default:
		return nil, fmt.Errorf("cannot encode %s sequence", s.Type())
	}
	return b, nil
}

func appendAttributes(b []byte, attrs *rdata.Attributes) ([]byte, error) {
	b = binary.AppendUvarint(b, uint64(attrs.Len()))
	var err error
	attrs.Each(func(name string, v rdata.Value) bool {
		b = appendString(b, name)
		b, err = appendValue(b, v)
		return err == nil
	})
	return b, err
}

func appendValue(b []byte, x rdata.Value) ([]byte, error) {
	switch x := x.(type) {
	case nil:
		return append(b, tagNull), nil
	case rdata.Vector:
		return appendVector(append(b, tagVector), x)
	case int32:
		return binary.LittleEndian.AppendUint32(append(b, tagInt), uint32(x)), nil
	case float64:
		return binary.LittleEndian.AppendUint64(append(b, tagDouble), math.Float64bits(x)), nil
	case rdata.Logical:
		return append(b, tagLogical, byte(x)), nil
	case complex128:
		b = binary.LittleEndian.AppendUint64(append(b, tagComplex), math.Float64bits(real(x)))
		return binary.LittleEndian.AppendUint64(b, math.Float64bits(imag(x))), nil
	case string:
		return appendString(append(b, tagString), x), nil
	case byte:
		return append(b, tagRaw, x), nil
	}
	return nil, fmt.Errorf("cannot encode value of type %T", x)
}

func appendString(b []byte, s string) []byte {
	b = binary.AppendUvarint(b, uint64(len(s)))
	return append(b, s...)
}

func boolByte(x bool) byte {
	if x {
		return 1
	}
	return 0
}

// decoder reads from an in-memory encoding.  The first error is sticky;
// later reads return zero values.
type decoder struct {
	b      []byte
	maxSeq int
	err    error
}

func (d *decoder) fail(format string, v ...interface{}) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: %s", ErrFormat, fmt.Sprintf(format, v...))
	}
}

func (d *decoder) next(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || n > len(d.b) {
		d.fail("truncated input")
		return nil
	}
	p := d.b[:n]
	d.b = d.b[n:]
	return p
}

func (d *decoder) u8() byte {
	p := d.next(1)
	if p == nil {
		return 0
	}
	return p[0]
}

func (d *decoder) u32() uint32 {
	p := d.next(4)
	if p == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(p)
}

func (d *decoder) f64() float64 {
	p := d.next(8)
	if p == nil {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(p))
}

// length reads an element count.  Every element takes at least one byte,
// so a count larger than the remaining input is rejected before anything
// is allocated.
func (d *decoder) length() int {
	if d.err != nil {
		return 0
	}
	n, k := binary.Uvarint(d.b)
	if k <= 0 {
		d.fail("bad length")
		return 0
	}
	d.b = d.b[k:]
	if n > uint64(len(d.b)) {
		d.fail("length %d exceeds input", n)
		return 0
	}
	return int(n)
}

func (d *decoder) str() string {
	return string(d.next(d.length()))
}

func (d *decoder) vector() rdata.Vector {
	t := rdata.RType(d.u8())
	form := rdata.Form(d.u8())
	if d.err != nil {
		return nil
	}
	if form == rdata.FormSequence {
		return d.sequence(t)
	}
	if form != rdata.FormConcrete {
		d.fail("unexpected vector form %d", form)
		return nil
	}
	complete := d.u8() != 0
	n := d.length()
	attrs := d.attributes()
	if d.err != nil {
		return nil
	}
	var v rdata.Concrete
	switch t {
	case rdata.RInteger:
		data := make([]int32, n)
		for i := range data {
			data[i] = int32(d.u32())
		}
		v = rdata.NewIntVector(data, complete)
	case rdata.RDouble:
		data := make([]float64, n)
		for i := range data {
			data[i] = d.f64()
		}
		v = rdata.NewDoubleVector(data, complete)
	case rdata.RLogical:
		data := make([]rdata.Logical, n)
		for i := range data {
			data[i] = rdata.Logical(int8(d.u8()))
		}
		v = rdata.NewLogicalVector(data, complete)
	case rdata.RComplex:
		data := make([]complex128, n)
		for i := range data {
			re := d.f64()
			data[i] = complex(re, d.f64())
		}
		v = rdata.NewComplexVector(data, complete)
	case rdata.RCharacter:
		data := make([]string, n)
		var na []int
		for i := range data {
			if d.u8() != 0 {
				na = append(na, i)
				continue
			}
			data[i] = d.str()
		}
		if d.err != nil {
			return nil
		}
		v = rdata.NewStringVector(data, na...)
	case rdata.RRaw:
		v = rdata.NewRawVector(append([]byte(nil), d.next(n)...))
	case rdata.RList:
		data := make([]rdata.Value, n)
		for i := range data {
			data[i] = d.value()
		}
		v = rdata.NewListVector(data)
	default:
		d.fail("unknown vector type %d", t)
		return nil
	}
	if d.err != nil {
		return nil
	}
	if complete && hasNA(v) {
		v.SetComplete(false)
	}
	if attrs.Len() > 0 {
		v.SetAttributes(attrs)
	}
	return v
}

func hasNA(v rdata.Vector) bool {
	for i := 0; i < v.Len(); i++ {
		if v.IsNA(i) {
			return true
		}
	}
	return false
}

func (d *decoder) sequence(t rdata.RType) rdata.Vector {
	n := int(d.lengthRaw())
	if n > d.maxSeq {
		d.fail("sequence length %d exceeds limit %d", n, d.maxSeq)
		return nil
	}
	switch t {
	case rdata.RInteger:
		start, stride := int32(d.u32()), int32(d.u32())
		if d.err == nil {
			if err := rdata.ValidIntSequence(start, stride, n); err != nil {
				d.fail("%v", err)
				return nil
			}
			return rdata.NewIntSequence(start, stride, n)
		}
	case rdata.RDouble:
		start := d.f64()
		stride := d.f64()
		if d.err == nil {
			if err := rdata.ValidDoubleSequence(start, stride, n); err != nil {
				d.fail("%v", err)
				return nil
			}
			return rdata.NewDoubleSequence(start, stride, n)
		}
	default:
		d.fail("unknown sequence type %d", t)
	}
	return nil
}

// lengthRaw reads a count that is not bounded by the remaining input.
func (d *decoder) lengthRaw() uint32 {
	if d.err != nil {
		return 0
	}
	n, k := binary.Uvarint(d.b)
	if k <= 0 || n > math.MaxInt32 {
		d.fail("bad length")
		return 0
	}
	d.b = d.b[k:]
	return uint32(n)
}

func (d *decoder) attributes() *rdata.Attributes {
	n := d.length()
	if n == 0 || d.err != nil {
		return nil
	}
	attrs := rdata.NewAttributes()
	for i := 0; i < n && d.err == nil; i++ {
		name := d.str()
		attrs.Put(name, d.value())
	}
	return attrs
}

func (d *decoder) value() rdata.Value {
	switch tag := d.u8(); tag {
	case tagNull:
		return nil
	case tagVector:
		return d.vector()
	case tagInt:
		return int32(d.u32())
	case tagDouble:
		return d.f64()
	case tagLogical:
		return rdata.Logical(int8(d.u8()))
	case tagComplex:
		re := d.f64()
		return complex(re, d.f64())
	case tagString:
		return d.str()
	case tagRaw:
		return d.u8()
	default:
		d.fail("unknown value tag %d", tag)
		return nil
	}
}
