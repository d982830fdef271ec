// Copyright © 2024 The ELPS authors

// Package rstats implements random number generation for the runtime.
package rstats

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/luthersystems/rvm/rdata"
)

// Source produces uniform numbers.  Float64 values outside the open
// interval (0, 1) are rejected by Uniform, so a Source may return 0.
type Source interface {
	Float64() float64
}

// DefaultSeed seeds NewSource when no seed is configured.
const DefaultSeed = 4357

// NewSource returns the default generator, a PCG stream seeded with seed.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// MarsagliaSource is the Marsaglia multiply-with-carry generator.  Its
// zero value is not seeded; use NewMarsagliaSource.
type MarsagliaSource struct {
	i1, i2 int32
}

// NewMarsagliaSource returns a multiply-with-carry generator in its
// initial state (1234, 5678).
func NewMarsagliaSource() *MarsagliaSource {
	return &MarsagliaSource{i1: 1234, i2: 5678}
}

// Seed resets the generator state.
func (m *MarsagliaSource) Seed(i1, i2 int32) {
	m.i1, m.i2 = i1, i2
}

const i2to32m1 = 2.328306437080797e-10 // 1/(2^32-1)

// Float64 returns the next number.  The result may lie outside [0, 1).
func (m *MarsagliaSource) Float64() float64 {
	m.i1 = 36969*(m.i1&0177777) + (m.i1 >> 16)
	m.i2 = 18000*(m.i2&0177777) + (m.i2 >> 16)
	return float64((m.i1<<16)^(m.i2&0177777)) * i2to32m1
}

// Locked returns a Source that serializes calls to src.
func Locked(src Source) Source {
	if _, ok := src.(*lockedSource); ok {
		return src
	}
	return &lockedSource{src: src}
}

type lockedSource struct {
	mu  sync.Mutex
	src Source
}

func (l *lockedSource) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

// Uniform draws from the uniform distribution on (a, b).  The result is NA
// when either bound is not finite or b < a, and a when a == b.
func Uniform(src Source, a, b float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) || math.IsNaN(b) || math.IsInf(b, 0) || b < a {
		return rdata.DoubleNA
	}
	if a == b {
		return a
	}
	var u float64
	for {
		u = src.Float64()
		if u > 0 && u < 1 {
			break
		}
	}
	return a + (b-a)*u
}

// Runif returns n uniform draws.  The bounds lower and upper are recycled
// over the result.
func Runif(src Source, n int, lower, upper rdata.Vector) (*rdata.DoubleVector, error) {
	if n < 0 {
		return nil, rdata.TypeMismatch("runif", "invalid arguments")
	}
	if n > 0 && (lower.Len() == 0 || upper.Len() == 0) {
		return nil, rdata.TypeMismatch("runif", "invalid arguments")
	}
	lo, err := rdata.Wrap(lower, rdata.RDouble)
	if err != nil {
		return nil, err
	}
	hi, err := rdata.Wrap(upper, rdata.RDouble)
	if err != nil {
		return nil, err
	}
	los, his := lo.(rdata.DoubleReader), hi.(rdata.DoubleReader)
	data := make([]float64, n)
	complete := true
	for i := range data {
		data[i] = Uniform(src, los.DoubleAt(i%lower.Len()), his.DoubleAt(i%upper.Len()))
		if rdata.IsDoubleNA(data[i]) {
			complete = false
		}
	}
	return rdata.NewDoubleVector(data, complete), nil
}
