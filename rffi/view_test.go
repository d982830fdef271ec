// Copyright © 2024 The ELPS authors

package rffi_test

import (
	"errors"
	"testing"

	"github.com/luthersystems/rvm/rdata"
	"github.com/luthersystems/rvm/rffi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewRevalidatesCompleteness(t *testing.T) {
	v := rdata.Ints(1, 2, 3, 4)
	w, err := rffi.Acquire(v)
	require.NoError(t, err)
	assert.Nil(t, w.Doubles())
	data := w.Ints()
	data[1] = rdata.IntNA
	data[3] = rdata.IntNA

	r := w.Release()
	assert.Same(t, v, r)
	assert.False(t, r.IsComplete())
	assert.Equal(t, []uint32{1, 3}, w.NA().ToArray())
	assert.Equal(t, "1 NA 3 NA", r.String())
	assert.Same(t, r, w.Release())
}

func TestViewOfSharedVectorCopies(t *testing.T) {
	v := rdata.Doubles(1, 2)
	v.MarkNonTemporary()
	w, err := rffi.Acquire(v)
	require.NoError(t, err)
	w.Doubles()[0] = 10
	r := w.Release()
	assert.NotSame(t, v, r)
	assert.True(t, r.IsComplete())
	assert.Equal(t, "10 2", r.String())
	assert.Equal(t, "1 2", v.String())
}

func TestViewOfSequenceMaterializes(t *testing.T) {
	w, err := rffi.Acquire(rdata.NewIntSequence(1, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 3, 5}, w.Ints())
	assert.Equal(t, rdata.RInteger, w.Type())
	assert.Equal(t, 3, w.Len())
	assert.True(t, w.Release().IsComplete())
}

func TestViewRejectsOtherKinds(t *testing.T) {
	_, err := rffi.Acquire(rdata.Strings("a"))
	assert.True(t, errors.Is(err, rdata.ErrTypeMismatch))
	_, err = rffi.Acquire(rdata.Logicals(rdata.True))
	assert.True(t, errors.Is(err, rdata.ErrTypeMismatch))
}

func TestViewUseAfterRelease(t *testing.T) {
	w, err := rffi.Acquire(rdata.Ints(1))
	require.NoError(t, err)
	w.Release()
	assert.Panics(t, func() { w.Ints() })
}
