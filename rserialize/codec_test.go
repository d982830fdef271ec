// Copyright © 2024 The ELPS authors

package rserialize_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/luthersystems/rvm/rdata"
	"github.com/luthersystems/rvm/rserialize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []rdata.Vector {
	named := rdata.Doubles(1.5, rdata.DoubleNA, -3)
	named.SetAttr(rdata.AttrNames, rdata.Strings("a", "b", "c"))
	named.SetAttr("scale", float64(2))
	return []rdata.Vector{
		rdata.Ints(1, rdata.IntNA, 3),
		rdata.Ints(),
		named,
		rdata.Logicals(rdata.True, rdata.LogicalNA, rdata.False),
		rdata.Complexes(complex(1, -2), rdata.ComplexNA),
		rdata.NewStringVector([]string{"x", "", "z"}, 1),
		rdata.NewRawVector([]byte{0, 0xff}),
		rdata.List(int32(1), "two", rdata.Ints(3, 4), nil),
		rdata.NewIntSequence(5, -2, 4),
		rdata.NewDoubleSequence(0.5, 0.25, 3),
	}
}

func TestRoundTrip(t *testing.T) {
	for _, c := range []rserialize.Compression{rserialize.None, rserialize.Gzip, rserialize.Zstd, rserialize.LZ4} {
		t.Run(c.String(), func(t *testing.T) {
			for _, v := range sample() {
				b, err := rserialize.Marshal(v, c)
				require.NoError(t, err)
				out, err := rserialize.Unmarshal(b)
				require.NoError(t, err, "%v", v)
				assert.Equal(t, v.Type(), out.Type())
				assert.Equal(t, v.Form(), out.Form())
				assert.Equal(t, v.Len(), out.Len())
				assert.Equal(t, v.IsComplete(), out.IsComplete())
				assert.Equal(t, v.String(), out.String())
				assert.Equal(t, v.Attributes().String(), out.Attributes().String())
				for i := 0; i < v.Len(); i++ {
					assert.Equal(t, v.IsNA(i), out.IsNA(i))
				}
			}
		})
	}
}

func TestClosureIsMaterialized(t *testing.T) {
	c, err := rdata.Wrap(rdata.Strings("1", "x"), rdata.RDouble)
	require.NoError(t, err)
	b, err := rserialize.Marshal(c, rserialize.None)
	require.NoError(t, err)
	out, err := rserialize.Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, rdata.FormConcrete, out.Form())
	assert.Equal(t, "1 NA", out.String())
	assert.False(t, out.IsComplete())
}

func TestDecodedVectorIsTemporary(t *testing.T) {
	v := rdata.Ints(1, 2)
	v.MarkNonTemporary()
	b, err := rserialize.Marshal(v, rserialize.Zstd)
	require.NoError(t, err)
	out, err := rserialize.Unmarshal(b)
	require.NoError(t, err)
	assert.True(t, out.(rdata.Concrete).IsTemporary())
}

func TestEncodeUnsupportedAttribute(t *testing.T) {
	v := rdata.Ints(1)
	v.SetAttr("flag", true)
	_, err := rserialize.Marshal(v, rserialize.None)
	assert.Error(t, err)
}

func TestDecodeErrors(t *testing.T) {
	_, err := rserialize.Unmarshal([]byte("RV"))
	assert.True(t, errors.Is(err, rserialize.ErrFormat))
	_, err = rserialize.Unmarshal([]byte("XXXX\x00\x01"))
	assert.True(t, errors.Is(err, rserialize.ErrFormat))

	b, err := rserialize.Marshal(rdata.Ints(1, 2, 3), rserialize.None)
	require.NoError(t, err)
	_, err = rserialize.Unmarshal(b[:len(b)-2])
	assert.True(t, errors.Is(err, rserialize.ErrFormat))

	bad := append([]byte(nil), b...)
	bad[5] = 9
	_, err = rserialize.Unmarshal(bad)
	assert.True(t, errors.Is(err, rserialize.ErrFormat))

	_, err = rserialize.Unmarshal([]byte("RVEC\x07"))
	assert.Error(t, err)
}

func TestDecodeRecomputesComplete(t *testing.T) {
	b, err := rserialize.Marshal(rdata.Ints(1, rdata.IntNA, 3), rserialize.None)
	require.NoError(t, err)
	// magic, compression, version, type, form, then the complete flag
	const completeByte = 8
	require.Equal(t, byte(0), b[completeByte])
	b[completeByte] = 1

	out, err := rserialize.Unmarshal(b)
	require.NoError(t, err)
	assert.True(t, out.IsNA(1))
	assert.False(t, out.IsComplete())

	b, err = rserialize.Marshal(rdata.Doubles(1, 2), rserialize.None)
	require.NoError(t, err)
	out, err = rserialize.Unmarshal(b)
	require.NoError(t, err)
	assert.True(t, out.IsComplete())
}

func TestDecodeSequenceLimit(t *testing.T) {
	b, err := rserialize.Marshal(rdata.NewIntSequence(1, 1, 1000), rserialize.None)
	require.NoError(t, err)
	_, err = rserialize.Unmarshal(b, rserialize.WithMaxSequenceLen(999))
	assert.True(t, errors.Is(err, rserialize.ErrFormat))

	out, err := rserialize.Unmarshal(b, rserialize.WithMaxSequenceLen(1000))
	require.NoError(t, err)
	assert.Equal(t, 1000, out.Len())

	big, err := rserialize.Marshal(rdata.NewIntSequence(0, 0, rserialize.DefaultMaxSequenceLen+1), rserialize.None)
	require.NoError(t, err)
	_, err = rserialize.Unmarshal(big)
	assert.True(t, errors.Is(err, rserialize.ErrFormat))
}

func TestCompressionShrinks(t *testing.T) {
	v := rdata.Create(rdata.RDouble, 10000, true)
	plain, err := rserialize.Marshal(v, rserialize.None)
	require.NoError(t, err)
	for _, c := range []rserialize.Compression{rserialize.Gzip, rserialize.Zstd, rserialize.LZ4} {
		var buf bytes.Buffer
		require.NoError(t, rserialize.Encode(&buf, v, c))
		assert.Less(t, buf.Len(), len(plain), c.String())
	}
}

func TestParseCompression(t *testing.T) {
	c, err := rserialize.ParseCompression("ZSTD")
	require.NoError(t, err)
	assert.Equal(t, rserialize.Zstd, c)
	_, err = rserialize.ParseCompression("brotli")
	assert.Error(t, err)
}
