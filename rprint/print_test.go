// Copyright © 2024 The ELPS authors

package rprint_test

import (
	"strings"
	"testing"

	"github.com/luthersystems/rvm/rdata"
	"github.com/luthersystems/rvm/rprint"
	"github.com/stretchr/testify/assert"
)

func TestPrint(t *testing.T) {
	named := rdata.Doubles(1, 2.5)
	named.SetAttr(rdata.AttrNames, rdata.Strings("x", "long"))
	units := rdata.Ints(1)
	units.SetAttr("units", rdata.Strings("cm"))

	tests := []struct {
		name   string
		value  rdata.Value
		output string
	}{
		{"ints", rdata.Ints(1, 2, 3), "[1] 1 2 3\n"},
		{"aligned", rdata.Ints(1, -20, rdata.IntNA), "[1]   1 -20  NA\n"},
		{"strings", rdata.NewStringVector([]string{"a", ""}, 1), "[1] \"a\"  NA\n"},
		{"sequence", rdata.NewIntSequence(3, 1, 3), "[1] 3 4 5\n"},
		{"logical", rdata.Logicals(rdata.True, rdata.LogicalNA), "[1] TRUE   NA\n"},
		{"empty", rdata.Doubles(), "double(0)\n"},
		{"null", nil, "NULL\n"},
		{"scalar", int32(5), "[1] 5\n"},
		{"named", named, "   x long\n   1  2.5\n"},
		{"attr", units, "[1] 1\nattr(,\"units\")\n[1] \"cm\"\n"},
		{"list", rdata.List(int32(1), rdata.Strings("a")), "[[1]]\n[1] 1\n\n[[2]]\n[1] \"a\"\n\n"},
		{"empty list", rdata.List(), "list()\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.output, rprint.Sprint(test.value))
		})
	}
}

func TestPrintWraps(t *testing.T) {
	v := rdata.NewIntSequence(1, 1, 12)
	out := rprint.Sprint(v, rprint.WithWidth(20))
	assert.Equal(t, " [1]  1  2  3  4  5\n [6]  6  7  8  9 10\n[11] 11 12\n", out)
	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		assert.LessOrEqual(t, len(line), 20)
	}
}

func TestDescribe(t *testing.T) {
	var buf strings.Builder
	err := rprint.Describe(&buf, rdata.NewIntSequence(1, 1, 5), 0)
	assert.NoError(t, err)
	assert.Equal(t, "integer sequence, length 5\n  start 1, stride 1\n  complete true\n", buf.String())

	v := rdata.Doubles(1, rdata.DoubleNA)
	v.SetAttr("a", int32(1))
	v.MarkNonTemporary()
	buf.Reset()
	err = rprint.Describe(&buf, v, 0)
	assert.NoError(t, err)
	assert.Equal(t, "double concrete, length 2\n  sharing shared-once\n  complete false\n  attributes {a=1}\n", buf.String())
}
