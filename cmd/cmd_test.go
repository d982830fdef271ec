// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag to its default so that tests do not
// observe each other's flags.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, stderr bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if stderr.Len() > 0 {
		t.Log(stderr.String())
	}
	return out.String(), err
}

func TestUnaryCommand(t *testing.T) {
	out, err := run(t, "unary", "-", "1:3")
	require.NoError(t, err)
	assert.Equal(t, "[1] -1 -2 -3\n", out)

	out, err = run(t, "unary", "-", "1:3", "--describe")
	require.NoError(t, err)
	assert.Equal(t, "[1] -1 -2 -3\ninteger sequence, length 3\n  start -1, stride -1\n  complete true\n", out)

	out, err = run(t, "unary", "-", "1:3", "--describe", "--fold=false")
	require.NoError(t, err)
	assert.Contains(t, out, "integer concrete, length 3\n")

	out, err = run(t, "unary", "sqrt", "4L", "--type", "double")
	require.NoError(t, err)
	assert.Equal(t, "[1] 2\n", out)

	out, err = run(t, "unary", "round", "3.14159", "--digits", "2")
	require.NoError(t, err)
	assert.Equal(t, "[1] 3.14\n", out)

	out, err = run(t, "unary", "signif", "123456", "-d", "2")
	require.NoError(t, err)
	assert.Equal(t, "[1] 120000\n", out)

	_, err = run(t, "unary", "abs", "1", "--digits", "2")
	assert.Error(t, err)

	_, err = run(t, "unary", "%%", "1")
	assert.Error(t, err)
	_, err = run(t, "unary", "-", `"a"`)
	assert.Error(t, err)
}

func TestBinaryCommand(t *testing.T) {
	out, err := run(t, "binary", "+", "1:3", "10L", "--describe")
	require.NoError(t, err)
	assert.Equal(t, "[1] 11 12 13\ninteger sequence, length 3\n  start 11, stride 1\n  complete true\n", out)

	out, err = run(t, "binary", "%/%", "7L,8L", "2L")
	require.NoError(t, err)
	assert.Equal(t, "[1] 3 4\n", out)

	out, err = run(t, "binary", "/", "1", "0")
	require.NoError(t, err)
	assert.Equal(t, "[1] Inf\n", out)
}

func TestRunifCommand(t *testing.T) {
	out, err := run(t, "runif", "3", "--marsaglia")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "[1] 0.102089069807457 0.369014084192229 "), out)

	a, err := run(t, "runif", "4", "0", "10", "--seed", "42")
	require.NoError(t, err)
	b, err := run(t, "runif", "4", "0", "10", "--seed", "42")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	_, err = run(t, "runif", "3", "0")
	assert.Error(t, err)
}

func TestSerializeCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v.rv")
	_, err := run(t, "serialize", "seq(1, 2, 4)", "-o", path, "--compression", "zstd")
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	out, err := run(t, "deserialize", path, "--describe")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "[1] 1 3 5 7\ninteger sequence, length 4\n"), out)

	_, err = run(t, "serialize", "1", "--compression", "bzip2")
	assert.Error(t, err)
}

func TestThreadsCommand(t *testing.T) {
	out, err := run(t, "threads", "3", "--length", "4", "--thread-limit", "1")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "thread 0: integer sequence, length 4, -1 .. -4", lines[0])
	assert.Equal(t, "thread 2: integer sequence, length 4, -9 .. -12", lines[2])
	assert.Equal(t, "node -: path fold, 2 hits, 1 misses", lines[3])
}

func TestCallgrindFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "callgrind.out")
	_, err := run(t, "unary", "abs", "1,-2", "--callgrind", path)
	require.NoError(t, err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "fn=(1) abs\n")
}

func TestOperandErrorRendering(t *testing.T) {
	_, err := run(t, "binary", "+", "1 2", "3")
	require.Error(t, err)

	var buf bytes.Buffer
	renderError(&buf, err)
	got := buf.String()
	assert.True(t, strings.HasPrefix(got, "error: unexpected text in vector literal: \"2\"\n"), got)
	assert.Contains(t, got, "  --> lhs:3\n   |\n   |  1 2\n   |    ^\n")
	assert.Contains(t, got, "= note: numbers are double")

	buf.Reset()
	renderError(&buf, assert.AnError)
	assert.Equal(t, "error: "+assert.AnError.Error()+"\n", buf.String())
}
