// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/luthersystems/rvm/rdata"
	"github.com/luthersystems/rvm/rnodes"
	"github.com/luthersystems/rvm/rops"
	"github.com/spf13/cobra"
)

var (
	threadsOp     string
	threadsLength int
)

var threadsCmd = &cobra.Command{
	Use:   "threads <n>",
	Short: "Evaluate a unary operator on several threads",
	Long: `Spawn n threads that each apply a unary operator to a disjoint integer
sequence, join them all, and describe the results.  All threads share one
node, and so its inline cache.

Examples:
  rvm threads 4
  rvm threads 8 --op abs --length 1000 --thread-limit 2 --fold=false`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return fmt.Errorf("invalid thread count %q", args[0])
		}
		if threadsLength < 1 {
			return fmt.Errorf("invalid sequence length %d", threadsLength)
		}
		op, ok := rops.LookupUnary(threadsOp)
		if !ok {
			return fmt.Errorf("unknown unary operator %q", threadsOp)
		}
		rt, complete, err := newRuntime(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		node := rnodes.NewUnaryNode(rt, op)
		ctx := context.Background()
		for i := 0; i < n; i++ {
			start := int64(i)*int64(threadsLength) + 1
			if start+int64(threadsLength) > math.MaxInt32 {
				return fmt.Errorf("thread %d: sequence out of range", i)
			}
			if _, err := rt.Spawn(ctx, node, rdata.NewIntSequence(int32(start), 1, threadsLength)); err != nil {
				return err
			}
		}
		results, err := rt.JoinAll(ctx)
		if cerr := complete(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		for i, r := range results {
			if _, err := fmt.Fprintf(w, "thread %d: ", i); err != nil {
				return err
			}
			v, ok := r.(rdata.Vector)
			if !ok {
				if _, err := fmt.Fprintln(w, rdata.FormatValue(r)); err != nil {
					return err
				}
				continue
			}
			if err := printSummary(w, v); err != nil {
				return err
			}
		}
		s := node.Stats()
		_, err = fmt.Fprintf(w, "node %s: path %s, %d hits, %d misses\n", node.Name(), s.Path, s.Hits, s.Misses)
		return err
	},
}

// printSummary prints the shape of v and its first and last elements.
func printSummary(w io.Writer, v rdata.Vector) error {
	n := v.Len()
	if n == 0 {
		_, err := fmt.Fprintf(w, "%s %s, length 0\n", v.Type(), v.Form())
		return err
	}
	_, err := fmt.Fprintf(w, "%s %s, length %d, %s .. %s\n", v.Type(), v.Form(), n,
		rdata.FormatElement(v, 0), rdata.FormatElement(v, n-1))
	return err
}

func init() {
	rootCmd.AddCommand(threadsCmd)
	threadsCmd.Flags().StringVar(&threadsOp, "op", "-", "Unary operator applied by every thread")
	threadsCmd.Flags().IntVar(&threadsLength, "length", 10, "Length of each thread's sequence")
}
