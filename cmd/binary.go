// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/luthersystems/rvm/rnodes"
	"github.com/luthersystems/rvm/rops"
	"github.com/spf13/cobra"
)

var (
	binaryLeftType  string
	binaryRightType string
)

var binaryCmd = &cobra.Command{
	Use:   "binary <op> <lhs> <rhs>",
	Short: "Apply a binary arithmetic operator",
	Long: fmt.Sprintf(`Apply a binary arithmetic operator to two vector literals and print
the result.  The shorter operand is recycled.

Operators: %s

Examples:
  rvm binary + 1:3 10
  rvm binary '*' seq(1,2,5) 3 --describe
  rvm binary %%/%% 7L,8L 2L`, strings.Join(rops.BinaryOpNames(), " ")),
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		op, ok := rops.LookupBinary(args[0])
		if !ok {
			return fmt.Errorf("unknown binary operator %q", args[0])
		}
		x, err := parseOperand("lhs", args[1], binaryLeftType)
		if err != nil {
			return err
		}
		y, err := parseOperand("rhs", args[2], binaryRightType)
		if err != nil {
			return err
		}
		rt, complete, err := newRuntime(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		r, err := rnodes.NewBinaryNode(rt, op).Execute(context.Background(), x, y)
		if err := complete(); err != nil {
			return err
		}
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), r)
	},
}

func init() {
	rootCmd.AddCommand(binaryCmd)
	binaryCmd.Flags().StringVar(&binaryLeftType, "lhs-type", "", "Present the left operand as this type")
	binaryCmd.Flags().StringVar(&binaryRightType, "rhs-type", "", "Present the right operand as this type")
}
