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
	unaryType   string
	unaryDigits int
)

var unaryCmd = &cobra.Command{
	Use:   "unary <op> <operand>",
	Short: "Apply a unary operator",
	Long: fmt.Sprintf(`Apply a unary operator to a vector literal and print the result.

Operators: %s

Examples:
  rvm unary - 1:10
  rvm unary abs -- -1,NA,3
  rvm unary floor 1.5,2.5 --describe
  rvm unary sqrt 1:4 --type double
  rvm unary round 3.14159,2.5 --digits 2
  rvm unary signif 123456 --digits 2`, strings.Join(rops.UnaryOpNames(), " ")),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		op, ok := rops.LookupUnary(args[0])
		if !ok {
			return fmt.Errorf("unknown unary operator %q", args[0])
		}
		if cmd.Flags().Changed("digits") {
			switch op.Name {
			case "round":
				op = rops.RoundDigits(unaryDigits)
			case "signif":
				op = rops.Signif(unaryDigits)
			default:
				return fmt.Errorf("--digits does not apply to %s", op.Name)
			}
		}
		v, err := parseOperand("operand", args[1], unaryType)
		if err != nil {
			return err
		}
		rt, complete, err := newRuntime(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		r, err := rnodes.NewUnaryNode(rt, op).Execute(context.Background(), v)
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
	rootCmd.AddCommand(unaryCmd)
	unaryCmd.Flags().StringVarP(&unaryType, "type", "t", "",
		"Present the operand as this type (logical, integer, double, complex, character)")
	unaryCmd.Flags().IntVarP(&unaryDigits, "digits", "d", 0,
		"Decimal places for round, significant digits for signif")
}
