// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"strconv"

	"github.com/luthersystems/rvm/rdata"
	"github.com/luthersystems/rvm/rstats"
	"github.com/spf13/cobra"
)

var runifCmd = &cobra.Command{
	Use:   "runif <n> [min max]",
	Short: "Draw uniform random numbers",
	Long: `Draw n numbers uniformly distributed between min and max, by default
0 and 1.  Bounds are vector literals and are recycled.

Examples:
  rvm runif 5
  rvm runif 4 0 10 --seed 42
  rvm runif 3 --marsaglia`,
	Args: cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 2 {
			return fmt.Errorf("runif takes both bounds or neither")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return fmt.Errorf("invalid count %q", args[0])
		}
		var lower, upper rdata.Vector = rdata.Doubles(0), rdata.Doubles(1)
		if len(args) == 3 {
			if lower, err = parseOperand("min", args[1], ""); err != nil {
				return err
			}
			if upper, err = parseOperand("max", args[2], ""); err != nil {
				return err
			}
		}
		rt, _, err := newRuntime(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		r, err := rstats.Runif(rt.RNG, n, lower, upper)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), r)
	},
}

func init() {
	rootCmd.AddCommand(runifCmd)
}
