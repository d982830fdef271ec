// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"os"

	"github.com/luthersystems/rvm/rserialize"
	"github.com/spf13/cobra"
)

var (
	serializeOutput      string
	serializeCompression string
	serializeType        string
)

var serializeCmd = &cobra.Command{
	Use:   "serialize <operand>",
	Short: "Write a vector in the binary vector format",
	Long: `Encode a vector literal in the binary vector format and write it to a
file, or to stdout.

Compression: none, gzip, zstd or lz4.

Examples:
  rvm serialize 1:100 -o seq.rv
  rvm serialize '"a", NA' -o s.rv --compression zstd`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := rserialize.ParseCompression(serializeCompression)
		if err != nil {
			return err
		}
		v, err := parseOperand("operand", args[0], serializeType)
		if err != nil {
			return err
		}
		if serializeOutput == "" {
			return rserialize.Encode(cmd.OutOrStdout(), v, c)
		}
		f, err := os.Create(serializeOutput)
		if err != nil {
			return err
		}
		if err := rserialize.Encode(f, v, c); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	},
}

var deserializeCmd = &cobra.Command{
	Use:   "deserialize <file>",
	Short: "Read a vector in the binary vector format",
	Long: `Decode a vector written by serialize and print it.

Examples:
  rvm deserialize seq.rv --describe`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close() //nolint:errcheck
		v, err := rserialize.Decode(f)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		return printResult(cmd.OutOrStdout(), v)
	},
}

func init() {
	rootCmd.AddCommand(serializeCmd)
	rootCmd.AddCommand(deserializeCmd)
	serializeCmd.Flags().StringVarP(&serializeOutput, "output", "o", "", "Output file (default stdout)")
	serializeCmd.Flags().StringVarP(&serializeCompression, "compression", "c", "none", "Compression of the vector body")
	serializeCmd.Flags().StringVarP(&serializeType, "type", "t", "", "Present the operand as this type")
}
