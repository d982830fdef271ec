// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rvm",
	Short: "rvm: R vector runtime",
	Long: `rvm exercises an R vector runtime: typed vectors with NA, compact
sequences, coercion views, and arithmetic nodes that specialize on the
shape of their operands.

Vector literals:
  1, 2, NA                 double vector (numbers are double)
  1L, 2L                   integer vector
  c(TRUE, NA)              logical vector
  "a", "b"                 character vector
  2+1i                     complex vector
  1:10                     integer sequence
  seq(1, 3, 10)            sequence with start 1, stride 3, length 10

Getting started:
  rvm unary - 1:10             Negate a sequence
  rvm binary + 1:3 10          Add a scalar to a sequence
  rvm runif 5 0 10             Draw five uniform numbers
  rvm serialize 1,2,3 -o v.rv  Write a vector to a file
  rvm deserialize v.rv         Read it back
  rvm threads 4                Evaluate on four threads

Flags may also be set in $HOME/.rvm.yaml or through RVM_ environment
variables, for example RVM_LOG_LEVEL=debug.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		renderError(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.rvm.yaml)")
	flags.String("log-level", "warn", `Log level: "debug", "info", "warn" or "error".`)
	flags.Bool("fold", true, "Apply operators to sequences without materializing them")
	flags.Bool("scalar", true, "Return bare elements for length one operands")
	flags.Bool("reuse", true, "Overwrite temporary operands with results")
	flags.Int64("thread-limit", 0, "Maximum number of threads running at once (0 is unbounded)")
	flags.Uint64("seed", 4357, "Seed of the random number generator")
	flags.Bool("marsaglia", false, "Use the Marsaglia multiply-with-carry generator")
	flags.Int("width", 80, "Width of printed output")
	flags.String("callgrind", "", "Write a callgrind profile of node executions to this file")
	flags.Bool("describe", false, "Describe the representation of results")
	flags.String("color", "auto", `Color error output: "auto", "always" or "never".`)
	for _, name := range []string{
		"log-level", "fold", "scalar", "reuse", "thread-limit", "seed",
		"marsaglia", "width", "callgrind", "describe", "color",
	} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".rvm" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".rvm")
	}

	viper.SetEnvPrefix("rvm")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
