// Package main provides the astkit CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// exitCodeValidationFailure is the exit code for rule sets that fail validation.
const exitCodeValidationFailure = 2

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		if errors.Is(err, ErrValidationFailed) {
			os.Exit(exitCodeValidationFailure)
		}

		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "astkit",
		Short: "Parse, rewrite, and export syntax trees",
		Long: `astkit parses source files into syntax trees, rewrites them with
declarative rule sets, and exports them to a generic node graph.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./.astkit.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress output")
	rootCmd.PersistentFlags().StringVar(&a.metricsOut, "metrics-out", "", "write Prometheus metrics to this file")

	rootCmd.AddCommand(parseCmd(a))
	rootCmd.AddCommand(transformCmd(a))
	rootCmd.AddCommand(exportCmd(a))
	rootCmd.AddCommand(roundtripCmd(a))
	rootCmd.AddCommand(diffCmd(a))
	rootCmd.AddCommand(validateCmd(a))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}
