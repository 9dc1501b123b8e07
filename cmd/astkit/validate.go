package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/astkit/pkg/rules"
)

// ErrValidationFailed is returned when a rule set has problems.
var ErrValidationFailed = errors.New("rule set validation failed")

func validateCmd(a *app) *cobra.Command {
	var colorize, nocolor, printSchema bool

	cmd := &cobra.Command{
		Use:   "validate <rules.yaml|->",
		Short: "Validate a rule set",
		Long: `Validate a rule set against the rule set schema and check its rules for
unknown actions, broken conditions, and rules that can never match.

Examples:
  astkit validate simplify.yaml
  astkit validate - < simplify.yaml
  astkit validate --schema`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.run("validate", func(_ context.Context, cmd *cobra.Command, args []string) error {
			if nocolor {
				color.NoColor = true //nolint:reassign // intentional override of library global
			} else if colorize {
				color.NoColor = false //nolint:reassign // intentional override of library global
			}

			if printSchema {
				_, err := cmd.OutOrStdout().Write(rules.Schema())

				return err
			}

			if len(args) == 0 {
				return fmt.Errorf("%w: missing rule set path", ErrEmptyPath)
			}

			data, label, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}

			problems, err := rules.Check(data)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrValidationFailed, label, err)
			}

			out := cmd.OutOrStdout()

			if len(problems) == 0 {
				if !a.quiet {
					color.New(color.FgGreen).Fprintf(out, "Rule set is valid (%s)\n", label)
				}

				return nil
			}

			color.New(color.FgRed).Fprintf(out, "Rule set validation failed (%s)\n", label)

			for _, p := range problems {
				color.New(color.FgYellow).Fprintf(out, "  - %s\n", p)
			}

			return fmt.Errorf("%w: %d problem(s) in %s", ErrValidationFailed, len(problems), label)
		}),
	}

	cmd.Flags().BoolVar(&colorize, "color", false, "force colored output")
	cmd.Flags().BoolVar(&nocolor, "no-color", false, "disable colored output")
	cmd.Flags().BoolVar(&printSchema, "schema", false, "print the rule set JSON schema and exit")

	return cmd
}
