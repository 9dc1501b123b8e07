package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ErrRulesRequired is returned when transform runs without a rule set.
var ErrRulesRequired = errors.New("--rules is required")

func transformCmd(a *app) *cobra.Command {
	var lang, rulesPath, output, format string

	cmd := &cobra.Command{
		Use:   "transform <file|-> --rules rules.yaml",
		Short: "Rewrite a syntax tree with a rule set",
		Long: `Parse a source file, rewrite its tree with a declarative rule set, and
print the result followed by the issues the rules reported.

Examples:
  astkit transform --rules simplify.yaml main.go
  astkit transform --rules simplify.yaml -f yaml main.go`,
		Args: cobra.ExactArgs(1),
		RunE: a.run("transform", func(ctx context.Context, cmd *cobra.Command, args []string) error {
			if rulesPath == "" {
				return ErrRulesRequired
			}

			root, err := a.parse(ctx, cmd, args[0], lang)
			if err != nil {
				return err
			}

			out, issues, err := a.rewrite(ctx, root, rulesPath)

			if !a.quiet {
				printIssues(cmd.ErrOrStderr(), issues)
			}

			if err != nil {
				return err
			}

			render, err := treeRenderer(out, format)
			if err != nil {
				return err
			}

			if err = writeTo(cmd, output, render); err != nil {
				return fmt.Errorf("write result: %w", err)
			}

			return nil
		}),
	}

	cmd.Flags().StringVarP(&lang, "language", "l", "", "force the grammar instead of detecting it")
	cmd.Flags().StringVarP(&rulesPath, "rules", "r", "", "rule set file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout, .lz4 compresses)")
	cmd.Flags().StringVarP(&format, "format", "f", formatTree, "output format (tree, yaml)")

	return cmd
}
