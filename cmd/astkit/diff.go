package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
)

// diffArgCount is the number of arguments expected by the diff command.
const diffArgCount = 2

func diffCmd(a *app) *cobra.Command {
	var lang, rulesPath, output string

	cmd := &cobra.Command{
		Use:   "diff <file1> <file2>",
		Short: "Compare the syntax trees of two files",
		Long: `Compare the syntax trees of two files line by line on their printed form.

Examples:
  astkit diff old.go new.go
  astkit diff --rules simplify.yaml old.py new.py`,
		Args: cobra.ExactArgs(diffArgCount),
		RunE: a.run("diff", func(ctx context.Context, cmd *cobra.Command, args []string) error {
			printed := make([]string, 0, diffArgCount)

			for _, path := range args {
				root, err := a.parse(ctx, cmd, path, lang)
				if err != nil {
					return err
				}

				root, _, err = a.rewrite(ctx, root, rulesPath)
				if err != nil {
					return err
				}

				printed = append(printed, debugTree(root))
			}

			return writeTo(cmd, output, writeString(lineDiff(printed[0], printed[1])))
		}),
	}

	cmd.Flags().StringVarP(&lang, "language", "l", "", "force the grammar instead of detecting it")
	cmd.Flags().StringVarP(&rulesPath, "rules", "r", "", "rule set applied to both trees")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout, .lz4 compresses)")

	return cmd
}

// lineDiff renders a line-level diff of before and after, prefixing
// removed lines with "-", added ones with "+" and kept ones with a space.
func lineDiff(before, after string) string {
	dmp := diffmatchpatch.New()

	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var (
		sb                  strings.Builder
		added, removed, all int
	)

	for _, d := range diffs {
		prefix := " "

		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffEqual:
		}

		for line := range strings.SplitSeq(strings.TrimSuffix(d.Text, "\n"), "\n") {
			all++

			switch d.Type {
			case diffmatchpatch.DiffInsert:
				added++
			case diffmatchpatch.DiffDelete:
				removed++
			case diffmatchpatch.DiffEqual:
			}

			sb.WriteString(prefix + line + "\n")
		}
	}

	if added == 0 && removed == 0 {
		return "trees are identical\n"
	}

	fmt.Fprintf(&sb, "%d lines: %d added, %d removed\n", all, added, removed)

	return sb.String()
}
