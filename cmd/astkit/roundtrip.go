package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/astkit/pkg/ast"
	"github.com/Sumatoshi-tech/astkit/pkg/asttest"
	"github.com/Sumatoshi-tech/astkit/pkg/graph"
)

// ErrRoundTripMismatch is returned when an imported tree differs from the exported one.
var ErrRoundTripMismatch = errors.New("round trip changed the tree")

// mismatches collects comparison failures in place of a test harness.
type mismatches struct {
	messages []string
}

func (m *mismatches) Errorf(format string, args ...any) {
	m.messages = append(m.messages, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func roundtripCmd(a *app) *cobra.Command {
	var lang, rulesPath, strategy string

	cmd := &cobra.Command{
		Use:   "roundtrip <file|->",
		Short: "Export a tree to the graph and import it back",
		Long: `Parse a source file, export its tree to a generic node graph with one
converter, import it with another, and check that both trees are equal,
ranges included.`,
		Args: cobra.ExactArgs(1),
		RunE: a.run("roundtrip", func(ctx context.Context, cmd *cobra.Command, args []string) error {
			root, err := a.parse(ctx, cmd, args[0], lang)
			if err != nil {
				return err
			}

			root, _, err = a.rewrite(ctx, root, rulesPath)
			if err != nil {
				return err
			}

			exporter, err := a.newConverter()
			if err != nil {
				return err
			}

			exported, err := exporter.Export(ctx, root, a.exportOptions(args[0], strategy)...)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}

			importer, err := a.newConverter()
			if err != nil {
				return err
			}

			imported, err := importer.Import(ctx, exported)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}

			var m mismatches
			if !asttest.AssertASTsAreEqual(&m, root, imported, asttest.ConsiderRange()) {
				return fmt.Errorf("%w:\n%s", ErrRoundTripMismatch, strings.Join(m.messages, "\n"))
			}

			if !a.quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "round trip ok: %s nodes, %s graph nodes\n",
					humanize.Comma(int64(len(ast.Descendants(root)))),
					humanize.Comma(int64(len(graph.ThisAndAllDescendants(exported)))))
			}

			return nil
		}),
	}

	cmd.Flags().StringVarP(&lang, "language", "l", "", "force the grammar instead of detecting it")
	cmd.Flags().StringVarP(&rulesPath, "rules", "r", "", "rule set applied before export")
	cmd.Flags().StringVar(&strategy, "id-strategy", "", "node ids: structural or sequential (default from config)")

	return cmd
}
