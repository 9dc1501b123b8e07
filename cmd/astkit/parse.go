package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/astkit/pkg/ast"
	"github.com/Sumatoshi-tech/astkit/pkg/frontend"
)

// Output formats.
const (
	formatTree    = "tree"
	formatYAML    = "yaml"
	formatTable   = "table"
	formatSummary = "summary"
)

// ErrUnsupportedFormat is returned for an unknown --format value.
var ErrUnsupportedFormat = errors.New("unsupported format")

func parseCmd(a *app) *cobra.Command {
	var lang, output, format string

	cmd := &cobra.Command{
		Use:   "parse <file|->",
		Short: "Parse a source file into a syntax tree",
		Long: `Parse a source file with its tree-sitter grammar and print the tree.

Examples:
  astkit parse main.go                 # Print the tree
  astkit parse -f yaml main.go         # Print the tree as YAML
  cat app.py | astkit parse -l python -  # Parse from stdin`,
		Args: cobra.ExactArgs(1),
		RunE: a.run("parse", func(ctx context.Context, cmd *cobra.Command, args []string) error {
			root, err := a.parse(ctx, cmd, args[0], lang)
			if err != nil {
				return err
			}

			render, err := treeRenderer(root, format)
			if err != nil {
				return err
			}

			return writeTo(cmd, output, render)
		}),
	}

	cmd.Flags().StringVarP(&lang, "language", "l", "", "force the grammar instead of detecting it")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout, .lz4 compresses)")
	cmd.Flags().StringVarP(&format, "format", "f", formatTree, "output format (tree, yaml)")

	return cmd
}

func treeRenderer(root ast.Node, format string) (func(io.Writer) error, error) {
	switch format {
	case formatTree:
		return writeString(debugTree(root)), nil
	case formatYAML:
		pn, ok := root.(*frontend.ParseNode)
		if !ok {
			return nil, fmt.Errorf("%w: yaml needs a parse tree, got %s", ErrUnsupportedFormat, ast.TypeName(root))
		}

		return func(w io.Writer) error {
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)

			if err := enc.Encode(toYAMLNode(pn)); err != nil {
				return fmt.Errorf("encode yaml: %w", err)
			}

			return enc.Close()
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func debugTree(root ast.Node) string {
	return ast.DebugPrint(root, ast.PrintConfig{SkipEmptyCollections: true, SkipNil: true})
}

type yamlNode struct {
	Kind     string      `yaml:"kind"`
	Field    string      `yaml:"field,omitempty"`
	Text     string      `yaml:"text,omitempty"`
	Range    string      `yaml:"range,omitempty"`
	Children []*yamlNode `yaml:"children,omitempty"`
}

func toYAMLNode(n *frontend.ParseNode) *yamlNode {
	out := &yamlNode{Kind: n.Kind, Field: n.Field, Text: n.Text}

	if r := n.Range(); r != nil {
		out.Range = r.String()
	}

	for _, c := range n.Children {
		out.Children = append(out.Children, toYAMLNode(c))
	}

	return out
}
