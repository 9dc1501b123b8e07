package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/astkit/pkg/config"
	"github.com/Sumatoshi-tech/astkit/pkg/convert"
	"github.com/Sumatoshi-tech/astkit/pkg/graph"
)

func exportCmd(a *app) *cobra.Command {
	var lang, rulesPath, output, format, strategy string

	cmd := &cobra.Command{
		Use:   "export <file|->",
		Short: "Export a syntax tree to a generic node graph",
		Long: `Parse a source file, optionally rewrite it with a rule set, and export the
tree to a generic node graph.

Examples:
  astkit export main.go                          # Table of graph nodes
  astkit export -f yaml -o tree.yaml.lz4 main.go # Compressed YAML
  astkit export --id-strategy sequential main.go`,
		Args: cobra.ExactArgs(1),
		RunE: a.run("export", func(ctx context.Context, cmd *cobra.Command, args []string) error {
			switch strategy {
			case "", config.IDStrategyStructural, config.IDStrategySequential:
			default:
				return fmt.Errorf("%w: %q", config.ErrInvalidIDStrategy, strategy)
			}

			root, err := a.parse(ctx, cmd, args[0], lang)
			if err != nil {
				return err
			}

			root, issues, err := a.rewrite(ctx, root, rulesPath)
			if !a.quiet {
				printIssues(cmd.ErrOrStderr(), issues)
			}

			if err != nil {
				return err
			}

			conv, err := a.newConverter()
			if err != nil {
				return err
			}

			exported, err := conv.Export(ctx, root, a.exportOptions(args[0], strategy)...)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}

			var render func(io.Writer) error

			switch format {
			case formatTable:
				render = writeString(graphTable(conv, exported))
			case formatYAML:
				render = func(w io.Writer) error { return encodeGraph(w, conv, exported) }
			case formatSummary:
				render = writeString(graphSummary(exported))
			default:
				return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
			}

			return writeTo(cmd, output, render)
		}),
	}

	cmd.Flags().StringVarP(&lang, "language", "l", "", "force the grammar instead of detecting it")
	cmd.Flags().StringVarP(&rulesPath, "rules", "r", "", "rule set applied before export")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout, .lz4 compresses)")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format (table, yaml, summary)")
	cmd.Flags().StringVar(&strategy, "id-strategy", "", "node ids: structural or sequential (default from config)")

	return cmd
}

// properties renders the set property values of n as name=value pairs.
func properties(conv *convert.Converter, n *graph.DynamicNode) map[string]string {
	out := make(map[string]string)

	for _, f := range n.Concept().Features {
		if f.Kind != graph.Property || n.PropertyValue(f.Name) == nil {
			continue
		}

		s, err := conv.PrimitiveSerialization().SerializeProperty(n, f.Name)
		if err != nil {
			s = fmt.Sprint(n.PropertyValue(f.Name))
		}

		out[f.Name] = s
	}

	return out
}

func parentID(n graph.Node) string {
	if p := n.Parent(); p != nil {
		return p.ID()
	}

	return ""
}

func graphTable(conv *convert.Converter, root graph.Node) string {
	nodes := graph.ThisAndAllDescendants(root)

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Format.Footer = text.FormatDefault

	tbl.AppendHeader(table.Row{"ID", "Concept", "Parent", "Children", "Properties"})

	for _, n := range nodes {
		dn, ok := n.(*graph.DynamicNode)
		if !ok {
			tbl.AppendRow(table.Row{n.ID(), "proxy", "", 0, ""})

			continue
		}

		props := properties(conv, dn)

		pairs := make([]string, 0, len(props))
		for k, v := range props {
			if k == convert.RangeProperty {
				continue
			}

			pairs = append(pairs, k+"="+v)
		}

		sort.Strings(pairs)

		tbl.AppendRow(table.Row{
			dn.ID(), dn.Concept().QualifiedName(), parentID(dn), len(dn.AllChildren()), strings.Join(pairs, " "),
		})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %s nodes", humanize.Comma(int64(len(nodes))))})

	return tbl.Render() + "\n"
}

type yamlGraphNode struct {
	ID         string              `yaml:"id"`
	Concept    string              `yaml:"concept"`
	Parent     string              `yaml:"parent,omitempty"`
	Properties map[string]string   `yaml:"properties,omitempty"`
	References map[string][]string `yaml:"references,omitempty"`
	Children   []*yamlGraphNode    `yaml:"children,omitempty"`
}

func toYAMLGraph(conv *convert.Converter, n graph.Node) *yamlGraphNode {
	out := &yamlGraphNode{ID: n.ID(), Parent: parentID(n)}

	dn, ok := n.(*graph.DynamicNode)
	if !ok {
		out.Concept = "proxy"

		return out
	}

	out.Concept = dn.Concept().QualifiedName()
	out.Properties = properties(conv, dn)

	for _, f := range dn.Concept().Features {
		switch f.Kind {
		case graph.Containment:
			for _, c := range dn.Children(f.Name) {
				out.Children = append(out.Children, toYAMLGraph(conv, c))
			}
		case graph.Reference:
			for _, rv := range dn.ReferenceValues(f.Name) {
				if out.References == nil {
					out.References = make(map[string][]string)
				}

				target := rv.ResolveInfo
				if rv.Referred != nil {
					target += " -> " + rv.Referred.ID()
				}

				out.References[f.Name] = append(out.References[f.Name], target)
			}
		case graph.Property:
		}
	}

	return out
}

func encodeGraph(w io.Writer, conv *convert.Converter, root graph.Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(toYAMLGraph(conv, root)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	return enc.Close()
}

func graphSummary(root graph.Node) string {
	nodes := graph.ThisAndAllDescendants(root)
	counts := make(map[string]int)

	for _, n := range nodes {
		name := "proxy"
		if c := n.Concept(); c != nil {
			name = c.QualifiedName()
		}

		counts[name]++
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}

	sort.Strings(names)

	var sb strings.Builder

	fmt.Fprintf(&sb, "root: %s\n", root.ID())
	fmt.Fprintf(&sb, "nodes: %s\n", humanize.Comma(int64(len(nodes))))

	for _, name := range names {
		fmt.Fprintf(&sb, "  %s: %s\n", name, humanize.Comma(int64(counts[name])))
	}

	return sb.String()
}
