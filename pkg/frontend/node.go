package frontend

import (
	"github.com/Sumatoshi-tech/astkit/pkg/ast"
)

// ParseNode is a concrete syntax node as produced by tree-sitter. Kind is the
// grammar symbol, Field the name under which the parent holds the node, and
// Text the source text of leaves.
type ParseNode struct {
	ast.Base
	Kind     string
	Field    string
	Text     string
	Named    bool
	Children []*ParseNode
}

// ParseNodeType describes ParseNode.
var ParseNodeType = ast.MustRegister(ast.Define("ParseNode", func() *ParseNode { return &ParseNode{} }).
	With(
		ast.Attribute("kind", func(n *ParseNode) string { return n.Kind }, func(n *ParseNode, v string) { n.Kind = v }),
		ast.Attribute("field", func(n *ParseNode) string { return n.Field }, func(n *ParseNode, v string) { n.Field = v }),
		ast.Attribute("text", func(n *ParseNode) string { return n.Text }, func(n *ParseNode, v string) { n.Text = v }),
		ast.Attribute("named", func(n *ParseNode) bool { return n.Named }, func(n *ParseNode, v bool) { n.Named = v }),
		ast.ChildList("children", func(n *ParseNode) *[]*ParseNode { return &n.Children }),
	))

// Language returns the language holding ParseNode, for registration with a
// converter.
func Language() *ast.Language {
	return ast.NewLanguage("TreeSitter", "1").AddTypes(ParseNodeType)
}

// Child returns the first child held under field, or nil.
func (n *ParseNode) Child(field string) *ParseNode {
	for _, c := range n.Children {
		if c.Field == field {
			return c
		}
	}

	return nil
}

// OfKind returns the direct children of the given kind.
func (n *ParseNode) OfKind(kind string) []*ParseNode {
	var out []*ParseNode

	for _, c := range n.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}

	return out
}
