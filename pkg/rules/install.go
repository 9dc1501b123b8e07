package rules

import (
	"github.com/Sumatoshi-tech/astkit/pkg/ast"
	"github.com/Sumatoshi-tech/astkit/pkg/frontend"
	"github.com/Sumatoshi-tech/astkit/pkg/transform"
)

// Install registers the rule set on tr as the rule for ParseNode. Conditions
// that fail to evaluate are reported as warnings and the node is kept.
func (rs *RuleSet) Install(tr *transform.Transformer) {
	transform.RegisterMultiple(tr, func(p *transform.Pass, n *frontend.ParseNode) []*frontend.ParseNode {
		r, err := rs.Match(n)
		if err != nil {
			p.Logger().DebugContext(p.Context(), "rule condition failed", "kind", n.Kind, "error", err)
			p.AddIssue(err.Error(), ast.SeverityWarning, n.Range())

			r = nil
		}

		action := ActionKeep
		if r != nil {
			action = r.Action
		}

		switch action {
		case ActionDrop:
			return nil
		case ActionInline:
			return transformChildren(p, n)
		case ActionRename:
			return []*frontend.ParseNode{copyNode(p, n, r.To)}
		default:
			return []*frontend.ParseNode{copyNode(p, n, n.Kind)}
		}
	})
}

func copyNode(p *transform.Pass, n *frontend.ParseNode, kind string) *frontend.ParseNode {
	return &frontend.ParseNode{
		Kind:     kind,
		Field:    n.Field,
		Text:     n.Text,
		Named:    n.Named,
		Children: transformChildren(p, n),
	}
}

func transformChildren(p *transform.Pass, n *frontend.ParseNode) []*frontend.ParseNode {
	var out []*frontend.ParseNode

	for _, child := range n.Children {
		for _, produced := range p.TransformAll(child) {
			pn, ok := produced.(*frontend.ParseNode)
			if !ok {
				p.AddIssue("rule for "+child.Kind+" produced "+ast.TypeName(produced)+" inside a parse tree",
					ast.SeverityError, child.Range())

				continue
			}

			out = append(out, pn)
		}
	}

	return out
}
