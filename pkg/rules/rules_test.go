package rules_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/astkit/pkg/ast"
	"github.com/Sumatoshi-tech/astkit/pkg/frontend"
	"github.com/Sumatoshi-tech/astkit/pkg/rules"
	"github.com/Sumatoshi-tech/astkit/pkg/transform"
)

const simplify = `
name: simplify
description: drop comments and unwrap parentheses
rules:
  - kind: comment
    action: drop
  - kind: parenthesized_expression
    action: inline
  - kind: identifier
    action: rename
    to: name
    when: 'len(text) > 1'
`

func leaf(kind, text string) *frontend.ParseNode {
	return ast.WithOrigin(&frontend.ParseNode{Kind: kind, Text: text, Named: true},
		&ast.SimpleOrigin{Text: text})
}

func tree(kind string, children ...*frontend.ParseNode) *frontend.ParseNode {
	n := &frontend.ParseNode{Kind: kind, Named: true, Children: children}
	ast.AssignParents(n)

	return n
}

func TestLoad(t *testing.T) {
	t.Parallel()

	rs, err := rules.Load([]byte(simplify))
	require.NoError(t, err)

	assert.Equal(t, "simplify", rs.Name)
	require.Len(t, rs.Rules, 3)
	assert.Equal(t, rules.ActionRename, rs.Rules[2].Action)
	assert.Equal(t, "name", rs.Rules[2].To)
	assert.Empty(t, rs.Validate())
}

func TestCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		doc      string
		rule     int
		contains string
	}{
		{
			name:     "missing name",
			doc:      "rules: []\n",
			rule:     -1,
			contains: "name",
		},
		{
			name:     "unknown action",
			doc:      "name: x\nrules:\n  - kind: a\n    action: keep\n  - kind: b\n    action: explode\n",
			rule:     1,
			contains: "action",
		},
		{
			name:     "rename without target",
			doc:      "name: x\nrules:\n  - kind: a\n    action: rename\n",
			rule:     0,
			contains: "to",
		},
		{
			name:     "condition does not compile",
			doc:      "name: x\nrules:\n  - kind: a\n    action: drop\n    when: 'len(text) >'\n",
			rule:     0,
			contains: "when",
		},
		{
			name:     "condition is not boolean",
			doc:      "name: x\nrules:\n  - kind: a\n    action: drop\n    when: 'text'\n",
			rule:     0,
			contains: "when",
		},
		{
			name:     "unreachable rule",
			doc:      "name: x\nrules:\n  - kind: '*'\n    action: keep\n  - kind: a\n    action: drop\n",
			rule:     1,
			contains: "unreachable",
		},
		{
			name:     "unknown key",
			doc:      "name: x\nrules: []\nextra: 1\n",
			rule:     -1,
			contains: "extra",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			problems, err := rules.Check([]byte(tt.doc))
			require.NoError(t, err)
			require.NotEmpty(t, problems)

			found := false

			for _, p := range problems {
				if p.Rule == tt.rule && strings.Contains(p.String(), tt.contains) {
					found = true
				}
			}

			assert.True(t, found, "no problem for rule %d mentioning %q in %v", tt.rule, tt.contains, problems)

			_, err = rules.Load([]byte(tt.doc))
			require.ErrorIs(t, err, rules.ErrInvalidRuleSet)
		})
	}
}

func TestValidate_ActionHint(t *testing.T) {
	t.Parallel()

	rs := rules.RuleSet{Name: "typo", Rules: []rules.Rule{{Kind: "comment", Action: "dorp"}}}

	problems := rs.Validate()
	require.Len(t, problems, 1)
	assert.Equal(t, "action", problems[0].Field)
	assert.Contains(t, problems[0].Message, `did you mean "drop"?`)
}

func TestCheck_MalformedYAML(t *testing.T) {
	t.Parallel()

	_, err := rules.Check([]byte("rules: [\n"))
	require.ErrorIs(t, err, rules.ErrMalformedYAML)
}

func TestInstall(t *testing.T) {
	t.Parallel()

	rs, err := rules.Load([]byte(simplify))
	require.NoError(t, err)

	tr := transform.New()
	rs.Install(tr)

	src := tree("source_file",
		leaf("comment", "// note"),
		tree("parenthesized_expression", leaf("identifier", "ab")),
		leaf("identifier", "a"),
		leaf("identifier", "abc"),
	)

	out, err := tr.Transform(context.Background(), src)
	require.NoError(t, err)
	assert.Empty(t, tr.Issues())

	root := out.(*frontend.ParseNode)
	require.Len(t, root.Children, 3)

	kinds := make([]string, 0, len(root.Children))
	for _, c := range root.Children {
		kinds = append(kinds, c.Kind+":"+c.Text)
		assert.Same(t, root, c.Parent())
	}

	assert.Equal(t, []string{"name:ab", "identifier:a", "name:abc"}, kinds)
	assert.Same(t, src.Children[1].Children[0], root.Children[0].Origin())
	assert.Same(t, src, root.Origin())
}

func TestInstall_FieldAndWildcard(t *testing.T) {
	t.Parallel()

	rs := &rules.RuleSet{
		Name: "fields",
		Rules: []rules.Rule{
			{Kind: rules.AnyKind, Field: "name", Action: rules.ActionRename, To: "label"},
			{Kind: "block", Action: rules.ActionDrop, When: "children == 0"},
		},
	}
	require.NoError(t, rs.Compile())
	require.Empty(t, rs.Validate())

	named := leaf("identifier", "main")
	named.Field = "name"

	src := tree("function_declaration", named, tree("block"), tree("block", leaf("return_statement", "return")))

	tr := transform.New()
	rs.Install(tr)

	out, err := tr.Transform(context.Background(), src)
	require.NoError(t, err)

	fn := out.(*frontend.ParseNode)
	require.Len(t, fn.Children, 2)
	assert.Equal(t, "label", fn.Children[0].Kind)
	assert.Equal(t, "name", fn.Children[0].Field)
	assert.Equal(t, "block", fn.Children[1].Kind)
	assert.Len(t, fn.Children[1].Children, 1)
}

func TestInstall_ConditionFailure(t *testing.T) {
	t.Parallel()

	rs := &rules.RuleSet{
		Name:  "broken",
		Rules: []rules.Rule{{Kind: "number", Action: rules.ActionDrop, When: `int(text) > 1`}},
	}
	require.NoError(t, rs.Compile())

	tr := transform.New()
	rs.Install(tr)

	out, err := tr.Transform(context.Background(), tree("list", leaf("number", "x1"), leaf("number", "5")))
	require.NoError(t, err)

	list := out.(*frontend.ParseNode)
	require.Len(t, list.Children, 1)
	assert.Equal(t, "x1", list.Children[0].Text)

	issues := tr.Issues()
	require.Len(t, issues, 1)
	assert.Equal(t, ast.SeverityWarning, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "rules[0].when")
}

func TestInstall_ParsedSource(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	src, err := frontend.NewParser().ParseAs(ctx, "go", []byte("package main\n\n// entry\nfunc main() {}\n"))
	require.NoError(t, err)
	require.Len(t, src.OfKind("comment"), 1)

	rs, err := rules.Load([]byte(simplify))
	require.NoError(t, err)

	tr := transform.New()
	rs.Install(tr)

	out, err := tr.Transform(ctx, src)
	require.NoError(t, err)

	root := out.(*frontend.ParseNode)
	assert.Empty(t, root.OfKind("comment"))
	require.Len(t, root.OfKind("function_declaration"), 1)
	assert.Equal(t, "name", root.OfKind("function_declaration")[0].Child("name").Kind)
	assert.Equal(t, "L4:0 to L4:14", root.OfKind("function_declaration")[0].Range().String())
}
