package transform_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/astkit/internal/testlang"
	"github.com/Sumatoshi-tech/astkit/pkg/ast"
	"github.com/Sumatoshi-tech/astkit/pkg/asttest"
	"github.com/Sumatoshi-tech/astkit/pkg/transform"
)

func hasValidParents(t *testing.T, root ast.Node) {
	t.Helper()

	ast.Walk(root, func(n ast.Node) {
		for _, c := range ast.Children(n) {
			assert.Same(t, n, c.Parent(), "parent of %s", ast.TypeName(c))
		}
	})
}

func TestIdentityTransformer(t *testing.T) {
	t.Parallel()

	tr := transform.New()
	transform.RegisterMapping[*testlang.CU, *testlang.CU](tr).WithChild("statements", "statements")
	transform.RegisterIdentity[*testlang.DisplayIntStatement](tr)
	transform.RegisterIdentity[*testlang.SetStatement](tr)

	cu := &testlang.CU{Statements: []ast.Node{
		&testlang.SetStatement{Variable: "foo", Value: 123},
		&testlang.DisplayIntStatement{Value: 456},
	}}

	out, err := tr.Transform(context.Background(), cu)
	require.NoError(t, err)

	asttest.AssertASTsAreEqual(t, cu, out, asttest.ConsiderRange())
	hasValidParents(t, out)
	assert.NotSame(t, cu, out)
	assert.Same(t, cu, out.Origin())

	transformed := out.(*testlang.CU)
	for i, stmt := range transformed.Statements {
		assert.NotSame(t, cu.Statements[i], stmt)
		assert.Same(t, cu.Statements[i], stmt.Origin())
	}

	assert.Empty(t, tr.Issues())
}

func TestTranslateBinaryExpression(t *testing.T) {
	t.Parallel()

	tr := transform.New(transform.WithGenericFallback(false))
	transform.Register(tr, func(p *transform.Pass, s *testlang.GenericBinaryExpression) testlang.CalcExpression {
		left := transform.Into[testlang.CalcExpression](p, s.Left)
		right := transform.Into[testlang.CalcExpression](p, s.Right)

		if s.Operator == testlang.MULT {
			return &testlang.Mult{Left: left, Right: right}
		}

		return &testlang.Sum{Left: left, Right: right}
	})
	transform.RegisterIdentity[*testlang.IntLiteral](tr)

	tests := []struct {
		name     string
		operator testlang.Operator
		expected ast.Node
	}{
		{
			name:     "mult",
			operator: testlang.MULT,
			expected: &testlang.Mult{Left: &testlang.IntLiteral{Value: 7}, Right: &testlang.IntLiteral{Value: 8}},
		},
		{
			name:     "sum",
			operator: testlang.PLUS,
			expected: &testlang.Sum{Left: &testlang.IntLiteral{Value: 7}, Right: &testlang.IntLiteral{Value: 8}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			source := &testlang.GenericBinaryExpression{
				Operator: tt.operator,
				Left:     &testlang.IntLiteral{Value: 7},
				Right:    &testlang.IntLiteral{Value: 8},
			}

			out, err := tr.Transform(context.Background(), source)
			require.NoError(t, err)
			asttest.AssertASTsAreEqual(t, tt.expected, out)
			hasValidParents(t, out)
		})
	}
}

func typeChecker(opts ...transform.Option) *transform.Transformer {
	tr := transform.New(append([]transform.Option{transform.WithGenericFallback(false)}, opts...)...)

	transform.RegisterIdentity[*testlang.TypedSum](tr).WithFinalizer(func(p *transform.Pass, s *testlang.TypedSum) {
		if isType(s.Left, testlang.INT) && isType(s.Right, testlang.INT) {
			s.Type = testlang.TypePtr(testlang.INT)

			return
		}

		p.AddIssue("Illegal types for sum operation. Only integer values are allowed. Found: ("+
			testlang.TypeName(s.Left.ExprType())+", "+testlang.TypeName(s.Right.ExprType())+")",
			ast.SeverityError, s.Range())
	})
	transform.RegisterIdentity[*testlang.TypedConcat](tr).WithFinalizer(func(p *transform.Pass, c *testlang.TypedConcat) {
		if isType(c.Left, testlang.STR) && isType(c.Right, testlang.STR) {
			c.Type = testlang.TypePtr(testlang.STR)

			return
		}

		p.AddIssue("Illegal types for concat operation. Only string values are allowed. Found: ("+
			testlang.TypeName(c.Left.ExprType())+", "+testlang.TypeName(c.Right.ExprType())+")",
			ast.SeverityError, c.Range())
	})
	transform.RegisterIdentity[*testlang.TypedLiteral](tr)

	return tr
}

func isType(e testlang.TypedExpression, want testlang.Type) bool {
	got := e.ExprType()

	return got != nil && *got == want
}

func lit(value string, typ testlang.Type) *testlang.TypedLiteral {
	return &testlang.TypedLiteral{Value: value, Type: testlang.TypePtr(typ)}
}

func TestComputeTypes(t *testing.T) {
	t.Parallel()

	tr := typeChecker()
	ctx := context.Background()

	// Sum, legal.
	out, err := tr.Transform(ctx, &testlang.TypedSum{Left: lit("1", testlang.INT), Right: lit("1", testlang.INT)})
	require.NoError(t, err)
	asttest.AssertASTsAreEqual(t,
		&testlang.TypedSum{Left: lit("1", testlang.INT), Right: lit("1", testlang.INT), Type: testlang.TypePtr(testlang.INT)}, out)
	assert.Empty(t, tr.Issues())

	// Concat, legal.
	out, err = tr.Transform(ctx, &testlang.TypedConcat{Left: lit("test", testlang.STR), Right: lit("test", testlang.STR)})
	require.NoError(t, err)
	asttest.AssertASTsAreEqual(t,
		&testlang.TypedConcat{Left: lit("test", testlang.STR), Right: lit("test", testlang.STR), Type: testlang.TypePtr(testlang.STR)}, out)
	assert.Empty(t, tr.Issues())

	// Sum, illegal.
	out, err = tr.Transform(ctx, &testlang.TypedSum{Left: lit("1", testlang.INT), Right: lit("test", testlang.STR)})
	require.NoError(t, err)
	asttest.AssertASTsAreEqual(t,
		&testlang.TypedSum{Left: lit("1", testlang.INT), Right: lit("test", testlang.STR)}, out)
	require.Len(t, tr.Issues(), 1)
	assert.Equal(t, ast.Issue{
		Type:     ast.Semantic,
		Severity: ast.SeverityError,
		Message:  "Illegal types for sum operation. Only integer values are allowed. Found: (INT, STR)",
	}, tr.Issues()[0])

	// Concat, illegal.
	out, err = tr.Transform(ctx, &testlang.TypedConcat{Left: lit("1", testlang.INT), Right: lit("test", testlang.STR)})
	require.NoError(t, err)
	asttest.AssertASTsAreEqual(t,
		&testlang.TypedConcat{Left: lit("1", testlang.INT), Right: lit("test", testlang.STR)}, out)
	require.Len(t, tr.Issues(), 2)
	assert.Equal(t, ast.Issue{
		Type:     ast.Semantic,
		Severity: ast.SeverityError,
		Message:  "Illegal types for concat operation. Only string values are allowed. Found: (INT, STR)",
	}, tr.Issues()[1])

	tr.ClearIssues()
	assert.Empty(t, tr.Issues())
}

func TestFailOnError(t *testing.T) {
	t.Parallel()

	tr := typeChecker(transform.WithFailOnError(true))

	out, err := tr.Transform(context.Background(),
		&testlang.TypedSum{Left: lit("1", testlang.INT), Right: lit("test", testlang.STR)})

	require.ErrorIs(t, err, transform.ErrIssueRaised)
	assert.Nil(t, out)
	assert.Len(t, tr.Issues(), 1)
}

func TestDroppingNodes(t *testing.T) {
	t.Parallel()

	tr := transform.New()
	transform.RegisterMapping[*testlang.CU, *testlang.CU](tr).WithChild("statements", "statements")
	transform.Register(tr, func(*transform.Pass, *testlang.DisplayIntStatement) ast.Node { return nil })
	transform.RegisterIdentity[*testlang.SetStatement](tr)

	cu := &testlang.CU{Statements: []ast.Node{
		&testlang.DisplayIntStatement{Value: 456},
		&testlang.SetStatement{Variable: "foo", Value: 123},
		&testlang.DisplayIntStatement{Value: 789},
	}}

	out, err := tr.Transform(context.Background(), cu)
	require.NoError(t, err)
	hasValidParents(t, out)
	assert.Same(t, cu, out.Origin())

	transformed := out.(*testlang.CU)
	require.Len(t, transformed.Statements, 1)
	asttest.AssertASTsAreEqual(t, cu.Statements[1], transformed.Statements[0])
}

func TestNestedOrigin(t *testing.T) {
	t.Parallel()

	tr := transform.New()
	transform.RegisterMapping[*testlang.CU, *testlang.CU](tr).WithChild("statements", "statements")
	transform.Register(tr, func(_ *transform.Pass, s *testlang.DisplayIntStatement) *testlang.DisplayIntStatement {
		return ast.WithOrigin(&testlang.DisplayIntStatement{Value: s.Value}, ast.Origin(&ast.GenericNode{}))
	})

	cu := &testlang.CU{Statements: []ast.Node{&testlang.DisplayIntStatement{Value: 456}}}

	out, err := tr.Transform(context.Background(), cu)
	require.NoError(t, err)
	hasValidParents(t, out)
	assert.Same(t, cu, out.Origin())
	assert.IsType(t, &ast.GenericNode{}, out.(*testlang.CU).Statements[0].Origin())
}

func TestTransformingOneNodeToMany(t *testing.T) {
	t.Parallel()

	tr := transform.New()
	transform.RegisterMapping[*testlang.BarRoot, *testlang.BazRoot](tr).WithChild("stmts", "stmts")
	transform.RegisterMultiple(tr, func(_ *transform.Pass, s *testlang.BarStmt) []*testlang.BazStmt {
		return []*testlang.BazStmt{{Desc: s.Desc + "-1"}, {Desc: s.Desc + "-2"}}
	})

	original := &testlang.BarRoot{Stmts: []*testlang.BarStmt{{Desc: "a"}, {Desc: "b"}}}

	out, err := tr.Transform(context.Background(), original)
	require.NoError(t, err)
	hasValidParents(t, out)
	assert.Same(t, original, out.Origin())
	asttest.AssertASTsAreEqual(t, &testlang.BazRoot{Stmts: []*testlang.BazStmt{
		{Desc: "a-1"}, {Desc: "a-2"}, {Desc: "b-1"}, {Desc: "b-2"},
	}}, out)

	for _, stmt := range out.(*testlang.BazRoot).Stmts[:2] {
		assert.Same(t, original.Stmts[0], stmt.Origin())
	}
}

func TestInterfaceRule(t *testing.T) {
	t.Parallel()

	tr := transform.New()
	transform.Register(tr, func(*transform.Pass, testlang.CalcExpression) *testlang.IntLiteral {
		return &testlang.IntLiteral{Value: 1}
	})
	transform.Register(tr, func(_ *transform.Pass, l *testlang.IntLiteral) *testlang.IntLiteral {
		return &testlang.IntLiteral{Value: l.Value * 10}
	})

	out, err := tr.Transform(context.Background(), &testlang.IntLiteral{Value: 4})
	require.NoError(t, err)
	assert.Equal(t, 40, out.(*testlang.IntLiteral).Value)

	out, err = tr.Transform(context.Background(), &testlang.Sum{})
	require.NoError(t, err)
	assert.Equal(t, 1, out.(*testlang.IntLiteral).Value)
}

func TestMissingRule(t *testing.T) {
	t.Parallel()

	cu := &testlang.CU{Statements: []ast.Node{&testlang.SetStatement{Variable: "a"}}}

	strict := transform.New()
	transform.RegisterIdentity[*testlang.CU](strict)

	_, err := strict.Transform(context.Background(), cu)
	require.ErrorIs(t, err, transform.ErrMissingRule)
	assert.ErrorContains(t, err, "SetStatement")

	lenient := transform.New(transform.WithGenericFallback(true))
	transform.RegisterIdentity[*testlang.CU](lenient)

	out, err := lenient.Transform(context.Background(), cu)
	require.NoError(t, err)

	stmt := out.(*testlang.CU).Statements[0]
	assert.IsType(t, &ast.GenericNode{}, stmt)
	assert.Same(t, cu.Statements[0], stmt.Origin())
	assert.Same(t, out, stmt.Parent())
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	t.Parallel()

	tr := transform.New()
	transform.RegisterIdentity[*testlang.IntLiteral](tr)

	assert.PanicsWithError(t, "duplicate transformation rule: *testlang.IntLiteral", func() {
		transform.RegisterIdentity[*testlang.IntLiteral](tr)
	})
}

func TestNodeReuse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func(tr *transform.Transformer)
	}{
		{
			name: "same output for two sources",
			setup: func(tr *transform.Transformer) {
				shared := &testlang.BazStmt{Desc: "shared"}
				transform.Register(tr, func(*transform.Pass, *testlang.BarStmt) *testlang.BazStmt { return shared })
			},
		},
		{
			name: "same output twice from one source",
			setup: func(tr *transform.Transformer) {
				shared := &testlang.BazStmt{Desc: "shared"}
				transform.RegisterMultiple(tr, func(*transform.Pass, *testlang.BarStmt) []*testlang.BazStmt {
					return []*testlang.BazStmt{shared, shared}
				})
			},
		},
		{
			name: "source transformed from its own rule",
			setup: func(tr *transform.Transformer) {
				transform.Register(tr, func(p *transform.Pass, s *testlang.BarStmt) *testlang.BazStmt {
					return transform.Into[*testlang.BazStmt](p, s)
				})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tr := transform.New()
			transform.RegisterMapping[*testlang.BarRoot, *testlang.BazRoot](tr).WithChild("stmts", "stmts")
			tt.setup(tr)

			root := &testlang.BarRoot{Stmts: []*testlang.BarStmt{{Desc: "a"}, {Desc: "b"}}}

			_, err := tr.Transform(context.Background(), root)
			require.ErrorIs(t, err, transform.ErrNodeReused)
		})
	}
}

func TestForwardingChildren(t *testing.T) {
	t.Parallel()

	tr := transform.New()
	transform.RegisterMapping[*testlang.CU, *testlang.CU](tr).WithChild("statements", "statements")
	transform.RegisterIdentity[*testlang.DisplayIntStatement](tr)
	transform.RegisterIdentity[*testlang.BarStmt](tr)
	transform.RegisterMultiple(tr, func(p *transform.Pass, r *testlang.BarRoot) []ast.Node {
		var out []ast.Node
		for _, s := range r.Stmts {
			out = append(out, p.TransformAll(s)...)
		}

		return out
	})

	nested := &testlang.BarRoot{Stmts: []*testlang.BarStmt{{Desc: "a"}, {Desc: "b"}}}
	cu := &testlang.CU{Statements: []ast.Node{nested, &testlang.DisplayIntStatement{Value: 1}}}

	out, err := tr.Transform(context.Background(), cu)
	require.NoError(t, err)
	hasValidParents(t, out)

	asttest.AssertASTsAreEqual(t, &testlang.CU{Statements: []ast.Node{
		&testlang.BarStmt{Desc: "a"},
		&testlang.BarStmt{Desc: "b"},
		&testlang.DisplayIntStatement{Value: 1},
	}}, out)

	stmts := out.(*testlang.CU).Statements
	assert.Same(t, nested.Stmts[0], stmts[0].Origin())
	assert.Same(t, nested.Stmts[1], stmts[1].Origin())
}

func TestInvalidChildBinding(t *testing.T) {
	t.Parallel()

	tr := transform.New()
	transform.Register(tr, func(*transform.Pass, *testlang.BarRoot) *testlang.BazRoot { return &testlang.BazRoot{} }).
		WithChild("statements", "stmts")

	_, err := tr.Transform(context.Background(), &testlang.BarRoot{})
	require.ErrorIs(t, err, transform.ErrChildBinding)
	assert.ErrorContains(t, err, `BazRoot has no containment "statements"`)
}
