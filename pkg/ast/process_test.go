package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/astkit/internal/testlang"
	"github.com/Sumatoshi-tech/astkit/pkg/ast"
	"github.com/Sumatoshi-tech/astkit/pkg/asttest"
)

func TestTransformTree_RenameVariable(t *testing.T) {
	t.Parallel()

	start := testlang.NewFile(
		testlang.NewVarDeclaration("A", &testlang.IntLit{Value: "10"}),
		&testlang.Assignment{Variable: ast.NewReference[*testlang.VarDeclaration]("A"), Value: &testlang.IntLit{Value: "11"}},
		&testlang.Print{Value: &testlang.ValueReference{Variable: ast.NewReference[*testlang.VarDeclaration]("A")}},
	)

	expected := testlang.NewFile(
		testlang.NewVarDeclaration("B", &testlang.IntLit{Value: "10"}),
		&testlang.Assignment{Variable: ast.NewReference[*testlang.VarDeclaration]("B"), Value: &testlang.IntLit{Value: "11"}},
		&testlang.Print{Value: &testlang.ValueReference{Variable: ast.NewReference[*testlang.VarDeclaration]("B")}},
	)

	processed := make(map[ast.Node]int)

	result, err := ast.TransformTree(start, func(n ast.Node) ast.Node {
		processed[n]++

		switch node := n.(type) {
		case *testlang.VarDeclaration:
			return testlang.NewVarDeclaration("B", node.Value)
		case *testlang.ValueReference:
			return &testlang.ValueReference{Variable: ast.NewReference[*testlang.VarDeclaration]("B")}
		case *testlang.Assignment:
			return &testlang.Assignment{Variable: ast.NewReference[*testlang.VarDeclaration]("B"), Value: node.Value}
		default:
			return n
		}
	})
	require.NoError(t, err)

	asttest.AssertASTsAreEqual(t, expected, result)

	for n, count := range processed {
		assert.Equal(t, 1, count, "node %s processed more than once", ast.TypeName(n))
	}

	ast.Walk(result, func(n ast.Node) {
		for _, c := range ast.Children(n) {
			assert.Same(t, n, c.Parent())
		}
	})
}

func TestTransformTree_DropFromList(t *testing.T) {
	t.Parallel()

	start := testlang.NewFile(
		&testlang.Print{Value: &testlang.IntLit{Value: "1"}},
		testlang.NewVarDeclaration("x", &testlang.IntLit{Value: "2"}),
		&testlang.Print{Value: &testlang.IntLit{Value: "3"}},
	)

	result, err := ast.TransformTree(start, func(n ast.Node) ast.Node {
		if _, ok := n.(*testlang.Print); ok {
			return nil
		}

		return n
	})
	require.NoError(t, err)

	file := result.(*testlang.MiniCalcFile)
	require.Len(t, file.Statements, 1)
	assert.IsType(t, &testlang.VarDeclaration{}, file.Statements[0])
	assert.Len(t, start.Statements, 3)
}

func TestTransformTree_Unchanged(t *testing.T) {
	t.Parallel()

	start := testlang.SampleProgram()

	result, err := ast.TransformTree(start, func(n ast.Node) ast.Node { return n })
	require.NoError(t, err)

	assert.Same(t, start, result)
}

func TestWalkOrders(t *testing.T) {
	t.Parallel()

	file := testlang.SampleProgram()

	var pre, post []string

	ast.Walk(file, func(n ast.Node) { pre = append(pre, ast.TypeName(n)) })
	ast.WalkLeavesFirst(file, func(n ast.Node) { post = append(post, ast.TypeName(n)) })

	assert.Equal(t, []string{
		"MiniCalcFile", "VarDeclaration", "IntLit", "Assignment", "IntLit", "Print", "ValueReference",
	}, pre)
	assert.Equal(t, []string{
		"IntLit", "VarDeclaration", "IntLit", "Assignment", "ValueReference", "Print", "MiniCalcFile",
	}, post)

	lits := ast.FindAll[*testlang.IntLit](file)
	require.Len(t, lits, 2)

	decl, ok := ast.FindAncestor[*testlang.VarDeclaration](lits[0])
	require.True(t, ok)
	assert.Equal(t, "A", decl.Name)
	assert.Equal(t, []ast.Node{decl, file}, ast.Ancestors(lits[0]))
}
