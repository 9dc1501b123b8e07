package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/astkit/internal/testlang"
	"github.com/Sumatoshi-tech/astkit/pkg/ast"
)

func TestComputeIDs_PreOrder(t *testing.T) {
	t.Parallel()

	file := testlang.SampleProgram()

	ids, err := ast.ComputeIDs(file, nil, nil)
	require.NoError(t, err)

	nodes := ast.Descendants(file)
	require.Len(t, ids, len(nodes))

	for i, n := range nodes {
		assert.Equal(t, []string{"0", "1", "2", "3", "4", "5", "6"}[i], ids[n])
	}
}

func TestComputeIDs_LeavesFirst(t *testing.T) {
	t.Parallel()

	file := testlang.SampleProgram()

	ids, err := ast.ComputeIDs(file, ast.WalkLeavesFirst, ast.NewSequentialIDProvider(100))
	require.NoError(t, err)

	assert.Equal(t, "106", ids[file])
}

func TestSequentialIDProvider_StablePerNode(t *testing.T) {
	t.Parallel()

	p := ast.NewSequentialIDProvider(0)
	a, b := &testlang.IntLit{}, &testlang.IntLit{}

	idA, _ := p.ID(a)
	idB, _ := p.ID(b)
	again, _ := p.ID(a)

	assert.Equal(t, "0", idA)
	assert.Equal(t, "1", idB)
	assert.Equal(t, idA, again)
}

func TestComputeIDs_SkipsEmptyIdentifiers(t *testing.T) {
	t.Parallel()

	file := testlang.SampleProgram()
	onlyLiterals := ast.IDProviderFunc(func(n ast.Node) (string, error) {
		if lit, ok := n.(*testlang.IntLit); ok {
			return "lit-" + lit.Value, nil
		}

		return "", nil
	})

	ids, err := ast.ComputeIDs(file, nil, onlyLiterals)
	require.NoError(t, err)

	assert.Len(t, ids, 2)
}
