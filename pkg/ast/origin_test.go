package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/astkit/internal/testlang"
	"github.com/Sumatoshi-tech/astkit/pkg/ast"
)

func TestWithOrigin_RecordsDestination(t *testing.T) {
	t.Parallel()

	src := &testlang.IntLit{Value: "1"}
	src.SetRange(ast.NewRange(3, 1, 3, 2))

	derived := ast.WithOrigin(&testlang.IntLiteral{Value: 1}, src)

	assert.Same(t, src, derived.Origin())
	assert.Equal(t, src.Range(), derived.Range())
	assert.Equal(t, ast.NodeDestination{Node: derived}, src.Destination())

	second := ast.WithOrigin(&testlang.IntLiteral{Value: 2}, src)
	assert.Equal(t, []ast.Node{derived, second}, ast.Nodes(src.Destination()))
}

func TestWithOrigin_IgnoresSelf(t *testing.T) {
	t.Parallel()

	n := &testlang.IntLit{}
	ast.WithOrigin(n, n)

	assert.Nil(t, n.Origin())
	assert.Nil(t, n.Destination())
}

func TestExplicitRangeOverridesOrigin(t *testing.T) {
	t.Parallel()

	origin := &ast.SimpleOrigin{Span: ast.NewRange(1, 0, 1, 5), Text: "hello"}
	n := ast.WithOrigin(&testlang.IntLit{}, origin)

	assert.Equal(t, ast.NewRange(1, 0, 1, 5), n.Range())
	assert.Equal(t, "hello", n.SourceText())

	n.SetRange(ast.NewRange(7, 0, 7, 1))
	assert.Equal(t, ast.NewRange(7, 0, 7, 1), n.Range())
}

func TestCompositeOrigin(t *testing.T) {
	t.Parallel()

	o := &ast.CompositeOrigin{Elements: []ast.Origin{
		&ast.SimpleOrigin{Span: ast.NewRange(2, 0, 2, 4), Text: "b"},
		&ast.SimpleOrigin{Span: ast.NewRange(1, 3, 1, 9), Text: "a"},
	}}

	assert.Equal(t, ast.NewRange(1, 3, 2, 4), o.Range())
	assert.Equal(t, "b\na", o.SourceText())
}

func TestDetach(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		keepRange      bool
		keepSourceText bool
		wantOrigin     ast.Origin
	}{
		{name: "drop everything", wantOrigin: nil},
		{name: "keep range", keepRange: true, wantOrigin: &ast.SimpleOrigin{Span: ast.NewRange(1, 0, 1, 2)}},
		{name: "keep text", keepSourceText: true, wantOrigin: &ast.SimpleOrigin{Text: "42"}},
		{
			name: "keep both", keepRange: true, keepSourceText: true,
			wantOrigin: &ast.SimpleOrigin{Span: ast.NewRange(1, 0, 1, 2), Text: "42"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := ast.WithOrigin(&testlang.IntLit{Value: "42"},
				&ast.SimpleOrigin{Span: ast.NewRange(1, 0, 1, 2), Text: "42"})
			derived := ast.WithOrigin(&testlang.IntLiteral{Value: 42}, src)
			require.NotNil(t, src.Destination())

			ast.Detach(derived, tt.keepRange, tt.keepSourceText)

			if tt.wantOrigin == nil {
				assert.Nil(t, derived.Origin())
			} else {
				assert.Equal(t, tt.wantOrigin, derived.Origin())
			}

			assert.Nil(t, src.Destination())
		})
	}
}
