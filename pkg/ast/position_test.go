package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/astkit/internal/testlang"
	"github.com/Sumatoshi-tech/astkit/pkg/ast"
)

func TestPointAndRangeStrings(t *testing.T) {
	t.Parallel()

	r := ast.NewRange(1, 0, 2, 3)

	assert.Equal(t, "L1:0", r.Start.String())
	assert.Equal(t, "L1:0 to L2:3", r.String())

	parsed, err := ast.ParseRange("L1:0 to L2:3")
	require.NoError(t, err)
	assert.Equal(t, *r, parsed)

	p, err := ast.ParsePoint("L12:7")
	require.NoError(t, err)
	assert.Equal(t, ast.Point{Line: 12, Column: 7}, p)
}

func TestParseRange_Malformed(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "L1:0", "1:0 to L2:0", "L1:x to L2:0", "L1:0 to L2"} {
		_, err := ast.ParseRange(input)
		require.ErrorIs(t, err, ast.ErrMalformedPosition, input)
	}
}

func TestRangeContainsAndOverlaps(t *testing.T) {
	t.Parallel()

	outer := *ast.NewRange(1, 0, 10, 0)

	tests := []struct {
		name     string
		other    ast.Range
		contains bool
		overlaps bool
	}{
		{name: "inside", other: *ast.NewRange(2, 0, 3, 5), contains: true, overlaps: true},
		{name: "same", other: outer, contains: true, overlaps: true},
		{name: "straddles end", other: *ast.NewRange(9, 0, 12, 0), contains: false, overlaps: true},
		{name: "straddles start", other: *ast.NewRange(0, 0, 1, 5), contains: false, overlaps: true},
		{name: "wraps", other: *ast.NewRange(0, 0, 11, 0), contains: false, overlaps: true},
		{name: "after", other: *ast.NewRange(11, 0, 12, 0), contains: false, overlaps: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.contains, outer.Contains(tt.other))
			assert.Equal(t, tt.overlaps, outer.Overlaps(tt.other))
		})
	}
}

func TestNodeRangeQueries(t *testing.T) {
	t.Parallel()

	lit := &testlang.IntLit{Value: "1"}
	assert.False(t, ast.Contains(lit, *ast.NewRange(1, 0, 1, 1)))

	lit.SetRange(ast.NewRange(1, 0, 1, 10))
	assert.True(t, ast.Contains(lit, *ast.NewRange(1, 2, 1, 3)))
	assert.True(t, ast.Overlaps(lit, *ast.NewRange(1, 8, 2, 0)))
	assert.False(t, ast.Overlaps(lit, *ast.NewRange(2, 0, 2, 1)))
}
