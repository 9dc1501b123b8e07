package suggest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/astkit/internal/suggest"
)

func TestDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"drop", "drop", 0},
		{"dorp", "drop", 2},
		{"héllo", "hello", 1},
	}

	var ctx suggest.Context

	for _, tt := range tests {
		assert.Equal(t, tt.want, ctx.Distance(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
		assert.Equal(t, tt.want, ctx.Distance(tt.b, tt.a), "%q vs %q", tt.b, tt.a)
	}
}

func TestClosest(t *testing.T) {
	t.Parallel()

	candidates := []string{"python", "java", "javascript", "json", "go"}

	assert.Equal(t, []string{"python"}, suggest.Closest("pyton", candidates, 2))
	assert.Equal(t, []string{"java"}, suggest.Closest("Jave", candidates, 1))
	assert.Equal(t, []string{"go", "json"}, suggest.Closest("jo", candidates, 2))
	assert.Empty(t, suggest.Closest("cobol", candidates, 2))
	assert.Empty(t, suggest.Closest("json", []string{"json"}, 2))
}

func TestHint(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ` (did you mean "rename"?)`, suggest.Hint("renam", []string{"keep", "drop", "rename", "inline"}))
	assert.Empty(t, suggest.Hint("explode", []string{"keep", "drop", "rename", "inline"}))
}
