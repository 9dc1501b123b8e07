// Package suggest proposes the closest known names for a mistyped one.
package suggest

import (
	"slices"
	"strings"
)

// DefaultMaxDistance is the edit distance above which a candidate is
// considered unrelated.
const DefaultMaxDistance = 2

// Context keeps the scratch column between Distance calls.
type Context struct {
	column []int
}

// Distance returns the Levenshtein distance between a and b, computed in
// O(min(len(a), len(b))) space.
func (ctx *Context) Distance(a, b string) int {
	s1 := []rune(a)
	s2 := []rune(b)

	if len(s1) > len(s2) {
		s1, s2 = s2, s1
	}

	if len(s1) == 0 {
		return len(s2)
	}

	if cap(ctx.column) < len(s1)+1 {
		ctx.column = make([]int, len(s1)+1)
	}

	column := ctx.column[:len(s1)+1]
	for i := range column {
		column[i] = i
	}

	for col, r2 := range s2 {
		column[0] = col + 1
		diag := col

		for row, r1 := range s1 {
			old := column[row+1]

			cost := 1
			if r1 == r2 {
				cost = 0
			}

			column[row+1] = min(column[row+1]+1, column[row]+1, diag+cost)
			diag = old
		}
	}

	return column[len(s1)]
}

// Closest returns the candidates within maxDistance of word, nearest first
// and alphabetically among equals. Comparison ignores case.
func Closest(word string, candidates []string, maxDistance int) []string {
	type scored struct {
		name string
		dist int
	}

	var (
		ctx   Context
		found []scored
	)

	lower := strings.ToLower(word)

	for _, c := range candidates {
		if c == word {
			continue
		}

		d := ctx.Distance(lower, strings.ToLower(c))
		if d <= maxDistance {
			found = append(found, scored{name: c, dist: d})
		}
	}

	slices.SortFunc(found, func(x, y scored) int {
		if x.dist != y.dist {
			return x.dist - y.dist
		}

		return strings.Compare(x.name, y.name)
	})

	out := make([]string, 0, len(found))
	for _, f := range found {
		out = append(out, f.name)
	}

	return out
}

// Hint renders a " (did you mean ...?)" suffix, or "" when nothing is close.
func Hint(word string, candidates []string) string {
	best := Closest(word, candidates, DefaultMaxDistance)
	if len(best) == 0 {
		return ""
	}

	return ` (did you mean "` + best[0] + `"?)`
}
