package convert

import (
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/astkit/pkg/ast"
)

// UnknownSource is the source identifier used when a tree has no known source.
const UnknownSource = "UNKNOWN_SOURCE"

// StructuralIDProvider derives identifiers from the position of a node in
// its tree, so exporting the same shape twice yields the same identifiers.
// Identifiers read "<source>_<positional>".
type StructuralIDProvider struct {
	// SourceID prefixes every identifier. Empty means UnknownSource.
	SourceID string
}

// ID implements ast.IDProvider.
func (p StructuralIDProvider) ID(n ast.Node) (string, error) {
	pos, err := PositionalID(n)
	if err != nil {
		return "", err
	}

	source := p.SourceID
	if source == "" {
		source = UnknownSource
	}

	return source + "_" + pos, nil
}

// PositionalID returns "root" for a root, and otherwise the positional ID of
// the parent followed by the containment name and, for collections, the index.
func PositionalID(n ast.Node) (string, error) {
	var parts []string

	for curr := n; curr.Parent() != nil; curr = curr.Parent() {
		f, idx, err := ast.ContainingFeature(curr)
		if err != nil {
			return "", fmt.Errorf("%w for %s: %w", ErrIDGeneration, ast.TypeName(n), err)
		}

		if f.IsMany() {
			parts = append(parts, fmt.Sprintf("%s_%d", f.Name, idx))
		} else {
			parts = append(parts, f.Name)
		}
	}

	parts = append(parts, "root")

	var sb strings.Builder

	for i := len(parts) - 1; i >= 0; i-- {
		sb.WriteString(parts[i])

		if i > 0 {
			sb.WriteByte('_')
		}
	}

	return sb.String(), nil
}

// SourceIDFromPath turns a file path into a source identifier: "file_"
// followed by the path with every character that is not a letter, digit,
// dash or underscore replaced by a dash.
func SourceIDFromPath(path string) string {
	if path == "" {
		return UnknownSource
	}

	return "file_" + strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '-'
		}
	}, path)
}
