package convert

import (
	"fmt"

	"github.com/Sumatoshi-tech/astkit/pkg/ast"
	"github.com/Sumatoshi-tech/astkit/pkg/graph"
)

// registerPositionCodecs writes points as "L<line>:<column>" and ranges as
// "<start> to <end>".
func registerPositionCodecs(ps *graph.PrimitiveSerialization) {
	ps.Register(graph.Point.Name, graph.Codec{
		Serialize: func(v any) (string, error) {
			switch p := v.(type) {
			case ast.Point:
				return p.String(), nil
			case *ast.Point:
				return p.String(), nil
			default:
				return "", fmt.Errorf("%w: %T is not a point", graph.ErrMalformedValue, v)
			}
		},
		Deserialize: func(s string) (any, error) { return ast.ParsePoint(s) },
	})

	ps.Register(graph.Range.Name, graph.Codec{
		Serialize: func(v any) (string, error) {
			switch r := v.(type) {
			case ast.Range:
				return r.String(), nil
			case *ast.Range:
				return r.String(), nil
			default:
				return "", fmt.Errorf("%w: %T is not a range", graph.ErrMalformedValue, v)
			}
		},
		Deserialize: func(s string) (any, error) { return ast.ParseRange(s) },
	})
}
