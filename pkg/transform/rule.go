package transform

import (
	"fmt"
	"reflect"

	"github.com/Sumatoshi-tech/astkit/pkg/ast"
)

type binding struct {
	target string
	source string
}

type rule struct {
	source   reflect.Type
	produce  func(p *Pass, source ast.Node) []ast.Node
	mapping  bool
	bindings []binding
	finalize func(p *Pass, produced ast.Node)
}

// Rule is the handle returned by the Register functions. It declares child
// bindings and a finalizer for nodes of type T produced by the rule.
type Rule[T ast.Node] struct {
	r *rule
}

// WithChild makes the target feature hold the transformed children of the
// source feature. The binding replaces any value the rule put there.
func (r *Rule[T]) WithChild(target, source string) *Rule[T] {
	r.r.bindings = append(r.r.bindings, binding{target: target, source: source})

	return r
}

// WithFinalizer registers fn to run on every produced T once its subtree has
// been transformed. A later call replaces the previous finalizer.
func (r *Rule[T]) WithFinalizer(fn func(p *Pass, produced T)) *Rule[T] {
	r.r.finalize = func(p *Pass, n ast.Node) {
		if t, ok := n.(T); ok {
			fn(p, t)
		}
	}

	return r
}

// Register adds a rule producing at most one T from each S. Returning a nil
// T drops the source node. Registering a second rule for S panics.
func Register[S ast.Node, T ast.Node](tr *Transformer, fn func(p *Pass, source S) T) *Rule[T] {
	r := &rule{
		source: reflect.TypeFor[S](),
		produce: func(p *Pass, n ast.Node) []ast.Node {
			t := fn(p, n.(S))
			if ast.IsNil(t) {
				return nil
			}

			return []ast.Node{t}
		},
	}
	tr.install(r)

	return &Rule[T]{r: r}
}

// RegisterMultiple adds a rule expanding each S into any number of T nodes.
// The produced nodes take the place of the source, in order.
func RegisterMultiple[S ast.Node, T ast.Node](tr *Transformer, fn func(p *Pass, source S) []T) *Rule[T] {
	r := &rule{
		source: reflect.TypeFor[S](),
		produce: func(p *Pass, n ast.Node) []ast.Node {
			items := fn(p, n.(S))
			out := make([]ast.Node, 0, len(items))

			for _, it := range items {
				out = append(out, it)
			}

			return out
		},
	}
	tr.install(r)

	return &Rule[T]{r: r}
}

// RegisterIdentity adds a rule copying each S: attributes and references are
// carried over and containments hold the transformed children.
func RegisterIdentity[S ast.Node](tr *Transformer) *Rule[S] {
	r := &rule{
		source:  reflect.TypeFor[S](),
		produce: identity,
	}
	tr.install(r)

	return &Rule[S]{r: r}
}

// RegisterMapping adds a rule building a T from each S by matching features
// by name: attributes are copied, references are copied by name and target,
// containments hold the transformed children. Bindings declared with
// WithChild fill target features whose source has another name. Target
// features without a counterpart keep their zero value.
func RegisterMapping[S ast.Node, T ast.Node](tr *Transformer) *Rule[T] {
	target := reflect.TypeFor[T]()
	r := &rule{source: reflect.TypeFor[S](), mapping: true}
	r.produce = func(p *Pass, n ast.Node) []ast.Node {
		desc, ok := ast.DefaultRegistry.DescribeType(target)
		if !ok {
			p.abort(fmt.Errorf("%w: mapping target %s", ast.ErrUnregisteredType, target))
		}

		return []ast.Node{p.mapNode(n, desc, r.bindings)}
	}
	tr.install(r)

	return &Rule[T]{r: r}
}

func identity(p *Pass, source ast.Node) []ast.Node {
	desc := p.describe(source)
	overrides := make(map[string]any)

	for _, f := range desc.Features {
		switch {
		case f.Derived:
		case f.Kind == ast.KindContainment:
			overrides[f.Name] = p.transformFeature(source, f)
		case f.Kind == ast.KindReference:
			overrides[f.Name] = copyRef(f, f.Reference(source))
		}
	}

	out, err := ast.ShallowCopy(source, overrides)
	if err != nil {
		p.abort(fmt.Errorf("copy %s: %w", ast.TypeName(source), err))
	}

	return []ast.Node{out}
}

// copyRef returns a fresh reference value carrying the name, identifier and
// target of r, so the copy does not share mutable state with the source.
func copyRef(f ast.Feature, r ast.Ref) any {
	if ast.IsNil(r) {
		return nil
	}

	out := f.NewRef(r.RefName())
	if out == nil {
		return r
	}

	out.SetIdentifier(r.RefIdentifier())

	if t := r.Target(); t != nil {
		// The target type is checked by SetTarget; a mismatch leaves the copy unresolved.
		_ = out.SetTarget(t) //nolint:errcheck // unresolved copy is acceptable
	}

	return out
}
