package transform

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/Sumatoshi-tech/astkit/pkg/ast"
)

// abort carries an assembly error out of a rule to the Transform boundary.
type abort struct {
	err error
}

// Pass is the state of one Transform call. Rules receive it to transform
// children and to record issues.
type Pass struct {
	ctx context.Context
	tr  *Transformer

	// produced maps every node handed out by a rule during this call to
	// its position in production order.
	produced map[ast.Node]int
	// active holds the source nodes whose rules are running.
	active     map[ast.Node]struct{}
	issueCount int
}

func newPass(ctx context.Context, tr *Transformer) *Pass {
	return &Pass{
		ctx:      ctx,
		tr:       tr,
		produced: make(map[ast.Node]int),
		active:   make(map[ast.Node]struct{}),
	}
}

// Context returns the context of the Transform call.
func (p *Pass) Context() context.Context { return p.ctx }

// Logger returns the transformer's logger.
func (p *Pass) Logger() *slog.Logger { return p.tr.logger }

// AddIssue records a semantic issue. With fail-on-error set, an error issue
// aborts the Transform call after being recorded.
func (p *Pass) AddIssue(message string, severity ast.Severity, rng *ast.Range) {
	p.tr.addIssue(ast.Issue{Type: ast.Semantic, Severity: severity, Message: message, Range: rng})
	p.issueCount++

	if severity == ast.SeverityError && p.tr.failOnError {
		p.abort(fmt.Errorf("%w: %s", ErrIssueRaised, message))
	}
}

// Transform transforms n and returns the single produced node, or nil when
// n is nil or was dropped.
func (p *Pass) Transform(n ast.Node) ast.Node {
	out := p.TransformAll(n)

	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	default:
		p.abort(fmt.Errorf("%w: %d nodes from %s", ErrMultipleResults, len(out), ast.TypeName(n)))

		return nil
	}
}

// TransformAll transforms n and returns every produced node.
func (p *Pass) TransformAll(n ast.Node) []ast.Node {
	if ast.IsNil(n) {
		return nil
	}

	if _, busy := p.active[n]; busy {
		p.abort(fmt.Errorf("%w: %s is already being transformed", ErrNodeReused, ast.TypeName(n)))
	}

	if _, own := p.produced[n]; own {
		p.abort(fmt.Errorf("%w: %s was produced by this transformation", ErrNodeReused, ast.TypeName(n)))
	}

	p.active[n] = struct{}{}
	defer delete(p.active, n)

	r := p.tr.lookup(reflect.TypeOf(n))

	var (
		out  []ast.Node
		mark = len(p.produced)
	)

	switch {
	case r != nil:
		out = r.produce(p, n)
	case p.tr.allowGeneric:
		p.Logger().DebugContext(p.ctx, "no rule, using generic node", "type", ast.TypeName(n))

		out = []ast.Node{&ast.GenericNode{}}
	default:
		p.abort(fmt.Errorf("%w: %s", ErrMissingRule, ast.TypeName(n)))
	}

	result := make([]ast.Node, 0, len(out))
	seen := make(map[ast.Node]bool, len(out))

	for _, node := range out {
		if ast.IsNil(node) {
			continue
		}

		if seen[node] {
			p.abort(fmt.Errorf("%w: %s returned twice by the rule for %s", ErrNodeReused, ast.TypeName(node), ast.TypeName(n)))
		}

		seen[node] = true
		result = append(result, node)

		if order, done := p.produced[node]; done {
			// Nodes produced for the children of n may be forwarded as they are.
			if order >= mark {
				continue
			}

			p.abort(fmt.Errorf("%w: %s was already produced for another source", ErrNodeReused, ast.TypeName(node)))
		}

		p.produced[node] = len(p.produced)
		p.complete(r, n, node)
	}

	return result
}

// complete sets the origin of a freshly produced node, applies the rule's
// bindings, attaches the children and runs the finalizer.
func (p *Pass) complete(r *rule, source, node ast.Node) {
	if node.Origin() == nil {
		ast.WithOrigin(node, source)
	}

	if r != nil && !r.mapping {
		p.bind(source, node, r.bindings)
	}

	for _, c := range ast.Children(node) {
		c.SetParent(node)
	}

	if r != nil && r.finalize != nil {
		r.finalize(p, node)
	}
}

func (p *Pass) bind(source, node ast.Node, bindings []binding) {
	if len(bindings) == 0 {
		return
	}

	srcDesc, dstDesc := p.describe(source), p.describe(node)

	for _, b := range bindings {
		dst, src := p.bindingFeatures(srcDesc, dstDesc, b)
		if !dst.Mutable() {
			p.abort(fmt.Errorf("%w: %s.%s is read-only", ErrChildBinding, dstDesc.Name, dst.Name))
		}

		if err := dst.Set(node, p.transformFeature(source, src)); err != nil {
			p.abort(fmt.Errorf("%w: %w", ErrChildBinding, err))
		}
	}
}

func (p *Pass) bindingFeatures(srcDesc, dstDesc *ast.TypeDescriptor, b binding) (dst, src ast.Feature) {
	dst, ok := dstDesc.Feature(b.target)
	if !ok || dst.Kind != ast.KindContainment {
		p.abort(fmt.Errorf("%w: %s has no containment %q", ErrChildBinding, dstDesc.Name, b.target))
	}

	src, ok = srcDesc.Feature(b.source)
	if !ok || src.Kind != ast.KindContainment {
		p.abort(fmt.Errorf("%w: %s has no containment %q", ErrChildBinding, srcDesc.Name, b.source))
	}

	return dst, src
}

// mapNode builds a node of type desc from source, matching features by name.
func (p *Pass) mapNode(source ast.Node, desc *ast.TypeDescriptor, bindings []binding) ast.Node {
	srcDesc := p.describe(source)
	values := make(map[string]any, len(desc.Features))
	bound := make(map[string]bool, len(bindings))

	for _, b := range bindings {
		bound[b.target] = true
	}

	for _, f := range desc.Features {
		sf, ok := srcDesc.Feature(f.Name)
		if !ok || sf.Kind != f.Kind || f.Derived || bound[f.Name] {
			continue
		}

		switch f.Kind {
		case ast.KindAttribute:
			values[f.Name] = sf.Get(source)
		case ast.KindContainment:
			values[f.Name] = p.transformFeature(source, sf)
		case ast.KindReference:
			values[f.Name] = copyRef(f, sf.Reference(source))
		}
	}

	for _, b := range bindings {
		_, src := p.bindingFeatures(srcDesc, desc, b)
		values[b.target] = p.transformFeature(source, src)
	}

	out, err := ast.Instantiate(desc, values)
	if err != nil {
		p.abort(fmt.Errorf("map %s to %s: %w", srcDesc.Name, desc.Name, err))
	}

	return out
}

// transformFeature returns the transformed children of a containment: a
// []ast.Node for collections, a single node or nil for slots.
func (p *Pass) transformFeature(source ast.Node, f ast.Feature) any {
	if f.IsMany() {
		children := f.Children(source)
		out := make([]ast.Node, 0, len(children))

		for _, c := range children {
			out = append(out, p.TransformAll(c)...)
		}

		return out
	}

	if c := p.Transform(f.Child(source)); c != nil {
		return c
	}

	return nil
}

func (p *Pass) describe(n ast.Node) *ast.TypeDescriptor {
	desc, err := ast.Describe(n)
	if err != nil {
		p.abort(err)
	}

	return desc
}

func (p *Pass) abort(err error) {
	panic(abort{err: err})
}

// Into transforms n and returns the result as a T. A nil or dropped node
// yields the zero T; a result of another type aborts the transformation.
func Into[T ast.Node](p *Pass, n ast.Node) T {
	var zero T

	out := p.Transform(n)
	if out == nil {
		return zero
	}

	t, ok := out.(T)
	if !ok {
		p.abort(fmt.Errorf("%w: %s produced %s, want %s",
			ast.ErrIncompatibleValue, ast.TypeName(n), ast.TypeName(out), reflect.TypeFor[T]()))
	}

	return t
}
