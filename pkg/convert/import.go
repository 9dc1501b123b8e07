package convert

import (
	"context"
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/astkit/pkg/ast"
	"github.com/Sumatoshi-tech/astkit/pkg/graph"
)

// postponed is a reference slot to fill once every node of the graph has
// been instantiated.
type postponed struct {
	ref    ast.Ref
	target graph.Node
}

// Import converts the graph under root into nodes and returns the
// counterpart of root. Children are instantiated before their parents;
// references are resolved in a final pass, so forward references work.
// Graph nodes imported or exported earlier keep their counterparts.
func (c *Converter) Import(ctx context.Context, root graph.Node) (result ast.Node, err error) {
	if ast.IsNil(root) {
		return nil, fmt.Errorf("import: %w", ErrNilRoot)
	}

	ctx, span := c.startSpan(ctx, "astkit.convert.import", root.ID())
	defer func() { endSpan(span, err) }()

	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		refs    []postponed
		created []graph.Node
	)

	all := graph.ThisAndAllDescendants(root)

	for _, gn := range slices.Backward(all) {
		if c.nodes.ContainsB(gn) {
			continue
		}

		dn, ok := gn.(*graph.DynamicNode)
		if !ok {
			continue
		}

		n, nodeRefs, instErr := c.instantiate(dn)
		if instErr != nil {
			for _, done := range created {
				c.nodes.DeleteB(done)
			}

			return nil, fmt.Errorf("import node %s of concept %s: %w", dn.ID(), dn.Concept().QualifiedName(), instErr)
		}

		c.nodes.Put(n, dn)
		refs = append(refs, nodeRefs...)
		created = append(created, dn)
	}

	for _, gn := range created {
		applyRange(c.nodes, gn.(*graph.DynamicNode))
	}

	c.resolve(ctx, refs)

	c.logger.DebugContext(ctx, "imported graph", "root", root.ID(), "nodes", len(created), "references", len(refs))

	result, ok := c.nodes.ByB(root)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingCounterpart, root.ID())
	}

	return result, nil
}

func applyRange(nodes *BiMap[ast.Node, graph.Node], dn *graph.DynamicNode) {
	r, ok := dn.PropertyValue(RangeProperty).(ast.Range)
	if !ok {
		return
	}

	if n, found := nodes.ByB(dn); found {
		n.SetRange(&r)
	}
}

// instantiate builds the node for dn. Constructor parameters and mutable
// features come from the same-named concept features; references are
// returned for postponed resolution.
func (c *Converter) instantiate(dn *graph.DynamicNode) (ast.Node, []postponed, error) {
	desc, ok := c.languages.TypeFor(dn.Concept())
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownConcept, dn.Concept().QualifiedName())
	}

	var (
		values = make(map[string]any, len(desc.Features))
		refs   []postponed
		late   []ast.Feature
	)

	for _, f := range desc.Features {
		if f.Derived {
			continue
		}

		if _, ok := dn.Concept().Feature(f.Name); !ok {
			continue
		}

		switch f.Kind {
		case ast.KindAttribute:
			v, err := c.importAttribute(dn, f)
			if err != nil {
				return nil, nil, err
			}

			values[f.Name] = v
		case ast.KindContainment:
			v, err := c.importChildren(dn, f)
			if err != nil {
				return nil, nil, err
			}

			values[f.Name] = v
		case ast.KindReference:
			if !f.Mutable() && !slices.Contains(desc.Params, f.Name) {
				late = append(late, f)

				continue
			}

			r, target, err := referenceOf(dn, f, nil)
			if err != nil {
				return nil, nil, err
			}

			if r != nil {
				values[f.Name] = r
				refs = append(refs, postponed{ref: r, target: target})
			}
		}
	}

	n, err := ast.Instantiate(desc, values)
	if err != nil {
		return nil, nil, err
	}

	// Read-only references are filled in place on the value the node owns.
	for _, f := range late {
		current := f.Reference(n)

		r, target, refErr := referenceOf(dn, f, current)
		if refErr != nil {
			return nil, nil, refErr
		}

		if r == nil {
			continue
		}

		if current == nil {
			return nil, nil, fmt.Errorf("%w: %s.%s was not supplied at construction", ast.ErrImmutableProperty, desc.Name, f.Name)
		}

		refs = append(refs, postponed{ref: r, target: target})
	}

	return n, refs, nil
}

func (c *Converter) importAttribute(dn *graph.DynamicNode, f ast.Feature) (any, error) {
	v := dn.PropertyValue(f.Name)

	ev, ok := v.(graph.EnumerationValue)
	if !ok {
		return v, nil
	}

	desc, found := c.languages.EnumFor(ev.Enumeration)
	if !found {
		return nil, fmt.Errorf("%w: enumeration %s", ErrUnknownConcept, ev.Enumeration.Name)
	}

	value, found := desc.Value(ev.Literal)
	if !found {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownLiteral, ev.Enumeration.Name, ev.Literal)
	}

	return value, nil
}

func (c *Converter) importChildren(dn *graph.DynamicNode, f ast.Feature) (any, error) {
	children := dn.Children(f.Name)
	native := make([]ast.Node, 0, len(children))

	for _, gc := range children {
		n, ok := c.nodes.ByB(gc)
		if !ok {
			return nil, fmt.Errorf("%w: child %s of %s", ErrMissingCounterpart, gc.ID(), dn.ID())
		}

		native = append(native, n)
	}

	if f.IsMany() {
		return native, nil
	}

	switch len(native) {
	case 0:
		return nil, nil
	case 1:
		return native[0], nil
	default:
		return nil, fmt.Errorf("%w: %s.%s holds %d children", ErrCardinality, dn.ID(), f.Name, len(native))
	}
}

// referenceOf reads the single link of reference f. It fills current when
// given, or a new reference value otherwise; a missing link yields nil.
func referenceOf(dn *graph.DynamicNode, f ast.Feature, current ast.Ref) (ast.Ref, graph.Node, error) {
	links := dn.ReferenceValues(f.Name)

	switch len(links) {
	case 0:
		return nil, nil, nil
	case 1:
	default:
		return nil, nil, fmt.Errorf("%w: %s.%s holds %d links", ErrCardinality, dn.ID(), f.Name, len(links))
	}

	link := links[0]

	r := current
	if r == nil {
		r = f.NewRef(link.ResolveInfo)
	} else {
		r.SetRefName(link.ResolveInfo)
	}

	return r, link.Referred, nil
}

// resolve fills the postponed references. A target known to the converter
// becomes the referred node; a proxy is matched by identifier against the
// known nodes and otherwise leaves only the identifier.
func (c *Converter) resolve(ctx context.Context, refs []postponed) {
	if len(refs) == 0 {
		return
	}

	byID := make(map[string]ast.Node, c.nodes.Len())

	c.nodes.Each(func(n ast.Node, g graph.Node) bool {
		byID[g.ID()] = n

		return true
	})

	for _, p := range refs {
		if p.target == nil {
			continue
		}

		n, ok := c.nodes.ByB(p.target)
		if !ok {
			n, ok = byID[p.target.ID()]
		}

		if !ok {
			p.ref.SetIdentifier(p.target.ID())

			continue
		}

		if err := p.ref.SetTarget(n); err != nil {
			c.logger.DebugContext(ctx, "reference left unresolved", "name", p.ref.RefName(), "error", err)
			p.ref.SetIdentifier(p.target.ID())
		}
	}
}
