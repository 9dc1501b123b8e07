package convert

import (
	"context"
	"fmt"
	"math"
	"reflect"

	"github.com/Sumatoshi-tech/astkit/pkg/ast"
	"github.com/Sumatoshi-tech/astkit/pkg/graph"
)

type exportConfig struct {
	ids            ast.IDProvider
	considerParent bool
}

// ExportOption tunes one Export call.
type ExportOption func(*exportConfig)

// WithIDProvider sets the identifier strategy for the exported nodes.
func WithIDProvider(p ast.IDProvider) ExportOption {
	return func(cfg *exportConfig) {
		if p != nil {
			cfg.ids = p
		}
	}
}

// WithConsiderParent controls whether the parent of the exported root is
// recorded as a proxy on the result. It is on by default.
func WithConsiderParent(consider bool) ExportOption {
	return func(cfg *exportConfig) { cfg.considerParent = consider }
}

// Export converts the tree under root and returns the graph counterpart of
// root. Nodes exported earlier by this converter keep their counterparts.
func (c *Converter) Export(ctx context.Context, root ast.Node, opts ...ExportOption) (result graph.Node, err error) {
	if ast.IsNil(root) {
		return nil, fmt.Errorf("export: %w", ErrNilRoot)
	}

	ctx, span := c.startSpan(ctx, "astkit.convert.export", ast.TypeName(root))
	defer func() { endSpan(span, err) }()

	c.mu.Lock()
	defer c.mu.Unlock()

	cfg := exportConfig{ids: c.ids, considerParent: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	ast.AssignParents(root)

	if !c.nodes.ContainsA(root) {
		fresh, mintErr := c.mint(root, cfg)
		if mintErr != nil {
			c.forget(fresh)

			return nil, mintErr
		}

		for _, n := range fresh {
			if err = c.populate(n, cfg); err != nil {
				c.forget(fresh)

				return nil, err
			}
		}

		c.logger.DebugContext(ctx, "exported tree", "root", ast.TypeName(root), "nodes", len(fresh))
	}

	result, _ = c.nodes.ByA(root)

	if cfg.considerParent && root.Parent() != nil {
		parentID, idErr := cfg.ids.ID(root.Parent())
		if idErr != nil {
			return nil, fmt.Errorf("%w: parent of %s needs an identifier for its proxy: %w",
				ErrIDGeneration, ast.TypeName(root), idErr)
		}

		if dn, ok := result.(*graph.DynamicNode); ok {
			dn.SetParent(graph.NewProxyNode(parentID))
		}
	}

	return result, nil
}

// mint creates a graph node for every node of the tree not mapped yet, in
// pre-order, and returns the newly mapped nodes. On error the nodes mapped
// so far are returned along with it.
func (c *Converter) mint(root ast.Node, cfg exportConfig) ([]ast.Node, error) {
	var fresh []ast.Node

	for _, n := range ast.Descendants(root) {
		if c.nodes.ContainsA(n) {
			continue
		}

		concept, ok := c.languages.ConceptFor(reflect.TypeOf(n))
		if !ok {
			return fresh, fmt.Errorf("%w: %s", ErrUnknownType, ast.TypeName(n))
		}

		id, err := cfg.ids.ID(n)
		if err != nil {
			return fresh, fmt.Errorf("identify %s: %w", ast.TypeName(n), err)
		}

		if !graph.IsValidID(id) {
			return fresh, fmt.Errorf("%w: %q produced for %s", ErrInvalidID, id, describeNode(n))
		}

		c.nodes.Put(n, graph.NewDynamicNode(id, concept))
		fresh = append(fresh, n)
	}

	return fresh, nil
}

// forget drops the counterparts minted by a failed export.
func (c *Converter) forget(fresh []ast.Node) {
	for _, n := range fresh {
		c.nodes.DeleteA(n)
	}
}

func (c *Converter) populate(n ast.Node, cfg exportConfig) error {
	counterpart, _ := c.nodes.ByA(n)
	gn := counterpart.(*graph.DynamicNode)

	desc, err := ast.Describe(n)
	if err != nil {
		return err
	}

	for _, gf := range gn.Concept().Features {
		f, ok := desc.Feature(gf.Name)
		if !ok {
			if gf.Name == RangeProperty {
				err = gn.SetPropertyValue(RangeProperty, rangeValue(n))
			}

			if err != nil {
				return err
			}

			continue
		}

		switch f.Kind {
		case ast.KindAttribute:
			err = c.exportAttribute(gn, f, n)
		case ast.KindContainment:
			err = c.exportChildren(gn, f, n)
		case ast.KindReference:
			err = c.exportReference(gn, f, n, cfg)
		}

		if err != nil {
			return fmt.Errorf("export %s.%s: %w", desc.Name, f.Name, err)
		}
	}

	return nil
}

func rangeValue(n ast.Node) any {
	if r := n.Range(); r != nil {
		return *r
	}

	return nil
}

func (c *Converter) exportAttribute(gn *graph.DynamicNode, f ast.Feature, n ast.Node) error {
	v := f.Get(n)
	if ast.IsNil(v) {
		return gn.SetPropertyValue(f.Name, nil)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
		v = rv.Interface()
	}

	if e, ok := c.languages.EnumerationFor(rv.Type()); ok {
		desc, _ := c.languages.EnumFor(e)

		lit, found := desc.Literal(v)
		if !found {
			return fmt.Errorf("%w: %v in %s", ErrUnknownLiteral, v, e.Name)
		}

		return gn.SetPropertyValue(f.Name, graph.EnumerationValue{Enumeration: e, Literal: lit})
	}

	switch rv.Kind() {
	case reflect.String:
		v = rv.String()
	case reflect.Bool:
		v = rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v = rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return fmt.Errorf("%w: %d in %s", ErrValueOverflow, u, f.Name)
		}

		v = int64(u)
	case reflect.Float32, reflect.Float64:
		v = rv.Float()
	}

	return gn.SetPropertyValue(f.Name, v)
}

func (c *Converter) exportChildren(gn *graph.DynamicNode, f ast.Feature, n ast.Node) error {
	for _, child := range f.Children(n) {
		gc, ok := c.nodes.ByA(child)
		if !ok {
			return fmt.Errorf("%w: child %s", ErrMissingCounterpart, describeNode(child))
		}

		if err := gn.AddChild(f.Name, gc); err != nil {
			return err
		}
	}

	return nil
}

// exportReference links to the counterpart of an exported target, to a
// proxy for a target outside the tree or known only by identifier, and
// emits a targetless link carrying the name otherwise.
func (c *Converter) exportReference(gn *graph.DynamicNode, f ast.Feature, n ast.Node, cfg exportConfig) error {
	r := f.Reference(n)
	if ast.IsNil(r) {
		return nil
	}

	rv := graph.ReferenceValue{ResolveInfo: r.RefName()}

	switch target := r.Target(); {
	case target != nil:
		if gt, ok := c.nodes.ByA(target); ok {
			rv.Referred = gt

			break
		}

		id := r.RefIdentifier()
		if id == "" {
			var err error

			if id, err = cfg.ids.ID(target); err != nil {
				return fmt.Errorf("%w: target of %s: %w", ErrIDGeneration, describeNode(n), err)
			}
		}

		rv.Referred = graph.NewProxyNode(id)
	case r.RefIdentifier() != "":
		rv.Referred = graph.NewProxyNode(r.RefIdentifier())
	}

	return gn.AddReferenceValue(f.Name, rv)
}

func describeNode(n ast.Node) string {
	if r := n.Range(); r != nil {
		return ast.TypeName(n) + " at " + r.String()
	}

	return ast.TypeName(n)
}
