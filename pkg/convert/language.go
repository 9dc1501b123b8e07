package convert

import (
	"fmt"
	"reflect"

	"github.com/Sumatoshi-tech/astkit/pkg/ast"
	"github.com/Sumatoshi-tech/astkit/pkg/graph"
)

// RangeProperty is the built-in property carrying the range of every exported node.
const RangeProperty = "range"

// LanguageConverter maps node languages to graph languages: node types to
// concepts and enums to enumerations. Concepts are matched by qualified
// name, so graphs built by another converter for the same language import
// as well. LanguageConverter is not synchronized.
type LanguageConverter struct {
	languages map[string]*graph.Language
	order     []*graph.Language

	concepts     map[reflect.Type]*graph.Concept
	types        map[string]*ast.TypeDescriptor
	enumerations map[reflect.Type]*graph.Enumeration
	enums        map[string]*ast.EnumDescriptor
	primitives   map[reflect.Type]*graph.PrimitiveType
}

// NewLanguageConverter returns a converter knowing no language.
func NewLanguageConverter() *LanguageConverter {
	return &LanguageConverter{
		languages:    make(map[string]*graph.Language),
		concepts:     make(map[reflect.Type]*graph.Concept),
		types:        make(map[string]*ast.TypeDescriptor),
		enumerations: make(map[reflect.Type]*graph.Enumeration),
		enums:        make(map[string]*ast.EnumDescriptor),
		primitives:   make(map[reflect.Type]*graph.PrimitiveType),
	}
}

// Export returns the graph language corresponding to l, building it on first use.
func (lc *LanguageConverter) Export(l *ast.Language) (*graph.Language, error) {
	if gl, ok := lc.languages[l.Name]; ok {
		return gl, nil
	}

	gl := graph.NewLanguage(l.Name, l.Version)

	for _, e := range l.Enums {
		ge := gl.AddEnumeration(&graph.Enumeration{Name: e.Name, Literals: e.Literals})
		lc.bindEnum(e, ge)
	}

	for _, desc := range l.Types {
		c := gl.AddConcept(graph.NewConcept(desc.Name))

		for _, f := range desc.Features {
			if f.Derived {
				continue
			}

			if err := c.AddFeature(lc.feature(gl, f)); err != nil {
				return nil, fmt.Errorf("export language %s: %w", l.Name, err)
			}
		}

		if _, clash := desc.Feature(RangeProperty); !clash {
			if err := c.AddFeature(graph.Feature{
				Name: RangeProperty, Kind: graph.Property, Optional: true, Type: graph.Range,
			}); err != nil {
				return nil, fmt.Errorf("export language %s: %w", l.Name, err)
			}
		}

		lc.bindType(desc, c)
	}

	lc.languages[l.Name] = gl
	lc.order = append(lc.order, gl)

	return gl, nil
}

// Associate records that the graph language gl describes l, matching
// concepts and enumerations by name.
func (lc *LanguageConverter) Associate(gl *graph.Language, l *ast.Language) error {
	for _, e := range l.Enums {
		ge, ok := gl.Enumeration(e.Name)
		if !ok {
			return fmt.Errorf("%w: enumeration %s in %s", ErrUnknownType, e.Name, gl.Name)
		}

		lc.bindEnum(e, ge)
	}

	for _, desc := range l.Types {
		c, ok := gl.Concept(desc.Name)
		if !ok {
			return fmt.Errorf("%w: %s in %s", ErrUnknownType, desc.Name, gl.Name)
		}

		lc.bindType(desc, c)
	}

	if _, known := lc.languages[gl.Name]; !known {
		lc.order = append(lc.order, gl)
	}

	lc.languages[gl.Name] = gl

	return nil
}

// Languages returns the known graph languages in registration order.
func (lc *LanguageConverter) Languages() []*graph.Language {
	return append([]*graph.Language(nil), lc.order...)
}

// ConceptFor returns the concept of node type t.
func (lc *LanguageConverter) ConceptFor(t reflect.Type) (*graph.Concept, bool) {
	c, ok := lc.concepts[t]

	return c, ok
}

// TypeFor returns the node type of concept c.
func (lc *LanguageConverter) TypeFor(c *graph.Concept) (*ast.TypeDescriptor, bool) {
	if c == nil {
		return nil, false
	}

	desc, ok := lc.types[c.QualifiedName()]

	return desc, ok
}

// EnumerationFor returns the enumeration of enum type t.
func (lc *LanguageConverter) EnumerationFor(t reflect.Type) (*graph.Enumeration, bool) {
	e, ok := lc.enumerations[t]

	return e, ok
}

// EnumFor returns the enum of enumeration e.
func (lc *LanguageConverter) EnumFor(e *graph.Enumeration) (*ast.EnumDescriptor, bool) {
	d, ok := lc.enums[enumKey(e)]

	return d, ok
}

// PrimitiveFor returns the custom primitive type declared for Go type t.
func (lc *LanguageConverter) PrimitiveFor(t reflect.Type) (*graph.PrimitiveType, bool) {
	p, ok := lc.primitives[t]

	return p, ok
}

func (lc *LanguageConverter) bindType(desc *ast.TypeDescriptor, c *graph.Concept) {
	lc.concepts[desc.Type] = c
	lc.types[c.QualifiedName()] = desc
}

func (lc *LanguageConverter) bindEnum(e *ast.EnumDescriptor, ge *graph.Enumeration) {
	lc.enumerations[e.Type] = ge
	lc.enums[enumKey(ge)] = e
}

func enumKey(e *graph.Enumeration) string {
	if e.Language == nil {
		return e.Name
	}

	return e.Language.Name + "." + e.Name
}

func (lc *LanguageConverter) feature(gl *graph.Language, f ast.Feature) graph.Feature {
	out := graph.Feature{
		Name:     f.Name,
		Multiple: f.IsMany(),
		Optional: f.Multiplicity != ast.Single,
	}

	switch f.Kind {
	case ast.KindAttribute:
		out.Kind = graph.Property
		out.Type = lc.dataType(gl, f.ValueType)
	case ast.KindContainment:
		out.Kind = graph.Containment
		out.Target = typeLabel(f.ValueType)
	case ast.KindReference:
		out.Kind = graph.Reference
		out.Target = typeLabel(f.ValueType)
	}

	return out
}

func (lc *LanguageConverter) dataType(gl *graph.Language, t reflect.Type) graph.DataType {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if e, ok := lc.enumerations[t]; ok {
		return e
	}

	if e, ok := ast.DefaultRegistry.Enum(t); ok {
		ge := gl.AddEnumeration(&graph.Enumeration{Name: e.Name, Literals: e.Literals})
		lc.bindEnum(e, ge)

		return ge
	}

	switch t {
	case reflect.TypeFor[ast.Point]():
		return graph.Point
	case reflect.TypeFor[ast.Range]():
		return graph.Range
	}

	switch t.Kind() {
	case reflect.String:
		return graph.String
	case reflect.Bool:
		return graph.Boolean
	case reflect.Float32, reflect.Float64:
		return graph.Float
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return graph.Integer
	}

	if p, ok := lc.primitives[t]; ok {
		return p
	}

	p := gl.AddPrimitiveType(&graph.PrimitiveType{Name: typeLabel(t)})
	lc.primitives[t] = p

	return p
}

func typeLabel(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Name() != "" {
		return t.Name()
	}

	return t.String()
}
