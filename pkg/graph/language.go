// Package graph is a generic, identity-addressed node graph: nodes carry a
// string identifier and an instance-of link to a Concept, and hold property
// values, ordered containments and references by feature name.
package graph

import (
	"fmt"
)

// DataType is the type of a property: a *PrimitiveType or an *Enumeration.
type DataType interface {
	DataTypeName() string
}

// PrimitiveType is a named primitive.
type PrimitiveType struct {
	Name string
}

// DataTypeName implements DataType.
func (p *PrimitiveType) DataTypeName() string { return p.Name }

// Built-in primitives.
var (
	String  = &PrimitiveType{Name: "String"}
	Integer = &PrimitiveType{Name: "Integer"}
	Boolean = &PrimitiveType{Name: "Boolean"}
	Float   = &PrimitiveType{Name: "Float"}
	Point   = &PrimitiveType{Name: "Point"}
	Range   = &PrimitiveType{Name: "Range"}
)

// Builtins returns the built-in primitive types.
func Builtins() []*PrimitiveType {
	return []*PrimitiveType{String, Integer, Boolean, Float, Point, Range}
}

// Enumeration is a closed set of literals.
type Enumeration struct {
	Name     string
	Literals []string
	Language *Language
}

// DataTypeName implements DataType.
func (e *Enumeration) DataTypeName() string { return e.Name }

// HasLiteral reports whether lit belongs to e.
func (e *Enumeration) HasLiteral(lit string) bool {
	for _, l := range e.Literals {
		if l == lit {
			return true
		}
	}

	return false
}

// EnumerationValue is a property value holding an enumeration literal.
type EnumerationValue struct {
	Enumeration *Enumeration
	Literal     string
}

// String returns the literal.
func (v EnumerationValue) String() string { return v.Literal }

// FeatureKind classifies a concept feature.
type FeatureKind int

// Feature kinds.
const (
	Property FeatureKind = iota
	Containment
	Reference
)

// String returns the kind name.
func (k FeatureKind) String() string {
	switch k {
	case Property:
		return "property"
	case Containment:
		return "containment"
	case Reference:
		return "reference"
	default:
		return fmt.Sprintf("FeatureKind(%d)", int(k))
	}
}

// Feature is a property, containment or reference of a concept.
type Feature struct {
	Name     string
	Kind     FeatureKind
	Multiple bool
	Optional bool
	// Type is the property data type. It is nil for links.
	Type DataType
	// Target names the concept or interface a link points to.
	Target string
}

// Concept classifies nodes.
type Concept struct {
	Name     string
	Language *Language
	Features []Feature

	index map[string]int
}

// NewConcept returns a concept with no features.
func NewConcept(name string) *Concept {
	return &Concept{Name: name, index: make(map[string]int)}
}

// QualifiedName returns "<language>.<concept>".
func (c *Concept) QualifiedName() string {
	if c.Language == nil {
		return c.Name
	}

	return c.Language.Name + "." + c.Name
}

// AddFeature appends f. Feature names are unique within a concept.
func (c *Concept) AddFeature(f Feature) error {
	if c.index == nil {
		c.index = make(map[string]int)
	}

	if _, ok := c.index[f.Name]; ok {
		return fmt.Errorf("%w: %s.%s", ErrDuplicateFeature, c.Name, f.Name)
	}

	c.index[f.Name] = len(c.Features)
	c.Features = append(c.Features, f)

	return nil
}

// Feature looks a feature up by name.
func (c *Concept) Feature(name string) (Feature, bool) {
	if c.index == nil {
		for _, f := range c.Features {
			if f.Name == name {
				return f, true
			}
		}

		return Feature{}, false
	}

	i, ok := c.index[name]
	if !ok {
		return Feature{}, false
	}

	return c.Features[i], true
}

// Language groups concepts, enumerations and primitive types.
type Language struct {
	Name           string
	Version        string
	Concepts       []*Concept
	Enumerations   []*Enumeration
	PrimitiveTypes []*PrimitiveType
}

// NewLanguage returns an empty language.
func NewLanguage(name, version string) *Language {
	return &Language{Name: name, Version: version}
}

// AddConcept adds c to l and returns it.
func (l *Language) AddConcept(c *Concept) *Concept {
	c.Language = l
	l.Concepts = append(l.Concepts, c)

	return c
}

// AddEnumeration adds e to l and returns it.
func (l *Language) AddEnumeration(e *Enumeration) *Enumeration {
	e.Language = l
	l.Enumerations = append(l.Enumerations, e)

	return e
}

// AddPrimitiveType adds p to l unless a primitive with the same name is known.
func (l *Language) AddPrimitiveType(p *PrimitiveType) *PrimitiveType {
	for _, existing := range l.PrimitiveTypes {
		if existing.Name == p.Name {
			return existing
		}
	}

	l.PrimitiveTypes = append(l.PrimitiveTypes, p)

	return p
}

// Concept looks a concept up by name.
func (l *Language) Concept(name string) (*Concept, bool) {
	for _, c := range l.Concepts {
		if c.Name == name {
			return c, true
		}
	}

	return nil, false
}

// Enumeration looks an enumeration up by name.
func (l *Language) Enumeration(name string) (*Enumeration, bool) {
	for _, e := range l.Enumerations {
		if e.Name == name {
			return e, true
		}
	}

	return nil, false
}
