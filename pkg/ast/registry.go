package ast

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// TypeDescriptor is the statically declared description of a node type: its
// name, its ordered features and how to instantiate it.
type TypeDescriptor struct {
	Name     string
	Type     reflect.Type
	Features []Feature
	// Params names the features consumed by the constructor, in order.
	Params []string

	newFn     func() Node
	construct func(Args) (Node, error)
	index     map[string]int
}

// Feature looks up a feature by name.
func (d *TypeDescriptor) Feature(name string) (Feature, bool) {
	idx, ok := d.index[name]
	if !ok {
		return Feature{}, false
	}

	return d.Features[idx], true
}

// Attributes returns the attribute features in declaration order.
func (d *TypeDescriptor) Attributes() []Feature { return d.ofKind(KindAttribute) }

// Containments returns the containment features in declaration order.
func (d *TypeDescriptor) Containments() []Feature { return d.ofKind(KindContainment) }

// References returns the reference features in declaration order.
func (d *TypeDescriptor) References() []Feature { return d.ofKind(KindReference) }

// HasConstructor reports whether the type declares a constructor.
func (d *TypeDescriptor) HasConstructor() bool { return d.construct != nil }

func (d *TypeDescriptor) ofKind(kind FeatureKind) []Feature {
	var out []Feature

	for _, f := range d.Features {
		if f.Kind == kind {
			out = append(out, f)
		}
	}

	return out
}

// Definition produces a validated TypeDescriptor.
type Definition interface {
	Descriptor() (*TypeDescriptor, error)
}

// TypeBuilder declares a node type fluently. Obtain one with Define.
type TypeBuilder[N Node] struct {
	desc *TypeDescriptor
}

// Define starts the declaration of node type N. newFn may be nil when the
// type is only built through Construct.
func Define[N Node](name string, newFn func() N) *TypeBuilder[N] {
	desc := &TypeDescriptor{
		Name: name,
		Type: reflect.TypeFor[N](),
	}

	if newFn != nil {
		desc.newFn = func() Node { return newFn() }
	}

	return &TypeBuilder[N]{desc: desc}
}

// With appends features in declaration order.
func (b *TypeBuilder[N]) With(features ...Feature) *TypeBuilder[N] {
	b.desc.Features = append(b.desc.Features, features...)

	return b
}

// Construct declares a constructor taking the named features as arguments.
// Features not listed are set afterwards through their setters.
func (b *TypeBuilder[N]) Construct(params []string, fn func(Args) (N, error)) *TypeBuilder[N] {
	b.desc.Params = slices.Clone(params)
	b.desc.construct = func(args Args) (Node, error) {
		n, err := fn(args)
		if err != nil {
			return nil, err
		}

		return n, nil
	}

	return b
}

// Descriptor validates the declaration.
func (b *TypeBuilder[N]) Descriptor() (*TypeDescriptor, error) {
	desc := b.desc
	desc.index = make(map[string]int, len(desc.Features))

	for i, f := range desc.Features {
		if _, dup := desc.index[f.Name]; dup {
			return nil, fmt.Errorf("%w: %s.%s", ErrDuplicateFeature, desc.Name, f.Name)
		}

		if f.owner != nil && f.owner != desc.Type {
			return nil, fmt.Errorf("%w: %s.%s belongs to %s", ErrFeatureOwner, desc.Name, f.Name, f.owner)
		}

		desc.index[f.Name] = i
	}

	for _, p := range desc.Params {
		if _, ok := desc.index[p]; !ok {
			return nil, fmt.Errorf("%w: %s(%s)", ErrUnknownParameter, desc.Name, p)
		}
	}

	if desc.newFn == nil && desc.construct == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoFactory, desc.Name)
	}

	return desc, nil
}

// Registry maps node types to their descriptors and enum types to their
// literal tables.
type Registry struct {
	mu    sync.RWMutex
	types map[reflect.Type]*TypeDescriptor
	enums map[reflect.Type]*EnumDescriptor
}

// NewRegistry returns an empty registry that knows GenericNode.
func NewRegistry() *Registry {
	r := &Registry{
		types: make(map[reflect.Type]*TypeDescriptor),
		enums: make(map[reflect.Type]*EnumDescriptor),
	}

	generic, _ := Define("GenericNode", func() *GenericNode { return &GenericNode{} }).Descriptor()
	r.types[generic.Type] = generic

	return r
}

// DefaultRegistry is used by the package level helpers.
var DefaultRegistry = NewRegistry() //nolint:gochecknoglobals // process-wide type table, filled from init functions

// Register validates and installs a type definition.
func (r *Registry) Register(def Definition) (*TypeDescriptor, error) {
	desc, err := def.Descriptor()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.types[desc.Type]; dup {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateType, desc.Name)
	}

	r.types[desc.Type] = desc

	return desc, nil
}

// RegisterEnum installs an enum literal table.
func (r *Registry) RegisterEnum(e *EnumDescriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.enums[e.Type]; dup {
		return fmt.Errorf("%w: enum %s", ErrDuplicateType, e.Name)
	}

	r.enums[e.Type] = e

	return nil
}

// Describe returns the descriptor of the node's run-time type.
func (r *Registry) Describe(n Node) (*TypeDescriptor, error) {
	if IsNil(n) {
		return nil, fmt.Errorf("%w: nil node", ErrUnregisteredType)
	}

	desc, ok := r.lookup(reflect.TypeOf(n))
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnregisteredType, n)
	}

	return desc, nil
}

// DescribeType returns the descriptor registered for t.
func (r *Registry) DescribeType(t reflect.Type) (*TypeDescriptor, bool) {
	return r.lookup(t)
}

// Enum returns the enum descriptor registered for t.
func (r *Registry) Enum(t reflect.Type) (*EnumDescriptor, bool) {
	if t == nil {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.enums[t]

	return e, ok
}

func (r *Registry) lookup(t reflect.Type) (*TypeDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, ok := r.types[t]

	return desc, ok
}

// Register installs def in the DefaultRegistry.
func Register(def Definition) (*TypeDescriptor, error) {
	return DefaultRegistry.Register(def)
}

// MustRegister installs def in the DefaultRegistry and panics on error.
// It is meant for package initialization.
func MustRegister(def Definition) *TypeDescriptor {
	desc, err := DefaultRegistry.Register(def)
	if err != nil {
		panic(err)
	}

	return desc
}

// MustRegisterEnum installs e in the DefaultRegistry and panics on error.
func MustRegisterEnum(e *EnumDescriptor) *EnumDescriptor {
	if err := DefaultRegistry.RegisterEnum(e); err != nil {
		panic(err)
	}

	return e
}

// Describe returns the descriptor of n from the DefaultRegistry.
func Describe(n Node) (*TypeDescriptor, error) {
	return DefaultRegistry.Describe(n)
}

// EnumDescriptor maps the values of an enum type to literal names.
type EnumDescriptor struct {
	Name     string
	Type     reflect.Type
	Literals []string

	values []any
}

// DefineEnum declares enum E with the given values. The literal of a value
// is its fmt.Sprint rendering.
func DefineEnum[E comparable](name string, values ...E) *EnumDescriptor {
	e := &EnumDescriptor{Name: name, Type: reflect.TypeFor[E]()}

	for _, v := range values {
		e.Literals = append(e.Literals, fmt.Sprint(v))
		e.values = append(e.values, v)
	}

	return e
}

// Literal returns the literal naming v.
func (e *EnumDescriptor) Literal(v any) (string, bool) {
	for i, candidate := range e.values {
		if candidate == v {
			return e.Literals[i], true
		}
	}

	return "", false
}

// Value returns the enum value named by literal.
func (e *EnumDescriptor) Value(literal string) (any, bool) {
	idx := slices.Index(e.Literals, literal)
	if idx < 0 {
		return nil, false
	}

	return e.values[idx], true
}

// Language groups the node types and enums of one grammar. Converters use it
// as the classifier source.
type Language struct {
	Name    string
	Version string
	Types   []*TypeDescriptor
	Enums   []*EnumDescriptor
}

// NewLanguage returns an empty language.
func NewLanguage(name, version string) *Language {
	return &Language{Name: name, Version: version}
}

// AddTypes appends type descriptors.
func (l *Language) AddTypes(descs ...*TypeDescriptor) *Language {
	l.Types = append(l.Types, descs...)

	return l
}

// AddEnums appends enum descriptors.
func (l *Language) AddEnums(enums ...*EnumDescriptor) *Language {
	l.Enums = append(l.Enums, enums...)

	return l
}
