package ast

import (
	"fmt"
	"reflect"
)

// FeatureKind classifies a feature of a node type.
type FeatureKind int

// Feature kinds.
const (
	// KindAttribute is a primitive or enum value.
	KindAttribute FeatureKind = iota
	// KindContainment is an owned child or an owned collection of children.
	KindContainment
	// KindReference is a named, non-owning pointer to a node.
	KindReference
)

// String returns the kind name.
func (k FeatureKind) String() string {
	switch k {
	case KindAttribute:
		return "attribute"
	case KindContainment:
		return "containment"
	case KindReference:
		return "reference"
	default:
		return fmt.Sprintf("FeatureKind(%d)", int(k))
	}
}

// Multiplicity tells how many values a feature holds.
type Multiplicity int

// Multiplicities.
const (
	Single Multiplicity = iota
	Optional
	Many
)

// Container tells how a containment stores its children.
type Container int

// Containers.
const (
	// ContainerSlot holds zero or one child.
	ContainerSlot Container = iota
	// ContainerList holds an ordered sequence of children.
	ContainerList
	// ContainerSet holds an unordered collection of children.
	ContainerSet
)

// Feature describes one property of a node type. Features are declared once
// per type with the generic builders in this file and installed with Define.
type Feature struct {
	Name         string
	Kind         FeatureKind
	Multiplicity Multiplicity
	Container    Container
	// ValueType is the attribute value type, the child element type, or the
	// reference target type.
	ValueType reflect.Type
	// Derived features are computed; they are skipped by copies and converters.
	Derived bool

	owner  reflect.Type
	get    func(Node) any
	set    func(Node, any) error
	newRef func(name string) Ref
}

// Mutable reports whether the feature can be written after construction.
func (f Feature) Mutable() bool { return f.set != nil }

// IsMany reports whether the feature holds a collection.
func (f Feature) IsMany() bool { return f.Multiplicity == Many }

// AsOptional returns a copy of the feature marked optional.
func (f Feature) AsOptional() Feature {
	if f.Multiplicity == Single {
		f.Multiplicity = Optional
	}

	return f
}

// AsDerived returns a copy of the feature marked derived.
func (f Feature) AsDerived() Feature {
	f.Derived = true

	return f
}

// Get returns the raw value: the attribute value, the child Node (or nil),
// the []Node of a collection, or the Ref (or nil).
func (f Feature) Get(n Node) any {
	return f.get(n)
}

// Set writes the raw value, converting it to the declared type when needed.
func (f Feature) Set(n Node, value any) error {
	if f.set == nil {
		return fmt.Errorf("%w: %s.%s", ErrImmutableProperty, TypeName(n), f.Name)
	}

	return f.set(n, value)
}

// Children returns the children held by a containment, in order. A single
// slot yields zero or one element.
func (f Feature) Children(n Node) []Node {
	if f.Kind != KindContainment {
		return nil
	}

	switch v := f.get(n).(type) {
	case nil:
		return nil
	case []Node:
		return v
	case Node:
		return []Node{v}
	default:
		return nil
	}
}

// Child returns the child held by a single-slot containment.
func (f Feature) Child(n Node) Node {
	if f.Kind != KindContainment || f.IsMany() {
		return nil
	}

	c, _ := f.get(n).(Node)

	return c
}

// Reference returns the reference value of a reference feature, or nil.
func (f Feature) Reference(n Node) Ref {
	if f.Kind != KindReference {
		return nil
	}

	r, _ := f.get(n).(Ref)

	return r
}

// NewRef creates an empty reference value of the feature's target type.
func (f Feature) NewRef(name string) Ref {
	if f.newRef == nil {
		return nil
	}

	return f.newRef(name)
}

// Attribute declares a primitive or enum valued feature. A nil setter makes it read-only.
func Attribute[N Node, V any](name string, get func(N) V, set func(N, V)) Feature {
	f := Feature{
		Name:      name,
		Kind:      KindAttribute,
		ValueType: reflect.TypeFor[V](),
		owner:     reflect.TypeFor[N](),
		get:       func(n Node) any { return get(n.(N)) },
	}

	if f.ValueType.Kind() == reflect.Pointer {
		f.Multiplicity = Optional
	}

	if set != nil {
		f.set = func(n Node, value any) error {
			v, err := coerce[V](value)
			if err != nil {
				return fmt.Errorf("%s.%s: %w", TypeName(n), name, err)
			}

			set(n.(N), v)

			return nil
		}
	}

	return f
}

// Child declares a single-slot containment. A nil setter makes the slot read-only.
func Child[N Node, C Node](name string, get func(N) C, set func(N, C)) Feature {
	f := Feature{
		Name:      name,
		Kind:      KindContainment,
		Container: ContainerSlot,
		ValueType: reflect.TypeFor[C](),
		owner:     reflect.TypeFor[N](),
		get: func(n Node) any {
			c := get(n.(N))
			if IsNil(c) {
				return nil
			}

			return Node(c)
		},
	}

	if set != nil {
		f.set = func(n Node, value any) error {
			var c C

			if !IsNil(value) {
				typed, ok := value.(C)
				if !ok {
					return fmt.Errorf("%w: %s.%s cannot hold %T", ErrIncompatibleValue, TypeName(n), name, value)
				}

				c = typed
			}

			set(n.(N), c)

			return nil
		}
	}

	return f
}

// ChildList declares an ordered list containment backed by a slice field.
func ChildList[N Node, C Node](name string, field func(N) *[]C) Feature {
	return sliceContainment(name, ContainerList, field)
}

// ChildSet declares an unordered containment backed by a slice field.
// Positional replacement is not supported on sets.
func ChildSet[N Node, C Node](name string, field func(N) *[]C) Feature {
	return sliceContainment(name, ContainerSet, field)
}

func sliceContainment[N Node, C Node](name string, container Container, field func(N) *[]C) Feature {
	return Feature{
		Name:         name,
		Kind:         KindContainment,
		Multiplicity: Many,
		Container:    container,
		ValueType:    reflect.TypeFor[C](),
		owner:        reflect.TypeFor[N](),
		get: func(n Node) any {
			items := *field(n.(N))
			out := make([]Node, 0, len(items))

			for _, it := range items {
				out = append(out, it)
			}

			return out
		},
		set: func(n Node, value any) error {
			items, err := nodesOf[C](value)
			if err != nil {
				return fmt.Errorf("%s.%s: %w", TypeName(n), name, err)
			}

			*field(n.(N)) = items

			return nil
		},
	}
}

// ListContainment declares a collection containment with custom accessors,
// for node types that keep children in their own list implementation.
func ListContainment(
	name string, owner, elem reflect.Type, container Container,
	get func(Node) []Node, set func(Node, []Node) error,
) Feature {
	return Feature{
		Name:         name,
		Kind:         KindContainment,
		Multiplicity: Many,
		Container:    container,
		ValueType:    elem,
		owner:        owner,
		get:          func(n Node) any { return get(n) },
		set: func(n Node, value any) error {
			items, err := nodesOf[Node](value)
			if err != nil {
				return fmt.Errorf("%s.%s: %w", TypeName(n), name, err)
			}

			return set(n, items)
		},
	}
}

// Reference declares a single reference. A nil setter makes it read-only;
// the ReferenceValue itself stays mutable so importers can resolve it later.
func Reference[N Node, T Node](name string, get func(N) *ReferenceValue[T], set func(N, *ReferenceValue[T])) Feature {
	f := Feature{
		Name:         name,
		Kind:         KindReference,
		Multiplicity: Optional,
		ValueType:    reflect.TypeFor[T](),
		owner:        reflect.TypeFor[N](),
		get: func(n Node) any {
			r := get(n.(N))
			if r == nil {
				return nil
			}

			return Ref(r)
		},
		newRef: func(refName string) Ref { return NewReference[T](refName) },
	}

	if set != nil {
		f.set = func(n Node, value any) error {
			if IsNil(value) {
				set(n.(N), nil)

				return nil
			}

			r, ok := value.(*ReferenceValue[T])
			if !ok {
				return fmt.Errorf("%w: %s.%s cannot hold %T", ErrIncompatibleValue, TypeName(n), name, value)
			}

			set(n.(N), r)

			return nil
		}
	}

	return f
}

func nodesOf[C Node](value any) ([]C, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []C:
		return v, nil
	case []Node:
		out := make([]C, 0, len(v))

		for _, it := range v {
			c, ok := it.(C)
			if !ok {
				return nil, fmt.Errorf("%w: %T in list of %s", ErrIncompatibleValue, it, reflect.TypeFor[C]())
			}

			out = append(out, c)
		}

		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T is not a node list", ErrIncompatibleValue, value)
	}
}

// coerce converts value to V. Numeric kinds convert among themselves,
// pointers and values of the same type are (de)referenced, and slices are
// converted element-wise.
func coerce[V any](value any) (V, error) {
	var zero V

	if IsNil(value) {
		return zero, nil
	}

	if v, ok := value.(V); ok {
		return v, nil
	}

	out, err := convertValue(reflect.ValueOf(value), reflect.TypeFor[V]())
	if err != nil {
		return zero, err
	}

	v, _ := out.Interface().(V)

	return v, nil
}

func convertValue(rv reflect.Value, target reflect.Type) (reflect.Value, error) {
	src := rv.Type()

	switch {
	case src.AssignableTo(target):
		out := reflect.New(target).Elem()
		out.Set(rv)

		return out, nil
	case isNumeric(src.Kind()) && isNumeric(target.Kind()):
		return rv.Convert(target), nil
	case src.Kind() == reflect.String && target.Kind() == reflect.String:
		return rv.Convert(target), nil
	case src.Kind() == reflect.Pointer && src.Elem().AssignableTo(target):
		if rv.IsNil() {
			return reflect.Zero(target), nil
		}

		return rv.Elem(), nil
	case target.Kind() == reflect.Pointer && src.AssignableTo(target.Elem()):
		ptr := reflect.New(target.Elem())
		ptr.Elem().Set(rv)

		return ptr, nil
	case src.Kind() == reflect.Slice && target.Kind() == reflect.Slice:
		out := reflect.MakeSlice(target, 0, rv.Len())

		for i := range rv.Len() {
			el := rv.Index(i)
			if el.Kind() == reflect.Interface {
				if el.IsNil() {
					out = reflect.Append(out, reflect.Zero(target.Elem()))

					continue
				}

				el = el.Elem()
			}

			conv, err := convertValue(el, target.Elem())
			if err != nil {
				return reflect.Value{}, err
			}

			out = reflect.Append(out, conv)
		}

		return out, nil
	default:
		return reflect.Value{}, fmt.Errorf("%w: %s is not convertible to %s", ErrIncompatibleValue, src, target)
	}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
