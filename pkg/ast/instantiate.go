package ast

import (
	"fmt"
	"reflect"
)

// Args carries constructor arguments keyed by feature name.
type Args map[string]any

// Arg returns the named argument converted to T, or the zero value when it
// is absent or not convertible.
func Arg[T any](args Args, name string) T {
	v, err := coerce[T](args[name])
	if err != nil {
		var zero T

		return zero
	}

	return v
}

// Instantiate builds a node of the described type from values keyed by
// feature name. Constructor parameters are taken first; the remaining values
// are written through the feature setters. Children are attached to the new
// node.
func Instantiate(desc *TypeDescriptor, values map[string]any) (Node, error) {
	var (
		n        Node
		consumed = make(map[string]bool, len(desc.Params))
	)

	switch {
	case desc.construct != nil:
		args := make(Args, len(desc.Params))

		for _, p := range desc.Params {
			v, ok := values[p]
			if !ok {
				return nil, fmt.Errorf("%w: %s needs %q", ErrMissingParameter, desc.Name, p)
			}

			args[p] = v
			consumed[p] = true
		}

		built, err := desc.construct(args)
		if err != nil {
			return nil, fmt.Errorf("construct %s: %w", desc.Name, err)
		}

		n = built
	case desc.newFn != nil:
		n = desc.newFn()
	default:
		return nil, fmt.Errorf("%w: %s", ErrNoFactory, desc.Name)
	}

	for _, f := range desc.Features {
		if consumed[f.Name] {
			continue
		}

		v, ok := values[f.Name]
		if !ok || (isEmptyValue(v) && !f.Mutable()) {
			continue
		}

		if !f.Mutable() {
			return nil, fmt.Errorf("%w: %s.%s was not supplied at construction", ErrImmutableProperty, desc.Name, f.Name)
		}

		if err := f.Set(n, v); err != nil {
			return nil, err
		}
	}

	attachChildren(desc, n)

	return n, nil
}

// ShallowCopy builds a new node of the same type as n carrying the same
// feature values, except for those named in overrides. Derived features are
// not copied. Children that are not overridden are shared and re-parented to
// the copy.
func ShallowCopy(n Node, overrides map[string]any) (Node, error) {
	desc, err := Describe(n)
	if err != nil {
		return nil, err
	}

	values := make(map[string]any, len(desc.Features))

	for _, f := range desc.Features {
		if f.Derived {
			continue
		}

		if v, ok := overrides[f.Name]; ok {
			values[f.Name] = v

			continue
		}

		values[f.Name] = currentValue(f, n)
	}

	return Instantiate(desc, values)
}

func currentValue(f Feature, n Node) any {
	switch f.Kind {
	case KindContainment:
		if f.IsMany() {
			return f.Children(n)
		}

		if c := f.Child(n); c != nil {
			return c
		}

		return nil
	case KindReference:
		if r := f.Reference(n); r != nil {
			return r
		}

		return nil
	default:
		return f.Get(n)
	}
}

func attachChildren(desc *TypeDescriptor, n Node) {
	for _, f := range desc.Features {
		if f.Kind != KindContainment {
			continue
		}

		for _, c := range f.Children(n) {
			if !IsNil(c) {
				c.SetParent(n)
			}
		}
	}
}

func isEmptyValue(v any) bool {
	if IsNil(v) {
		return true
	}

	rv := reflect.ValueOf(v)

	return rv.Kind() == reflect.Slice && rv.Len() == 0
}
