package ast

import (
	"errors"
	"fmt"
)

// ErrIncompatibleTarget is returned when a reference is pointed at a node of the wrong type.
var ErrIncompatibleTarget = errors.New("incompatible reference target")

// ReferenceValue is a named, lazily resolved pointer to a node that is not
// owned by the holder.
//
// A reference is unresolved when only Name is set, resolved when Referred is
// set, and identified when only Identifier is known. The identifier state is
// used by importers that resolve targets in a second pass.
type ReferenceValue[T Node] struct {
	Name       string
	Referred   T
	Identifier string
}

// NewReference returns an unresolved reference.
func NewReference[T Node](name string) *ReferenceValue[T] {
	return &ReferenceValue[T]{Name: name}
}

// ResolvedReference returns a reference already pointing at target.
func ResolvedReference[T Node](name string, target T) *ReferenceValue[T] {
	return &ReferenceValue[T]{Name: name, Referred: target}
}

// IsResolved reports whether the target is known.
func (r *ReferenceValue[T]) IsResolved() bool {
	return r != nil && !IsNil(r.Referred)
}

// HasIdentifier reports whether an identifier for the target is known.
func (r *ReferenceValue[T]) HasIdentifier() bool {
	return r != nil && r.Identifier != ""
}

// RefName implements Ref.
func (r *ReferenceValue[T]) RefName() string { return r.Name }

// SetRefName implements Ref.
func (r *ReferenceValue[T]) SetRefName(name string) { r.Name = name }

// Target implements Ref. It returns nil when unresolved.
func (r *ReferenceValue[T]) Target() Node {
	if !r.IsResolved() {
		return nil
	}

	return r.Referred
}

// SetTarget implements Ref. Passing nil clears the target.
func (r *ReferenceValue[T]) SetTarget(n Node) error {
	var zero T

	if IsNil(n) {
		r.Referred = zero

		return nil
	}

	target, ok := n.(T)
	if !ok {
		return fmt.Errorf("%w: %s cannot refer to %s", ErrIncompatibleTarget, r.Name, TypeName(n))
	}

	r.Referred = target

	return nil
}

// RefIdentifier implements Ref.
func (r *ReferenceValue[T]) RefIdentifier() string { return r.Identifier }

// SetIdentifier implements Ref.
func (r *ReferenceValue[T]) SetIdentifier(id string) { r.Identifier = id }

// String renders the reference for debugging.
func (r *ReferenceValue[T]) String() string {
	switch {
	case r.IsResolved():
		return "Ref(" + r.Name + ")[Resolved]"
	case r.HasIdentifier():
		return "Ref(" + r.Name + ")[" + r.Identifier + "]"
	default:
		return "Ref(" + r.Name + ")[Unresolved]"
	}
}

// Ref is the type-erased view of a ReferenceValue used by generic tree code.
type Ref interface {
	RefName() string
	SetRefName(name string)
	Target() Node
	SetTarget(n Node) error
	RefIdentifier() string
	SetIdentifier(id string)
}
