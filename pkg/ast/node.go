// Package ast provides the typed tree node model: node identity, parent links,
// provenance (origin and destination), ranges, and statically declared feature
// descriptors that classify each property as an attribute, a containment or a
// reference.
package ast

import (
	"reflect"
)

// Node is a typed vertex of an owned tree.
//
// Concrete node types are pointers to structs embedding Base:
//
//	type VarDeclaration struct {
//		ast.Base
//		Name  string
//		Value Expression
//	}
//
// A Node is also an Origin, so it can be recorded as the origin of the nodes
// derived from it.
type Node interface {
	Origin

	// Parent returns the owning node, or nil for a root.
	Parent() Node
	// SetParent overwrites the parent back-reference. It does not touch the
	// parent's containments; use the mutation functions for that.
	SetParent(parent Node)
	// Origin returns the provenance of this node.
	Origin() Origin
	// Destination returns the node(s) that recorded this node as their origin.
	Destination() Destination
	// SetDestination overwrites the destination.
	SetDestination(dest Destination)
	// SetRange sets an explicit range overriding the one inherited from the origin.
	SetRange(r *Range)

	nodeBase() *Base
}

// Base holds the state shared by every node. Embed it by value.
type Base struct {
	parent        Node
	origin        Origin
	destination   Destination
	rangeOverride *Range
	observers     []Observer
}

func (b *Base) nodeBase() *Base { return b }

// Parent returns the owning node, or nil for a root.
func (b *Base) Parent() Node { return b.parent }

// SetParent overwrites the parent back-reference.
func (b *Base) SetParent(parent Node) {
	if IsNil(parent) {
		b.parent = nil

		return
	}

	b.parent = parent
}

// Origin returns the provenance of this node.
func (b *Base) Origin() Origin { return b.origin }

// Destination returns the derived node(s), if any.
func (b *Base) Destination() Destination { return b.destination }

// SetDestination overwrites the destination.
func (b *Base) SetDestination(dest Destination) { b.destination = dest }

// Range returns the explicit range if one was set, otherwise the origin's range.
func (b *Base) Range() *Range {
	if b.rangeOverride != nil {
		return b.rangeOverride
	}

	if b.origin != nil {
		return b.origin.Range()
	}

	return nil
}

// SetRange sets an explicit range. Passing nil falls back to the origin's range.
func (b *Base) SetRange(r *Range) { b.rangeOverride = r }

// SourceText returns the source text of the origin, if known.
func (b *Base) SourceText() string {
	if b.origin != nil {
		return b.origin.SourceText()
	}

	return ""
}

// IsRoot reports whether the node has no parent.
func IsRoot(n Node) bool {
	return n.Parent() == nil
}

// TypeName returns the registered name of the node type, falling back to the
// Go type name for unregistered types.
func TypeName(n Node) string {
	if IsNil(n) {
		return "<nil>"
	}

	if desc, ok := DefaultRegistry.lookup(reflect.TypeOf(n)); ok {
		return desc.Name
	}

	t := reflect.TypeOf(n)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t.Name()
}

// IsNil reports whether v is nil or an interface wrapping a nil pointer.
func IsNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// GenericNode is a featureless placeholder produced when no transformation
// rule exists and the engine is configured to allow it.
type GenericNode struct {
	Base
}
