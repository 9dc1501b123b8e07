// Package observable provides containment lists that broadcast their
// mutations and keep the parent pointers of their elements in sync.
package observable

import (
	"reflect"
	"slices"

	"github.com/Sumatoshi-tech/astkit/pkg/ast"
)

// ListObserver is told about every element entering or leaving a List.
type ListObserver[T ast.Node] interface {
	Added(index int, item T)
	Removed(index int, item T)
}

// List is an ordered list of nodes that notifies its subscribers.
// The zero value is an empty list with no subscribers.
type List[T ast.Node] struct {
	items     []T
	observers []ListObserver[T]
}

// NewList returns a list holding items. No notification is sent for them.
func NewList[T ast.Node](items ...T) *List[T] {
	return &List[T]{items: slices.Clone(items)}
}

// Subscribe registers o and returns a function that unregisters it.
func (l *List[T]) Subscribe(o ListObserver[T]) func() {
	l.observers = append(l.observers, o)

	return func() {
		l.observers = slices.DeleteFunc(l.observers, func(candidate ListObserver[T]) bool { return candidate == o })
	}
}

// Len returns the number of elements.
func (l *List[T]) Len() int { return len(l.items) }

// At returns the element at index.
func (l *List[T]) At(index int) T { return l.items[index] }

// Items returns a copy of the elements.
func (l *List[T]) Items() []T { return slices.Clone(l.items) }

// IndexOf returns the index of item, compared by identity, or -1.
func (l *List[T]) IndexOf(item T) int {
	return slices.IndexFunc(l.items, func(candidate T) bool { return ast.Node(candidate) == ast.Node(item) })
}

// Add appends items.
func (l *List[T]) Add(items ...T) {
	l.Insert(len(l.items), items...)
}

// Insert places items at index, shifting later elements.
func (l *List[T]) Insert(index int, items ...T) {
	l.items = slices.Insert(l.items, index, items...)

	for i, it := range items {
		l.fireAdded(index+i, it)
	}
}

// Set replaces the element at index and returns the previous one.
func (l *List[T]) Set(index int, item T) T {
	old := l.items[index]
	l.items[index] = item

	l.fireRemoved(index, old)
	l.fireAdded(index, item)

	return old
}

// RemoveAt removes the element at index and returns it.
func (l *List[T]) RemoveAt(index int) T {
	old := l.items[index]
	l.items = slices.Delete(l.items, index, index+1)

	l.fireRemoved(index, old)

	return old
}

// Remove removes item if present. Removing an absent element is a no-op.
func (l *List[T]) Remove(item T) bool {
	idx := l.IndexOf(item)
	if idx < 0 {
		return false
	}

	l.RemoveAt(idx)

	return true
}

// Clear removes every element.
func (l *List[T]) Clear() {
	for l.Len() > 0 {
		l.RemoveAt(l.Len() - 1)
	}
}

// Replace makes the list hold exactly items. Elements kept across the
// replacement produce no notification.
func (l *List[T]) Replace(items []T) {
	old := l.items
	keep := func(candidate T, in []T) bool {
		return slices.IndexFunc(in, func(x T) bool { return ast.Node(x) == ast.Node(candidate) }) >= 0
	}

	l.items = slices.Clone(items)

	for i := len(old) - 1; i >= 0; i-- {
		if !keep(old[i], items) {
			l.fireRemoved(i, old[i])
		}
	}

	for i, it := range items {
		if !keep(it, old) {
			l.fireAdded(i, it)
		}
	}
}

func (l *List[T]) fireAdded(index int, item T) {
	for _, o := range l.observers {
		o.Added(index, item)
	}
}

func (l *List[T]) fireRemoved(index int, item T) {
	for _, o := range l.observers {
		o.Removed(index, item)
	}
}

// Children declares a list containment backed by a List field.
func Children[N ast.Node, C ast.Node](name string, list func(N) *List[C]) ast.Feature {
	return ast.ListContainment(name, reflect.TypeFor[N](), reflect.TypeFor[C](), ast.ContainerList,
		func(n ast.Node) []ast.Node {
			items := list(n.(N)).items
			out := make([]ast.Node, 0, len(items))

			for _, it := range items {
				out = append(out, it)
			}

			return out
		},
		func(n ast.Node, nodes []ast.Node) error {
			items := make([]C, 0, len(nodes))

			for _, it := range nodes {
				c, ok := it.(C)
				if !ok {
					return ast.ErrIncompatibleValue
				}

				items = append(items, c)
			}

			list(n.(N)).Replace(items)

			return nil
		})
}
