package ast

import (
	"fmt"
	"slices"
)

// ContainingFeature locates n inside its parent. It returns the containment
// feature holding n and, for collections, its index (-1 for single slots).
func ContainingFeature(n Node) (Feature, int, error) {
	parent := n.Parent()
	if parent == nil {
		return Feature{}, -1, fmt.Errorf("%w: %s", ErrNoParent, TypeName(n))
	}

	desc, err := Describe(parent)
	if err != nil {
		return Feature{}, -1, err
	}

	for _, f := range desc.Containments() {
		if !f.IsMany() {
			if c := f.Child(parent); c == n {
				return f, -1, nil
			}

			continue
		}

		if idx := indexOf(f.Children(parent), n); idx >= 0 {
			return f, idx, nil
		}
	}

	return Feature{}, -1, fmt.Errorf("%w: %s not found among the children of %s",
		ErrIllegalState, TypeName(n), TypeName(parent))
}

// ReplaceWith puts replacement where n is held by its parent. Ordered lists
// keep the index of n; single slots must be mutable; sets are not supported.
// On failure the tree is left unchanged.
func ReplaceWith(n, replacement Node) error {
	if n == replacement {
		return nil
	}

	f, _, err := ContainingFeature(n)
	if err != nil {
		return err
	}

	parent := n.Parent()

	switch {
	case f.Container == ContainerSet:
		return fmt.Errorf("%w: cannot replace %s inside set %s.%s",
			ErrUnsupportedOperation, TypeName(n), TypeName(parent), f.Name)
	case !f.IsMany() && !f.Mutable():
		return fmt.Errorf("%w: %s.%s", ErrImmutableProperty, TypeName(parent), f.Name)
	}

	if err = release(replacement); err != nil {
		return err
	}

	if f.IsMany() {
		_, idx, lookupErr := ContainingFeature(n)
		if lookupErr != nil {
			return lookupErr
		}

		children := slices.Clone(f.Children(parent))
		children[idx] = replacement
		err = f.Set(parent, children)
	} else {
		err = f.Set(parent, replacement)
	}

	if err != nil {
		return err
	}

	replacement.SetParent(parent)
	n.SetParent(nil)

	return nil
}

// ReplaceWithSeveral expands the list slot of n into nodes, keeping the order
// of the other siblings.
func ReplaceWithSeveral(n Node, nodes ...Node) error {
	return spliceAround(n, nodes, func(children []Node, idx int) []Node {
		return slices.Concat(children[:idx], nodes, children[idx+1:])
	}, true)
}

// AddSeveralBefore inserts nodes immediately before n in its owning list.
func AddSeveralBefore(n Node, nodes ...Node) error {
	return spliceAround(n, nodes, func(children []Node, idx int) []Node {
		return slices.Concat(children[:idx], nodes, children[idx:])
	}, false)
}

// AddSeveralAfter inserts nodes immediately after n in its owning list.
func AddSeveralAfter(n Node, nodes ...Node) error {
	return spliceAround(n, nodes, func(children []Node, idx int) []Node {
		return slices.Concat(children[:idx+1], nodes, children[idx+1:])
	}, false)
}

// RemoveFromList removes n from its owning list and clears its parent.
func RemoveFromList(n Node) error {
	return spliceAround(n, nil, func(children []Node, idx int) []Node {
		return slices.Concat(children[:idx], children[idx+1:])
	}, true)
}

func spliceAround(n Node, nodes []Node, splice func([]Node, int) []Node, dropAnchor bool) error {
	f, _, err := ContainingFeature(n)
	if err != nil {
		return err
	}

	parent := n.Parent()
	if f.Container != ContainerList {
		return fmt.Errorf("%w: %s.%s is not an ordered list", ErrUnsupportedOperation, TypeName(parent), f.Name)
	}

	for _, it := range nodes {
		if err = release(it); err != nil {
			return err
		}
	}

	_, idx, err := ContainingFeature(n)
	if err != nil {
		return err
	}

	if err = f.Set(parent, splice(slices.Clone(f.Children(parent)), idx)); err != nil {
		return err
	}

	for _, it := range nodes {
		it.SetParent(parent)
	}

	if dropAnchor {
		n.SetParent(nil)
	}

	return nil
}

// release detaches n from its current container, if any, so it can be
// attached elsewhere.
func release(n Node) error {
	if n.Parent() == nil {
		return nil
	}

	f, _, err := ContainingFeature(n)
	if err != nil {
		// Stale back-pointer: the old parent no longer holds n.
		n.SetParent(nil)

		return nil //nolint:nilerr // nothing to detach from
	}

	parent := n.Parent()

	if f.IsMany() {
		children := slices.DeleteFunc(slices.Clone(f.Children(parent)), func(c Node) bool { return c == n })
		if err = f.Set(parent, children); err != nil {
			return err
		}
	} else {
		if err = f.Set(parent, nil); err != nil {
			return fmt.Errorf("detach %s from previous container: %w", TypeName(n), err)
		}
	}

	n.SetParent(nil)

	return nil
}

// AssignParents walks the subtree under root and sets every child's parent
// from the containment structure.
func AssignParents(root Node) {
	Walk(root, func(n Node) {
		for _, c := range Children(n) {
			c.SetParent(n)
		}
	})
}

func indexOf(nodes []Node, n Node) int {
	for i, c := range nodes {
		if c == n {
			return i
		}
	}

	return -1
}
