package ast

// Children returns the direct children of n across all containment features,
// in declaration order. References are never followed.
func Children(n Node) []Node {
	desc, err := Describe(n)
	if err != nil {
		return nil
	}

	var out []Node

	for _, f := range desc.Features {
		if f.Kind != KindContainment {
			continue
		}

		for _, c := range f.Children(n) {
			if !IsNil(c) {
				out = append(out, c)
			}
		}
	}

	return out
}

// Walk visits the subtree under root in pre-order.
func Walk(root Node, fn func(Node)) {
	if IsNil(root) {
		return
	}

	stack := []Node{root}

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		fn(curr)

		pushReversedChildren(curr, &stack)
	}
}

// WalkLeavesFirst visits the subtree under root in post-order.
func WalkLeavesFirst(root Node, fn func(Node)) {
	if IsNil(root) {
		return
	}

	type frame struct {
		node     Node
		expanded bool
	}

	stack := []frame{{node: root}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		if !top.expanded {
			top.expanded = true
			children := Children(top.node)

			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, frame{node: children[i]})
			}

			continue
		}

		fn(top.node)

		stack = stack[:len(stack)-1]
	}
}

// Descendants returns root and all nodes below it in pre-order.
func Descendants(root Node) []Node {
	var out []Node

	Walk(root, func(n Node) { out = append(out, n) })

	return out
}

// Ancestors returns the chain of parents of n, nearest first.
func Ancestors(n Node) []Node {
	var out []Node

	for p := n.Parent(); p != nil; p = p.Parent() {
		out = append(out, p)
	}

	return out
}

// FindAll returns every node of type T in the subtree, in pre-order.
func FindAll[T Node](root Node) []T {
	var out []T

	Walk(root, func(n Node) {
		if t, ok := n.(T); ok {
			out = append(out, t)
		}
	})

	return out
}

// FindAncestor returns the nearest ancestor of n having type T.
func FindAncestor[T Node](n Node) (T, bool) {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if t, ok := p.(T); ok {
			return t, true
		}
	}

	var zero T

	return zero, false
}

func pushReversedChildren(n Node, stack *[]Node) {
	children := Children(n)

	for i := len(children) - 1; i >= 0; i-- {
		*stack = append(*stack, children[i])
	}
}
