package ast

// TransformTree rewrites the subtree under root bottom-up. Children are
// rewritten first; a node whose children changed is shallow-copied with the
// new children before op sees it. op is called exactly once per node and may
// return the node itself, a replacement, or nil to drop it. Parents are
// reassigned on the result.
func TransformTree(root Node, op func(Node) Node) (Node, error) {
	if IsNil(root) {
		return nil, nil
	}

	type frame struct {
		node     Node
		children []Node
		childIdx int
	}

	results := make(map[Node]Node)
	stack := []frame{{node: root, children: Children(root)}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		if top.childIdx < len(top.children) {
			child := top.children[top.childIdx]
			top.childIdx++

			stack = append(stack, frame{node: child, children: Children(child)})

			continue
		}

		target := top.node

		overrides, err := rewrittenChildren(target, results)
		if err != nil {
			return nil, err
		}

		if len(overrides) > 0 {
			target, err = ShallowCopy(target, overrides)
			if err != nil {
				return nil, err
			}
		}

		results[top.node] = op(target)
		stack = stack[:len(stack)-1]
	}

	out := results[root]
	if IsNil(out) {
		return nil, nil
	}

	AssignParents(out)

	return out, nil
}

func rewrittenChildren(n Node, results map[Node]Node) (map[string]any, error) {
	desc, err := Describe(n)
	if err != nil {
		return nil, err
	}

	overrides := make(map[string]any)

	for _, f := range desc.Containments() {
		if !f.IsMany() {
			c := f.Child(n)
			if c == nil {
				continue
			}

			if replaced := results[c]; replaced != c {
				overrides[f.Name] = replaced
			}

			continue
		}

		old := f.Children(n)
		updated := make([]Node, 0, len(old))
		changed := false

		for _, c := range old {
			replaced := results[c]
			if replaced != c {
				changed = true
			}

			if !IsNil(replaced) {
				updated = append(updated, replaced)
			}
		}

		if changed {
			overrides[f.Name] = updated
		}
	}

	return overrides, nil
}
