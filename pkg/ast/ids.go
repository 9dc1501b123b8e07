package ast

import "strconv"

// IDProvider assigns identifiers to nodes. An empty identifier means the
// provider has none for the node.
type IDProvider interface {
	ID(n Node) (string, error)
}

// IDProviderFunc adapts a function to IDProvider.
type IDProviderFunc func(n Node) (string, error)

// ID implements IDProvider.
func (f IDProviderFunc) ID(n Node) (string, error) { return f(n) }

// SequentialIDProvider hands out increasing numbers. A node asked for twice
// keeps its first identifier.
type SequentialIDProvider struct {
	next     int
	assigned map[Node]string
}

// NewSequentialIDProvider starts counting at start.
func NewSequentialIDProvider(start int) *SequentialIDProvider {
	return &SequentialIDProvider{next: start, assigned: make(map[Node]string)}
}

// ID implements IDProvider.
func (p *SequentialIDProvider) ID(n Node) (string, error) {
	if p.assigned == nil {
		p.assigned = make(map[Node]string)
	}

	if id, ok := p.assigned[n]; ok {
		return id, nil
	}

	id := strconv.Itoa(p.next)
	p.next++
	p.assigned[n] = id

	return id, nil
}

// ComputeIDs walks the subtree with walker (Walk when nil) and maps every
// node to the identifier given by provider (a fresh SequentialIDProvider when nil).
func ComputeIDs(root Node, walker func(Node, func(Node)), provider IDProvider) (map[Node]string, error) {
	if walker == nil {
		walker = Walk
	}

	if provider == nil {
		provider = NewSequentialIDProvider(0)
	}

	ids := make(map[Node]string)

	var firstErr error

	walker(root, func(n Node) {
		if firstErr != nil {
			return
		}

		id, err := provider.ID(n)
		if err != nil {
			firstErr = err

			return
		}

		if id != "" {
			ids[n] = id
		}
	})

	if firstErr != nil {
		return nil, firstErr
	}

	return ids, nil
}
