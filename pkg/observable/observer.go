package observable

import (
	"fmt"

	"github.com/Sumatoshi-tech/astkit/pkg/ast"
)

// ContainmentObserver ties a List to the containment of its owner: elements
// added become children of the owner, removed elements lose their parent,
// and the owner's observers hear about both.
type ContainmentObserver[T ast.Node] struct {
	Owner       ast.Node
	Containment string
}

// Added implements ListObserver.
func (c ContainmentObserver[T]) Added(_ int, item T) {
	item.SetParent(c.Owner)
	ast.NotifyChildAdded(c.Owner, c.Containment, item)
}

// Removed implements ListObserver.
func (c ContainmentObserver[T]) Removed(_ int, item T) {
	if item.Parent() == c.Owner {
		item.SetParent(nil)
	}

	ast.NotifyChildRemoved(c.Owner, c.Containment, item)
}

// NewContainment returns an empty list wired to the named containment of owner.
func NewContainment[T ast.Node](owner ast.Node, containment string) *List[T] {
	l := &List[T]{}
	l.Subscribe(ContainmentObserver[T]{Owner: owner, Containment: containment})

	return l
}

// NodeObserver implements ast.Observer with no-ops. Embed it to handle only
// some events.
type NodeObserver struct{}

// OnAttributeChange implements ast.Observer.
func (NodeObserver) OnAttributeChange(ast.Node, string, any, any) {}

// OnChildAdded implements ast.Observer.
func (NodeObserver) OnChildAdded(ast.Node, string, ast.Node) {}

// OnChildRemoved implements ast.Observer.
func (NodeObserver) OnChildRemoved(ast.Node, string, ast.Node) {}

// Recorder keeps a textual log of the events it observes.
type Recorder struct {
	Observations []string
}

// OnAttributeChange records "name: old -> new".
func (r *Recorder) OnAttributeChange(_ ast.Node, name string, oldValue, newValue any) {
	r.Observations = append(r.Observations, fmt.Sprintf("%s: %v -> %v", name, oldValue, newValue))
}

// OnChildAdded records "containment: added Type".
func (r *Recorder) OnChildAdded(_ ast.Node, containment string, child ast.Node) {
	r.Observations = append(r.Observations, containment+": added "+ast.TypeName(child))
}

// OnChildRemoved records "containment: removed Type".
func (r *Recorder) OnChildRemoved(_ ast.Node, containment string, child ast.Node) {
	r.Observations = append(r.Observations, containment+": removed "+ast.TypeName(child))
}
