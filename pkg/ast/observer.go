package ast

import "slices"

// Observer receives change notifications from a node.
type Observer interface {
	OnAttributeChange(n Node, name string, oldValue, newValue any)
	OnChildAdded(n Node, containment string, child Node)
	OnChildRemoved(n Node, containment string, child Node)
}

// Observe registers o on n. Only changes made after registration are delivered.
func Observe(n Node, o Observer) {
	b := n.nodeBase()
	b.observers = append(b.observers, o)
}

// Unobserve removes o from n.
func Unobserve(n Node, o Observer) {
	b := n.nodeBase()
	b.observers = slices.DeleteFunc(b.observers, func(candidate Observer) bool { return candidate == o })
}

// Observers returns the observers registered on n, in registration order.
func Observers(n Node) []Observer {
	return slices.Clone(n.nodeBase().observers)
}

// NotifyAttributeChange is called by attribute setters before the new value
// is stored.
//
//	func (p *Person) SetAge(age int) {
//		ast.NotifyAttributeChange(p, "age", p.age, age)
//		p.age = age
//	}
func NotifyAttributeChange(n Node, name string, oldValue, newValue any) {
	for _, o := range n.nodeBase().observers {
		o.OnAttributeChange(n, name, oldValue, newValue)
	}
}

// NotifyChildAdded tells the observers of n that child joined containment.
func NotifyChildAdded(n Node, containment string, child Node) {
	for _, o := range n.nodeBase().observers {
		o.OnChildAdded(n, containment, child)
	}
}

// NotifyChildRemoved tells the observers of n that child left containment.
func NotifyChildRemoved(n Node, containment string, child Node) {
	for _, o := range n.nodeBase().observers {
		o.OnChildRemoved(n, containment, child)
	}
}
