package graph

import (
	"fmt"
	"regexp"
)

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// IsValidID reports whether id is a well-formed node identifier.
func IsValidID(id string) bool {
	return validID.MatchString(id)
}

// Node is a vertex of the graph.
type Node interface {
	ID() string
	// Concept returns the classifier of the node, nil for proxies.
	Concept() *Concept
	Parent() Node
}

// ReferenceValue is one target of a reference feature. Referred is nil for a
// name-only link.
type ReferenceValue struct {
	Referred    Node
	ResolveInfo string
}

// ProxyNode stands for a node known only by its identifier.
type ProxyNode struct {
	id string
}

// NewProxyNode returns a proxy for id.
func NewProxyNode(id string) *ProxyNode { return &ProxyNode{id: id} }

// ID implements Node.
func (p *ProxyNode) ID() string { return p.id }

// Concept implements Node.
func (p *ProxyNode) Concept() *Concept { return nil }

// Parent implements Node.
func (p *ProxyNode) Parent() Node { return nil }

// String renders the proxy as "Proxy(<id>)".
func (p *ProxyNode) String() string { return "Proxy(" + p.id + ")" }

// DynamicNode stores its feature values in maps keyed by feature name.
type DynamicNode struct {
	id         string
	concept    *Concept
	parent     Node
	properties map[string]any
	children   map[string][]Node
	references map[string][]ReferenceValue
}

// NewDynamicNode returns an empty node of concept c.
func NewDynamicNode(id string, c *Concept) *DynamicNode {
	return &DynamicNode{
		id:         id,
		concept:    c,
		properties: make(map[string]any),
		children:   make(map[string][]Node),
		references: make(map[string][]ReferenceValue),
	}
}

// ID implements Node.
func (n *DynamicNode) ID() string { return n.id }

// Concept implements Node.
func (n *DynamicNode) Concept() *Concept { return n.concept }

// Parent implements Node.
func (n *DynamicNode) Parent() Node { return n.parent }

// SetParent sets the parent, which may be a proxy.
func (n *DynamicNode) SetParent(parent Node) { n.parent = parent }

// String renders the node as "Concept[id]".
func (n *DynamicNode) String() string {
	return fmt.Sprintf("%s[%s]", n.concept.Name, n.id)
}

func (n *DynamicNode) feature(name string, kind FeatureKind) (Feature, error) {
	f, ok := n.concept.Feature(name)
	if !ok {
		return Feature{}, fmt.Errorf("%w: %s has no %s", ErrUnknownFeature, n.concept.Name, name)
	}

	if f.Kind != kind {
		return Feature{}, fmt.Errorf("%w: %s.%s is a %s, not a %s", ErrFeatureKind, n.concept.Name, name, f.Kind, kind)
	}

	return f, nil
}

// PropertyValue returns the value of a property, nil when unset.
func (n *DynamicNode) PropertyValue(name string) any {
	return n.properties[name]
}

// SetPropertyValue sets a property value. A nil value unsets it.
func (n *DynamicNode) SetPropertyValue(name string, value any) error {
	if _, err := n.feature(name, Property); err != nil {
		return err
	}

	if value == nil {
		delete(n.properties, name)

		return nil
	}

	n.properties[name] = value

	return nil
}

// Children returns the children held by a containment, in order.
func (n *DynamicNode) Children(name string) []Node {
	return n.children[name]
}

// AddChild appends child to a containment and makes n its parent.
func (n *DynamicNode) AddChild(name string, child Node) error {
	if _, err := n.feature(name, Containment); err != nil {
		return err
	}

	n.children[name] = append(n.children[name], child)

	if dn, ok := child.(*DynamicNode); ok {
		dn.parent = n
	}

	return nil
}

// AllChildren returns the children of every containment, in feature order.
func (n *DynamicNode) AllChildren() []Node {
	var out []Node

	for _, f := range n.concept.Features {
		if f.Kind == Containment {
			out = append(out, n.children[f.Name]...)
		}
	}

	return out
}

// ReferenceValues returns the targets of a reference.
func (n *DynamicNode) ReferenceValues(name string) []ReferenceValue {
	return n.references[name]
}

// AddReferenceValue appends a target to a reference.
func (n *DynamicNode) AddReferenceValue(name string, rv ReferenceValue) error {
	if _, err := n.feature(name, Reference); err != nil {
		return err
	}

	n.references[name] = append(n.references[name], rv)

	return nil
}

// ThisAndAllDescendants returns n followed by its descendants in pre-order.
func ThisAndAllDescendants(n Node) []Node {
	var out []Node

	stack := []Node{n}

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, curr)

		dn, ok := curr.(*DynamicNode)
		if !ok {
			continue
		}

		children := dn.AllChildren()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	return out
}
