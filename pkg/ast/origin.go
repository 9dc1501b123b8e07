package ast

import "strings"

// Origin records where a node came from: a text span, another node, or a
// combination of both.
type Origin interface {
	Range() *Range
	SourceText() string
}

// SimpleOrigin is a terminal origin carrying only a range and source text.
type SimpleOrigin struct {
	Span *Range
	Text string
}

// Range returns the recorded range.
func (o *SimpleOrigin) Range() *Range { return o.Span }

// SourceText returns the recorded text.
func (o *SimpleOrigin) SourceText() string { return o.Text }

// CompositeOrigin groups several origins, e.g. when a node is derived from
// many source nodes.
type CompositeOrigin struct {
	Elements []Origin
}

// Range spans from the earliest start to the latest end of the elements.
func (o *CompositeOrigin) Range() *Range {
	var out *Range

	for _, el := range o.Elements {
		r := el.Range()
		if r == nil {
			continue
		}

		if out == nil {
			cp := *r
			out = &cp

			continue
		}

		if r.Start.Before(out.Start) {
			out.Start = r.Start
		}

		if out.End.Before(r.End) {
			out.End = r.End
		}
	}

	return out
}

// SourceText joins the element texts with newlines.
func (o *CompositeOrigin) SourceText() string {
	parts := make([]string, 0, len(o.Elements))

	for _, el := range o.Elements {
		if txt := el.SourceText(); txt != "" {
			parts = append(parts, txt)
		}
	}

	return strings.Join(parts, "\n")
}

// Destination records the node(s) derived from an origin node.
type Destination interface {
	isDestination()
}

// NodeDestination points at a single derived node.
type NodeDestination struct {
	Node Node
}

func (NodeDestination) isDestination() {}

// CompositeDestination points at several derived nodes, e.g. after a 1:N
// transformation.
type CompositeDestination struct {
	Elements []Destination
}

func (CompositeDestination) isDestination() {}

// Nodes flattens a destination into the nodes it names.
func Nodes(d Destination) []Node {
	switch dest := d.(type) {
	case NodeDestination:
		return []Node{dest.Node}
	case *NodeDestination:
		return []Node{dest.Node}
	case CompositeDestination:
		var out []Node
		for _, el := range dest.Elements {
			out = append(out, Nodes(el)...)
		}

		return out
	default:
		return nil
	}
}

// WithOrigin sets origin as the origin of n and returns n. When origin is a
// node, n is recorded in its destination. Using n as its own origin is ignored.
func WithOrigin[N Node](n N, origin Origin) N {
	if on, ok := origin.(Node); ok && on == Node(n) {
		return n
	}

	if IsNil(origin) {
		origin = nil
	}

	n.nodeBase().origin = origin

	if on, ok := origin.(Node); ok {
		addDestination(on, n)
	}

	return n
}

func addDestination(origin, derived Node) {
	switch existing := origin.Destination().(type) {
	case nil:
		origin.SetDestination(NodeDestination{Node: derived})
	case NodeDestination:
		if existing.Node == derived {
			return
		}

		origin.SetDestination(CompositeDestination{Elements: []Destination{existing, NodeDestination{Node: derived}}})
	case CompositeDestination:
		for _, n := range Nodes(existing) {
			if n == derived {
				return
			}
		}

		existing.Elements = append(existing.Elements, NodeDestination{Node: derived})
		origin.SetDestination(existing)
	default:
		origin.SetDestination(NodeDestination{Node: derived})
	}
}

// Detach cuts the lineage link between n and its origin node. The origin is
// folded into a SimpleOrigin keeping the range and/or the source text, or
// cleared when neither is kept. An origin node whose destination is n forgets it.
func Detach(n Node, keepRange, keepSourceText bool) {
	on, ok := n.Origin().(Node)
	if !ok {
		return
	}

	b := n.nodeBase()

	if keepRange || keepSourceText {
		folded := &SimpleOrigin{}
		if keepRange {
			folded.Span = on.Range()
		}

		if keepSourceText {
			folded.Text = on.SourceText()
		}

		b.origin = folded
	} else {
		b.origin = nil
	}

	if nd, isNode := on.Destination().(NodeDestination); isNode && nd.Node == n {
		on.SetDestination(nil)
	}
}
