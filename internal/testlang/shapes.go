package testlang

import "github.com/Sumatoshi-tech/astkit/pkg/ast"

// Leaf is a labelled leaf.
type Leaf struct {
	ast.Base
	Label string
}

// Box holds a read-only slot and an ordered list of leaves.
type Box struct {
	ast.Base
	Fixed *Leaf
	Items []*Leaf
}

// Bag holds a mutable slot and an unordered set of leaves.
type Bag struct {
	ast.Base
	Slot    *Leaf
	Members []*Leaf
}

// Shape descriptors.
var (
	LeafType = ast.MustRegister(ast.Define("Leaf", func() *Leaf { return &Leaf{} }).
			With(ast.Attribute("label", func(l *Leaf) string { return l.Label }, func(l *Leaf, s string) { l.Label = s })))

	BoxType = ast.MustRegister(ast.Define[*Box]("Box", nil).
		With(
			ast.Child[*Box, *Leaf]("fixed", func(b *Box) *Leaf { return b.Fixed }, nil),
			ast.ChildList("items", func(b *Box) *[]*Leaf { return &b.Items }),
		).
		Construct([]string{"fixed"}, func(args ast.Args) (*Box, error) {
			return &Box{Fixed: ast.Arg[*Leaf](args, "fixed")}, nil
		}))

	BagType = ast.MustRegister(ast.Define("Bag", func() *Bag { return &Bag{} }).
		With(
			ast.Child("slot", func(b *Bag) *Leaf { return b.Slot }, func(b *Bag, l *Leaf) { b.Slot = l }),
			ast.ChildSet("members", func(b *Bag) *[]*Leaf { return &b.Members }),
		))
)

// Shapes returns the shapes language.
func Shapes() *ast.Language {
	return ast.NewLanguage("Shapes", "1").AddTypes(LeafType, BoxType, BagType)
}

// NewBox builds a box and assigns parents.
func NewBox(fixed *Leaf, items ...*Leaf) *Box {
	b := &Box{Fixed: fixed, Items: items}
	ast.AssignParents(b)

	return b
}
