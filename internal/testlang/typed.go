package testlang

import "github.com/Sumatoshi-tech/astkit/pkg/ast"

// Type is the static type of a typed expression.
type Type int

// Types.
const (
	INT Type = iota + 1
	STR
)

// String returns the literal name.
func (t Type) String() string {
	switch t {
	case INT:
		return "INT"
	case STR:
		return "STR"
	default:
		return "UNKNOWN"
	}
}

// TypeName renders t, or "null" when unknown.
func TypeName(t *Type) string {
	if t == nil {
		return "null"
	}

	return t.String()
}

// TypePtr returns a pointer to t.
func TypePtr(t Type) *Type { return &t }

// TypedExpression is an expression with an optional computed type.
type TypedExpression interface {
	ast.Node
	ExprType() *Type
}

// TypedLiteral is a literal of a known type.
type TypedLiteral struct {
	ast.Base
	Value string
	Type  *Type
}

// ExprType implements TypedExpression.
func (l *TypedLiteral) ExprType() *Type { return l.Type }

// TypedSum adds two typed expressions. Its type is computed.
type TypedSum struct {
	ast.Base
	Left  TypedExpression
	Right TypedExpression
	Type  *Type
}

// ExprType implements TypedExpression.
func (s *TypedSum) ExprType() *Type { return s.Type }

// Typed language descriptors.
var (
	TypeEnum = ast.MustRegisterEnum(ast.DefineEnum("Type", INT, STR))

	TypedLiteralType = ast.MustRegister(ast.Define("TypedLiteral", func() *TypedLiteral { return &TypedLiteral{} }).
				With(
			ast.Attribute("value", func(l *TypedLiteral) string { return l.Value }, func(l *TypedLiteral, v string) { l.Value = v }),
			ast.Attribute("type", func(l *TypedLiteral) *Type { return l.Type }, func(l *TypedLiteral, t *Type) { l.Type = t }),
		))

	TypedSumType = ast.MustRegister(ast.Define("TypedSum", func() *TypedSum { return &TypedSum{} }).
			With(
			ast.Child("left", func(s *TypedSum) TypedExpression { return s.Left }, func(s *TypedSum, e TypedExpression) { s.Left = e }),
			ast.Child("right", func(s *TypedSum) TypedExpression { return s.Right }, func(s *TypedSum, e TypedExpression) { s.Right = e }),
			ast.Attribute("type", func(s *TypedSum) *Type { return s.Type }, func(s *TypedSum, t *Type) { s.Type = t }),
		))
)

// Typed returns the typed-expression language.
func Typed() *ast.Language {
	return ast.NewLanguage("Typed", "1").AddTypes(TypedLiteralType, TypedSumType, TypedConcatType).AddEnums(TypeEnum)
}

// TypedConcat joins two string expressions. Its type is computed.
type TypedConcat struct {
	ast.Base
	Left  TypedExpression
	Right TypedExpression
	Type  *Type
}

// ExprType implements TypedExpression.
func (c *TypedConcat) ExprType() *Type { return c.Type }

// TypedConcatType describes TypedConcat.
var TypedConcatType = ast.MustRegister(ast.Define("TypedConcat", func() *TypedConcat { return &TypedConcat{} }).
	With(
		ast.Child("left", func(c *TypedConcat) TypedExpression { return c.Left }, func(c *TypedConcat, e TypedExpression) { c.Left = e }),
		ast.Child("right", func(c *TypedConcat) TypedExpression { return c.Right }, func(c *TypedConcat, e TypedExpression) { c.Right = e }),
		ast.Attribute("type", func(c *TypedConcat) *Type { return c.Type }, func(c *TypedConcat, t *Type) { c.Type = t }),
	))
