package testlang

import "github.com/Sumatoshi-tech/astkit/pkg/ast"

// CU is a compilation unit of loosely typed statements.
type CU struct {
	ast.Base
	Statements []ast.Node
}

// DisplayIntStatement prints a constant.
type DisplayIntStatement struct {
	ast.Base
	Value int
}

// SetStatement sets a variable to a constant.
type SetStatement struct {
	ast.Base
	Variable string
	Value    int
}

// Operator is a binary operator.
type Operator int

// Operators.
const (
	PLUS Operator = iota
	MULT
)

// String returns the literal name.
func (o Operator) String() string {
	if o == MULT {
		return "MULT"
	}

	return "PLUS"
}

// CalcExpression is an arithmetic expression.
type CalcExpression interface {
	ast.Node
	calcExpression()
}

// IntLiteral is an integer constant.
type IntLiteral struct {
	ast.Base
	Value int
}

func (*IntLiteral) calcExpression() {}

// GenericBinaryExpression carries its operator as data.
type GenericBinaryExpression struct {
	ast.Base
	Operator Operator
	Left     CalcExpression
	Right    CalcExpression
}

func (*GenericBinaryExpression) calcExpression() {}

// Sum adds two expressions.
type Sum struct {
	ast.Base
	Left  CalcExpression
	Right CalcExpression
}

func (*Sum) calcExpression() {}

// Mult multiplies two expressions.
type Mult struct {
	ast.Base
	Left  CalcExpression
	Right CalcExpression
}

func (*Mult) calcExpression() {}

// BarRoot holds bar statements.
type BarRoot struct {
	ast.Base
	Stmts []*BarStmt
}

// BarStmt is a described statement.
type BarStmt struct {
	ast.Base
	Desc string
}

// BazRoot holds baz statements.
type BazRoot struct {
	ast.Base
	Stmts []*BazStmt
}

// BazStmt is a described statement.
type BazStmt struct {
	ast.Base
	Desc string
}

func binary[N ast.Node](name string, newFn func() N, left, right func(N) *CalcExpression) *ast.TypeDescriptor {
	return ast.MustRegister(ast.Define(name, newFn).With(
		ast.Child("left", func(n N) CalcExpression { return *left(n) }, func(n N, e CalcExpression) { *left(n) = e }),
		ast.Child("right", func(n N) CalcExpression { return *right(n) }, func(n N, e CalcExpression) { *right(n) = e }),
	))
}

// Calc descriptors.
var (
	OperatorEnum = ast.MustRegisterEnum(ast.DefineEnum("Operator", PLUS, MULT))

	CUType = ast.MustRegister(ast.Define("CU", func() *CU { return &CU{} }).
		With(ast.ChildList("statements", func(c *CU) *[]ast.Node { return &c.Statements })))

	DisplayIntStatementType = ast.MustRegister(ast.Define("DisplayIntStatement", func() *DisplayIntStatement { return &DisplayIntStatement{} }).
				With(ast.Attribute("value", func(d *DisplayIntStatement) int { return d.Value }, func(d *DisplayIntStatement, v int) { d.Value = v })))

	SetStatementType = ast.MustRegister(ast.Define("SetStatement", func() *SetStatement { return &SetStatement{} }).
				With(
			ast.Attribute("variable", func(s *SetStatement) string { return s.Variable }, func(s *SetStatement, v string) { s.Variable = v }),
			ast.Attribute("value", func(s *SetStatement) int { return s.Value }, func(s *SetStatement, v int) { s.Value = v }),
		))

	IntLiteralType = ast.MustRegister(ast.Define("IntLiteral", func() *IntLiteral { return &IntLiteral{} }).
			With(ast.Attribute("value", func(i *IntLiteral) int { return i.Value }, func(i *IntLiteral, v int) { i.Value = v })))

	GenericBinaryExpressionType = ast.MustRegister(ast.Define("GenericBinaryExpression", func() *GenericBinaryExpression { return &GenericBinaryExpression{} }).
					With(
			ast.Attribute("operator", func(g *GenericBinaryExpression) Operator { return g.Operator }, func(g *GenericBinaryExpression, o Operator) { g.Operator = o }),
			ast.Child("left", func(g *GenericBinaryExpression) CalcExpression { return g.Left }, func(g *GenericBinaryExpression, e CalcExpression) { g.Left = e }),
			ast.Child("right", func(g *GenericBinaryExpression) CalcExpression { return g.Right }, func(g *GenericBinaryExpression, e CalcExpression) { g.Right = e }),
		))

	SumType  = binary("Sum", func() *Sum { return &Sum{} }, func(s *Sum) *CalcExpression { return &s.Left }, func(s *Sum) *CalcExpression { return &s.Right })
	MultType = binary("Mult", func() *Mult { return &Mult{} }, func(m *Mult) *CalcExpression { return &m.Left }, func(m *Mult) *CalcExpression { return &m.Right })

	BarRootType = ast.MustRegister(ast.Define("BarRoot", func() *BarRoot { return &BarRoot{} }).
			With(ast.ChildList("stmts", func(r *BarRoot) *[]*BarStmt { return &r.Stmts })))

	BarStmtType = ast.MustRegister(ast.Define("BarStmt", func() *BarStmt { return &BarStmt{} }).
			With(ast.Attribute("desc", func(s *BarStmt) string { return s.Desc }, func(s *BarStmt, d string) { s.Desc = d })))

	BazRootType = ast.MustRegister(ast.Define("BazRoot", func() *BazRoot { return &BazRoot{} }).
			With(ast.ChildList("stmts", func(r *BazRoot) *[]*BazStmt { return &r.Stmts })))

	BazStmtType = ast.MustRegister(ast.Define("BazStmt", func() *BazStmt { return &BazStmt{} }).
			With(ast.Attribute("desc", func(s *BazStmt) string { return s.Desc }, func(s *BazStmt, d string) { s.Desc = d })))
)

// Calc returns the calc language.
func Calc() *ast.Language {
	return ast.NewLanguage("Calc", "1").
		AddTypes(CUType, DisplayIntStatementType, SetStatementType, IntLiteralType,
			GenericBinaryExpressionType, SumType, MultType, BarRootType, BarStmtType, BazRootType, BazStmtType).
		AddEnums(OperatorEnum)
}
