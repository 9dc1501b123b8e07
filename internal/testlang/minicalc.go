// Package testlang declares small node languages shared by the package tests.
package testlang

import "github.com/Sumatoshi-tech/astkit/pkg/ast"

// Statement is a MiniCalc statement.
type Statement interface {
	ast.Node
	statement()
}

// Expression is a MiniCalc expression.
type Expression interface {
	ast.Node
	expression()
}

// MiniCalcFile is the root of a MiniCalc program.
type MiniCalcFile struct {
	ast.Base
	Statements []Statement
}

// VarDeclaration declares a variable. Its name is fixed at construction.
type VarDeclaration struct {
	ast.Base
	Name  string
	Value Expression
}

func (*VarDeclaration) statement() {}

// Assignment assigns a new value to a declared variable.
type Assignment struct {
	ast.Base
	Variable *ast.ReferenceValue[*VarDeclaration]
	Value    Expression
}

func (*Assignment) statement() {}

// Print outputs the value of an expression.
type Print struct {
	ast.Base
	Value Expression
}

func (*Print) statement() {}

// ValueReference reads a variable.
type ValueReference struct {
	ast.Base
	Variable *ast.ReferenceValue[*VarDeclaration]
}

func (*ValueReference) expression() {}

// IntLit is an integer literal kept as text.
type IntLit struct {
	ast.Base
	Value string
}

func (*IntLit) expression() {}

// MiniCalc type descriptors.
var (
	MiniCalcFileType = ast.MustRegister(ast.Define("MiniCalcFile", func() *MiniCalcFile { return &MiniCalcFile{} }).
				With(ast.ChildList("statements", func(f *MiniCalcFile) *[]Statement { return &f.Statements })))

	VarDeclarationType = ast.MustRegister(ast.Define[*VarDeclaration]("VarDeclaration", nil).
				With(
			ast.Attribute("name", func(v *VarDeclaration) string { return v.Name }, nil),
			ast.Child("value",
				func(v *VarDeclaration) Expression { return v.Value },
				func(v *VarDeclaration, e Expression) { v.Value = e }),
		).
		Construct([]string{"name"}, func(args ast.Args) (*VarDeclaration, error) {
			return &VarDeclaration{Name: ast.Arg[string](args, "name")}, nil
		}))

	AssignmentType = ast.MustRegister(ast.Define("Assignment", func() *Assignment { return &Assignment{} }).
			With(
			ast.Reference("variable",
				func(a *Assignment) *ast.ReferenceValue[*VarDeclaration] { return a.Variable },
				func(a *Assignment, r *ast.ReferenceValue[*VarDeclaration]) { a.Variable = r }),
			ast.Child("value",
				func(a *Assignment) Expression { return a.Value },
				func(a *Assignment, e Expression) { a.Value = e }),
		))

	PrintType = ast.MustRegister(ast.Define("Print", func() *Print { return &Print{} }).
			With(ast.Child("value",
			func(p *Print) Expression { return p.Value },
			func(p *Print, e Expression) { p.Value = e })))

	ValueReferenceType = ast.MustRegister(ast.Define("ValueReference", func() *ValueReference { return &ValueReference{} }).
				With(ast.Reference("variable",
			func(v *ValueReference) *ast.ReferenceValue[*VarDeclaration] { return v.Variable },
			func(v *ValueReference, r *ast.ReferenceValue[*VarDeclaration]) { v.Variable = r })))

	IntLitType = ast.MustRegister(ast.Define("IntLit", func() *IntLit { return &IntLit{} }).
			With(ast.Attribute("value",
			func(i *IntLit) string { return i.Value },
			func(i *IntLit, v string) { i.Value = v })))
)

// MiniCalc returns the MiniCalc language.
func MiniCalc() *ast.Language {
	return ast.NewLanguage("MiniCalc", "1").AddTypes(
		MiniCalcFileType, VarDeclarationType, AssignmentType, PrintType, ValueReferenceType, IntLitType,
	)
}

// NewVarDeclaration builds a declaration with an initial value.
func NewVarDeclaration(name string, value Expression) *VarDeclaration {
	return &VarDeclaration{Name: name, Value: value}
}

// NewFile builds a MiniCalc file and assigns parents.
func NewFile(statements ...Statement) *MiniCalcFile {
	f := &MiniCalcFile{Statements: statements}
	ast.AssignParents(f)

	return f
}

// SampleProgram is
//
//	var A = 10
//	A = 11
//	print A
//
// with both references resolved to the declaration.
func SampleProgram() *MiniCalcFile {
	decl := NewVarDeclaration("A", &IntLit{Value: "10"})

	return NewFile(
		decl,
		&Assignment{Variable: ast.ResolvedReference("A", decl), Value: &IntLit{Value: "11"}},
		&Print{Value: &ValueReference{Variable: ast.ResolvedReference("A", decl)}},
	)
}
