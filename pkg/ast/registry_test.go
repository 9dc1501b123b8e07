package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/astkit/internal/testlang"
	"github.com/Sumatoshi-tech/astkit/pkg/ast"
)

type widget struct {
	ast.Base
	Name string
	Size int
}

func newWidget() *widget { return &widget{} }

func widgetName() ast.Feature {
	return ast.Attribute("name", func(w *widget) string { return w.Name }, func(w *widget, s string) { w.Name = s })
}

func TestRegistry_DuplicateFeatureName(t *testing.T) {
	t.Parallel()

	reg := ast.NewRegistry()

	_, err := reg.Register(ast.Define("Widget", newWidget).With(widgetName(), widgetName()))

	require.ErrorIs(t, err, ast.ErrDuplicateFeature)
}

func TestRegistry_DuplicateType(t *testing.T) {
	t.Parallel()

	reg := ast.NewRegistry()

	_, err := reg.Register(ast.Define("Widget", newWidget).With(widgetName()))
	require.NoError(t, err)

	_, err = reg.Register(ast.Define("Widget", newWidget))
	require.ErrorIs(t, err, ast.ErrDuplicateType)
}

func TestRegistry_ForeignFeature(t *testing.T) {
	t.Parallel()

	reg := ast.NewRegistry()
	foreign := ast.Attribute("label", func(l *testlang.Leaf) string { return l.Label }, nil)

	_, err := reg.Register(ast.Define("Widget", newWidget).With(foreign))

	require.ErrorIs(t, err, ast.ErrFeatureOwner)
}

func TestRegistry_ConstructorParameterWithoutFeature(t *testing.T) {
	t.Parallel()

	reg := ast.NewRegistry()

	_, err := reg.Register(ast.Define[*widget]("Widget", nil).
		With(widgetName()).
		Construct([]string{"size"}, func(ast.Args) (*widget, error) { return &widget{}, nil }))

	require.ErrorIs(t, err, ast.ErrUnknownParameter)
}

func TestRegistry_NoFactory(t *testing.T) {
	t.Parallel()

	_, err := ast.NewRegistry().Register(ast.Define[*widget]("Widget", nil))

	require.ErrorIs(t, err, ast.ErrNoFactory)
}

func TestDescribe_Unregistered(t *testing.T) {
	t.Parallel()

	_, err := ast.Describe(&widget{})

	require.ErrorIs(t, err, ast.ErrUnregisteredType)
}

func TestDescriptorFeatures(t *testing.T) {
	t.Parallel()

	desc, err := ast.Describe(&testlang.Assignment{})
	require.NoError(t, err)

	assert.Equal(t, "Assignment", desc.Name)
	require.Len(t, desc.References(), 1)
	require.Len(t, desc.Containments(), 1)
	assert.Empty(t, desc.Attributes())

	ref := desc.References()[0]
	assert.Equal(t, "variable", ref.Name)
	assert.Equal(t, ast.KindReference, ref.Kind)
	assert.True(t, ref.Mutable())

	name, ok := testlang.VarDeclarationType.Feature("name")
	require.True(t, ok)
	assert.False(t, name.Mutable())
	assert.Equal(t, []string{"name"}, testlang.VarDeclarationType.Params)
}

func TestInstantiate_ConstructorThenSetters(t *testing.T) {
	t.Parallel()

	value := &testlang.IntLit{Value: "5"}

	n, err := ast.Instantiate(testlang.VarDeclarationType, map[string]any{
		"name":  "a",
		"value": value,
	})
	require.NoError(t, err)

	decl, ok := n.(*testlang.VarDeclaration)
	require.True(t, ok)
	assert.Equal(t, "a", decl.Name)
	assert.Same(t, value, decl.Value)
	assert.Same(t, decl, value.Parent())
}

func TestInstantiate_MissingConstructorArgument(t *testing.T) {
	t.Parallel()

	_, err := ast.Instantiate(testlang.VarDeclarationType, map[string]any{"value": nil})

	require.ErrorIs(t, err, ast.ErrMissingParameter)
}

func TestInstantiate_ImmutableFeatureOutsideConstructor(t *testing.T) {
	t.Parallel()

	reg := ast.NewRegistry()
	desc, err := reg.Register(ast.Define("Widget", newWidget).With(
		ast.Attribute("name", func(w *widget) string { return w.Name }, nil),
	))
	require.NoError(t, err)

	_, err = ast.Instantiate(desc, map[string]any{"name": "gear"})
	require.ErrorIs(t, err, ast.ErrImmutableProperty)

	n, err := ast.Instantiate(desc, map[string]any{"name": nil})
	require.NoError(t, err)
	assert.IsType(t, &widget{}, n)
}

func TestInstantiate_ConvertsNumericAttributes(t *testing.T) {
	t.Parallel()

	n, err := ast.Instantiate(testlang.SetStatementType, map[string]any{
		"variable": "x",
		"value":    int64(12),
	})
	require.NoError(t, err)

	assert.Equal(t, 12, n.(*testlang.SetStatement).Value)
}

func TestShallowCopy(t *testing.T) {
	t.Parallel()

	decl := testlang.NewVarDeclaration("a", &testlang.IntLit{Value: "1"})
	replacement := &testlang.IntLit{Value: "2"}

	cp, err := ast.ShallowCopy(decl, map[string]any{"value": replacement})
	require.NoError(t, err)

	copied := cp.(*testlang.VarDeclaration)
	assert.NotSame(t, decl, copied)
	assert.Equal(t, "a", copied.Name)
	assert.Same(t, replacement, copied.Value)
}

func TestEnumDescriptor(t *testing.T) {
	t.Parallel()

	lit, ok := testlang.TypeEnum.Literal(testlang.STR)
	require.True(t, ok)
	assert.Equal(t, "STR", lit)

	v, ok := testlang.TypeEnum.Value("INT")
	require.True(t, ok)
	assert.Equal(t, testlang.INT, v)

	_, ok = testlang.TypeEnum.Value("FLOAT")
	assert.False(t, ok)

	e, ok := ast.DefaultRegistry.Enum(testlang.TypeEnum.Type)
	require.True(t, ok)
	assert.Same(t, testlang.TypeEnum, e)
}

func TestFeatureSet_RejectsIncompatibleValue(t *testing.T) {
	t.Parallel()

	f, ok := testlang.PrintType.Feature("value")
	require.True(t, ok)

	err := f.Set(&testlang.Print{}, &testlang.Leaf{})
	require.ErrorIs(t, err, ast.ErrIncompatibleValue)
}

func TestReferenceValue_SetTarget(t *testing.T) {
	t.Parallel()

	ref := ast.NewReference[*testlang.VarDeclaration]("a")
	assert.False(t, ref.IsResolved())
	assert.Equal(t, "Ref(a)[Unresolved]", ref.String())

	decl := testlang.NewVarDeclaration("a", nil)
	require.NoError(t, ref.SetTarget(decl))
	assert.True(t, ref.IsResolved())
	assert.Same(t, decl, ref.Target())

	require.ErrorIs(t, ref.SetTarget(&testlang.Leaf{}), ast.ErrIncompatibleTarget)

	require.NoError(t, ref.SetTarget(nil))
	ref.SetIdentifier("id-7")
	assert.False(t, ref.IsResolved())
	assert.True(t, ref.HasIdentifier())
	assert.Equal(t, "Ref(a)[id-7]", ref.String())
}
