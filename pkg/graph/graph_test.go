package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/astkit/pkg/graph"
)

func sampleLanguage(t *testing.T) (*graph.Language, *graph.Concept, *graph.Enumeration) {
	t.Helper()

	lang := graph.NewLanguage("Sample", "1")
	color := lang.AddEnumeration(&graph.Enumeration{Name: "Color", Literals: []string{"RED", "GREEN"}})

	c := lang.AddConcept(graph.NewConcept("Item"))
	require.NoError(t, c.AddFeature(graph.Feature{Name: "name", Kind: graph.Property, Type: graph.String}))
	require.NoError(t, c.AddFeature(graph.Feature{Name: "size", Kind: graph.Property, Type: graph.Integer, Optional: true}))
	require.NoError(t, c.AddFeature(graph.Feature{Name: "color", Kind: graph.Property, Type: color, Optional: true}))
	require.NoError(t, c.AddFeature(graph.Feature{Name: "items", Kind: graph.Containment, Multiple: true, Target: "Item"}))
	require.NoError(t, c.AddFeature(graph.Feature{Name: "link", Kind: graph.Reference, Optional: true, Target: "Item"}))

	return lang, c, color
}

func TestIsValidID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id    string
		valid bool
	}{
		{id: "abc", valid: true},
		{id: "file_foo-go_root_stmts_0", valid: true},
		{id: "123", valid: true},
		{id: "", valid: false},
		{id: "a.b", valid: false},
		{id: "a b", valid: false},
		{id: "a/b", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.valid, graph.IsValidID(tt.id))
		})
	}
}

func TestConcept_DuplicateFeature(t *testing.T) {
	t.Parallel()

	_, c, _ := sampleLanguage(t)

	err := c.AddFeature(graph.Feature{Name: "name", Kind: graph.Property, Type: graph.String})
	require.ErrorIs(t, err, graph.ErrDuplicateFeature)
	assert.Equal(t, "Sample.Item", c.QualifiedName())
}

func TestDynamicNode_Features(t *testing.T) {
	t.Parallel()

	_, c, _ := sampleLanguage(t)

	root := graph.NewDynamicNode("root", c)
	child := graph.NewDynamicNode("child", c)

	require.NoError(t, root.SetPropertyValue("name", "r"))
	require.NoError(t, root.AddChild("items", child))
	require.NoError(t, child.AddReferenceValue("link", graph.ReferenceValue{Referred: root, ResolveInfo: "r"}))

	assert.Equal(t, "r", root.PropertyValue("name"))
	assert.Same(t, root, child.Parent())
	assert.Equal(t, []graph.Node{child}, root.Children("items"))
	assert.Equal(t, "Item[root]", root.String())

	require.ErrorIs(t, root.SetPropertyValue("items", 1), graph.ErrFeatureKind)
	require.ErrorIs(t, root.AddChild("missing", child), graph.ErrUnknownFeature)
	require.ErrorIs(t, root.AddReferenceValue("name", graph.ReferenceValue{}), graph.ErrFeatureKind)

	require.NoError(t, root.SetPropertyValue("name", nil))
	assert.Nil(t, root.PropertyValue("name"))
}

func TestThisAndAllDescendants(t *testing.T) {
	t.Parallel()

	_, c, _ := sampleLanguage(t)

	root := graph.NewDynamicNode("r", c)
	a := graph.NewDynamicNode("a", c)
	b := graph.NewDynamicNode("b", c)
	a1 := graph.NewDynamicNode("a1", c)

	require.NoError(t, root.AddChild("items", a))
	require.NoError(t, root.AddChild("items", b))
	require.NoError(t, a.AddChild("items", a1))

	ids := make([]string, 0, 4)
	for _, n := range graph.ThisAndAllDescendants(root) {
		ids = append(ids, n.ID())
	}

	assert.Equal(t, []string{"r", "a", "a1", "b"}, ids)

	proxy := graph.NewProxyNode("p")
	assert.Equal(t, []graph.Node{proxy}, graph.ThisAndAllDescendants(proxy))
	assert.Nil(t, proxy.Concept())
	assert.Equal(t, "Proxy(p)", proxy.String())
}

func TestPrimitiveSerialization(t *testing.T) {
	t.Parallel()

	ps := graph.NewPrimitiveSerialization()

	tests := []struct {
		typ   string
		value any
		text  string
	}{
		{typ: "String", value: "hello", text: "hello"},
		{typ: "Integer", value: int64(42), text: "42"},
		{typ: "Boolean", value: true, text: "true"},
		{typ: "Float", value: 1.5, text: "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			t.Parallel()

			s, err := ps.Serialize(tt.typ, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.text, s)

			v, err := ps.Deserialize(tt.typ, s)
			require.NoError(t, err)
			assert.Equal(t, tt.value, v)
		})
	}

	_, err := ps.Deserialize("Integer", "x")
	require.ErrorIs(t, err, graph.ErrMalformedValue)

	_, err = ps.Serialize("Point", "L1:1")
	require.ErrorIs(t, err, graph.ErrNoCodec)
	assert.False(t, ps.Has("Point"))
}

func TestPrimitiveSerialization_Properties(t *testing.T) {
	t.Parallel()

	_, c, color := sampleLanguage(t)
	ps := graph.NewPrimitiveSerialization()
	n := graph.NewDynamicNode("n", c)

	require.NoError(t, ps.DeserializeProperty(n, "size", "7"))
	require.NoError(t, ps.DeserializeProperty(n, "color", "GREEN"))
	assert.Equal(t, int64(7), n.PropertyValue("size"))
	assert.Equal(t, graph.EnumerationValue{Enumeration: color, Literal: "GREEN"}, n.PropertyValue("color"))

	s, err := ps.SerializeProperty(n, "color")
	require.NoError(t, err)
	assert.Equal(t, "GREEN", s)

	s, err = ps.SerializeProperty(n, "name")
	require.NoError(t, err)
	assert.Empty(t, s)

	require.ErrorIs(t, ps.DeserializeProperty(n, "color", "BLUE"), graph.ErrMalformedValue)
}
