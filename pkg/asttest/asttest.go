// Package asttest provides assertions for comparing trees in tests.
package asttest

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/astkit/pkg/ast"
)

const rootContext = "<root>"

type config struct {
	considerRange bool
	context       string
}

// Option tunes AssertASTsAreEqual.
type Option func(*config)

// ConsiderRange also compares the resolved ranges of every node pair.
func ConsiderRange() Option {
	return func(c *config) { c.considerRange = true }
}

// WithContext sets the path prefix used in failure messages.
func WithContext(ctx string) Option {
	return func(c *config) { c.context = ctx }
}

// AssertASTsAreEqual reports a failure on t for every structural difference
// between expected and actual: node types, attribute values, containment
// shapes and reference names. References are compared by name and state,
// never by following them.
func AssertASTsAreEqual(t assert.TestingT, expected, actual ast.Node, opts ...Option) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}

	cfg := config{context: rootContext}
	for _, opt := range opts {
		opt(&cfg)
	}

	return compareNodes(t, expected, actual, cfg.context, cfg)
}

func compareNodes(t assert.TestingT, expected, actual ast.Node, context string, cfg config) bool {
	switch {
	case ast.IsNil(expected) && ast.IsNil(actual):
		return true
	case ast.IsNil(expected) || ast.IsNil(actual):
		return assert.Fail(t, fmt.Sprintf("%s: expected %s, found %s", context, ast.TypeName(expected), ast.TypeName(actual)))
	}

	if !assert.Equal(t, ast.TypeName(expected), ast.TypeName(actual), "%s: node type", context) {
		return false
	}

	ok := true

	if cfg.considerRange {
		ok = assert.Equal(t, expected.Range(), actual.Range(), "%s: range", context) && ok
	}

	desc, err := ast.Describe(expected)
	if err != nil {
		return assert.NoError(t, err, "%s", context)
	}

	for _, f := range desc.Features {
		if f.Derived {
			continue
		}

		path := context + "." + f.Name

		switch f.Kind {
		case ast.KindContainment:
			ok = compareContainment(t, f, expected, actual, path, cfg) && ok
		case ast.KindReference:
			ok = compareReference(t, f.Reference(expected), f.Reference(actual), path) && ok
		default:
			if diff := cmp.Diff(f.Get(expected), f.Get(actual)); diff != "" {
				ok = assert.Fail(t, fmt.Sprintf("%s differs (-expected +actual):\n%s", path, diff))
			}
		}
	}

	return ok
}

func compareContainment(t assert.TestingT, f ast.Feature, expected, actual ast.Node, path string, cfg config) bool {
	exp, act := f.Children(expected), f.Children(actual)

	if !f.IsMany() {
		var e, a ast.Node
		if len(exp) > 0 {
			e = exp[0]
		}

		if len(act) > 0 {
			a = act[0]
		}

		return compareNodes(t, e, a, path, cfg)
	}

	if len(exp) != len(act) {
		return assert.Fail(t, fmt.Sprintf("%s: expected %d children, found %d", path, len(exp), len(act)))
	}

	ok := true

	for i := range exp {
		ok = compareNodes(t, exp[i], act[i], fmt.Sprintf("%s[%d]", path, i), cfg) && ok
	}

	return ok
}

func compareReference(t assert.TestingT, expected, actual ast.Ref, path string) bool {
	switch {
	case expected == nil && actual == nil:
		return true
	case expected == nil || actual == nil:
		return assert.Fail(t, fmt.Sprintf("%s: expected reference %v, found %v", path, expected, actual))
	}

	ok := assert.Equal(t, expected.RefName(), actual.RefName(), "%s: reference name", path)
	ok = assert.Equal(t, expected.Target() != nil, actual.Target() != nil, "%s: reference resolution", path) && ok

	if expected.Target() != nil && actual.Target() != nil {
		ok = assert.Equal(t, ast.TypeName(expected.Target()), ast.TypeName(actual.Target()), "%s: referred type", path) && ok
	}

	return ok
}
