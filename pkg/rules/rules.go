// Package rules loads declarative rule sets that rewrite front-end parse
// trees through the transformation engine.
package rules

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/astkit/internal/suggest"
	"github.com/Sumatoshi-tech/astkit/pkg/frontend"
)

// Action tells what a rule does with a matching node.
type Action string

// Actions.
const (
	// ActionKeep copies the node with its transformed children.
	ActionKeep Action = "keep"
	// ActionDrop removes the node and its subtree.
	ActionDrop Action = "drop"
	// ActionRename copies the node under another kind.
	ActionRename Action = "rename"
	// ActionInline replaces the node by its transformed children.
	ActionInline Action = "inline"
)

var actionNames = []string{string(ActionKeep), string(ActionDrop), string(ActionRename), string(ActionInline)}

// AnyKind matches nodes of every kind.
const AnyKind = "*"

// Env is the environment `when` conditions are evaluated in.
type Env struct {
	Kind     string `expr:"kind"`
	Field    string `expr:"field"`
	Text     string `expr:"text"`
	Named    bool   `expr:"named"`
	Children int    `expr:"children"`
	Parent   string `expr:"parent"`
}

// EnvOf builds the condition environment of n.
func EnvOf(n *frontend.ParseNode) Env {
	env := Env{
		Kind:     n.Kind,
		Field:    n.Field,
		Text:     n.SourceText(),
		Named:    n.Named,
		Children: len(n.Children),
	}

	if parent, ok := n.Parent().(*frontend.ParseNode); ok {
		env.Parent = parent.Kind
	}

	return env
}

// Rule matches nodes by kind, optionally by field and condition.
type Rule struct {
	Kind   string `yaml:"kind"`
	Field  string `yaml:"field,omitempty"`
	Action Action `yaml:"action"`
	To     string `yaml:"to,omitempty"`
	When   string `yaml:"when,omitempty"`

	program *vm.Program
}

// RuleSet is an ordered list of rules; the first matching rule wins and
// unmatched nodes are kept.
type RuleSet struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Rules       []Rule `yaml:"rules"`
}

// Load validates and decodes a YAML rule set and compiles its conditions.
func Load(data []byte) (*RuleSet, error) {
	problems, err := Check(data)
	if err != nil {
		return nil, err
	}

	if len(problems) > 0 {
		errs := make([]error, 0, len(problems))

		for _, p := range problems {
			errs = append(errs, errors.New(p.String()))
		}

		return nil, fmt.Errorf("%w: %w", ErrInvalidRuleSet, errors.Join(errs...))
	}

	var rs RuleSet

	if err = yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedYAML, err)
	}

	if err = rs.Compile(); err != nil {
		return nil, err
	}

	return &rs, nil
}

// Compile compiles the `when` conditions. It is done by Load; rule sets built
// in code call it before Install.
func (rs *RuleSet) Compile() error {
	for i := range rs.Rules {
		r := &rs.Rules[i]
		if r.When == "" {
			r.program = nil

			continue
		}

		program, err := compile(r.When)
		if err != nil {
			return fmt.Errorf("%w: rules[%d].when: %w", ErrInvalidRuleSet, i, err)
		}

		r.program = program
	}

	return nil
}

// Validate reports the semantic problems of the rule set: unknown actions,
// renames without a target, conditions that do not compile, and rules that
// can never match because an earlier unconditional rule covers them.
func (rs *RuleSet) Validate() []Problem {
	var problems []Problem

	if rs.Name == "" {
		problems = append(problems, Problem{Rule: -1, Field: "name", Message: "name is required"})
	}

	type selector struct{ kind, field string }

	shadowing := make(map[selector]int)

	for i, r := range rs.Rules {
		switch r.Action {
		case ActionKeep, ActionDrop, ActionInline:
		case ActionRename:
			if r.To == "" {
				problems = append(problems, Problem{Rule: i, Field: "to", Message: "rename needs a target kind"})
			}
		default:
			problems = append(problems, Problem{
				Rule: i, Field: "action",
				Message: fmt.Sprintf("unknown action %q", r.Action) + suggest.Hint(string(r.Action), actionNames),
			})
		}

		if r.Kind == "" {
			problems = append(problems, Problem{Rule: i, Field: "kind", Message: "kind is required"})
		}

		if r.When != "" {
			if _, err := compile(r.When); err != nil {
				problems = append(problems, Problem{Rule: i, Field: "when", Message: err.Error()})
			}
		}

		for _, sel := range []selector{{r.Kind, r.Field}, {AnyKind, r.Field}, {r.Kind, ""}, {AnyKind, ""}} {
			if first, ok := shadowing[sel]; ok {
				problems = append(problems, Problem{Rule: i, Message: fmt.Sprintf("unreachable: rules[%d] matches first", first)})

				break
			}
		}

		if r.When == "" {
			if _, ok := shadowing[selector{r.Kind, r.Field}]; !ok {
				shadowing[selector{r.Kind, r.Field}] = i
			}
		}
	}

	return problems
}

// Match returns the first rule matching n. A condition that fails to
// evaluate is returned as an error together with the rule.
func (rs *RuleSet) Match(n *frontend.ParseNode) (*Rule, error) {
	var env *Env

	for i := range rs.Rules {
		r := &rs.Rules[i]

		if r.Kind != AnyKind && r.Kind != n.Kind {
			continue
		}

		if r.Field != "" && r.Field != n.Field {
			continue
		}

		if r.program == nil {
			return r, nil
		}

		if env == nil {
			e := EnvOf(n)
			env = &e
		}

		out, err := expr.Run(r.program, *env)
		if err != nil {
			return r, fmt.Errorf("rules[%d].when: %w", i, err)
		}

		if ok, _ := out.(bool); ok {
			return r, nil
		}
	}

	return nil, nil
}

func compile(src string) (*vm.Program, error) {
	return expr.Compile(src, expr.Env(Env{}), expr.AsBool())
}
