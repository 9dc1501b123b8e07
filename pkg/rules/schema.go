package rules

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// rootContext is the field gojsonschema reports for document-level errors.
const rootContext = "(root)"

//go:embed schema.json
var schemaJSON []byte

// Schema returns the JSON schema rule set documents are validated against.
func Schema() []byte { return schemaJSON }

// Problem is one reason a rule set document is rejected.
type Problem struct {
	// Rule is the index of the offending rule, or -1 for document-level problems.
	Rule    int
	Field   string
	Message string
}

func (p Problem) String() string {
	switch {
	case p.Rule >= 0 && p.Field != "":
		return fmt.Sprintf("rules[%d].%s: %s", p.Rule, p.Field, p.Message)
	case p.Rule >= 0:
		return fmt.Sprintf("rules[%d]: %s", p.Rule, p.Message)
	case p.Field != "":
		return p.Field + ": " + p.Message
	default:
		return p.Message
	}
}

// Check validates a YAML rule set document against the schema and, when it
// conforms, against the semantic checks of RuleSet.Validate. The error is
// reserved for documents that are not YAML at all.
func Check(data []byte) ([]Problem, error) {
	var doc any

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedYAML, err)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	if !result.Valid() {
		problems := make([]Problem, 0, len(result.Errors()))

		for _, verr := range result.Errors() {
			problems = append(problems, schemaProblem(verr))
		}

		return problems, nil
	}

	var rs RuleSet

	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedYAML, err)
	}

	return rs.Validate(), nil
}

// schemaProblem maps a gojsonschema field path such as "rules.2.action" to
// a rule index and the remaining path.
func schemaProblem(verr gojsonschema.ResultError) Problem {
	p := Problem{Rule: -1, Message: verr.Description()}

	field := verr.Field()
	if field == rootContext {
		return p
	}

	parts := strings.Split(field, ".")
	if len(parts) >= 2 && parts[0] == "rules" {
		if idx, err := strconv.Atoi(parts[1]); err == nil {
			p.Rule = idx
			p.Field = strings.Join(parts[2:], ".")

			return p
		}
	}

	p.Field = field

	return p
}
