package rules

import "errors"

// Sentinel errors for rule sets.
var (
	ErrInvalidRuleSet = errors.New("invalid rule set")
	ErrMalformedYAML  = errors.New("malformed rule set document")
)
