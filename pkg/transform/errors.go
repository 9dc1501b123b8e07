package transform

import "errors"

var (
	// ErrMissingRule is returned when no rule matches a node and the generic fallback is off.
	ErrMissingRule = errors.New("no transformation rule")
	// ErrDuplicateRule is the panic value for registering two rules for the same source type.
	ErrDuplicateRule = errors.New("duplicate transformation rule")
	// ErrNodeReused is returned when a transformation re-enters a node it is
	// still transforming or feeds one of its own outputs back in as a source.
	ErrNodeReused = errors.New("node reused within one transformation")
	// ErrMultipleResults is returned when several nodes are produced where one is expected.
	ErrMultipleResults = errors.New("several nodes produced where one was expected")
	// ErrChildBinding is returned when a WithChild binding names an unknown or read-only feature.
	ErrChildBinding = errors.New("invalid child binding")
	// ErrIssueRaised is returned when an error issue is recorded while fail-on-error is set.
	ErrIssueRaised = errors.New("error issue raised")
)
