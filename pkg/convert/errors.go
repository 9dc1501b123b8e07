package convert

import (
	"errors"

	"github.com/Sumatoshi-tech/astkit/pkg/ast"
)

var (
	// ErrInvalidID is returned when an ID provider produces a malformed identifier.
	ErrInvalidID = errors.New("invalid node identifier")
	// ErrUnknownConcept is returned when an imported node's concept maps to no node type.
	ErrUnknownConcept = errors.New("no node type for concept")
	// ErrUnknownType is returned when an exported node's type belongs to no registered language.
	ErrUnknownType = errors.New("no concept for node type")
	// ErrUnknownLiteral is returned when an enumeration literal has no enum value.
	ErrUnknownLiteral = errors.New("unknown enumeration literal")
	// ErrCardinality is returned when a single-valued feature holds several values.
	ErrCardinality = errors.New("too many values for single feature")
	// ErrMissingCounterpart is returned when a child has not been converted before its parent.
	ErrMissingCounterpart = errors.New("missing counterpart")
	// ErrIDGeneration is returned when a structural identifier cannot be computed.
	ErrIDGeneration = errors.New("cannot generate node identifier")
	// ErrNilRoot is returned when Export or Import is called without a root.
	ErrNilRoot = errors.New("nil root")
	// ErrValueOverflow is returned when an attribute value does not fit the graph property type.
	ErrValueOverflow = errors.New("attribute value out of range")
	// ErrMissingParameter is returned when an imported node lacks a constructor parameter.
	ErrMissingParameter = ast.ErrMissingParameter
)
