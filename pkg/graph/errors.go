package graph

import "errors"

var (
	// ErrDuplicateFeature is returned when a concept declares a feature name twice.
	ErrDuplicateFeature = errors.New("duplicate feature")
	// ErrUnknownFeature is returned when a node is accessed through a feature its concept lacks.
	ErrUnknownFeature = errors.New("unknown feature")
	// ErrFeatureKind is returned when a feature is used as the wrong kind.
	ErrFeatureKind = errors.New("wrong feature kind")
	// ErrNoCodec is returned when no codec is registered for a primitive type.
	ErrNoCodec = errors.New("no codec for primitive type")
	// ErrMalformedValue is returned when a serialized primitive cannot be decoded.
	ErrMalformedValue = errors.New("malformed primitive value")
)
