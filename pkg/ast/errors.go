package ast

import "errors"

var (
	// ErrImmutableProperty is returned when writing a feature declared read-only.
	ErrImmutableProperty = errors.New("immutable property")
	// ErrUnsupportedOperation is returned when an operation does not apply to
	// the container holding the node, e.g. positional replacement in a set.
	ErrUnsupportedOperation = errors.New("unsupported operation")
	// ErrIllegalState is returned when structural bookkeeping is inconsistent,
	// e.g. a node is not found among its parent's children.
	ErrIllegalState = errors.New("illegal state")
	// ErrNoParent is returned by mutations that require an owning parent.
	ErrNoParent = errors.New("node has no parent")
	// ErrIncompatibleValue is returned when a value does not fit the declared feature type.
	ErrIncompatibleValue = errors.New("incompatible value")
	// ErrUnregisteredType is returned when a node type has no descriptor.
	ErrUnregisteredType = errors.New("unregistered node type")
	// ErrDuplicateFeature is returned when a type declares two features with the same name.
	ErrDuplicateFeature = errors.New("duplicate feature name")
	// ErrDuplicateType is returned when a type is registered twice.
	ErrDuplicateType = errors.New("duplicate type registration")
	// ErrFeatureOwner is returned when a feature declared for one type is attached to another.
	ErrFeatureOwner = errors.New("feature declared for another type")
	// ErrUnknownParameter is returned when a constructor parameter names no feature.
	ErrUnknownParameter = errors.New("constructor parameter without feature")
	// ErrMissingParameter is returned when no value is supplied for a constructor parameter.
	ErrMissingParameter = errors.New("missing constructor parameter")
	// ErrNoFactory is returned when a type declares neither a factory nor a constructor.
	ErrNoFactory = errors.New("no factory for node type")
)
