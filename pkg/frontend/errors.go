package frontend

import "errors"

// Sentinel errors for the front-end.
var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrSourceTooLarge      = errors.New("source exceeds the size limit")
	ErrNoRootNode          = errors.New("parser produced no root node")
	errPoolType            = errors.New("parser pool returned unexpected type")
)
