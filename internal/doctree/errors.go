package doctree

import "errors"

var (
	// ErrPositionInvalid indicates a position that does not exist in the
	// current document version.
	ErrPositionInvalid = errors.New("doctree: position invalid")

	// ErrUnknownType indicates a node or mark type that is not part of the
	// registered schema.
	ErrUnknownType = errors.New("doctree: unknown node or mark type")

	// ErrInvalidStep indicates a transaction step that cannot be applied.
	ErrInvalidStep = errors.New("doctree: invalid transaction step")
)
