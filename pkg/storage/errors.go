package storage

import "errors"

// Sentinel errors for storage operations.
var (
	// ErrNotFound is returned when a conversation key is not registered.
	ErrNotFound = errors.New("conversation not found")

	// ErrInvalidDocument is returned when an imported options document is
	// not a JSON object of the expected shape.
	ErrInvalidDocument = errors.New("options document must be a JSON object")
)
