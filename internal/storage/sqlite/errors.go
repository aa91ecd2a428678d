package sqlite

import "errors"

var (
	// ErrEmptyPath indicates a missing database path.
	ErrEmptyPath = errors.New("sqlite registry: db path cannot be empty")
	// ErrEmptyScope indicates a missing scope argument.
	ErrEmptyScope = errors.New("sqlite registry: scope cannot be empty")
	// ErrCorruptRow indicates a stored value that cannot be decoded.
	ErrCorruptRow = errors.New("sqlite registry: corrupt row")
)
