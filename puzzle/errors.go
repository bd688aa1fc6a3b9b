package puzzle

import "errors"

// Error types for the puzzle package.
var (
	// ErrInvalidLayout is returned when a puzzle's group structure is malformed.
	ErrInvalidLayout = errors.New("invalid layout")

	// ErrInvalidValue is returned when a value falls outside the puzzle's domain.
	ErrInvalidValue = errors.New("value outside domain")

	// ErrInvalidCell is returned when a cell index falls outside the puzzle.
	ErrInvalidCell = errors.New("cell index out of range")
)
