package engine

import "errors"

var (
	// ErrUnsolvable marks a puzzle whose search space is exhausted without
	// reaching a solution.
	ErrUnsolvable = errors.New("puzzle is unsolvable")
)
