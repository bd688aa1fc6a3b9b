package candidate

import "errors"

// Error types for the candidate package.
var (
	// ErrInvalidGiven is returned when two given values share a group, or a
	// given names an unknown cell or an out-of-domain value.
	ErrInvalidGiven = errors.New("invalid given")

	// ErrContradiction is returned when an assignment or elimination leaves
	// an unassigned cell with no candidates, or assigns a value that is not
	// a candidate. Inside a search branch it triggers a backtrack; at the
	// root it surfaces in the solve result.
	ErrContradiction = errors.New("contradiction")
)
