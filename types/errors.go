package types

import "errors"

var (
	// ErrConfiguration marks invalid dimensions, spacing, material ids or
	// mismatched array shapes.
	ErrConfiguration = errors.New("configuration error")

	// ErrIO marks missing or malformed input files.
	ErrIO = errors.New("i/o error")

	// ErrDiverged marks a run stopped by the stability guard.
	ErrDiverged = errors.New("solution diverged")
)
