package solver

import "errors"

var (
	// ErrCanceled is returned when the request context ends before solving starts.
	ErrCanceled = errors.New("solve canceled")
)
