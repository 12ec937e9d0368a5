package math

import "errors"

var (
	// ErrInvalidTableBits is returned when a log table size is out of range.
	ErrInvalidTableBits = errors.New("math: invalid log table bits")

	// ErrInvalidDegree is returned for an unsupported polynomial degree or
	// coefficient count.
	ErrInvalidDegree = errors.New("math: invalid polynomial degree")
)
