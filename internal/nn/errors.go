package nn

import (
	"errors"
)

// Common errors.
var (
	// ErrShapeMismatch is returned when a module receives the wrong number of values.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrInvalidConfig is returned when a module configuration is rejected.
	ErrInvalidConfig = errors.New("invalid configuration")
)
