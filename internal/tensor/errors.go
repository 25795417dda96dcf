package tensor

import "github.com/pkg/errors"

// Sentinel errors for shape and argument validation.
// Use errors.Is to check for specific error types.
var (
	ErrShapeMismatch   = errors.New("shape mismatch")
	ErrInvalidArgument = errors.New("invalid argument")
)
