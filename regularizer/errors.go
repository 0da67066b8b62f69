package regularizer

import "errors"

var (
	// ErrBadDimension indicates a dimensionality outside [1, field.MaxDimension].
	ErrBadDimension = errors.New("regularizer: dimension out of range")

	// ErrDimensionMismatch indicates a per-axis argument or input field whose
	// dimensionality differs from the regularizer's.
	ErrDimensionMismatch = errors.New("regularizer: dimension mismatch")

	// ErrNilInput indicates a nil input field.
	ErrNilInput = errors.New("regularizer: nil input field")
)
