// SPDX-License-Identifier: MIT
// Package field: sentinel error set.
// All constructors and accessors return these sentinels (possibly wrapped with
// call-site context via %w); tests check them with errors.Is. Panics are
// reserved for nonsensical option values (programmer error).

package field

import "errors"

var (
	// ErrBadDimension is returned when a dimensionality is outside [1, MaxDimension].
	ErrBadDimension = errors.New("field: dimension out of range")

	// ErrBadShape is returned when a region has a non-positive size on some axis.
	ErrBadShape = errors.New("field: invalid region shape")

	// ErrDimensionMismatch indicates operands or arguments of incompatible dimensionality
	// (index length, vector arity, spacing length, region of another field).
	ErrDimensionMismatch = errors.New("field: dimension mismatch")

	// ErrOutOfRange indicates an index outside the buffered region.
	ErrOutOfRange = errors.New("field: index out of range")

	// ErrNaNInf signals a NaN or ±Inf sample written under the finite-value policy.
	ErrNaNInf = errors.New("field: NaN or Inf encountered")

	// ErrNilField indicates a nil *Field was passed where a field is required.
	ErrNilField = errors.New("field: nil field")

	// ErrReleased indicates access to a field whose buffer was released.
	ErrReleased = errors.New("field: buffer released")

	// ErrTooLarge indicates the requested buffer cannot be addressed on this platform.
	ErrTooLarge = errors.New("field: buffer too large")

	// ErrBadSpacing indicates a non-positive or non-finite spacing value.
	ErrBadSpacing = errors.New("field: spacing must be finite and > 0")
)
