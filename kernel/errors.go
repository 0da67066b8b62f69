package kernel

import "errors"

var (
	// ErrBadVariance indicates a negative, NaN or infinite variance.
	ErrBadVariance = errors.New("kernel: variance must be finite and >= 0")

	// ErrBadMaxError indicates a truncation error bound outside [0, 1].
	ErrBadMaxError = errors.New("kernel: maximum error must be in [0, 1]")

	// ErrBadDirection indicates a negative axis index.
	ErrBadDirection = errors.New("kernel: direction must be >= 0")
)
