// SPDX-License-Identifier: MIT
// Package: field
//
// Purpose:
//  - Single source of truth for shape/nil/geometry checks.
//  - Return sentinel errors wrapped with the validator tag so call sites
//    can match them with errors.Is.

package field

import (
	"fmt"
	"math"
)

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateRegion ensures r has a supported dimensionality and positive sizes.
//
// Errors: ErrBadDimension, ErrDimensionMismatch (Index/Size lengths), ErrBadShape.
// Complexity: O(N).
func ValidateRegion(r Region) error {
	if n := len(r.Size); n < 1 || n > MaxDimension {
		return validatorErrorf("ValidateRegion", ErrBadDimension)
	}
	if len(r.Index) != len(r.Size) {
		return validatorErrorf("ValidateRegion", ErrDimensionMismatch)
	}
	for _, s := range r.Size {
		if s <= 0 {
			return validatorErrorf("ValidateRegion", ErrBadShape)
		}
	}

	return nil
}

// ValidateNotNil ensures f is non-nil and still holds its buffer.
// Complexity: O(1).
func ValidateNotNil(f *Field) error {
	if f == nil {
		return validatorErrorf("ValidateNotNil", ErrNilField)
	}
	if f.data == nil {
		return validatorErrorf("ValidateNotNil", ErrReleased)
	}

	return nil
}

// ValidateSameGeometry ensures a and b share region, spacing and origin.
// Assumes both are non-nil.
// Complexity: O(N).
func ValidateSameGeometry(a, b *Field) error {
	if !a.region.Equal(b.region) {
		return validatorErrorf("ValidateSameGeometry: Region", ErrDimensionMismatch)
	}
	if !equalFloats(a.spacing, b.spacing) {
		return validatorErrorf("ValidateSameGeometry: Spacing", ErrDimensionMismatch)
	}
	if !equalFloats(a.origin, b.origin) {
		return validatorErrorf("ValidateSameGeometry: Origin", ErrDimensionMismatch)
	}

	return nil
}

// validateSpacing checks length and positivity of a spacing vector.
func validateSpacing(s []float64, dim int) error {
	if len(s) != dim {
		return validatorErrorf("validateSpacing", ErrDimensionMismatch)
	}
	for _, v := range s {
		if isNonFinite(v) || v <= 0 {
			return validatorErrorf("validateSpacing", ErrBadSpacing)
		}
	}

	return nil
}

// isNonFinite reports NaN or ±Inf.
func isNonFinite(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

var inf = math.Inf(1)
