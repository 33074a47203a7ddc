// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single, canonical source of truth for common validation checks.
//  - Keep kernels/facades minimal by delegating shape/nil checks here.
//  - Return tagged sentinel errors so call sites can match them via errors.Is.
//
// Determinism & Performance:
//  - All checks are pure, deterministic and allocate nothing on success.
//
// AI-Hints:
//  - Use ValidateOrder before any kernel mixing trips, costs and distances:
//    every zone matrix of a run must be n×n for the same n.

package matrix

import (
	"fmt"
	"math"
)

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// matrixErrorf wraps an underlying error with the given operation tag.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// isNilMatrix catches both an untyped nil and a typed (*Dense)(nil) hidden in the interface.
func isNilMatrix(m Matrix) bool {
	if m == nil {
		return true
	}
	d, ok := m.(*Dense)

	return ok && d == nil
}

// ValidateNotNil ensures the matrix reference is non-nil.
//
// Returns ErrNilMatrix if m == nil (including a typed nil *Dense).
// Complexity: O(1).
func ValidateNotNil(m Matrix) error {
	if isNilMatrix(m) {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateSameShape ensures matrices a and b have equal dimensions.
//
// Implementation: assumes a and b are not nil (caller must ensure).
// Complexity: O(1).
func ValidateSameShape(a, b Matrix) error {
	if a.Rows() != b.Rows() {
		return validatorErrorf("ValidateSameShape: Rows", ErrDimensionMismatch)
	}
	if a.Cols() != b.Cols() {
		return validatorErrorf("ValidateSameShape: Columns", ErrDimensionMismatch)
	}

	return nil
}

// ValidateSquare checks that m is non-nil and square (Rows == Cols).
//
// Errors: ErrNilMatrix if nil, ErrNonSquare if not square.
// Complexity: O(1).
func ValidateSquare(m Matrix) error {
	if isNilMatrix(m) {
		return validatorErrorf("ValidateSquare", ErrNilMatrix)
	}
	if m.Rows() != m.Cols() {
		return validatorErrorf("ValidateSquare", ErrNonSquare)
	}

	return nil
}

// ValidateBinarySameShape is the composite NotNil(a) → NotNil(b) → SameShape.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(1).
func ValidateBinarySameShape(a, b Matrix) error {
	if err := ValidateNotNil(a); err != nil {
		return validatorErrorf("ValidateBinarySameShape", err)
	}
	if err := ValidateNotNil(b); err != nil {
		return validatorErrorf("ValidateBinarySameShape", err)
	}
	if err := ValidateSameShape(a, b); err != nil {
		return validatorErrorf("ValidateBinarySameShape", err)
	}

	return nil
}

// ValidateOrder checks that every matrix is non-nil, square and of order n.
// MAIN DESCRIPTION:
//   - One guard for a whole bundle of zone matrices (trips, costs, distances).
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrDimensionMismatch (tagged with the operand position).
//
// Complexity: O(len(ms)).
func ValidateOrder(n int, ms ...Matrix) error {
	var (
		idx int
		m   Matrix
	)
	for idx, m = range ms {
		if err := ValidateSquare(m); err != nil {
			return validatorErrorf(fmt.Sprintf("ValidateOrder[%d]", idx), err)
		}
		if m.Rows() != n {
			return validatorErrorf(fmt.Sprintf("ValidateOrder[%d]: order %d, want %d", idx, m.Rows(), n), ErrDimensionMismatch)
		}
	}

	return nil
}

// ValidateFinite scans m and returns ErrNaNInf at the first NaN or ±Inf.
// Used on ingestion boundaries (qbin reads, observed inputs).
// Complexity: O(r*c).
func ValidateFinite(m *Dense) error {
	if m == nil {
		return validatorErrorf("ValidateFinite", ErrNilMatrix)
	}
	var idx int
	for idx = 0; idx < len(m.data); idx++ {
		if math.IsNaN(m.data[idx]) || math.IsInf(m.data[idx], 0) {
			return validatorErrorf(fmt.Sprintf("ValidateFinite(%d,%d)", idx/m.c, idx%m.c), ErrNaNInf)
		}
	}

	return nil
}

// ValidateNonNegative returns ErrNaNInf for non-finite entries and
// ErrOutOfRange for negative ones. Costs, distances and trips must satisfy it.
// Complexity: O(r*c).
func ValidateNonNegative(m *Dense) error {
	if err := ValidateFinite(m); err != nil {
		return validatorErrorf("ValidateNonNegative", err)
	}
	var idx int
	for idx = 0; idx < len(m.data); idx++ {
		if m.data[idx] < 0 {
			return validatorErrorf(fmt.Sprintf("ValidateNonNegative(%d,%d)", idx/m.c, idx%m.c), ErrOutOfRange)
		}
	}

	return nil
}
