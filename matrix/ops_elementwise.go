// SPDX-License-Identifier: MIT
// Package matrix: elementwise comparisons between same-shape matrices.
//
// Purpose:
//   - AllClose for tolerance-based equality (used by tests and by the
//     calibration round-trip checks).
//   - Exp builds exp(-beta*C) once per calibration pass.
package matrix

import "math"

// AllClose checks element-wise |a-b| ≤ atol + rtol*|b| for identical shapes.
// Returns (true,nil) if all elements satisfy the relation; (false,nil) otherwise.
// Time: O(r*c). Space: O(1). Deterministic.
//
// Policy:
//   - a and b must be non-nil and have identical shapes.
//   - rtol, atol are treated as |rtol|, |atol| (negative values are normalized).
//   - Two +Inf entries at the same position compare equal.
func AllClose(a, b Matrix, rtol, atol float64) (bool, error) {
	if math.IsNaN(rtol) || math.IsNaN(atol) || math.IsInf(rtol, 0) || math.IsInf(atol, 0) {
		return false, matrixErrorf("AllClose", ErrNaNInf)
	}
	rtol, atol = math.Abs(rtol), math.Abs(atol)
	if err := ValidateBinarySameShape(a, b); err != nil {
		return false, matrixErrorf("AllClose", err)
	}

	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			var idx int
			for idx = 0; idx < len(da.data); idx++ {
				if !isClose(da.data[idx], db.data[idx], rtol, atol) {
					return false, nil
				}
			}

			return true, nil
		}
	}

	// Generic fallback via At (bounds-safe; still deterministic).
	r, c := a.Rows(), a.Cols()
	var (
		i, j   int
		av, bv float64
	)
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			av, _ = a.At(i, j)
			bv, _ = b.At(i, j)
			if !isClose(av, bv, rtol, atol) {
				return false, nil
			}
		}
	}

	return true, nil
}

func isClose(a, b, rtol, atol float64) bool {
	if a == b {
		return true
	}

	return math.Abs(a-b) <= atol+rtol*math.Abs(b)
}

// ExpScaled writes exp(-beta*src[i,j]) into dst (same shape, may alias src).
// MAIN DESCRIPTION:
//   - Precomputes the deterrence factor of one mode for a whole pass so the
//     distribution kernel never calls math.Exp in its inner loop.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity: Time O(r*c), Space O(1).
func ExpScaled(dst, src *Dense, beta float64) error {
	if dst == nil || src == nil {
		return matrixErrorf("ExpScaled", ErrNilMatrix)
	}
	if err := ValidateSameShape(dst, src); err != nil {
		return matrixErrorf("ExpScaled", err)
	}
	var idx int
	for idx = 0; idx < len(src.data); idx++ {
		dst.data[idx] = math.Exp(-beta * src.data[idx])
	}

	return nil
}
