// SPDX-License-Identifier: MIT
// Package matrix: full-matrix reductions used by calibration and impact statistics.
//
// Purpose:
//   - Sum and SumProduct (Σ a∘b) back every CBar, Lk and Ck computation.
//   - RowSums / ColSums give per-zone outflow (Oi) and inflow (Dj).
//   - CountLess / PositiveDiffSum compare a scenario cost matrix against its baseline.
//
// Determinism:
//   - Flat buffers are reduced left-to-right; results are bitwise stable for a given input.
//
// AI-Hints:
//   - All reductions take *Dense: they run on whole-run matrices of order N≈8000,
//     so there is no interface fallback here.
package matrix

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	opSum             = "Sum"
	opSumProduct      = "SumProduct"
	opRowSums         = "RowSums"
	opColSums         = "ColSums"
	opCountLess       = "CountLess"
	opPositiveDiffSum = "PositiveDiffSum"
)

// Sum returns Σ m[i,j].
// Errors: ErrNilMatrix.
// Complexity: O(r*c).
func Sum(m *Dense) (float64, error) {
	if m == nil {
		return 0, matrixErrorf(opSum, ErrNilMatrix)
	}

	return floats.Sum(m.data), nil
}

// SumProduct returns Σ a[i,j]*b[i,j] (elementwise product, then full sum).
// MAIN DESCRIPTION:
//   - The "∘ then sum" primitive: trip-weighted cost totals (CBar numerators)
//     and distance travelled (Lk).
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity: Time O(r*c), Space O(1).
func SumProduct(a, b *Dense) (float64, error) {
	if a == nil || b == nil {
		return 0, matrixErrorf(opSumProduct, ErrNilMatrix)
	}
	if err := ValidateSameShape(a, b); err != nil {
		return 0, matrixErrorf(opSumProduct, err)
	}

	return floats.Dot(a.data, b.data), nil
}

// RowSums returns the vector of row totals (len == Rows()).
// For a trip matrix this is the outflow O[i] of each origin.
func RowSums(m *Dense) ([]float64, error) {
	if m == nil {
		return nil, matrixErrorf(opRowSums, ErrNilMatrix)
	}
	out := make([]float64, m.r)
	var i int
	for i = 0; i < m.r; i++ {
		out[i] = floats.Sum(m.data[i*m.c : (i+1)*m.c])
	}

	return out, nil
}

// ColSums returns the vector of column totals (len == Cols()).
// For a trip matrix this is the inflow D[j] of each destination.
// Rows are accumulated in order so the result does not depend on scheduling.
func ColSums(m *Dense) ([]float64, error) {
	if m == nil {
		return nil, matrixErrorf(opColSums, ErrNilMatrix)
	}
	out := make([]float64, m.c)
	var i int
	for i = 0; i < m.r; i++ {
		floats.Add(out, m.data[i*m.c:(i+1)*m.c])
	}

	return out, nil
}

// CountLess returns #{(i,j) : a[i,j] < b[i,j]}.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
func CountLess(a, b *Dense) (int, error) {
	if a == nil || b == nil {
		return 0, matrixErrorf(opCountLess, ErrNilMatrix)
	}
	if err := ValidateSameShape(a, b); err != nil {
		return 0, matrixErrorf(opCountLess, err)
	}
	var idx, n int
	for idx = 0; idx < len(a.data); idx++ {
		if a.data[idx] < b.data[idx] {
			n++
		}
	}

	return n, nil
}

// PositiveDiffSum returns Σ max(a[i,j]-b[i,j], 0).
// With a = baseline cost and b = scenario cost this is the total saving;
// it is never negative. Pairs that were unreachable in a (+Inf) contribute
// nothing, so the sum stays finite when a new link connects them.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
func PositiveDiffSum(a, b *Dense) (float64, error) {
	if a == nil || b == nil {
		return 0, matrixErrorf(opPositiveDiffSum, ErrNilMatrix)
	}
	if err := ValidateSameShape(a, b); err != nil {
		return 0, matrixErrorf(opPositiveDiffSum, err)
	}
	var (
		idx  int
		d, s float64
	)
	for idx = 0; idx < len(a.data); idx++ {
		d = a.data[idx] - b.data[idx]
		if d > 0 && !math.IsInf(d, 1) {
			s += d
		}
	}

	return s, nil
}
