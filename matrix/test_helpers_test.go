// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   • Provide small, deterministic zone-matrix fixtures for kernels and reductions.
//   • Keep all data finite unless a test opts into +Inf distances explicitly.

package matrix_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvquant/matrix"
)

// hide wraps any Matrix to hide its concrete type from type assertions.
// Use hide{X} to force the generic (non-*Dense) fallback paths.
type hide struct{ matrix.Matrix }

// MustDense allocates an r×c *Dense or fails the test.
func MustDense(t *testing.T, r, c int) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(r, c)
	require.NoError(t, err)

	return m
}

// MustRows builds a *Dense from a 2D literal or fails the test.
func MustRows(t *testing.T, rows [][]float64, opts ...matrix.Option) *matrix.Dense {
	t.Helper()
	m, err := matrix.FromRows(rows, opts...)
	require.NoError(t, err)

	return m
}

// MustAt reads m[i,j] or fails the test.
func MustAt(t *testing.T, m matrix.Matrix, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err, "At(%d,%d)", i, j)

	return v
}

// CompareExact asserts strict equality between matrix and 2D literal.
// Use only for integer-like or carefully crafted small matrices.
func CompareExact(t *testing.T, want [][]float64, m matrix.Matrix) {
	t.Helper()
	require.Equal(t, len(want), m.Rows(), "rows")
	var i, j int
	for i = 0; i < m.Rows(); i++ {
		require.Equal(t, len(want[i]), m.Cols(), "cols[%d]", i)
		for j = 0; j < m.Cols(); j++ {
			require.Equal(t, want[i][j], MustAt(t, m, i, j), "m[%d,%d]", i, j)
		}
	}
}

// AssertErrorIs fails unless errors.Is(err, target).
func AssertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, errors.Is(err, target), "want %v, got %v", target, err)
}

// fillInfOffDiagZeroDiag initializes a distance-matrix fixture:
// diagonal = 0, off-diagonal = +Inf. Requires WithAllowInfDistances.
func fillInfOffDiagZeroDiag(t *testing.T, d *matrix.Dense) {
	t.Helper()
	n := d.Rows()
	require.Equal(t, n, d.Cols(), "fixture matrix must be square")

	data := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				data[i*n+j] = math.Inf(1)
			}
		}
	}
	require.NoError(t, d.Fill(data))
}
