// SPDX-License-Identifier: MIT

// Package matrix: domain types shared by validators and kernels.
// Zone indices are plain ints in [0, N); every zone×zone matrix of a run
// shares the same order N.
package matrix

// Matrix is the read/write surface validators and generic fallbacks rely on.
// Hot kernels type-assert to *Dense and walk the flat buffer directly.
//
// Complexity notes: all methods are expected O(1).
type Matrix interface {
	// Rows returns the number of rows in the matrix.
	Rows() int

	// Cols returns the number of columns in the matrix.
	Cols() int

	// At retrieves the element at position (i, j).
	// Returns ErrOutOfRange if i<0, i>=Rows(), j<0 or j>=Cols().
	At(i, j int) (float64, error)

	// Set assigns the value v at position (i, j).
	// Returns ErrOutOfRange if indices are invalid, ErrNaNInf under the numeric policy.
	Set(i, j int, v float64) error
}
