// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// This file defines ONLY package-level sentinel errors used across the matrix
// package. Kernels return these sentinels (optionally wrapped with a call-site
// tag) and tests match them via errors.Is. No kernel panics on user input.

package matrix

import "errors"

// Every message is prefixed with "matrix: ..." for consistency and grep-ability.
// Wrap with fmt.Errorf("ctx: %w", ErrX) at the boundary when context matters.

var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrOutOfRange indicates that a row or column index is outside valid bounds.
	// Public indexers (At/Set) return this instead of panicking.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible dimensions between operands,
	// e.g. a trip matrix and a cost matrix of different order.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNonSquare signals that a square (zone×zone) matrix was required.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required
	// by the numeric policy (ingestion, Set, Fill, Apply).
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNilMatrix indicates that a nil matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil matrix")

	// ErrDataLength indicates that a flat buffer does not match rows*cols.
	ErrDataLength = errors.New("matrix: data length does not match shape")
)
