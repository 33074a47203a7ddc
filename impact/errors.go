// SPDX-License-Identifier: MIT

package impact

import "errors"

// Sentinel errors returned by the impact package.
var (
	// ErrModeCount indicates per-mode inputs whose mode counts differ, or a
	// change whose mode has no matrix.
	ErrModeCount = errors.New("impact: mode count mismatch")

	// ErrShapeMismatch indicates matrices of different orders across inputs.
	ErrShapeMismatch = errors.New("impact: matrix shape mismatch")
)
