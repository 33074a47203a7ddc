// SPDX-License-Identifier: MIT

package gravity

import "errors"

// Sentinel errors returned by the gravity package.
var (
	// ErrNoModes indicates that no observed trip matrices were supplied.
	ErrNoModes = errors.New("gravity: at least one mode is required")

	// ErrShapeMismatch indicates mode counts or matrix orders that do not line up.
	ErrShapeMismatch = errors.New("gravity: matrix shape mismatch")

	// ErrDegenerate indicates numeric degeneracy: zero observed trips on a mode,
	// a zero distribution denominator, or a non-finite beta.
	ErrDegenerate = errors.New("gravity: degenerate input")

	// ErrBetaCount indicates a beta vector whose length differs from the mode count.
	ErrBetaCount = errors.New("gravity: beta count does not match mode count")

	// ErrConstraintCount indicates a constraint vector whose length differs from N.
	ErrConstraintCount = errors.New("gravity: constraint count does not match zone count")

	// ErrNotCalibrated indicates a scenario run before Calibrate or PredictBaseline.
	ErrNotCalibrated = errors.New("gravity: model has no beta values")

	// ErrStaleFork indicates use of a fork whose arena buffers were handed to a newer fork.
	ErrStaleFork = errors.New("gravity: fork no longer owns its arena")

	// ErrInvalidOption indicates an out-of-range option value.
	ErrInvalidOption = errors.New("gravity: invalid option")
)
