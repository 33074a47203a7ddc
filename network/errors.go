// SPDX-License-Identifier: MIT

package network

import "errors"

// Sentinel errors returned by the network package.
var (
	// ErrInvalidCost indicates a negative, NaN or infinite link cost.
	ErrInvalidCost = errors.New("network: link cost must be finite and non-negative")

	// ErrZoneOutOfRange indicates an origin or destination outside [0, N).
	ErrZoneOutOfRange = errors.New("network: zone index out of range")

	// ErrInvalidMode indicates a mode outside [0, numModes).
	ErrInvalidMode = errors.New("network: invalid mode")

	// ErrUnsetLinkTime indicates a change whose Seconds was never filled in.
	ErrUnsetLinkTime = errors.New("network: link time not set")

	// ErrInvalidSpeed indicates a non-positive or non-finite speed.
	ErrInvalidSpeed = errors.New("network: speed must be finite and > 0")
)
