// SPDX-License-Identifier: MIT

package zones

import "errors"

// Sentinel errors returned by the zones package.
var (
	// ErrEmptyTable indicates a zone table without rows.
	ErrEmptyTable = errors.New("zones: empty zone table")

	// ErrMissingColumn indicates a CSV header without a required column.
	ErrMissingColumn = errors.New("zones: missing column")

	// ErrZoneIndex indicates duplicate, negative or non-contiguous zone indices.
	ErrZoneIndex = errors.New("zones: invalid zone index")

	// ErrBadValue indicates a cell that does not parse as the expected number.
	ErrBadValue = errors.New("zones: malformed value")
)
