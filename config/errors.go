// SPDX-License-Identifier: MIT

package config

import "errors"

var (
	// ErrMissingConstraints indicates model.use_constraints without a tables.constraints file.
	ErrMissingConstraints = errors.New("config: use_constraints needs tables.constraints")

	// ErrMissingZoneCodes indicates a mode without a km file and no tables.zone_codes to derive it from.
	ErrMissingZoneCodes = errors.New("config: km fallback needs tables.zone_codes")

	// ErrSweepModes indicates a sweep grid whose length differs from the mode count.
	ErrSweepModes = errors.New("config: one sweep range per mode required")
)
