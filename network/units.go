// SPDX-License-Identifier: MIT

package network

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvquant/matrix"
)

const secondsPerHour = 3600.0

// LinkSeconds returns the time in seconds to traverse distKM at kmPerHour.
func LinkSeconds(distKM, kmPerHour float64) (float64, error) {
	if kmPerHour <= 0 || math.IsNaN(kmPerHour) || math.IsInf(kmPerHour, 0) {
		return 0, fmt.Errorf("%g km/h: %w", kmPerHour, ErrInvalidSpeed)
	}
	if distKM < 0 || math.IsNaN(distKM) || math.IsInf(distKM, 0) {
		return 0, fmt.Errorf("%g km: %w", distKM, ErrInvalidCost)
	}

	return distKM / kmPerHour * secondsPerHour, nil
}

// LinkSecondsBetween looks up the i→j distance in a km matrix and converts it
// to a traversal time at kmPerHour.
func LinkSecondsBetween(distKM *matrix.Dense, i, j int, kmPerHour float64) (float64, error) {
	if distKM == nil {
		return 0, matrix.ErrNilMatrix
	}
	km, err := distKM.At(i, j)
	if err != nil {
		return 0, fmt.Errorf("LinkSecondsBetween: %w", ErrZoneOutOfRange)
	}

	return LinkSeconds(km, kmPerHour)
}

// WithSpeed fills Seconds on every change from its mode's km matrix.
// Changes that already carry a time are left as they are.
func WithSpeed(changes []Change, distKM []*matrix.Dense, kmPerHour float64) ([]Change, error) {
	out := make([]Change, len(changes))
	for idx, c := range changes {
		if c.HasTime() {
			out[idx] = c
			continue
		}
		if c.Mode < 0 || int(c.Mode) >= len(distKM) {
			return nil, fmt.Errorf("%v: %w", c, ErrInvalidMode)
		}
		secs, err := LinkSecondsBetween(distKM[c.Mode], c.Origin, c.Destination, kmPerHour)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", c, err)
		}
		c.Seconds = secs
		out[idx] = c
	}

	return out, nil
}
