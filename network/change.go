// SPDX-License-Identifier: MIT

package network

import (
	"fmt"
	"math"
)

// Mode is a transport mode. Algorithms iterate over len(costs) rather than
// NumModes so additional modes need no kernel changes.
type Mode int

const (
	Road Mode = iota
	Bus
	Rail

	// NumModes is the number of modes the command-line tool loads.
	NumModes = 3
)

var modeNames = [...]string{"road", "bus", "rail"}

// String returns the lower-case mode name, or "mode<N>" for unnamed modes.
func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}

	return fmt.Sprintf("mode%d", int(m))
}

// ParseMode is the inverse of Mode.String for named modes.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}

	return 0, fmt.Errorf("%q: %w", s, ErrInvalidMode)
}

// UnsetSeconds marks a Change whose link time is filled in later.
const UnsetSeconds = -1.0

// Change is one new directed link {mode, origin, destination, link time}.
// Inserting (m,o,d) does not imply (m,d,o); the gravity model applies both
// directions of every supplied link.
type Change struct {
	Mode        Mode
	Origin      int
	Destination int
	Seconds     float64
}

// Minutes converts the link time into cost-matrix units.
func (c Change) Minutes() float64 { return c.Seconds / 60 }

// Reverse returns the same link in the opposite direction.
func (c Change) Reverse() Change {
	c.Origin, c.Destination = c.Destination, c.Origin
	return c
}

// HasTime reports whether Seconds has been set.
func (c Change) HasTime() bool { return c.Seconds != UnsetSeconds }

// Validate checks the change against a model of n zones and numModes modes.
func (c Change) Validate(n, numModes int) error {
	if c.Mode < 0 || int(c.Mode) >= numModes {
		return fmt.Errorf("%v: %w", c, ErrInvalidMode)
	}
	if c.Origin < 0 || c.Origin >= n || c.Destination < 0 || c.Destination >= n {
		return fmt.Errorf("%v (n=%d): %w", c, n, ErrZoneOutOfRange)
	}
	if !c.HasTime() {
		return fmt.Errorf("%v: %w", c, ErrUnsetLinkTime)
	}
	if c.Seconds < 0 || math.IsNaN(c.Seconds) || math.IsInf(c.Seconds, 0) {
		return fmt.Errorf("%v: %w", c, ErrInvalidCost)
	}

	return nil
}

// String renders the change as "mode:origin>destination@seconds".
func (c Change) String() string {
	return fmt.Sprintf("%s:%d>%d@%g", c.Mode, c.Origin, c.Destination, c.Seconds)
}
