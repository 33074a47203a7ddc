// SPDX-License-Identifier: MIT

package scenario

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvquant/matrix"
	"github.com/katalvlaran/lvquant/network"
)

// Source yields one scenario per call. An empty slice with a nil error
// means the source is exhausted.
type Source interface {
	Next() ([]network.Change, error)
}

// Option configures a generated source.
type Option func(*options)

type options struct {
	speedKMH float64
}

// WithSpeed fills the link time of generated changes as the time to cover
// the link distance at kmh. Without it, changes carry network.UnsetSeconds.
func WithSpeed(kmh float64) Option {
	return func(o *options) { o.speedKMH = kmh }
}

func gatherOptions(opts []Option) (options, error) {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	if o.speedKMH != 0 {
		if _, err := network.LinkSeconds(0, o.speedKMH); err != nil {
			return o, err
		}
	}

	return o, nil
}

// link builds the i→j change, timed when a speed is configured.
func (o options) link(mode network.Mode, dist *matrix.Dense, i, j int) (network.Change, error) {
	c := network.Change{Mode: mode, Origin: i, Destination: j, Seconds: network.UnsetSeconds}
	if o.speedKMH == 0 {
		return c, nil
	}
	secs, err := network.LinkSecondsBetween(dist, i, j, o.speedKMH)
	if err != nil {
		return network.Change{}, fmt.Errorf("%v: %w", c, err)
	}
	c.Seconds = secs

	return c, nil
}

func checkRadius(radiusKM float64) error {
	if radiusKM < 0 || math.IsNaN(radiusKM) {
		return fmt.Errorf("%g km: %w", radiusKM, ErrInvalidRadius)
	}

	return nil
}

// Static yields a fixed change list once.
type Static struct {
	changes []network.Change
	done    bool
}

// NewStatic returns a source that yields changes on the first call only.
func NewStatic(changes []network.Change) *Static {
	return &Static{changes: changes}
}

// Next implements Source.
func (s *Static) Next() ([]network.Change, error) {
	if s.done || len(s.changes) == 0 {
		return nil, nil
	}
	s.done = true
	out := make([]network.Change, len(s.changes))
	copy(out, s.changes)

	return out, nil
}
