// SPDX-License-Identifier: MIT

package scenario

import (
	"github.com/katalvlaran/lvquant/matrix"
	"github.com/katalvlaran/lvquant/network"
)

// OneLink enumerates every single-link scenario i→j (i ≠ j) whose distance
// is within a radius, in row-major order.
type OneLink struct {
	mode   network.Mode
	radius float64
	dist   *matrix.Dense
	opts   options
	i, j   int
}

// NewOneLink returns a generator over dist (km) for links of at most radiusKM.
func NewOneLink(mode network.Mode, radiusKM float64, dist *matrix.Dense, opts ...Option) (*OneLink, error) {
	if err := matrix.ValidateSquare(dist); err != nil {
		return nil, err
	}
	if err := checkRadius(radiusKM); err != nil {
		return nil, err
	}
	o, err := gatherOptions(opts)
	if err != nil {
		return nil, err
	}
	s := &OneLink{mode: mode, radius: radiusKM, dist: dist, opts: o}
	s.Reset()

	return s, nil
}

// Reset restarts the enumeration.
func (s *OneLink) Reset() { s.i, s.j = 0, -1 }

// Origin returns the origin of the last scenario.
func (s *OneLink) Origin() int { return s.i }

// Next implements Source.
func (s *OneLink) Next() ([]network.Change, error) {
	n := s.dist.Rows()
	for s.i < n {
		s.j++
		if s.j >= n {
			s.i, s.j = s.i+1, -1
			continue
		}
		if s.i == s.j || s.dist.Row(s.i)[s.j] > s.radius {
			continue
		}
		c, err := s.opts.link(s.mode, s.dist, s.i, s.j)
		if err != nil {
			return nil, err
		}
		return []network.Change{c}, nil
	}

	return nil, nil
}

// CountOneLink returns, per origin zone, how many single-link scenarios
// OneLink yields for that origin at radiusKM.
func CountOneLink(radiusKM float64, dist *matrix.Dense) ([]int, error) {
	if err := matrix.ValidateSquare(dist); err != nil {
		return nil, err
	}
	if err := checkRadius(radiusKM); err != nil {
		return nil, err
	}
	n := dist.Rows()
	counts := make([]int, n)
	for i := 0; i < n; i++ {
		for j, d := range dist.Row(i) {
			if i != j && d <= radiusKM {
				counts[i]++
			}
		}
	}

	return counts, nil
}
