// SPDX-License-Identifier: MIT

package scenario

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/lvquant/matrix"
	"github.com/katalvlaran/lvquant/network"
)

// NLink generates random chains of links: a random origin, then up to Links
// hops, each to a random zone within the radius of the current one. A hop
// never returns to the zone it just left and never loops onto itself.
type NLink struct {
	mode   network.Mode
	links  int
	radius float64
	dist   *matrix.Dense
	rng    *rand.Rand
	opts   options

	origins []int // zones with at least one neighbour in range
	cand    []int
}

// NewNLink returns a chain generator. rng drives every choice; pass a
// seeded source for reproducible runs.
func NewNLink(mode network.Mode, links int, radiusKM float64, dist *matrix.Dense, rng *rand.Rand, opts ...Option) (*NLink, error) {
	if links < 1 {
		return nil, fmt.Errorf("%d links: %w", links, ErrInvalidLinkCount)
	}
	counts, err := CountOneLink(radiusKM, dist)
	if err != nil {
		return nil, err
	}
	o, err := gatherOptions(opts)
	if err != nil {
		return nil, err
	}
	s := &NLink{mode: mode, links: links, radius: radiusKM, dist: dist, rng: rng, opts: o}
	for i, c := range counts {
		if c > 0 {
			s.origins = append(s.origins, i)
		}
	}

	return s, nil
}

// Next implements Source. It is exhausted only when no zone has a
// neighbour within the radius.
func (s *NLink) Next() ([]network.Change, error) {
	if len(s.origins) == 0 {
		return nil, nil
	}
	out := make([]network.Change, 0, s.links)
	back := -1
	i := s.origins[s.rng.Intn(len(s.origins))]
	for hop := 0; hop < s.links; hop++ {
		s.cand = s.cand[:0]
		for j, d := range s.dist.Row(i) {
			if j != i && j != back && d <= s.radius {
				s.cand = append(s.cand, j)
			}
		}
		if len(s.cand) == 0 {
			break
		}
		j := s.cand[s.rng.Intn(len(s.cand))]
		c, err := s.opts.link(s.mode, s.dist, i, j)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
		back, i = i, j
	}

	return out, nil
}
