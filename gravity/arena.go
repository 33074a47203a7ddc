// SPDX-License-Identifier: MIT

package gravity

import (
	"fmt"

	"github.com/katalvlaran/lvquant/matrix"
)

// Arena owns one set of per-scenario buffers (costs, exp(-βC), predictions)
// and hands them to one fork at a time. Each Fork refills the cost buffers
// from the pristine matrices, so every scenario starts from an unpatched
// network without allocating. A fork created earlier from the same arena
// becomes stale and its ApplyScenario returns ErrStaleFork.
type Arena struct {
	n, modes int
	cost     []*matrix.Dense
	exp      []*matrix.Dense
	pred     []*matrix.Dense
	gen      uint64
}

// NewArena allocates buffers sized for m.
func NewArena(m *Model) (*Arena, error) {
	a := &Arena{n: m.n, modes: m.modes}
	var err error
	if a.cost, err = allocSet(m.n, m.modes); err != nil {
		return nil, err
	}
	if a.exp, err = allocSet(m.n, m.modes); err != nil {
		return nil, err
	}
	if a.pred, err = allocSet(m.n, m.modes); err != nil {
		return nil, err
	}

	return a, nil
}

// Fork returns a model that shares m's read-only state (observed trips,
// totals, constraints, betas, B) and owns the arena's buffers.
func (a *Arena) Fork(m *Model) (*Model, error) {
	if m.n != a.n || m.modes != a.modes {
		return nil, fmt.Errorf("arena %dx%d for model %dx%d: %w", a.modes, a.n, m.modes, m.n, ErrShapeMismatch)
	}
	for k := range a.cost {
		if err := a.cost[k].CopyFrom(m.pristine[k]); err != nil {
			return nil, err
		}
	}
	a.gen++

	f := *m
	f.cost, f.exp, f.pred = a.cost, a.exp, a.pred
	f.arena, f.gen = a, a.gen

	return &f, nil
}

// Fork returns an independent scenario model with freshly allocated buffers.
// Use an Arena to reuse buffers across many scenarios.
func (m *Model) Fork() (*Model, error) {
	a, err := NewArena(m)
	if err != nil {
		return nil, err
	}

	return a.Fork(m)
}
