// SPDX-License-Identifier: MIT

package gravity

import (
	"fmt"

	"github.com/katalvlaran/lvquant/matrix"
	"github.com/katalvlaran/lvquant/network"
)

// Model is a multi-modal, production-constrained gravity model.
//
// Observed trips, the pristine cost matrices, observed totals and constraint
// flags are read-only after New and shared by every fork. Each model owns its
// working cost, exp(-βC) and prediction buffers.
type Model struct {
	n     int
	modes int
	opts  options

	// shared, read-only
	tobs     []*matrix.Dense
	pristine []*matrix.Dense
	oObs     []float64
	dObs     []float64
	cbarObs  []float64

	// calibration result (replaced, never mutated in place once set)
	beta     []float64
	b        []float64
	cbarPred []float64

	// private working buffers
	cost    []*matrix.Dense
	exp     []*matrix.Dense
	pred    []*matrix.Dense
	patcher *network.Patcher

	arena *Arena
	gen   uint64
}

// New builds a model from per-mode observed trip and cost matrices.
//
// Every matrix must be square with the same order N; trips and costs must be
// finite and non-negative. New takes ownership of cost: the slices become the
// pristine cost set and must not be mutated by the caller afterwards.
//
// Errors: ErrNoModes, ErrShapeMismatch, ErrDegenerate (a mode without observed
// trips or with a zero observed mean cost), ErrInvalidOption, ErrConstraintCount, and matrix validation sentinels.
func New(tobs, cost []*matrix.Dense, opts ...Option) (*Model, error) {
	if len(tobs) == 0 {
		return nil, ErrNoModes
	}
	if len(cost) != len(tobs) {
		return nil, fmt.Errorf("%d trip vs %d cost matrices: %w", len(tobs), len(cost), ErrShapeMismatch)
	}
	if tobs[0] == nil {
		return nil, fmt.Errorf("tobs[0]: %w", matrix.ErrNilMatrix)
	}
	n := tobs[0].Rows()
	if err := matrix.ValidateOrder(n, append(asMatrices(tobs), asMatrices(cost)...)...); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShapeMismatch, err)
	}
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if err := o.validate(n); err != nil {
		return nil, err
	}

	m := &Model{
		n:        n,
		modes:    len(tobs),
		opts:     o,
		tobs:     tobs,
		pristine: cost,
		cbarObs:  make([]float64, len(tobs)),
		patcher:  network.NewPatcher(network.WithWorkers(o.workers), network.WithLogger(o.logger)),
	}
	var err error
	for k := range tobs {
		if err = matrix.ValidateNonNegative(tobs[k]); err != nil {
			return nil, fmt.Errorf("tobs[%d]: %w", k, err)
		}
		if err = matrix.ValidateNonNegative(cost[k]); err != nil {
			return nil, fmt.Errorf("cost[%d]: %w", k, err)
		}
		if m.cbarObs[k], err = CBar(tobs[k], cost[k]); err != nil {
			return nil, fmt.Errorf("mode %v: %w", network.Mode(k), err)
		}
		if m.cbarObs[k] == 0 { // calibration divides by it
			return nil, fmt.Errorf("mode %v: zero observed mean cost: %w", network.Mode(k), ErrDegenerate)
		}
	}
	if m.oObs, err = CalculateOi(tobs...); err != nil {
		return nil, err
	}
	if m.dObs, err = CalculateDj(tobs...); err != nil {
		return nil, err
	}

	return m, nil
}

func asMatrices(ds []*matrix.Dense) []matrix.Matrix {
	out := make([]matrix.Matrix, len(ds))
	for i, d := range ds {
		out[i] = d
	}

	return out
}

// N returns the number of zones.
func (m *Model) N() int { return m.n }

// Modes returns the number of modes.
func (m *Model) Modes() int { return m.modes }

// Beta returns a copy of the current beta values (nil before calibration).
func (m *Model) Beta() []float64 { return cloneVec(m.beta) }

// Balancing returns a copy of the calibrated balancing factors B.
func (m *Model) Balancing() []float64 { return cloneVec(m.b) }

// CBarObs returns the observed mean trip cost per mode.
func (m *Model) CBarObs() []float64 { return cloneVec(m.cbarObs) }

// CBarPred returns the predicted mean trip cost per mode of the last solve.
func (m *Model) CBarPred() []float64 { return cloneVec(m.cbarPred) }

// ObservedTotals returns copies of the observed outflow O and inflow D.
func (m *Model) ObservedTotals() (o, d []float64) { return cloneVec(m.oObs), cloneVec(m.dObs) }

// Observed returns the shared observed trip matrices. Callers must not mutate them.
func (m *Model) Observed() []*matrix.Dense { return m.tobs }

// Predicted returns this model's predicted trip matrices (nil before the first solve).
// The buffers are overwritten by the next solve on the same model.
func (m *Model) Predicted() []*matrix.Dense { return m.pred }

// Costs returns the cost matrices this model currently solves against:
// its private (possibly patched) set, or the pristine set if it has none.
func (m *Model) Costs() []*matrix.Dense {
	if m.cost != nil {
		return m.cost
	}

	return m.pristine
}

// Pristine returns the shared, never-patched cost matrices.
func (m *Model) Pristine() []*matrix.Dense { return m.pristine }

// SetBalancing installs balancing factors, e.g. from a saved calibration.
func (m *Model) SetBalancing(b []float64) error {
	if len(b) != m.n {
		return fmt.Errorf("%d factors for %d zones: %w", len(b), m.n, ErrConstraintCount)
	}
	m.b = cloneVec(b)

	return nil
}

func (m *Model) constrained() bool { return m.opts.constraints != nil }

// ensureBuffers allocates exp and prediction buffers on first use.
func (m *Model) ensureBuffers() error {
	var err error
	if m.exp == nil {
		if m.exp, err = allocSet(m.n, m.modes); err != nil {
			return err
		}
	}
	if m.pred == nil {
		if m.pred, err = allocSet(m.n, m.modes); err != nil {
			return err
		}
	}

	return nil
}

func allocSet(n, modes int) ([]*matrix.Dense, error) {
	out := make([]*matrix.Dense, modes)
	var err error
	for k := range out {
		if out[k], err = matrix.NewSquare(n); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func cloneVec(v []float64) []float64 {
	if v == nil {
		return nil
	}
	out := make([]float64, len(v))
	copy(out, v)

	return out
}

func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}

	return out
}
