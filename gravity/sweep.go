// SPDX-License-Identifier: MIT

package gravity

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/lvquant/matrix"
)

// Range is an inclusive-exclusive beta range [From, To) walked in Step increments.
type Range struct {
	From float64 `yaml:"from" validate:"gt=0"`
	To   float64 `yaml:"to" validate:"gtfield=From"`
	Step float64 `yaml:"step" validate:"gt=0"`
}

// Values enumerates the range. Steps are computed as From + i·Step so that
// rounding does not accumulate.
func (r Range) Values() []float64 {
	if !(r.Step > 0) || !(r.To > r.From) {
		return nil
	}
	n := int(math.Ceil((r.To-r.From)/r.Step - 1e-9))
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, r.From+float64(i)*r.Step)
	}

	return out
}

// SweepRow is one grid point of a beta sweep.
type SweepRow struct {
	Beta      []float64
	ObsTotal  []float64 // Σ TObs[k]
	PredTotal []float64 // Σ TPred[k]
	CBarObs   []float64
	CBarPred  []float64
}

// Sweep evaluates PredictBaseline on the cartesian product of one Range per
// mode and hands each row to emit in lexicographic order (mode 0 outermost).
// It stops at the first error from the model, emit, or ctx.
func Sweep(ctx context.Context, m *Model, grid []Range, emit func(SweepRow) error) error {
	if len(grid) != m.modes {
		return fmt.Errorf("%d ranges for %d modes: %w", len(grid), m.modes, ErrBetaCount)
	}
	axes := make([][]float64, len(grid))
	for k, r := range grid {
		if axes[k] = r.Values(); len(axes[k]) == 0 {
			return fmt.Errorf("mode %d range %+v: %w", k, r, ErrInvalidOption)
		}
	}
	obs := make([]float64, m.modes)
	var err error
	for k := range obs {
		if obs[k], err = matrix.Sum(m.tobs[k]); err != nil {
			return err
		}
	}

	idx := make([]int, m.modes)
	beta := make([]float64, m.modes)
	for {
		if err = ctx.Err(); err != nil {
			return err
		}
		for k := range beta {
			beta[k] = axes[k][idx[k]]
		}
		cal, perr := m.PredictBaseline(beta)
		if perr != nil {
			return perr
		}
		row := SweepRow{
			Beta:      cloneVec(beta),
			ObsTotal:  cloneVec(obs),
			PredTotal: make([]float64, m.modes),
			CBarObs:   cal.CBarObs,
			CBarPred:  cal.CBarPred,
		}
		for k := range row.PredTotal {
			if row.PredTotal[k], err = matrix.Sum(m.pred[k]); err != nil {
				return err
			}
		}
		if err = emit(row); err != nil {
			return err
		}

		// odometer increment, last mode fastest
		k := m.modes - 1
		for ; k >= 0; k-- {
			idx[k]++
			if idx[k] < len(axes[k]) {
				break
			}
			idx[k] = 0
		}
		if k < 0 {
			return nil
		}
	}
}
