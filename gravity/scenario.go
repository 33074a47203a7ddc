// SPDX-License-Identifier: MIT

package gravity

import (
	"context"
	"fmt"

	"github.com/katalvlaran/lvquant/matrix"
	"github.com/katalvlaran/lvquant/network"
)

// NoOverride leaves an observed total unchanged in an Override.
const NoOverride = -1.0

// Override replaces the observed outflow (O) and/or inflow (D) of one zone.
// A negative value keeps the observed total.
type Override struct {
	O float64
	D float64
}

// Scenario is one set of network and demand changes.
type Scenario struct {
	Changes   []network.Change
	Overrides map[int]Override
}

// ScenarioResult summarizes a scenario solve. The predicted matrices are
// available from Model.Predicted until the next solve on the same model.
type ScenarioResult struct {
	// PatchedPairs counts improved zone pairs per mode (both link directions).
	PatchedPairs []int
	// SavedMinutes sums the shortest-time reductions per mode, in minutes.
	SavedMinutes    []float64
	InnerIterations int
	Converged       bool
}

// ApplyScenario patches this model's private cost matrices with sc.Changes,
// applies the O/D overrides and re-solves the distribution with the
// calibrated betas.
//
// Steps:
//  1. Every change lowers C[o,d] and C[d,o] to the link time and is then
//     relaxed in both directions through the incremental shortest-path
//     patcher (seconds are converted to minutes).
//  2. If useConstraints is set and the model has constraint flags, restricted
//     zones are capped according to the configured Anchor.
//  3. Overrides replace O[i]/D[i] (negative values keep the observed total).
//  4. The capacity loop runs from the calibrated B.
//
// The model must have betas (Calibrate or PredictBaseline). Every call first
// refills the private costs from the pristine set, so scenarios never stack
// and the pristine matrices are never patched.
func (m *Model) ApplyScenario(ctx context.Context, sc Scenario, useConstraints bool) (ScenarioResult, error) {
	if m.beta == nil {
		return ScenarioResult{}, ErrNotCalibrated
	}
	if m.arena != nil && m.arena.gen != m.gen {
		return ScenarioResult{}, ErrStaleFork
	}
	for _, c := range sc.Changes {
		if err := c.Validate(m.n, m.modes); err != nil {
			return ScenarioResult{}, err
		}
	}
	for zone := range sc.Overrides {
		if zone < 0 || zone >= m.n {
			return ScenarioResult{}, fmt.Errorf("override zone %d: %w", zone, network.ErrZoneOutOfRange)
		}
	}
	if err := m.ensureBuffers(); err != nil {
		return ScenarioResult{}, err
	}
	if err := m.resetCosts(); err != nil {
		return ScenarioResult{}, err
	}

	b := cloneVec(m.b)
	if b == nil {
		b = ones(m.n)
	}
	constrained := useConstraints && m.constrained()
	var (
		z   []float64
		err error
	)
	if constrained && m.opts.anchor == AnchorPreChange {
		if z, err = m.provisionalCaps(ctx, b); err != nil {
			return ScenarioResult{}, err
		}
	}

	res := ScenarioResult{
		PatchedPairs: make([]int, m.modes),
		SavedMinutes: make([]float64, m.modes),
	}
	for _, c := range sc.Changes {
		p, perr := m.patcher.ApplyChange(ctx, m.cost, c)
		if perr != nil {
			return ScenarioResult{}, perr
		}
		res.PatchedPairs[c.Mode] += p.Improved
		res.SavedMinutes[c.Mode] += p.Saved
	}
	m.opts.logger.Debug("network changes applied", "changes", len(sc.Changes), "patched", res.PatchedPairs)

	if constrained {
		switch m.opts.anchor {
		case AnchorPostChange:
			z, err = m.provisionalCaps(ctx, b)
		case AnchorObserved:
			z = m.capacities(m.dObs)
		}
		if err != nil {
			return ScenarioResult{}, err
		}
	}

	o, d := cloneVec(m.oObs), cloneVec(m.dObs)
	for zone, ov := range sc.Overrides {
		if ov.O >= 0 {
			o[zone] = ov.O
		}
		if ov.D >= 0 {
			d[zone] = ov.D
		}
	}

	if err = m.refreshExp(m.cost, m.beta); err != nil {
		return ScenarioResult{}, err
	}
	res.InnerIterations, res.Converged, err = m.balance(ctx, o, d, b, z)
	if err != nil {
		return ScenarioResult{}, err
	}

	return res, nil
}

// resetCosts copies the pristine costs into the private set, allocating it
// on first use.
func (m *Model) resetCosts() error {
	if m.cost == nil {
		m.cost = make([]*matrix.Dense, m.modes)
		for k, c := range m.pristine {
			m.cost[k] = c.Clone()
		}
		return nil
	}
	for k, c := range m.pristine {
		if err := m.cost[k].CopyFrom(c); err != nil {
			return err
		}
	}

	return nil
}

// provisionalCaps predicts on the current costs with observed totals and the
// given B, and returns the resulting inflow as caps for restricted zones.
func (m *Model) provisionalCaps(ctx context.Context, b []float64) ([]float64, error) {
	if err := m.refreshExp(m.Costs(), m.beta); err != nil {
		return nil, err
	}
	if err := m.distribute(ctx, m.oObs, m.dObs, b); err != nil {
		return nil, err
	}
	dCons, err := m.predictedInflow()
	if err != nil {
		return nil, err
	}

	return m.capacities(dCons), nil
}
