// SPDX-License-Identifier: MIT

package gravity

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/lvquant/network"
)

// Calibration is the outcome of Calibrate (or PredictBaseline).
// Converged is false when an iteration cap was reached; the values are then
// the best effort of the last completed pass.
type Calibration struct {
	Beta            []float64 `yaml:"beta"`
	CBarObs         []float64 `yaml:"cbar_obs"`
	CBarPred        []float64 `yaml:"cbar_pred"`
	Balancing       []float64 `yaml:"balancing,flow,omitempty"`
	OuterIterations int       `yaml:"outer_iterations"`
	InnerIterations int       `yaml:"inner_iterations"`
	Converged       bool      `yaml:"converged"`
}

// Calibrate searches per-mode betas that reproduce the observed mean trip
// cost of every mode.
//
// Each outer pass starts from B ≡ 1, caps restricted zones at their observed
// inflow, runs the capacity loop, then rescales β_k by CBarPred/CBarObs for
// every mode whose relative CBar error exceeds the tolerance. The search stops
// when no mode needs rescaling or the outer cap is reached.
//
// On success the model holds the betas, the final B and the matching prediction.
func (m *Model) Calibrate(ctx context.Context) (Calibration, error) {
	if err := m.ensureBuffers(); err != nil {
		return Calibration{}, err
	}
	cost := m.Costs()
	beta := ones(m.modes)
	cbarPred := make([]float64, m.modes)

	var z []float64
	if m.constrained() {
		z = m.capacities(m.dObs)
	}

	cal := Calibration{CBarObs: cloneVec(m.cbarObs)}
	var (
		b         []float64
		iters     int
		balanced  bool
		err       error
		converged bool
	)
	for cal.OuterIterations = 1; ; cal.OuterIterations++ {
		if err = ctx.Err(); err != nil {
			return Calibration{}, err
		}
		if err = m.refreshExp(cost, beta); err != nil {
			return Calibration{}, err
		}
		b = ones(m.n)
		if iters, balanced, err = m.balance(ctx, m.oObs, m.dObs, b, z); err != nil {
			return Calibration{}, err
		}
		cal.InnerIterations += iters

		for k := 0; k < m.modes; k++ {
			if cbarPred[k], err = CBar(m.pred[k], cost[k]); err != nil {
				return Calibration{}, fmt.Errorf("mode %v: %w", network.Mode(k), err)
			}
		}
		m.opts.logger.Info("calibration pass", "iteration", cal.OuterIterations,
			"beta", beta, "cbar_pred", cbarPred, "cbar_obs", m.cbarObs, "balanced", balanced)

		converged = true
		for k := 0; k < m.modes; k++ {
			if math.Abs(cbarPred[k]-m.cbarObs[k])/m.cbarObs[k] > m.opts.tolerance {
				converged = false
			}
		}
		if converged || cal.OuterIterations >= m.opts.maxOuter {
			break
		}
		for k := 0; k < m.modes; k++ {
			if math.Abs(cbarPred[k]-m.cbarObs[k])/m.cbarObs[k] > m.opts.tolerance {
				beta[k] *= cbarPred[k] / m.cbarObs[k]
			}
			if !(beta[k] > 0) || math.IsInf(beta[k], 0) {
				return Calibration{}, fmt.Errorf("mode %v: beta %g: %w", network.Mode(k), beta[k], ErrDegenerate)
			}
		}
	}
	if !converged {
		m.opts.logger.Warn("calibration did not converge", "iterations", cal.OuterIterations, "beta", beta)
	}

	m.beta, m.b, m.cbarPred = beta, b, cbarPred
	cal.Beta = cloneVec(beta)
	cal.CBarPred = cloneVec(cbarPred)
	cal.Balancing = cloneVec(b)
	cal.Converged = converged && balanced

	return cal, nil
}

// PredictBaseline runs one distribution pass with externally supplied betas
// and B ≡ 1 (no capacity loop), and records CBarPred for those betas.
// The model then counts as calibrated with B ≡ 1.
func (m *Model) PredictBaseline(beta []float64) (Calibration, error) {
	if len(beta) != m.modes {
		return Calibration{}, fmt.Errorf("%d betas for %d modes: %w", len(beta), m.modes, ErrBetaCount)
	}
	for k, v := range beta {
		if !(v > 0) || math.IsInf(v, 0) {
			return Calibration{}, fmt.Errorf("mode %v: beta %g: %w", network.Mode(k), v, ErrDegenerate)
		}
	}
	if err := m.ensureBuffers(); err != nil {
		return Calibration{}, err
	}
	cost := m.Costs()
	if err := m.refreshExp(cost, beta); err != nil {
		return Calibration{}, err
	}
	b := ones(m.n)
	if err := m.distribute(context.Background(), m.oObs, m.dObs, b); err != nil {
		return Calibration{}, err
	}
	cbarPred := make([]float64, m.modes)
	var err error
	for k := range cbarPred {
		if cbarPred[k], err = CBar(m.pred[k], cost[k]); err != nil {
			return Calibration{}, fmt.Errorf("mode %v: %w", network.Mode(k), err)
		}
	}
	m.beta, m.b, m.cbarPred = cloneVec(beta), b, cbarPred

	return Calibration{
		Beta:            cloneVec(beta),
		CBarObs:         cloneVec(m.cbarObs),
		CBarPred:        cloneVec(cbarPred),
		InnerIterations: 1,
		Converged:       true,
	}, nil
}

// SaveCalibration writes cal as YAML.
func SaveCalibration(path string, cal Calibration) error {
	raw, err := yaml.Marshal(cal)
	if err != nil {
		return errors.Wrap(err, "Can't encode calibration")
	}

	return errors.Wrap(os.WriteFile(path, raw, 0o644), "Can't write calibration")
}

// LoadCalibration reads a calibration written by SaveCalibration.
func LoadCalibration(path string) (Calibration, error) {
	var cal Calibration
	raw, err := os.ReadFile(path)
	if err != nil {
		return cal, errors.Wrap(err, "Can't read calibration")
	}
	if err = yaml.Unmarshal(raw, &cal); err != nil {
		return cal, errors.Wrap(err, "Can't decode calibration")
	}
	if len(cal.Beta) == 0 {
		return cal, fmt.Errorf("%s: %w", path, ErrBetaCount)
	}

	return cal, nil
}
