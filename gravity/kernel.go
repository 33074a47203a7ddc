// SPDX-License-Identifier: MIT

package gravity

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/lvquant/matrix"
)

// CalculateOi returns the per-origin outflow summed over every given trip matrix.
func CalculateOi(trips ...*matrix.Dense) ([]float64, error) {
	return sumVectors(matrix.RowSums, trips)
}

// CalculateDj returns the per-destination inflow summed over every given trip matrix.
func CalculateDj(trips ...*matrix.Dense) ([]float64, error) {
	return sumVectors(matrix.ColSums, trips)
}

func sumVectors(reduce func(*matrix.Dense) ([]float64, error), trips []*matrix.Dense) ([]float64, error) {
	if len(trips) == 0 {
		return nil, ErrNoModes
	}
	var out []float64
	for k, t := range trips {
		v, err := reduce(t)
		if err != nil {
			return nil, fmt.Errorf("mode %d: %w", k, err)
		}
		if out == nil {
			out = v
			continue
		}
		if len(v) != len(out) {
			return nil, fmt.Errorf("mode %d: %w", k, ErrShapeMismatch)
		}
		floats.Add(out, v)
	}

	return out, nil
}

// CBar returns the trip-weighted mean cost Σ(T∘C) / ΣT.
// Errors: ErrDegenerate when ΣT is zero; matrix sentinels on shape problems.
func CBar(trips, cost *matrix.Dense) (float64, error) {
	num, err := matrix.SumProduct(trips, cost)
	if err != nil {
		return 0, err
	}
	den, err := matrix.Sum(trips)
	if err != nil {
		return 0, err
	}
	if den == 0 {
		return 0, fmt.Errorf("CBar: zero trip total: %w", ErrDegenerate)
	}

	return num / den, nil
}

// refreshExp writes exp(-β_k·C_k) for every mode into m.exp.
func (m *Model) refreshExp(cost []*matrix.Dense, beta []float64) error {
	for k := 0; k < m.modes; k++ {
		if err := matrix.ExpScaled(m.exp[k], cost[k], beta[k]); err != nil {
			return fmt.Errorf("mode %d: %w", k, err)
		}
	}

	return nil
}

// distribute fills m.pred from m.exp:
//
//	T[k][i,j] = O[i]·B[j]·D[j]·E[k][i,j] / Σ_kk Σ_j D[j]·E[kk][i,j]
//
// B appears in the numerator only. Rows are independent and split across
// workers; each row sums its denominator in a fixed order, so the output does
// not depend on the worker count.
func (m *Model) distribute(ctx context.Context, o, d, b []float64) error {
	n := m.n
	workers := min(m.opts.workers, n)

	row := func(i int) error {
		var den float64
		var k int
		for k = 0; k < m.modes; k++ {
			den += floats.Dot(d, m.exp[k].Row(i))
		}
		if den == 0 || math.IsNaN(den) || math.IsInf(den, 0) {
			return fmt.Errorf("origin %d: denominator %g: %w", i, den, ErrDegenerate)
		}
		scale := o[i] / den
		var (
			j      int
			out, e []float64
		)
		for k = 0; k < m.modes; k++ {
			out, e = m.pred[k].Row(i), m.exp[k].Row(i)
			for j = 0; j < n; j++ {
				out[j] = scale * b[j] * d[j] * e[j]
			}
		}

		return nil
	}

	if workers <= 1 {
		for i := 0; i < n; i++ {
			if i&255 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			if err := row(i); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	chunk := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += chunk {
		lo, hi := lo, min(lo+chunk, n)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if i&255 == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				if err := row(i); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return g.Wait()
}

// predictedInflow returns Σ_k colsum(pred[k]).
func (m *Model) predictedInflow() ([]float64, error) {
	return CalculateDj(m.pred...)
}

// capacities returns Z: +Inf for unrestricted zones, anchor[j] for restricted ones.
func (m *Model) capacities(anchor []float64) []float64 {
	z := make([]float64, m.n)
	for j := range z {
		if m.opts.constraints[j] {
			z[j] = anchor[j]
		} else {
			z[j] = math.Inf(1)
		}
	}

	return z
}

// balance runs the capacity-constraint loop: distribute, then scale B[j] down
// by Z[j]/D_pred[j] for every restricted zone whose predicted inflow exceeds
// Z[j] by more than the slack, until no zone violates its cap or the inner
// cap is reached. With z == nil one distribution pass is run.
// b is updated in place; on return m.pred is consistent with b.
func (m *Model) balance(ctx context.Context, o, d, b, z []float64) (iters int, converged bool, err error) {
	var dp []float64
	for iters = 1; ; iters++ {
		if err = m.distribute(ctx, o, d, b); err != nil {
			return iters, false, err
		}
		if z == nil {
			return iters, true, nil
		}
		if dp, err = m.predictedInflow(); err != nil {
			return iters, false, err
		}
		violated := 0
		for j := range z {
			if dp[j]-z[j] > m.opts.slack {
				violated++
			}
		}
		if violated == 0 {
			return iters, true, nil
		}
		if iters >= m.opts.maxInner {
			m.opts.logger.Warn("capacity constraints not met", "iterations", iters, "violated", violated)
			return iters, false, nil
		}
		for j := range z {
			if dp[j]-z[j] > m.opts.slack {
				b[j] *= z[j] / dp[j]
			}
		}
		m.opts.logger.Debug("capacity constraints violated", "iteration", iters, "zones", violated)
	}
}
