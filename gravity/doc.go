// SPDX-License-Identifier: MIT

// Package gravity implements a multi-modal, production-constrained gravity
// model with optional destination capacity constraints.
//
// For modes k, origins i and destinations j the predicted flows are
//
//	T[k][i,j] = O[i]·B[j]·D[j]·exp(-β_k·C[k][i,j]) / Σ_kk Σ_j D[j]·exp(-β_kk·C[kk][i,j])
//
// where O and D are the observed outflow and inflow totals over all modes,
// C[k] is the shortest-time cost matrix of mode k and B is the vector of
// balancing factors (B ≡ 1 for unconstrained zones).
//
// Lifecycle:
//
//	m, _ := gravity.New(tobs, costs, gravity.WithConstraints(flags))
//	cal, _ := m.Calibrate(ctx)            // or m.PredictBaseline(betas)
//	f, _ := m.Fork()                      // private cost and prediction buffers
//	res, _ := f.ApplyScenario(ctx, sc, true)
//
// Calibrate rescales β_k by CBarPred/CBarObs until the predicted mean trip
// cost of every mode is within the relative tolerance of the observed one.
// Restricted zones are kept at or below their cap (plus a small slack) by
// scaling B down inside every pass.
//
// Forks share the observed matrices, totals and betas of their parent and
// never patch the pristine costs, so many scenarios can be solved from one
// calibrated model. An Arena reuses one set of buffers across sequential
// forks; Sweep evaluates a grid of betas without calibrating.
//
// Iteration caps are reported through Converged=false and a warning on the
// configured slog.Logger, never as an error.
package gravity
