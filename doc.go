// SPDX-License-Identifier: MIT

// Package lvquant is the root of a multi-modal trip-distribution toolkit:
// a production- and capacity-constrained gravity model that is calibrated
// on observed zone-to-zone trips and then re-solved under network changes.
//
// Packages, leaves first:
//
//	matrix/      dense zone×zone matrices, reductions, Floyd–Warshall
//	matrix/qbin  the little-endian float32 matrix file format
//	network/     modes, link changes, incremental shortest-time patching
//	zones/       zone-code tables, centroids, capacity-constraint flags
//	gravity/     calibration, baseline prediction, scenario re-solve, sweeps
//	impact/      baseline vs. scenario statistics and their CSV writers
//	scenario/    one-link, N-link and GraphML scenario sources
//	config/      YAML settings
//	cmd/lvquant  the command-line driver
//
// A typical run calibrates once, forks the calibrated model per scenario
// and compares each scenario's prediction with the baseline:
//
//	m, _ := gravity.New(trips, costs)
//	_, _ = m.Calibrate(ctx)
//	base, _ := m.Fork()
//	_, _ = base.ApplyScenario(ctx, gravity.Scenario{}, false)
//	arena, _ := gravity.NewArena(m)
//	for changes, _ := src.Next(); len(changes) > 0; changes, _ = src.Next() {
//		f, _ := arena.Fork(m)
//		_, _ = f.ApplyScenario(ctx, gravity.Scenario{Changes: changes}, false)
//		st, _ := impact.Compute(impact.Take(base), impact.Take(f), km, changes)
//		_ = st
//	}
package lvquant
