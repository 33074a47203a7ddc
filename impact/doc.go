// SPDX-License-Identifier: MIT

// Package impact compares a scenario prediction with its baseline.
//
// All measures are pure functions of their inputs and are indexed by mode:
//
//	PopulationCounts       Ck1, Ck2, CkDiff (trip totals)
//	ComputeLk              Lk = Σ T∘dist (km travelled)
//	ScenarioLinkStatistics depth, km and seconds saved by the added links
//	LBar                   mean pairwise distance of the zones a mode's links touch
//	NetworkStatistics      nMinus (pairs now faster) and minutes saved network-wide
//
// Compute bundles them into one Statistics record per scenario and
// StatisticsWriter appends those records to a CSV file. Cost matrices are in
// minutes, link times in seconds and distances in km.
package impact
