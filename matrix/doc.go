// SPDX-License-Identifier: MIT

// Package matrix provides the dense zone×zone container shared by every stage
// of the model: observed and predicted trip matrices, travel cost (time)
// matrices and distance matrices.
//
// The package provides:
//
//   - Dense, a row-major float64 buffer with bounds-safe At/Set, no-copy Row
//     access for hot kernels and allocation-free CopyFrom for per-scenario buffers.
//   - Reductions used by calibration and impact statistics: Sum, SumProduct
//     (elementwise product, then full sum), RowSums, ColSums, CountLess,
//     PositiveDiffSum and AllClose.
//   - FloydWarshall, the full O(n³) all-pairs shortest-path solve used to build
//     shortest-time matrices that the network package later patches in place.
//   - Centralized validators (nil, square, same shape, common order).
//
// Numeric policy: matrices reject NaN and ±Inf on Set/Fill/Apply by default.
// Distance-policy matrices may opt into +Inf as "no path" via WithAllowInfDistances.
//
// Wire format readers/writers for the binary matrix layout live in matrix/qbin.
package matrix
