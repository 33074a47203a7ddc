// SPDX-License-Identifier: MIT

// Package scenario generates the network changes that a scenario run
// applies on top of the calibrated baseline.
//
// A Source yields one []network.Change per call and an empty slice once it
// is exhausted:
//
//   - OneLink walks every single link i→j within a radius, row by row.
//   - NLink draws random chains of links within a radius, without end.
//   - Static yields a fixed list once; LoadGraphML builds one from a
//     GraphML network whose nodes snap to the nearest zone.
//
// Generated links are untimed (network.UnsetSeconds) unless WithSpeed is
// given, in which case the link time follows from distance and speed.
package scenario
