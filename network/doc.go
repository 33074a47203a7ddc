// SPDX-License-Identifier: MIT

// Package network edits zone-to-zone shortest-time matrices when new links
// are added to a transport network.
//
// The central kernel, ApplyLinkInsertion, updates an all-pairs shortest-path
// matrix in place after a single directed link is inserted. It runs one
// O(N²) relaxation pass instead of an O(N³) re-solve:
//
//	dis'[i,j] = min(dis[i,j], dis[i,o] + cost + dis[d,j])
//
// A Patcher runs the same pass with rows split across goroutines; results
// are bitwise identical to the sequential pass for any worker count.
//
// Change describes one link {Mode, Origin, Destination, Seconds}. Link times
// are carried in seconds and converted to matrix units (minutes) by
// Change.Minutes. LinkSeconds turns a distance and a speed into a link time.
//
// Errors (sentinel):
//
//	– ErrInvalidCost     negative, NaN or infinite link cost.
//	– ErrZoneOutOfRange  origin or destination outside [0, N).
//	– ErrInvalidMode     mode outside the loaded mode set.
//	– ErrUnsetLinkTime   a generated change whose time was never filled in.
//	– ErrInvalidSpeed    non-positive speed in LinkSeconds.
package network
