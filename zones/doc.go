// SPDX-License-Identifier: MIT

// Package zones loads the zone-code table that ties model zone indices to
// area codes and centroids, and the per-zone capacity constraint flags.
//
// Centroids are orb.Point values (lon, lat). Nearest snaps an arbitrary
// location to a zone with planar distance on lon/lat; CrowflyKM builds a
// great-circle distance matrix for zones without a network distance file.
package zones
