// SPDX-License-Identifier: MIT

package impact

import "sort"

// ZoneSet is a set of zone indices.
type ZoneSet map[int]struct{}

// Add inserts zones into the set.
func (s ZoneSet) Add(zones ...int) {
	for _, z := range zones {
		s[z] = struct{}{}
	}
}

// Has reports whether z is in the set.
func (s ZoneSet) Has(z int) bool {
	_, ok := s[z]
	return ok
}

// Len returns the number of distinct zones.
func (s ZoneSet) Len() int { return len(s) }

// Sorted returns the zones in ascending order.
func (s ZoneSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for z := range s {
		out = append(out, z)
	}
	sort.Ints(out)

	return out
}
