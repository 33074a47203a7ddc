// SPDX-License-Identifier: MIT

package zones

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
	"github.com/pkg/errors"

	"github.com/katalvlaran/lvquant/matrix"
)

// Zone is one model zone and its centroid.
type Zone struct {
	Index int
	Code  string
	Point orb.Point // lon, lat
}

// Table maps zone indices to area codes and centroids.
// Indices are contiguous from 0, so Table.Len equals the model order N.
type Table struct {
	zones  []Zone
	byCode map[string]int
}

// NewTable builds a table from zones given in any order.
// Errors: ErrEmptyTable, ErrZoneIndex (duplicate or missing index).
func NewTable(zs []Zone) (*Table, error) {
	if len(zs) == 0 {
		return nil, ErrEmptyTable
	}
	sorted := make([]Zone, len(zs))
	copy(sorted, zs)
	sort.Slice(sorted, func(a, b int) bool { return sorted[a].Index < sorted[b].Index })

	t := &Table{zones: sorted, byCode: make(map[string]int, len(sorted))}
	for i, z := range sorted {
		if z.Index != i {
			return nil, fmt.Errorf("zone %d at position %d: %w", z.Index, i, ErrZoneIndex)
		}
		t.byCode[z.Code] = i
	}

	return t, nil
}

// header returns a case-insensitive column lookup over the first CSV row.
func header(head []string) func(col string) int {
	return func(col string) int {
		for i, h := range head {
			if strings.EqualFold(strings.TrimSpace(h), col) {
				return i
			}
		}
		return -1
	}
}

// ReadCSV reads a zone-code table with at least the columns zonei, areakey,
// lat and lon. Other columns are ignored.
func ReadCSV(r io.Reader) (*Table, error) {
	rec, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "Can't read zone codes")
	}
	if len(rec) < 2 {
		return nil, ErrEmptyTable
	}
	idx := header(rec[0])
	cols := map[string]int{}
	for _, name := range []string{"zonei", "areakey", "lat", "lon"} {
		if cols[name] = idx(name); cols[name] < 0 {
			return nil, fmt.Errorf("%q: %w", name, ErrMissingColumn)
		}
	}

	zs := make([]Zone, 0, len(rec)-1)
	for line, row := range rec[1:] {
		var (
			z        Zone
			lat, lon float64
		)
		if z.Index, err = strconv.Atoi(strings.TrimSpace(row[cols["zonei"]])); err != nil {
			return nil, fmt.Errorf("line %d zonei %q: %w", line+2, row[cols["zonei"]], ErrBadValue)
		}
		if lat, err = strconv.ParseFloat(strings.TrimSpace(row[cols["lat"]]), 64); err != nil {
			return nil, fmt.Errorf("line %d lat %q: %w", line+2, row[cols["lat"]], ErrBadValue)
		}
		if lon, err = strconv.ParseFloat(strings.TrimSpace(row[cols["lon"]]), 64); err != nil {
			return nil, fmt.Errorf("line %d lon %q: %w", line+2, row[cols["lon"]], ErrBadValue)
		}
		z.Code = row[cols["areakey"]]
		z.Point = orb.Point{lon, lat}
		zs = append(zs, z)
	}

	return NewTable(zs)
}

// LoadCSV reads a zone-code table from a file.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "File open")
	}
	defer f.Close()

	return ReadCSV(f)
}

// Len returns the number of zones.
func (t *Table) Len() int { return len(t.zones) }

// ByIndex returns zone i.
func (t *Table) ByIndex(i int) (Zone, error) {
	if i < 0 || i >= len(t.zones) {
		return Zone{}, fmt.Errorf("zone %d of %d: %w", i, len(t.zones), ErrZoneIndex)
	}

	return t.zones[i], nil
}

// Code returns the area code of zone i, or "" if i is out of range.
func (t *Table) Code(i int) string {
	if i < 0 || i >= len(t.zones) {
		return ""
	}

	return t.zones[i].Code
}

// Index returns the zone index of an area code.
func (t *Table) Index(code string) (int, bool) {
	i, ok := t.byCode[code]
	return i, ok
}

// Nearest returns the index of the zone whose centroid is closest to p,
// measured as plain Euclidean distance on lon/lat. Ties go to the lower index.
func (t *Table) Nearest(p orb.Point) int {
	best, bestD2 := 0, planar.DistanceSquared(p, t.zones[0].Point)
	for i := 1; i < len(t.zones); i++ {
		if d2 := planar.DistanceSquared(p, t.zones[i].Point); d2 < bestD2 {
			best, bestD2 = i, d2
		}
	}

	return best
}

// CrowflyKM returns the N×N great-circle (haversine) distances in km
// between zone centroids.
func (t *Table) CrowflyKM() (*matrix.Dense, error) {
	n := len(t.zones)
	d, err := matrix.NewSquare(n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		row := d.Row(i)
		for j := 0; j < n; j++ {
			if i != j {
				row[j] = geo.DistanceHaversine(t.zones[i].Point, t.zones[j].Point) / 1000
			}
		}
	}

	return d, nil
}
