// SPDX-License-Identifier: MIT

package zones

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ReadConstraints reads per-zone capacity flags for n zones. The CSV needs a
// zonei column; the flag is taken from the column named constraint, or from
// the second column when there is none. A value ≥ 1 restricts the zone.
// Zones not listed are unrestricted.
func ReadConstraints(r io.Reader, n int) ([]bool, error) {
	rec, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "Can't read constraints")
	}
	if len(rec) == 0 {
		return nil, ErrEmptyTable
	}
	idx := header(rec[0])
	zi, ci := idx("zonei"), idx("constraint")
	if zi < 0 {
		return nil, fmt.Errorf("%q: %w", "zonei", ErrMissingColumn)
	}
	if ci < 0 {
		if len(rec[0]) < 2 {
			return nil, fmt.Errorf("%q: %w", "constraint", ErrMissingColumn)
		}
		ci = 1
		if zi == 1 {
			ci = 0
		}
	}

	flags := make([]bool, n)
	for line, row := range rec[1:] {
		z, err := strconv.Atoi(strings.TrimSpace(row[zi]))
		if err != nil {
			return nil, fmt.Errorf("line %d zonei %q: %w", line+2, row[zi], ErrBadValue)
		}
		if z < 0 || z >= n {
			return nil, fmt.Errorf("line %d zone %d of %d: %w", line+2, z, n, ErrZoneIndex)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[ci]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d constraint %q: %w", line+2, row[ci], ErrBadValue)
		}
		flags[z] = v >= 1
	}

	return flags, nil
}

// LoadConstraints reads capacity flags from a file.
func LoadConstraints(path string, n int) ([]bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "File open")
	}
	defer f.Close()

	return ReadConstraints(f, n)
}
