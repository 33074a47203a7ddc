// SPDX-License-Identifier: MIT

package impact

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/katalvlaran/lvquant/matrix"
	"github.com/katalvlaran/lvquant/network"
)

// ZoneCoder maps a zone index to its area code.
type ZoneCoder interface {
	Code(zone int) string
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// perMode appends one column name per mode: "<name>_road", "<name>_bus", ...
func perMode(dst []string, name string, modes int) []string {
	for k := 0; k < modes; k++ {
		dst = append(dst, name+"_"+network.Mode(k).String())
	}

	return dst
}

func appendFloats(dst []string, vs []float64) []string {
	for _, v := range vs {
		dst = append(dst, formatFloat(v))
	}

	return dst
}

func appendInts(dst []string, vs []int) []string {
	for _, v := range vs {
		dst = append(dst, strconv.Itoa(v))
	}

	return dst
}

// StatisticsWriter writes one CSV row per scenario. Every row carries the
// writer's run id so rows of several runs can be concatenated.
type StatisticsWriter struct {
	w      *csv.Writer
	runID  string
	modes  int
	header bool
}

// NewStatisticsWriter returns a writer for statistics over modes modes.
func NewStatisticsWriter(w io.Writer, modes int) *StatisticsWriter {
	return &StatisticsWriter{w: csv.NewWriter(w), runID: uuid.NewString(), modes: modes}
}

// RunID returns the identifier stamped on every row.
func (sw *StatisticsWriter) RunID() string { return sw.runID }

// Header returns the column names.
// The network-wide saving column keeps its historic savedSecs name; its
// values are in cost-matrix minutes.
func (sw *StatisticsWriter) Header() []string {
	h := []string{"run_id", "scenario"}
	for _, name := range []string{
		"Ck1", "Ck2", "CkDiff", "Lk1", "Lk2", "deltaLk",
		"scenarioLinkDepth", "scenarioLinkKM", "scenarioLinkSavedSecs",
		"LBar", "nMinus", "savedSecs",
	} {
		h = perMode(h, name, sw.modes)
	}

	return append(h, "changes")
}

// Write appends the row of scenario index; the header goes out before the first row.
func (sw *StatisticsWriter) Write(index int, st Statistics) error {
	if len(st.Ck1) != sw.modes {
		return fmt.Errorf("%d modes in statistics, writer has %d: %w", len(st.Ck1), sw.modes, ErrModeCount)
	}
	if !sw.header {
		if err := sw.w.Write(sw.Header()); err != nil {
			return errors.Wrap(err, "Can't write header")
		}
		sw.header = true
	}

	row := make([]string, 0, 3+12*sw.modes)
	row = append(row, sw.runID, strconv.Itoa(index))
	for _, vs := range [][]float64{st.Ck1, st.Ck2, st.CkDiff, st.Lk1, st.Lk2, st.DeltaLk} {
		row = appendFloats(row, vs)
	}
	row = appendInts(row, st.Links.Depth)
	row = appendFloats(row, st.Links.KM)
	row = appendFloats(row, st.Links.SavedSecs)
	row = appendFloats(row, st.LBar)
	row = appendInts(row, st.NMinus)
	row = appendFloats(row, st.SavedMinutes)

	changes := make([]string, len(st.Changes))
	for i, c := range st.Changes {
		changes[i] = c.String()
	}
	row = append(row, strings.Join(changes, " "))

	if err := sw.w.Write(row); err != nil {
		return errors.Wrap(err, "Can't write statistics row")
	}

	return nil
}

// Flush writes buffered rows to the underlying writer.
func (sw *StatisticsWriter) Flush() error {
	sw.w.Flush()

	return errors.Wrap(sw.w.Error(), "Can't flush statistics")
}

// WriteZoneStatistics writes one row per zone with its code and the
// baseline, scenario and difference outflow (Cik) and inflow (Cjk) per mode.
func WriteZoneStatistics(w io.Writer, z ZoneStatistics, codes ZoneCoder) error {
	modes := len(z.Cik1)
	header := []string{"zonei", "zonecode"}
	for _, name := range []string{"Cik1", "Cik2", "CikDiff", "Cjk1", "Cjk2", "CjkDiff"} {
		header = perMode(header, name, modes)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for i := 0; i < z.Zones(); i++ {
		row := make([]string, 0, len(header))
		row = append(row, strconv.Itoa(i), codes.Code(i))
		for _, set := range [][][]float64{z.Cik1, z.Cik2, z.CikDiff, z.Cjk1, z.Cjk2, z.CjkDiff} {
			for k := 0; k < modes; k++ {
				row = append(row, formatFloat(set[k][i]))
			}
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "Can't write zone %d", i)
		}
	}
	cw.Flush()

	return errors.Wrap(cw.Error(), "Can't flush zone statistics")
}

// WriteZoneTotals writes per-zone outflow (Oi) and inflow (Dj) of the given
// trip matrices, per mode and over all modes.
func WriteZoneTotals(w io.Writer, trips []*matrix.Dense) error {
	if _, err := sameModes(trips); err != nil {
		return err
	}
	modes := len(trips)
	oi := make([][]float64, modes)
	dj := make([][]float64, modes)
	var err error
	for k, t := range trips {
		if oi[k], err = matrix.RowSums(t); err != nil {
			return err
		}
		if dj[k], err = matrix.ColSums(t); err != nil {
			return err
		}
	}

	header := perMode([]string{"zonei"}, "Oi", modes)
	header = append(header, "Oi_all")
	header = perMode(header, "Dj", modes)
	header = append(header, "Dj_all")

	cw := csv.NewWriter(w)
	if err = cw.Write(header); err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for i := range oi[0] {
		row := make([]string, 0, len(header))
		row = append(row, strconv.Itoa(i))
		for _, set := range [][][]float64{oi, dj} {
			var all float64
			for k := 0; k < modes; k++ {
				row = append(row, formatFloat(set[k][i]))
				all += set[k][i]
			}
			row = append(row, formatFloat(all))
		}
		if err = cw.Write(row); err != nil {
			return errors.Wrapf(err, "Can't write zone %d", i)
		}
	}
	cw.Flush()

	return errors.Wrap(cw.Error(), "Can't flush zone totals")
}
