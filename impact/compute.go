// SPDX-License-Identifier: MIT

package impact

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/lvquant/matrix"
	"github.com/katalvlaran/lvquant/network"
)

// Solved is a model that has produced a prediction.
// *gravity.Model satisfies it.
type Solved interface {
	Predicted() []*matrix.Dense
	Costs() []*matrix.Dense
}

// Snapshot is the solved state of one run: predicted trips and the shortest
// times (minutes) they were predicted on. It references the model's buffers,
// so it is valid until that model solves again.
type Snapshot struct {
	Pred []*matrix.Dense
	Cost []*matrix.Dense
}

// Take captures the current state of a solved model.
func Take(s Solved) Snapshot {
	return Snapshot{Pred: s.Predicted(), Cost: s.Costs()}
}

// Statistics is the flat per-scenario record written by StatisticsWriter.
// Every slice is indexed by mode.
type Statistics struct {
	Ck1    []float64 // baseline trips
	Ck2    []float64 // scenario trips
	CkDiff []float64

	Lk1     []float64 // baseline distance travelled, km
	Lk2     []float64 // scenario distance travelled, km
	DeltaLk []float64

	Links LinkStats
	LBar  []float64 // km

	NMinus       []int
	SavedMinutes []float64 // network-wide Σ max(base − scen, 0)

	Changes []network.Change
}

// Compute evaluates every impact measure of scen against base.
// dist holds the per-mode distance matrices (km); changes are the links the
// scenario added.
func Compute(base, scen Snapshot, dist []*matrix.Dense, changes []network.Change) (Statistics, error) {
	if _, err := sameModes(base.Pred, base.Cost, scen.Pred, scen.Cost, dist); err != nil {
		return Statistics{}, err
	}
	var (
		st  = Statistics{Changes: changes}
		err error
	)
	if st.Ck1, st.Ck2, st.CkDiff, err = PopulationCounts(base.Pred, scen.Pred); err != nil {
		return Statistics{}, fmt.Errorf("population counts: %w", err)
	}
	if st.Lk1, err = ComputeLk(base.Pred, dist); err != nil {
		return Statistics{}, fmt.Errorf("baseline distance: %w", err)
	}
	if st.Lk2, err = ComputeLk(scen.Pred, dist); err != nil {
		return Statistics{}, fmt.Errorf("scenario distance: %w", err)
	}
	st.DeltaLk = floats.SubTo(make([]float64, len(st.Lk1)), st.Lk2, st.Lk1)
	if st.Links, err = ScenarioLinkStatistics(changes, base.Cost, dist); err != nil {
		return Statistics{}, fmt.Errorf("link statistics: %w", err)
	}
	if st.LBar, err = LBar(changes, dist); err != nil {
		return Statistics{}, fmt.Errorf("lbar: %w", err)
	}
	if st.NMinus, st.SavedMinutes, err = NetworkStatistics(base.Cost, scen.Cost); err != nil {
		return Statistics{}, fmt.Errorf("network statistics: %w", err)
	}

	return st, nil
}

// ZoneStatistics holds per-zone trip totals, indexed [mode][zone].
// Cik is the outflow of origin i, Cjk the inflow of destination j.
type ZoneStatistics struct {
	Cik1, Cik2, CikDiff [][]float64
	Cjk1, Cjk2, CjkDiff [][]float64
}

// Zones returns the number of zones covered.
func (z ZoneStatistics) Zones() int {
	if len(z.Cik1) == 0 {
		return 0
	}

	return len(z.Cik1[0])
}

// ComputeZones returns per-zone outflow and inflow of both predictions.
func ComputeZones(base, scen Snapshot) (ZoneStatistics, error) {
	if _, err := sameModes(base.Pred, scen.Pred); err != nil {
		return ZoneStatistics{}, err
	}
	modes := len(base.Pred)
	z := ZoneStatistics{
		Cik1: make([][]float64, modes), Cik2: make([][]float64, modes), CikDiff: make([][]float64, modes),
		Cjk1: make([][]float64, modes), Cjk2: make([][]float64, modes), CjkDiff: make([][]float64, modes),
	}
	var err error
	for k := 0; k < modes; k++ {
		if z.Cik1[k], err = matrix.RowSums(base.Pred[k]); err != nil {
			return ZoneStatistics{}, err
		}
		if z.Cik2[k], err = matrix.RowSums(scen.Pred[k]); err != nil {
			return ZoneStatistics{}, err
		}
		if z.Cjk1[k], err = matrix.ColSums(base.Pred[k]); err != nil {
			return ZoneStatistics{}, err
		}
		if z.Cjk2[k], err = matrix.ColSums(scen.Pred[k]); err != nil {
			return ZoneStatistics{}, err
		}
		z.CikDiff[k] = floats.SubTo(make([]float64, len(z.Cik2[k])), z.Cik2[k], z.Cik1[k])
		z.CjkDiff[k] = floats.SubTo(make([]float64, len(z.Cjk2[k])), z.Cjk2[k], z.Cjk1[k])
	}

	return z, nil
}
