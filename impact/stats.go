// SPDX-License-Identifier: MIT

package impact

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvquant/matrix"
	"github.com/katalvlaran/lvquant/network"
)

// secondsPerMinute converts cost-matrix minutes to link seconds.
const secondsPerMinute = 60.0

// LinkStats are the direct, per-mode measures of the links a scenario adds.
type LinkStats struct {
	Depth     []int     // links added per mode
	KM        []float64 // summed link length, km
	SavedSecs []float64 // Σ max(baseline·60 − link seconds, 0)
}

// sameModes checks that every set has the same mode count and that all
// matrices are square with one common order, which it returns.
func sameModes(sets ...[]*matrix.Dense) (int, error) {
	if len(sets) == 0 || len(sets[0]) == 0 {
		return 0, ErrModeCount
	}
	modes := len(sets[0])
	all := make([]matrix.Matrix, 0, modes*len(sets))
	for s, set := range sets {
		if len(set) != modes {
			return 0, fmt.Errorf("input %d has %d modes, want %d: %w", s, len(set), modes, ErrModeCount)
		}
		for k, m := range set {
			if m == nil {
				return 0, fmt.Errorf("input %d mode %d: %w", s, k, matrix.ErrNilMatrix)
			}
			all = append(all, m)
		}
	}
	n := sets[0][0].Rows()
	if err := matrix.ValidateOrder(n, all...); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrShapeMismatch, err)
	}

	return n, nil
}

// PopulationCounts returns the trip totals per mode of the baseline (ck1)
// and the scenario (ck2) predictions, and ck2 − ck1.
func PopulationCounts(base, scen []*matrix.Dense) (ck1, ck2, diff []float64, err error) {
	if _, err = sameModes(base, scen); err != nil {
		return nil, nil, nil, err
	}
	ck1 = make([]float64, len(base))
	ck2 = make([]float64, len(base))
	diff = make([]float64, len(base))
	for k := range base {
		if ck1[k], err = matrix.Sum(base[k]); err != nil {
			return nil, nil, nil, err
		}
		if ck2[k], err = matrix.Sum(scen[k]); err != nil {
			return nil, nil, nil, err
		}
		diff[k] = ck2[k] - ck1[k]
	}

	return ck1, ck2, diff, nil
}

// ComputeLk returns the distance travelled per mode: Σ_ij T[k][i,j]·dist[k][i,j].
func ComputeLk(trips, dist []*matrix.Dense) ([]float64, error) {
	if _, err := sameModes(trips, dist); err != nil {
		return nil, err
	}
	lk := make([]float64, len(trips))
	var err error
	for k := range trips {
		if lk[k], err = matrix.SumProduct(trips[k], dist[k]); err != nil {
			return nil, fmt.Errorf("mode %v: %w", network.Mode(k), err)
		}
	}

	return lk, nil
}

// ScenarioLinkStatistics accumulates, per mode, the number of added links,
// their length from dist (km) and the seconds each saves over the baseline
// shortest time (minutes), clipped at zero. A link between zones that had no
// baseline path saves nothing.
func ScenarioLinkStatistics(changes []network.Change, baseCost, dist []*matrix.Dense) (LinkStats, error) {
	n, err := sameModes(baseCost, dist)
	if err != nil {
		return LinkStats{}, err
	}
	modes := len(dist)
	st := LinkStats{
		Depth:     make([]int, modes),
		KM:        make([]float64, modes),
		SavedSecs: make([]float64, modes),
	}
	for _, c := range changes {
		if err = c.Validate(n, modes); err != nil {
			return LinkStats{}, err
		}
		k := int(c.Mode)
		st.Depth[k]++
		st.KM[k] += dist[k].Row(c.Origin)[c.Destination]
		was := baseCost[k].Row(c.Origin)[c.Destination]
		if math.IsInf(was, 1) {
			continue
		}
		st.SavedSecs[k] += math.Max(was*secondsPerMinute-c.Seconds, 0)
	}

	return st, nil
}

// LBar returns, per mode, the mean distance over all ordered pairs of
// distinct zones touched by that mode's changes. Modes touching fewer than
// two zones get 0.
func LBar(changes []network.Change, dist []*matrix.Dense) ([]float64, error) {
	n, err := sameModes(dist)
	if err != nil {
		return nil, err
	}
	touched := make([]ZoneSet, len(dist))
	for k := range touched {
		touched[k] = ZoneSet{}
	}
	for _, c := range changes {
		if c.Mode < 0 || int(c.Mode) >= len(dist) {
			return nil, fmt.Errorf("%v: %w", c, ErrModeCount)
		}
		if c.Origin < 0 || c.Origin >= n || c.Destination < 0 || c.Destination >= n {
			return nil, fmt.Errorf("%v (n=%d): %w", c, n, network.ErrZoneOutOfRange)
		}
		touched[c.Mode].Add(c.Origin, c.Destination)
	}

	out := make([]float64, len(dist))
	for k, set := range touched {
		if set.Len() < 2 {
			continue
		}
		zones := set.Sorted()
		var sum float64
		for _, i := range zones {
			row := dist[k].Row(i)
			for _, j := range zones {
				if i != j {
					sum += row[j]
				}
			}
		}
		out[k] = sum / float64(len(zones)*(len(zones)-1))
	}

	return out, nil
}

// NetworkStatistics compares scenario and baseline shortest times per mode:
// nMinus counts pairs that became strictly faster and saved sums
// max(base − scen, 0) over all pairs, in cost units (minutes).
func NetworkStatistics(baseCost, scenCost []*matrix.Dense) (nMinus []int, saved []float64, err error) {
	if _, err = sameModes(baseCost, scenCost); err != nil {
		return nil, nil, err
	}
	nMinus = make([]int, len(baseCost))
	saved = make([]float64, len(baseCost))
	for k := range baseCost {
		if nMinus[k], err = matrix.CountLess(scenCost[k], baseCost[k]); err != nil {
			return nil, nil, err
		}
		if saved[k], err = matrix.PositiveDiffSum(baseCost[k], scenCost[k]); err != nil {
			return nil, nil, err
		}
	}

	return nMinus, saved, nil
}
