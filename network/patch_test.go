// SPDX-License-Identifier: MIT

package network_test

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/lvquant/matrix"
	"github.com/katalvlaran/lvquant/network"
)

// PatchSuite exercises link insertion on solved shortest-time matrices.
type PatchSuite struct {
	suite.Suite
	rng *rand.Rand
}

func (s *PatchSuite) SetupTest() {
	s.rng = rand.New(rand.NewSource(7))
}

// threeZones is the fully connected 3-zone fixture with 10-minute links.
func (s *PatchSuite) threeZones() *matrix.Dense {
	m, err := matrix.FromRows([][]float64{{0, 10, 10}, {10, 0, 10}, {10, 10, 0}})
	require.NoError(s.T(), err)

	return m
}

// randomNetwork returns (links, apsp) for a sparse random network with
// integer link times, so sums are exact and re-solves compare with ==.
func (s *PatchSuite) randomNetwork(n int) (*matrix.Dense, *matrix.Dense) {
	links, err := matrix.NewPreparedDense(n, n, matrix.WithAllowInfDistances())
	require.NoError(s.T(), err)
	require.NoError(s.T(), links.Apply(func(i, j int, _ float64) float64 {
		if i == j {
			return 0
		}
		if (j == (i+1)%n) || s.rng.Intn(4) == 0 { // ring keeps it strongly connected
			return float64(1 + s.rng.Intn(50))
		}
		return math.Inf(1)
	}))
	apsp := links.Clone()
	require.NoError(s.T(), matrix.FloydWarshall(apsp))

	return links, apsp
}

func (s *PatchSuite) TestThreeZoneExample() {
	dis := s.threeZones()

	fwd, err := network.ApplyLinkInsertion(dis, 0, 1, 1)
	require.NoError(s.T(), err)
	back, err := network.ApplyLinkInsertion(dis, 1, 0, 1)
	require.NoError(s.T(), err)

	total := fwd.Add(back)
	require.Equal(s.T(), 2, total.Improved)
	require.Equal(s.T(), 18.0, total.Saved)

	want := [][]float64{{0, 1, 10}, {1, 0, 10}, {10, 10, 0}}
	ok, err := matrix.AllClose(dis, mustRows(s.T(), want), 0, 0)
	require.NoError(s.T(), err)
	require.True(s.T(), ok, "got\n%v", dis)
}

func (s *PatchSuite) TestApplyChangeSecondsToMinutes() {
	costs := []*matrix.Dense{s.threeZones()}
	p := network.NewPatcher(network.WithWorkers(2))

	patch, err := p.ApplyChange(context.Background(), costs,
		network.Change{Mode: network.Road, Origin: 0, Destination: 1, Seconds: 60})
	require.NoError(s.T(), err)
	require.Equal(s.T(), 2, patch.Improved)
	require.Equal(s.T(), 18.0, patch.Saved)

	_, err = p.ApplyChange(context.Background(), costs,
		network.Change{Mode: network.Bus, Origin: 0, Destination: 1, Seconds: 60})
	require.ErrorIs(s.T(), err, network.ErrInvalidMode)

	_, err = p.ApplyChange(context.Background(), costs,
		network.Change{Mode: network.Road, Origin: 0, Destination: 1, Seconds: network.UnsetSeconds})
	require.ErrorIs(s.T(), err, network.ErrUnsetLinkTime)
}

func (s *PatchSuite) TestApplyChangeIntrazonalTimes() {
	dis := mustRows(s.T(), [][]float64{{5, 10, 10}, {10, 5, 10}, {10, 10, 5}})
	p := network.NewPatcher(network.WithWorkers(1))

	patch, err := p.ApplyChange(context.Background(), []*matrix.Dense{dis},
		network.Change{Mode: network.Road, Origin: 0, Destination: 1, Seconds: 60})
	require.NoError(s.T(), err)
	require.Equal(s.T(), 2, patch.Improved)
	require.Equal(s.T(), 18.0, patch.Saved)

	want := [][]float64{{5, 1, 10}, {1, 5, 10}, {10, 10, 5}}
	ok, err := matrix.AllClose(dis, mustRows(s.T(), want), 0, 0)
	require.NoError(s.T(), err)
	require.True(s.T(), ok, "got\n%v", dis)

	// a slower link leaves both cells alone
	patch, err = p.ApplyChange(context.Background(), []*matrix.Dense{dis},
		network.Change{Mode: network.Road, Origin: 1, Destination: 0, Seconds: 600})
	require.NoError(s.T(), err)
	require.Zero(s.T(), patch.Improved)
	require.Equal(s.T(), 1.0, dis.Row(0)[1])
}

func (s *PatchSuite) TestMatchesRelaxationFormula() {
	const n = 24
	_, apsp := s.randomNetwork(n)

	for trial := 0; trial < 20; trial++ {
		o, d := s.rng.Intn(n), s.rng.Intn(n)
		c := float64(s.rng.Intn(5))
		before := apsp.Clone()

		_, err := network.ApplyLinkInsertion(apsp, o, d, c)
		require.NoError(s.T(), err)

		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				old := before.Row(i)[j]
				want := math.Min(old, before.Row(i)[o]+c+before.Row(d)[j])
				require.Equal(s.T(), want, apsp.Row(i)[j], "(%d,%d) after %d→%d", i, j, o, d)
				require.LessOrEqual(s.T(), apsp.Row(i)[j], old)
			}
		}
	}
}

func (s *PatchSuite) TestMatchesFullResolve() {
	const n = 30
	links, apsp := s.randomNetwork(n)

	for trial := 0; trial < 10; trial++ {
		o, d := s.rng.Intn(n), s.rng.Intn(n)
		c := float64(1 + s.rng.Intn(3))

		_, err := network.ApplyLinkInsertion(apsp, o, d, c)
		require.NoError(s.T(), err)

		if c < links.Row(o)[d] {
			links.Row(o)[d] = c
		}
		ref := links.Clone()
		require.NoError(s.T(), matrix.FloydWarshall(ref))

		ok, err := matrix.AllClose(apsp, ref, 0, 0)
		require.NoError(s.T(), err)
		require.True(s.T(), ok, "trial %d: incremental patch diverged from re-solve", trial)
	}
}

func (s *PatchSuite) TestIdempotent() {
	_, apsp := s.randomNetwork(16)

	first, err := network.ApplyLinkInsertion(apsp, 3, 11, 0)
	require.NoError(s.T(), err)
	snapshot := apsp.Clone()

	second, err := network.ApplyLinkInsertion(apsp, 3, 11, 0)
	require.NoError(s.T(), err)
	require.Zero(s.T(), second.Improved)
	require.Zero(s.T(), second.Saved)
	require.GreaterOrEqual(s.T(), first.Improved, 0)

	ok, err := matrix.AllClose(apsp, snapshot, 0, 0)
	require.NoError(s.T(), err)
	require.True(s.T(), ok)
}

func (s *PatchSuite) TestParallelMatchesSequential() {
	const n = 64
	_, apsp := s.randomNetwork(n)
	seqM, parM := apsp.Clone(), apsp.Clone()

	seq := network.NewPatcher(network.WithWorkers(1))
	par := network.NewPatcher(network.WithWorkers(5))
	require.Equal(s.T(), 5, par.Workers())

	for trial := 0; trial < 10; trial++ {
		o, d := s.rng.Intn(n), s.rng.Intn(n)
		c := s.rng.Float64() * 3

		a, err := seq.Insert(context.Background(), seqM, o, d, c)
		require.NoError(s.T(), err)
		b, err := par.Insert(context.Background(), parM, o, d, c)
		require.NoError(s.T(), err)
		require.Equal(s.T(), a, b, "bitwise-equal summaries")
	}
	require.Equal(s.T(), seqM.Data(), parM.Data())
}

func (s *PatchSuite) TestRejectsBadInput() {
	dis := s.threeZones()

	for _, c := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := network.ApplyLinkInsertion(dis, 0, 1, c)
		require.ErrorIs(s.T(), err, network.ErrInvalidCost)
	}
	_, err := network.ApplyLinkInsertion(dis, 0, 3, 1)
	require.ErrorIs(s.T(), err, network.ErrZoneOutOfRange)

	rect, _ := matrix.NewDense(2, 3)
	_, err = network.ApplyLinkInsertion(rect, 0, 1, 1)
	require.ErrorIs(s.T(), err, matrix.ErrNonSquare)

	_, err = network.ApplyLinkInsertion(nil, 0, 1, 1)
	require.ErrorIs(s.T(), err, matrix.ErrNilMatrix)

	ok, err := matrix.AllClose(dis, s.threeZones(), 0, 0)
	require.NoError(s.T(), err)
	require.True(s.T(), ok, "rejected inserts leave the matrix untouched")
}

func (s *PatchSuite) TestCancelled() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := network.NewPatcher(network.WithWorkers(2)).Insert(ctx, s.threeZones(), 0, 1, 1)
	require.ErrorIs(s.T(), err, context.Canceled)
}

func TestPatchSuite(t *testing.T) {
	suite.Run(t, new(PatchSuite))
}

func mustRows(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.FromRows(rows)
	require.NoError(t, err)

	return m
}
