// SPDX-License-Identifier: MIT

package gravity_test

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/lvquant/gravity"
	"github.com/katalvlaran/lvquant/matrix"
)

// fourZones returns a 2-mode, 4-zone fixture whose trips decay with cost,
// so calibration has a well-defined optimum (β ≈ 0.19 road, ≈ 0.094 bus).
func fourZones(t *testing.T) (tobs, cost []*matrix.Dense) {
	t.Helper()
	const n = 4
	c0, c1 := make([][]float64, n), make([][]float64, n)
	t0, t1 := make([][]float64, n), make([][]float64, n)
	var i, j int
	for i = 0; i < n; i++ {
		c0[i], c1[i] = make([]float64, n), make([]float64, n)
		t0[i], t1[i] = make([]float64, n), make([]float64, n)
		for j = 0; j < n; j++ {
			d := math.Abs(float64(i - j))
			c0[i][j] = 2 + 3*d
			c1[i][j] = 1 + 5*d
			t0[i][j] = math.Round(float64(10+i+2*j)*math.Exp(-0.2*c0[i][j])*1000) / 1000
			t1[i][j] = math.Round(float64(5+2*i+j)*math.Exp(-0.1*c1[i][j])*1000) / 1000
		}
	}

	return []*matrix.Dense{mustRows(t, t0), mustRows(t, t1)}, []*matrix.Dense{mustRows(t, c0), mustRows(t, c1)}
}

func mustRows(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.FromRows(rows)
	require.NoError(t, err)

	return m
}

func relErr(got, want float64) float64 { return math.Abs(got-want) / want }

// ModelSuite covers construction, calibration and baseline prediction.
type ModelSuite struct {
	suite.Suite
	tobs, cost []*matrix.Dense
}

func (s *ModelSuite) SetupTest() {
	s.tobs, s.cost = fourZones(s.T())
}

func (s *ModelSuite) TestNewRejectsBadInput() {
	_, err := gravity.New(nil, nil)
	require.ErrorIs(s.T(), err, gravity.ErrNoModes)

	_, err = gravity.New(s.tobs, s.cost[:1])
	require.ErrorIs(s.T(), err, gravity.ErrShapeMismatch)

	small := mustRows(s.T(), [][]float64{{1, 2}, {3, 4}})
	_, err = gravity.New(s.tobs, []*matrix.Dense{s.cost[0], small})
	require.ErrorIs(s.T(), err, gravity.ErrShapeMismatch)

	zero, err := matrix.NewSquare(4)
	require.NoError(s.T(), err)
	_, err = gravity.New([]*matrix.Dense{s.tobs[0], zero}, s.cost)
	require.ErrorIs(s.T(), err, gravity.ErrDegenerate)

	free, err := matrix.NewSquare(2)
	require.NoError(s.T(), err)
	_, err = gravity.New([]*matrix.Dense{mustRows(s.T(), [][]float64{{5, 1}, {1, 5}})}, []*matrix.Dense{free})
	require.ErrorIs(s.T(), err, gravity.ErrDegenerate)

	neg := s.tobs[0].Clone()
	require.NoError(s.T(), neg.Set(1, 2, -1))
	_, err = gravity.New([]*matrix.Dense{neg, s.tobs[1]}, s.cost)
	require.ErrorIs(s.T(), err, matrix.ErrOutOfRange)

	_, err = gravity.New(s.tobs, s.cost, gravity.WithConstraints([]bool{true}))
	require.ErrorIs(s.T(), err, gravity.ErrConstraintCount)

	_, err = gravity.New(s.tobs, s.cost, gravity.WithMaxOuterIterations(0))
	require.ErrorIs(s.T(), err, gravity.ErrInvalidOption)
}

func (s *ModelSuite) TestObservedTotals() {
	m, err := gravity.New(s.tobs, s.cost)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 4, m.N())
	require.Equal(s.T(), 2, m.Modes())
	require.Nil(s.T(), m.Beta())

	o, d := m.ObservedTotals()
	var total0, total1 float64
	for i := range o {
		total0 += o[i]
		total1 += d[i]
	}
	all0, err := matrix.Sum(s.tobs[0])
	require.NoError(s.T(), err)
	all1, err := matrix.Sum(s.tobs[1])
	require.NoError(s.T(), err)
	require.InDelta(s.T(), all0+all1, total0, 1e-9)
	require.InDelta(s.T(), total0, total1, 1e-9)

	cbar, err := gravity.CBar(s.tobs[0], s.cost[0])
	require.NoError(s.T(), err)
	require.Equal(s.T(), cbar, m.CBarObs()[0])
}

func (s *ModelSuite) TestCBarDegenerate() {
	zero, err := matrix.NewSquare(3)
	require.NoError(s.T(), err)
	_, err = gravity.CBar(zero, zero)
	require.ErrorIs(s.T(), err, gravity.ErrDegenerate)
}

func (s *ModelSuite) TestCalibrateConverges() {
	m, err := gravity.New(s.tobs, s.cost, gravity.WithWorkers(1))
	require.NoError(s.T(), err)

	cal, err := m.Calibrate(context.Background())
	require.NoError(s.T(), err)
	require.True(s.T(), cal.Converged)
	require.Greater(s.T(), cal.OuterIterations, 1)
	for k := range cal.Beta {
		require.LessOrEqual(s.T(), relErr(cal.CBarPred[k], cal.CBarObs[k]), gravity.DefaultTolerance, "mode %d", k)
	}
	require.InDelta(s.T(), 0.19, cal.Beta[0], 0.03)
	require.InDelta(s.T(), 0.094, cal.Beta[1], 0.02)
	require.Equal(s.T(), cal.Beta, m.Beta())
	require.Equal(s.T(), []float64{1, 1, 1, 1}, cal.Balancing)

	// production constraint: every origin sends exactly O[i] over all modes
	o, _ := m.ObservedTotals()
	pred := m.Predicted()
	for i := range o {
		var row float64
		for k := range pred {
			row += sumRow(pred[k], i)
		}
		require.InDelta(s.T(), o[i], row, 1e-9*o[i], "origin %d", i)
	}
}

func (s *ModelSuite) TestCalibrateRespectsCapacity() {
	flags := []bool{false, true, false, false}
	m, err := gravity.New(s.tobs, s.cost, gravity.WithConstraints(flags))
	require.NoError(s.T(), err)

	cal, err := m.Calibrate(context.Background())
	require.NoError(s.T(), err)
	require.True(s.T(), cal.Converged)

	_, dObs := m.ObservedTotals()
	dPred, err := gravity.CalculateDj(m.Predicted()...)
	require.NoError(s.T(), err)
	require.LessOrEqual(s.T(), dPred[1], dObs[1]+gravity.DefaultCapacitySlack)
	require.Less(s.T(), cal.Balancing[1], 1.0)
	require.Equal(s.T(), 1.0, cal.Balancing[0])
	require.Equal(s.T(), 1.0, cal.Balancing[2])
	require.Equal(s.T(), 1.0, cal.Balancing[3])
}

func (s *ModelSuite) TestCalibrateOuterCap() {
	m, err := gravity.New(s.tobs, s.cost, gravity.WithMaxOuterIterations(1))
	require.NoError(s.T(), err)

	cal, err := m.Calibrate(context.Background())
	require.NoError(s.T(), err)
	require.False(s.T(), cal.Converged)
	require.Equal(s.T(), 1, cal.OuterIterations)
	require.Equal(s.T(), []float64{1, 1}, cal.Beta)
}

func (s *ModelSuite) TestCalibrateCancelled() {
	m, err := gravity.New(s.tobs, s.cost)
	require.NoError(s.T(), err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.Calibrate(ctx)
	require.ErrorIs(s.T(), err, context.Canceled)
	require.Nil(s.T(), m.Beta())
}

func (s *ModelSuite) TestWorkersDoNotChangeResults() {
	seq, err := gravity.New(s.tobs, s.cost, gravity.WithWorkers(1))
	require.NoError(s.T(), err)
	par, err := gravity.New(s.tobs, s.cost, gravity.WithWorkers(3))
	require.NoError(s.T(), err)

	a, err := seq.Calibrate(context.Background())
	require.NoError(s.T(), err)
	b, err := par.Calibrate(context.Background())
	require.NoError(s.T(), err)
	require.Equal(s.T(), a, b)

	for k := range seq.Predicted() {
		ok, cerr := matrix.AllClose(seq.Predicted()[k], par.Predicted()[k], 0, 0)
		require.NoError(s.T(), cerr)
		require.True(s.T(), ok, "mode %d", k)
	}
}

func (s *ModelSuite) TestDeterrenceUnderflow() {
	tobs := mustRows(s.T(), [][]float64{{1, 1}, {1, 1}})
	far := mustRows(s.T(), [][]float64{{1e6, 1e6}, {1e6, 1e6}})
	m, err := gravity.New([]*matrix.Dense{tobs}, []*matrix.Dense{far})
	require.NoError(s.T(), err)

	// exp(-0.1·1e6) is 0 in every cell, so no origin has a denominator
	_, err = m.PredictBaseline([]float64{0.1})
	require.ErrorIs(s.T(), err, gravity.ErrDegenerate)
}

func (s *ModelSuite) TestPredictBaseline() {
	m, err := gravity.New(s.tobs, s.cost)
	require.NoError(s.T(), err)

	_, err = m.PredictBaseline([]float64{0.2})
	require.ErrorIs(s.T(), err, gravity.ErrBetaCount)
	_, err = m.PredictBaseline([]float64{0.2, 0})
	require.ErrorIs(s.T(), err, gravity.ErrDegenerate)

	cal, err := m.PredictBaseline([]float64{0.2, 0.1})
	require.NoError(s.T(), err)
	require.True(s.T(), cal.Converged)
	require.Equal(s.T(), []float64{0.2, 0.1}, m.Beta())
	require.Equal(s.T(), []float64{1, 1, 1, 1}, m.Balancing())

	// a larger beta penalizes cost harder and shortens trips
	steep, err := m.PredictBaseline([]float64{0.4, 0.2})
	require.NoError(s.T(), err)
	require.Less(s.T(), steep.CBarPred[0], cal.CBarPred[0])
	require.Less(s.T(), steep.CBarPred[1], cal.CBarPred[1])
}

func (s *ModelSuite) TestCalibrationFileRoundTrip() {
	m, err := gravity.New(s.tobs, s.cost, gravity.WithConstraints([]bool{true, false, false, false}))
	require.NoError(s.T(), err)
	cal, err := m.Calibrate(context.Background())
	require.NoError(s.T(), err)

	path := filepath.Join(s.T().TempDir(), "calibration.yaml")
	require.NoError(s.T(), gravity.SaveCalibration(path, cal))
	got, err := gravity.LoadCalibration(path)
	require.NoError(s.T(), err)
	require.Equal(s.T(), cal, got)

	require.NoError(s.T(), gravity.SaveCalibration(path, gravity.Calibration{}))
	_, err = gravity.LoadCalibration(path)
	require.ErrorIs(s.T(), err, gravity.ErrBetaCount)

	_, err = gravity.LoadCalibration(filepath.Join(s.T().TempDir(), "missing.yaml"))
	require.Error(s.T(), err)
}

func (s *ModelSuite) TestSetBalancing() {
	m, err := gravity.New(s.tobs, s.cost)
	require.NoError(s.T(), err)
	require.ErrorIs(s.T(), m.SetBalancing([]float64{1}), gravity.ErrConstraintCount)
	require.NoError(s.T(), m.SetBalancing([]float64{1, 0.5, 1, 1}))
	require.Equal(s.T(), []float64{1, 0.5, 1, 1}, m.Balancing())
}

func sumRow(m *matrix.Dense, i int) float64 {
	var s float64
	for _, v := range m.Row(i) {
		s += v
	}

	return s
}

func TestModelSuite(t *testing.T) {
	suite.Run(t, new(ModelSuite))
}
