// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvquant/matrix"
)

func TestReductions(t *testing.T) {
	t.Parallel()

	a := MustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	b := MustRows(t, [][]float64{{2, 2, 2}, {1, 1, 10}})

	s, err := matrix.Sum(a)
	require.NoError(t, err)
	assert.Equal(t, 21.0, s)

	sp, err := matrix.SumProduct(a, b)
	require.NoError(t, err)
	assert.Equal(t, 2.0+4+6+4+5+60, sp)

	rs, err := matrix.RowSums(a)
	require.NoError(t, err)
	assert.Equal(t, []float64{6, 15}, rs)

	cs, err := matrix.ColSums(a)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 7, 9}, cs)

	n, err := matrix.CountLess(a, b)
	require.NoError(t, err)
	assert.Equal(t, 2, n) // a[0,0] and a[1,2]

	pd, err := matrix.PositiveDiffSum(a, b)
	require.NoError(t, err)
	assert.Equal(t, 1.0+3+4, pd) // (3-2) + (4-1) + (5-1)
}

func TestReductions_Errors(t *testing.T) {
	t.Parallel()

	a := MustDense(t, 2, 2)
	b := MustDense(t, 3, 3)

	_, err := matrix.Sum(nil)
	AssertErrorIs(t, err, matrix.ErrNilMatrix)
	_, err = matrix.SumProduct(a, b)
	AssertErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.CountLess(a, nil)
	AssertErrorIs(t, err, matrix.ErrNilMatrix)
	_, err = matrix.PositiveDiffSum(a, b)
	AssertErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestIdenticalMatricesYieldNoSavings(t *testing.T) {
	t.Parallel()

	a := MustRows(t, [][]float64{{0, 7}, {7, 0}})
	n, err := matrix.CountLess(a, a.Clone())
	require.NoError(t, err)
	assert.Zero(t, n)
	pd, err := matrix.PositiveDiffSum(a, a.Clone())
	require.NoError(t, err)
	assert.Zero(t, pd)
}

func TestPositiveDiffSum_NewlyReachable(t *testing.T) {
	t.Parallel()

	inf := math.Inf(1)
	base := MustRows(t, [][]float64{{0, inf}, {9, 0}}, matrix.WithAllowInfDistances())
	scen := MustRows(t, [][]float64{{0, 4}, {5, 0}})

	n, err := matrix.CountLess(scen, base)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	pd, err := matrix.PositiveDiffSum(base, scen)
	require.NoError(t, err)
	assert.Equal(t, 4.0, pd)
}

func TestAllClose(t *testing.T) {
	t.Parallel()

	a := MustRows(t, [][]float64{{1, 2}, {3, 4}})
	b := MustRows(t, [][]float64{{1, 2}, {3, 4 + 1e-12}})

	ok, err := matrix.AllClose(a, b, 0, 1e-9)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = matrix.AllClose(hide{a}, hide{b}, 0, 0)
	require.NoError(t, err)
	assert.False(t, ok, "fallback path compares exactly with zero tolerances")

	_, err = matrix.AllClose(a, MustDense(t, 1, 2), 0, 0)
	AssertErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.AllClose(a, b, math.NaN(), 0)
	AssertErrorIs(t, err, matrix.ErrNaNInf)
}

func TestExpScaled(t *testing.T) {
	t.Parallel()

	c := MustRows(t, [][]float64{{0, 1}, {2, 0}})
	dst := MustDense(t, 2, 2)
	require.NoError(t, matrix.ExpScaled(dst, c, 0.5))
	assert.InDelta(t, 1.0, MustAt(t, dst, 0, 0), 1e-15)
	assert.InDelta(t, math.Exp(-0.5), MustAt(t, dst, 0, 1), 1e-15)
	assert.InDelta(t, math.Exp(-1), MustAt(t, dst, 1, 0), 1e-15)

	AssertErrorIs(t, matrix.ExpScaled(MustDense(t, 1, 1), c, 1), matrix.ErrDimensionMismatch)
}

func TestValidateOrder(t *testing.T) {
	t.Parallel()

	a := MustDense(t, 3, 3)
	require.NoError(t, matrix.ValidateOrder(3, a, a.Clone()))
	AssertErrorIs(t, matrix.ValidateOrder(3, a, MustDense(t, 2, 2)), matrix.ErrDimensionMismatch)
	AssertErrorIs(t, matrix.ValidateOrder(3, MustDense(t, 3, 2)), matrix.ErrNonSquare)
	AssertErrorIs(t, matrix.ValidateOrder(3, nil), matrix.ErrNilMatrix)

	var typedNil *matrix.Dense
	AssertErrorIs(t, matrix.ValidateOrder(3, typedNil), matrix.ErrNilMatrix)
}

func TestValidateNonNegative(t *testing.T) {
	t.Parallel()

	require.NoError(t, matrix.ValidateNonNegative(MustRows(t, [][]float64{{0, 1}})))
	AssertErrorIs(t, matrix.ValidateNonNegative(MustRows(t, [][]float64{{0, -1}})), matrix.ErrOutOfRange)
}
