// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvquant/matrix"
)

func TestNewDense_InvalidDimensions(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct{ r, c int }{{0, 1}, {1, 0}, {-1, 3}} {
		_, err := matrix.NewDense(tc.r, tc.c)
		AssertErrorIs(t, err, matrix.ErrInvalidDimensions)
	}
	_, err := matrix.NewSquare(0)
	AssertErrorIs(t, err, matrix.ErrInvalidDimensions)
}

func TestDense_AtSet_Bounds(t *testing.T) {
	t.Parallel()

	m := MustDense(t, 2, 3)
	require.NoError(t, m.Set(1, 2, 4.5))
	assert.Equal(t, 4.5, MustAt(t, m, 1, 2))

	_, err := m.At(2, 0)
	AssertErrorIs(t, err, matrix.ErrOutOfRange)
	AssertErrorIs(t, m.Set(0, -1, 1), matrix.ErrOutOfRange)
}

func TestDense_NumericPolicy(t *testing.T) {
	t.Parallel()

	strict := MustDense(t, 2, 2)
	AssertErrorIs(t, strict.Set(0, 1, math.NaN()), matrix.ErrNaNInf)
	AssertErrorIs(t, strict.Set(0, 1, math.Inf(1)), matrix.ErrNaNInf)

	dist, err := matrix.NewPreparedDense(2, 2, matrix.WithAllowInfDistances())
	require.NoError(t, err)
	require.NoError(t, dist.Set(0, 1, math.Inf(1)))
	AssertErrorIs(t, dist.Set(0, 1, math.Inf(-1)), matrix.ErrNaNInf)
	AssertErrorIs(t, dist.Set(0, 1, math.NaN()), matrix.ErrNaNInf)

	loose, err := matrix.NewPreparedDense(1, 1, matrix.WithNoValidateNaNInf())
	require.NoError(t, err)
	require.NoError(t, loose.Set(0, 0, math.NaN()))
}

func TestFromRows(t *testing.T) {
	t.Parallel()

	m := MustRows(t, [][]float64{{1, 2}, {3, 4}})
	CompareExact(t, [][]float64{{1, 2}, {3, 4}}, m)

	_, err := matrix.FromRows([][]float64{{1, 2}, {3}})
	AssertErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = matrix.FromRows(nil)
	AssertErrorIs(t, err, matrix.ErrInvalidDimensions)

	_, err = matrix.FromRows([][]float64{{math.Inf(1)}})
	AssertErrorIs(t, err, matrix.ErrNaNInf)
}

func TestDense_RowAliasesBuffer(t *testing.T) {
	t.Parallel()

	m := MustRows(t, [][]float64{{1, 2}, {3, 4}})
	row := m.Row(1)
	require.Len(t, row, 2)
	row[0] = 9
	assert.Equal(t, 9.0, MustAt(t, m, 1, 0))
	assert.Equal(t, []float64{1, 2, 9, 4}, m.Data())
}

func TestDense_CloneAndCopyFrom(t *testing.T) {
	t.Parallel()

	src := MustRows(t, [][]float64{{0, 5}, {5, 0}})
	cp := src.Clone()
	require.NoError(t, cp.Set(0, 1, 1))
	assert.Equal(t, 5.0, MustAt(t, src, 0, 1), "clone must not alias")

	require.NoError(t, cp.CopyFrom(src))
	CompareExact(t, [][]float64{{0, 5}, {5, 0}}, cp)

	AssertErrorIs(t, cp.CopyFrom(nil), matrix.ErrNilMatrix)
	AssertErrorIs(t, cp.CopyFrom(MustDense(t, 3, 3)), matrix.ErrDimensionMismatch)
}

func TestDense_Fill(t *testing.T) {
	t.Parallel()

	m := MustDense(t, 2, 2)
	AssertErrorIs(t, m.Fill([]float64{1, 2, 3}), matrix.ErrDataLength)
	AssertErrorIs(t, m.Fill([]float64{1, 2, math.NaN(), 4}), matrix.ErrNaNInf)
	assert.Equal(t, []float64{0, 0, 0, 0}, m.Data(), "failed Fill leaves matrix unchanged")

	require.NoError(t, m.Fill([]float64{1, 2, 3, 4}))
	CompareExact(t, [][]float64{{1, 2}, {3, 4}}, m)
}

func TestDense_ApplyAndDo(t *testing.T) {
	t.Parallel()

	m := MustRows(t, [][]float64{{1, 2}, {3, 4}})
	require.NoError(t, m.Apply(func(_, _ int, v float64) float64 { return v * 60 }))
	CompareExact(t, [][]float64{{60, 120}, {180, 240}}, m)

	var visited int
	m.Do(func(i, j int, v float64) bool {
		visited++
		return i == 0
	})
	assert.Equal(t, 3, visited, "Do stops after the first false")

	err := m.Apply(func(_, _ int, v float64) float64 { return math.Inf(1) })
	AssertErrorIs(t, err, matrix.ErrNaNInf)
}

func TestDense_String(t *testing.T) {
	t.Parallel()

	m := MustRows(t, [][]float64{{1, 2.5}})
	assert.Equal(t, "[1, 2.5]\n", m.String())
}
