// SPDX-License-Identifier: MIT

package qbin_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvquant/matrix"
	"github.com/katalvlaran/lvquant/matrix/qbin"
)

// encode builds a raw payload by hand so the layout is checked independently of Write.
func encode(t *testing.T, rows, cols int32, vals ...float32) []byte {
	t.Helper()
	var b bytes.Buffer
	require.NoError(t, binary.Write(&b, binary.LittleEndian, rows))
	require.NoError(t, binary.Write(&b, binary.LittleEndian, cols))
	if len(vals) > 0 {
		require.NoError(t, binary.Write(&b, binary.LittleEndian, vals))
	}

	return b.Bytes()
}

func TestRead_Layout(t *testing.T) {
	t.Parallel()

	raw := encode(t, 2, 3, 1, 2, 3, 4, 5, 6.5)
	m, err := qbin.Read(bytes.NewReader(raw))
	require.NoError(t, err)
	r, c := m.Shape()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6.5}, m.Data())
}

func TestRead_Rejects(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  []byte
		opts []qbin.ReadOption
		want error
	}{
		{"zero rows", encode(t, 0, 3), nil, qbin.ErrBadHeader},
		{"negative cols", encode(t, 2, -1), nil, qbin.ErrBadHeader},
		{"short header", []byte{1, 0, 0}, nil, qbin.ErrTruncated},
		{"short payload", encode(t, 2, 2, 1, 2, 3), nil, qbin.ErrTruncated},
		{"non-square", encode(t, 1, 2, 1, 2), []qbin.ReadOption{qbin.RequireSquare()}, matrix.ErrNonSquare},
		{"wrong order", encode(t, 1, 1, 1), []qbin.ReadOption{qbin.RequireOrder(2)}, matrix.ErrDimensionMismatch},
		{"nan", encode(t, 1, 1, float32(math.NaN())), nil, matrix.ErrNaNInf},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := qbin.Read(bytes.NewReader(tc.raw), tc.opts...)
			require.Error(t, err)
			assert.Truef(t, errors.Is(err, tc.want), "want %v, got %v", tc.want, err)
		})
	}
}

func TestWriteReadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src, err := matrix.FromRows([][]float64{{0, 1.5}, {2.25, 0}})
	require.NoError(t, err)

	a := filepath.Join(dir, "a.bin")
	b := filepath.Join(dir, "b.bin")
	require.NoError(t, qbin.WriteFile(a, src))
	require.NoError(t, qbin.WriteFile(b, src))

	set, err := qbin.ReadSquareSet(a, b)
	require.NoError(t, err)
	require.Len(t, set, 2)
	ok, err := matrix.AllClose(src, set[1], 0, 0)
	require.NoError(t, err)
	assert.True(t, ok, "values exactly representable in float32 survive the round trip")
}

func TestReadSquareSet_OrderMismatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	two, _ := matrix.NewSquare(2)
	three, _ := matrix.NewSquare(3)
	require.NoError(t, qbin.WriteFile(filepath.Join(dir, "2.bin"), two))
	require.NoError(t, qbin.WriteFile(filepath.Join(dir, "3.bin"), three))

	_, err := qbin.ReadSquareSet(filepath.Join(dir, "2.bin"), filepath.Join(dir, "3.bin"))
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = qbin.ReadFile(filepath.Join(dir, "missing.bin"))
	assert.Error(t, err)
}
