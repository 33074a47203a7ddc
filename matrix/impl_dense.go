// SPDX-License-Identifier: MIT

// Package matrix - Dense storage (row-major) & safe accessors.
//
// Purpose:
//   - Provide a cache-friendly row-major buffer with the explicit index formula i*cols + j.
//   - Guarantee safety at the public surface: At/Set return errors instead of panicking.
//   - Keep algorithmic determinism (fixed loop orders, no map iteration).
//   - Expose no-copy rows (Row) and allocation-free refills (CopyFrom) for the
//     per-scenario buffers owned by gravity.Arena.
//
// AI-Hints:
//   - Hot kernels (distribution, link insertion) operate on Row(i) slices directly.
//   - Use CopyFrom to reset a scenario-owned cost matrix from the pristine copy.
//
// Complexity quicksheet:
//   - NewDense: O(r*c) zero-init; At/Set: O(1); Clone/CopyFrom: O(r*c); Row: O(1).
package matrix

import (
	"fmt"
	"strings"
)

// ---------- error context tags ----------

const (
	ctxAt       = "At"       // method tag used in error wrappers
	ctxSet      = "Set"      // method tag used in error wrappers
	ctxApply    = "Apply"    // method tag used in error wrappers
	ctxFill     = "Fill"     // method tag used in error wrappers
	ctxCopyFrom = "CopyFrom" // method tag used in error wrappers
	ctxFromRows = "FromRows" // ctor tag
)

// ---------- Formatting literals ----------
const (
	_fmtRowOpen  = "["
	_fmtRowClose = "]\n"
	_fmtSep      = ", "
)

// denseErrorf wraps an error with a uniform Dense context and callsite indices.
// Stable, human-friendly messages; preserves the sentinel via %w.
// Complexity: O(1).
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a concrete row-major matrix.
//   - r,c hold dimensions (rows, cols).
//   - data is a flat buffer of length r*c in row-major order (offset = i*c + j).
//   - validateNaNInf / allowInf carry the numeric policy resolved at creation.
type Dense struct {
	r, c           int       // row and column counts (> 0)
	data           []float64 // contiguous row-major storage (len == r*c)
	validateNaNInf bool      // numeric guard: reject NaN/Inf when true
	allowInf       bool      // +Inf accepted as "no path" under validation
}

// Compile-time assertions for interface & fmt.Stringer conformance.
var (
	_ Matrix       = (*Dense)(nil)
	_ fmt.Stringer = (*Dense)(nil)
)

// NewDense creates an r×c zero matrix using row-major storage and the default
// numeric policy.
//
// Errors:
//   - ErrInvalidDimensions (rows<=0 or cols<=0).
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NewDense(rows, cols int) (*Dense, error) {
	return NewPreparedDense(rows, cols)
}

// NewSquare creates an n×n zero matrix, the common shape of every zone matrix.
func NewSquare(n int) (*Dense, error) {
	return NewPreparedDense(n, n)
}

// NewPreparedDense creates an r×c zero matrix with an explicit numeric policy.
// MAIN DESCRIPTION:
//   - Public constructor with strict shape validation and functional options.
//
// Implementation:
//   - Stage 1: validate rows>0 && cols>0; else ErrInvalidDimensions.
//   - Stage 2: resolve options on top of defaults.
//   - Stage 3: allocate zero-filled buffer.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NewPreparedDense(rows, cols int, opts ...Option) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	o := gatherOptions(opts...)

	return &Dense{
		r:              rows,
		c:              cols,
		data:           make([]float64, rows*cols),
		validateNaNInf: o.validateNaNInf,
		allowInf:       o.allowInfDistances,
	}, nil
}

// FromRows builds a Dense from a rectangular [][]float64 literal.
// Every row must have the same non-zero length.
//
// Errors:
//   - ErrInvalidDimensions (no rows or empty first row), ErrDimensionMismatch (ragged rows),
//     ErrNaNInf (policy violation).
//
// AI-Hints:
//   - Intended for fixtures and small hand-built inputs; bulk data should go through Fill.
func FromRows(rows [][]float64, opts ...Option) (*Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrInvalidDimensions
	}
	m, err := NewPreparedDense(len(rows), len(rows[0]), opts...)
	if err != nil {
		return nil, err
	}
	var i int
	for i = 0; i < m.r; i++ {
		if len(rows[i]) != m.c {
			return nil, fmt.Errorf("Dense.%s: row %d has %d cols, want %d: %w",
				ctxFromRows, i, len(rows[i]), m.c, ErrDimensionMismatch)
		}
		copy(m.data[i*m.c:(i+1)*m.c], rows[i])
	}
	if err = m.checkAll(ctxFromRows); err != nil {
		return nil, err
	}

	return m, nil
}

// Rows returns the row count. Complexity: O(1).
func (m *Dense) Rows() int { return m.r }

// Cols returns the column count. Complexity: O(1).
func (m *Dense) Cols() int { return m.c }

// Shape packs Rows() and Cols() into a single call for convenience.
func (m *Dense) Shape() (rows, cols int) { return m.r, m.c }

// indexOf computes the row-major offset or returns ErrOutOfRange.
// Public methods (At/Set) wrap the sentinel with coordinates and method name.
func (m *Dense) indexOf(row, col int) (int, error) {
	if row < 0 || row >= m.r {
		return 0, ErrOutOfRange
	}
	if col < 0 || col >= m.c {
		return 0, ErrOutOfRange
	}

	// Row-major offset: i*c + j.
	return row*m.c + col, nil
}

// At returns the value at (row, col) or ErrOutOfRange.
// Never panics on out-of-range; returns a wrapped sentinel.
// Complexity: O(1).
func (m *Dense) At(row, col int) (float64, error) {
	off, err := m.indexOf(row, col)
	if err != nil {
		return 0, denseErrorf(ctxAt, row, col, err)
	}

	return m.data[off], nil
}

// Set stores v at (row, col) or returns an error (bounds or numeric policy).
//
// Errors:
//   - ErrOutOfRange for bounds; ErrNaNInf for values rejected by the policy.
//
// Complexity: O(1).
func (m *Dense) Set(row, col int, v float64) error {
	off, err := m.indexOf(row, col)
	if err != nil {
		return denseErrorf(ctxSet, row, col, err)
	}
	if rejects(m.validateNaNInf, m.allowInf, v) {
		return denseErrorf(ctxSet, row, col, ErrNaNInf)
	}
	m.data[off] = v

	return nil
}

// Row returns row i as a slice aliasing the underlying buffer (no copy).
// Writes through the slice bypass the numeric policy; only trusted kernels
// that preserve finiteness may write through it.
// The caller guarantees 0 ≤ i < Rows(); out-of-range indices panic like a slice.
// Complexity: O(1).
func (m *Dense) Row(i int) []float64 {
	base := i * m.c
	return m.data[base : base+m.c : base+m.c]
}

// Data returns the flat row-major buffer (no copy). Same trust rules as Row.
func (m *Dense) Data() []float64 { return m.data }

// Fill replaces the whole buffer from a row-major slice of length r*c.
//
// Errors:
//   - ErrDataLength when len(data) != r*c; ErrNaNInf under the policy (the
//     matrix is left unchanged on error).
//
// Complexity: O(r*c).
func (m *Dense) Fill(data []float64) error {
	if len(data) != len(m.data) {
		return fmt.Errorf("Dense.%s: got %d values for %dx%d: %w", ctxFill, len(data), m.r, m.c, ErrDataLength)
	}
	if m.validateNaNInf {
		var idx int
		for idx = 0; idx < len(data); idx++ {
			if rejects(true, m.allowInf, data[idx]) {
				return denseErrorf(ctxFill, idx/m.c, idx%m.c, ErrNaNInf)
			}
		}
	}
	copy(m.data, data)

	return nil
}

// Clone returns a deep copy (new buffer, same numeric policy).
// Complexity: O(r*c).
func (m *Dense) Clone() *Dense {
	cp := make([]float64, len(m.data))
	copy(cp, m.data)

	return &Dense{
		r:              m.r,
		c:              m.c,
		data:           cp,
		validateNaNInf: m.validateNaNInf,
		allowInf:       m.allowInf,
	}
}

// CopyFrom overwrites m with the contents of src without allocating.
// MAIN DESCRIPTION:
//   - Reset a reusable buffer (e.g. a scenario-owned cost matrix) from a pristine source.
//
// Errors:
//   - ErrNilMatrix when src is nil; ErrDimensionMismatch when shapes differ.
//
// Complexity:
//   - Time O(r*c), Space O(1).
func (m *Dense) CopyFrom(src *Dense) error {
	if src == nil {
		return fmt.Errorf("Dense.%s: %w", ctxCopyFrom, ErrNilMatrix)
	}
	if src.r != m.r || src.c != m.c {
		return fmt.Errorf("Dense.%s: %dx%d into %dx%d: %w", ctxCopyFrom, src.r, src.c, m.r, m.c, ErrDimensionMismatch)
	}
	copy(m.data, src.data)

	return nil
}

// Do visits each element (i,j) in row-major order and calls f(i,j,v).
// Stops early when f returns false. Complexity: O(r*c), Space O(1).
func (m *Dense) Do(f func(i, j int, v float64) bool) {
	var i, j, base int
	for i = 0; i < m.r; i++ {
		base = i * m.c
		for j = 0; j < m.c; j++ {
			if !f(i, j, m.data[base+j]) {
				return
			}
		}
	}
}

// Apply replaces each element with f(i,j,v) in-place.
// MAIN DESCRIPTION:
//   - In-place map with policy enforcement and deterministic order.
//
// Behavior highlights:
//   - Early error aborts; elements written before the error remain updated.
//     For all-or-nothing semantics, transform a Clone and swap on success.
//
// Complexity: O(r*c), Space O(1).
func (m *Dense) Apply(f func(i, j int, v float64) float64) error {
	var i, j, base int
	var nv float64
	for i = 0; i < m.r; i++ {
		base = i * m.c
		for j = 0; j < m.c; j++ {
			nv = f(i, j, m.data[base+j])
			if rejects(m.validateNaNInf, m.allowInf, nv) {
				return denseErrorf(ctxApply, i, j, ErrNaNInf)
			}
			m.data[base+j] = nv
		}
	}

	return nil
}

// checkAll validates the whole buffer against the numeric policy.
func (m *Dense) checkAll(tag string) error {
	if !m.validateNaNInf {
		return nil
	}
	var idx int
	for idx = 0; idx < len(m.data); idx++ {
		if rejects(true, m.allowInf, m.data[idx]) {
			return denseErrorf(tag, idx/m.c, idx%m.c, ErrNaNInf)
		}
	}

	return nil
}

// String renders rows as lines with comma-separated values.
// Not for hot paths; for large matrices log a summary instead.
func (m *Dense) String() string {
	var b strings.Builder
	var i, j, base int
	for i = 0; i < m.r; i++ {
		b.WriteString(_fmtRowOpen)
		base = i * m.c
		for j = 0; j < m.c; j++ {
			b.WriteString(fmt.Sprintf("%g", m.data[base+j]))
			if j+1 < m.c {
				b.WriteString(_fmtSep)
			}
		}
		b.WriteString(_fmtRowClose)
	}

	return b.String()
}
