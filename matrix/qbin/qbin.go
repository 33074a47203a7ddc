// SPDX-License-Identifier: MIT

// Package qbin reads and writes the binary zone-matrix layout:
//
//	int32 rows (little-endian)
//	int32 cols (little-endian)
//	rows×cols float32 (IEEE-754, little-endian, row-major)
//
// Values are widened to float64 on read and narrowed to float32 on write.
// Readers reject non-positive dimensions, truncated payloads and non-finite
// values; RequireSquare additionally rejects rows != cols.
package qbin

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"

	"github.com/katalvlaran/lvquant/matrix"
)

// MaxElements bounds rows*cols so a corrupt header cannot trigger a huge allocation.
// 2^28 float64 values is 2 GiB, well above a 10k-zone matrix.
const MaxElements = 1 << 28

// ErrBadHeader reports a header with non-positive or oversized dimensions.
var ErrBadHeader = errors.New("qbin: invalid header")

// ErrTruncated reports a payload shorter than the header promises.
var ErrTruncated = errors.New("qbin: truncated payload")

// ReadOption configures Read.
type ReadOption func(*readOptions)

type readOptions struct {
	square bool
	order  int
}

// RequireSquare rejects matrices whose row and column counts differ.
func RequireSquare() ReadOption {
	return func(o *readOptions) { o.square = true }
}

// RequireOrder rejects anything that is not n×n.
func RequireOrder(n int) ReadOption {
	return func(o *readOptions) {
		o.square = true
		o.order = n
	}
}

// Read decodes one matrix from r.
func Read(r io.Reader, opts ...ReadOption) (*matrix.Dense, error) {
	var o readOptions
	for _, fn := range opts {
		fn(&o)
	}

	var hdr [2]int32
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("header: %w", ErrTruncated)
		}
		return nil, errors.Wrap(err, "Can't read header")
	}
	rows, cols := int(hdr[0]), int(hdr[1])
	if rows <= 0 || cols <= 0 || int64(rows)*int64(cols) > MaxElements {
		return nil, fmt.Errorf("%dx%d: %w", rows, cols, ErrBadHeader)
	}
	if o.square && rows != cols {
		return nil, fmt.Errorf("qbin: %dx%d: %w", rows, cols, matrix.ErrNonSquare)
	}
	if o.order > 0 && rows != o.order {
		return nil, fmt.Errorf("qbin: order %d, want %d: %w", rows, o.order, matrix.ErrDimensionMismatch)
	}

	m, err := matrix.NewDense(rows, cols)
	if err != nil {
		return nil, err
	}
	buf := make([]float32, cols)
	var i, j int
	var row []float64
	for i = 0; i < rows; i++ {
		if err = binary.Read(r, binary.LittleEndian, buf); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil, fmt.Errorf("row %d of %d: %w", i, rows, ErrTruncated)
			}
			return nil, errors.Wrapf(err, "Can't read row %d", i)
		}
		row = m.Row(i)
		for j = 0; j < cols; j++ {
			v := float64(buf[j])
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("qbin: (%d,%d): %w", i, j, matrix.ErrNaNInf)
			}
			row[j] = v
		}
	}

	return m, nil
}

// ReadFile opens path and decodes one matrix from it.
func ReadFile(path string, opts ...ReadOption) (*matrix.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "File open")
	}
	defer f.Close()

	m, err := Read(bufio.NewReaderSize(f, 1<<20), opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

// ReadSquareSet loads one matrix per path (one per mode) and checks they
// all share the order of the first.
func ReadSquareSet(paths ...string) ([]*matrix.Dense, error) {
	out := make([]*matrix.Dense, 0, len(paths))
	var order int
	for _, p := range paths {
		opts := []ReadOption{RequireSquare()}
		if order > 0 {
			opts = append(opts, RequireOrder(order))
		}
		m, err := ReadFile(p, opts...)
		if err != nil {
			return nil, err
		}
		order = m.Rows()
		out = append(out, m)
	}

	return out, nil
}

// Write encodes m to w. Values are narrowed to float32.
func Write(w io.Writer, m *matrix.Dense) error {
	if m == nil {
		return matrix.ErrNilMatrix
	}
	rows, cols := m.Shape()
	hdr := [2]int32{int32(rows), int32(cols)}
	if err := binary.Write(w, binary.LittleEndian, hdr); err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	buf := make([]float32, cols)
	var i, j int
	var row []float64
	for i = 0; i < rows; i++ {
		row = m.Row(i)
		for j = 0; j < cols; j++ {
			buf[j] = float32(row[j])
		}
		if err := binary.Write(w, binary.LittleEndian, buf); err != nil {
			return errors.Wrapf(err, "Can't write row %d", i)
		}
	}

	return nil
}

// WriteFile creates (or truncates) path and writes m to it.
func WriteFile(path string, m *matrix.Dense) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	bw := bufio.NewWriterSize(f, 1<<20)
	if err = Write(bw, m); err != nil {
		f.Close()
		return err
	}
	if err = bw.Flush(); err != nil {
		f.Close()
		return errors.Wrap(err, "Can't flush file")
	}

	return errors.Wrap(f.Close(), "Can't close file")
}
