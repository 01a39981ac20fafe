// Package mat provides a dense row-major matrix of float64 values together
// with the basic operations the decomposition packages build on: cloning,
// transposition, identity construction, indexed access, raw-row access for
// in-place algorithms, and elementary arithmetic.
//
// Storage is a single contiguous row-major buffer. Element (i,j) lives at
// data[i*cols+j]; Row returns the backing slice for one row so hot loops can
// operate on contiguous memory and delegate to vecmath kernels.
package mat

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
)

// Matrix errors.
var (
	ErrShape     = errors.New("mat: dimension mismatch")
	ErrNotSquare = errors.New("mat: matrix must be square")
)

// Dense is a dense row-major matrix of float64 values.
type Dense struct {
	rows, cols int
	data       []float64
}

// New returns a zero-valued rows x cols matrix.
func New(rows, cols int) *Dense {
	if rows <= 0 || cols <= 0 {
		panic("mat: dimensions must be positive")
	}

	return &Dense{
		rows: rows,
		cols: cols,
		data: make([]float64, rows*cols),
	}
}

// Identity returns the n x n identity matrix.
func Identity(n int) *Dense {
	m := New(n, n)
	for i := range n {
		m.data[i*n+i] = 1
	}

	return m
}

// FromRows builds a matrix from a slice of equally sized rows. The input is
// copied. Returns ErrShape for an empty or ragged input.
func FromRows(rows [][]float64) (*Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrShape
	}

	cols := len(rows[0])
	m := New(len(rows), cols)

	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d", ErrShape, i, len(row), cols)
		}

		copy(m.Row(i), row)
	}

	return m, nil
}

// Dims returns the row and column counts.
func (m *Dense) Dims() (rows, cols int) { return m.rows, m.cols }

// IsSquare reports whether the matrix is square.
func (m *Dense) IsSquare() bool { return m.rows == m.cols }

// At returns the element at row i, column j.
func (m *Dense) At(i, j int) float64 {
	m.check(i, j)
	return m.data[i*m.cols+j]
}

// Set stores v at row i, column j.
func (m *Dense) Set(i, j int, v float64) {
	m.check(i, j)
	m.data[i*m.cols+j] = v
}

func (m *Dense) check(i, j int) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("mat: index (%d,%d) out of range for %dx%d matrix", i, j, m.rows, m.cols))
	}
}

// Row returns the backing slice of row i. Writing to the returned slice
// mutates the matrix.
func (m *Dense) Row(i int) []float64 {
	return m.data[i*m.cols : (i+1)*m.cols]
}

// Clone returns a deep copy of the matrix.
func (m *Dense) Clone() *Dense {
	out := New(m.rows, m.cols)
	copy(out.data, m.data)

	return out
}

// Transpose returns a new matrix holding the transpose of m.
func (m *Dense) Transpose() *Dense {
	out := New(m.cols, m.rows)
	for i := range m.rows {
		row := m.Row(i)
		for j, v := range row {
			out.data[j*out.cols+i] = v
		}
	}

	return out
}

// MaxAbs returns the largest absolute element value.
func (m *Dense) MaxAbs() float64 {
	return vecmath.MaxAbs(m.data)
}

// Add returns a + b. Returns ErrShape if the dimensions differ.
func Add(a, b *Dense) (*Dense, error) {
	if a.rows != b.rows || a.cols != b.cols {
		return nil, ErrShape
	}

	out := a.Clone()
	vecmath.AddBlockInPlace(out.data, b.data)

	return out, nil
}

// Sub returns a - b. Returns ErrShape if the dimensions differ.
func Sub(a, b *Dense) (*Dense, error) {
	if a.rows != b.rows || a.cols != b.cols {
		return nil, ErrShape
	}

	out := New(a.rows, a.cols)
	for i, v := range a.data {
		out.data[i] = v - b.data[i]
	}

	return out, nil
}

// Scale returns a scaled by s.
func Scale(a *Dense, s float64) *Dense {
	out := New(a.rows, a.cols)
	vecmath.ScaleBlock(out.data, a.data, s)

	return out
}

// Mul returns the matrix product a * b. Returns ErrShape if the inner
// dimensions differ.
//
// The right operand is transposed into scratch first so every inner product
// runs over two contiguous rows and can use the vectorized dot-product kernel.
func Mul(a, b *Dense) (*Dense, error) {
	if a.cols != b.rows {
		return nil, fmt.Errorf("%w: %dx%d * %dx%d", ErrShape, a.rows, a.cols, b.rows, b.cols)
	}

	bt := b.Transpose()
	out := New(a.rows, b.cols)

	for i := range a.rows {
		ai := a.Row(i)
		oi := out.Row(i)

		for j := range b.cols {
			oi[j] = vecmath.DotProduct(ai, bt.Row(j))
		}
	}

	return out, nil
}

// MulVec returns the matrix-vector product a * x. Returns ErrShape if the
// length of x differs from the column count.
func MulVec(a *Dense, x []float64) ([]float64, error) {
	if a.cols != len(x) {
		return nil, fmt.Errorf("%w: %dx%d * vector of length %d", ErrShape, a.rows, a.cols, len(x))
	}

	out := make([]float64, a.rows)
	for i := range a.rows {
		out[i] = vecmath.DotProduct(a.Row(i), x)
	}

	return out, nil
}

// EqualApprox reports whether a and b have identical dimensions and all
// elements agree within tol. Any NaN element makes the matrices unequal.
func EqualApprox(a, b *Dense, tol float64) bool {
	if a.rows != b.rows || a.cols != b.cols {
		return false
	}

	for i, v := range a.data {
		if !(math.Abs(v-b.data[i]) <= tol) {
			return false
		}
	}

	return true
}

// String renders the matrix row by row with aligned fixed-point columns.
func (m *Dense) String() string {
	var sb strings.Builder

	for i := range m.rows {
		for j, v := range m.Row(i) {
			if j > 0 {
				sb.WriteByte(' ')
			}

			fmt.Fprintf(&sb, "%12.6f", v)
		}

		sb.WriteByte('\n')
	}

	return sb.String()
}
