// Package lu provides an LU decomposition with partial pivoting for real
// square matrices: P*A = L*U with L unit lower triangular, U upper triangular
// and P a row permutation. It offers determinant computation, linear solves
// and matrix inversion.
package lu

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-linalg/mat"
)

// Decomposition errors.
var (
	ErrSingular  = errors.New("lu: matrix is singular")
	ErrNotSquare = errors.New("lu: matrix must be square")
)

// Decomposition holds a packed LU factorization. The strict lower triangle
// stores the elimination multipliers of L, the upper triangle stores U.
type Decomposition struct {
	n       int
	lu      *mat.Dense
	piv     []int
	pivSign int
}

// New computes the LU decomposition of the square matrix a with partial
// pivoting. The input is not modified. Construction succeeds for any square
// matrix; singularity surfaces as a zero Det and as ErrSingular from Solve.
func New(a *mat.Dense) (*Decomposition, error) {
	rows, cols := a.Dims()
	if rows != cols {
		return nil, fmt.Errorf("%w: got %dx%d", ErrNotSquare, rows, cols)
	}

	d := &Decomposition{
		n:       rows,
		lu:      a.Clone(),
		piv:     make([]int, rows),
		pivSign: 1,
	}

	for i := range d.piv {
		d.piv[i] = i
	}

	scratch := make([]float64, rows)

	for k := range d.n {
		// Partial pivoting: bring the largest remaining entry of column k
		// to the diagonal.
		p := k
		for i := k + 1; i < d.n; i++ {
			if math.Abs(d.lu.At(i, k)) > math.Abs(d.lu.At(p, k)) {
				p = i
			}
		}

		if p != k {
			rowP, rowK := d.lu.Row(p), d.lu.Row(k)
			for j := range rowP {
				rowP[j], rowK[j] = rowK[j], rowP[j]
			}

			d.piv[p], d.piv[k] = d.piv[k], d.piv[p]
			d.pivSign = -d.pivSign
		}

		pivot := d.lu.At(k, k)
		if pivot == 0 {
			continue
		}

		// Eliminate below the pivot, updating each trailing row with the
		// scaled pivot row through the vectorized kernels.
		tail := d.lu.Row(k)[k+1:]
		for i := k + 1; i < d.n; i++ {
			rowI := d.lu.Row(i)
			m := rowI[k] / pivot
			rowI[k] = m

			vecmath.ScaleBlock(scratch[:len(tail)], tail, -m)
			vecmath.AddBlockInPlace(rowI[k+1:], scratch[:len(tail)])
		}
	}

	return d, nil
}

// IsSingular reports whether U has a zero diagonal entry.
func (d *Decomposition) IsSingular() bool {
	for i := range d.n {
		if d.lu.At(i, i) == 0 {
			return true
		}
	}

	return false
}

// Det returns the determinant of the decomposed matrix: the product of the
// diagonal of U times the permutation sign.
func (d *Decomposition) Det() float64 {
	det := float64(d.pivSign)
	for i := range d.n {
		det *= d.lu.At(i, i)
	}

	return det
}

// Solve returns the matrix X satisfying A*X = B. Returns mat.ErrShape if the
// row count of b differs from the order of A and ErrSingular if A has no
// inverse.
func (d *Decomposition) Solve(b *mat.Dense) (*mat.Dense, error) {
	rows, cols := b.Dims()
	if rows != d.n {
		return nil, fmt.Errorf("%w: %d right-hand-side rows for order %d", mat.ErrShape, rows, d.n)
	}

	if d.IsSingular() {
		return nil, ErrSingular
	}

	// Apply the row permutation to B.
	x := mat.New(rows, cols)
	for i := range rows {
		copy(x.Row(i), b.Row(d.piv[i]))
	}

	scratch := make([]float64, cols)

	// Forward substitution with unit lower triangular L.
	for k := range d.n {
		rowK := x.Row(k)
		for i := k + 1; i < d.n; i++ {
			vecmath.ScaleBlock(scratch, rowK, -d.lu.At(i, k))
			vecmath.AddBlockInPlace(x.Row(i), scratch)
		}
	}

	// Back substitution with U.
	for k := d.n - 1; k >= 0; k-- {
		rowK := x.Row(k)
		vecmath.ScaleBlockInPlace(rowK, 1/d.lu.At(k, k))

		for i := range k {
			vecmath.ScaleBlock(scratch, rowK, -d.lu.At(i, k))
			vecmath.AddBlockInPlace(x.Row(i), scratch)
		}
	}

	return x, nil
}

// Inverse returns the inverse of the decomposed matrix. Returns ErrSingular
// if no inverse exists.
func (d *Decomposition) Inverse() (*mat.Dense, error) {
	return d.Solve(mat.Identity(d.n))
}
