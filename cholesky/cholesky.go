// Package cholesky provides the Cholesky decomposition of a symmetric
// positive definite matrix: A = L*L' with L lower triangular. It is the
// cheapest of the library's factorizations and doubles as a positive
// definiteness test.
package cholesky

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-linalg/mat"
)

// Decomposition errors.
var (
	ErrNotSquare           = errors.New("cholesky: matrix must be square")
	ErrNotPositiveDefinite = errors.New("cholesky: matrix is not symmetric positive definite")
)

// Decomposition holds the lower triangular Cholesky factor.
type Decomposition struct {
	n int
	l *mat.Dense
}

// New computes the Cholesky factorization of the square matrix a, reading
// only its lower triangle. The input is not modified. Returns
// ErrNotPositiveDefinite if a pivot is not strictly positive.
func New(a *mat.Dense) (*Decomposition, error) {
	rows, cols := a.Dims()
	if rows != cols {
		return nil, fmt.Errorf("%w: got %dx%d", ErrNotSquare, rows, cols)
	}

	d := &Decomposition{n: rows, l: mat.New(rows, rows)}

	for i := range rows {
		rowI := d.l.Row(i)

		for j := 0; j <= i; j++ {
			rowJ := d.l.Row(j)
			sum := a.At(i, j) - vecmath.DotProduct(rowI[:j], rowJ[:j])

			if i == j {
				if sum <= 0 {
					return nil, fmt.Errorf("%w: pivot %d", ErrNotPositiveDefinite, i)
				}

				rowI[i] = math.Sqrt(sum)
			} else {
				rowI[j] = sum / rowJ[j]
			}
		}
	}

	return d, nil
}

// L returns the lower triangular factor. The returned matrix is shared with
// the decomposition and must not be modified.
func (d *Decomposition) L() *mat.Dense { return d.l }

// Det returns the determinant of the decomposed matrix, the squared product
// of the diagonal of L.
func (d *Decomposition) Det() float64 {
	det := 1.0
	for i := range d.n {
		v := d.l.At(i, i)
		det *= v * v
	}

	return det
}

// Solve returns the matrix X satisfying A*X = B. Returns mat.ErrShape if the
// row count of b differs from the order of A.
func (d *Decomposition) Solve(b *mat.Dense) (*mat.Dense, error) {
	rows, cols := b.Dims()
	if rows != d.n {
		return nil, fmt.Errorf("%w: %d right-hand-side rows for order %d", mat.ErrShape, rows, d.n)
	}

	x := b.Clone()
	scratch := make([]float64, cols)

	// Forward substitution: L*Y = B.
	for k := range d.n {
		rowK := x.Row(k)
		lk := d.l.Row(k)

		for i := range k {
			vecmath.ScaleBlock(scratch, x.Row(i), -lk[i])
			vecmath.AddBlockInPlace(rowK, scratch)
		}

		vecmath.ScaleBlockInPlace(rowK, 1/lk[k])
	}

	// Back substitution: L'*X = Y.
	for k := d.n - 1; k >= 0; k-- {
		rowK := x.Row(k)

		for i := k + 1; i < d.n; i++ {
			vecmath.ScaleBlock(scratch, x.Row(i), -d.l.At(i, k))
			vecmath.AddBlockInPlace(rowK, scratch)
		}

		vecmath.ScaleBlockInPlace(rowK, 1/d.l.At(k, k))
	}

	return x, nil
}
