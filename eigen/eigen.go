// Package eigen computes the eigenvalue decomposition of a real square
// matrix.
//
// For a symmetric matrix A the decomposition is A = V*D*V' with V orthogonal
// and D diagonal holding real eigenvalues in ascending order. For a general
// matrix the eigenvalues may form complex-conjugate pairs; D is then block
// diagonal with 2x2 blocks for each pair, and A = V*D*inverse(V) holds
// whenever V is invertible (guaranteed for distinct eigenvalues).
//
// The symmetric path uses Householder tridiagonalization followed by
// implicit-shift QL iteration. The general path reduces to upper Hessenberg
// form and then to real Schur form with double-shift implicit QR iteration,
// recovering eigenvectors by back-substitution. Both derive from the Algol
// procedures tred2, tql2, orthes and hqr2 (Bowdler, Martin, Reinsch,
// Wilkinson; Handbook for Automatic Computation, Vol. II) via the EISPACK
// lineage.
//
// A Decomposition is immutable once constructed and safe for concurrent
// readers. The matrices returned by Vectors and D are shared, not copied;
// callers must not modify them.
package eigen

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"strings"
	"sync"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-linalg/mat"
)

// Decomposition errors.
var (
	ErrNoConvergence = errors.New("eigen: iteration limit exceeded without convergence")
	ErrNotSquare     = errors.New("eigen: matrix must be square")
)

// eps is the double-precision machine epsilon, 2^-52.
var eps = math.Pow(2, -52)

// zeroTol is the relative tolerance, against the largest eigenvalue
// magnitude, below which an eigenvalue is treated as numerically zero by
// Determinant and Rank.
const zeroTol = 1e-12

// Iteration caps. QL is bounded per eigenvalue index, the Schur reduction is
// bounded in total across the whole matrix. Variables so tests can lower them.
var (
	maxQLIterations      = 1000
	maxSchurIterPerOrder = 30
)

// Decomposition holds the eigenvalue decomposition of a real square matrix.
type Decomposition struct {
	n         int
	symmetric bool

	// v holds the eigenvectors as columns. d and e hold the real and
	// imaginary parts of the eigenvalues.
	v    *mat.Dense
	d, e []float64

	diagOnce sync.Once
	diag     *mat.Dense
}

// New computes the eigenvalue decomposition of the square matrix a. The
// symmetric flag selects the algorithm: the symmetric path yields real
// eigenvalues sorted ascending and an orthogonal eigenvector matrix, the
// general path yields eigenvalues in discovery order with complex-conjugate
// pairs at adjacent indices.
//
// The input is not modified. Returns ErrNotSquare for a non-square input and
// ErrNoConvergence if the iterative reduction fails to converge.
func New(a *mat.Dense, symmetric bool) (*Decomposition, error) {
	rows, cols := a.Dims()
	if rows != cols {
		return nil, fmt.Errorf("%w: got %dx%d", ErrNotSquare, rows, cols)
	}

	ed := &Decomposition{
		n:         rows,
		symmetric: symmetric,
		d:         make([]float64, rows),
		e:         make([]float64, rows),
	}

	if symmetric {
		ed.v = a.Clone()
		ed.tridiagonalize()

		if err := ed.diagonalizeQL(); err != nil {
			return nil, err
		}

		return ed, nil
	}

	// The reductions run in place on a working clone; the orthogonal
	// transform accumulates into v starting from the identity.
	h := a.Clone()
	ed.v = mat.Identity(rows)
	ort := make([]float64, rows)

	ed.reduceHessenberg(h, ort)

	if err := ed.reduceSchur(h); err != nil {
		return nil, err
	}

	return ed, nil
}

// Decompose is a convenience constructor that inspects a for exact symmetry
// and dispatches to the matching pipeline.
func Decompose(a *mat.Dense) (*Decomposition, error) {
	rows, cols := a.Dims()
	if rows != cols {
		return nil, fmt.Errorf("%w: got %dx%d", ErrNotSquare, rows, cols)
	}

	symmetric := true
	for i := 0; i < rows && symmetric; i++ {
		for j := i + 1; j < cols; j++ {
			if a.At(i, j) != a.At(j, i) {
				symmetric = false
				break
			}
		}
	}

	return New(a, symmetric)
}

// Order returns the order of the decomposed matrix.
func (ed *Decomposition) Order() int { return ed.n }

// Symmetric reports which pipeline produced the decomposition.
func (ed *Decomposition) Symmetric() bool { return ed.symmetric }

// Vectors returns the eigenvector matrix. Eigenvector k occupies column k;
// for a complex-conjugate eigenvalue pair the two columns hold the real and
// imaginary parts of the pair's eigenvector. The returned matrix is shared
// with the decomposition and must not be modified.
func (ed *Decomposition) Vectors() *mat.Dense { return ed.v }

// Values returns the eigenvalues as a freshly allocated complex slice.
// Conjugate pairs occupy adjacent indices, the positive-imaginary member
// first.
func (ed *Decomposition) Values() []complex128 {
	out := make([]complex128, ed.n)
	for i := range out {
		out[i] = complex(ed.d[i], ed.e[i])
	}

	return out
}

// D returns the block-diagonal eigenvalue matrix: real eigenvalues on the
// diagonal, each conjugate pair as a 2x2 block with the imaginary part above
// the diagonal for the positive member and below for the negative one.
//
// The matrix is computed on first call and cached; the returned matrix is
// shared and must not be modified.
func (ed *Decomposition) D() *mat.Dense {
	ed.diagOnce.Do(func() {
		d := mat.New(ed.n, ed.n)

		for i := range ed.n {
			d.Set(i, i, ed.d[i])

			switch {
			case ed.e[i] > 0:
				d.Set(i, i+1, ed.e[i])
			case ed.e[i] < 0:
				d.Set(i, i-1, ed.e[i])
			}
		}

		ed.diag = d
	})

	return ed.diag
}

// magnitudes returns |lambda_k| for every eigenvalue along with the largest
// magnitude, used as the reference scale for the numerical-zero test.
func (ed *Decomposition) magnitudes() (mags []float64, ref float64) {
	mags = make([]float64, ed.n)
	vecmath.Magnitude(mags, ed.d, ed.e)

	return mags, vecmath.MaxAbs(mags)
}

// Determinant returns the magnitude of the product of all eigenvalues, which
// equals |det(A)|. It returns 0 as soon as any eigenvalue is numerically zero
// relative to the largest eigenvalue magnitude.
func (ed *Decomposition) Determinant() float64 {
	mags, ref := ed.magnitudes()

	prod := complex(1, 0)
	for i, m := range mags {
		if m <= zeroTol*ref {
			return 0
		}

		prod *= complex(ed.d[i], ed.e[i])
	}

	return cmplx.Abs(prod)
}

// Rank returns the number of eigenvalues that are not numerically zero,
// using the same relative tolerance as Determinant.
func (ed *Decomposition) Rank() int {
	mags, ref := ed.magnitudes()

	rank := 0
	for _, m := range mags {
		if m > zeroTol*ref {
			rank++
		}
	}

	return rank
}

// String renders the block-diagonal eigenvalue matrix followed by the
// eigenvector matrix.
func (ed *Decomposition) String() string {
	var sb strings.Builder

	sb.WriteString("D:\n")
	sb.WriteString(ed.D().String())
	sb.WriteString("V:\n")
	sb.WriteString(ed.v.String())

	return sb.String()
}
