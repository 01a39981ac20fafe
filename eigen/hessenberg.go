package eigen

import (
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-linalg/mat"
)

// reduceHessenberg reduces the general matrix in h to upper Hessenberg form
// by Householder eliminations, then accumulates the product of reflections
// into the identity-initialized eigenvector matrix v. ort carries the
// reflection vectors between the two passes.
//
// Derived from the Algol procedures orthes and ortran via their EISPACK
// descendants.
func (ed *Decomposition) reduceHessenberg(h *mat.Dense, ort []float64) {
	n := ed.n
	v := ed.v

	for m := 1; m <= n-2; m++ {
		// Column scale below the pivot.
		scale := 0.0
		for i := m; i < n; i++ {
			scale += math.Abs(h.At(i, m-1))
		}

		if scale == 0 {
			continue
		}

		// Build the Householder vector.
		hNorm := 0.0
		for i := n - 1; i >= m; i-- {
			ort[i] = h.At(i, m-1) / scale
			hNorm += ort[i] * ort[i]
		}

		g := math.Sqrt(hNorm)
		if ort[m] > 0 {
			g = -g
		}

		hNorm -= ort[m] * g
		ort[m] -= g

		// Apply the similarity transform H = (I - u*u'/h) * H * (I - u*u'/h).
		for j := m; j < n; j++ {
			f := 0.0
			for i := n - 1; i >= m; i-- {
				f += ort[i] * h.At(i, j)
			}

			f /= hNorm
			for i := m; i < n; i++ {
				h.Set(i, j, h.At(i, j)-f*ort[i])
			}
		}

		for i := range n {
			row := h.Row(i)
			f := vecmath.DotProduct(ort[m:n], row[m:n]) / hNorm

			for j := m; j < n; j++ {
				row[j] -= f * ort[j]
			}
		}

		ort[m] *= scale
		h.Set(m, m-1, scale*g)
	}

	// Accumulate the reflections into v, last pivot first. The double
	// division avoids a possible underflow in the product ort[m]*h[m][m-1].
	for m := n - 2; m >= 1; m-- {
		if h.At(m, m-1) == 0 {
			continue
		}

		for i := m + 1; i < n; i++ {
			ort[i] = h.At(i, m-1)
		}

		for j := m; j < n; j++ {
			g := 0.0
			for i := m; i < n; i++ {
				g += ort[i] * v.At(i, j)
			}

			g = (g / ort[m]) / h.At(m, m-1)

			for i := m; i < n; i++ {
				v.Set(i, j, v.At(i, j)+g*ort[i])
			}
		}
	}
}
