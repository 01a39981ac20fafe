package eigen

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// tridiagonalize reduces the symmetric matrix held in v to tridiagonal form
// by Householder reflections, processing columns from the last down to the
// second. On return d holds the diagonal, e the off-diagonal (e[0] is zero),
// and v the accumulated orthogonal transform.
//
// Derived from the Algol procedure tred2 via its EISPACK descendants.
func (ed *Decomposition) tridiagonalize() {
	n := ed.n
	v, d, e := ed.v, ed.d, ed.e

	copy(d, v.Row(n-1))

	for i := n - 1; i > 0; i-- {
		// Accumulate the column scale to avoid under/overflow.
		scale := 0.0
		for k := range i {
			scale += math.Abs(d[k])
		}

		if scale == 0 {
			// Column already reduced; copy through.
			e[i] = d[i-1]

			for j := range i {
				d[j] = v.At(i-1, j)
				v.Set(i, j, 0)
				v.Set(j, i, 0)
			}

			d[i] = 0
			continue
		}

		// Generate the Householder vector.
		vecmath.ScaleBlockInPlace(d[:i], 1/scale)
		h := vecmath.DotProduct(d[:i], d[:i])

		f := d[i-1]
		g := math.Sqrt(h)
		if f > 0 {
			g = -g
		}

		e[i] = scale * g
		h -= f * g
		d[i-1] = f - g

		for j := range i {
			e[j] = 0
		}

		// Apply the similarity transform to the trailing block.
		for j := range i {
			f = d[j]
			v.Set(j, i, f)
			g = e[j] + v.At(j, j)*f

			for k := j + 1; k < i; k++ {
				g += v.At(k, j) * d[k]
				e[k] += v.At(k, j) * f
			}

			e[j] = g
		}

		f = 0
		for j := range i {
			e[j] /= h
			f += e[j] * d[j]
		}

		hh := f / (h + h)
		for j := range i {
			e[j] -= hh * d[j]
		}

		// Rank-2 update implied by the reflection.
		for j := range i {
			f = d[j]
			g = e[j]

			for k := j; k < i; k++ {
				v.Set(k, j, v.At(k, j)-(f*e[k]+g*d[k]))
			}

			d[j] = v.At(i-1, j)
			v.Set(i, j, 0)
		}

		d[i] = h
	}

	// Accumulate the product of reflections into the eigenvector matrix.
	for i := range n - 1 {
		v.Set(n-1, i, v.At(i, i))
		v.Set(i, i, 1)

		h := d[i+1]
		if h != 0 {
			for k := 0; k <= i; k++ {
				d[k] = v.At(k, i+1) / h
			}

			for j := 0; j <= i; j++ {
				g := 0.0
				for k := 0; k <= i; k++ {
					g += v.At(k, i+1) * v.At(k, j)
				}

				for k := 0; k <= i; k++ {
					v.Set(k, j, v.At(k, j)-g*d[k])
				}
			}
		}

		for k := 0; k <= i; k++ {
			v.Set(k, i+1, 0)
		}
	}

	// Finalize the diagonal.
	copy(d, v.Row(n-1))

	for j := range n {
		v.Set(n-1, j, 0)
	}

	v.Set(n-1, n-1, 1)
	e[0] = 0
}
