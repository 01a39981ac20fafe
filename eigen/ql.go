package eigen

import (
	"fmt"
	"math"
)

// diagonalizeQL reduces the tridiagonal form in d and e to diagonal form by
// implicit-shift QL iteration, rotating the eigenvector columns of v to
// match. On return d holds the eigenvalues sorted ascending, e is zeroed and
// the columns of v are permuted alongside d.
//
// Derived from the Algol procedure tql2 via its EISPACK descendants. Returns
// ErrNoConvergence if any eigenvalue index needs more than maxQLIterations
// iterations.
func (ed *Decomposition) diagonalizeQL() error {
	n := ed.n
	v, d, e := ed.v, ed.d, ed.e

	for i := 1; i < n; i++ {
		e[i-1] = e[i]
	}
	e[n-1] = 0

	f := 0.0
	tst1 := 0.0

	for l := range n {
		// Find a small off-diagonal element. tst1 is a running magnitude
		// estimate so the test stays relative.
		tst1 = math.Max(tst1, math.Abs(d[l])+math.Abs(e[l]))

		m := l
		for m < n && math.Abs(e[m]) > eps*tst1 {
			m++
		}

		// If m == l, d[l] is already an eigenvalue. Otherwise iterate.
		if m > l {
			for iter := 1; ; iter++ {
				if iter > maxQLIterations {
					return fmt.Errorf("%w: QL iteration stalled at index %d", ErrNoConvergence, l)
				}

				// Implicit shift from the leading 2x2 block.
				g := d[l]
				p := (d[l+1] - g) / (2 * e[l])
				r := math.Hypot(p, 1)
				if p < 0 {
					r = -r
				}

				d[l] = e[l] / (p + r)
				d[l+1] = e[l] * (p + r)
				dl1 := d[l+1]

				h := g - d[l]
				for i := l + 2; i < n; i++ {
					d[i] -= h
				}
				f += h

				// One implicit QL sweep of plane rotations from m-1 down
				// to l, accumulating each rotation into the eigenvectors.
				p = d[m]
				c, c2, c3 := 1.0, 1.0, 1.0
				el1 := e[l+1]
				s, s2 := 0.0, 0.0

				for i := m - 1; i >= l; i-- {
					c3 = c2
					c2 = c
					s2 = s
					g = c * e[i]
					h = c * p
					r = math.Hypot(p, e[i])
					e[i+1] = s * r
					s = e[i] / r
					c = p / r
					p = c*d[i] - s*g
					d[i+1] = h + s*(c*g+s*d[i])

					for k := range n {
						row := v.Row(k)
						h = row[i+1]
						row[i+1] = s*row[i] + c*h
						row[i] = c*row[i] - s*h
					}
				}

				p = -s * s2 * c3 * el1 * e[l] / dl1
				e[l] = s * p
				d[l] = c * p

				if math.Abs(e[l]) <= eps*tst1 {
					break
				}
			}
		}

		d[l] += f
		e[l] = 0
	}

	// Selection sort ascending, swapping eigenvector columns alongside.
	for i := range n - 1 {
		k := i
		p := d[i]

		for j := i + 1; j < n; j++ {
			if d[j] < p {
				k = j
				p = d[j]
			}
		}

		if k != i {
			d[k] = d[i]
			d[i] = p

			for j := range n {
				row := v.Row(j)
				row[i], row[k] = row[k], row[i]
			}
		}
	}

	return nil
}
