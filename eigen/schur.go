package eigen

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-linalg/mat"
)

// cdiv performs the complex division (xr + xi*i) / (yr + yi*i), choosing the
// branch that keeps the intermediate ratio at most one in magnitude.
func cdiv(xr, xi, yr, yi float64) (float64, float64) {
	if math.Abs(yr) > math.Abs(yi) {
		r := yi / yr
		d := yr + r*yi

		return (xr + r*xi) / d, (xi - r*xr) / d
	}

	r := yr / yi
	d := yi + r*yr

	return (r*xr + xi) / d, (r*xi - xr) / d
}

// reduceSchur reduces the upper Hessenberg matrix in hm to real Schur form by
// double-shift implicit QR iteration, accumulating the transform into v. It
// stores the eigenvalues in d (real parts) and e (imaginary parts), then
// back-substitutes within the Schur form and back-transforms to obtain the
// eigenvectors of the original matrix.
//
// Derived from the Algol procedure hqr2 via its EISPACK descendants. Returns
// ErrNoConvergence once the total number of QR iterations exceeds 30 times
// the matrix order.
func (ed *Decomposition) reduceSchur(hm *mat.Dense) error {
	nn := ed.n
	v, d, e := ed.v, ed.d, ed.e

	n := nn - 1
	exshift := 0.0

	var p, q, r, s, z, w, x, y float64

	// Norm over the Hessenberg envelope; the deflation and back-substitution
	// tolerances are relative to it.
	norm := 0.0
	for i := range nn {
		for j := max(i-1, 0); j < nn; j++ {
			norm += math.Abs(hm.At(i, j))
		}
	}

	iter := 0
	totalIter := 0

	for n >= 0 {
		// Deflation search: scan upward for a negligible sub-diagonal entry.
		l := n
		for l > 0 {
			s = math.Abs(hm.At(l-1, l-1)) + math.Abs(hm.At(l, l))
			if s == 0 {
				s = norm
			}

			if math.Abs(hm.At(l, l-1)) < eps*s {
				break
			}

			l--
		}

		switch {
		case l == n:
			// One real root found.
			hm.Set(n, n, hm.At(n, n)+exshift)
			d[n] = hm.At(n, n)
			e[n] = 0
			n--
			iter = 0

		case l == n-1:
			// A pair of roots from the trailing 2x2 block.
			w = hm.At(n, n-1) * hm.At(n-1, n)
			p = (hm.At(n-1, n-1) - hm.At(n, n)) / 2
			q = p*p + w
			z = math.Sqrt(math.Abs(q))
			hm.Set(n, n, hm.At(n, n)+exshift)
			hm.Set(n-1, n-1, hm.At(n-1, n-1)+exshift)
			x = hm.At(n, n)

			if q >= 0 {
				// Real pair: apply and accumulate an explicit rotation.
				if p >= 0 {
					z = p + z
				} else {
					z = p - z
				}

				d[n-1] = x + z
				d[n] = d[n-1]
				if z != 0 {
					d[n] = x - w/z
				}
				e[n-1] = 0
				e[n] = 0

				x = hm.At(n, n-1)
				s = math.Abs(x) + math.Abs(z)
				p = x / s
				q = z / s
				r = math.Sqrt(p*p + q*q)
				p /= r
				q /= r

				for j := n - 1; j < nn; j++ {
					z = hm.At(n-1, j)
					hm.Set(n-1, j, q*z+p*hm.At(n, j))
					hm.Set(n, j, q*hm.At(n, j)-p*z)
				}

				for i := 0; i <= n; i++ {
					z = hm.At(i, n-1)
					hm.Set(i, n-1, q*z+p*hm.At(i, n))
					hm.Set(i, n, q*hm.At(i, n)-p*z)
				}

				for i := range nn {
					z = v.At(i, n-1)
					v.Set(i, n-1, q*z+p*v.At(i, n))
					v.Set(i, n, q*v.At(i, n)-p*z)
				}
			} else {
				// Complex-conjugate pair; no rotation needed.
				d[n-1] = x + p
				d[n] = x + p
				e[n-1] = z
				e[n] = -z
			}

			n -= 2
			iter = 0

		default:
			// No root isolated yet: one double-shift QR step.
			x = hm.At(n, n)
			y = 0
			w = 0
			if l < n {
				y = hm.At(n-1, n-1)
				w = hm.At(n, n-1) * hm.At(n-1, n)
			}

			// Exceptional shifts to escape stagnation.
			if iter == 10 {
				exshift += x
				for i := 0; i <= n; i++ {
					hm.Set(i, i, hm.At(i, i)-x)
				}

				s = math.Abs(hm.At(n, n-1)) + math.Abs(hm.At(n-1, n-2))
				y = 0.75 * s
				x = y
				w = -0.4375 * s * s
			}

			if iter == 30 {
				s = (y - x) / 2
				s = s*s + w
				if s > 0 {
					s = math.Sqrt(s)
					if y < x {
						s = -s
					}

					s = x - w/((y-x)/2+s)
					for i := 0; i <= n; i++ {
						hm.Set(i, i, hm.At(i, i)-s)
					}

					exshift += s
					x, y, w = 0.964, 0.964, 0.964
				}
			}

			iter++
			totalIter++
			if totalIter > maxSchurIterPerOrder*nn {
				return fmt.Errorf("%w: Schur reduction exceeded %d iterations", ErrNoConvergence, maxSchurIterPerOrder*nn)
			}

			// Look for two consecutive small sub-diagonal elements.
			m := n - 2
			for m >= l {
				z = hm.At(m, m)
				r = x - z
				s = y - z
				p = (r*s-w)/hm.At(m+1, m) + hm.At(m, m+1)
				q = hm.At(m+1, m+1) - z - r - s
				r = hm.At(m+2, m+1)
				s = math.Abs(p) + math.Abs(q) + math.Abs(r)
				p /= s
				q /= s
				r /= s

				if m == l {
					break
				}

				if math.Abs(hm.At(m, m-1))*(math.Abs(q)+math.Abs(r)) <
					eps*(math.Abs(p)*(math.Abs(hm.At(m-1, m-1))+math.Abs(z)+math.Abs(hm.At(m+1, m+1)))) {
					break
				}

				m--
			}

			for i := m + 2; i <= n; i++ {
				hm.Set(i, i-2, 0)
				if i > m+2 {
					hm.Set(i, i-3, 0)
				}
			}

			// Double QR sweep over rows m..n.
			for k := m; k < n; k++ {
				notLast := k != n-1

				if k != m {
					p = hm.At(k, k-1)
					q = hm.At(k+1, k-1)
					r = 0
					if notLast {
						r = hm.At(k+2, k-1)
					}

					x = math.Abs(p) + math.Abs(q) + math.Abs(r)
					if x != 0 {
						p /= x
						q /= x
						r /= x
					}
				}

				if x == 0 {
					break
				}

				s = math.Sqrt(p*p + q*q + r*r)
				if p < 0 {
					s = -s
				}

				if s == 0 {
					continue
				}

				if k != m {
					hm.Set(k, k-1, -s*x)
				} else if l != m {
					hm.Set(k, k-1, -hm.At(k, k-1))
				}

				p += s
				x = p / s
				y = q / s
				z = r / s
				q /= p
				r /= p

				// Row modification.
				for j := k; j < nn; j++ {
					p = hm.At(k, j) + q*hm.At(k+1, j)
					if notLast {
						p += r * hm.At(k+2, j)
						hm.Set(k+2, j, hm.At(k+2, j)-p*z)
					}

					hm.Set(k, j, hm.At(k, j)-p*x)
					hm.Set(k+1, j, hm.At(k+1, j)-p*y)
				}

				// Column modification.
				for i := 0; i <= min(n, k+3); i++ {
					p = x*hm.At(i, k) + y*hm.At(i, k+1)
					if notLast {
						p += z * hm.At(i, k+2)
						hm.Set(i, k+2, hm.At(i, k+2)-p*r)
					}

					hm.Set(i, k, hm.At(i, k)-p)
					hm.Set(i, k+1, hm.At(i, k+1)-p*q)
				}

				// Accumulate the transform.
				for i := range nn {
					p = x*v.At(i, k) + y*v.At(i, k+1)
					if notLast {
						p += z * v.At(i, k+2)
						v.Set(i, k+2, v.At(i, k+2)-p*r)
					}

					v.Set(i, k, v.At(i, k)-p)
					v.Set(i, k+1, v.At(i, k+1)-p*q)
				}
			}
		}
	}

	ed.backSubstitute(hm, norm)

	return nil
}

// backSubstitute solves triangular systems within the Schur form to recover
// its eigenvectors, then back-transforms them by the accumulated orthogonal
// transform so v holds eigenvectors of the original matrix.
func (ed *Decomposition) backSubstitute(hm *mat.Dense, norm float64) {
	nn := ed.n
	v, d, e := ed.v, ed.d, ed.e

	if norm == 0 {
		return
	}

	var p, q, r, s, z, w, x, y, t float64

	for n := nn - 1; n >= 0; n-- {
		p = d[n]
		q = e[n]

		switch {
		case q == 0:
			// Real eigenvector.
			l := n
			hm.Set(n, n, 1)

			for i := n - 1; i >= 0; i-- {
				w = hm.At(i, i) - p

				r = 0
				for j := l; j <= n; j++ {
					r += hm.At(i, j) * hm.At(j, n)
				}

				if e[i] < 0 {
					z = w
					s = r
					continue
				}

				l = i
				if e[i] == 0 {
					if w != 0 {
						hm.Set(i, n, -r/w)
					} else {
						hm.Set(i, n, -r/(eps*norm))
					}
				} else {
					// Solve the real 2x2 system for the conjugate block.
					x = hm.At(i, i+1)
					y = hm.At(i+1, i)
					q = (d[i]-p)*(d[i]-p) + e[i]*e[i]
					t = (x*s - z*r) / q
					hm.Set(i, n, t)

					if math.Abs(x) > math.Abs(z) {
						hm.Set(i+1, n, (-r-w*t)/x)
					} else {
						hm.Set(i+1, n, (-s-y*t)/z)
					}
				}

				// Overflow control.
				t = math.Abs(hm.At(i, n))
				if (eps*t)*t > 1 {
					for j := i; j <= n; j++ {
						hm.Set(j, n, hm.At(j, n)/t)
					}
				}
			}

		case q < 0:
			// Complex eigenvector; columns n-1 and n hold its real and
			// imaginary parts.
			l := n - 1

			if math.Abs(hm.At(n, n-1)) > math.Abs(hm.At(n-1, n)) {
				hm.Set(n-1, n-1, q/hm.At(n, n-1))
				hm.Set(n-1, n, -(hm.At(n, n)-p)/hm.At(n, n-1))
			} else {
				cr, ci := cdiv(0, -hm.At(n-1, n), hm.At(n-1, n-1)-p, q)
				hm.Set(n-1, n-1, cr)
				hm.Set(n-1, n, ci)
			}

			hm.Set(n, n-1, 0)
			hm.Set(n, n, 1)

			for i := n - 2; i >= 0; i-- {
				ra := 0.0
				sa := 0.0
				for j := l; j <= n; j++ {
					ra += hm.At(i, j) * hm.At(j, n-1)
					sa += hm.At(i, j) * hm.At(j, n)
				}

				w = hm.At(i, i) - p

				if e[i] < 0 {
					z = w
					r = ra
					s = sa
					continue
				}

				l = i
				if e[i] == 0 {
					cr, ci := cdiv(-ra, -sa, w, q)
					hm.Set(i, n-1, cr)
					hm.Set(i, n, ci)
				} else {
					// Solve the complex 2x2 system for the conjugate block.
					x = hm.At(i, i+1)
					y = hm.At(i+1, i)
					vr := (d[i]-p)*(d[i]-p) + e[i]*e[i] - q*q
					vi := (d[i] - p) * 2 * q
					if vr == 0 && vi == 0 {
						vr = eps * norm * (math.Abs(w) + math.Abs(q) + math.Abs(x) + math.Abs(y) + math.Abs(z))
					}

					cr, ci := cdiv(x*r-z*ra+q*sa, x*s-z*sa-q*ra, vr, vi)
					hm.Set(i, n-1, cr)
					hm.Set(i, n, ci)

					if math.Abs(x) > math.Abs(z)+math.Abs(q) {
						hm.Set(i+1, n-1, (-ra-w*hm.At(i, n-1)+q*hm.At(i, n))/x)
						hm.Set(i+1, n, (-sa-w*hm.At(i, n)-q*hm.At(i, n-1))/x)
					} else {
						cr, ci = cdiv(-r-y*hm.At(i, n-1), -s-y*hm.At(i, n), z, q)
						hm.Set(i+1, n-1, cr)
						hm.Set(i+1, n, ci)
					}
				}

				// Overflow control.
				t = math.Max(math.Abs(hm.At(i, n-1)), math.Abs(hm.At(i, n)))
				if (eps*t)*t > 1 {
					for j := i; j <= n; j++ {
						hm.Set(j, n-1, hm.At(j, n-1)/t)
						hm.Set(j, n, hm.At(j, n)/t)
					}
				}
			}
		}
	}

	// Back-transform to eigenvectors of the original matrix.
	for j := nn - 1; j >= 0; j-- {
		for i := range nn {
			z = 0
			for k := 0; k <= j; k++ {
				z += v.At(i, k) * hm.At(k, j)
			}

			v.Set(i, j, z)
		}
	}
}
