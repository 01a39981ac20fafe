package lu

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-linalg/mat"
)

func fromRows(t *testing.T, rows [][]float64) *mat.Dense {
	t.Helper()

	m, err := mat.FromRows(rows)
	if err != nil {
		t.Fatal(err)
	}

	return m
}

func TestDet(t *testing.T) {
	cases := []struct {
		name string
		rows [][]float64
		want float64
	}{
		{"identity", [][]float64{{1, 0}, {0, 1}}, 1},
		{"rotation", [][]float64{{0, -1}, {1, 0}}, 1},
		{"tridiagonal", [][]float64{{2, -1, 0}, {-1, 2, -1}, {0, -1, 2}}, 4},
		{"singular", [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := New(fromRows(t, tc.rows))
			if err != nil {
				t.Fatal(err)
			}

			if got := d.Det(); math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("Det = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSolve(t *testing.T) {
	a := fromRows(t, [][]float64{
		{4, 3},
		{6, 3},
	})
	b := fromRows(t, [][]float64{
		{10},
		{12},
	})

	d, err := New(a)
	if err != nil {
		t.Fatal(err)
	}

	x, err := d.Solve(b)
	if err != nil {
		t.Fatal(err)
	}

	ax, err := mat.Mul(a, x)
	if err != nil {
		t.Fatal(err)
	}

	if !mat.EqualApprox(ax, b, 1e-12) {
		t.Errorf("A*X != B:\n%v", ax)
	}
}

func TestSolve_MultiColumn(t *testing.T) {
	// Diagonally dominant system with a wide right-hand side, so elimination
	// and both substitution passes sweep full scratch rows.
	const n, cols = 8, 5

	a := mat.New(n, n)
	for i := range n {
		for j := range n {
			a.Set(i, j, 1/float64(i+j+1))
		}

		a.Set(i, i, a.At(i, i)+float64(n))
	}

	b := mat.New(n, cols)
	for i := range n {
		for j := range cols {
			b.Set(i, j, math.Sin(float64(i*cols+j)))
		}
	}

	d, err := New(a)
	if err != nil {
		t.Fatal(err)
	}

	x, err := d.Solve(b)
	if err != nil {
		t.Fatal(err)
	}

	ax, err := mat.Mul(a, x)
	if err != nil {
		t.Fatal(err)
	}

	if !mat.EqualApprox(ax, b, 1e-10) {
		t.Errorf("A*X != B:\n%v", ax)
	}
}

func TestSolve_Singular(t *testing.T) {
	a := fromRows(t, [][]float64{
		{1, 2},
		{2, 4},
	})

	d, err := New(a)
	if err != nil {
		t.Fatal(err)
	}

	if !d.IsSingular() {
		t.Fatal("expected IsSingular")
	}

	if _, err := d.Solve(mat.Identity(2)); !errors.Is(err, ErrSingular) {
		t.Errorf("Solve: err = %v, want ErrSingular", err)
	}
}

func TestInverse(t *testing.T) {
	a := fromRows(t, [][]float64{
		{2, -1, 0},
		{-1, 2, -1},
		{0, -1, 2},
	})

	d, err := New(a)
	if err != nil {
		t.Fatal(err)
	}

	inv, err := d.Inverse()
	if err != nil {
		t.Fatal(err)
	}

	prod, err := mat.Mul(a, inv)
	if err != nil {
		t.Fatal(err)
	}

	if !mat.EqualApprox(prod, mat.Identity(3), 1e-12) {
		t.Errorf("A*inverse(A) != I:\n%v", prod)
	}
}

func TestNotSquare(t *testing.T) {
	if _, err := New(mat.New(2, 3)); !errors.Is(err, ErrNotSquare) {
		t.Errorf("err = %v, want ErrNotSquare", err)
	}
}

func TestSolve_ShapeMismatch(t *testing.T) {
	d, err := New(mat.Identity(3))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := d.Solve(mat.New(2, 1)); !errors.Is(err, mat.ErrShape) {
		t.Errorf("err = %v, want mat.ErrShape", err)
	}
}
