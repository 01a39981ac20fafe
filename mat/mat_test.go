package mat

import (
	"math"
	"testing"
)

func TestFromRows(t *testing.T) {
	m, err := FromRows([][]float64{{1, 2}, {3, 4}})
	if err != nil {
		t.Fatal(err)
	}

	if r, c := m.Dims(); r != 2 || c != 2 {
		t.Fatalf("dims = %dx%d, want 2x2", r, c)
	}

	if m.At(1, 0) != 3 {
		t.Errorf("At(1,0) = %v, want 3", m.At(1, 0))
	}
}

func TestFromRows_Ragged(t *testing.T) {
	if _, err := FromRows([][]float64{{1, 2}, {3}}); err == nil {
		t.Error("expected error for ragged input")
	}

	if _, err := FromRows(nil); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestIdentity(t *testing.T) {
	m := Identity(3)
	for i := range 3 {
		for j := range 3 {
			want := 0.0
			if i == j {
				want = 1
			}

			if m.At(i, j) != want {
				t.Errorf("At(%d,%d) = %v, want %v", i, j, m.At(i, j), want)
			}
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	m, _ := FromRows([][]float64{{1, 2}, {3, 4}})
	c := m.Clone()
	c.Set(0, 0, 99)

	if m.At(0, 0) != 1 {
		t.Error("Clone shares storage with the original")
	}
}

func TestTranspose(t *testing.T) {
	m, _ := FromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
	tr := m.Transpose()

	if r, c := tr.Dims(); r != 3 || c != 2 {
		t.Fatalf("dims = %dx%d, want 3x2", r, c)
	}

	for i := range 2 {
		for j := range 3 {
			if m.At(i, j) != tr.At(j, i) {
				t.Errorf("transpose mismatch at (%d,%d)", i, j)
			}
		}
	}
}

func TestMul(t *testing.T) {
	a, _ := FromRows([][]float64{{1, 2}, {3, 4}})
	b, _ := FromRows([][]float64{{5, 6}, {7, 8}})

	got, err := Mul(a, b)
	if err != nil {
		t.Fatal(err)
	}

	want, _ := FromRows([][]float64{{19, 22}, {43, 50}})
	if !EqualApprox(got, want, 1e-14) {
		t.Errorf("Mul:\n%vwant:\n%v", got, want)
	}
}

func TestMul_ShapeMismatch(t *testing.T) {
	a := New(2, 3)
	b := New(2, 3)

	if _, err := Mul(a, b); err == nil {
		t.Error("expected shape error")
	}
}

func TestMulIdentity(t *testing.T) {
	a, _ := FromRows([][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})

	got, err := Mul(a, Identity(3))
	if err != nil {
		t.Fatal(err)
	}

	if !EqualApprox(got, a, 0) {
		t.Error("A*I != A")
	}
}

func TestMulVec(t *testing.T) {
	a, _ := FromRows([][]float64{{1, 2}, {3, 4}})

	got, err := MulVec(a, []float64{1, 1})
	if err != nil {
		t.Fatal(err)
	}

	if got[0] != 3 || got[1] != 7 {
		t.Errorf("MulVec = %v, want [3 7]", got)
	}
}

func TestAddSubScale(t *testing.T) {
	a, _ := FromRows([][]float64{{1, 2}, {3, 4}})
	b, _ := FromRows([][]float64{{4, 3}, {2, 1}})

	sum, err := Add(a, b)
	if err != nil {
		t.Fatal(err)
	}

	wantSum, _ := FromRows([][]float64{{5, 5}, {5, 5}})
	if !EqualApprox(sum, wantSum, 0) {
		t.Errorf("Add:\n%v", sum)
	}

	diff, err := Sub(sum, b)
	if err != nil {
		t.Fatal(err)
	}

	if !EqualApprox(diff, a, 0) {
		t.Errorf("Sub:\n%v", diff)
	}

	twice := Scale(a, 2)
	if twice.At(1, 1) != 8 {
		t.Errorf("Scale: At(1,1) = %v, want 8", twice.At(1, 1))
	}
}

func TestMaxAbs(t *testing.T) {
	m, _ := FromRows([][]float64{{1, -7}, {3, 4}})
	if got := m.MaxAbs(); got != 7 {
		t.Errorf("MaxAbs = %v, want 7", got)
	}
}

func TestEqualApprox(t *testing.T) {
	a, _ := FromRows([][]float64{{1, 2}})
	b, _ := FromRows([][]float64{{1, 2 + 1e-12}})

	if !EqualApprox(a, b, 1e-9) {
		t.Error("expected approximate equality")
	}

	if EqualApprox(a, b, 1e-15) {
		t.Error("expected inequality at tight tolerance")
	}

	if EqualApprox(a, New(2, 1), math.Inf(1)) {
		t.Error("expected shape mismatch to compare unequal")
	}
}

func TestEqualApproxRejectsNaN(t *testing.T) {
	a, _ := FromRows([][]float64{{1, math.NaN()}})
	b, _ := FromRows([][]float64{{1, math.NaN()}})

	if EqualApprox(a, b, 1) {
		t.Error("NaN elements must compare unequal")
	}

	c, _ := FromRows([][]float64{{1, 2}})
	if EqualApprox(a, c, 1) || EqualApprox(c, a, 1) {
		t.Error("NaN against a finite value must compare unequal")
	}
}
