package eigen

import (
	"math"
	"strconv"
	"testing"

	"github.com/cwbudde/algo-linalg/mat"
)

func makeBenchSymmetric(n int) *mat.Dense {
	a := mat.New(n, n)
	for i := range n {
		for j := 0; j <= i; j++ {
			v := math.Sin(float64(i*n+j)) + float64(2*n)*boolToFloat(i == j)
			a.Set(i, j, v)
			a.Set(j, i, v)
		}
	}

	return a
}

func makeBenchGeneral(n int) *mat.Dense {
	a := mat.New(n, n)
	for i := range n {
		row := a.Row(i)
		for j := range n {
			row[j] = math.Sin(float64(i*n + j + 1))
		}
	}

	return a
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}

	return 0
}

func BenchmarkNewSymmetric(b *testing.B) {
	for _, n := range []int{8, 32, 128} {
		a := makeBenchSymmetric(n)
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			b.ReportAllocs()

			for range b.N {
				if _, err := New(a, true); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkNewGeneral(b *testing.B) {
	for _, n := range []int{8, 32, 128} {
		a := makeBenchGeneral(n)
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			b.ReportAllocs()

			for range b.N {
				if _, err := New(a, false); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
