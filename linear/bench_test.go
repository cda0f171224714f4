package linear

import (
	"fmt"
	"testing"
)

func BenchmarkFitLasso(b *testing.B) {
	sizes := []struct {
		rows int
		cols int
	}{
		{100, 10},
		{1000, 10},
		{5000, 20},
		{20000, 50},
	}

	for _, size := range sizes {
		X, y := randomProblem(42, size.rows, size.cols)
		b.Run(fmt.Sprintf("%dx%d", size.rows, size.cols), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := FitLasso(X, y, 1); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkFitElasticNetParallel(b *testing.B) {
	X, y := randomProblem(42, 20000, 50)
	for _, nJobs := range []int{1, -1} {
		b.Run(fmt.Sprintf("n_jobs=%d", nJobs), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := FitElasticNet(X, y, 1, 0.5, WithNJobs(nJobs)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
