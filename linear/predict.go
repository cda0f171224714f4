package linear

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sparsereg/core/parallel"
)

// rowParallelThreshold は予測を並列化する最小行数
const rowParallelThreshold = 1000

// predict は X·β を計算する。各行は一つのワーカーだけが書き込むので、
// 結果はワーカー数に依存しない。
func predict(X mat.Matrix, beta []float64, nJobs int) *mat.VecDense {
	r, c := X.Dims()
	out := make([]float64, r)

	dense, isDense := X.(*mat.Dense)
	parallel.ParallelizeWithThreshold(r, rowParallelThreshold, parallel.Workers(nJobs), func(start, end int) {
		row := make([]float64, c)
		for i := start; i < end; i++ {
			if isDense {
				out[i] = floats.Dot(dense.RawRowView(i), beta)
				continue
			}
			mat.Row(row, i, X)
			out[i] = floats.Dot(row, beta)
		}
	})

	return mat.NewVecDense(r, out)
}
