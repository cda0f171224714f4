package linear

import (
	"math"
	"math/bits"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// hadamardDesign returns an 8×4 design whose columns are distinct columns of
// the 8×8 Sylvester Hadamard matrix, each scaled by (j+1). The columns are
// orthogonal, so after normalization every entry is ±1/√8.
func hadamardDesign() *mat.Dense {
	X := mat.NewDense(8, 4, nil)
	for i := 0; i < 8; i++ {
		for j := 0; j < 4; j++ {
			sign := 1.0
			if bits.OnesCount(uint(i&(j+1)))%2 == 1 {
				sign = -1
			}
			X.Set(i, j, sign*float64(j+1))
		}
	}
	return X
}

// orthogonalResponse returns y = n·Xn·b for the Hadamard design, so that the
// partial coefficient of column j at β = 0 is b_j.
func orthogonalResponse(b []float64) *mat.VecDense {
	X := hadamardDesign()
	y := mat.NewVecDense(8, nil)
	for i := 0; i < 8; i++ {
		sum := 0.0
		for j := range b {
			sign := 1.0
			if X.At(i, j) < 0 {
				sign = -1
			}
			sum += sign * b[j]
		}
		y.SetVec(i, math.Sqrt(8)*sum)
	}
	return y
}

func softThreshold(c, s float64) float64 {
	switch {
	case c > s:
		return c - s
	case c < -s:
		return c + s
	default:
		return 0
	}
}

// randomProblem returns a dense design and a response y = X·w + noise with
// a fixed seed.
func randomProblem(seed uint64, rows, cols int) (*mat.Dense, *mat.VecDense) {
	rng := rand.New(rand.NewPCG(seed, seed))

	X := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			X.Set(i, j, rng.Float64()*2.0-1.0)
		}
	}

	w := make([]float64, cols)
	for j := range w {
		if j%2 == 0 {
			w[j] = float64(j+1) * 0.5
		}
	}

	y := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		sum := 0.0
		for j := 0; j < cols; j++ {
			sum += X.At(i, j) * w[j]
		}
		y.SetVec(i, sum+(rng.Float64()-0.5)*0.1)
	}

	return X, y
}

// normalized returns X with unit-norm columns, computed independently of the
// package under test.
func normalized(X mat.Matrix) *mat.Dense {
	r, c := X.Dims()
	out := mat.NewDense(r, c, nil)
	for j := 0; j < c; j++ {
		col := mat.Col(nil, j, X)
		norm := mat.Norm(mat.NewVecDense(r, col), 2)
		for i := range col {
			out.Set(i, j, col[i]/norm)
		}
	}
	return out
}
