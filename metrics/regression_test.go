package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sparsereg/pkg/errors"
)

func vec(values ...float64) *mat.VecDense {
	return mat.NewVecDense(len(values), values)
}

func TestRegressionMetrics(t *testing.T) {
	type metricFunc func(yTrue, yPred mat.Vector) (float64, error)

	yTrue := vec(1, 2, 3, 4)
	yPred := vec(1.5, 2.5, 2.5, 3.5)

	tests := []struct {
		name   string
		metric metricFunc
		want   float64
	}{
		{"MSE", MSE, 0.25},
		{"RMSE", RMSE, 0.5},
		{"MAE", MAE, 0.5},
		// tss = 5, rss = 1
		{"R2Score", R2Score, 0.8},
		// (0.5/1 + 0.5/2 + 0.5/3 + 0.5/4) / 4 * 100
		{"MAPE", MAPE, (0.5 + 0.25 + 0.5/3 + 0.125) / 4 * 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.metric(yTrue, yPred)
			if err != nil {
				t.Fatalf("%s() error = %v", tt.name, err)
			}
			if math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("%s() = %v, want %v", tt.name, got, tt.want)
			}
		})

		t.Run(tt.name+"/perfect", func(t *testing.T) {
			got, err := tt.metric(yTrue, yTrue)
			if err != nil {
				t.Fatal(err)
			}
			want := 0.0
			if tt.name == "R2Score" {
				want = 1.0
			}
			if math.Abs(got-want) > 1e-12 {
				t.Errorf("%s() on perfect prediction = %v, want %v", tt.name, got, want)
			}
		})

		t.Run(tt.name+"/dimension mismatch", func(t *testing.T) {
			_, err := tt.metric(vec(1, 2, 3), vec(1, 2))
			if !errors.Is(err, errors.ErrShapeMismatch) {
				t.Errorf("expected ErrShapeMismatch, got %v", err)
			}
		})

		t.Run(tt.name+"/empty", func(t *testing.T) {
			if _, err := tt.metric(&mat.VecDense{}, &mat.VecDense{}); err == nil {
				t.Error("expected error for empty input")
			}
		})
	}
}

func TestR2ScoreEdgeCases(t *testing.T) {
	if _, err := R2Score(vec(3, 3, 3), vec(2, 3, 4)); err == nil {
		t.Error("expected error when yTrue has no variance")
	}

	// worse than predicting the mean
	got, err := R2Score(vec(1, 2, 3, 4), vec(4, 3, 2, 1))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-(-3)) > 1e-10 {
		t.Errorf("R2Score() = %v, want -3", got)
	}
}

func TestMAPEAllZero(t *testing.T) {
	if _, err := MAPE(vec(0, 0), vec(1, 2)); err == nil {
		t.Error("expected error when all yTrue values are zero")
	}
}

func TestMSEMatrix(t *testing.T) {
	yTrue := mat.NewDense(3, 1, []float64{1, 2, 3})
	yPred := mat.NewDense(3, 1, []float64{1, 2, 5})

	got, err := MSEMatrix(yTrue, yPred)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-4.0/3.0) > 1e-12 {
		t.Errorf("MSEMatrix() = %v, want %v", got, 4.0/3.0)
	}

	if _, err := MSEMatrix(mat.NewDense(2, 2, nil), mat.NewDense(2, 2, nil)); err == nil {
		t.Error("expected error for multi-column input")
	}
	if _, err := MSEMatrix(yTrue, mat.NewDense(2, 1, nil)); err == nil {
		t.Error("expected error for row mismatch")
	}
}

func TestSparsity(t *testing.T) {
	v := vec(0, 1.5, 0, -2, 0)

	if got := CountNonZero(v); got != 2 {
		t.Errorf("CountNonZero() = %d, want 2", got)
	}

	support := Support(v)
	if len(support) != 2 || support[0] != 1 || support[1] != 3 {
		t.Errorf("Support() = %v, want [1 3]", support)
	}

	if got := L1Norm(v); got != 3.5 {
		t.Errorf("L1Norm() = %v, want 3.5", got)
	}

	if Support(vec(0, 0)) != nil {
		t.Error("Support() of zero vector should be nil")
	}
}

func BenchmarkMSE(b *testing.B) {
	size := 10000
	yTrue := mat.NewVecDense(size, nil)
	yPred := mat.NewVecDense(size, nil)
	for i := 0; i < size; i++ {
		yTrue.SetVec(i, float64(i))
		yPred.SetVec(i, float64(i)+0.1*float64(i%10))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = MSE(yTrue, yPred)
	}
}
