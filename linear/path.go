package linear

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sparsereg/pkg/errors"
	"github.com/YuminosukeSato/sparsereg/pkg/log"
	"github.com/YuminosukeSato/sparsereg/preprocessing"
)

// LambdaMax returns the smallest lambda for which every coefficient is zero:
// max_j |X_j·y| / alpha on the column-normalized design. alpha must be in (0, 1].
func LambdaMax(X mat.Matrix, y mat.Vector, alpha float64, opts ...Option) (float64, error) {
	if err := validateAlpha(alpha); err != nil {
		return 0, err
	}
	if alpha == 0 {
		return 0, errors.NewHyperparameterError("alpha", "must be positive to bound lambda", alpha)
	}

	cfg := newConfig(opts)
	yv := vectorToSlice(y)
	if err := validateInputs("LambdaMax", X, yv); err != nil {
		return 0, err
	}

	normalizer := preprocessing.NewColumnNormalizer(cfg.policy)
	normalizer.NJobs = cfg.nJobs
	if err := normalizer.Fit(X); err != nil {
		return 0, err
	}
	Xn, err := normalizer.TransformDense(X)
	if err != nil {
		return 0, err
	}

	_, p := Xn.Dims()
	col := make([]float64, len(yv))
	maxAbs := 0.0
	for j := 0; j < p; j++ {
		mat.Col(col, j, Xn)
		maxAbs = math.Max(maxAbs, math.Abs(floats.Dot(col, yv)))
	}

	return maxAbs / alpha, nil
}

// LambdaGrid returns k values decreasing geometrically from lambdaMax to
// lambdaMax*ratio.
func LambdaGrid(lambdaMax, ratio float64, k int) ([]float64, error) {
	if err := validateLambda(lambdaMax); err != nil {
		return nil, err
	}
	if !(ratio > 0 && ratio < 1) {
		return nil, errors.NewHyperparameterError("ratio", "must be in (0, 1)", ratio)
	}
	if k < 1 {
		return nil, errors.NewHyperparameterError("k", "must be at least 1", k)
	}
	if k == 1 {
		return []float64{lambdaMax}, nil
	}

	grid := make([]float64, k)
	for i := range grid {
		grid[i] = lambdaMax * math.Pow(ratio, float64(i)/float64(k-1))
	}
	return grid, nil
}

// Path fits one model per lambda. Every fit starts from zero coefficients;
// results do not depend on the order of lambdas. All lambdas are validated
// before the first fit.
func Path(X mat.Matrix, y mat.Vector, lambdas []float64, alpha float64, opts ...Option) ([]*FitResult, error) {
	if len(lambdas) == 0 {
		return nil, errors.NewHyperparameterError("lambdas", "must not be empty", 0)
	}
	for _, lambda := range lambdas {
		if err := validateLambda(lambda); err != nil {
			return nil, err
		}
	}

	cfg := newConfig(opts)
	name := modelNameFor(alpha)
	logger := cfg.loggerFor(name)
	logger.Info("path started",
		log.OperationKey, log.OperationPath,
		log.L1RatioKey, alpha,
		"path.n_lambdas", len(lambdas),
	)

	yv := vectorToSlice(y)
	results := make([]*FitResult, len(lambdas))
	for i, lambda := range lambdas {
		res, err := fitRecovered(name, X, yv, lambda, alpha, cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "path fit %d (lambda=%g)", i, lambda)
		}
		results[i] = res
	}

	return results, nil
}
