// Package linear fits L1 (Lasso) and L1/L2 (ElasticNet) regularized linear
// models by cyclic coordinate descent on a column-normalized design matrix.
//
// The function API returns coefficients and fitted predictions in one call:
//
//	res, err := linear.FitLasso(X, y, 0.5)
//	res, err := linear.FitElasticNet(X, y, 0.5, 0.7, linear.WithMaxIter(5000))
//
// The estimator API (NewLasso, NewElasticNet) keeps the training column norms
// so that new data can be predicted after Fit.
//
// Both APIs drive the same coordinate loop; Lasso is ElasticNet with alpha
// fixed at 1 and produces bit-identical results.
package linear

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sparsereg/metrics"
	"github.com/YuminosukeSato/sparsereg/pkg/errors"
	"github.com/YuminosukeSato/sparsereg/pkg/log"
	"github.com/YuminosukeSato/sparsereg/preprocessing"
)

// FitResult は一回の学習の結果
//
// Coefficients は正規化された特徴量空間の係数で、Predictions は正規化済み
// 行列に対する予測値。
type FitResult struct {
	// Coefficients は長さ p の係数ベクトル
	Coefficients *mat.VecDense

	// Predictions は長さ n の予測値 X_norm·β
	Predictions *mat.VecDense

	// ColumnNorms は正規化に使われた各列のノルム
	ColumnNorms []float64

	// NIter は実行されたスイープ数
	NIter int

	// Converged は tol 未満で停止したかどうか
	Converged bool

	// MaxChange は最後のスイープでの係数の最大変化量
	MaxChange float64
}

// FitLasso fits an L1-penalized model by cyclic coordinate descent.
//
// X is normalized column-wise before the fit and is never modified.
// It returns an error wrapping errors.ErrShapeMismatch,
// errors.ErrInvalidHyperparameter or errors.ErrDegenerateColumn when the
// inputs are rejected. Reaching the sweep cap is not an error: the result has
// Converged set to false and a ConvergenceWarning is emitted.
func FitLasso(X mat.Matrix, y mat.Vector, lambda float64, opts ...Option) (*FitResult, error) {
	return fitRecovered("Lasso", X, vectorToSlice(y), lambda, 1, newConfig(opts))
}

// FitElasticNet fits a combined L1/L2-penalized model. alpha in [0,1] weights
// the L1 part; alpha = 1 gives exactly FitLasso.
func FitElasticNet(X mat.Matrix, y mat.Vector, lambda, alpha float64, opts ...Option) (*FitResult, error) {
	return fitRecovered("ElasticNet", X, vectorToSlice(y), lambda, alpha, newConfig(opts))
}

// modelNameFor names a function-API fit after its alpha.
func modelNameFor(alpha float64) string {
	if alpha == 1 {
		return "Lasso"
	}
	return "ElasticNet"
}

func vectorToSlice(y mat.Vector) []float64 {
	if y == nil {
		return nil
	}
	out := make([]float64, y.Len())
	for i := range out {
		out[i] = y.AtVec(i)
	}
	return out
}

func validateLambda(lambda float64) error {
	if math.IsNaN(lambda) || math.IsInf(lambda, 0) || lambda < 0 {
		return errors.NewHyperparameterError("lambda", "must be a finite non-negative number", lambda)
	}
	return nil
}

func validateAlpha(alpha float64) error {
	if math.IsNaN(alpha) || alpha < 0 || alpha > 1 {
		return errors.NewHyperparameterError("alpha", "must be in [0, 1]", alpha)
	}
	return nil
}

// validateInputs checks shapes and finiteness. X's values are checked by the
// normalizer.
func validateInputs(op string, X mat.Matrix, y []float64) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewEmptyDataError(op, r, c)
	}
	if len(y) != r {
		return errors.NewDimensionError(op, r, len(y), 0)
	}
	return errors.CheckNumericalStability(op, y, 0)
}

// fitRecovered runs fit and turns a panic raised inside gonum into a
// *errors.PanicError.
func fitRecovered(modelName string, X mat.Matrix, y []float64, lambda, alpha float64, cfg config) (res *FitResult, err error) {
	err = errors.SafeExecute(modelName+".Fit", func() error {
		var fitErr error
		res, _, fitErr = fit(modelName, X, y, lambda, alpha, cfg)
		return fitErr
	})
	return res, err
}

// fit validates everything, normalizes X and runs the coordinate loop.
// The returned normalizer carries the training norms for later prediction.
func fit(modelName string, X mat.Matrix, y []float64, lambda, alpha float64, cfg config) (*FitResult, *preprocessing.ColumnNormalizer, error) {
	op := modelName + ".Fit"

	if err := validateLambda(lambda); err != nil {
		return nil, nil, err
	}
	if err := validateAlpha(alpha); err != nil {
		return nil, nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}
	if err := validateInputs(op, X, y); err != nil {
		return nil, nil, err
	}

	normalizer := preprocessing.NewColumnNormalizer(cfg.policy)
	normalizer.NJobs = cfg.nJobs
	if err := normalizer.Fit(X); err != nil {
		return nil, nil, err
	}
	Xn, err := normalizer.TransformDense(X)
	if err != nil {
		return nil, nil, err
	}

	n, p := Xn.Dims()
	logger := cfg.loggerFor(modelName)
	logger.Info("fit started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, n,
		log.FeaturesKey, p,
		log.RegularizationKey, lambda,
		log.L1RatioKey, alpha,
		log.MaxIterKey, cfg.maxIter,
		log.TolKey, cfg.tol,
	)
	start := time.Now()

	beta, stats, err := coordinateDescent(Xn, y, newPenalty(lambda, alpha, n), cfg.maxIter, cfg.tol, logger)
	if err != nil {
		return nil, nil, err
	}

	result := &FitResult{
		Coefficients: mat.NewVecDense(p, beta),
		Predictions:  predict(Xn, beta, cfg.nJobs),
		ColumnNorms:  normalizer.Norms(),
		NIter:        stats.nIter,
		Converged:    stats.converged,
		MaxChange:    stats.maxChange,
	}

	if !stats.converged {
		errors.Warn(errors.NewConvergenceWarning(modelName, stats.nIter, stats.maxChange, cfg.tol))
	}

	logger.Info("fit completed",
		log.OperationKey, log.OperationFit,
		log.IterationKey, stats.nIter,
		log.ConvergedKey, stats.converged,
		log.MaxChangeKey, stats.maxChange,
		log.NonZeroKey, metrics.CountNonZero(result.Coefficients),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	return result, normalizer, nil
}
