// Package sparsereg fits sparse linear regression models in Go.
//
// Lasso (L1) and ElasticNet (L1/L2) models are fitted by cyclic coordinate
// descent on a design matrix whose columns have been scaled to unit Euclidean
// norm. There is no centering and no intercept.
//
// # Quick Start
//
//	X := mat.NewDense(4, 2, []float64{
//	    1, 0.5,
//	    2, 0.1,
//	    3, 0.9,
//	    4, 0.3,
//	})
//	y := mat.NewVecDense(4, []float64{2, 4, 6, 8})
//
//	res, err := linear.FitLasso(X, y, 0.1)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Coefficients, res.Predictions, res.Converged)
//
// The estimator form keeps the training column norms for new data:
//
//	en := linear.NewElasticNet(0.5, 0.7, linear.WithMaxIter(5000))
//	if err := en.Fit(X, yColumn); err != nil {
//	    log.Fatal(err)
//	}
//	pred, err := en.Predict(XNew)
//
// # Packages
//
//   - linear: FitLasso, FitElasticNet, the Lasso and ElasticNet estimators and
//     regularization path helpers
//   - preprocessing: column normalization with a zero-norm column policy
//   - metrics: MSE, RMSE, MAE, R², sparsity summaries
//   - dataset: CSV loading
//   - visualization: coefficient path plots
//   - core/model: interfaces, fitted state, weight serialization
//   - core/parallel: parallel helpers for normalization and prediction
//   - pkg/errors, pkg/log: error types and structured logging
//
// # Errors
//
// Rejected inputs are classified by three sentinels, checked with errors.Is:
// errors.ErrShapeMismatch, errors.ErrInvalidHyperparameter and
// errors.ErrDegenerateColumn. Reaching the iteration cap is not an error; the
// result reports Converged = false and a ConvergenceWarning is emitted.
package sparsereg
