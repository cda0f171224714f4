// Standard attribute keys for model logging.
//
// Keys follow a hierarchical naming convention ("model.name", "data.samples")
// so that log pipelines can filter on them.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model, e.g. "Lasso", "ElasticNet".
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey identifies which package emitted the record.
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of model lifecycle.
	PhaseKey = "ml.phase"
)

// Data Shape
const (
	// SamplesKey is the number of rows of the design matrix.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of columns of the design matrix.
	FeaturesKey = "data.features"

	// ColumnKey identifies a single design-matrix column.
	ColumnKey = "data.column"
)

// Performance and solver progress
const (
	DurationMsKey = "perf.duration_ms"

	// IterationKey is the 1-based sweep number of the coordinate descent loop.
	IterationKey = "training.iteration"

	// MaxChangeKey is the largest absolute coefficient change in a sweep.
	MaxChangeKey = "training.max_change"

	// ConvergedKey reports whether the tolerance was met before the cap.
	ConvergedKey = "training.converged"

	// NonZeroKey is the number of non-zero coefficients after a fit.
	NonZeroKey = "model.non_zero"

	R2ScoreKey = "metrics.r2_score"
)

// Hyperparameters
const (
	// RegularizationKey records the overall regularization strength lambda.
	RegularizationKey = "hyperparams.regularization"

	// L1RatioKey records the ElasticNet mixing weight alpha.
	L1RatioKey = "hyperparams.l1_ratio"

	// MaxIterKey records the sweep cap.
	MaxIterKey = "hyperparams.max_iter"

	// TolKey records the convergence tolerance.
	TolKey = "hyperparams.tol"
)

// Error Context
const (
	ErrorCodeKey  = "error.code"
	SuggestionKey = "error.suggestion"
)

// Standard attribute values.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationScore   = "score"
	OperationPath    = "path"

	PhaseTraining      = "training"
	PhaseInference     = "inference"
	PhasePreprocessing = "preprocessing"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorInvalidParam      = "INVALID_HYPERPARAMETER"
	ErrorDegenerateColumn  = "DEGENERATE_COLUMN"
	ErrorConvergence       = "CONVERGENCE_FAILURE"
)
