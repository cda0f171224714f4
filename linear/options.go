package linear

import (
	"math"

	"github.com/YuminosukeSato/sparsereg/pkg/errors"
	"github.com/YuminosukeSato/sparsereg/pkg/log"
	"github.com/YuminosukeSato/sparsereg/preprocessing"
)

const (
	// DefaultMaxIter is the default sweep cap.
	DefaultMaxIter = 1000

	// DefaultTol is the default absolute tolerance on the largest coefficient
	// change within one sweep.
	DefaultTol = 1e-4
)

// config holds the solver settings shared by the function API and the estimators.
type config struct {
	maxIter int
	tol     float64
	policy  preprocessing.ZeroColumnPolicy
	nJobs   int
	logger  log.Logger
}

func defaultConfig() config {
	return config{
		maxIter: DefaultMaxIter,
		tol:     DefaultTol,
		policy:  preprocessing.FailOnZeroColumn,
		nJobs:   1,
	}
}

func newConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (c config) validate() error {
	if c.maxIter < 1 {
		return errors.NewHyperparameterError("max_iter", "must be at least 1", c.maxIter)
	}
	if c.tol < 0 || math.IsNaN(c.tol) || math.IsInf(c.tol, 0) {
		return errors.NewHyperparameterError("tol", "must be a finite non-negative number", c.tol)
	}
	return nil
}

// loggerFor returns the configured logger, or the package component logger.
func (c config) loggerFor(modelName string) log.Logger {
	logger := c.logger
	if logger == nil {
		logger = log.GetLoggerWithName("linear")
	}
	return logger.With(log.ModelNameKey, modelName)
}

// Option configures a fit.
type Option func(*config)

// WithMaxIter sets the maximum number of sweeps
func WithMaxIter(n int) Option {
	return func(c *config) {
		c.maxIter = n
	}
}

// WithTol sets the convergence tolerance
func WithTol(tol float64) Option {
	return func(c *config) {
		c.tol = tol
	}
}

// WithZeroColumnPolicy sets how zero-norm columns are handled during normalization
func WithZeroColumnPolicy(policy preprocessing.ZeroColumnPolicy) Option {
	return func(c *config) {
		c.policy = policy
	}
}

// WithNJobs sets the number of workers used for normalization and prediction.
// The coordinate loop itself always runs sequentially.
func WithNJobs(n int) Option {
	return func(c *config) {
		c.nJobs = n
	}
}

// WithLogger sets the logger that receives fit progress
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}
