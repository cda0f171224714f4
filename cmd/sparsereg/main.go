// Command sparsereg fits Lasso and ElasticNet models to CSV data.
//
// Usage:
//
//	sparsereg fit  -data train.csv -lambda 0.5 [-alpha 0.7] [-weights model.json]
//	sparsereg path -data train.csv [-alpha 1] [-k 30] [-ratio 0.001] [-out path.png]
//
// The last CSV column is the response unless -target says otherwise.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sparsereg/core/model"
	"github.com/YuminosukeSato/sparsereg/dataset"
	"github.com/YuminosukeSato/sparsereg/linear"
	"github.com/YuminosukeSato/sparsereg/metrics"
	"github.com/YuminosukeSato/sparsereg/pkg/errors"
	"github.com/YuminosukeSato/sparsereg/pkg/log"
	"github.com/YuminosukeSato/sparsereg/preprocessing"
	"github.com/YuminosukeSato/sparsereg/visualization"
)

const usage = `usage: sparsereg <command> [flags]

commands:
  fit    fit one model and print coefficients as JSON
  path   fit a lambda grid and optionally plot the coefficient path
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "fit":
		err = runFit(args[1:], stdout, stderr)
	case "path":
		err = runPath(args[1:], stdout, stderr)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n%s", args[0], usage)
		return 2
	}

	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		slog.Error("command failed", slog.String("command", args[0]), log.ErrAttr(err))
		fmt.Fprintf(stderr, "sparsereg %s: %v\n", args[0], err)
		return 1
	}
	return 0
}

// commonFlags are shared by every subcommand.
type commonFlags struct {
	data        string
	target      int
	noHeader    bool
	alpha       float64
	maxIter     int
	tol         float64
	zeroColumns string
	nJobs       int
	logLevel    string
}

func (c *commonFlags) register(fs *flag.FlagSet, defaultAlpha float64) {
	fs.StringVar(&c.data, "data", "", "CSV file with features and response (required)")
	fs.IntVar(&c.target, "target", -1, "index of the response column, negative counts from the end")
	fs.BoolVar(&c.noHeader, "no-header", false, "the CSV file has no header row")
	fs.Float64Var(&c.alpha, "alpha", defaultAlpha, "L1 weight in [0,1]; 1 is Lasso")
	fs.IntVar(&c.maxIter, "max-iter", linear.DefaultMaxIter, "maximum number of sweeps")
	fs.Float64Var(&c.tol, "tol", linear.DefaultTol, "convergence tolerance on the largest coefficient change")
	fs.StringVar(&c.zeroColumns, "zero-columns", "fail", "zero-norm column policy: fail or zero_fill")
	fs.IntVar(&c.nJobs, "n-jobs", 1, "workers for normalization and prediction, -1 for all CPUs")
	fs.StringVar(&c.logLevel, "log-level", "warn", "debug, info, warn or error")
}

func (c *commonFlags) setup(stderr io.Writer) (*dataset.Dataset, []linear.Option, error) {
	if err := log.SetupLogger(stderr, c.logLevel); err != nil {
		return nil, nil, err
	}
	if c.data == "" {
		return nil, nil, errors.New("-data is required")
	}
	policy, err := preprocessing.ParseZeroColumnPolicy(c.zeroColumns)
	if err != nil {
		return nil, nil, err
	}

	ds, err := dataset.LoadCSVFile(c.data, dataset.Options{Header: !c.noHeader, Target: c.target})
	if err != nil {
		return nil, nil, err
	}

	opts := []linear.Option{
		linear.WithMaxIter(c.maxIter),
		linear.WithTol(c.tol),
		linear.WithZeroColumnPolicy(policy),
		linear.WithNJobs(c.nJobs),
	}
	return ds, opts, nil
}

type coefficient struct {
	Feature string  `json:"feature"`
	Value   float64 `json:"value"`
}

type fitOutput struct {
	Model        string        `json:"model"`
	Lambda       float64       `json:"lambda"`
	Alpha        float64       `json:"alpha"`
	Coefficients []coefficient `json:"coefficients"`
	NonZero      int           `json:"non_zero"`
	NIter        int           `json:"n_iter"`
	Converged    bool          `json:"converged"`
	MaxChange    float64       `json:"max_change"`
	MSE          float64       `json:"mse"`
	R2           *float64      `json:"r2,omitempty"`
}

func runFit(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("fit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	common.register(fs, 1)
	lambda := fs.Float64("lambda", 1, "regularization strength")
	weights := fs.String("weights", "", "write the fitted weights to this JSON file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ds, opts, err := common.setup(stderr)
	if err != nil {
		return err
	}

	var est *linear.ElasticNet
	name := "ElasticNet"
	if common.alpha == 1 {
		est = linear.NewLasso(*lambda, opts...).ElasticNet
		name = "Lasso"
	} else {
		est = linear.NewElasticNet(*lambda, common.alpha, opts...)
	}

	y := mat.NewDense(ds.Y.Len(), 1, ds.Y.RawVector().Data)
	if err := est.Fit(ds.X, y); err != nil {
		return err
	}

	pred, err := est.Predict(ds.X)
	if err != nil {
		return err
	}
	predVec := pred.(*mat.VecDense)

	out := fitOutput{
		Model:     name,
		Lambda:    *lambda,
		Alpha:     common.alpha,
		NIter:     est.NIter(),
		Converged: est.Converged(),
		MaxChange: est.MaxChange(),
	}
	coef := est.Coef()
	for j, v := range coef {
		out.Coefficients = append(out.Coefficients, coefficient{Feature: ds.FeatureNames[j], Value: v})
	}
	out.NonZero = metrics.CountNonZero(mat.NewVecDense(len(coef), coef))
	if out.MSE, err = metrics.MSE(ds.Y, predVec); err != nil {
		return err
	}
	if r2, err := metrics.R2Score(ds.Y, predVec); err == nil {
		out.R2 = &r2
	}
	if *weights != "" {
		w, err := est.ExportWeights()
		if err != nil {
			return err
		}
		w.Features = ds.FeatureNames
		if err := model.SaveWeights(w, *weights); err != nil {
			return err
		}
	}

	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func runPath(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("path", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	common.register(fs, 1)
	k := fs.Int("k", 20, "number of lambda values")
	ratio := fs.Float64("ratio", 0.001, "smallest lambda as a fraction of lambda_max")
	plotFile := fs.String("out", "", "write a path plot to this file (.png, .svg, .pdf)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ds, opts, err := common.setup(stderr)
	if err != nil {
		return err
	}

	lmax, err := linear.LambdaMax(ds.X, ds.Y, common.alpha, opts...)
	if err != nil {
		return err
	}
	lambdas, err := linear.LambdaGrid(lmax, *ratio, *k)
	if err != nil {
		return err
	}
	results, err := linear.Path(ds.X, ds.Y, lambdas, common.alpha, opts...)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "lambda\tnon_zero\tn_iter\tconverged\tmse")
	for i, res := range results {
		mse, err := metrics.MSE(ds.Y, res.Predictions)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%.6g\t%d\t%d\t%t\t%.6g\n",
			lambdas[i], metrics.CountNonZero(res.Coefficients), res.NIter, res.Converged, mse)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if *plotFile == "" {
		return nil
	}
	title := "Lasso path"
	if common.alpha != 1 {
		title = fmt.Sprintf("ElasticNet path (alpha=%g)", common.alpha)
	}
	p, err := visualization.PlotPath(lambdas, results, visualization.PathOptions{
		Title:        title,
		FeatureNames: ds.FeatureNames,
		LogScale:     lambdas[len(lambdas)-1] > 0,
	})
	if err != nil {
		return err
	}
	return visualization.SavePath(p, *plotFile)
}
