// Package visualization draws regularization paths with gonum/plot.
package visualization

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/sparsereg/linear"
	"github.com/YuminosukeSato/sparsereg/pkg/errors"
)

const (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

// PathOptions configures PlotPath.
type PathOptions struct {
	Title string

	// FeatureNames label the coefficient lines. Missing names default to x0, x1, ...
	FeatureNames []string

	// LogScale draws lambda on a logarithmic axis. Every lambda must be positive.
	LogScale bool
}

// PlotPath returns a plot with one line per coefficient against lambda.
func PlotPath(lambdas []float64, results []*linear.FitResult, opts PathOptions) (*plot.Plot, error) {
	if len(lambdas) == 0 {
		return nil, errors.NewValueError("PlotPath", "no lambdas")
	}
	if len(results) != len(lambdas) {
		return nil, errors.NewDimensionError("PlotPath", len(lambdas), len(results), 0)
	}
	if results[0] == nil || results[0].Coefficients == nil {
		return nil, errors.NewValueError("PlotPath", "result 0 has no coefficients")
	}
	nFeatures := results[0].Coefficients.Len()
	for i, res := range results {
		if res == nil || res.Coefficients == nil {
			return nil, errors.NewValueError("PlotPath", fmt.Sprintf("result %d has no coefficients", i))
		}
		if res.Coefficients.Len() != nFeatures {
			return nil, errors.NewDimensionError("PlotPath", nFeatures, res.Coefficients.Len(), 1)
		}
		if opts.LogScale && lambdas[i] <= 0 {
			return nil, errors.NewValidationError("lambdas", "must be positive on a log scale", lambdas[i])
		}
	}

	p := plot.New()
	p.Title.Text = opts.Title
	if p.Title.Text == "" {
		p.Title.Text = "Regularization path"
	}
	p.X.Label.Text = "lambda"
	p.Y.Label.Text = "coefficient"
	if opts.LogScale {
		p.X.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	p.Add(plotter.NewGrid())

	for j := 0; j < nFeatures; j++ {
		xys := make(plotter.XYs, len(lambdas))
		for i, res := range results {
			xys[i].X = lambdas[i]
			xys[i].Y = res.Coefficients.AtVec(j)
		}

		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, errors.Wrapf(err, "coefficient %d", j)
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = plotutil.Color(j)
		line.LineStyle.Dashes = plotutil.Dashes(j / len(plotutil.DefaultColors))

		p.Add(line)
		p.Legend.Add(featureName(opts.FeatureNames, j), line)
	}
	p.Legend.Top = true

	return p, nil
}

func featureName(names []string, j int) string {
	if j < len(names) && names[j] != "" {
		return names[j]
	}
	return fmt.Sprintf("x%d", j)
}

// WritePath renders p in the given format ("png", "svg", "pdf", ...).
func WritePath(w io.Writer, p *plot.Plot, format string) error {
	wt, err := p.WriterTo(DefaultWidth, DefaultHeight, format)
	if err != nil {
		return errors.Wrapf(err, "unsupported plot format %q", format)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(err, "failed to write plot")
	}
	return nil
}

// SavePath writes p to filename; the extension selects the format.
func SavePath(p *plot.Plot, filename string) error {
	if strings.TrimPrefix(filepath.Ext(filename), ".") == "" {
		return errors.NewValueError("SavePath", "filename needs an extension such as .png or .svg")
	}
	if err := p.Save(DefaultWidth, DefaultHeight, filename); err != nil {
		return errors.Wrapf(err, "failed to save %s", filename)
	}
	return nil
}
