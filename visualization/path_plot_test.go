package visualization

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sparsereg/linear"
	"github.com/YuminosukeSato/sparsereg/pkg/errors"
)

func fakePath() ([]float64, []*linear.FitResult) {
	lambdas := []float64{10, 1, 0.1}
	results := []*linear.FitResult{
		{Coefficients: mat.NewVecDense(2, []float64{0, 0})},
		{Coefficients: mat.NewVecDense(2, []float64{0.5, 0})},
		{Coefficients: mat.NewVecDense(2, []float64{0.9, -0.3})},
	}
	return lambdas, results
}

func TestPlotPathRendersSVG(t *testing.T) {
	lambdas, results := fakePath()

	p, err := PlotPath(lambdas, results, PathOptions{FeatureNames: []string{"age"}, LogScale: true})
	require.NoError(t, err)
	assert.Equal(t, "Regularization path", p.Title.Text)

	var buf bytes.Buffer
	require.NoError(t, WritePath(&buf, p, "svg"))
	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "age")
	assert.Contains(t, out, "x1")
}

func TestPlotPathRendersPNG(t *testing.T) {
	lambdas, results := fakePath()
	p, err := PlotPath(lambdas, results, PathOptions{Title: "lasso"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePath(&buf, p, "png"))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	assert.Error(t, WritePath(&buf, p, "bmp-not-a-format"))
}

func TestPlotPathErrors(t *testing.T) {
	lambdas, results := fakePath()

	_, err := PlotPath(lambdas[:2], results, PathOptions{})
	assert.True(t, errors.Is(err, errors.ErrShapeMismatch))

	_, err = PlotPath(nil, nil, PathOptions{})
	assert.Error(t, err)

	_, err = PlotPath([]float64{1, 0, 0.5}, results, PathOptions{LogScale: true})
	assert.Error(t, err)

	ragged := append([]*linear.FitResult(nil), results...)
	ragged[2] = &linear.FitResult{Coefficients: mat.NewVecDense(3, nil)}
	_, err = PlotPath(lambdas, ragged, PathOptions{})
	assert.True(t, errors.Is(err, errors.ErrShapeMismatch))
}

func TestSavePath(t *testing.T) {
	lambdas, results := fakePath()
	p, err := PlotPath(lambdas, results, PathOptions{})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "path.svg")
	require.NoError(t, SavePath(p, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	assert.Error(t, SavePath(p, filepath.Join(t.TempDir(), "noext")))
}
