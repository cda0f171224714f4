// Package dataset loads numeric design matrices and responses from CSV.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sparsereg/pkg/errors"
)

// Options controls how LoadCSV reads a file.
type Options struct {
	// Header reports whether the first record holds column names.
	Header bool

	// Target is the index of the response column. Negative values count
	// from the end, so -1 selects the last column.
	Target int

	// Comma is the field delimiter. Zero means ','.
	Comma rune
}

// DefaultOptions reads a headed, comma-separated file whose last column is the response.
func DefaultOptions() Options {
	return Options{Header: true, Target: -1}
}

// Dataset is a design matrix with its response.
type Dataset struct {
	X *mat.Dense
	Y *mat.VecDense

	// FeatureNames are the header names of the columns of X, or
	// x0, x1, ... when the file has no header.
	FeatureNames []string

	// TargetName is the header name of the response column.
	TargetName string
}

// LoadCSV reads every record of r. All fields must parse as float64 and
// every record must have the same number of fields.
func LoadCSV(r io.Reader, opts Options) (*Dataset, error) {
	reader := csv.NewReader(r)
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read csv")
	}

	var header []string
	if opts.Header && len(records) > 0 {
		header, records = records[0], records[1:]
	}
	if len(records) == 0 {
		return nil, errors.NewEmptyDataError("LoadCSV", 0, len(header))
	}

	width := len(records[0])
	if width < 2 {
		return nil, errors.NewValueError("LoadCSV", "need at least one feature column and a target column")
	}
	target := opts.Target
	if target < 0 {
		target += width
	}
	if target < 0 || target >= width {
		return nil, errors.NewValidationError("target", fmt.Sprintf("out of range for %d columns", width), opts.Target)
	}

	nSamples, nFeatures := len(records), width-1
	X := mat.NewDense(nSamples, nFeatures, nil)
	y := mat.NewVecDense(nSamples, nil)

	for i, record := range records {
		// csv.Reader already enforces a constant field count
		col := 0
		for j, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "row %d column %d", i+1, j)
			}
			if j == target {
				y.SetVec(i, v)
				continue
			}
			X.Set(i, col, v)
			col++
		}
	}

	ds := &Dataset{X: X, Y: y, FeatureNames: make([]string, 0, nFeatures)}
	for j := 0; j < width; j++ {
		name := fmt.Sprintf("x%d", len(ds.FeatureNames))
		if header != nil {
			name = header[j]
		}
		if j == target {
			if header != nil {
				ds.TargetName = header[j]
			} else {
				ds.TargetName = "y"
			}
			continue
		}
		ds.FeatureNames = append(ds.FeatureNames, name)
	}

	return ds, nil
}

// LoadCSVFile opens filename and calls LoadCSV.
func LoadCSVFile(filename string, opts Options) (*Dataset, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", filename)
	}
	defer file.Close()

	return LoadCSV(file, opts)
}
