package errors

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		kind     string
		err      error
		wantMsg  string
		hasStack bool
	}{
		{
			name:     "with original error",
			op:       "Fit",
			kind:     "invalid input",
			err:      fmt.Errorf("test error"),
			wantMsg:  "sparsereg: Fit: invalid input: test error",
			hasStack: true,
		},
		{
			name:     "without original error",
			op:       "Predict",
			kind:     "not fitted",
			err:      nil,
			wantMsg:  "sparsereg: Predict: not fitted",
			hasStack: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			if tt.hasStack {
				formatted := fmt.Sprintf("%+v", err)
				if !strings.Contains(formatted, "errors_test.go") {
					t.Error("Expected stack trace to contain test file name")
				}
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("ElasticNet.Fit", 10, 8, 0)

	want := "sparsereg: ElasticNet.Fit: dimension mismatch on axis 0 (rows). Expected 10, got 8"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Fatal("Error should be castable to *DimensionError")
	}
	if dimErr.Expected != 10 || dimErr.Got != 8 {
		t.Errorf("DimensionError fields = (%d, %d), want (10, 8)", dimErr.Expected, dimErr.Got)
	}

	if !Is(err, ErrShapeMismatch) {
		t.Error("DimensionError should be marked with ErrShapeMismatch")
	}
	if Is(err, ErrInvalidHyperparameter) {
		t.Error("DimensionError must not match ErrInvalidHyperparameter")
	}
}

func TestNewEmptyDataError(t *testing.T) {
	err := NewEmptyDataError("ColumnNormalizer.Fit", 0, 3)

	if !Is(err, ErrShapeMismatch) {
		t.Error("empty data should be marked with ErrShapeMismatch")
	}
	if !Is(err, ErrEmptyData) {
		t.Error("empty data should wrap ErrEmptyData")
	}
	if !strings.Contains(err.Error(), "0x3") {
		t.Errorf("Error() = %q, want it to mention the 0x3 shape", err.Error())
	}
}

func TestNewHyperparameterError(t *testing.T) {
	err := NewHyperparameterError("alpha", "must be in [0, 1]", 1.5)

	want := "sparsereg: validation failed for parameter 'alpha': must be in [0, 1] (got: 1.5)"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
	if !Is(err, ErrInvalidHyperparameter) {
		t.Error("hyperparameter error should be marked with ErrInvalidHyperparameter")
	}

	var valErr *ValidationError
	if !As(err, &valErr) {
		t.Fatal("Error should be castable to *ValidationError")
	}
	if valErr.ParamName != "alpha" {
		t.Errorf("ParamName = %q, want alpha", valErr.ParamName)
	}
}

func TestNewDegenerateColumnError(t *testing.T) {
	err := NewDegenerateColumnError("ColumnNormalizer.Fit", 2)

	want := "sparsereg: ColumnNormalizer.Fit: column 2 has zero norm and cannot be normalized"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
	if !Is(err, ErrDegenerateColumn) {
		t.Error("DegenerateColumnError should be marked with ErrDegenerateColumn")
	}

	var colErr *DegenerateColumnError
	if !As(err, &colErr) || colErr.Column != 2 {
		t.Errorf("expected *DegenerateColumnError for column 2, got %v", err)
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("Lasso", "Predict")

	want := "sparsereg: Lasso: this model is not fitted yet. Call Fit() before using Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var notFittedErr *NotFittedError
	if !As(err, &notFittedErr) {
		t.Error("Error should be castable to *NotFittedError")
	}
}

func TestNewValueError(t *testing.T) {
	err := NewValueError("R2Score", "total sum of squares is zero")

	want := "sparsereg: R2Score: total sum of squares is zero"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var valErr *ValueError
	if !As(err, &valErr) {
		t.Error("Error should be castable to *ValueError")
	}
}

func TestNewConvergenceWarning(t *testing.T) {
	warn := NewConvergenceWarning("ElasticNet", 1000, 0.002, 1e-4)

	want := "ElasticNet failed to converge after 1000 iterations (max change 0.002 >= tol 0.0001). Consider increasing max_iter or lambda."
	if warn.Error() != want {
		t.Errorf("Error() = %v, want %v", warn.Error(), want)
	}
}

func TestWarnRouting(t *testing.T) {
	var custom, structured []error
	SetZerologWarnFunc(func(w error) { structured = append(structured, w) })
	defer SetZerologWarnFunc(nil)

	Warn(NewConvergenceWarning("Lasso", 3, 1, 0))
	if len(structured) != 1 {
		t.Fatalf("zerolog func got %d warnings, want 1", len(structured))
	}

	SetWarningHandler(func(w error) { custom = append(custom, w) })
	defer SetWarningHandler(nil)

	Warn(NewConvergenceWarning("Lasso", 3, 1, 0))
	if len(custom) != 1 || len(structured) != 1 {
		t.Errorf("custom handler should take precedence: custom=%d structured=%d", len(custom), len(structured))
	}

	SetWarningHandler(nil)
	Warn(NewConvergenceWarning("Lasso", 3, 1, 0))
	if len(custom) != 1 || len(structured) != 2 {
		t.Errorf("resetting the handler should restore zerolog routing: custom=%d structured=%d", len(custom), len(structured))
	}
}

func TestDefaultWarningHandler(t *testing.T) {
	var buf bytes.Buffer
	prev := zlog.Logger
	zlog.Logger = zerolog.New(&buf)
	defer func() { zlog.Logger = prev }()

	SetZerologWarnFunc(nil)
	Warn(NewConvergenceWarning("ElasticNet", 7, 0.5, 1e-4))

	if !strings.Contains(buf.String(), "failed to converge after 7 iterations") {
		t.Errorf("default handler output = %q", buf.String())
	}
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "in %s: expected %d, got %d", "Predict", 10, 5)

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}

	expectedMsg := "in Predict: expected 10, got 5"
	if !strings.Contains(wrapped.Error(), expectedMsg) {
		t.Errorf("Expected wrapped error to contain %q", expectedMsg)
	}
}

func TestErrorChaining(t *testing.T) {
	err1 := fmt.Errorf("base error")
	err2 := Wrap(err1, "wrapped once")
	err3 := NewModelError("Operation", "failed", err2)

	if !strings.Contains(err3.Error(), "base error") {
		t.Error("Expected error chain to contain base error")
	}

	formatted := fmt.Sprintf("%+v", err3)
	if !strings.Contains(formatted, "errors_test.go") {
		t.Error("Expected detailed error to contain stack trace")
	}
}

func TestCheckNumericalStability(t *testing.T) {
	nan := math.NaN()

	if err := CheckNumericalStability("fit_input", []float64{1, 2, 3}, 0); err != nil {
		t.Errorf("finite values should pass, got %v", err)
	}

	err := CheckNumericalStability("fit_input", []float64{1, nan, 3}, 0)
	var numErr *NumericalInstabilityError
	if !As(err, &numErr) {
		t.Fatalf("expected *NumericalInstabilityError, got %v", err)
	}
	if numErr.Operation != "fit_input" || len(numErr.Values) != 1 {
		t.Errorf("unexpected error contents: %+v", numErr)
	}
}
