package model

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/sparsereg/pkg/errors"
)

func sampleWeights() *ModelWeights {
	w := &ModelWeights{
		ModelType:       "Lasso",
		Version:         WeightsFormatVersion,
		Coefficients:    []float64{0.5, 0, -1.25},
		ColumnNorms:     []float64{2, 3, 4},
		Hyperparameters: map[string]interface{}{"lambda": 0.1},
		Metadata:        map[string]interface{}{"n_iter": 12.0},
		IsFitted:        true,
	}
	w.Seal()
	return w
}

func TestSaveLoadWeightsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.json")
	original := sampleWeights()

	require.NoError(t, SaveWeights(original, path))

	loaded, err := LoadWeights(path)
	require.NoError(t, err)
	assert.Equal(t, original.Coefficients, loaded.Coefficients)
	assert.Equal(t, original.ColumnNorms, loaded.ColumnNorms)
	assert.Equal(t, original.Checksum(), loaded.Checksum())
	assert.Equal(t, "Lasso", loaded.ModelType)
}

func TestLoadWeightsDetectsCorruption(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SaveWeightsToWriter(sampleWeights(), &buf))

	corrupted := bytes.Replace(buf.Bytes(), []byte("-1.25"), []byte("-1.5"), 1)
	_, err := LoadWeightsFromReader(bytes.NewReader(corrupted))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")
}

func TestModelWeightsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(w *ModelWeights)
		wantErr bool
	}{
		{name: "valid", mutate: func(w *ModelWeights) {}},
		{name: "missing type", mutate: func(w *ModelWeights) { w.ModelType = "" }, wantErr: true},
		{name: "missing version", mutate: func(w *ModelWeights) { w.Version = "" }, wantErr: true},
		{name: "fitted without coefficients", mutate: func(w *ModelWeights) {
			w.Coefficients = nil
			w.ColumnNorms = nil
		}, wantErr: true},
		{name: "norm length mismatch", mutate: func(w *ModelWeights) { w.ColumnNorms = w.ColumnNorms[:1] }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := sampleWeights()
			tt.mutate(w)
			err := w.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestModelWeightsValidateShapeMismatchSentinel(t *testing.T) {
	w := sampleWeights()
	w.ColumnNorms = []float64{1}
	assert.True(t, errors.Is(w.Validate(), errors.ErrShapeMismatch))
}

func TestModelWeightsCloneIsDeep(t *testing.T) {
	original := sampleWeights()
	clone := original.Clone()

	clone.Coefficients[0] = 99
	clone.ColumnNorms[0] = 99
	clone.Hyperparameters["lambda"] = 5.0

	assert.Equal(t, 0.5, original.Coefficients[0])
	assert.Equal(t, 2.0, original.ColumnNorms[0])
	assert.Equal(t, 0.1, original.Hyperparameters["lambda"])
}

func TestStateManager(t *testing.T) {
	s := NewStateManager()
	assert.False(t, s.IsFitted())

	s.SetFitted(3, 10)
	assert.True(t, s.IsFitted())
	nFeatures, nSamples := s.GetDimensions()
	assert.Equal(t, 3, nFeatures)
	assert.Equal(t, 10, nSamples)

	snapshot := s.GetState()
	s.Reset()
	assert.False(t, s.IsFitted())

	s.SetState(snapshot)
	assert.Equal(t, ModelState{Fitted: true, NFeatures: 3, NSamples: 10}, s.GetState())
}

func TestModelWeightsJSON(t *testing.T) {
	w := sampleWeights()
	w.Seal()

	data, err := w.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"model_type": "Lasso"`)

	var decoded ModelWeights
	require.NoError(t, decoded.FromJSON(data))
	assert.Equal(t, w.Coefficients, decoded.Coefficients)
	assert.Equal(t, w.ColumnNorms, decoded.ColumnNorms)
	assert.NoError(t, decoded.VerifyChecksum())

	assert.Error(t, decoded.FromJSON([]byte("{not json")))
}
