package model

import (
	"io"
	"os"

	"github.com/YuminosukeSato/sparsereg/pkg/errors"
)

// SaveWeights はモデルの重みを JSON ファイルに保存する
//
// 使用例:
//
//	w, _ := lasso.ExportWeights()
//	err := model.SaveWeights(w, "lasso.json")
func SaveWeights(w *ModelWeights, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", filename)
	}

	if err := SaveWeightsToWriter(w, file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// LoadWeights は JSON ファイルからモデルの重みを読み込む
func LoadWeights(filename string) (*ModelWeights, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", filename)
	}
	defer file.Close()

	return LoadWeightsFromReader(file)
}

// SaveWeightsToWriter は検証済みの重みを io.Writer に書き込む
func SaveWeightsToWriter(w *ModelWeights, out io.Writer) error {
	if err := w.Validate(); err != nil {
		return err
	}

	data, err := w.ToJSON()
	if err != nil {
		return errors.Wrap(err, "failed to encode weights")
	}
	if _, err := out.Write(append(data, '\n')); err != nil {
		return errors.Wrap(err, "failed to write weights")
	}
	return nil
}

// LoadWeightsFromReader は io.Reader から重みを読み込み、検証とチェックサム確認を行う
func LoadWeightsFromReader(r io.Reader) (*ModelWeights, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read weights")
	}
	var w ModelWeights
	if err := w.FromJSON(data); err != nil {
		return nil, errors.Wrap(err, "failed to decode weights")
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if err := w.VerifyChecksum(); err != nil {
		return nil, err
	}
	return &w, nil
}
