package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/YuminosukeSato/sparsereg/pkg/errors"
)

// WeightsFormatVersion is written into every exported ModelWeights.
const WeightsFormatVersion = "1.0.0"

// ModelWeights はモデルの重みを表す構造体（シリアライゼーション用）
//
// Coefficients は正規化された特徴量空間の係数です。新しい入力で推論するには
// ColumnNorms で各列を割ってから係数を適用します。
type ModelWeights struct {
	// ModelType はモデルの種類（Lasso, ElasticNet）
	ModelType string `json:"model_type"`

	// Version はフォーマットのバージョン（互換性チェック用）
	Version string `json:"version"`

	// Coefficients は重み係数
	Coefficients []float64 `json:"coefficients"`

	// ColumnNorms は学習時の各列のユークリッドノルム
	ColumnNorms []float64 `json:"column_norms"`

	// Features は特徴量の名前（オプション）
	Features []string `json:"features,omitempty"`

	// Hyperparameters はモデルのハイパーパラメータ
	Hyperparameters map[string]interface{} `json:"hyperparameters"`

	// Metadata は追加のメタデータ（学習時の統計、チェックサム等）
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	// IsFitted はモデルが学習済みかどうか
	IsFitted bool `json:"is_fitted"`
}

// ToJSON はModelWeightsをJSON形式にシリアライズ
func (mw *ModelWeights) ToJSON() ([]byte, error) {
	return json.MarshalIndent(mw, "", "  ")
}

// FromJSON はJSON形式からModelWeightsをデシリアライズ
func (mw *ModelWeights) FromJSON(data []byte) error {
	return json.Unmarshal(data, mw)
}

// Validate はModelWeightsの妥当性を検証
func (mw *ModelWeights) Validate() error {
	if mw.ModelType == "" {
		return errors.NewValidationError("model_type", "is required", mw.ModelType)
	}

	if mw.Version == "" {
		return errors.NewValidationError("version", "is required", mw.Version)
	}

	if !mw.IsFitted && len(mw.Coefficients) > 0 {
		return errors.NewValidationError("coefficients", "unfitted model should not have coefficients", len(mw.Coefficients))
	}

	if mw.IsFitted && len(mw.Coefficients) == 0 {
		return errors.NewValidationError("coefficients", "fitted model must have coefficients", 0)
	}

	if len(mw.ColumnNorms) != len(mw.Coefficients) {
		return errors.NewDimensionError("ModelWeights.Validate", len(mw.Coefficients), len(mw.ColumnNorms), 1)
	}

	return nil
}

// Checksum は係数と列ノルムの SHA-256 を16進文字列で返す
func (mw *ModelWeights) Checksum() string {
	data, _ := json.Marshal(struct {
		C []float64 `json:"c"`
		N []float64 `json:"n"`
	}{mw.Coefficients, mw.ColumnNorms})
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Seal はチェックサムを Metadata に書き込む
func (mw *ModelWeights) Seal() {
	if mw.Metadata == nil {
		mw.Metadata = make(map[string]interface{})
	}
	mw.Metadata["checksum"] = mw.Checksum()
}

// VerifyChecksum は Metadata のチェックサムを検証する。チェックサムが無い場合は何もしない。
func (mw *ModelWeights) VerifyChecksum() error {
	stored, ok := mw.Metadata["checksum"].(string)
	if !ok {
		return nil
	}
	if stored != mw.Checksum() {
		return errors.NewValueError("ModelWeights.VerifyChecksum", "checksum mismatch: weights may be corrupted")
	}
	return nil
}

// Clone はModelWeightsのディープコピーを作成
func (mw *ModelWeights) Clone() *ModelWeights {
	clone := &ModelWeights{
		ModelType:       mw.ModelType,
		Version:         mw.Version,
		IsFitted:        mw.IsFitted,
		Coefficients:    append([]float64(nil), mw.Coefficients...),
		ColumnNorms:     append([]float64(nil), mw.ColumnNorms...),
		Features:        append([]string(nil), mw.Features...),
		Hyperparameters: make(map[string]interface{}, len(mw.Hyperparameters)),
		Metadata:        make(map[string]interface{}, len(mw.Metadata)),
	}

	for k, v := range mw.Hyperparameters {
		clone.Hyperparameters[k] = v
	}

	for k, v := range mw.Metadata {
		clone.Metadata[k] = v
	}

	return clone
}
