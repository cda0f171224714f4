package linear

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sparsereg/core/model"
	"github.com/YuminosukeSato/sparsereg/metrics"
	"github.com/YuminosukeSato/sparsereg/pkg/errors"
	"github.com/YuminosukeSato/sparsereg/preprocessing"
)

// ElasticNet は L1/L2 正則化付き線形回帰モデル
//
// 各座標の更新は
//
//	β_j = S(c_j, lambda·alpha/n) / (1 + lambda·(1-alpha)/n)
//
// で、S はソフト閾値関数。切片は推定しない。係数は正規化された特徴量空間のもので、Predict は
// 学習時の列ノルムで入力を正規化してから係数を適用する。
type ElasticNet struct {
	state *model.StateManager
	name  string

	// Lambda は正則化の強さ (>= 0)
	Lambda float64

	// Alpha は L1 の割合 (0 <= alpha <= 1)
	Alpha float64

	cfg config

	// fixedAlpha は Lasso 用。true なら Alpha フィールドに関わらず alpha = 1 で学習する
	fixedAlpha bool

	coef       *mat.VecDense
	normalizer *preprocessing.ColumnNormalizer
	nIter      int
	converged  bool
	maxChange  float64
}

// NewElasticNet は新しいElasticNetモデルを作成する
//
// 使用例:
//
//	en := linear.NewElasticNet(0.5, 0.7, linear.WithMaxIter(5000))
//	err := en.Fit(X, y)
//	pred, err := en.Predict(XTest)
func NewElasticNet(lambda, alpha float64, opts ...Option) *ElasticNet {
	return newElasticNet("ElasticNet", lambda, alpha, opts)
}

func newElasticNet(name string, lambda, alpha float64, opts []Option) *ElasticNet {
	return &ElasticNet{
		state:  model.NewStateManager(),
		name:   name,
		Lambda: lambda,
		Alpha:  alpha,
		cfg:    newConfig(opts),
	}
}

// Fit はモデルを訓練データで学習させる
//
// y は n×1 の列ベクトル。成功すると前回の結果を置き換え、失敗した場合は
// 前回の状態が残る。
func (e *ElasticNet) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, e.name+".Fit")

	yv, err := columnVector(e.name+".Fit", y)
	if err != nil {
		return err
	}

	res, normalizer, err := fit(e.name, X, yv, e.Lambda, e.l1Ratio(), e.cfg)
	if err != nil {
		return err
	}

	e.coef = res.Coefficients
	e.normalizer = normalizer
	e.nIter = res.NIter
	e.converged = res.Converged
	e.maxChange = res.MaxChange

	r, c := X.Dims()
	e.state.SetFitted(c, r)
	return nil
}

// l1Ratio は学習に使う alpha を返す
func (e *ElasticNet) l1Ratio() float64 {
	if e.fixedAlpha {
		return 1
	}
	return e.Alpha
}

// columnVector は n×1 行列をスライスに変換する
func columnVector(op string, y mat.Matrix) ([]float64, error) {
	if y == nil {
		return nil, errors.NewValueError(op, "y must not be nil")
	}
	r, c := y.Dims()
	if c != 1 {
		return nil, errors.NewValueError(op, "y must be a column vector")
	}
	out := make([]float64, r)
	for i := range out {
		out[i] = y.At(i, 0)
	}
	return out, nil
}

// Predict は入力データに対する予測を行う。X は学習時のノルムで正規化される。
func (e *ElasticNet) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !e.state.IsFitted() {
		return nil, errors.NewNotFittedError(e.name, "Predict")
	}

	nFeatures, _ := e.state.GetDimensions()
	_, c := X.Dims()
	if c != nFeatures {
		return nil, errors.NewDimensionError(e.name+".Predict", nFeatures, c, 1)
	}

	Xn, err := e.normalizer.Transform(X)
	if err != nil {
		return nil, err
	}

	return predict(Xn, e.Coef(), e.cfg.nJobs), nil
}

// Score はモデルの決定係数（R²）を計算する
func (e *ElasticNet) Score(X, y mat.Matrix) (float64, error) {
	if !e.state.IsFitted() {
		return 0, errors.NewNotFittedError(e.name, "Score")
	}

	yv, err := columnVector(e.name+".Score", y)
	if err != nil {
		return 0, err
	}

	pred, err := e.Predict(X)
	if err != nil {
		return 0, err
	}

	return metrics.R2Score(mat.NewVecDense(len(yv), yv), pred.(*mat.VecDense))
}

// Coef は学習された係数のコピーを返す
func (e *ElasticNet) Coef() []float64 {
	if e.coef == nil {
		return nil
	}
	return mat.Col(nil, 0, e.coef)
}

// ColumnNorms は学習時の列ノルムを返す
func (e *ElasticNet) ColumnNorms() []float64 {
	if e.normalizer == nil {
		return nil
	}
	return e.normalizer.Norms()
}

// NIter returns the number of sweeps run by the last Fit.
func (e *ElasticNet) NIter() int { return e.nIter }

// Converged reports whether the last Fit met the tolerance before the cap.
func (e *ElasticNet) Converged() bool { return e.converged }

// MaxChange returns the largest coefficient change of the final sweep.
func (e *ElasticNet) MaxChange() float64 { return e.maxChange }

// IsFitted reports whether the model has been fitted.
func (e *ElasticNet) IsFitted() bool { return e.state.IsFitted() }

// GetParams はハイパーパラメータを取得
func (e *ElasticNet) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"lambda":             e.Lambda,
		"alpha":              e.l1Ratio(),
		"max_iter":           e.cfg.maxIter,
		"tol":                e.cfg.tol,
		"zero_column_policy": e.cfg.policy.String(),
		"n_jobs":             e.cfg.nJobs,
	}
}

// SetParams はハイパーパラメータを設定する。値は検証され、不正な場合は
// 何も変更せずにエラーを返す。
func (e *ElasticNet) SetParams(params map[string]interface{}) error {
	lambda, alpha, cfg, err := e.resolveParams(params)
	if err != nil {
		return err
	}
	e.Lambda, e.Alpha, e.cfg = lambda, alpha, cfg
	return nil
}

// resolveParams applies params on top of the current settings and validates
// the result without touching the model.
func (e *ElasticNet) resolveParams(params map[string]interface{}) (float64, float64, config, error) {
	lambda, alpha, cfg := e.Lambda, e.Alpha, e.cfg

	for key, value := range params {
		var err error
		switch key {
		case "lambda":
			lambda, err = toFloat(key, value)
		case "alpha":
			alpha, err = toFloat(key, value)
		case "max_iter":
			cfg.maxIter, err = toInt(key, value)
		case "tol":
			cfg.tol, err = toFloat(key, value)
		case "n_jobs":
			cfg.nJobs, err = toInt(key, value)
		case "zero_column_policy":
			s, ok := value.(string)
			if !ok {
				return 0, 0, cfg, errors.NewHyperparameterError(key, "must be a string", value)
			}
			cfg.policy, err = preprocessing.ParseZeroColumnPolicy(s)
		default:
			return 0, 0, cfg, errors.NewHyperparameterError(key, "unknown parameter", value)
		}
		if err != nil {
			return 0, 0, cfg, err
		}
	}

	if err := validateLambda(lambda); err != nil {
		return 0, 0, cfg, err
	}
	if err := validateAlpha(alpha); err != nil {
		return 0, 0, cfg, err
	}
	if err := cfg.validate(); err != nil {
		return 0, 0, cfg, err
	}
	return lambda, alpha, cfg, nil
}

func toFloat(key string, value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	default:
		return 0, errors.NewHyperparameterError(key, "must be a number", value)
	}
}

// toInt accepts float64 values without a fractional part, as produced by
// encoding/json.
func toInt(key string, value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, errors.NewHyperparameterError(key, "must be an integer", value)
		}
		return int(v), nil
	default:
		return 0, errors.NewHyperparameterError(key, "must be an integer", value)
	}
}

// ExportWeights はモデルの重みをエクスポート
func (e *ElasticNet) ExportWeights() (*model.ModelWeights, error) {
	if !e.state.IsFitted() {
		return nil, errors.NewNotFittedError(e.name, "ExportWeights")
	}

	nFeatures, nSamples := e.state.GetDimensions()
	w := &model.ModelWeights{
		ModelType:       e.name,
		Version:         model.WeightsFormatVersion,
		Coefficients:    e.Coef(),
		ColumnNorms:     e.ColumnNorms(),
		Hyperparameters: e.GetParams(),
		Metadata: map[string]interface{}{
			"n_iter":     e.nIter,
			"converged":  e.converged,
			"max_change": e.maxChange,
			"n_features": nFeatures,
			"n_samples":  nSamples,
		},
		IsFitted: true,
	}
	w.Seal()
	return w, nil
}

// ImportWeights は重みをインポートする。失敗した場合はモデルを変更しない。
func (e *ElasticNet) ImportWeights(w *model.ModelWeights) error {
	if w == nil {
		return errors.NewValueError(e.name+".ImportWeights", "weights cannot be nil")
	}
	if w.ModelType != e.name {
		return errors.NewValueError(e.name+".ImportWeights",
			fmt.Sprintf("model type mismatch: expected %s, got %s", e.name, w.ModelType))
	}
	if err := w.Validate(); err != nil {
		return err
	}
	if err := w.VerifyChecksum(); err != nil {
		return err
	}
	if !w.IsFitted {
		return errors.NewValueError(e.name+".ImportWeights", "weights are not fitted")
	}

	params := make(map[string]interface{}, len(w.Hyperparameters))
	for k, v := range w.Hyperparameters {
		params[k] = v
	}
	lambda, alpha, cfg, err := e.resolveParams(params)
	if err != nil {
		return err
	}

	normalizer, err := preprocessing.NewColumnNormalizerFromNorms(w.ColumnNorms, cfg.policy)
	if err != nil {
		return err
	}
	normalizer.NJobs = cfg.nJobs

	e.Lambda, e.Alpha, e.cfg = lambda, alpha, cfg
	e.coef = mat.NewVecDense(len(w.Coefficients), append([]float64(nil), w.Coefficients...))
	e.normalizer = normalizer
	e.nIter, _ = toInt("n_iter", w.Metadata["n_iter"])
	e.converged, _ = w.Metadata["converged"].(bool)
	e.maxChange, _ = toFloat("max_change", w.Metadata["max_change"])

	nSamples, _ := toInt("n_samples", w.Metadata["n_samples"])
	e.state.SetFitted(len(w.Coefficients), nSamples)
	return nil
}

// GetWeightHash は係数と列ノルムのハッシュ値を返す。未学習なら空文字列。
func (e *ElasticNet) GetWeightHash() string {
	w, err := e.ExportWeights()
	if err != nil {
		return ""
	}
	return w.Checksum()
}

// String はモデルの文字列表現を返す
func (e *ElasticNet) String() string {
	if !e.state.IsFitted() {
		return fmt.Sprintf("%s(lambda=%g, alpha=%g, fitted=false)", e.name, e.Lambda, e.l1Ratio())
	}
	nFeatures, _ := e.state.GetDimensions()
	return fmt.Sprintf("%s(lambda=%g, alpha=%g, n_features=%d, n_iter=%d, converged=%t)",
		e.name, e.Lambda, e.l1Ratio(), nFeatures, e.nIter, e.converged)
}
