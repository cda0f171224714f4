package linear

import (
	"fmt"

	"github.com/YuminosukeSato/sparsereg/core/model"
	"github.com/YuminosukeSato/sparsereg/pkg/errors"
)

// Lasso は L1 正則化付き線形回帰モデル。alpha = 1 に固定された ElasticNet と同一。
// 埋め込まれた Alpha フィールドは学習に使われない。
type Lasso struct {
	*ElasticNet
}

// NewLasso は新しいLassoモデルを作成する
//
// 使用例:
//
//	lasso := linear.NewLasso(0.1)
//	if err := lasso.Fit(X, y); err != nil {
//	    return err
//	}
//	fmt.Println(lasso.Coef())
func NewLasso(lambda float64, opts ...Option) *Lasso {
	en := newElasticNet("Lasso", lambda, 1, opts)
	en.fixedAlpha = true
	return &Lasso{ElasticNet: en}
}

// GetParams は alpha を除いたハイパーパラメータを返す
func (l *Lasso) GetParams() map[string]interface{} {
	params := l.ElasticNet.GetParams()
	delete(params, "alpha")
	return params
}

// SetParams はハイパーパラメータを設定する。alpha は 1 以外を受け付けない。
func (l *Lasso) SetParams(params map[string]interface{}) error {
	if v, ok := params["alpha"]; ok {
		alpha, err := toFloat("alpha", v)
		if err != nil {
			return err
		}
		if alpha != 1 {
			return errors.NewHyperparameterError("alpha", "is fixed at 1 for Lasso", v)
		}
	}
	return l.ElasticNet.SetParams(params)
}

// String returns a short description of the model.
func (l *Lasso) String() string {
	if !l.IsFitted() {
		return fmt.Sprintf("Lasso(lambda=%g, fitted=false)", l.Lambda)
	}
	return fmt.Sprintf("Lasso(lambda=%g, n_features=%d, n_iter=%d, converged=%t)",
		l.Lambda, len(l.Coef()), l.NIter(), l.Converged())
}

var (
	_ model.SparseLinearModel = (*ElasticNet)(nil)
	_ model.SparseLinearModel = (*Lasso)(nil)
	_ model.WeightExporter    = (*ElasticNet)(nil)
	_ model.ParameterSetter   = (*Lasso)(nil)
)
