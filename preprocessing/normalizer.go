// Package preprocessing provides the column normalization applied to a design
// matrix before coordinate descent.
package preprocessing

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sparsereg/core/model"
	"github.com/YuminosukeSato/sparsereg/core/parallel"
	"github.com/YuminosukeSato/sparsereg/pkg/errors"
)

// columnParallelThreshold は列ノルム計算を並列化する最小列数
const columnParallelThreshold = 32

// ZeroColumnPolicy はノルムが0の列の扱いを決める
type ZeroColumnPolicy int

const (
	// FailOnZeroColumn はノルム0の列を DegenerateColumnError として拒否する（デフォルト）
	FailOnZeroColumn ZeroColumnPolicy = iota

	// ZeroFillColumn はノルム0の列をゼロ列のまま残す。その列の係数は常に0になる。
	ZeroFillColumn
)

// String returns the policy name.
func (p ZeroColumnPolicy) String() string {
	switch p {
	case FailOnZeroColumn:
		return "fail"
	case ZeroFillColumn:
		return "zero_fill"
	default:
		return fmt.Sprintf("ZeroColumnPolicy(%d)", int(p))
	}
}

// ParseZeroColumnPolicy converts "fail" or "zero_fill" to a policy.
func ParseZeroColumnPolicy(s string) (ZeroColumnPolicy, error) {
	switch s {
	case "fail", "":
		return FailOnZeroColumn, nil
	case "zero_fill", "zero-fill":
		return ZeroFillColumn, nil
	default:
		return FailOnZeroColumn, errors.NewValidationError("zero_column_policy", "must be fail or zero_fill", s)
	}
}

// ColumnNormalizer は各列をそのユークリッドノルムで割る変換器
// 中心化や行方向のスケーリングは行わない。
type ColumnNormalizer struct {
	state *model.StateManager

	// Policy はノルム0の列の扱い
	Policy ZeroColumnPolicy

	// NJobs はノルム計算と変換のワーカー数 (1: 逐次, -1: 全CPU)
	NJobs int

	norms []float64
}

// NewColumnNormalizer は新しいColumnNormalizerを作成する
//
// 使用例:
//
//	n := preprocessing.NewColumnNormalizer(preprocessing.FailOnZeroColumn)
//	Xn, err := n.FitTransform(X)
func NewColumnNormalizer(policy ZeroColumnPolicy) *ColumnNormalizer {
	return &ColumnNormalizer{
		state:  model.NewStateManager(),
		Policy: policy,
		NJobs:  1,
	}
}

// NewColumnNormalizerFromNorms は保存済みのノルムから学習済みの変換器を復元する
func NewColumnNormalizerFromNorms(norms []float64, policy ZeroColumnPolicy) (*ColumnNormalizer, error) {
	if len(norms) == 0 {
		return nil, errors.NewEmptyDataError("ColumnNormalizer.FromNorms", 0, 0)
	}
	for j, v := range norms {
		if err := errors.CheckScalar("ColumnNormalizer.FromNorms", v, 0); err != nil {
			return nil, err
		}
		if v < 0 {
			return nil, errors.NewValidationError(fmt.Sprintf("norms[%d]", j), "must be non-negative", v)
		}
		if v == 0 && policy == FailOnZeroColumn {
			return nil, errors.NewDegenerateColumnError("ColumnNormalizer.FromNorms", j)
		}
	}
	n := NewColumnNormalizer(policy)
	n.norms = append([]float64(nil), norms...)
	n.state.SetFitted(len(norms), 0)
	return n, nil
}

// Fit は各列のユークリッドノルムを計算する
//
// 空の行列や非有限値を含む行列は拒否する。FailOnZeroColumn の場合、
// 最初に見つかったノルム0の列のインデックスをエラーとして返す。
func (n *ColumnNormalizer) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewEmptyDataError("ColumnNormalizer.Fit", r, c)
	}
	if err := errors.CheckMatrix("ColumnNormalizer.Fit", X, r, c, 0); err != nil {
		return err
	}

	norms := make([]float64, c)
	parallel.ParallelizeWithThreshold(c, columnParallelThreshold, parallel.Workers(n.NJobs), func(start, end int) {
		col := make([]float64, r)
		for j := start; j < end; j++ {
			mat.Col(col, j, X)
			norms[j] = floats.Norm(col, 2)
		}
	})

	if n.Policy == FailOnZeroColumn {
		for j, v := range norms {
			if v == 0 {
				return errors.NewDegenerateColumnError("ColumnNormalizer.Fit", j)
			}
		}
	}

	n.norms = norms
	n.state.SetFitted(c, r)
	return nil
}

// Transform は学習時のノルムで各列を割った新しい行列を返す。X は変更しない。
func (n *ColumnNormalizer) Transform(X mat.Matrix) (mat.Matrix, error) {
	return n.transform(X, "ColumnNormalizer.Transform", false)
}

// FitTransform は Fit と Transform を続けて実行する
func (n *ColumnNormalizer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := n.Fit(X); err != nil {
		return nil, err
	}
	return n.Transform(X)
}

// InverseTransform は各列にノルムを掛けて元のスケールに戻す。
// ノルム0の列はゼロ列として戻る。
func (n *ColumnNormalizer) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	return n.transform(X, "ColumnNormalizer.InverseTransform", true)
}

// TransformDense is Transform with a concrete result type.
func (n *ColumnNormalizer) TransformDense(X mat.Matrix) (*mat.Dense, error) {
	out, err := n.transform(X, "ColumnNormalizer.Transform", false)
	if err != nil {
		return nil, err
	}
	return out.(*mat.Dense), nil
}

func (n *ColumnNormalizer) transform(X mat.Matrix, op string, inverse bool) (mat.Matrix, error) {
	if !n.state.IsFitted() {
		return nil, errors.NewNotFittedError("ColumnNormalizer", op)
	}

	r, c := X.Dims()
	if c != len(n.norms) {
		return nil, errors.NewDimensionError(op, len(n.norms), c, 1)
	}
	if r == 0 {
		return nil, errors.NewEmptyDataError(op, r, c)
	}

	result := mat.NewDense(r, c, nil)
	parallel.ParallelizeWithThreshold(c, columnParallelThreshold, parallel.Workers(n.NJobs), func(start, end int) {
		col := make([]float64, r)
		for j := start; j < end; j++ {
			norm := n.norms[j]
			if norm == 0 {
				continue
			}
			mat.Col(col, j, X)
			if inverse {
				floats.Scale(norm, col)
			} else {
				for i := range col {
					col[i] /= norm
				}
			}
			result.SetCol(j, col)
		}
	})

	return result, nil
}

// Norms は学習時の列ノルムのコピーを返す
func (n *ColumnNormalizer) Norms() []float64 {
	return append([]float64(nil), n.norms...)
}

// IsFitted reports whether Fit has succeeded.
func (n *ColumnNormalizer) IsFitted() bool {
	return n.state.IsFitted()
}

// GetParams はパラメータを取得
func (n *ColumnNormalizer) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"zero_column_policy": n.Policy.String(),
		"n_jobs":             n.NJobs,
	}
}

// String はColumnNormalizerの文字列表現を返す
func (n *ColumnNormalizer) String() string {
	if !n.state.IsFitted() {
		return fmt.Sprintf("ColumnNormalizer(policy=%s, fitted=false)", n.Policy)
	}
	return fmt.Sprintf("ColumnNormalizer(policy=%s, n_features=%d)", n.Policy, len(n.norms))
}

var _ model.Transformer = (*ColumnNormalizer)(nil)
