package linear

import (
	"context"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sparsereg/pkg/errors"
	"github.com/YuminosukeSato/sparsereg/pkg/log"
)

// penalty は正則化項を n で割ったもの
//
//	l1 = lambda * alpha / n
//	l2 = lambda * (1 - alpha) / n
//
// alpha = 1 のとき l2 = 0 となり、Lasso の更新式と一致する。
type penalty struct {
	l1 float64
	l2 float64
}

func newPenalty(lambda, alpha float64, nSamples int) penalty {
	n := float64(nSamples)
	return penalty{
		l1: lambda * alpha / n,
		l2: lambda * (1 - alpha) / n,
	}
}

// shrink はソフト閾値処理の後に L2 項で縮小する
func (p penalty) shrink(c float64) float64 {
	switch {
	case c > p.l1:
		return (c - p.l1) / (1 + p.l2)
	case c < -p.l1:
		return (c + p.l1) / (1 + p.l2)
	default:
		return 0
	}
}

// sweepStats summarizes a coordinate descent run.
type sweepStats struct {
	nIter     int
	converged bool
	maxChange float64
}

// coordinateDescent は巡回座標降下法で係数を求める
//
// X は列正規化済みの行列。係数は 0 から始まり、各スイープで j = 0..p-1 の順に
// 一つずつ更新される（Gauss-Seidel）。残差 r = y - Xβ は更新のたびに
// 差分だけ修正するので、部分残差 r + X_j β_j を毎回作り直す必要はない。
//
//	c_j = (X_j·r + β_j ‖X_j‖²) / n
//
// スイープ内の最大変化量が tol 未満になるか maxIter に達したら停止する。
// 上限到達は失敗ではない。
func coordinateDescent(X *mat.Dense, y []float64, pen penalty, maxIter int, tol float64, logger log.Logger) ([]float64, sweepStats, error) {
	n, p := X.Dims()
	nf := float64(n)

	cols := make([][]float64, p)
	sqNorms := make([]float64, p)
	for j := 0; j < p; j++ {
		cols[j] = mat.Col(nil, j, X)
		sqNorms[j] = floats.Dot(cols[j], cols[j])
	}

	beta := make([]float64, p)
	residual := append([]float64(nil), y...)

	debug := logger.Enabled(context.Background(), log.LevelDebug)

	var stats sweepStats
	for iter := 1; iter <= maxIter; iter++ {
		maxChange := 0.0
		for j := 0; j < p; j++ {
			old := beta[j]
			c := (floats.Dot(cols[j], residual) + old*sqNorms[j]) / nf
			updated := pen.shrink(c)
			if updated == old {
				continue
			}
			floats.AddScaled(residual, old-updated, cols[j])
			beta[j] = updated
			if change := math.Abs(updated - old); change > maxChange {
				maxChange = change
			}
		}

		stats.nIter = iter
		stats.maxChange = maxChange

		if debug {
			logger.Debug("sweep completed",
				log.IterationKey, iter,
				log.MaxChangeKey, maxChange,
			)
		}

		if maxChange < tol {
			stats.converged = true
			break
		}
	}

	if err := errors.CheckNumericalStability("coordinate_descent", beta, stats.nIter); err != nil {
		return nil, stats, err
	}

	return beta, stats, nil
}
