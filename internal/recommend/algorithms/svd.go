// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package algorithms

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrInvalidRank is returned when the requested factor count is outside
	// [1, min(rows, cols) - 1].
	ErrInvalidRank = errors.New("invalid factorization rank")

	// ErrInvalidMatrix is returned for empty or ragged input.
	ErrInvalidMatrix = errors.New("invalid matrix")

	// ErrFactorization is returned when the decomposition does not converge.
	ErrFactorization = errors.New("factorization failed")
)

// Factorization holds the rank-k result of a truncated SVD of X (n x m).
//
// UserFactors is U_k * Sigma_k (n x k) and ProductFactors is V_k (m x k), so
// that X is approximated by UserFactors * ProductFactors^T and a single cell
// is the dot product of one row from each.
type Factorization struct {
	UserFactors    [][]float64
	ProductFactors [][]float64

	// SingularValues are the k largest singular values, descending.
	SingularValues []float64

	// ExplainedVarianceRatio is the fraction of the column-wise variance of X
	// captured by the k components. Zero when X has no variance.
	ExplainedVarianceRatio float64
}

// MaxRank returns the largest factor count TruncatedSVD accepts for a
// rows x cols matrix. It is zero or negative when no rank is valid.
func MaxRank(rows, cols int) int {
	return min(rows, cols) - 1
}

// TruncatedSVD computes an exact thin SVD of values and keeps the k leading
// components. Zero cells are treated as observed values. The result is
// deterministic for a given input; signs are normalized so the entry with the
// largest magnitude in each left singular vector is positive.
func TruncatedSVD(ctx context.Context, values [][]float64, k int) (*Factorization, error) {
	rows := len(values)
	if rows == 0 || len(values[0]) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidMatrix)
	}
	cols := len(values[0])

	if k < 1 || k > MaxRank(rows, cols) {
		return nil, fmt.Errorf("%w: k=%d for %dx%d matrix (allowed 1..%d)",
			ErrInvalidRank, k, rows, cols, MaxRank(rows, cols))
	}

	x := mat.NewDense(rows, cols, nil)
	for i, row := range values {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidMatrix, i, len(row), cols)
		}
		x.SetRow(i, row)
	}

	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}

	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDThin); !ok {
		return nil, ErrFactorization
	}

	sigma := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	flipSigns(&u, &v, k)

	f := &Factorization{
		UserFactors:    make([][]float64, rows),
		ProductFactors: make([][]float64, cols),
		SingularValues: append([]float64(nil), sigma[:k]...),
	}
	for i := 0; i < rows; i++ {
		f.UserFactors[i] = make([]float64, k)
		for j := 0; j < k; j++ {
			f.UserFactors[i][j] = u.At(i, j) * sigma[j]
		}
	}
	for i := 0; i < cols; i++ {
		f.ProductFactors[i] = make([]float64, k)
		for j := 0; j < k; j++ {
			f.ProductFactors[i][j] = v.At(i, j)
		}
	}

	f.ExplainedVarianceRatio = explainedVarianceRatio(x, f.UserFactors, k)

	return f, nil
}

// flipSigns makes the largest-magnitude entry of each of the first k columns
// of u positive, flipping the matching column of v with it.
func flipSigns(u, v *mat.Dense, k int) {
	rows, _ := u.Dims()
	vRows, _ := v.Dims()
	for j := 0; j < k; j++ {
		maxAbs, sign := 0.0, 1.0
		for i := 0; i < rows; i++ {
			if a := math.Abs(u.At(i, j)); a > maxAbs {
				maxAbs = a
				sign = math.Copysign(1, u.At(i, j))
			}
		}
		if sign > 0 {
			continue
		}
		for i := 0; i < rows; i++ {
			u.Set(i, j, -u.At(i, j))
		}
		for i := 0; i < vRows; i++ {
			v.Set(i, j, -v.At(i, j))
		}
	}
}

// explainedVarianceRatio sums the population variance of each projected
// component and divides by the summed column variance of x.
func explainedVarianceRatio(x *mat.Dense, projected [][]float64, k int) float64 {
	rows, cols := x.Dims()

	total := 0.0
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, x)
		total += stat.PopVariance(col, nil)
	}
	if total == 0 {
		return 0
	}

	explained := 0.0
	for j := 0; j < k; j++ {
		for i := 0; i < rows; i++ {
			col[i] = projected[i][j]
		}
		explained += stat.PopVariance(col, nil)
	}

	return explained / total
}
