package nn

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/born-ml/mha/internal/tensor"
)

// LayerNorm applies Layer Normalization over an input tensor along the last dimension.
//
// Formula: Y = gamma * (X - mean(X)) / sqrt(var(X) + eps) + beta
//
// mean and the biased (population) variance are computed per row of the
// last axis, so the output of each row has mean ≈ beta and std ≈ gamma.
// The layer is unaffected by adding a constant to every element of a row.
//
// Example:
//
//	ln, _ := nn.NewLayerNorm(768, 1e-5)
//	y, err := ln.Forward(hidden) // [..., 768] -> [..., 768]
type LayerNorm struct {
	Gamma   *tensor.Tensor // scale [d]
	Beta    *tensor.Tensor // shift [d]
	Epsilon float32        // numerical stability constant
	dim     int
}

// NewLayerNorm creates a LayerNorm over a last axis of size dim.
// Gamma is initialized to ones, beta to zeros.
func NewLayerNorm(dim int, epsilon float32) (*LayerNorm, error) {
	gamma, err := tensor.Ones(tensor.Shape{dim})
	if err != nil {
		return nil, err
	}
	beta, err := tensor.Zeros(tensor.Shape{dim})
	if err != nil {
		return nil, err
	}
	return &LayerNorm{Gamma: gamma, Beta: beta, Epsilon: epsilon, dim: dim}, nil
}

// Forward normalizes every row of the last axis.
// Returns ErrDimensionMismatch if the last axis is not the configured size.
func (l *LayerNorm) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	if x.Rank() == 0 || x.Dim(-1) != l.dim {
		return nil, fmt.Errorf("%w: layer norm over %d features, input %v",
			tensor.ErrDimensionMismatch, l.dim, x.Shape())
	}

	src := x.View()
	gamma, beta := l.Gamma.View(), l.Beta.View()
	out := make([]float32, len(src))
	row := make([]float64, l.dim)

	for start := 0; start+l.dim <= len(src) && l.dim > 0; start += l.dim {
		for i, v := range src[start : start+l.dim] {
			row[i] = float64(v)
		}
		mean, variance := stat.PopMeanVariance(row, nil)
		inv := 1 / math.Sqrt(variance+float64(l.Epsilon))
		for i, v := range row {
			out[start+i] = float32((v-mean)*inv)*gamma[i] + beta[i]
		}
	}
	return tensor.Wrap(out, x.Shape())
}
