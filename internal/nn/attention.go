// Package nn provides the attention layers built on the tensor core:
// scaled dot-product attention, multi-head attention, layer normalization
// and token embeddings.
package nn

import (
	"fmt"
	"math"

	"github.com/born-ml/mha/internal/backend/cpu"
	"github.com/born-ml/mha/internal/tensor"
)

// orDefault returns b, or a CPU backend when b is nil.
func orDefault(b tensor.Backend) tensor.Backend {
	if b == nil {
		return cpu.New()
	}
	return b
}

// Softmax applies softmax to each row of a 2D tensor.
// A nil backend selects the CPU backend.
//
// Example:
//
//	x := tensor.Must(tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{1, 3}))
//	y, _ := nn.Softmax(nil, x) // ≈ [[0.090, 0.245, 0.665]]
func Softmax(b tensor.Backend, x *tensor.Tensor) (*tensor.Tensor, error) {
	return orDefault(b).Softmax(x)
}

// ScaledDotProductAttention computes single-head attention:
//
//	Attention(Q, K, V) = softmax(QK^T / sqrt(d_k)) * V
//
// Shapes:
//   - query: [seq_q, d_k]
//   - key:   [seq_k, d_k]
//   - value: [seq_k, d_v]
//   - output: [seq_q, d_v]
//
// Returns ErrRank unless all inputs are 2D and ErrDimensionMismatch when
// query and key disagree on d_k or value and key disagree on seq_k.
func ScaledDotProductAttention(b tensor.Backend, query, key, value *tensor.Tensor) (*tensor.Tensor, error) {
	out, _, err := MaskedAttention(b, query, key, value, nil)
	return out, err
}

// MaskedAttention is ScaledDotProductAttention with an optional additive mask
// that also returns the attention weights.
//
// The mask has shape [seq_q, seq_k] and is added to the scaled scores before
// softmax; use -Inf to block a position (see CausalMask). A nil mask applies
// no masking. Weights have shape [seq_q, seq_k] and each row sums to 1.
func MaskedAttention(b tensor.Backend, query, key, value, mask *tensor.Tensor) (out, weights *tensor.Tensor, err error) {
	if err := validateAttentionInputs(query, key, value); err != nil {
		return nil, nil, err
	}
	b = orDefault(b)

	// 1. scores = Q @ K^T
	kT, err := key.Transpose2D()
	if err != nil {
		return nil, nil, err
	}
	scores, err := b.MatMul(query, kT)
	if err != nil {
		return nil, nil, err
	}

	// 2. Scale by sqrt(d_k). With d_k == 0 every score is already zero.
	if dk := query.Dim(1); dk > 0 {
		scores = scores.DivScalar(float32(math.Sqrt(float64(dk))))
	}

	// 3. Additive mask
	if mask != nil {
		if scores, err = scores.Add(mask); err != nil {
			return nil, nil, fmt.Errorf("attention mask: %w", err)
		}
	}

	// 4. Softmax over keys
	weights, err = b.Softmax(scores)
	if err != nil {
		return nil, nil, err
	}

	// 5. weights @ V
	out, err = b.MatMul(weights, value)
	if err != nil {
		return nil, nil, err
	}
	return out, weights, nil
}

// validateAttentionInputs validates the input tensors for attention.
func validateAttentionInputs(query, key, value *tensor.Tensor) error {
	if query.Rank() != 2 || key.Rank() != 2 || value.Rank() != 2 {
		return fmt.Errorf("%w: attention requires 2D query/key/value, got %v, %v, %v",
			tensor.ErrRank, query.Shape(), key.Shape(), value.Shape())
	}
	if query.Dim(1) != key.Dim(1) {
		return fmt.Errorf("%w: query %v and key %v must share d_k",
			tensor.ErrDimensionMismatch, query.Shape(), key.Shape())
	}
	if value.Dim(0) != key.Dim(0) {
		return fmt.Errorf("%w: value %v must have as many rows as key %v",
			tensor.ErrDimensionMismatch, value.Shape(), key.Shape())
	}
	return nil
}

// CausalMask creates a causal (autoregressive) attention mask.
//
// Each position may attend only to itself and earlier positions:
//
//	// seqLen = 3
//	// [[0, -inf, -inf],
//	//  [0,    0, -inf],
//	//  [0,    0,    0]]
func CausalMask(seqLen int) (*tensor.Tensor, error) {
	shape := tensor.Shape{seqLen, seqLen}
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("causal mask: %w", err)
	}
	negInf := float32(math.Inf(-1))
	data := make([]float32, shape.NumElements())
	for i := 0; i < seqLen; i++ {
		for j := i + 1; j < seqLen; j++ {
			data[i*seqLen+j] = negInf
		}
	}
	return tensor.Wrap(data, shape)
}
