// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides attention layers and their building blocks.
//
// # Overview
//
// This package contains:
//   - Attention: Softmax, ScaledDotProductAttention, MaskedAttention, CausalMask
//   - Layers: MultiHeadAttention, LayerNorm, Embedding
//   - Initialization: Uniform, Xavier, seeded Generators
//   - Checkpoints: SaveMultiHeadAttention, LoadMultiHeadAttention
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/mha/backend/cpu"
//	    "github.com/born-ml/mha/nn"
//	)
//
//	func main() {
//	    mha, err := nn.NewMultiHeadAttention(
//	        nn.MHAConfig{NumHeads: 8, DModel: 512, Workers: 4},
//	        nn.NewGenerator(42),
//	        cpu.New(),
//	    )
//	    out, err := mha.Forward(x, x, x) // [batch, seq, 512] -> [batch, seq, 512]
//	}
//
// A nil backend argument selects the CPU backend everywhere in this package.
package nn

import (
	"github.com/born-ml/mha/internal/nn"
	"github.com/born-ml/mha/tensor"
)

// Generator supplies uniformly distributed values in [0, 1).
type Generator = nn.Generator

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc = nn.GeneratorFunc

// NewGenerator returns a seeded pseudo-random generator.
func NewGenerator(seed uint64) Generator {
	return nn.NewGenerator(seed)
}

// Uniform creates a tensor with values drawn from U(low, high).
func Uniform(shape tensor.Shape, gen Generator, low, high float32) (*tensor.Tensor, error) {
	return nn.Uniform(shape, gen, low, high)
}

// Xavier creates a tensor with Glorot-uniform values.
func Xavier(fanIn, fanOut int, shape tensor.Shape, gen Generator) (*tensor.Tensor, error) {
	return nn.Xavier(fanIn, fanOut, shape, gen)
}

// Attention

// Softmax applies softmax to each row of a 2D tensor.
func Softmax(b tensor.Backend, x *tensor.Tensor) (*tensor.Tensor, error) {
	return nn.Softmax(b, x)
}

// ScaledDotProductAttention computes softmax(QK^T / sqrt(d_k)) * V.
//
// Example:
//
//	q := tensor.Must(tensor.FromSlice([]float32{1, 0, 0, 0, 1, 0}, tensor.Shape{2, 3}))
//	v := tensor.Must(tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}))
//	out, err := nn.ScaledDotProductAttention(nil, q, q, v) // [2, 2]
func ScaledDotProductAttention(b tensor.Backend, query, key, value *tensor.Tensor) (*tensor.Tensor, error) {
	return nn.ScaledDotProductAttention(b, query, key, value)
}

// MaskedAttention is ScaledDotProductAttention with an optional additive
// [seq_q, seq_k] mask. It also returns the attention weights.
func MaskedAttention(b tensor.Backend, query, key, value, mask *tensor.Tensor) (out, weights *tensor.Tensor, err error) {
	return nn.MaskedAttention(b, query, key, value, mask)
}

// CausalMask creates a [seqLen, seqLen] mask with -Inf above the diagonal.
func CausalMask(seqLen int) (*tensor.Tensor, error) {
	return nn.CausalMask(seqLen)
}

// Layers

// MHAConfig configures a MultiHeadAttention layer.
type MHAConfig = nn.MHAConfig

// MultiHeadAttention implements the multi-head attention mechanism.
type MultiHeadAttention = nn.MultiHeadAttention

// Layer construction errors.
var (
	// ErrNilGenerator is returned when a constructor receives no generator.
	ErrNilGenerator = nn.ErrNilGenerator

	// ErrInvalidInitScale is returned for a negative, NaN or infinite InitScale.
	ErrInvalidInitScale = nn.ErrInvalidInitScale
)

// State dict keys of MultiHeadAttention.
const (
	KeyQuery  = nn.KeyQuery
	KeyKey    = nn.KeyKey
	KeyValue  = nn.KeyValue
	KeyOutput = nn.KeyOutput
)

// NewMultiHeadAttention creates a multi-head attention layer.
// Returns tensor.ErrIndivisible unless DModel is a positive multiple of NumHeads.
func NewMultiHeadAttention(cfg MHAConfig, gen Generator, backend tensor.Backend) (*MultiHeadAttention, error) {
	return nn.NewMultiHeadAttention(cfg, gen, backend)
}

// NewMultiHeadAttentionFromWeights builds a layer from explicit
// [d_model, d_model] projection matrices.
func NewMultiHeadAttentionFromWeights(numHeads int, wq, wk, wv, wo *tensor.Tensor, backend tensor.Backend) (*MultiHeadAttention, error) {
	return nn.NewMultiHeadAttentionFromWeights(numHeads, wq, wk, wv, wo, backend)
}

// NewMultiHeadAttentionFromStateDict builds a layer from a state dict.
func NewMultiHeadAttentionFromStateDict(numHeads int, state map[string]*tensor.Tensor, backend tensor.Backend) (*MultiHeadAttention, error) {
	return nn.NewMultiHeadAttentionFromStateDict(numHeads, state, backend)
}

// SaveMultiHeadAttention writes the weights of m to a checkpoint file.
func SaveMultiHeadAttention(path string, m *MultiHeadAttention) error {
	return nn.SaveMultiHeadAttention(path, m)
}

// LoadMultiHeadAttention restores a layer from a checkpoint file.
func LoadMultiHeadAttention(path string, numHeads int, backend tensor.Backend) (*MultiHeadAttention, error) {
	return nn.LoadMultiHeadAttention(path, numHeads, backend)
}

// LayerNorm normalizes the last axis.
type LayerNorm = nn.LayerNorm

// NewLayerNorm creates a LayerNorm over a last axis of size dim.
func NewLayerNorm(dim int, epsilon float32) (*LayerNorm, error) {
	return nn.NewLayerNorm(dim, epsilon)
}

// Embedding maps token ids to dense vectors.
type Embedding = nn.Embedding

// NewEmbedding creates an embedding table.
func NewEmbedding(numEmbeddings, embeddingDim int, gen Generator) (*Embedding, error) {
	return nn.NewEmbedding(numEmbeddings, embeddingDim, gen)
}
