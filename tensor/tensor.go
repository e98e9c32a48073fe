// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/mha/internal/tensor"
)

// Tensor is a dense float32 tensor with a row-major layout.
type Tensor = tensor.Tensor

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
// The empty Shape{} describes a scalar holding one element.
type Shape = tensor.Shape

// Backend is the compute interface implemented by backend/cpu and
// backend/blas.
type Backend = tensor.Backend

// Error kinds.
var (
	ErrDimensionMismatch = tensor.ErrDimensionMismatch
	ErrIndexOutOfBounds  = tensor.ErrIndexOutOfBounds
	ErrRank              = tensor.ErrRank
	ErrSizeMismatch      = tensor.ErrSizeMismatch
	ErrIndivisible       = tensor.ErrIndivisible
	ErrEmptyInput        = tensor.ErrEmptyInput
	ErrShapeMismatch     = tensor.ErrShapeMismatch
	ErrInvalidShape      = tensor.ErrInvalidShape
	ErrInvalidAxes       = tensor.ErrInvalidAxes
)

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape) (*Tensor, error) {
	return tensor.Zeros(shape)
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape) (*Tensor, error) {
	return tensor.Ones(shape)
}

// Full creates a tensor filled with value.
func Full(shape Shape, value float32) (*Tensor, error) {
	return tensor.Full(shape, value)
}

// FromSlice creates a tensor holding a copy of data.
//
// Example:
//
//	x, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
func FromSlice(data []float32, shape Shape) (*Tensor, error) {
	return tensor.FromSlice(data, shape)
}

// Eye creates an n×n identity matrix.
func Eye(n int) (*Tensor, error) {
	return tensor.Eye(n)
}

// Must unwraps a constructor result, panicking on error.
func Must(t *Tensor, err error) *Tensor {
	return tensor.Must(t, err)
}

// ConcatHeads merges per-head tensors back into [batch, seq, d_model].
func ConcatHeads(heads []*Tensor) (*Tensor, error) {
	return tensor.ConcatHeads(heads)
}

// Stack joins equally shaped tensors along a new leading axis.
func Stack(tensors []*Tensor) (*Tensor, error) {
	return tensor.Stack(tensors)
}
