// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides dense float32 N-dimensional tensors.
//
// # Overview
//
// A Tensor owns a flat row-major buffer and a Shape. Structural operations
// (Reshape, Transpose2D, Permute, SplitHeads, ConcatHeads) return new
// tensors and never alias their input, so a Tensor can be shared between
// goroutines as long as nobody calls Set on it.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/mha/backend/cpu"
//	    "github.com/born-ml/mha/tensor"
//	)
//
//	func main() {
//	    a := tensor.Must(tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}))
//	    b := tensor.Must(tensor.FromSlice([]float32{2, 3, 4}, tensor.Shape{3, 1}))
//
//	    c, err := cpu.New().MatMul(a, b) // [[20], [47]]
//	}
//
// # Errors
//
// Every fallible operation returns an error wrapping one of the sentinel
// errors below; match them with errors.Is:
//
//	if _, err := x.Reshape(5, 5); errors.Is(err, tensor.ErrSizeMismatch) {
//	    ...
//	}
//
// # Multi-Head Layout
//
// SplitHeads turns [batch, seq, d_model] into NumHeads tensors of shape
// [batch, seq, d_model/NumHeads]; head h holds columns
// [h*head_dim, (h+1)*head_dim). ConcatHeads is its exact inverse.
package tensor
