// Package tensor implements a dense N-dimensional float32 tensor backed by a
// flat row-major buffer.
//
// Tensors have value semantics: structural operations (Reshape, Transpose2D,
// Permute, SplitHeads, ConcatHeads, Index, Stack) allocate new tensors and
// never alias the source buffer. The only in-place mutation is Set.
package tensor

import (
	"fmt"
	"math"
)

// Tensor is a dense float32 array of arbitrary rank.
//
// Invariant: len(data) == shape.NumElements(). Strides are derived from the
// shape on demand and never stored.
//
// Example:
//
//	t := tensor.Must(tensor.Zeros(tensor.Shape{2, 3}))
//	_ = t.Set(1.5, 1, 2)
//	v, _ := t.Get(1, 2) // 1.5
type Tensor struct {
	data  []float32
	shape Shape
}

// Shape returns a copy of the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape.Clone()
}

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int {
	return len(t.shape)
}

// Dim returns the size of axis i. Negative i counts from the end.
//
// i must be a valid axis in [-Rank(), Rank()); like slice indexing, Dim
// panics otherwise. Check Rank first when the tensor comes from a caller.
func (t *Tensor) Dim(i int) int {
	if i < 0 {
		i += len(t.shape)
	}
	return t.shape[i]
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return len(t.data)
}

// Data returns a copy of the flat row-major buffer.
func (t *Tensor) Data() []float32 {
	out := make([]float32, len(t.data))
	copy(out, t.data)
	return out
}

// View returns the underlying buffer without copying.
//
// WARNING: the slice is shared with the tensor. It exists for compute
// kernels and must be treated as read-only.
func (t *Tensor) View() []float32 {
	return t.data
}

// Get returns the element at the given indices.
//
// Returns ErrDimensionMismatch if the number of indices differs from the
// rank, ErrIndexOutOfBounds if any index falls outside its axis.
func (t *Tensor) Get(indices ...int) (float32, error) {
	offset, err := t.shape.checkIndices(indices)
	if err != nil {
		return 0, err
	}
	return t.data[offset], nil
}

// Set overwrites the element at the given indices.
// Validation is the same as Get.
func (t *Tensor) Set(value float32, indices ...int) error {
	offset, err := t.shape.checkIndices(indices)
	if err != nil {
		return err
	}
	t.data[offset] = value
	return nil
}

// Clone creates a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	return &Tensor{data: t.Data(), shape: t.shape.Clone()}
}

// Equal reports whether both tensors have the same shape and bitwise-equal
// elements (NaN never compares equal).
func (t *Tensor) Equal(other *Tensor) bool {
	if other == nil || !t.shape.Equal(other.shape) {
		return false
	}
	for i, v := range t.data {
		if v != other.data[i] {
			return false
		}
	}
	return true
}

// AllClose reports whether both tensors have the same shape and every pair
// of elements differs by at most atol.
func (t *Tensor) AllClose(other *Tensor, atol float64) bool {
	if other == nil || !t.shape.Equal(other.shape) {
		return false
	}
	for i, v := range t.data {
		if math.Abs(float64(v)-float64(other.data[i])) > atol {
			return false
		}
	}
	return true
}

// String returns a human-readable representation of the tensor.
func (t *Tensor) String() string {
	const maxShown = 8
	if len(t.data) <= maxShown {
		return fmt.Sprintf("Tensor%v%v", []int(t.shape), t.data)
	}
	return fmt.Sprintf("Tensor%v%v...", []int(t.shape), t.data[:maxShown])
}
