package tensor

import "fmt"

// MulScalar returns a new tensor with every element multiplied by s.
func (t *Tensor) MulScalar(s float32) *Tensor {
	out := make([]float32, len(t.data))
	for i, v := range t.data {
		out[i] = v * s
	}
	return &Tensor{data: out, shape: t.shape.Clone()}
}

// DivScalar returns a new tensor with every element divided by s.
func (t *Tensor) DivScalar(s float32) *Tensor {
	out := make([]float32, len(t.data))
	for i, v := range t.data {
		out[i] = v / s
	}
	return &Tensor{data: out, shape: t.shape.Clone()}
}

// Add returns the element-wise sum of two tensors of identical shape.
// Broadcasting is not supported.
func (t *Tensor) Add(other *Tensor) (*Tensor, error) {
	if !t.shape.Equal(other.shape) {
		return nil, fmt.Errorf("%w: add %v + %v", ErrShapeMismatch, t.shape, other.shape)
	}
	out := make([]float32, len(t.data))
	for i, v := range t.data {
		out[i] = v + other.data[i]
	}
	return &Tensor{data: out, shape: t.shape.Clone()}, nil
}
