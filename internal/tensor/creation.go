package tensor

import "fmt"

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	t, err := tensor.Zeros(tensor.Shape{3, 4})
func Zeros(shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return &Tensor{
		data:  make([]float32, shape.NumElements()),
		shape: shape.Clone(),
	}, nil
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape) (*Tensor, error) {
	return Full(shape, 1)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	t, err := tensor.Full(tensor.Shape{3, 3}, 3.14)
func Full(shape Shape, value float32) (*Tensor, error) {
	t, err := Zeros(shape)
	if err != nil {
		return nil, err
	}
	for i := range t.data {
		t.data[i] = value
	}
	return t, nil
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice(data []float32, shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("%w: shape %v requires %d elements, but got %d",
			ErrSizeMismatch, shape, shape.NumElements(), len(data))
	}
	buf := make([]float32, len(data))
	copy(buf, data)
	return &Tensor{data: buf, shape: shape.Clone()}, nil
}

// Wrap creates a tensor that takes ownership of data without copying.
// The caller must not retain or modify data afterwards. Compute backends use
// it to hand freshly allocated result buffers to a tensor.
func Wrap(data []float32, shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("%w: shape %v requires %d elements, but got %d",
			ErrSizeMismatch, shape, shape.NumElements(), len(data))
	}
	return &Tensor{data: data, shape: shape.Clone()}, nil
}

// Must unwraps a constructor result, panicking on error.
// Intended for literals in tests and examples whose shapes are known valid.
//
// Example:
//
//	eye := tensor.Must(tensor.FromSlice([]float32{1, 0, 0, 1}, tensor.Shape{2, 2}))
func Must(t *Tensor, err error) *Tensor {
	if err != nil {
		panic(err)
	}
	return t
}

// Eye creates an n×n identity matrix.
func Eye(n int) (*Tensor, error) {
	t, err := Zeros(Shape{n, n})
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		t.data[i*n+i] = 1
	}
	return t, nil
}
