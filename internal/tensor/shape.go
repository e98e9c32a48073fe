package tensor

import (
	"fmt"
	"math"
)

// Shape represents the dimensions of a tensor.
type Shape []int

// NumElements returns the total number of elements in the tensor.
// A scalar (empty shape) has one element; any zero dimension yields zero.
// The result is only meaningful for shapes that pass Validate.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that no dimension is negative and that the product of
// the non-zero dimensions fits in an int, so NumElements and strides never
// wrap around. Zero-sized dimensions are allowed and produce empty tensors.
func (s Shape) Validate() error {
	n := 1
	for i, dim := range s {
		if dim < 0 {
			return fmt.Errorf("%w: dimension %d of %v is %d", ErrInvalidShape, i, s, dim)
		}
		if dim == 0 {
			continue
		}
		if n > math.MaxInt/dim {
			return fmt.Errorf("%w: %v has too many elements", ErrInvalidShape, s)
		}
		n *= dim
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// checkIndices validates a multi-index against the shape and returns its
// flat row-major offset.
func (s Shape) checkIndices(indices []int) (int, error) {
	if len(indices) != len(s) {
		return 0, fmt.Errorf("%w: got %d indices for shape %v", ErrDimensionMismatch, len(indices), s)
	}

	// Walk from the last axis so the stride never has to be materialized.
	offset := 0
	stride := 1
	for i := len(s) - 1; i >= 0; i-- {
		idx := indices[i]
		if idx < 0 || idx >= s[i] {
			return 0, fmt.Errorf("%w: index %v for shape %v (axis %d has size %d)",
				ErrIndexOutOfBounds, indices, s, i, s[i])
		}
		offset += idx * stride
		stride *= s[i]
	}
	return offset, nil
}
