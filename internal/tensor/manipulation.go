package tensor

import "fmt"

// Reshape returns a tensor with the same elements in the same flat order and
// a new shape. The element count must not change.
//
// Example:
//
//	x := tensor.Must(tensor.Zeros(tensor.Shape{2, 3}))
//	y, err := x.Reshape(3, 2)
func (t *Tensor) Reshape(newShape ...int) (*Tensor, error) {
	shape := Shape(newShape)
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(t.data) {
		return nil, fmt.Errorf("%w: cannot reshape %v (%d elements) to %v (%d elements)",
			ErrSizeMismatch, t.shape, len(t.data), shape, shape.NumElements())
	}
	return &Tensor{data: t.Data(), shape: shape.Clone()}, nil
}

// Transpose2D swaps the two axes of a matrix: [r, c] -> [c, r].
// Returns ErrRank unless the tensor has exactly two dimensions.
func (t *Tensor) Transpose2D() (*Tensor, error) {
	if len(t.shape) != 2 {
		return nil, fmt.Errorf("%w: transpose requires a 2D tensor, got shape %v", ErrRank, t.shape)
	}
	rows, cols := t.shape[0], t.shape[1]
	out := make([]float32, len(t.data))
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out[j*rows+i] = t.data[i*cols+j]
		}
	}
	return &Tensor{data: out, shape: Shape{cols, rows}}, nil
}

// Permute reorders axes: output axis i is input axis axes[i].
//
// Example:
//
//	// [batch, seq, heads, d_head] -> [batch, heads, seq, d_head]
//	y, err := x.Permute(0, 2, 1, 3)
func (t *Tensor) Permute(axes ...int) (*Tensor, error) {
	rank := len(t.shape)
	if len(axes) != rank {
		return nil, fmt.Errorf("%w: permute of shape %v needs %d axes, got %d", ErrRank, t.shape, rank, len(axes))
	}
	seen := make([]bool, rank)
	for _, a := range axes {
		if a < 0 || a >= rank || seen[a] {
			return nil, fmt.Errorf("%w: %v is not a permutation of %d axes", ErrInvalidAxes, axes, rank)
		}
		seen[a] = true
	}

	outShape := make(Shape, rank)
	for i, a := range axes {
		outShape[i] = t.shape[a]
	}
	inStrides := t.shape.ComputeStrides()
	// srcStrides[i] is how far the source offset moves per step of output axis i.
	srcStrides := make([]int, rank)
	for i, a := range axes {
		srcStrides[i] = inStrides[a]
	}

	out := make([]float32, len(t.data))
	coord := make([]int, rank)
	src := 0
	for dst := range out {
		out[dst] = t.data[src]
		// Advance the output coordinate like an odometer.
		for ax := rank - 1; ax >= 0; ax-- {
			coord[ax]++
			src += srcStrides[ax]
			if coord[ax] < outShape[ax] {
				break
			}
			src -= coord[ax] * srcStrides[ax]
			coord[ax] = 0
		}
	}
	return &Tensor{data: out, shape: outShape}, nil
}

// SplitHeads partitions the last axis of a [batch, seq, d_model] tensor into
// numHeads contiguous chunks, returning numHeads tensors of shape
// [batch, seq, d_model/numHeads].
//
// Head h at [b, s, i] equals the input at [b, s, h*d_head+i].
func (t *Tensor) SplitHeads(numHeads int) ([]*Tensor, error) {
	if len(t.shape) != 3 {
		return nil, fmt.Errorf("%w: split heads requires [batch, seq, d_model], got %v", ErrRank, t.shape)
	}
	batch, seq, dModel := t.shape[0], t.shape[1], t.shape[2]
	if numHeads <= 0 || dModel%numHeads != 0 {
		return nil, fmt.Errorf("%w: d_model %d, heads %d", ErrIndivisible, dModel, numHeads)
	}
	dHead := dModel / numHeads

	heads := make([]*Tensor, numHeads)
	for h := range heads {
		out := make([]float32, batch*seq*dHead)
		for row := 0; row < batch*seq; row++ {
			copy(out[row*dHead:(row+1)*dHead], t.data[row*dModel+h*dHead:row*dModel+(h+1)*dHead])
		}
		heads[h] = &Tensor{data: out, shape: Shape{batch, seq, dHead}}
	}
	return heads, nil
}

// ConcatHeads is the inverse of SplitHeads: it joins [batch, seq, d_head]
// tensors along the last axis into [batch, seq, len(heads)*d_head].
func ConcatHeads(heads []*Tensor) (*Tensor, error) {
	if len(heads) == 0 {
		return nil, fmt.Errorf("%w: no heads to concatenate", ErrEmptyInput)
	}
	first := heads[0].shape
	if len(first) != 3 {
		return nil, fmt.Errorf("%w: head 0 has shape %v, want [batch, seq, d_head]", ErrRank, first)
	}
	for i, h := range heads[1:] {
		if !h.shape.Equal(first) {
			return nil, fmt.Errorf("%w: head %d has shape %v, head 0 has %v", ErrShapeMismatch, i+1, h.shape, first)
		}
	}

	batch, seq, dHead := first[0], first[1], first[2]
	dModel := dHead * len(heads)
	out := make([]float32, batch*seq*dModel)
	for h, head := range heads {
		for row := 0; row < batch*seq; row++ {
			copy(out[row*dModel+h*dHead:row*dModel+(h+1)*dHead], head.data[row*dHead:(row+1)*dHead])
		}
	}
	return &Tensor{data: out, shape: Shape{batch, seq, dModel}}, nil
}

// Index returns a copy of sub-tensor i along the leading axis.
// A [batch, seq, d] tensor yields a [seq, d] tensor.
func (t *Tensor) Index(i int) (*Tensor, error) {
	if len(t.shape) == 0 {
		return nil, fmt.Errorf("%w: cannot index a scalar", ErrRank)
	}
	if i < 0 || i >= t.shape[0] {
		return nil, fmt.Errorf("%w: index %d for leading axis of size %d", ErrIndexOutOfBounds, i, t.shape[0])
	}
	inner := t.shape[1:].Clone()
	n := inner.NumElements()
	out := make([]float32, n)
	copy(out, t.data[i*n:(i+1)*n])
	return &Tensor{data: out, shape: inner}, nil
}

// Stack joins equally shaped tensors along a new leading axis.
// It is the inverse of calling Index for every leading position.
func Stack(tensors []*Tensor) (*Tensor, error) {
	if len(tensors) == 0 {
		return nil, fmt.Errorf("%w: no tensors to stack", ErrEmptyInput)
	}
	inner := tensors[0].shape
	for i, s := range tensors[1:] {
		if !s.shape.Equal(inner) {
			return nil, fmt.Errorf("%w: tensor %d has shape %v, tensor 0 has %v", ErrShapeMismatch, i+1, s.shape, inner)
		}
	}
	n := inner.NumElements()
	out := make([]float32, 0, n*len(tensors))
	for _, s := range tensors {
		out = append(out, s.data...)
	}
	shape := append(Shape{len(tensors)}, inner...)
	return &Tensor{data: out, shape: shape}, nil
}
