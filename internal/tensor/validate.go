package tensor

import "fmt"

// MatMulDims validates the operands of a 2D matrix product and returns
// (m, k, n) for [m, k] @ [k, n]. Shared by all backends.
func MatMulDims(a, b *Tensor) (m, k, n int, err error) {
	if len(a.shape) != 2 || len(b.shape) != 2 {
		return 0, 0, 0, fmt.Errorf("%w: matmul requires 2D operands, got %v and %v", ErrRank, a.shape, b.shape)
	}
	if a.shape[1] != b.shape[0] {
		return 0, 0, 0, fmt.Errorf("%w: matmul %v @ %v", ErrDimensionMismatch, a.shape, b.shape)
	}
	return a.shape[0], a.shape[1], b.shape[1], nil
}

// BatchMatMulDims validates batched matmul operands. Both tensors must have
// the same rank (3 or 4) and identical leading dimensions. It returns the
// output shape, the number of matrices and (m, k, n).
func BatchMatMulDims(a, b *Tensor) (out Shape, batch, m, k, n int, err error) {
	ndim := len(a.shape)
	if ndim < 3 || ndim > 4 || len(b.shape) != ndim {
		return nil, 0, 0, 0, 0, fmt.Errorf("%w: batch matmul requires matching 3D or 4D operands, got %v and %v",
			ErrRank, a.shape, b.shape)
	}
	batch = 1
	for i := 0; i < ndim-2; i++ {
		if a.shape[i] != b.shape[i] {
			return nil, 0, 0, 0, 0, fmt.Errorf("%w: batch dimension %d differs: %v vs %v",
				ErrDimensionMismatch, i, a.shape, b.shape)
		}
		batch *= a.shape[i]
	}
	m, k = a.shape[ndim-2], a.shape[ndim-1]
	if b.shape[ndim-2] != k {
		return nil, 0, 0, 0, 0, fmt.Errorf("%w: inner dimensions of %v @ %v", ErrDimensionMismatch, a.shape, b.shape)
	}
	n = b.shape[ndim-1]
	out = a.shape.Clone()
	out[ndim-1] = n
	return out, batch, m, k, n, nil
}

// SoftmaxDims validates a softmax operand and returns (rows, cols).
func SoftmaxDims(x *Tensor) (rows, cols int, err error) {
	if len(x.shape) != 2 {
		return 0, 0, fmt.Errorf("%w: softmax requires a 2D tensor, got %v", ErrRank, x.shape)
	}
	return x.shape[0], x.shape[1], nil
}
