package tensor

// Backend defines the compute kernels the attention engine depends on.
// Backends are stateless with respect to their inputs: they read operands and
// return freshly allocated results, so one backend may be shared across
// goroutines.
//
// Implementations:
//   - cpu: pure Go, row-parallel
//   - blas: gonum dense matrices
type Backend interface {
	// Name returns a short identifier such as "cpu".
	Name() string

	// MatMul multiplies two matrices: [M, K] @ [K, N] -> [M, N].
	// Returns ErrRank unless both operands are 2D and ErrDimensionMismatch
	// if the inner dimensions differ.
	MatMul(a, b *Tensor) (*Tensor, error)

	// BatchMatMul performs batched matrix multiplication for 3D/4D tensors.
	// For 3D: [B, M, K] @ [B, K, N] -> [B, M, N]
	// For 4D: [B, H, M, K] @ [B, H, K, N] -> [B, H, M, N]
	BatchMatMul(a, b *Tensor) (*Tensor, error)

	// Softmax normalizes each row of a 2D tensor.
	// Returns ErrRank for any other rank.
	Softmax(x *Tensor) (*Tensor, error)
}
