package cpu

import (
	"github.com/born-ml/mha/internal/parallel"
	"github.com/born-ml/mha/internal/tensor"
)

// MatMul performs matrix multiplication.
// For 2D tensors: (M, K) @ (K, N) -> (M, N)
//
// Each output element is summed left to right over K. Rows are independent
// and may be computed concurrently.
func (cpu *CPUBackend) MatMul(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	m, k, n, err := tensor.MatMulDims(a, b)
	if err != nil {
		return nil, err
	}

	c := make([]float32, m*n)
	matmulFloat32(c, a.View(), b.View(), m, k, n, cpu.par)

	return tensor.Wrap(c, tensor.Shape{m, n})
}

// matmulFloat32 computes C[i,j] = sum_k A[i,k] * B[k,j] into a zeroed c.
func matmulFloat32(c, a, b []float32, m, k, n int, cfg parallel.Config) {
	parallel.For(m, func(i int) {
		row := a[i*k : (i+1)*k]
		out := c[i*n : (i+1)*n]
		for j := 0; j < n; j++ {
			sum := float32(0)
			for p, av := range row {
				sum += av * b[p*n+j]
			}
			out[j] = sum
		}
	}, cfg)
}
