package cpu

import (
	"github.com/born-ml/mha/internal/parallel"
	"github.com/born-ml/mha/internal/tensor"
)

// BatchMatMul performs batched matrix multiplication.
// Supports 3D and 4D tensors with batch dimensions.
//
// For 3D: [B, M, K] @ [B, K, N] -> [B, M, N]
// For 4D: [B, H, M, K] @ [B, H, K, N] -> [B, H, M, N]
//
// The last two dimensions are treated as matrix dimensions.
// All leading dimensions must match (batch dimensions).
func (cpu *CPUBackend) BatchMatMul(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	outShape, batch, m, k, n, err := tensor.BatchMatMulDims(a, b)
	if err != nil {
		return nil, err
	}

	aData, bData := a.View(), b.View()
	c := make([]float32, batch*m*n)

	// Individual matrices are small in attention workloads, so parallelize
	// over the batch and run each product sequentially.
	parallel.For(batch, func(i int) {
		matmulFloat32(
			c[i*m*n:(i+1)*m*n],
			aData[i*m*k:(i+1)*m*k],
			bData[i*k*n:(i+1)*k*n],
			m, k, n,
			parallel.Sequential(),
		)
	}, cpu.batchConfig())

	return tensor.Wrap(c, outShape)
}

// batchConfig relaxes the chunk size: each batch item is a whole matrix.
func (cpu *CPUBackend) batchConfig() parallel.Config {
	cfg := cpu.par
	cfg.MinChunkSize = 1
	return cfg
}
