// Package blas implements the compute backend on gonum dense matrices.
//
// Operands are widened to float64, multiplied through gonum's BLAS-backed
// mat.Dense and narrowed back to float32. Accumulating in float64 makes this
// backend slightly more accurate than the cpu backend; both agree within
// float32 rounding for attention-sized inputs.
package blas

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/mha/internal/tensor"
)

var _ tensor.Backend = (*Backend)(nil)

// Backend implements tensor.Backend with gonum.
type Backend struct{}

// New creates a gonum backend.
func New() *Backend {
	return &Backend{}
}

// Name returns the backend name.
func (*Backend) Name() string {
	return "blas"
}

// MatMul performs (M, K) @ (K, N) -> (M, N) with gonum.
func (bk *Backend) MatMul(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	m, k, n, err := tensor.MatMulDims(a, b)
	if err != nil {
		return nil, err
	}
	out := make([]float32, m*n)
	mulDense(out, a.View(), b.View(), m, k, n)
	return tensor.Wrap(out, tensor.Shape{m, n})
}

// BatchMatMul multiplies each matrix of a 3D/4D batch with gonum.
func (bk *Backend) BatchMatMul(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	outShape, batch, m, k, n, err := tensor.BatchMatMulDims(a, b)
	if err != nil {
		return nil, err
	}
	aData, bData := a.View(), b.View()
	out := make([]float32, batch*m*n)
	for i := 0; i < batch; i++ {
		mulDense(out[i*m*n:(i+1)*m*n], aData[i*m*k:(i+1)*m*k], bData[i*k*n:(i+1)*k*n], m, k, n)
	}
	return tensor.Wrap(out, outShape)
}

// Softmax normalizes each row of a 2D tensor using gonum's floats helpers.
func (bk *Backend) Softmax(x *tensor.Tensor) (*tensor.Tensor, error) {
	rows, cols, err := tensor.SoftmaxDims(x)
	if err != nil {
		return nil, err
	}
	out := make([]float32, rows*cols)
	if cols == 0 {
		return tensor.Wrap(out, tensor.Shape{rows, cols})
	}

	src := x.View()
	row := make([]float64, cols)
	for r := 0; r < rows; r++ {
		widen(row, src[r*cols:(r+1)*cols])
		floats.AddConst(-floats.Max(row), row)
		for i, v := range row {
			row[i] = math.Exp(v)
		}
		floats.Scale(1/floats.Sum(row), row)
		narrow(out[r*cols:(r+1)*cols], row)
	}
	return tensor.Wrap(out, tensor.Shape{rows, cols})
}

// mulDense writes a[m×k] @ b[k×n] into dst. gonum rejects zero-sized
// matrices, so empty products are left as zeros.
func mulDense(dst, a, b []float32, m, k, n int) {
	if m == 0 || n == 0 || k == 0 {
		return
	}
	da := mat.NewDense(m, k, widen(make([]float64, m*k), a))
	db := mat.NewDense(k, n, widen(make([]float64, k*n), b))

	var dc mat.Dense
	dc.Mul(da, db)
	narrow(dst, dc.RawMatrix().Data)
}

func widen(dst []float64, src []float32) []float64 {
	for i, v := range src {
		dst[i] = float64(v)
	}
	return dst
}

func narrow(dst []float32, src []float64) {
	for i, v := range src {
		dst[i] = float32(v)
	}
}
