package cpu

import (
	"math"

	"github.com/born-ml/mha/internal/parallel"
	"github.com/born-ml/mha/internal/tensor"
)

// Softmax applies softmax independently to each row of a 2D tensor.
//
// The row maximum is subtracted before exponentiation so large scores cannot
// overflow; the result is unchanged because softmax is shift invariant.
// A row whose entries are all -Inf yields NaN, as in the unshifted formula.
func (cpu *CPUBackend) Softmax(x *tensor.Tensor) (*tensor.Tensor, error) {
	rows, cols, err := tensor.SoftmaxDims(x)
	if err != nil {
		return nil, err
	}

	src := x.View()
	dst := make([]float32, len(src))
	parallel.For(rows, func(r int) {
		softmaxRow(dst[r*cols:(r+1)*cols], src[r*cols:(r+1)*cols])
	}, cpu.par)

	return tensor.Wrap(dst, tensor.Shape{rows, cols})
}

func softmaxRow(dst, src []float32) {
	if len(src) == 0 {
		return
	}

	// Find max for numerical stability
	maxVal := src[0]
	for _, v := range src[1:] {
		if v > maxVal {
			maxVal = v
		}
	}

	// Accumulate in float64; rows can be long.
	sum := 0.0
	for i, v := range src {
		e := math.Exp(float64(v - maxVal))
		dst[i] = float32(e)
		sum += e
	}

	inv := 1 / sum
	for i := range dst {
		dst[i] = float32(float64(dst[i]) * inv)
	}
}
