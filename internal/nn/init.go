package nn

import (
	"math"

	"golang.org/x/exp/rand"

	"github.com/born-ml/mha/internal/tensor"
)

// Generator supplies uniformly distributed values in [0, 1).
//
// Weight initialization draws exclusively from an injected Generator, so a
// module built from a generator with a fixed seed is fully deterministic.
// *rand.Rand from golang.org/x/exp/rand satisfies this interface.
type Generator interface {
	Float32() float32
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func() float32

// Float32 calls f.
func (f GeneratorFunc) Float32() float32 { return f() }

// NewGenerator returns a seeded pseudo-random generator.
// The generator is not safe for concurrent use.
func NewGenerator(seed uint64) Generator {
	return rand.New(rand.NewSource(seed))
}

// Uniform creates a tensor with values drawn from U(low, high).
func Uniform(shape tensor.Shape, gen Generator, low, high float32) (*tensor.Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	data := make([]float32, shape.NumElements())
	for i := range data {
		data[i] = low + gen.Float32()*(high-low)
	}
	return tensor.Wrap(data, shape)
}

// Xavier (Glorot) initialization for weights.
//
// Initializes weights with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
//
// This initialization helps maintain variance of activations across layers.
func Xavier(fanIn, fanOut int, shape tensor.Shape, gen Generator) (*tensor.Tensor, error) {
	if fanIn+fanOut <= 0 {
		return tensor.Zeros(shape)
	}
	bound := float32(math.Sqrt(6.0 / float64(fanIn+fanOut)))
	return Uniform(shape, gen, -bound, bound)
}
