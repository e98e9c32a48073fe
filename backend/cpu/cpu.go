// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go CPU backend.
//
// MatMul and Softmax split rows across goroutines and BatchMatMul splits
// batch slices; every goroutine writes a disjoint part of the output, so
// results are bit-identical to single-threaded execution.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/mha/backend/cpu"
//	    "github.com/born-ml/mha/nn"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    mha, err := nn.NewMultiHeadAttention(nn.MHAConfig{NumHeads: 8, DModel: 512}, nn.NewGenerator(1), backend)
//	}
package cpu

import (
	"runtime"

	internalcpu "github.com/born-ml/mha/internal/backend/cpu"
	"github.com/born-ml/mha/internal/parallel"
	"github.com/born-ml/mha/tensor"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a CPU backend that uses all CPUs.
func New() *Backend {
	return internalcpu.New()
}

// NewSequential creates a CPU backend that never spawns goroutines.
func NewSequential() *Backend {
	return internalcpu.NewWithConfig(parallel.Sequential())
}

// NewWithWorkers creates a CPU backend that uses at most n goroutines per
// operation. n <= 0 selects runtime.NumCPU().
func NewWithWorkers(n int) *Backend {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	cfg := parallel.DefaultConfig()
	cfg.NumWorkers = n
	cfg.Enabled = n > 1
	return internalcpu.NewWithConfig(cfg)
}
