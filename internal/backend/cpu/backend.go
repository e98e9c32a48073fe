// Package cpu implements the pure Go compute backend.
package cpu

import (
	"github.com/born-ml/mha/internal/parallel"
	"github.com/born-ml/mha/internal/tensor"
)

var _ tensor.Backend = (*CPUBackend)(nil)

// CPUBackend implements tensor.Backend on the CPU.
//
// It holds only an immutable parallel configuration, so a single backend can
// be shared by concurrent callers.
type CPUBackend struct {
	par parallel.Config
}

// New creates a CPU backend that parallelizes across rows using all CPUs.
func New() *CPUBackend {
	return &CPUBackend{par: parallel.DefaultConfig()}
}

// NewWithConfig creates a CPU backend with an explicit parallel config.
// Use parallel.Sequential() for fully single-threaded execution.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{par: cfg}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "cpu"
}
