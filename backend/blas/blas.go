// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package blas provides a compute backend on gonum's dense matrices.
//
// Products are computed in float64 and rounded to float32, so results may
// differ from the cpu backend in the last bits.
package blas

import (
	internalblas "github.com/born-ml/mha/internal/backend/blas"
	"github.com/born-ml/mha/tensor"
)

// Backend represents the gonum backend implementation.
type Backend = internalblas.Backend

var _ tensor.Backend = (*Backend)(nil)

// New creates a gonum backend.
func New() *Backend {
	return internalblas.New()
}
