// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/spacebatch/internal/backend/cpu"
	"github.com/born-ml/spacebatch/internal/parallel"
	"github.com/born-ml/spacebatch/tensor"
)

// Backend represents the CPU backend implementation.
//
// Besides the block transforms it provides the elementwise helper kernels
// (activation derivatives, logistic losses, log-sum-exp).
type Backend = internalcpu.CPUBackend

// ParallelConfig controls how many goroutines the kernels use.
type ParallelConfig = parallel.Config

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend using all available CPUs.
//
// Example:
//
//	import (
//	    "github.com/born-ml/spacebatch/backend/cpu"
//	    "github.com/born-ml/spacebatch/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Zeros[float32](tensor.Shape{1, 4, 4, 1}, backend)
//	}
func New() *Backend {
	return internalcpu.New()
}

// NewWithConfig creates a CPU backend with an explicit worker configuration.
func NewWithConfig(cfg ParallelConfig) *Backend {
	return internalcpu.NewWithConfig(cfg)
}

// DefaultParallelConfig returns one worker per CPU.
func DefaultParallelConfig() ParallelConfig {
	return parallel.DefaultConfig()
}

// Sequential returns a configuration that never spawns goroutines.
func Sequential() ParallelConfig {
	return parallel.Sequential()
}
