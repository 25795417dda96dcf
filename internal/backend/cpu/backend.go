// Package cpu implements the CPU backend: block transforms and elementwise helper kernels.
package cpu

import (
	"github.com/born-ml/spacebatch/internal/parallel"
	"github.com/born-ml/spacebatch/internal/tensor"
)

// CPUBackend implements tensor operations on CPU.
//
// The backend holds only an immutable parallel configuration and is safe for
// concurrent use as long as concurrent calls write disjoint outputs.
type CPUBackend struct {
	device   tensor.Device
	parallel parallel.Config
}

// New creates a new CPU backend using all available CPUs.
func New() *CPUBackend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a CPU backend with an explicit worker configuration.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		parallel: cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// ParallelConfig returns the worker configuration used by the kernels.
func (cpu *CPUBackend) ParallelConfig() parallel.Config {
	return cpu.parallel
}
