// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/spacebatch/internal/tensor"
)

// Type aliases for public API

// DType is a constraint for tensor data types.
// Supported types: float16.Float16, float32, float64, int32, int64, uint8, bool.
type DType = tensor.DType

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Float16 DataType = tensor.Float16
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
	Bool    DataType = tensor.Bool
)

// ParseDataType returns the DataType named by s ("float32", "int64", ...).
func ParseDataType(s string) (DataType, bool) {
	return tensor.ParseDataType(s)
}

// Device represents the device where tensor data resides.
type Device = tensor.Device

// Device constants.
const (
	CPU    Device = tensor.CPU
	CUDA   Device = tensor.CUDA
	Vulkan Device = tensor.Vulkan
	Metal  Device = tensor.Metal
	WebGPU Device = tensor.WebGPU
)

// Shape represents the dimensions of a tensor.
// Example: Shape{1, 4, 4, 3} is one 4×4 image with 3 channels.
type Shape = tensor.Shape

// MaxBlockDims is the largest number of spatial axes a block transform supports.
const MaxBlockDims = tensor.MaxBlockDims

// Sentinel errors. Use errors.Is to check for them.
var (
	ErrShapeMismatch   = tensor.ErrShapeMismatch
	ErrInvalidArgument = tensor.ErrInvalidArgument
)

// Tensor is a generic type-safe tensor.
//
// T is the data type, B is the backend implementation.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Arange[float32](tensor.Shape{1, 4, 4, 1}, backend)
//	y, err := x.SpaceToBatch([]int{2, 2}, [][2]int{{0, 0}, {0, 0}})
type Tensor[T DType, B Backend] = tensor.Tensor[T, B]

// Creation functions

// New wraps an existing RawTensor.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return tensor.New[T, B](raw, b)
}

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Zeros[T, B](shape, b)
}

// Full creates a tensor filled with a specific value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	return tensor.Full[T, B](shape, value, b)
}

// Arange creates a tensor holding 0, 1, 2, ... in row-major order.
// Bool tensors hold i%2 == 1.
func Arange[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Arange[T, B](shape, b)
}

// FromSlice creates a tensor from a Go slice.
//
// Example:
//
//	backend := cpu.New()
//	x, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2, 1}, backend)
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	return tensor.FromSlice[T, B](data, shape, b)
}

// Shape inference

// SpaceToBatchShape returns the output shape of SpaceToBatch without running it.
// paddings holds {before, after} per spatial axis.
func SpaceToBatchShape(space Shape, block []int, paddings [][2]int) (Shape, error) {
	return tensor.SpaceToBatchShape(space, block, paddings)
}

// BatchToSpaceShape returns the output shape of BatchToSpace without running it.
// crops holds {before, after} per spatial axis.
func BatchToSpaceShape(batch Shape, block []int, crops [][2]int) (Shape, error) {
	return tensor.BatchToSpaceShape(batch, block, crops)
}
