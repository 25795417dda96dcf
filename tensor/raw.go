// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/spacebatch/internal/tensor"
)

// RawTensor is the low-level tensor representation.
//
// RawTensor provides:
//   - Shape and type information via Shape(), DType(), Device()
//   - Strided views over a shared buffer via View(), Strides(), Offset()
//   - Type-safe data access via AsFloat32(), AsInt64(), etc.
//
// Most users should use the high-level Tensor[T, B] type instead.
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{4, 6}, tensor.Float32, tensor.CPU)
//	cols, _ := raw.View(tensor.Shape{4, 3}, []int{6, 2}, 0) // every other column
//	dense := cols.Clone()                                    // contiguous copy
type RawTensor = tensor.RawTensor

// NewRaw allocates a zero-initialized contiguous RawTensor.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}
