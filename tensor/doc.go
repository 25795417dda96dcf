// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides type-safe tensors and the block transforms between
// spatial and batch layouts.
//
// # Overview
//
// A block transform regroups a [batch, spatial..., channels] tensor:
//   - SpaceToBatch splits every spatial axis into blocks and moves each block
//     position into the batch axis, optionally zero-padding the spatial axes first.
//   - BatchToSpace is the inverse: it interleaves batch entries back into the
//     spatial axes and optionally crops the result.
//
// Up to MaxBlockDims spatial axes are supported. Output batch index
// b' = b*prod(block) + offset, where offset is the block position with the
// first spatial axis most significant.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/spacebatch/backend/cpu"
//	    "github.com/born-ml/spacebatch/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    x := tensor.Arange[float32](tensor.Shape{1, 4, 4, 1}, backend)
//	    y, err := x.SpaceToBatch([]int{2, 2}, [][2]int{{0, 0}, {0, 0}})
//	    // y: [4, 2, 2, 1], y batch 0 holds {0, 2, 8, 10}
//	    z, err := y.BatchToSpace([]int{2, 2}, [][2]int{{0, 0}, {0, 0}})
//	    // z equals x
//	}
//
// # Supported Data Types
//
// The transforms move element bytes verbatim, so every DType is supported:
//   - float16, float32, float64 (floating-point, NaN payloads preserved)
//   - int32, int64 (signed integers)
//   - uint8 (unsigned integers, useful for images)
//   - bool (boolean masks)
//
// # Errors
//
// Shape problems wrap ErrShapeMismatch and bad arguments wrap ErrInvalidArgument;
// test with errors.Is. When several spatial axes are invalid every violation is
// reported in one combined error.
package tensor
