// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for the block transforms.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - SpaceToBatchND / BatchToSpaceND for 1 to 6 spatial axes, every dtype
//   - Strided input views, copied element by element
//   - Work split over batch-layout pixels with a bounded goroutine pool
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
//	    x := tensor.Arange[float32](tensor.Shape{1, 4, 4, 1}, backend)
//	    y, err := x.SpaceToBatch([]int{2, 2}, [][2]int{{0, 0}, {0, 0}})
//	}
//
// # Helper kernels
//
// The backend also carries elementwise kernels used around these transforms
// in training code: activation derivatives (ReluDerivative, TanhDerivative, ...),
// SigmCrossEntropy, WeightedCrossEntropyWithLogits and LogSumExp. They accept
// float16, float32 and float64 tensors.
//
// # Concurrency
//
// A Backend is immutable after construction and may be shared between
// goroutines, provided concurrent calls write to disjoint outputs.
package cpu
