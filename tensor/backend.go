// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/spacebatch/internal/tensor"

// Backend defines the interface that all compute backends must implement.
//
// Implementations:
//   - backend/cpu: Pure Go, parallel over batch-layout pixels
//
// Example:
//
//	import (
//	    "github.com/born-ml/spacebatch/backend/cpu"
//	    "github.com/born-ml/spacebatch/tensor"
//	)
//
//	backend := cpu.New()
//	x := tensor.Arange[float32](tensor.Shape{1, 4, 4, 1}, backend)
//	y, err := x.SpaceToBatch([]int{2, 2}, [][2]int{{0, 0}, {0, 0}}) // Uses backend.SpaceToBatchND
type Backend interface {
	// Block transforms. output is pre-allocated with the inferred shape.
	SpaceToBatchND(input, output *RawTensor, blockShape []int, paddings [][2]int) error
	BatchToSpaceND(input, output *RawTensor, blockShape []int, crops [][2]int) error

	// Metadata.
	Name() string   // Backend name (e.g., "CPU").
	Device() Device // Device type.
}

// Compile-time check that internal Backend implements public Backend.
var _ Backend = tensor.Backend(nil)
