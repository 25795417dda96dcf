// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/born-ml/spacebatch/backend/cpu"
	"github.com/born-ml/spacebatch/tensor"
	"github.com/pkg/errors"
)

// TestBackendInterface verifies that cpu.Backend implements tensor.Backend.
func TestBackendInterface(_ *testing.T) {
	var _ tensor.Backend = (*cpu.Backend)(nil)
}

// TestRawTensorAPI verifies RawTensor type alias exposes expected API.
func TestRawTensorAPI(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}

	if !raw.Shape().Equal(tensor.Shape{2, 3}) {
		t.Errorf("Shape() = %v, want [2 3]", raw.Shape())
	}
	if raw.DType() != tensor.Float32 {
		t.Errorf("DType() = %v, want Float32", raw.DType())
	}
	if raw.Device() != tensor.CPU {
		t.Errorf("Device() = %v, want CPU", raw.Device())
	}
	if raw.ByteSize() != 6*4 {
		t.Errorf("ByteSize() = %d, want 24", raw.ByteSize())
	}

	view, err := raw.View(tensor.Shape{2}, []int{3}, 1)
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}
	if view.IsContiguous() {
		t.Error("column view should not be contiguous")
	}
}

// TestSpaceToBatchRoundTrip runs both transforms through the public API.
func TestSpaceToBatchRoundTrip(t *testing.T) {
	backend := cpu.New()
	x := tensor.Arange[float32](tensor.Shape{1, 4, 4, 1}, backend)
	zero := [][2]int{{0, 0}, {0, 0}}

	y, err := x.SpaceToBatch([]int{2, 2}, zero)
	if err != nil {
		t.Fatalf("SpaceToBatch failed: %v", err)
	}
	want := []float32{0, 2, 8, 10}
	for i, v := range y.Data()[:4] {
		if v != want[i] {
			t.Errorf("batch 0 element %d = %v, want %v", i, v, want[i])
		}
	}

	z, err := y.BatchToSpace([]int{2, 2}, zero)
	if err != nil {
		t.Fatalf("BatchToSpace failed: %v", err)
	}
	for i, v := range z.Data() {
		if v != float32(i) {
			t.Errorf("round trip element %d = %v", i, v)
		}
	}
}

// TestShapeInference checks the exported shape helpers and sentinels.
func TestShapeInference(t *testing.T) {
	shape, err := tensor.SpaceToBatchShape(tensor.Shape{2, 5, 3}, []int{3}, [][2]int{{1, 0}})
	if err != nil {
		t.Fatalf("SpaceToBatchShape failed: %v", err)
	}
	if !shape.Equal(tensor.Shape{6, 2, 3}) {
		t.Errorf("SpaceToBatchShape = %v, want [6 2 3]", shape)
	}

	_, err = tensor.BatchToSpaceShape(tensor.Shape{5, 2, 3}, []int{3}, [][2]int{{0, 0}})
	if !errors.Is(err, tensor.ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}

	_, err = tensor.SpaceToBatchShape(tensor.Shape{1, 4, 1}, []int{0}, [][2]int{{0, 0}})
	if !errors.Is(err, tensor.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}
