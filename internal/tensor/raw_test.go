package tensor

import (
	"bytes"
	"math"
	"testing"

	"github.com/pkg/errors"
)

// RawTensor Tests

func TestNewRawZeroInitialized(t *testing.T) {
	raw, err := NewRaw(Shape{2, 3}, Float64, CPU)
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}
	if raw.ByteSize() != 48 {
		t.Errorf("ByteSize = %d, want 48", raw.ByteSize())
	}
	for i, v := range raw.AsFloat64() {
		if v != 0 {
			t.Errorf("data[%d] = %v, want 0", i, v)
		}
	}
	if !raw.IsContiguous() || raw.Offset() != 0 {
		t.Error("NewRaw should create a contiguous tensor")
	}

	if _, err := NewRaw(Shape{2, -1}, Float32, CPU); err == nil {
		t.Error("NewRaw should reject negative extents")
	}
}

func TestNewRawByteSizeOverflow(t *testing.T) {
	// 2^61 elements fit in an int, 2^61 float64 bytes do not.
	_, err := NewRaw(Shape{1 << 61, 1, 1, 1}, Float64, CPU)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("NewRaw error = %v, want %v", err, ErrInvalidArgument)
	}

	_, err = NewRaw(Shape{1 << 62}, Float32, CPU)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("NewRaw error = %v, want %v", err, ErrInvalidArgument)
	}
}

func TestRawTensorAsViewsAreZeroCopy(t *testing.T) {
	raw, _ := NewRaw(Shape{3, 2}, Int64, CPU)
	data := raw.AsInt64()
	data[0] = 42
	if raw.AsInt64()[0] != 42 {
		t.Error("AsInt64 should return zero-copy slice")
	}

	b, _ := NewRaw(Shape{2, 2}, Bool, CPU)
	b.AsBool()[3] = true
	if !b.AsBool()[3] {
		t.Error("AsBool should return zero-copy slice")
	}
}

func TestRawTensorAsWrongDTypePanics(t *testing.T) {
	raw, _ := NewRaw(Shape{2}, Float32, CPU)
	defer func() {
		if recover() == nil {
			t.Error("AsFloat64 on a float32 tensor should panic")
		}
	}()
	_ = raw.AsFloat64()
}

func TestRawTensorView(t *testing.T) {
	raw, _ := NewRaw(Shape{4, 6}, Float32, CPU)
	data := raw.AsFloat32()
	for i := range data {
		data[i] = float32(i)
	}

	cols, err := raw.View(Shape{4, 3}, []int{6, 2}, 1)
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if cols.IsContiguous() {
		t.Error("column view should not be contiguous")
	}
	if !cols.SharesBuffer(raw) {
		t.Error("view should share the base buffer")
	}

	dense := cols.Clone()
	want := []float32{1, 3, 5, 7, 9, 11, 13, 15, 17, 19, 21, 23}
	for i, v := range dense.AsFloat32() {
		if v != want[i] {
			t.Errorf("Clone data[%d] = %v, want %v", i, v, want[i])
		}
	}
	if dense.SharesBuffer(raw) {
		t.Error("Clone should not share the base buffer")
	}

	// A row of the base is contiguous once the offset is applied.
	row, _ := raw.View(Shape{6}, []int{1}, 12)
	if !row.IsContiguous() || row.AsFloat32()[0] != 12 {
		t.Errorf("row view: contiguous=%v first=%v", row.IsContiguous(), row.AsFloat32()[0])
	}
}

func TestRawTensorViewErrors(t *testing.T) {
	raw, _ := NewRaw(Shape{4, 6}, Float32, CPU)

	tests := []struct {
		name    string
		shape   Shape
		strides []int
		offset  int
		target  error
	}{
		{"stride count", Shape{4, 6}, []int{6}, 0, ErrShapeMismatch},
		{"past the end", Shape{4, 6}, []int{6, 1}, 1, ErrShapeMismatch},
		{"negative offset", Shape{2}, []int{1}, -1, ErrInvalidArgument},
		{"negative stride", Shape{2}, []int{-1}, 5, ErrInvalidArgument},
		{"negative extent", Shape{-2}, []int{1}, 0, ErrInvalidArgument},
		{"stride overflow", Shape{1, 2, 2, 1}, []int{1, math.MaxInt, math.MaxInt, 1}, 0, ErrInvalidArgument},
		{"offset plus stride overflow", Shape{2}, []int{math.MaxInt - 2}, 5, ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := raw.View(tt.shape, tt.strides, tt.offset)
			if !errors.Is(err, tt.target) {
				t.Errorf("View error = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestRawTensorCloneKeepsBits(t *testing.T) {
	raw, _ := NewRaw(Shape{3}, Float32, CPU)
	nan := math.Float32frombits(0x7fc01234)
	raw.AsFloat32()[1] = nan

	clone := raw.Clone()
	if !bytes.Equal(raw.Data(), clone.Data()) {
		t.Error("Clone should copy element bytes verbatim")
	}
}

func TestRawTensorExtentOneStrides(t *testing.T) {
	raw, _ := NewRaw(Shape{8}, Uint8, CPU)
	v, err := raw.View(Shape{1, 4}, []int{99, 1}, 2)
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if !v.IsContiguous() {
		t.Error("stride of an extent-1 axis should not affect contiguity")
	}
}

func TestRawTensorIsNonOverlapping(t *testing.T) {
	raw, _ := NewRaw(Shape{4, 6}, Float32, CPU)

	tests := []struct {
		name    string
		shape   Shape
		strides []int
		want    bool
	}{
		{"contiguous", Shape{4, 6}, []int{6, 1}, true},
		{"every other column", Shape{4, 3}, []int{6, 2}, true},
		{"transposed", Shape{6, 4}, []int{1, 6}, true},
		{"broadcast row", Shape{4, 6}, []int{0, 1}, false},
		{"zero stride on extent one", Shape{1, 6}, []int{0, 1}, true},
		{"interleaved rows", Shape{3, 6}, []int{3, 1}, false},
		{"empty", Shape{0, 6}, []int{0, 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := raw.View(tt.shape, tt.strides, 0)
			if err != nil {
				t.Fatalf("View: %v", err)
			}
			if got := v.IsNonOverlapping(); got != tt.want {
				t.Errorf("IsNonOverlapping() = %v, want %v", got, tt.want)
			}
		})
	}
}
