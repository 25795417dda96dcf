package tensor

import (
	"testing"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

func TestSpaceToBatchShape(t *testing.T) {
	tests := []struct {
		name  string
		space Shape
		block []int
		pads  [][2]int
		want  Shape
	}{
		{"image", Shape{1, 4, 4, 1}, []int{2, 2}, [][2]int{{0, 0}, {0, 0}}, Shape{4, 2, 2, 1}},
		{"padded", Shape{2, 3, 5, 3}, []int{2, 3}, [][2]int{{1, 0}, {0, 1}}, Shape{12, 2, 2, 3}},
		{"sequence", Shape{3, 7, 8}, []int{4}, [][2]int{{0, 1}}, Shape{12, 2, 8}},
		{"volume", Shape{1, 2, 4, 6, 1}, []int{2, 2, 3}, [][2]int{{0, 0}, {0, 0}, {0, 0}}, Shape{12, 1, 2, 2, 1}},
		{"block one", Shape{2, 3, 3, 2}, []int{1, 1}, [][2]int{{0, 0}, {0, 0}}, Shape{2, 3, 3, 2}},
		{"empty batch", Shape{0, 4, 4, 1}, []int{2, 2}, [][2]int{{0, 0}, {0, 0}}, Shape{0, 2, 2, 1}},
		{"max dims", Shape{1, 2, 2, 2, 2, 2, 2, 1}, []int{2, 2, 2, 2, 2, 2}, make([][2]int, 6), Shape{64, 1, 1, 1, 1, 1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SpaceToBatchShape(tt.space, tt.block, tt.pads)
			if err != nil {
				t.Fatalf("SpaceToBatchShape: %v", err)
			}
			assertEqualShape(t, tt.want, got, "SpaceToBatchShape")

			// Inverse shape with matching crops.
			back, err := BatchToSpaceShape(got, tt.block, tt.pads)
			if err != nil {
				t.Fatalf("BatchToSpaceShape: %v", err)
			}
			assertEqualShape(t, tt.space, back, "BatchToSpaceShape")
		})
	}
}

func TestBatchToSpaceShape(t *testing.T) {
	tests := []struct {
		name  string
		batch Shape
		block []int
		crops [][2]int
		want  Shape
	}{
		{"image", Shape{4, 2, 2, 1}, []int{2, 2}, [][2]int{{0, 0}, {0, 0}}, Shape{1, 4, 4, 1}},
		{"cropped", Shape{8, 1, 3, 2}, []int{2, 2}, [][2]int{{0, 1}, {2, 1}}, Shape{2, 1, 3, 2}},
		{"empty extent", Shape{4, 0, 2, 1}, []int{2, 2}, [][2]int{{0, 0}, {0, 0}}, Shape{1, 0, 4, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BatchToSpaceShape(tt.batch, tt.block, tt.crops)
			if err != nil {
				t.Fatalf("BatchToSpaceShape: %v", err)
			}
			assertEqualShape(t, tt.want, got, "BatchToSpaceShape")
		})
	}
}

func TestBlockShapeErrors(t *testing.T) {
	zero := [][2]int{{0, 0}, {0, 0}}
	tests := []struct {
		name   string
		call   func() (Shape, error)
		target error
	}{
		{"no block dims", func() (Shape, error) { return SpaceToBatchShape(Shape{1, 4}, nil, nil) }, ErrInvalidArgument},
		{"too many block dims", func() (Shape, error) {
			return SpaceToBatchShape(make(Shape, 9), make([]int, 7), make([][2]int, 7))
		}, ErrInvalidArgument},
		{"rank mismatch", func() (Shape, error) { return SpaceToBatchShape(Shape{1, 4, 4}, []int{2, 2}, zero) }, ErrShapeMismatch},
		{"pair count", func() (Shape, error) { return SpaceToBatchShape(Shape{1, 4, 4, 1}, []int{2, 2}, zero[:1]) }, ErrShapeMismatch},
		{"not divisible", func() (Shape, error) { return SpaceToBatchShape(Shape{1, 5, 4, 1}, []int{2, 2}, zero) }, ErrShapeMismatch},
		{"zero block", func() (Shape, error) { return SpaceToBatchShape(Shape{1, 4, 4, 1}, []int{2, 0}, zero) }, ErrInvalidArgument},
		{"negative pad", func() (Shape, error) {
			return SpaceToBatchShape(Shape{1, 4, 4, 1}, []int{2, 2}, [][2]int{{0, -2}, {0, 0}})
		}, ErrInvalidArgument},
		{"negative extent", func() (Shape, error) { return SpaceToBatchShape(Shape{1, -4, 4, 1}, []int{2, 2}, zero) }, ErrInvalidArgument},
		{"batch not divisible", func() (Shape, error) { return BatchToSpaceShape(Shape{6, 2, 2, 1}, []int{2, 2}, zero) }, ErrShapeMismatch},
		{"crop exceeds extent", func() (Shape, error) {
			return BatchToSpaceShape(Shape{4, 2, 2, 1}, []int{2, 2}, [][2]int{{5, 0}, {0, 0}})
		}, ErrShapeMismatch},
		{"crop removes extent", func() (Shape, error) {
			return BatchToSpaceShape(Shape{4, 2, 2, 1}, []int{2, 2}, [][2]int{{2, 2}, {0, 0}})
		}, ErrShapeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.call()
			if err == nil {
				t.Fatalf("expected error, got shape %v", got)
			}
			if !errors.Is(err, tt.target) {
				t.Errorf("error %q does not match %v", err, tt.target)
			}
		})
	}
}

func TestBlockShapeErrorsAggregated(t *testing.T) {
	_, err := SpaceToBatchShape(Shape{1, 3, 5, 1}, []int{2, 2}, [][2]int{{0, 0}, {0, 0}})
	if err == nil {
		t.Fatal("expected error")
	}
	if n := len(multierr.Errors(err)); n != 2 {
		t.Errorf("expected one error per misaligned axis, got %d: %v", n, err)
	}

	_, err = SpaceToBatchShape(Shape{1, 4, 4, 1}, []int{0, -1}, [][2]int{{-1, 0}, {0, 0}})
	if n := len(multierr.Errors(err)); n != 3 {
		t.Errorf("expected 3 argument errors, got %d: %v", n, err)
	}
}
