package tensor

// SpaceToBatch moves spatial blocks of a [batch, spatial..., channels] tensor into
// the batch axis and returns the new tensor. paddings holds {before, after} per
// spatial axis; padded positions are zero.
//
// Example:
//
//	x := tensor.Arange[float32](Shape{1, 4, 4, 1}, backend)
//	y, err := x.SpaceToBatch([]int{2, 2}, [][2]int{{0, 0}, {0, 0}}) // Shape: [4, 2, 2, 1]
func (t *Tensor[T, B]) SpaceToBatch(block []int, paddings [][2]int) (*Tensor[T, B], error) {
	outShape, err := SpaceToBatchShape(t.Shape(), block, paddings)
	if err != nil {
		return nil, err
	}
	out := Zeros[T, B](outShape, t.backend)
	if err := t.backend.SpaceToBatchND(t.raw, out.raw, block, paddings); err != nil {
		return nil, err
	}
	return out, nil
}

// BatchToSpace is the inverse of SpaceToBatch. crops holds {before, after} per
// spatial axis; cropped positions are dropped.
//
// Example:
//
//	z, err := y.BatchToSpace([]int{2, 2}, [][2]int{{0, 0}, {0, 0}}) // Shape: [1, 4, 4, 1]
func (t *Tensor[T, B]) BatchToSpace(block []int, crops [][2]int) (*Tensor[T, B], error) {
	outShape, err := BatchToSpaceShape(t.Shape(), block, crops)
	if err != nil {
		return nil, err
	}
	out := Zeros[T, B](outShape, t.backend)
	if err := t.backend.BatchToSpaceND(t.raw, out.raw, block, crops); err != nil {
		return nil, err
	}
	return out, nil
}
