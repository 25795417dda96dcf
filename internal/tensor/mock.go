package tensor

import "github.com/pkg/errors"

// Verify that MockBackend implements Backend.
var _ Backend = (*MockBackend)(nil)

// MockBackend is a simple backend for testing.
// It walks the space grid forward, composing batch indices from block offsets,
// and copies raw bytes, serving as a reference for optimized backends.
type MockBackend struct{}

// NewMockBackend creates a new MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Name returns the backend name.
func (m *MockBackend) Name() string {
	return "mock"
}

// Device returns the device type.
func (m *MockBackend) Device() Device {
	return CPU
}

// SpaceToBatchND moves spatial blocks of input into the batch axis of output.
func (m *MockBackend) SpaceToBatchND(input, output *RawTensor, block []int, paddings [][2]int) error {
	want, err := SpaceToBatchShape(input.Shape(), block, paddings)
	if err != nil {
		return err
	}
	if err := m.checkOutput("spacetobatch", input, output, want); err != nil {
		return err
	}
	m.walk(input, output, block, paddings, false)
	return nil
}

// BatchToSpaceND moves blocks out of the batch axis of input into the spatial axes of output.
func (m *MockBackend) BatchToSpaceND(input, output *RawTensor, block []int, crops [][2]int) error {
	want, err := BatchToSpaceShape(input.Shape(), block, crops)
	if err != nil {
		return err
	}
	if err := m.checkOutput("batchtospace", input, output, want); err != nil {
		return err
	}
	m.walk(output, input, block, crops, true)
	return nil
}

func (m *MockBackend) checkOutput(op string, input, output *RawTensor, want Shape) error {
	if input.DType() != output.DType() {
		return errors.Wrapf(ErrInvalidArgument, "%s: output dtype %s, input dtype %s", op, output.DType(), input.DType())
	}
	if !output.Shape().Equal(want) {
		return errors.Wrapf(ErrShapeMismatch, "%s: output shape %v, expected %v", op, output.Shape(), want)
	}
	return nil
}

// walk enumerates the expanded space grid [batch, block[d]*batchExtent[d]..., channels],
// the padded input for space to batch or the uncropped output for batch to space.
// Each grid position p splits into a block position p/block and a block offset
// p%block; the offsets are composed into the batch index with the first spatial
// axis most significant. toSpace selects the copy direction.
func (m *MockBackend) walk(space, batch *RawTensor, block []int, starts [][2]int, toSpace bool) {
	dims := len(block)
	spaceShape := space.Shape()
	grid := make(Shape, dims+2)
	grid[0] = spaceShape[0]
	grid[dims+1] = spaceShape[dims+1]
	for d, k := range block {
		grid[d+1] = batch.Shape()[d+1] * k
	}
	if grid.NumElements() == 0 {
		return
	}

	blockCount := 1
	for _, k := range block {
		blockCount *= k
	}
	size := batch.DType().Size()
	zero := make([]byte, size)
	index := make([]int, len(grid))
	spaceIndex := make([]int, len(grid))
	batchIndex := make([]int, len(grid))
	for n := 0; n < grid.NumElements(); n++ {
		offset := 0
		inside := true
		for d, k := range block {
			p := index[d+1]
			offset = offset*k + p%k
			batchIndex[d+1] = p / k
			spaceIndex[d+1] = p - starts[d][0]
			if spaceIndex[d+1] < 0 || spaceIndex[d+1] >= spaceShape[d+1] {
				inside = false
			}
		}
		batchIndex[0] = index[0]*blockCount + offset
		spaceIndex[0] = index[0]
		batchIndex[dims+1] = index[dims+1]
		spaceIndex[dims+1] = index[dims+1]

		dst := elementBytes(batch, batchIndex)
		switch {
		case toSpace && inside:
			copy(elementBytes(space, spaceIndex), dst)
		case !toSpace && inside:
			copy(dst, elementBytes(space, spaceIndex))
		case !toSpace:
			copy(dst, zero)
		}

		for k := len(index) - 1; k >= 0; k-- {
			index[k]++
			if index[k] < grid[k] {
				break
			}
			index[k] = 0
		}
	}
}

func elementBytes(r *RawTensor, index []int) []byte {
	pos := r.offset
	for k, idx := range index {
		pos += idx * r.stride[k]
	}
	size := r.dtype.Size()
	return r.buffer[pos*size : (pos+1)*size]
}
