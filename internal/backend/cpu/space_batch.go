package cpu

import (
	"fmt"

	"github.com/born-ml/spacebatch/internal/parallel"
	"github.com/born-ml/spacebatch/internal/tensor"
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// SpaceToBatch is the image form of SpaceToBatchND for [batch, height, width, channels]
// tensors. Height is padded by padBottom before and padTop after the data, width by
// padLeft and padRight. blockSize applies to both spatial axes.
func (cpu *CPUBackend) SpaceToBatch(input, output *tensor.RawTensor, padBottom, padTop, padLeft, padRight, blockSize int) error {
	return cpu.SpaceToBatchND(input, output,
		[]int{blockSize, blockSize},
		[][2]int{{padBottom, padTop}, {padLeft, padRight}})
}

// BatchToSpace is the image form of BatchToSpaceND for [batch, height, width, channels]
// tensors. Height is cropped by cropBottom before and cropTop after, width by
// cropLeft and cropRight. blockSize applies to both spatial axes.
func (cpu *CPUBackend) BatchToSpace(input, output *tensor.RawTensor, cropBottom, cropTop, cropLeft, cropRight, blockSize int) error {
	return cpu.BatchToSpaceND(input, output,
		[]int{blockSize, blockSize},
		[][2]int{{cropBottom, cropTop}, {cropLeft, cropRight}})
}

// SpaceToBatchND moves spatial blocks of input into the batch axis of output.
//
// input is [batch, spatial..., channels] with len(blockShape) spatial axes.
// Output batch index b' = b*prod(blockShape) + offset, where offset is the block
// position unpacked mixed-radix over blockShape (first spatial axis most
// significant). Positions that fall into the padding are zero.
//
// Everything is validated before the first write: on error output is untouched.
//
// Example:
//
//	// [1, 4, 4, 1] holding 0..15 -> [4, 2, 2, 1]; output batch 0 is {0, 2, 8, 10}.
//	err := backend.SpaceToBatchND(x, y, []int{2, 2}, [][2]int{{0, 0}, {0, 0}})
func (cpu *CPUBackend) SpaceToBatchND(input, output *tensor.RawTensor, blockShape []int, paddings [][2]int) error {
	want, err := tensor.SpaceToBatchShape(input.Shape(), blockShape, paddings)
	if err != nil {
		return err
	}
	plan, err := newBlockPlan("spacetobatch", input, output, output, input, want, blockShape, paddings)
	if err != nil {
		return err
	}
	return cpu.transferBlocks(plan, input, output, false)
}

// BatchToSpaceND moves blocks out of the batch axis of input into the spatial
// axes of output, dropping the cropped border. It is the inverse of SpaceToBatchND.
func (cpu *CPUBackend) BatchToSpaceND(input, output *tensor.RawTensor, blockShape []int, crops [][2]int) error {
	want, err := tensor.BatchToSpaceShape(input.Shape(), blockShape, crops)
	if err != nil {
		return err
	}
	plan, err := newBlockPlan("batchtospace", input, output, input, output, want, blockShape, crops)
	if err != nil {
		return err
	}
	return cpu.transferBlocks(plan, output, input, true)
}

// blockPlan is the validated geometry of one transform.
// Fixed-size arrays keep the per-pixel loop free of heap allocations.
type blockPlan struct {
	dims       int
	blockCount int // prod(block)
	channels   int
	pixels     int // batch-layout batch * prod(batchExtent)

	block       [tensor.MaxBlockDims]int
	start       [tensor.MaxBlockDims]int // pad before (space to batch) or crop before (batch to space)
	spaceExtent [tensor.MaxBlockDims]int
	batchExtent [tensor.MaxBlockDims]int

	spaceStrides [tensor.MaxBlockDims + 2]int
	batchStrides [tensor.MaxBlockDims + 2]int
	spaceOffset  int
	batchOffset  int
}

func newBlockPlan(op string, input, output, batch, space *tensor.RawTensor, want tensor.Shape, block []int, amounts [][2]int) (*blockPlan, error) {
	if input.DType() != output.DType() {
		return nil, errors.Wrapf(tensor.ErrInvalidArgument, "%s: output dtype %s, input dtype %s", op, output.DType(), input.DType())
	}
	if !output.Shape().Equal(want) {
		return nil, errors.Wrapf(tensor.ErrShapeMismatch, "%s: output shape %v, expected %v", op, output.Shape(), want)
	}
	if input.SharesBuffer(output) {
		return nil, errors.Wrapf(tensor.ErrInvalidArgument, "%s: output shares its buffer with input", op)
	}
	if !output.IsNonOverlapping() {
		return nil, errors.Wrapf(tensor.ErrInvalidArgument, "%s: output strides %v overlap for shape %v", op, output.Strides(), output.Shape())
	}

	p := &blockPlan{
		dims:        len(block),
		blockCount:  1,
		spaceOffset: space.Offset(),
		batchOffset: batch.Offset(),
	}
	batchShape := batch.Shape()
	spaceShape := space.Shape()
	p.channels = batchShape[p.dims+1]
	p.pixels = batchShape[0]
	for d, k := range block {
		p.block[d] = k
		p.start[d] = amounts[d][0]
		p.spaceExtent[d] = spaceShape[d+1]
		p.batchExtent[d] = batchShape[d+1]
		p.blockCount *= k
		p.pixels *= batchShape[d+1]
	}
	copy(p.spaceStrides[:], space.Strides())
	copy(p.batchStrides[:], batch.Strides())
	return p, nil
}

func (cpu *CPUBackend) transferBlocks(p *blockPlan, space, batch *tensor.RawTensor, toSpace bool) error {
	if p.pixels == 0 || p.channels == 0 {
		return nil
	}

	switch space.DType() {
	case tensor.Float32:
		transfer(p, tensor.Elements[float32](space), tensor.Elements[float32](batch), toSpace, cpu.parallel)
	case tensor.Float64:
		transfer(p, tensor.Elements[float64](space), tensor.Elements[float64](batch), toSpace, cpu.parallel)
	case tensor.Float16:
		transfer(p, tensor.Elements[float16.Float16](space), tensor.Elements[float16.Float16](batch), toSpace, cpu.parallel)
	case tensor.Int32:
		transfer(p, tensor.Elements[int32](space), tensor.Elements[int32](batch), toSpace, cpu.parallel)
	case tensor.Int64:
		transfer(p, tensor.Elements[int64](space), tensor.Elements[int64](batch), toSpace, cpu.parallel)
	case tensor.Uint8:
		transfer(p, tensor.Elements[uint8](space), tensor.Elements[uint8](batch), toSpace, cpu.parallel)
	case tensor.Bool:
		transfer(p, tensor.Elements[bool](space), tensor.Elements[bool](batch), toSpace, cpu.parallel)
	default:
		panic(fmt.Sprintf("block transform: unsupported dtype %s", space.DType()))
	}
	return nil
}

// transfer walks every batch-layout pixel (batch index and spatial position) and
// moves its channel run between the batch and space buffers. toSpace selects
// batch-to-space; otherwise pixels landing in the padding are zero-filled.
func transfer[T tensor.DType](p *blockPlan, space, batch []T, toSpace bool, cfg parallel.Config) {
	dims := p.dims
	channels := p.channels
	spaceChannelStride := p.spaceStrides[dims+1]
	batchChannelStride := p.batchStrides[dims+1]
	runs := spaceChannelStride == 1 && batchChannelStride == 1

	parallel.ForRange(p.pixels, func(first, last int) {
		var coord [tensor.MaxBlockDims]int
		for pix := first; pix < last; pix++ {
			rest := pix
			for d := dims - 1; d >= 0; d-- {
				coord[d] = rest % p.batchExtent[d]
				rest /= p.batchExtent[d]
			}
			batchB := rest

			batchPos := p.batchOffset + batchB*p.batchStrides[0]
			for d := 0; d < dims; d++ {
				batchPos += coord[d] * p.batchStrides[d+1]
			}

			// batchB = spaceB*blockCount + offset; offset digits are unpacked
			// from the last spatial axis (least significant) to the first.
			spacePos := p.spaceOffset + (batchB/p.blockCount)*p.spaceStrides[0]
			offset := batchB % p.blockCount
			inside := true
			for d := dims - 1; d >= 0; d-- {
				s := coord[d]*p.block[d] + offset%p.block[d] - p.start[d]
				offset /= p.block[d]
				if s < 0 || s >= p.spaceExtent[d] {
					inside = false
					break
				}
				spacePos += s * p.spaceStrides[d+1]
			}

			switch {
			case runs && inside && toSpace:
				copy(space[spacePos:spacePos+channels], batch[batchPos:batchPos+channels])
			case runs && inside:
				copy(batch[batchPos:batchPos+channels], space[spacePos:spacePos+channels])
			case runs && !toSpace:
				clear(batch[batchPos : batchPos+channels])
			case inside && toSpace:
				for c := 0; c < channels; c++ {
					space[spacePos+c*spaceChannelStride] = batch[batchPos+c*batchChannelStride]
				}
			case inside:
				for c := 0; c < channels; c++ {
					batch[batchPos+c*batchChannelStride] = space[spacePos+c*spaceChannelStride]
				}
			case !toSpace:
				var zero T
				for c := 0; c < channels; c++ {
					batch[batchPos+c*batchChannelStride] = zero
				}
			}
		}
	}, cfg)
}
