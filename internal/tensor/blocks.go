package tensor

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// MaxBlockDims is the largest number of spatial axes a block transform supports.
const MaxBlockDims = 6

// SpaceToBatchShape returns the shape produced by moving spatial blocks of a
// [batch, spatial..., channels] tensor into the batch axis.
//
// paddings holds {before, after} per spatial axis. For every spatial axis d the
// padded extent space[d+1]+before+after must be divisible by block[d].
// All violated axes are reported together.
//
// Example:
//
//	out, _ := tensor.SpaceToBatchShape(Shape{1, 4, 4, 1}, []int{2, 2}, [][2]int{{0, 0}, {0, 0}})
//	// out: [4, 2, 2, 1]
func SpaceToBatchShape(space Shape, block []int, paddings [][2]int) (Shape, error) {
	const op = "spacetobatch"
	blockCount, err := checkBlockArgs(op, "padding", space, block, paddings)
	if err != nil {
		return nil, err
	}

	out := make(Shape, len(space))
	out[0], err = mulChecked(op, space[0], blockCount)
	if err != nil {
		return nil, err
	}
	out[len(space)-1] = space[len(space)-1]

	var errs error
	for d, k := range block {
		extent := space[d+1]
		padded := extent + paddings[d][0] + paddings[d][1]
		if padded < extent {
			errs = multierr.Append(errs, errors.Wrapf(ErrInvalidArgument,
				"%s: spatial axis %d: padding %v overflows", op, d, paddings[d]))
			continue
		}
		if padded%k != 0 {
			errs = multierr.Append(errs, errors.Wrapf(ErrShapeMismatch,
				"%s: spatial axis %d: padded extent %d (%d+%d+%d) is not divisible by block %d",
				op, d, padded, extent, paddings[d][0], paddings[d][1], k))
			continue
		}
		out[d+1] = padded / k
	}
	if errs != nil {
		return nil, errs
	}
	if err := out.Validate(); err != nil {
		return nil, errors.Wrap(err, op)
	}
	return out, nil
}

// BatchToSpaceShape returns the shape produced by moving blocks out of the batch
// axis of a [batch, spatial..., channels] tensor back into the spatial axes.
//
// crops holds {before, after} per spatial axis. The batch extent must be divisible
// by the product of block, and crops may not remove a whole expanded axis.
// All violated axes are reported together.
func BatchToSpaceShape(batch Shape, block []int, crops [][2]int) (Shape, error) {
	const op = "batchtospace"
	blockCount, err := checkBlockArgs(op, "crop", batch, block, crops)
	if err != nil {
		return nil, err
	}

	var errs error
	out := make(Shape, len(batch))
	if batch[0]%blockCount != 0 {
		errs = multierr.Append(errs, errors.Wrapf(ErrShapeMismatch,
			"%s: batch %d is not divisible by block product %d", op, batch[0], blockCount))
	}
	out[0] = batch[0] / blockCount
	out[len(batch)-1] = batch[len(batch)-1]

	for d, k := range block {
		expanded, mulErr := mulChecked(op, batch[d+1], k)
		if mulErr != nil {
			errs = multierr.Append(errs, mulErr)
			continue
		}
		before, after := crops[d][0], crops[d][1]
		switch {
		case before > expanded || after > expanded-before:
			errs = multierr.Append(errs, errors.Wrapf(ErrShapeMismatch,
				"%s: spatial axis %d: crops %d+%d exceed expanded extent %d", op, d, before, after, expanded))
		case expanded > 0 && before+after == expanded:
			errs = multierr.Append(errs, errors.Wrapf(ErrShapeMismatch,
				"%s: spatial axis %d: crops %d+%d remove the whole expanded extent %d", op, d, before, after, expanded))
		default:
			out[d+1] = expanded - before - after
		}
	}
	if errs != nil {
		return nil, errs
	}
	return out, nil
}

// checkBlockArgs validates the arguments shared by both directions and returns
// the product of the block shape.
func checkBlockArgs(op, amountName string, shape Shape, block []int, amounts [][2]int) (int, error) {
	if len(block) < 1 || len(block) > MaxBlockDims {
		return 0, errors.Wrapf(ErrInvalidArgument, "%s: %d block dimensions (supported: 1..%d)", op, len(block), MaxBlockDims)
	}
	if len(amounts) != len(block) {
		return 0, errors.Wrapf(ErrShapeMismatch, "%s: %d %s pairs for %d block dimensions", op, len(amounts), amountName, len(block))
	}
	if len(shape) != len(block)+2 {
		return 0, errors.Wrapf(ErrShapeMismatch, "%s: tensor of rank %d cannot hold %d spatial axes (want rank %d: batch, spatial..., channels)",
			op, len(shape), len(block), len(block)+2)
	}
	if err := shape.Validate(); err != nil {
		return 0, errors.Wrap(err, op)
	}

	var errs error
	for d, k := range block {
		if k < 1 {
			errs = multierr.Append(errs, errors.Wrapf(ErrInvalidArgument, "%s: spatial axis %d: block size %d (must be >= 1)", op, d, k))
		}
		if amounts[d][0] < 0 || amounts[d][1] < 0 {
			errs = multierr.Append(errs, errors.Wrapf(ErrInvalidArgument, "%s: spatial axis %d: negative %s %v", op, d, amountName, amounts[d]))
		}
	}
	if errs != nil {
		return 0, errs
	}

	count := 1
	for _, k := range block {
		var err error
		if count, err = mulChecked(op, count, k); err != nil {
			return 0, err
		}
	}
	return count, nil
}

func mulChecked(op string, a, b int) (int, error) {
	if a != 0 && b > math.MaxInt/a {
		return 0, errors.Wrapf(ErrInvalidArgument, "%s: %d*%d overflows", op, a, b)
	}
	return a * b, nil
}
