package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/spacebatch/internal/tensor"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// LogSumExp computes out = log(sum(exp(x))) over the given axes.
// Negative axes count from the end. out has the shape of x with the reduced
// axes removed; reducing every axis yields a scalar (Shape{}).
// The reduction is shifted by the per-slot maximum for numerical stability.
func (cpu *CPUBackend) LogSumExp(x *tensor.RawTensor, axes []int, out *tensor.RawTensor) error {
	return cpu.logSumExp("logsumexp", x, nil, axes, out)
}

// LogSumExpShifted computes out = log(sum(exp(x - sub))) over the given axes,
// where sub has the shape of x.
func (cpu *CPUBackend) LogSumExpShifted(x, sub *tensor.RawTensor, axes []int, out *tensor.RawTensor) error {
	return cpu.logSumExp("logsumexp", x, sub, axes, out)
}

// ReducedShape returns shape without the given axes, and a per-axis mask of the
// reduced axes. Axes may be negative; duplicates and out-of-range axes fail.
func ReducedShape(shape tensor.Shape, axes []int) (tensor.Shape, []bool, error) {
	reduced := make([]bool, len(shape))
	for _, ax := range axes {
		norm := ax
		if norm < 0 {
			norm += len(shape)
		}
		if norm < 0 || norm >= len(shape) {
			return nil, nil, errors.Wrapf(tensor.ErrInvalidArgument, "axis %d out of range for %dD tensor", ax, len(shape))
		}
		if reduced[norm] {
			return nil, nil, errors.Wrapf(tensor.ErrInvalidArgument, "duplicate axis %d", ax)
		}
		reduced[norm] = true
	}

	out := tensor.Shape{}
	for i, dim := range shape {
		if !reduced[i] {
			out = append(out, dim)
		}
	}
	return out, reduced, nil
}

func (cpu *CPUBackend) logSumExp(op string, x, sub *tensor.RawTensor, axes []int, out *tensor.RawTensor) error {
	if !x.DType().IsFloat() {
		return errors.Wrapf(tensor.ErrInvalidArgument, "%s: unsupported dtype %s (only float16/float32/float64 supported)", op, x.DType())
	}
	if sub != nil {
		if sub.DType() != x.DType() {
			return errors.Wrapf(tensor.ErrInvalidArgument, "%s: subtrahend dtype %s, input dtype %s", op, sub.DType(), x.DType())
		}
		if !sub.Shape().Equal(x.Shape()) {
			return errors.Wrapf(tensor.ErrShapeMismatch, "%s: subtrahend shape %v, input shape %v", op, sub.Shape(), x.Shape())
		}
	}
	want, reduced, err := ReducedShape(x.Shape(), axes)
	if err != nil {
		return errors.Wrap(err, op)
	}
	if out.DType() != x.DType() {
		return errors.Wrapf(tensor.ErrInvalidArgument, "%s: output dtype %s, input dtype %s", op, out.DType(), x.DType())
	}
	if !out.Shape().Equal(want) {
		return errors.Wrapf(tensor.ErrShapeMismatch, "%s: output shape %v, expected %v", op, out.Shape(), want)
	}
	if !out.IsContiguous() {
		return errors.Wrapf(tensor.ErrInvalidArgument, "%s: output must be contiguous", op)
	}

	x = dense(x)
	if sub != nil {
		sub = dense(sub)
	}
	shape := x.Shape()

	switch x.DType() {
	case tensor.Float32:
		var s []float32
		if sub != nil {
			s = sub.AsFloat32()
		}
		logSumExpKernel(x.AsFloat32(), s, shape, reduced, out.AsFloat32())
	case tensor.Float64:
		var s []float64
		if sub != nil {
			s = sub.AsFloat64()
		}
		logSumExpKernel(x.AsFloat64(), s, shape, reduced, out.AsFloat64())
	case tensor.Float16:
		var s []float32
		if sub != nil {
			s = toFloat32(sub.AsFloat16())
		}
		res := make([]float32, out.NumElements())
		logSumExpKernel(toFloat32(x.AsFloat16()), s, shape, reduced, res)
		fromFloat32(out.AsFloat16(), res)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, x.DType()))
	}
	return nil
}

// logSumExpKernel reduces x (minus sub, when given) over the masked axes.
// Two passes: the per-slot maximum, then the shifted sum.
func logSumExpKernel[T constraints.Float](x, sub []T, shape tensor.Shape, reduced []bool, out []T) {
	// Output stride of every input axis; reduced axes contribute nothing.
	outStrides := make([]int, len(shape))
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		if reduced[i] {
			continue
		}
		outStrides[i] = stride
		stride *= shape[i]
	}

	value := func(i int) float64 {
		if sub == nil {
			return float64(x[i])
		}
		return float64(x[i] - sub[i])
	}

	maxes := make([]float64, len(out))
	for i := range maxes {
		maxes[i] = math.Inf(-1)
	}
	sums := make([]float64, len(out))

	index := make([]int, len(shape))
	slot := func() int {
		o := 0
		for k, idx := range index {
			o += idx * outStrides[k]
		}
		return o
	}
	advance := func() {
		for k := len(index) - 1; k >= 0; k-- {
			index[k]++
			if index[k] < shape[k] {
				return
			}
			index[k] = 0
		}
	}

	for i := range x {
		o := slot()
		maxes[o] = max(maxes[o], value(i))
		advance()
	}
	clear(index)
	for i := range x {
		o := slot()
		if !math.IsInf(maxes[o], 0) {
			sums[o] += math.Exp(value(i) - maxes[o])
		}
		advance()
	}

	for o := range out {
		if math.IsInf(maxes[o], 0) {
			out[o] = T(maxes[o])
			continue
		}
		out[o] = T(maxes[o] + math.Log(sums[o]))
	}
}
