package cpu

import (
	"fmt"

	"github.com/born-ml/spacebatch/internal/parallel"
	"github.com/born-ml/spacebatch/internal/tensor"
	"github.com/pkg/errors"
	"github.com/x448/float16"
	"golang.org/x/exp/constraints"
)

// checkElementwise validates a same-shape elementwise kernel call.
// All tensors must share one float dtype and one shape; out must be contiguous.
func checkElementwise(op string, out *tensor.RawTensor, inputs ...*tensor.RawTensor) error {
	if !out.DType().IsFloat() {
		return errors.Wrapf(tensor.ErrInvalidArgument, "%s: unsupported dtype %s (only float16/float32/float64 supported)", op, out.DType())
	}
	if !out.IsContiguous() {
		return errors.Wrapf(tensor.ErrInvalidArgument, "%s: output must be contiguous", op)
	}
	for i, in := range inputs {
		if in.DType() != out.DType() {
			return errors.Wrapf(tensor.ErrInvalidArgument, "%s: input %d has dtype %s, output has %s", op, i, in.DType(), out.DType())
		}
		if !in.Shape().Equal(out.Shape()) {
			return errors.Wrapf(tensor.ErrShapeMismatch, "%s: input %d has shape %v, output has %v", op, i, in.Shape(), out.Shape())
		}
	}
	return nil
}

// dense returns r when it is contiguous and a compacted copy otherwise.
func dense(r *tensor.RawTensor) *tensor.RawTensor {
	if r.IsContiguous() {
		return r
	}
	return r.Clone()
}

// applyUnary writes out[i] = f(x[i]) for every element.
func (cpu *CPUBackend) applyUnary(op string, x, out *tensor.RawTensor,
	f32 func(float32) float32, f64 func(float64) float64,
) error {
	if err := checkElementwise(op, out, x); err != nil {
		return err
	}
	x = dense(x)

	switch out.DType() {
	case tensor.Float32:
		unaryKernel(x.AsFloat32(), out.AsFloat32(), f32, cpu.parallel)
	case tensor.Float64:
		unaryKernel(x.AsFloat64(), out.AsFloat64(), f64, cpu.parallel)
	case tensor.Float16:
		src, dst := x.AsFloat16(), out.AsFloat16()
		parallel.ForRange(len(dst), func(start, end int) {
			for i := start; i < end; i++ {
				dst[i] = float16.Fromfloat32(f32(src[i].Float32()))
			}
		}, cpu.parallel)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, out.DType()))
	}
	return nil
}

// applyBinary writes out[i] = f(a[i], b[i]) for every element.
// out may be a itself for in-place updates.
func (cpu *CPUBackend) applyBinary(op string, a, b, out *tensor.RawTensor,
	f32 func(float32, float32) float32, f64 func(float64, float64) float64,
) error {
	if err := checkElementwise(op, out, a, b); err != nil {
		return err
	}
	a, b = dense(a), dense(b)

	switch out.DType() {
	case tensor.Float32:
		binaryKernel(a.AsFloat32(), b.AsFloat32(), out.AsFloat32(), f32, cpu.parallel)
	case tensor.Float64:
		binaryKernel(a.AsFloat64(), b.AsFloat64(), out.AsFloat64(), f64, cpu.parallel)
	case tensor.Float16:
		as, bs, dst := a.AsFloat16(), b.AsFloat16(), out.AsFloat16()
		parallel.ForRange(len(dst), func(start, end int) {
			for i := start; i < end; i++ {
				dst[i] = float16.Fromfloat32(f32(as[i].Float32(), bs[i].Float32()))
			}
		}, cpu.parallel)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, out.DType()))
	}
	return nil
}

func unaryKernel[T constraints.Float](x, out []T, f func(T) T, cfg parallel.Config) {
	parallel.ForRange(len(out), func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = f(x[i])
		}
	}, cfg)
}

func binaryKernel[T constraints.Float](a, b, out []T, f func(T, T) T, cfg parallel.Config) {
	parallel.ForRange(len(out), func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = f(a[i], b[i])
		}
	}, cfg)
}

// toFloat32 widens a float16 slice for kernels that only exist in float32.
func toFloat32(src []float16.Float16) []float32 {
	dst := make([]float32, len(src))
	for i, v := range src {
		dst[i] = v.Float32()
	}
	return dst
}

func fromFloat32(dst []float16.Float16, src []float32) {
	for i, v := range src {
		dst[i] = float16.Fromfloat32(v)
	}
}
