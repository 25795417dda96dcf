package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/spacebatch/internal/parallel"
	"github.com/born-ml/spacebatch/internal/tensor"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// SigmCrossEntropy computes the elementwise logistic loss of logits x against
// labels z: out = max(x, 0) - x*z + log(1 + exp(-|x|)).
// This is the sigmoid cross-entropy with logits (sxe loss).
func (cpu *CPUBackend) SigmCrossEntropy(logits, labels, out *tensor.RawTensor) error {
	return cpu.applyBinary("sigmoid cross entropy", logits, labels, out, sigmCrossEntropy[float32], sigmCrossEntropy[float64])
}

// SigmCrossEntropyGrad computes the gradient of SigmCrossEntropy with respect to
// the logits: out = sigmoid(x) - z.
func (cpu *CPUBackend) SigmCrossEntropyGrad(logits, labels, out *tensor.RawTensor) error {
	return cpu.applyBinary("sigmoid cross entropy grad", logits, labels, out, sigmCrossEntropyGrad[float32], sigmCrossEntropyGrad[float64])
}

// WeightedCrossEntropyWithLogits computes the logistic loss with the positive
// term weighted by q:
//
//	out = (1 - z)*x + (1 + (q - 1)*z) * (log(1 + exp(-|x|)) + max(-x, 0))
//
// weights is either a single element or a vector matching the last axis of logits.
func (cpu *CPUBackend) WeightedCrossEntropyWithLogits(targets, logits, weights, out *tensor.RawTensor) error {
	const op = "weighted cross entropy"
	if err := checkElementwise(op, out, targets, logits); err != nil {
		return err
	}
	if weights.DType() != out.DType() {
		return errors.Wrapf(tensor.ErrInvalidArgument, "%s: weights dtype %s, output dtype %s", op, weights.DType(), out.DType())
	}
	shape := out.Shape()
	period := 1
	if len(shape) > 0 {
		period = shape[len(shape)-1]
	}
	n := weights.NumElements()
	if n != 1 && n != period {
		return errors.Wrapf(tensor.ErrShapeMismatch, "%s: %d weights for last axis of %d (want 1 or %d)", op, n, period, period)
	}
	if n == 1 {
		period = 1
	}
	targets, logits, weights = dense(targets), dense(logits), dense(weights)

	switch out.DType() {
	case tensor.Float32:
		weightedCrossEntropy(targets.AsFloat32(), logits.AsFloat32(), weights.AsFloat32(), out.AsFloat32(), period, cpu.parallel)
	case tensor.Float64:
		weightedCrossEntropy(targets.AsFloat64(), logits.AsFloat64(), weights.AsFloat64(), out.AsFloat64(), period, cpu.parallel)
	case tensor.Float16:
		res := make([]float32, out.NumElements())
		weightedCrossEntropy(toFloat32(targets.AsFloat16()), toFloat32(logits.AsFloat16()), toFloat32(weights.AsFloat16()), res, period, cpu.parallel)
		fromFloat32(out.AsFloat16(), res)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, out.DType()))
	}
	return nil
}

func sigmCrossEntropy[T constraints.Float](x, z T) T {
	xf := float64(x)
	return T(math.Max(xf, 0) - xf*float64(z) + math.Log1p(math.Exp(-math.Abs(xf))))
}

func sigmCrossEntropyGrad[T constraints.Float](x, z T) T {
	return T(sigmoid(float64(x))) - z
}

// weightedCrossEntropy applies weights[i % period] to element i.
func weightedCrossEntropy[T constraints.Float](targets, logits, weights, out []T, period int, cfg parallel.Config) {
	parallel.ForRange(len(out), func(start, end int) {
		for i := start; i < end; i++ {
			x := float64(logits[i])
			z := float64(targets[i])
			q := float64(weights[i%period])
			l := 1 + (q-1)*z
			out[i] = T((1-z)*x + l*(math.Log1p(math.Exp(-math.Abs(x)))+math.Max(-x, 0)))
		}
	}, cfg)
}
