package cpu

import (
	"math"

	"github.com/born-ml/spacebatch/internal/tensor"
	"golang.org/x/exp/constraints"
)

// Activation derivatives. Every helper takes the forward input x and the
// incoming gradient grad (same shape and float dtype) and writes grad scaled by
// the local derivative into out.

// SELU constants.
const (
	seluAlpha  = 1.6732632423543772848170429916717
	seluLambda = 1.0507009873554804934193349852946
)

// Rational tanh approximation constants: f(x) = 1.7159 * tanh(2x/3).
const (
	rationalScale = 1.7159
	rationalQuart = 1.41645
)

// ReluDerivative computes out = x > 0 ? grad : 0.
func (cpu *CPUBackend) ReluDerivative(x, grad, out *tensor.RawTensor) error {
	return cpu.applyBinary("relu derivative", x, grad, out, reluDerivative[float32], reluDerivative[float64])
}

// ReluDerivativeInplace computes x = x > 0 ? grad : 0, overwriting x.
func (cpu *CPUBackend) ReluDerivativeInplace(x, grad *tensor.RawTensor) error {
	return cpu.applyBinary("relu derivative", x, grad, x, reluDerivative[float32], reluDerivative[float64])
}

// Relu6Derivative computes out = 0 < x < 6 ? grad : 0.
func (cpu *CPUBackend) Relu6Derivative(x, grad, out *tensor.RawTensor) error {
	return cpu.applyBinary("relu6 derivative", x, grad, out, relu6Derivative[float32], relu6Derivative[float64])
}

// LeakyReluDerivative computes out = x > 0 ? grad : alpha*grad.
func (cpu *CPUBackend) LeakyReluDerivative(x, grad, out *tensor.RawTensor, alpha float64) error {
	return cpu.applyBinary("leaky relu derivative", x, grad, out,
		func(x, g float32) float32 { return leakyReluDerivative(x, g, float32(alpha)) },
		func(x, g float64) float64 { return leakyReluDerivative(x, g, alpha) })
}

// EluDerivative computes out = x >= 0 ? grad : grad*exp(x).
func (cpu *CPUBackend) EluDerivative(x, grad, out *tensor.RawTensor) error {
	return cpu.applyBinary("elu derivative", x, grad, out, eluDerivative[float32], eluDerivative[float64])
}

// SeluDerivative computes out = x > 0 ? grad*lambda : grad*alpha*lambda*exp(x).
func (cpu *CPUBackend) SeluDerivative(x, grad, out *tensor.RawTensor) error {
	return cpu.applyBinary("selu derivative", x, grad, out, seluDerivative[float32], seluDerivative[float64])
}

// CubeDerivative computes out = grad * 3x².
func (cpu *CPUBackend) CubeDerivative(x, grad, out *tensor.RawTensor) error {
	return cpu.applyBinary("cube derivative", x, grad, out, cubeDerivative[float32], cubeDerivative[float64])
}

// ReduceNorm1 is the gradient of the L1 norm: out = grad * sign(x).
func (cpu *CPUBackend) ReduceNorm1(x, grad, out *tensor.RawTensor) error {
	return cpu.applyBinary("reduce norm1", x, grad, out, norm1Derivative[float32], norm1Derivative[float64])
}

// TanhDerivative computes out = grad * (1 - tanh(x)²).
func (cpu *CPUBackend) TanhDerivative(x, grad, out *tensor.RawTensor) error {
	return cpu.applyBinary("tanh derivative", x, grad, out, tanhDerivative[float32], tanhDerivative[float64])
}

// HardTanhDerivative computes out = -1 < x < 1 ? grad : 0.
func (cpu *CPUBackend) HardTanhDerivative(x, grad, out *tensor.RawTensor) error {
	return cpu.applyBinary("hard tanh derivative", x, grad, out, hardTanhDerivative[float32], hardTanhDerivative[float64])
}

// RationalTanhDerivative is the derivative of 1.7159 * rtanh(2x/3), where rtanh is
// the rational approximation sgn(u) * (1 - 1/(1 + |u| + u² + 1.41645u⁴)).
func (cpu *CPUBackend) RationalTanhDerivative(x, grad, out *tensor.RawTensor) error {
	return cpu.applyBinary("rational tanh derivative", x, grad, out, rationalTanhDerivative[float32], rationalTanhDerivative[float64])
}

// RectifiedTanhDerivative computes out = x > 0 ? grad * (1 - tanh(x)²) : 0.
func (cpu *CPUBackend) RectifiedTanhDerivative(x, grad, out *tensor.RawTensor) error {
	return cpu.applyBinary("rectified tanh derivative", x, grad, out, rectifiedTanhDerivative[float32], rectifiedTanhDerivative[float64])
}

// SoftSignDerivative computes out = grad / (1 + |x|)².
func (cpu *CPUBackend) SoftSignDerivative(x, grad, out *tensor.RawTensor) error {
	return cpu.applyBinary("softsign derivative", x, grad, out, softSignDerivative[float32], softSignDerivative[float64])
}

// SoftPlusDerivative computes out = grad * sigmoid(x).
func (cpu *CPUBackend) SoftPlusDerivative(x, grad, out *tensor.RawTensor) error {
	return cpu.applyBinary("softplus derivative", x, grad, out, softPlusDerivative[float32], softPlusDerivative[float64])
}

// SigmoidDerivative computes out = grad * s * (1 - s) with s = sigmoid(x).
func (cpu *CPUBackend) SigmoidDerivative(x, grad, out *tensor.RawTensor) error {
	return cpu.applyBinary("sigmoid derivative", x, grad, out, sigmoidDerivative[float32], sigmoidDerivative[float64])
}

// HardSigmoidDerivative computes out = -2.5 < x < 2.5 ? 0.2*grad : 0.
func (cpu *CPUBackend) HardSigmoidDerivative(x, grad, out *tensor.RawTensor) error {
	return cpu.applyBinary("hard sigmoid derivative", x, grad, out, hardSigmoidDerivative[float32], hardSigmoidDerivative[float64])
}

func reluDerivative[T constraints.Float](x, g T) T {
	if x > 0 {
		return g
	}
	return 0
}

func relu6Derivative[T constraints.Float](x, g T) T {
	if x > 0 && x < 6 {
		return g
	}
	return 0
}

func leakyReluDerivative[T constraints.Float](x, g, alpha T) T {
	if x > 0 {
		return g
	}
	return alpha * g
}

func eluDerivative[T constraints.Float](x, g T) T {
	if x >= 0 {
		return g
	}
	return g * T(math.Exp(float64(x)))
}

func seluDerivative[T constraints.Float](x, g T) T {
	if x > 0 {
		return g * seluLambda
	}
	return g * T(seluAlpha*seluLambda*math.Exp(float64(x)))
}

func cubeDerivative[T constraints.Float](x, g T) T {
	return g * 3 * x * x
}

func norm1Derivative[T constraints.Float](x, g T) T {
	switch {
	case x > 0:
		return g
	case x < 0:
		return -g
	default:
		return 0
	}
}

func tanhDerivative[T constraints.Float](x, g T) T {
	th := T(math.Tanh(float64(x)))
	return g * (1 - th*th)
}

func hardTanhDerivative[T constraints.Float](x, g T) T {
	if x > -1 && x < 1 {
		return g
	}
	return 0
}

func rationalTanhDerivative[T constraints.Float](x, g T) T {
	u := 2.0 / 3.0 * float64(x)
	a := 1 + math.Abs(u) + u*u + rationalQuart*math.Pow(u, 4)
	sign := 0.0
	switch {
	case u > 0:
		sign = 1
	case u < 0:
		sign = -1
	}
	d := (1 + sign*(2*u+4*rationalQuart*u*u*u)) / (a * a)
	return g * T(rationalScale*2.0/3.0*d)
}

func rectifiedTanhDerivative[T constraints.Float](x, g T) T {
	if x > 0 {
		return tanhDerivative(x, g)
	}
	return 0
}

func softSignDerivative[T constraints.Float](x, g T) T {
	d := 1 + T(math.Abs(float64(x)))
	return g / (d * d)
}

func softPlusDerivative[T constraints.Float](x, g T) T {
	return g * T(sigmoid(float64(x)))
}

func sigmoidDerivative[T constraints.Float](x, g T) T {
	s := sigmoid(float64(x))
	return g * T(s*(1-s))
}

func hardSigmoidDerivative[T constraints.Float](x, g T) T {
	if x > -2.5 && x < 2.5 {
		return g * 0.2
	}
	return 0
}

func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}
