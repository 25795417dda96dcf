package cpu

import (
	"math"
	"testing"

	"github.com/born-ml/spacebatch/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigmCrossEntropy(t *testing.T) {
	backend := New()
	logits := []float64{-30, -2, -0.5, 0, 0.5, 2, 30}
	labels := []float64{0, 1, 0.5, 1, 0, 1, 0}
	n := len(logits)

	x := rawFrom(t, tensor.Shape{n}, logits)
	z := rawFrom(t, tensor.Shape{n}, labels)
	loss := newRaw(t, tensor.Shape{n}, tensor.Float64)
	grad := newRaw(t, tensor.Shape{n}, tensor.Float64)

	require.NoError(t, backend.SigmCrossEntropy(x, z, loss))
	require.NoError(t, backend.SigmCrossEntropyGrad(x, z, grad))

	for i := range logits {
		s := 1 / (1 + math.Exp(-logits[i]))
		// -z*log(s) - (1-z)*log(1-s), written with log1p to stay finite at |x| = 30.
		want := logits[i]*(1-labels[i]) + math.Log1p(math.Exp(-logits[i]))
		if logits[i] < 0 {
			want = -logits[i]*labels[i] + math.Log1p(math.Exp(logits[i]))
		}
		assert.InDelta(t, want, loss.AsFloat64()[i], 1e-9, "loss at x=%v", logits[i])
		assert.InDelta(t, s-labels[i], grad.AsFloat64()[i], 1e-9, "grad at x=%v", logits[i])
	}
}

func TestWeightedCrossEntropyWithLogits(t *testing.T) {
	backend := New()
	logits := []float32{-1, 0, 2, 0.5, -3, 1}
	targets := []float32{1, 0, 1, 0, 1, 1}
	shape := tensor.Shape{2, 3}

	reference := func(x, z, q float64) float64 {
		return (1-z)*x + (1+(q-1)*z)*(math.Log1p(math.Exp(-math.Abs(x)))+math.Max(-x, 0))
	}

	t.Run("per class weights", func(t *testing.T) {
		weights := []float32{1, 2, 0.5}
		out := newRaw(t, shape, tensor.Float32)
		require.NoError(t, backend.WeightedCrossEntropyWithLogits(
			rawFrom(t, shape, targets), rawFrom(t, shape, logits), rawFrom(t, tensor.Shape{3}, weights), out))

		for i, got := range out.AsFloat32() {
			want := reference(float64(logits[i]), float64(targets[i]), float64(weights[i%3]))
			assert.InDelta(t, want, got, 1e-5, "element %d", i)
		}
	})

	t.Run("scalar weight", func(t *testing.T) {
		out := newRaw(t, shape, tensor.Float32)
		require.NoError(t, backend.WeightedCrossEntropyWithLogits(
			rawFrom(t, shape, targets), rawFrom(t, shape, logits), rawFrom(t, tensor.Shape{1}, []float32{3}), out))

		for i, got := range out.AsFloat32() {
			assert.InDelta(t, reference(float64(logits[i]), float64(targets[i]), 3), got, 1e-5, "element %d", i)
		}
	})

	t.Run("unit weight matches unweighted loss", func(t *testing.T) {
		weighted := newRaw(t, shape, tensor.Float32)
		plain := newRaw(t, shape, tensor.Float32)
		x, z := rawFrom(t, shape, logits), rawFrom(t, shape, targets)
		require.NoError(t, backend.WeightedCrossEntropyWithLogits(z, x, rawFrom(t, tensor.Shape{1}, []float32{1}), weighted))
		require.NoError(t, backend.SigmCrossEntropy(x, z, plain))
		assert.InDeltaSlice(t, plain.AsFloat32(), weighted.AsFloat32(), 1e-5)
	})

	t.Run("weights length mismatch", func(t *testing.T) {
		out := newRaw(t, shape, tensor.Float32)
		err := backend.WeightedCrossEntropyWithLogits(
			rawFrom(t, shape, targets), rawFrom(t, shape, logits), rawFrom(t, tensor.Shape{2}, []float32{1, 2}), out)
		require.ErrorIs(t, err, tensor.ErrShapeMismatch)
	})
}
