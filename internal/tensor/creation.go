package tensor

import "github.com/x448/float16"

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	backend := cpu.New()
//	t := tensor.Zeros[float32](Shape{3, 4}, backend)
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	raw, err := NewRaw(shape, DataTypeOf[T](), b.Device())
	if err != nil {
		panic(err) // Shape validation should prevent this
	}

	// Data is already zero-initialized by make()
	return New[T, B](raw, b)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	t := tensor.Full[float32](Shape{3, 3}, 3.14, backend)
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Arange creates a tensor of the given shape holding 0, 1, 2, ... in row-major order.
// Bool tensors hold i%2 == 1.
//
// Example:
//
//	t := tensor.Arange[int32](Shape{1, 4, 4, 1}, backend) // values 0..15
func Arange[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = FromInt[T](i)
	}
	return t
}

// FromInt converts i to T.
// Integer types wrap, float16 rounds to nearest, bool is i%2 == 1.
func FromInt[T DType](i int) T {
	var v any
	var dummy T
	switch any(dummy).(type) {
	case float32:
		v = float32(i)
	case float64:
		v = float64(i)
	case float16.Float16:
		v = float16.Fromfloat32(float32(i))
	case int32:
		v = int32(i) //nolint:gosec // G115: wrapping is documented.
	case int64:
		v = int64(i)
	case uint8:
		v = uint8(i) //nolint:gosec // G115: wrapping is documented.
	case bool:
		v = i%2 == 1
	default:
		panic("unsupported type")
	}
	return v.(T)
}
