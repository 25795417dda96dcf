package tensor

import (
	"fmt"
	"math"
	"slices"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// Device represents the compute device for tensor operations.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
	CUDA
	Vulkan
	Metal
	WebGPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case CUDA:
		return "CUDA"
	case Vulkan:
		return "Vulkan"
	case Metal:
		return "Metal"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// RawTensor is the low-level tensor representation.
//
// A RawTensor is a view over a byte buffer: shape, per-axis strides and offset
// are all expressed in elements. Tensors created by NewRaw are contiguous
// (row-major strides, offset 0). View creates strided views over the same buffer.
type RawTensor struct {
	buffer []byte   // Backing storage, shared between views
	shape  Shape    // Tensor dimensions
	stride []int    // Memory strides in elements
	dtype  DataType // Runtime type information
	device Device   // Compute device
	offset int      // Offset in elements for slicing/views
}

// NewRaw creates a new RawTensor with the given shape and type.
// Memory is allocated and zero-initialized.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid shape")
	}

	numElements := shape.NumElements()
	if numElements > math.MaxInt/dtype.Size() {
		return nil, errors.Wrapf(ErrInvalidArgument, "shape %v of %s overflows the byte size", shape, dtype)
	}
	byteSize := numElements * dtype.Size()

	return &RawTensor{
		buffer: make([]byte, byteSize),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		device: device,
		offset: 0,
	}, nil
}

// View returns a tensor sharing r's buffer with the given shape, strides and
// element offset. The view must stay within the buffer.
//
// Example:
//
//	// Every other column of a [4, 6] tensor.
//	cols, err := raw.View(Shape{4, 3}, []int{6, 2}, 0)
func (r *RawTensor) View(shape Shape, strides []int, offset int) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, errors.Wrap(err, "view")
	}
	if len(strides) != len(shape) {
		return nil, errors.Wrapf(ErrShapeMismatch, "view: %d strides for rank %d shape %v", len(strides), len(shape), shape)
	}
	if offset < 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "view: negative offset %d", offset)
	}
	capacity := len(r.buffer) / r.dtype.Size()
	if shape.NumElements() > 0 {
		last := offset
		for i, st := range strides {
			if st < 0 {
				return nil, errors.Wrapf(ErrInvalidArgument, "view: negative stride %d on axis %d", st, i)
			}
			span := shape[i] - 1
			if span > 0 && st > (math.MaxInt-last)/span {
				return nil, errors.Wrapf(ErrInvalidArgument, "view: shape %v strides %v offset %d overflow the element index",
					shape, strides, offset)
			}
			last += span * st
		}
		if last >= capacity {
			return nil, errors.Wrapf(ErrShapeMismatch, "view: shape %v strides %v offset %d exceed buffer of %d elements",
				shape, strides, offset, capacity)
		}
	}
	return &RawTensor{
		buffer: r.buffer,
		shape:  shape.Clone(),
		stride: append([]int(nil), strides...),
		dtype:  r.dtype,
		device: r.device,
		offset: offset,
	}, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's memory strides in elements.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// Offset returns the position of the first element in the backing buffer, in elements.
func (r *RawTensor) Offset() int {
	return r.offset
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns the tensor's compute device.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the memory size of the viewed elements in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// IsContiguous reports whether the elements are laid out row-major without gaps.
// Axes of extent 1 may carry any stride.
func (r *RawTensor) IsContiguous() bool {
	expected := 1
	for i := len(r.shape) - 1; i >= 0; i-- {
		if r.shape[i] == 1 {
			continue
		}
		if r.stride[i] != expected {
			return false
		}
		expected *= r.shape[i]
	}
	return true
}

// IsNonOverlapping reports whether every element of r has its own position in
// the buffer. Axes are ordered by stride and each stride must exceed the span
// of all smaller-stride axes. Some exotic interleaved layouts are reported as
// overlapping even though they are not.
func (r *RawTensor) IsNonOverlapping() bool {
	type axis struct{ extent, stride int }
	axes := make([]axis, 0, len(r.shape))
	for i, extent := range r.shape {
		if extent == 0 {
			return true
		}
		if extent > 1 {
			axes = append(axes, axis{extent, r.stride[i]})
		}
	}
	slices.SortFunc(axes, func(a, b axis) int { return a.stride - b.stride })

	span := 0 // largest offset reachable through the axes seen so far
	for _, a := range axes {
		if a.stride <= span {
			return false
		}
		span += (a.extent - 1) * a.stride
	}
	return true
}

// SharesBuffer reports whether r and other are views over the same non-empty buffer.
func (r *RawTensor) SharesBuffer(other *RawTensor) bool {
	if len(r.buffer) == 0 || len(other.buffer) == 0 {
		return false
	}
	return unsafe.SliceData(r.buffer) == unsafe.SliceData(other.buffer)
}

// Data returns the raw bytes of a contiguous tensor.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Data() []byte {
	r.mustBeContiguous()
	size := r.dtype.Size()
	return r.buffer[r.offset*size : (r.offset+r.NumElements())*size]
}

// Elements returns the whole backing buffer of r as a []T, ignoring the view.
// Element (i0, i1, ...) of r lives at index r.Offset() + sum(ik * r.Strides()[k]).
// Panics if T does not match the tensor's dtype.
func Elements[T DType](r *RawTensor) []T {
	if dt := DataTypeOf[T](); dt != r.dtype {
		panic(fmt.Sprintf("tensor dtype is %s, not %s", r.dtype, dt))
	}
	n := len(r.buffer) / r.dtype.Size()
	if n == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy performance, length derived from the buffer size
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(r.buffer))), n)
}

func contiguous[T DType](r *RawTensor) []T {
	r.mustBeContiguous()
	all := Elements[T](r)
	if all == nil {
		return []T{}
	}
	return all[r.offset : r.offset+r.NumElements()]
}

func (r *RawTensor) mustBeContiguous() {
	if !r.IsContiguous() {
		panic(fmt.Sprintf("tensor with shape %v and strides %v is not contiguous", r.shape, r.stride))
	}
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32 or the tensor is not contiguous.
func (r *RawTensor) AsFloat32() []float32 {
	return contiguous[float32](r)
}

// AsFloat64 interprets the data as []float64.
// Panics if the tensor's dtype is not Float64 or the tensor is not contiguous.
func (r *RawTensor) AsFloat64() []float64 {
	return contiguous[float64](r)
}

// AsFloat16 interprets the data as []float16.Float16.
// Panics if the tensor's dtype is not Float16 or the tensor is not contiguous.
func (r *RawTensor) AsFloat16() []float16.Float16 {
	return contiguous[float16.Float16](r)
}

// AsInt32 interprets the data as []int32.
// Panics if the tensor's dtype is not Int32 or the tensor is not contiguous.
func (r *RawTensor) AsInt32() []int32 {
	return contiguous[int32](r)
}

// AsInt64 interprets the data as []int64.
// Panics if the tensor's dtype is not Int64 or the tensor is not contiguous.
func (r *RawTensor) AsInt64() []int64 {
	return contiguous[int64](r)
}

// AsUint8 interprets the data as []uint8.
// Panics if the tensor's dtype is not Uint8 or the tensor is not contiguous.
func (r *RawTensor) AsUint8() []uint8 {
	return contiguous[uint8](r)
}

// AsBool interprets the data as []bool.
// Panics if the tensor's dtype is not Bool or the tensor is not contiguous.
func (r *RawTensor) AsBool() []bool {
	return contiguous[bool](r)
}

// Clone creates a deep, contiguous copy of the tensor.
// Strided views are compacted; element bytes are copied verbatim.
func (r *RawTensor) Clone() *RawTensor {
	out, err := NewRaw(r.shape, r.dtype, r.device)
	if err != nil {
		panic(fmt.Sprintf("clone: %v", err))
	}
	if r.IsContiguous() {
		copy(out.buffer, r.Data())
		return out
	}

	size := r.dtype.Size()
	index := make([]int, len(r.shape))
	for dst := 0; dst < out.NumElements(); dst++ {
		src := r.offset
		for k, idx := range index {
			src += idx * r.stride[k]
		}
		copy(out.buffer[dst*size:(dst+1)*size], r.buffer[src*size:(src+1)*size])

		// Advance the row-major index.
		for k := len(index) - 1; k >= 0; k-- {
			index[k]++
			if index[k] < r.shape[k] {
				break
			}
			index[k] = 0
		}
	}
	return out
}
