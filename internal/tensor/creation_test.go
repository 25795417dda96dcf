package tensor

import (
	"testing"

	"github.com/x448/float16"
)

func TestZeros(t *testing.T) {
	backend := NewMockBackend()
	x := Zeros[float32](Shape{2, 3}, backend)

	assertEqualShape(t, Shape{2, 3}, x.Shape(), "Zeros shape")
	for i, v := range x.Data() {
		if v != 0 {
			t.Errorf("Zeros data[%d] = %v, want 0", i, v)
		}
	}
}

func TestFull(t *testing.T) {
	backend := NewMockBackend()
	x := Full[int64](Shape{3}, 7, backend)

	for i, v := range x.Data() {
		if v != 7 {
			t.Errorf("Full data[%d] = %v, want 7", i, v)
		}
	}
}

func TestArange(t *testing.T) {
	backend := NewMockBackend()

	f := Arange[float32](Shape{1, 4, 4, 1}, backend)
	for i, v := range f.Data() {
		assertEqualFloat32(t, float32(i), v, "Arange float32")
	}

	b := Arange[bool](Shape{4}, backend)
	for i, v := range b.Data() {
		if v != (i%2 == 1) {
			t.Errorf("Arange bool data[%d] = %v", i, v)
		}
	}

	u := Arange[uint8](Shape{300}, backend)
	if u.Data()[257] != 1 {
		t.Errorf("Arange uint8 should wrap, got %d", u.Data()[257])
	}

	h := Arange[float16.Float16](Shape{3}, backend)
	if h.At(2).Float32() != 2 {
		t.Errorf("Arange float16 data[2] = %v", h.At(2))
	}
}
