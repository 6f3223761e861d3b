package space

import (
	"unsafe"

	"github.com/x448/float16"
)

// Float16Object packs a float32 vector into IEEE 754 half floats,
// halving the memory of Float32Object at ~3 decimal digits of
// precision.
func Float16Object(id int32, vec []float32) *Object {
	if len(vec) == 0 {
		return NewObject(id, nil)
	}
	buf := make([]uint16, len(vec))
	for i, v := range vec {
		buf[i] = float16.Fromfloat32(v).Bits()
	}
	return NewObject(id, unsafe.Slice((*byte)(unsafe.Pointer(&buf[0])), len(buf)*2))
}

func float16Bits(o *Object) []uint16 {
	b := o.Data()
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*uint16)(unsafe.Pointer(&b[0])), len(b)/2)
}

// F16L2 is squared Euclidean distance over half-float vectors. Values
// are widened to float32 per comparison; the accumulated distance is
// float32 like L2Float32, so the two spaces are interchangeable from
// the index's point of view.
type F16L2 struct{}

// Name implements Space.
func (F16L2) Name() string { return "l2_f16" }

// IndexTimeDistance implements Space.
func (s F16L2) IndexTimeDistance(a, b *Object) float32 { return s.Distance(a, b) }

// Distance implements Space.
func (F16L2) Distance(a, b *Object) float32 {
	va, vb := float16Bits(a), float16Bits(b)
	var sum float32
	for i := range va {
		d := float16.Frombits(va[i]).Float32() - float16.Frombits(vb[i]).Float32()
		sum += d * d
	}
	return sum
}
