package space

import (
	"unsafe"
)

// Float32Object packs a float32 vector into an object. The returned
// object shares no memory with vec.
func Float32Object(id int32, vec []float32) *Object {
	if len(vec) == 0 {
		return NewObject(id, nil)
	}
	buf := make([]float32, len(vec))
	copy(buf, vec)
	return NewObject(id, unsafe.Slice((*byte)(unsafe.Pointer(&buf[0])), len(buf)*4))
}

// Float32s reinterprets the object payload as a float32 vector without
// copying. The payload length must be a multiple of 4.
func Float32s(o *Object) []float32 {
	b := o.Data()
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&b[0])), len(b)/4)
}

// Float64Object packs a float64 vector into an object.
func Float64Object(id int32, vec []float64) *Object {
	if len(vec) == 0 {
		return NewObject(id, nil)
	}
	buf := make([]float64, len(vec))
	copy(buf, vec)
	return NewObject(id, unsafe.Slice((*byte)(unsafe.Pointer(&buf[0])), len(buf)*8))
}

// Float64s reinterprets the object payload as a float64 vector without
// copying. The payload length must be a multiple of 8.
func Float64s(o *Object) []float64 {
	b := o.Data()
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&b[0])), len(b)/8)
}

// L2Float32 is squared Euclidean distance over packed float32 vectors.
// Its proxy distance scans only the first half of the dimensions,
// which preserves ranking well for vectors whose energy is spread
// across dimensions (PCA-rotated data in particular).
type L2Float32 struct{}

// Name implements Space.
func (L2Float32) Name() string { return "l2_f32" }

// IndexTimeDistance implements Space.
func (s L2Float32) IndexTimeDistance(a, b *Object) float32 { return s.Distance(a, b) }

// Distance implements Space.
func (L2Float32) Distance(a, b *Object) float32 {
	va, vb := Float32s(a), Float32s(b)
	var sum float32
	for i := range va {
		d := va[i] - vb[i]
		sum += d * d
	}
	return sum
}

// ProxyDistance implements ProxySpace.
func (L2Float32) ProxyDistance(a, b *Object) float32 {
	va, vb := Float32s(a), Float32s(b)
	half := len(va) / 2
	if half == 0 {
		half = len(va)
	}
	var sum float32
	for i := 0; i < half; i++ {
		d := va[i] - vb[i]
		sum += d * d
	}
	return sum
}

// L2Float64 is squared Euclidean distance over packed float64 vectors.
type L2Float64 struct{}

// Name implements Space.
func (L2Float64) Name() string { return "l2_f64" }

// IndexTimeDistance implements Space.
func (s L2Float64) IndexTimeDistance(a, b *Object) float64 { return s.Distance(a, b) }

// Distance implements Space.
func (L2Float64) Distance(a, b *Object) float64 {
	va, vb := Float64s(a), Float64s(b)
	var sum float64
	for i := range va {
		d := va[i] - vb[i]
		sum += d * d
	}
	return sum
}
