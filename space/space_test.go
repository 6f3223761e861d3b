package space

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestL2Float32(t *testing.T) {
	sp := L2Float32{}

	a := Float32Object(1, []float32{0, 0})
	b := Float32Object(2, []float32{3, 4})

	assert.Equal(t, float32(25), sp.Distance(a, b))
	assert.Equal(t, float32(25), sp.IndexTimeDistance(a, b))
	assert.Equal(t, float32(0), sp.Distance(a, a))
}

func TestL2Float32Proxy(t *testing.T) {
	sp := L2Float32{}

	a := Float32Object(1, []float32{1, 2, 10, 10})
	b := Float32Object(2, []float32{4, 6, 10, 10})

	// Only the first half of the dimensions contribute.
	assert.Equal(t, float32(25), sp.ProxyDistance(a, b))
	assert.Equal(t, float32(25), sp.Distance(a, b))

	var _ ProxySpace[float32] = sp
}

func TestL2Float64(t *testing.T) {
	sp := L2Float64{}

	a := Float64Object(1, []float64{0, 0, 0})
	b := Float64Object(2, []float64{1, 2, 2})

	assert.Equal(t, float64(9), sp.Distance(a, b))
}

func TestF16L2(t *testing.T) {
	sp := F16L2{}

	// Values exactly representable in half precision.
	a := Float16Object(1, []float32{0.5, 1.5})
	b := Float16Object(2, []float32{2.5, 1.5})

	assert.Equal(t, float32(4), sp.Distance(a, b))
}

func TestL1Bytes(t *testing.T) {
	sp := L1Bytes{}

	a := NewObject(1, []byte{10, 20, 30})
	b := NewObject(2, []byte{13, 18, 30})

	assert.Equal(t, 5, sp.Distance(a, b))
}

func TestObjectAccessors(t *testing.T) {
	o := NewObject(42, []byte{1, 2, 3})
	assert.Equal(t, int32(42), o.ID())
	assert.Equal(t, []byte{1, 2, 3}, o.Data())
}

func TestFloat32RoundTrip(t *testing.T) {
	vec := []float32{1.25, -3.5, 0, 7.75}
	o := Float32Object(7, vec)

	got := Float32s(o)
	require.Len(t, got, len(vec))
	assert.Equal(t, vec, got)
}
