package space

// L1Bytes is Manhattan distance over raw byte payloads, interpreted as
// unsigned 8-bit components. It exercises the integer distance path;
// no packing helper is needed since the payload is used as-is.
type L1Bytes struct{}

// Name implements Space.
func (L1Bytes) Name() string { return "l1_bytes" }

// IndexTimeDistance implements Space.
func (s L1Bytes) IndexTimeDistance(a, b *Object) int { return s.Distance(a, b) }

// Distance implements Space.
func (L1Bytes) Distance(a, b *Object) int {
	va, vb := a.Data(), b.Data()
	sum := 0
	for i := range va {
		d := int(va[i]) - int(vb[i])
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return sum
}
