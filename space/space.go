// Package space defines the distance space abstraction consumed by the
// graph index: opaque data objects identified by an external id, and
// spaces that compute a (possibly non-metric) distance between two
// objects. A space may additionally supply a cheaper proxy distance
// that approximately preserves ranking; indexes can be configured to
// use it for all build-time comparisons.
package space

// Dist is the set of scalar distance types a space may produce.
// Distances only need a total order; metricity is never assumed.
type Dist interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// Object is an opaque data payload with a globally unique external id.
// Objects are borrowed by the index and must outlive it; the index
// never copies or mutates the underlying buffer.
type Object struct {
	id   int32
	data []byte
}

// NewObject creates an object over the given raw buffer. The buffer is
// retained, not copied.
func NewObject(id int32, data []byte) *Object {
	return &Object{id: id, data: data}
}

// ID returns the external object id.
func (o *Object) ID() int32 { return o.id }

// Data returns the raw payload buffer.
func (o *Object) Data() []byte { return o.data }

// Space computes distances between objects. IndexTimeDistance is used
// while building an index; Distance is used at query time. Most spaces
// implement both with the same function, but the split allows a space
// to use a cheaper or asymmetric variant during construction.
type Space[T Dist] interface {
	// Name identifies the space (used in logs).
	Name() string

	// IndexTimeDistance returns the distance from a to b during
	// index construction.
	IndexTimeDistance(a, b *Object) T

	// Distance returns the query-time distance from a to b.
	Distance(a, b *Object) T
}

// ProxySpace is implemented by spaces that can supply a cheaper
// surrogate distance preserving ranking approximately. The index uses
// it for all build comparisons when configured with useProxyDist.
type ProxySpace[T Dist] interface {
	Space[T]

	// ProxyDistance returns the surrogate distance from a to b.
	ProxyDistance(a, b *Object) T
}
