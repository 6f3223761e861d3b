// Package nmslib provides an in-memory small-world graph index for
// approximate k-nearest-neighbor search over arbitrary, possibly
// non-metric distance functions.
//
// The index is built by concurrent incremental insertion and queried
// with a greedy beam search from a fixed entry point; results are
// approximate by design. Distances come from a pluggable space (see
// package space), the graph core lives in package smallworld, and this
// package wraps it with logging and metrics instrumentation.
//
// Example:
//
//	data := []*space.Object{
//		space.Float32Object(0, []float32{0, 0}),
//		space.Float32Object(1, []float32{1, 0}),
//		space.Float32Object(2, []float32{0, 1}),
//	}
//
//	ix := nmslib.New[float32](space.L2Float32{}, data)
//	if err := ix.CreateIndex(params.FromMap(map[string]string{
//		"NN":             "10",
//		"efConstruction": "100",
//	})); err != nil {
//		log.Fatal(err)
//	}
//
//	res, err := ix.KNNQuery(space.Float32Object(-1, []float32{0.1, 0.2}), 2)
package nmslib
