package nmslib

import (
	"time"

	"github.com/Tencv/nmslib/params"
	"github.com/Tencv/nmslib/query"
	"github.com/Tencv/nmslib/smallworld"
	"github.com/Tencv/nmslib/space"
)

// Index is the instrumented facade over the small-world graph core:
// it forwards every operation to smallworld.SmallWorld and records
// logs and metrics around it.
type Index[T space.Dist] struct {
	sw      *smallworld.SmallWorld[T]
	sp      space.Space[T]
	logger  *Logger
	metrics MetricsCollector
}

// New creates an unbuilt index over the given space and data sequence.
// The data objects are borrowed and must outlive the index.
func New[T space.Dist](sp space.Space[T], data []*space.Object, optFns ...Option) *Index[T] {
	opts := Options{
		Logger:  NoopLogger(),
		Metrics: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	swOpts := func(o *smallworld.Options) {
		o.Logger = opts.Logger.Logger
		if opts.Progress != nil {
			o.Progress = opts.Progress
		}
	}

	return &Index[T]{
		sw:      smallworld.New(sp, data, swOpts),
		sp:      sp,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
}

// CreateIndex builds the graph. See smallworld.SmallWorld.CreateIndex
// for the parameter surface.
func (ix *Index[T]) CreateIndex(prm *params.Params) error {
	start := time.Now()
	err := ix.sw.CreateIndex(prm)
	ix.metrics.RecordBuild(ix.sw.Size(), time.Since(start), err)
	ix.logger.LogBuild(ix.sw.Size(), time.Since(start), err)
	return err
}

// SetQueryTimeParams adjusts query behavior. See
// smallworld.SmallWorld.SetQueryTimeParams.
func (ix *Index[T]) SetQueryTimeParams(prm *params.Params) error {
	return ix.sw.SetQueryTimeParams(prm)
}

// KNNQuery returns up to k approximate nearest neighbors of obj in
// ascending distance order.
func (ix *Index[T]) KNNQuery(obj *space.Object, k int) ([]query.Result[T], error) {
	start := time.Now()
	algo := ix.sw.Algo().String()

	q, err := query.NewKNN(ix.sp, obj, k)
	if err == nil {
		err = ix.sw.SearchKNN(q)
	}
	ix.metrics.RecordSearch(algo, k, time.Since(start), err)
	if err != nil {
		ix.logger.LogSearch(algo, k, 0, err)
		return nil, err
	}

	res := q.Results()
	ix.logger.LogSearch(algo, k, len(res), nil)
	return res, nil
}

// RangeQuery is not supported by the small-world method.
func (ix *Index[T]) RangeQuery(obj *space.Object, radius T) error {
	return ix.sw.SearchRange(&query.Range[T]{Obj: obj, Radius: radius})
}

// Save persists the graph topology to location.
func (ix *Index[T]) Save(location string) error {
	start := time.Now()
	err := ix.sw.Save(location)
	ix.metrics.RecordSave(time.Since(start), err)
	ix.logger.LogSave(location, err)
	return err
}

// Load reconstructs the graph from location over the index's data
// sequence.
func (ix *Index[T]) Load(location string) error {
	start := time.Now()
	err := ix.sw.Load(location)
	ix.metrics.RecordLoad(ix.sw.Size(), time.Since(start), err)
	ix.logger.LogLoad(location, ix.sw.Size(), err)
	return err
}

// Size returns the number of indexed nodes.
func (ix *Index[T]) Size() int { return ix.sw.Size() }
