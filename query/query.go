// Package query defines the query objects consumed by the index: a
// k-nearest-neighbor query that owns the caller-side top-k buffer, and
// a range query type that the small-world index rejects.
package query

import (
	"errors"
	"sort"

	"github.com/Tencv/nmslib/internal/queue"
	"github.com/Tencv/nmslib/space"
)

// ErrInvalidK is returned when k is not positive.
var ErrInvalidK = errors.New("k must be positive")

// Result is a single query answer.
type Result[T space.Dist] struct {
	Dist   T
	Object *space.Object
}

// KNN is a k-nearest-neighbor query. The index calls DistanceObjLeft
// for every evaluated object and CheckAndAddToResult to offer
// candidates; the query maintains its own top-k buffer and makes no
// deduplication assumptions about what it is offered.
type KNN[T space.Dist] struct {
	sp  space.Space[T]
	obj *space.Object
	k   int
	res *queue.Priority[T, *space.Object]
}

// NewKNN creates a query for the k objects nearest to obj.
func NewKNN[T space.Dist](sp space.Space[T], obj *space.Object, k int) (*KNN[T], error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}
	return &KNN[T]{
		sp:  sp,
		obj: obj,
		k:   k,
		res: queue.NewMax[T, *space.Object](k + 1),
	}, nil
}

// K returns the requested result count.
func (q *KNN[T]) K() int { return q.k }

// Object returns the query object.
func (q *KNN[T]) Object() *space.Object { return q.obj }

// DistanceObjLeft returns the query-time distance from o to the query
// object.
func (q *KNN[T]) DistanceObjLeft(o *space.Object) T {
	return q.sp.Distance(o, q.obj)
}

// CheckAndAddToResult offers a candidate to the top-k buffer. It is
// kept iff the buffer is below k or d beats the current worst.
func (q *KNN[T]) CheckAndAddToResult(d T, o *space.Object) {
	if q.res.Len() < q.k {
		q.res.PushItem(queue.Item[T, *space.Object]{Key: d, Value: o})
		return
	}
	top, _ := q.res.TopItem()
	if d < top.Key {
		q.res.PopItem()
		q.res.PushItem(queue.Item[T, *space.Object]{Key: d, Value: o})
	}
}

// Results returns the retained candidates in ascending distance order.
// The buffer is left intact; Results may be called repeatedly.
func (q *KNN[T]) Results() []Result[T] {
	items := q.res.Items()
	out := make([]Result[T], len(items))
	for i, it := range items {
		out[i] = Result[T]{Dist: it.Key, Object: it.Value}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Dist < out[j].Dist })
	return out
}

// Range is a range query: all objects within Radius of the query
// object. The small-world index does not support range search and
// rejects it; the type exists so callers get a typed rejection instead
// of a missing method.
type Range[T space.Dist] struct {
	Obj    *space.Object
	Radius T
}
