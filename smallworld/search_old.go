package smallworld

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/Tencv/nmslib/internal/queue"
	"github.com/Tencv/nmslib/query"
)

// searchOld is the classic two-heap query beam: a min-heap frontier
// and a max-heap of the efSearch smallest distances seen. Every
// evaluated node is offered to the query's result sink whether or not
// it is admitted to the beam; that is the behavioral difference from
// the merge variant, which only emits its buffer.
func (sw *SmallWorld[T]) searchOld(q *query.KNN[T]) error {
	size := sw.Size()
	if size == 0 {
		return nil
	}
	entry := sw.entryPoint
	if entry == nil {
		return ErrNotInitialized
	}
	efSearch := int(sw.efSearch)

	visited := bitset.New(uint(size))

	closest := queue.NewMax[T, struct{}](efSearch + 1)
	candidates := queue.NewMin[T, *node](efSearch)

	d := q.DistanceObjLeft(entry.obj)
	// Offered before it enters the queue, or it would never be
	// compared to the query at all.
	q.CheckAndAddToResult(d, entry.obj)

	candidates.PushItem(queue.Item[T, *node]{Key: d, Value: entry})
	closest.PushItem(queue.Item[T, struct{}]{Key: d})

	if int(entry.id) >= size || entry.id < 0 {
		return &ErrGraphCorruption{Detail: fmt.Sprintf("entry point id %d exceeds node table size %d", entry.id, size)}
	}
	visited.Set(uint(entry.id))

	for candidates.Len() > 0 {
		curr, _ := candidates.TopItem()
		lowerBound, _ := closest.TopItem()

		// Local minimum reached.
		if curr.Key > lowerBound.Key {
			break
		}
		candidates.PopItem()

		for _, neighbor := range curr.Value.friends {
			if int(neighbor.id) >= size || neighbor.id < 0 {
				return &ErrGraphCorruption{Detail: fmt.Sprintf("node id %d exceeds node table size %d", neighbor.id, size)}
			}
			if visited.Test(uint(neighbor.id)) {
				continue
			}
			visited.Set(uint(neighbor.id))
			d := q.DistanceObjLeft(neighbor.obj)

			if top, ok := closest.TopItem(); closest.Len() < efSearch || (ok && d < top.Key) {
				closest.PushItemBounded(queue.Item[T, struct{}]{Key: d}, efSearch)
				candidates.PushItem(queue.Item[T, *node]{Key: d, Value: neighbor})
			}

			q.CheckAndAddToResult(d, neighbor.obj)
		}
	}

	return nil
}
