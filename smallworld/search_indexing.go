package smallworld

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/Tencv/nmslib/internal/queue"
	"github.com/Tencv/nmslib/space"
)

// searchForIndexing runs the greedy beam search used during
// construction and returns the up-to-NN closest nodes to q as a
// max-heap, so the farthest retained candidate is on top.
//
// Three structures drive the traversal: candidates is the min-heap
// frontier, closest tracks the efConstruction smallest distances seen
// (its top is the pruning bound), and result is the smaller NN-capped
// heap handed back to the caller. A node admitted to closest but
// rejected by result is still a legal expansion target; that is what
// lets the frontier widen beyond NN.
//
// The dense visited bitset is allocated per search: for N nodes it is
// N/8 bytes and the zero fill is cheap next to the distance
// computations it saves.
func (sw *SmallWorld[T]) searchForIndexing(q *space.Object, maxInternalID int32) (*queue.Priority[T, *node], error) {
	entry := sw.entryPoint
	if entry == nil {
		return nil, ErrNotInitialized
	}

	visited := bitset.New(uint(maxInternalID) + 1)

	candidates := queue.NewMin[T, *node](int(sw.efConstruction))
	closest := queue.NewMax[T, struct{}](int(sw.efConstruction) + 1)
	result := queue.NewMax[T, *node](int(sw.nn) + 1)

	if entry.id < 0 || entry.id > maxInternalID {
		return nil, &ErrGraphCorruption{Detail: fmt.Sprintf("entry point id %d exceeds max internal id %d", entry.id, maxInternalID)}
	}

	d := sw.buildDist(entry.obj, q)
	candidates.PushItem(queue.Item[T, *node]{Key: d, Value: entry})
	closest.PushItemBounded(queue.Item[T, struct{}]{Key: d}, int(sw.efConstruction))
	visited.Set(uint(entry.id))
	result.PushItemBounded(queue.Item[T, *node]{Key: d, Value: entry}, int(sw.nn))

	// Reused across expansions so each snapshot is one append burst
	// under the neighbor's lock.
	var friendBuf []*node

	for candidates.Len() > 0 {
		curr, _ := candidates.TopItem()
		lowerBound, _ := closest.TopItem()

		// Local minimum: the nearest frontier entry is already worse
		// than everything the beam retains.
		if curr.Key > lowerBound.Key {
			break
		}
		candidates.PopItem()

		friendBuf = curr.Value.copyFriends(friendBuf[:0])

		for _, neighbor := range friendBuf {
			if neighbor.id < 0 || neighbor.id > maxInternalID {
				return nil, &ErrGraphCorruption{Detail: fmt.Sprintf("node id %d exceeds max internal id %d", neighbor.id, maxInternalID)}
			}
			if visited.Test(uint(neighbor.id)) {
				continue
			}
			visited.Set(uint(neighbor.id))
			d := sw.buildDist(neighbor.obj, q)

			if top, ok := closest.TopItem(); closest.Len() < int(sw.efConstruction) || (ok && d < top.Key) {
				closest.PushItemBounded(queue.Item[T, struct{}]{Key: d}, int(sw.efConstruction))
				candidates.PushItem(queue.Item[T, *node]{Key: d, Value: neighbor})
			}

			if top, ok := result.TopItem(); result.Len() < int(sw.nn) || (ok && top.Key > d) {
				result.PushItemBounded(queue.Item[T, *node]{Key: d, Value: neighbor}, int(sw.nn))
			}
		}
	}

	return result, nil
}
