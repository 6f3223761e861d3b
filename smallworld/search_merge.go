package smallworld

import (
	"fmt"
	"sort"

	"github.com/bits-and-blooms/bitset"

	"github.com/Tencv/nmslib/internal/sortarr"
	"github.com/Tencv/nmslib/query"
)

// searchV1Merge is the sorted-array query beam. A single fixed-size
// ordered buffer doubles as frontier and result set; a cursor walks it
// front to back expanding one entry at a time. Newly evaluated
// neighbors are staged per expansion, sorted, and folded into the
// buffer either item by item or with one batched merge. Whenever an
// insertion lands ahead of the cursor, the cursor rewinds to it so a
// better-scoring entry is never skipped; used marks make the rewind
// cheap by letting the cursor hop over entries already expanded.
func (sw *SmallWorld[T]) searchV1Merge(q *query.KNN[T]) error {
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

	sorted := sortarr.New[T, *node](max(efSearch, q.K()))
	queueData := sorted.Data()

	d := q.DistanceObjLeft(entry.obj)
	sorted.PushOrReplace(d, entry)

	if int(entry.id) >= size || entry.id < 0 {
		return &ErrGraphCorruption{Detail: fmt.Sprintf("entry point id %d exceeds node table size %d", entry.id, size)}
	}
	visited.Set(uint(entry.id))

	currElem := 0
	itemBuff := make([]sortarr.Item[T, *node], 0, 8*int(sw.nn))

	// efSearch can exceed the number of elements actually in the
	// buffer, hence the min with the live size.
	for currElem < min(sorted.Size(), efSearch) {
		e := &queueData[currElem]
		if e.Used {
			return &ErrGraphCorruption{Detail: "query cursor landed on an already expanded entry"}
		}
		e.Used = true
		currNode := e.Val
		currElem++

		itemBuff = itemBuff[:0]
		topKey, full := sorted.TopKey()

		for _, neighbor := range currNode.friends {
			if int(neighbor.id) >= size || neighbor.id < 0 {
				return &ErrGraphCorruption{Detail: fmt.Sprintf("node id %d exceeds node table size %d", neighbor.id, size)}
			}
			if visited.Test(uint(neighbor.id)) {
				continue
			}
			d := q.DistanceObjLeft(neighbor.obj)
			visited.Set(uint(neighbor.id))
			if sorted.Size() < efSearch || !full || d < topKey {
				itemBuff = append(itemBuff, sortarr.Item[T, *node]{Key: d, Val: neighbor})
			}
		}

		if len(itemBuff) > 0 {
			sort.Slice(itemBuff, func(i, j int) bool { return itemBuff[i].Key < itemBuff[j].Key })

			if len(itemBuff) > mergeBufferAlgoSwitchThreshold {
				if insIndex := sorted.MergeWithSorted(itemBuff); insIndex < currElem {
					currElem = insIndex
				}
			} else {
				for _, it := range itemBuff {
					if insIndex := sorted.PushOrReplace(it.Key, it.Val); insIndex < currElem {
						currElem = insIndex
					}
				}
			}
		}

		// Re-establish the invariant that the cursor points at the
		// first unexpanded element or the end.
		for currElem < sorted.Size() && queueData[currElem].Used {
			currElem++
		}
	}

	for i := 0; i < q.K() && i < sorted.Size(); i++ {
		q.CheckAndAddToResult(queueData[i].Key, queueData[i].Val.obj)
	}
	return nil
}
