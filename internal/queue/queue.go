// Package queue provides the value-based priority queues that back the
// beam searches. Items carry an ordered key and an arbitrary payload;
// storage is a flat slice for cache locality and zero per-push
// allocations.
package queue

import "github.com/Tencv/nmslib/space"

// Item is one queue entry.
type Item[K space.Dist, V any] struct {
	Key   K
	Value V
}

// Priority is a binary heap over Items. isMaxHeap selects whether the
// top is the largest or the smallest key.
type Priority[K space.Dist, V any] struct {
	isMaxHeap bool
	items     []Item[K, V]
}

// NewMin initializes a min-heap with the given capacity hint.
func NewMin[K space.Dist, V any](capacity int) *Priority[K, V] {
	return &Priority[K, V]{
		isMaxHeap: false,
		items:     make([]Item[K, V], 0, capacity),
	}
}

// NewMax initializes a max-heap with the given capacity hint.
func NewMax[K space.Dist, V any](capacity int) *Priority[K, V] {
	return &Priority[K, V]{
		isMaxHeap: true,
		items:     make([]Item[K, V], 0, capacity),
	}
}

// Len returns the number of queued items.
func (pq *Priority[K, V]) Len() int { return len(pq.items) }

// TopItem returns the top of the heap without removing it.
func (pq *Priority[K, V]) TopItem() (Item[K, V], bool) {
	if len(pq.items) == 0 {
		return Item[K, V]{}, false
	}
	return pq.items[0], true
}

// PushItem inserts an item while maintaining the heap invariant.
func (pq *Priority[K, V]) PushItem(item Item[K, V]) {
	pq.items = append(pq.items, item)
	pq.siftUp(len(pq.items) - 1)
}

// PushItemBounded pushes an item and then trims the heap back to bound
// elements by discarding the top. On a max-heap this retains the bound
// smallest keys seen.
func (pq *Priority[K, V]) PushItemBounded(item Item[K, V], bound int) {
	pq.PushItem(item)
	if len(pq.items) > bound {
		pq.PopItem()
	}
}

// PopItem removes and returns the top element.
func (pq *Priority[K, V]) PopItem() (Item[K, V], bool) {
	n := len(pq.items)
	if n == 0 {
		return Item[K, V]{}, false
	}
	root := pq.items[0]
	last := pq.items[n-1]
	pq.items[n-1] = Item[K, V]{}
	pq.items = pq.items[:n-1]
	if n-1 > 0 {
		pq.items[0] = last
		pq.siftDown(0)
	}
	return root, true
}

// Items exposes the backing slice in heap order. Useful for draining
// without destroying the heap; callers must not mutate keys.
func (pq *Priority[K, V]) Items() []Item[K, V] { return pq.items }

// Reset clears the queue for reuse.
func (pq *Priority[K, V]) Reset() { pq.items = pq.items[:0] }

func (pq *Priority[K, V]) less(i, j int) bool {
	if pq.isMaxHeap {
		return pq.items[i].Key > pq.items[j].Key
	}
	return pq.items[i].Key < pq.items[j].Key
}

func (pq *Priority[K, V]) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !pq.less(i, p) {
			return
		}
		pq.items[i], pq.items[p] = pq.items[p], pq.items[i]
		i = p
	}
}

func (pq *Priority[K, V]) siftDown(i int) {
	n := len(pq.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		if r := l + 1; r < n && pq.less(r, l) {
			best = r
		}
		if !pq.less(best, i) {
			return
		}
		pq.items[i], pq.items[best] = pq.items[best], pq.items[i]
		i = best
	}
}
