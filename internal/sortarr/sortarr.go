// Package sortarr implements the fixed-capacity sorted buffer used by
// the merge-based query beam. The buffer keeps (key, value) pairs in
// ascending key order together with a per-entry used flag, and every
// insertion reports the index it landed at so the caller can rewind
// its cursor to re-expand better-scoring entries.
package sortarr

import (
	"sort"

	"github.com/Tencv/nmslib/space"
)

// Item is one buffer entry. Used marks entries whose neighborhood has
// already been expanded.
type Item[K space.Dist, V any] struct {
	Key  K
	Val  V
	Used bool
}

// Buffer is a fixed-capacity ordered array. The backing slice never
// reallocates, so Data views stay valid across insertions (elements
// shift, the array does not move).
type Buffer[K space.Dist, V any] struct {
	items []Item[K, V]
	size  int
}

// New creates a buffer with the given capacity. Capacity must be
// positive.
func New[K space.Dist, V any](capacity int) *Buffer[K, V] {
	return &Buffer[K, V]{items: make([]Item[K, V], capacity)}
}

// Size returns the number of live entries.
func (b *Buffer[K, V]) Size() int { return b.size }

// Capacity returns the fixed capacity.
func (b *Buffer[K, V]) Capacity() int { return len(b.items) }

// Full reports whether the buffer is at capacity.
func (b *Buffer[K, V]) Full() bool { return b.size == len(b.items) }

// TopKey returns the largest retained key. ok is false while the
// buffer is below capacity, in which case callers must treat the
// threshold as infinite.
func (b *Buffer[K, V]) TopKey() (K, bool) {
	if !b.Full() {
		var zero K
		return zero, false
	}
	return b.items[b.size-1].Key, true
}

// Data exposes the backing array; the first Size() entries are live.
// Callers may flip Used flags in place but must not reorder entries.
func (b *Buffer[K, V]) Data() []Item[K, V] { return b.items }

// PushOrReplace inserts (key, val) at its sorted position, evicting
// the last entry when at capacity. Returns the insertion index, or
// Capacity() when the key was not competitive and the push was
// dropped.
func (b *Buffer[K, V]) PushOrReplace(key K, val V) int {
	if b.Full() && !(key < b.items[b.size-1].Key) {
		return len(b.items)
	}
	pos := sort.Search(b.size, func(i int) bool { return key < b.items[i].Key })
	if b.size < len(b.items) {
		b.size++
	}
	copy(b.items[pos+1:b.size], b.items[pos:b.size-1])
	b.items[pos] = Item[K, V]{Key: key, Val: val}
	return pos
}

// MergeWithSorted merges a batch already sorted by ascending key into
// the buffer, keeping at most Capacity() entries. Existing entries win
// key ties so their used flags survive. Returns the smallest index a
// batch entry landed at, or Capacity() when none survived the merge.
func (b *Buffer[K, V]) MergeWithSorted(batch []Item[K, V]) int {
	if len(batch) == 0 {
		return len(b.items)
	}
	capacity := len(b.items)
	merged := make([]Item[K, V], 0, min(capacity, b.size+len(batch)))
	minIns := capacity
	i, j := 0, 0
	for len(merged) < capacity && (i < b.size || j < len(batch)) {
		if i >= b.size || (j < len(batch) && batch[j].Key < b.items[i].Key) {
			if len(merged) < minIns {
				minIns = len(merged)
			}
			merged = append(merged, Item[K, V]{Key: batch[j].Key, Val: batch[j].Val})
			j++
		} else {
			merged = append(merged, b.items[i])
			i++
		}
	}
	copy(b.items, merged)
	b.size = len(merged)
	return minIns
}
