package queue

import "testing"

func TestMinOrder(t *testing.T) {
	pq := NewMin[float32, string](4)
	for _, k := range []float32{5, 1, 4, 2} {
		pq.PushItem(Item[float32, string]{Key: k})
	}

	want := []float32{1, 2, 4, 5}
	for _, k := range want {
		it, ok := pq.PopItem()
		if !ok || it.Key != k {
			t.Fatalf("expected key %v, got %v (ok=%v)", k, it.Key, ok)
		}
	}
	if _, ok := pq.PopItem(); ok {
		t.Error("expected empty queue")
	}
}

func TestMaxOrder(t *testing.T) {
	pq := NewMax[int, struct{}](4)
	for _, k := range []int{3, 9, 1, 7} {
		pq.PushItem(Item[int, struct{}]{Key: k})
	}

	want := []int{9, 7, 3, 1}
	for _, k := range want {
		it, _ := pq.PopItem()
		if it.Key != k {
			t.Fatalf("expected key %v, got %v", k, it.Key)
		}
	}
}

func TestPushItemBounded(t *testing.T) {
	pq := NewMax[float32, int](4)
	for i, k := range []float32{9, 2, 7, 4, 1} {
		pq.PushItemBounded(Item[float32, int]{Key: k, Value: i}, 3)
	}
	if pq.Len() != 3 {
		t.Fatalf("expected 3 retained items, got %d", pq.Len())
	}
	// The three smallest keys survive on a bounded max-heap.
	top, _ := pq.TopItem()
	if top.Key != 4 {
		t.Errorf("expected worst retained key 4, got %v", top.Key)
	}
}

func TestReset(t *testing.T) {
	pq := NewMin[int, int](2)
	pq.PushItem(Item[int, int]{Key: 1})
	pq.Reset()
	if pq.Len() != 0 {
		t.Errorf("expected empty queue after reset, got %d", pq.Len())
	}
}
