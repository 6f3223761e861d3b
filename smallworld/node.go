package smallworld

import (
	"sync"

	"github.com/Tencv/nmslib/space"
)

// node is one graph vertex: a borrowed data object, a dense internal
// id equal to the object's position in the input sequence, and an
// outgoing friend list. Edges are undirected and stored on both
// endpoints. The mutex guards friends only.
type node struct {
	id  int32
	obj *space.Object

	mu      sync.Mutex
	friends []*node
}

func newNode(obj *space.Object, id int32) *node {
	return &node{id: id, obj: obj}
}

// removeAllFriends resets the friend list. Called once on a freshly
// created node before it enters the graph.
func (n *node) removeAllFriends() {
	n.mu.Lock()
	n.friends = nil
	n.mu.Unlock()
}

// addFriend appends a single directed edge without a duplicate check.
// Duplicates present in a save file must survive a load, so the check
// is skipped on this path too.
func (n *node) addFriend(f *node) {
	n.mu.Lock()
	n.friends = append(n.friends, f)
	n.mu.Unlock()
}

// copyFriends snapshots the friend list into buf under the node lock,
// so a caller can walk neighbors without holding the lock while other
// inserters extend the list.
func (n *node) copyFriends(buf []*node) []*node {
	n.mu.Lock()
	buf = append(buf, n.friends...)
	n.mu.Unlock()
	return buf
}

// link adds the undirected edge (a, b) by appending to both friend
// lists. Both locks are taken in ascending internal-id order; no other
// path holds two node locks at once, so this cannot deadlock.
// Duplicate checks are deliberately skipped.
func link(a, b *node) {
	first, second := a, b
	if second.id < first.id {
		first, second = second, first
	}
	first.mu.Lock()
	second.mu.Lock()
	a.friends = append(a.friends, b)
	b.friends = append(b.friends, a)
	second.mu.Unlock()
	first.mu.Unlock()
}
