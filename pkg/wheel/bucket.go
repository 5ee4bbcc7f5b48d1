package wheel

import "github.com/nobletooth/chronowheel/pkg/entryinfo"

// timerNode is a wheel-internal record: the entry it is scheduling, and the
// (level, bucket) slot it currently occupies plus the prev/next pointers that
// link it into that slot's bucket. Node identity is the node's own pointer,
// which is stable for as long as the node is linked: the garbage collector
// keeps it alive, so a plain pointer is sufficient identity without a
// hand-rolled arena of indices.
type timerNode struct {
	prev, next *timerNode
	level      int
	bucket     int
	entry      entryinfo.Info
	// live is false once the node has been unlinked, either by Deschedule or
	// by being popped (expired or cascaded) during Advance. Checked by
	// Deschedule to reject a handle that has already been retired instead of
	// unlinking it a second time.
	live bool
}

// bucket is a doubly-linked FIFO queue of timerNodes. Push is O(1), and
// because each node carries its own prev/next pointers, unlinking a specific
// node never requires a scan.
type bucket struct {
	head, tail *timerNode
	size       int
}

// pushBack appends n to the tail of the bucket.
func (b *bucket) pushBack(n *timerNode) {
	n.prev = b.tail
	n.next = nil
	if b.tail != nil {
		b.tail.next = n
	} else {
		b.head = n
	}
	b.tail = n
	b.size++
}

// unlink removes n from whichever position it occupies in this bucket. The
// caller must ensure n is actually linked into this bucket; unlink does not
// verify that, and unlinking an already-unlinked node is caller error.
func (b *bucket) unlink(n *timerNode) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		b.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		b.tail = n.prev
	}
	n.prev = nil
	n.next = nil
	b.size--
}

// popFront unlinks and returns the head of the bucket, or nil if empty.
func (b *bucket) popFront() *timerNode {
	n := b.head
	if n == nil {
		return nil
	}
	b.unlink(n)
	return n
}

// len returns the number of nodes currently linked into the bucket.
func (b *bucket) len() int {
	return b.size
}
