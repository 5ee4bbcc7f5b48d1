// Package entryinfo defines the contract the timer wheel consumes from the
// cache map's entries, and a concrete reference-counted implementation of
// it. The wheel never reaches into any other part of the entry: no key, no
// value, no weight.
package entryinfo

import (
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"github.com/nobletooth/chronowheel/pkg/clock"
	"github.com/nobletooth/chronowheel/pkg/deadline"
)

// Info is the opaque, reference-counted record the wheel holds a shared
// reference to. The cache map holds at least one other reference; the
// underlying entry is only collectible once every holder has released it.
type Info interface {
	// Deadline reads the current expiration deadline, if any.
	Deadline() (clock.Instant, bool)
	// SetDeadline atomically updates the expiration deadline.
	SetDeadline(t clock.Instant)
	// ClearDeadline atomically removes the expiration deadline.
	ClearDeadline()
	// KeyHash is a test-only accessor identifying which cache entry this
	// record belongs to; the wheel itself never calls it.
	KeyHash() uint64
}

// RefCountedEntry is the concrete Info implementation: a small,
// independently refcounted handle shared between the cache map and the
// wheel.
type RefCountedEntry struct {
	keyHash  uint64
	deadline *deadline.Atomic
	refs     atomic.Int64
}

var _ Info = (*RefCountedEntry)(nil)

// New creates a RefCountedEntry for the given key, starting with one
// reference held by the caller (conventionally the cache map).
func New(key string) *RefCountedEntry {
	e := &RefCountedEntry{
		keyHash:  xxhash.Sum64String(key),
		deadline: deadline.New(),
	}
	e.refs.Store(1)
	return e
}

// NewWithDeadline creates a RefCountedEntry already carrying a deadline.
func NewWithDeadline(key string, t clock.Instant) *RefCountedEntry {
	e := New(key)
	e.SetDeadline(t)
	return e
}

func (e *RefCountedEntry) Deadline() (clock.Instant, bool) {
	return e.deadline.Get()
}

func (e *RefCountedEntry) SetDeadline(t clock.Instant) {
	e.deadline.Set(t)
}

func (e *RefCountedEntry) ClearDeadline() {
	e.deadline.Clear()
}

func (e *RefCountedEntry) KeyHash() uint64 {
	return e.keyHash
}

// Retain increments the reference count. Every Retain must be paired with a
// Release. The wheel itself never calls either: it only ever sees entries
// through the Info interface, which exposes neither method, so a reference
// the cache map hands the wheel is released and re-acquired entirely by the
// cache map's own scheduling and eviction paths around each Schedule/
// Deschedule/PopTimer call.
func (e *RefCountedEntry) Retain() {
	e.refs.Add(1)
}

// Release decrements the reference count and reports whether this was the
// last reference (i.e. the entry is now collectible by its owners).
func (e *RefCountedEntry) Release() bool {
	return e.refs.Add(-1) == 0
}

// RefCount returns the current reference count, for tests.
func (e *RefCountedEntry) RefCount() int64 {
	return e.refs.Load()
}
