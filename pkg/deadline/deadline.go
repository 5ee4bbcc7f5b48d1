// Package deadline provides a lock-free cell holding an optional monotonic
// deadline, shared between the cache entry that owns it and the timer wheel
// that reads it on every advance.
package deadline

import (
	"math"
	"sync/atomic"

	"github.com/nobletooth/chronowheel/pkg/clock"
)

// unset is the sentinel value meaning "no deadline".
const unset = uint64(math.MaxUint64)

// Atomic is a single 64-bit atomic cell holding an optional clock.Instant.
// There is no CAS: the writer is always the owning cache entry, and readers
// (the wheel, during advance) tolerate last-writer-wins semantics.
type Atomic struct {
	packed atomic.Uint64
}

// New returns an Atomic with no deadline set.
func New() *Atomic {
	a := &Atomic{}
	a.packed.Store(unset)
	return a
}

// NewWithDeadline returns an Atomic already carrying the given deadline.
func NewWithDeadline(t clock.Instant) *Atomic {
	a := New()
	a.Set(t)
	return a
}

// Set stores t as the current deadline (release store).
func (a *Atomic) Set(t clock.Instant) {
	a.packed.Store(pack(t))
}

// Clear removes the deadline, making Get report absent (release store).
func (a *Atomic) Clear() {
	a.packed.Store(unset)
}

// Get returns the current deadline and true, or the zero Instant and false if
// no deadline is set (acquire load).
func (a *Atomic) Get() (clock.Instant, bool) {
	v := a.packed.Load()
	if v == unset {
		return 0, false
	}
	return unpack(v), true
}

// IsSet reports whether a deadline is currently set (acquire load).
func (a *Atomic) IsSet() bool {
	return a.packed.Load() != unset
}

// pack and unpack form the bijection between clock.Instant and the packed
// uint64 representation. clock.Instant is already nanoseconds-since-origin as
// an int64, so this is a straight reinterpretation, reserving all-ones for the
// sentinel. The one Instant that collides with the sentinel is -1 (all-ones
// as a uint64): storing it reads back as unset. SystemClock only reports
// non-negative instants.
func pack(t clock.Instant) uint64 {
	return uint64(t)
}

func unpack(v uint64) clock.Instant {
	return clock.Instant(v)
}
