// Package wheel implements the hierarchical timer wheel at the heart of the
// cache's expiration tracking: five levels of buckets covering roughly
// seconds, minutes, hours, days, and an overflow tail, with amortized O(1)
// schedule/cancel and an advance-and-drain iterator that cascades live
// entries to finer-grained levels. The algorithm traces back to Caffeine's
// TimerWheel.java.
package wheel

import (
	"log/slog"
	"math/bits"

	"github.com/nobletooth/chronowheel/pkg/clock"
	"github.com/nobletooth/chronowheel/pkg/entryinfo"
	"github.com/nobletooth/chronowheel/pkg/wheelutil"
)

// numLevels is the number of wheel levels, including the overflow tail.
const numLevels = 5

// bucketCounts is the number of buckets at each level: roughly seconds,
// minutes, hours, days, and a single overflow bucket.
var bucketCounts = [numLevels]uint64{64, 64, 32, 4, 1}

// spans[i] is the nanosecond span of one bucket at level i, rounded up to the
// next power of two so bucket indices can be computed with a shift and mask
// instead of a division. spans[4] is the upper bound of the
// `duration < spans[level+1]` check for level 3 (the overflow level itself
// has no "next" span to compare against), and through shift[4] it is also
// the overflow level's tick: Advance visits the overflow bucket only when it
// crosses a multiple of spans[4] since origin.
var spans = [numLevels]uint64{
	roundUpPowerOfTwo(uint64(oneSecond)),
	roundUpPowerOfTwo(uint64(oneMinute)),
	roundUpPowerOfTwo(uint64(oneHour)),
	roundUpPowerOfTwo(uint64(oneDay)),
	0, // filled in by init: bucketCounts[3] * spans[3]
}

const (
	oneSecond = 1_000_000_000
	oneMinute = 60 * oneSecond
	oneHour   = 60 * oneMinute
	oneDay    = 24 * oneHour
)

// shift[i] is log2(spans[i]), used to turn a nanosecond timestamp into a
// tick count for level i via a right shift.
var shift [numLevels]uint64

func init() {
	spans[3] = roundUpPowerOfTwo(uint64(oneDay))
	spans[4] = bucketCounts[3] * spans[3]
	for i := range spans {
		shift[i] = uint64(bits.TrailingZeros64(spans[i]))
	}
}

// roundUpPowerOfTwo returns the smallest power of two >= v (v > 0).
func roundUpPowerOfTwo(v uint64) uint64 {
	if v == 0 {
		return 1
	}
	return 1 << uint64(64-bits.LeadingZeros64(v-1))
}

// Handle is the stable identity of a scheduled timer node, sufficient to
// cancel it in O(1). It is opaque to callers outside this package.
type Handle struct {
	node *timerNode
}

// Wheel is the five-level hierarchical timer wheel. It is not safe for
// concurrent use: callers (conventionally a cache's housekeeping goroutine)
// must serialize all calls to Schedule/Deschedule/Reschedule/Advance and to
// the iterator Advance returns.
type Wheel struct {
	buckets [numLevels][]bucket
	origin  clock.Instant
	current clock.Instant
}

// NewWheel constructs a Wheel whose origin and current time are both now.
func NewWheel(now clock.Instant) *Wheel {
	w := &Wheel{origin: now, current: now}
	for level := range w.buckets {
		w.buckets[level] = make([]bucket, bucketCounts[level])
	}
	return w
}

// Current returns the greatest instant the wheel has been advanced to.
func (w *Wheel) Current() clock.Instant {
	return w.current
}

// Origin returns the instant the wheel was created.
func (w *Wheel) Origin() clock.Instant {
	return w.origin
}

// Schedule links entry into the bucket its current deadline maps to, and
// returns a Handle for later cancellation. If entry has no deadline,
// Schedule does nothing and returns (nil, false).
func (w *Wheel) Schedule(entry entryinfo.Info) (*Handle, bool) {
	t, ok := entry.Deadline()
	if !ok {
		return nil, false
	}
	level, idx := w.BucketIndices(t)
	slog.Debug("scheduling timer", "level", level, "index", idx)
	node := &timerNode{level: level, bucket: idx, entry: entry, live: true}
	w.buckets[level][idx].pushBack(node)
	return &Handle{node: node}, true
}

// Deschedule unlinks the node behind h from whichever bucket it currently
// occupies. Descheduling a handle whose node has already been unlinked — by
// an earlier Deschedule, or because Advance already popped it — is a
// programming error: it raises an invariant and is a no-op rather than
// unlinking an already-unlinked node, which would corrupt whatever bucket
// n.level/n.bucket happen to name now.
func (w *Wheel) Deschedule(h *Handle) {
	n := h.node
	if !n.live {
		wheelutil.RaiseInvariant(wheelutil.ModuleWheel, "double_deschedule",
			"Handle was already descheduled; ignoring.",
			"level", n.level, "bucket", n.bucket)
		return
	}
	n.live = false
	w.buckets[n.level][n.bucket].unlink(n)
}

// Reschedule is equivalent to Deschedule followed by Schedule using the same
// entry; used after the entry's deadline has changed.
func (w *Wheel) Reschedule(h *Handle) (*Handle, bool) {
	entry := h.node.entry
	w.Deschedule(h)
	return w.Schedule(entry)
}

// PopTimer unlinks and returns the entry at the head of the given bucket.
func (w *Wheel) PopTimer(level, idx int) (entryinfo.Info, bool) {
	n := w.buckets[level][idx].popFront()
	if n == nil {
		return nil, false
	}
	n.live = false
	return n.entry, true
}

// BucketIndices computes the (level, bucket) slot that a deadline of t maps
// to, relative to the wheel's current time. Precondition: t >= Current();
// violating it is a programming error — debug builds (wheelutil.IsTestMode)
// panic via RaiseInvariant, release builds clamp to level 0, bucket 0 rather
// than risk corrupting the wheel's linkage.
func (w *Wheel) BucketIndices(t clock.Instant) (level, idx int) {
	d := t.Sub(w.current)
	if d < 0 {
		wheelutil.RaiseInvariant(wheelutil.ModuleWheel, "deadline_before_current",
			"Scheduled deadline precedes the wheel's current time; clamping.",
			"deadline", t, "current", w.current)
		return 0, 0
	}
	timeNanos := w.timeNanos(t)
	for l := 0; l < numLevels-1; l++ {
		if uint64(d) < spans[l+1] {
			ticks := timeNanos >> shift[l]
			return l, int(ticks & (bucketCounts[l] - 1))
		}
	}
	return numLevels - 1, 0
}

// timeNanos returns nanoseconds elapsed since the wheel's origin.
func (w *Wheel) timeNanos(t clock.Instant) uint64 {
	return uint64(t.Sub(w.origin))
}

// Advance records the wheel's current time as "previous", sets current to
// current_time, and returns a lazy iterator over now-expired entries. The
// returned iterator holds exclusive access to the wheel; no other Wheel
// method may be called until the iterator's Close method returns.
func (w *Wheel) Advance(currentTime clock.Instant) *ExpiredIterator {
	previous := w.current
	w.current = currentTime
	return &ExpiredIterator{wheel: w, previous: previous, current: currentTime}
}
