package wheel

import (
	"github.com/nobletooth/chronowheel/pkg/clock"
	"github.com/nobletooth/chronowheel/pkg/entryinfo"
)

// ExpiredIterator lazily walks the buckets touched by one Advance call,
// yielding entries whose deadline has actually passed and re-scheduling
// (cascading) entries that have not. Go has no destructors, so callers MUST
// call Close (typically via defer) whether or not they drained the iterator
// to completion: the partial-consumption rollback below is only honored if
// Close runs.
type ExpiredIterator struct {
	wheel    *Wheel
	previous clock.Instant
	current  clock.Instant
	done     bool
	closed   bool

	level     int
	index     uint64
	endIndex  uint64
	indexMask uint64
	indexSet  bool

	// yielded records every entry Next has returned, with the slot it was
	// popped from, so Close can link it back in on rollback.
	yielded []yieldedTimer
}

type yieldedTimer struct {
	level, bucket int
	entry         entryinfo.Info
}

// Next returns the next expired entry and true, or (nil, false) once the
// sweep of every touched bucket across all five levels is complete.
func (it *ExpiredIterator) Next() (entryinfo.Info, bool) {
	if it.done {
		return nil, false
	}

	for {
		if !it.indexSet {
			previousTicks := it.wheel.timeNanos(it.previous) >> shift[it.level]
			currentTicks := it.wheel.timeNanos(it.current) >> shift[it.level]
			if currentTicks <= previousTicks {
				// No tick boundary crossed at this level, therefore none will
				// be crossed at any coarser (larger-span) level either — the
				// sweep is over.
				it.done = true
				return nil, false
			}

			it.indexMask = bucketCounts[it.level] - 1
			it.index = previousTicks & it.indexMask
			steps := min(currentTicks-previousTicks+1, bucketCounts[it.level])
			it.endIndex = it.index + steps
			it.indexSet = true
		}

		i := it.index & it.indexMask
		entry, ok := it.wheel.PopTimer(it.level, int(i))
		if ok {
			t, hasDeadline := entry.Deadline()
			if !hasDeadline {
				// Externally untied since being scheduled; drop it and keep
				// draining this same bucket.
				continue
			}
			if !t.After(it.current) {
				// Deadline <= current_time: expired.
				it.yielded = append(it.yielded, yieldedTimer{level: it.level, bucket: int(i), entry: entry})
				return entry, true
			}
			// Still live: cascade it to the level/bucket its (now closer)
			// deadline maps to.
			it.wheel.Schedule(entry)
			continue
		}

		// Bucket drained; advance to the next index, or the next level.
		it.index++
		if it.index >= it.endIndex {
			it.level++
			if it.level >= numLevels {
				it.done = true
				return nil, false
			}
			it.indexSet = false
		}
	}
}

// Close finishes the sweep. If Next was not drained to completion (it.done
// is still false), the wheel's current time is rolled back to the value it
// held before Advance was called, and every entry Next already returned is
// linked back into the bucket it was popped from, so a subsequent
// Advance(currentTime) redoes the whole sweep from the last fully-completed
// advance and yields those entries again. Close is idempotent.
func (it *ExpiredIterator) Close() {
	if it.closed {
		return
	}
	it.closed = true
	if !it.done {
		it.wheel.current = it.previous
		for _, y := range it.yielded {
			node := &timerNode{level: y.level, bucket: y.bucket, entry: y.entry, live: true}
			it.wheel.buckets[y.level][y.bucket].pushBack(node)
		}
	}
	it.done = true
}
