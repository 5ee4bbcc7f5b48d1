// Package housekeeping implements the loop that, in a real deployment, sits
// between a cache map and the wheel: a background goroutine that
// periodically calls Wheel.Advance, drains the iterator, and evicts each
// yielded entry from the map. The cache map and the eviction path itself
// belong to the cache, not here; what this package supplies is the
// scheduling shape around schedule/advance plus a dedup helper for the
// sweep's partial-consumption replays.
package housekeeping

import (
	"encoding/binary"

	"github.com/bits-and-blooms/bloom/v3"
)

// DedupFilter is a bloom-filter-backed "have I already evicted this entry in
// the current sweep" check. A rolled-back Advance can re-yield entries a
// caller already started processing; rather than keep every entryinfo.Info
// pointer seen so far in a map, a sweep can ask DedupFilter, at the cost of a
// small false-positive rate.
type DedupFilter struct {
	filter *bloom.BloomFilter
}

// NewDedupFilter sizes a fresh filter for roughly expectedEntries items at
// the given false-positive rate.
func NewDedupFilter(expectedEntries uint, falsePositiveRate float64) *DedupFilter {
	return &DedupFilter{filter: bloom.NewWithEstimates(expectedEntries, clipRate(falsePositiveRate))}
}

// clipRate clamps a bloom filter false-positive rate into (0, 1); passing an
// out-of-range rate to bloom.NewWithEstimates panics.
func clipRate(rate float64) float64 {
	if rate <= 0 || rate >= 1 {
		return 0.01
	}
	return rate
}

// SeenBefore reports whether keyHash has already been recorded this sweep via
// Mark, and is safe to call before Mark has ever been called (always false).
// False positives are possible (an unseen key reported as seen, causing a
// housekeeping loop to skip an entry it hasn't actually evicted yet; the
// wheel has already popped that entry, so it is not yielded again); false
// negatives are not.
func (d *DedupFilter) SeenBefore(keyHash uint64) bool {
	return d.filter.Test(keyHashBytes(keyHash))
}

// Mark records keyHash as processed for the remainder of the current sweep;
// Sweeper clears every mark once a SweepOnce pass drains its iterator to the
// end.
func (d *DedupFilter) Mark(keyHash uint64) {
	d.filter.Add(keyHashBytes(keyHash))
}

func keyHashBytes(keyHash uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], keyHash)
	return b[:]
}
