package stats

import "sync/atomic"

// Recorder is the write side of the stats subsystem: the cache's lookup,
// load, and eviction paths call into it; the housekeeping thread (or an
// admin endpoint) reads it back out via Snapshot.
type Recorder interface {
	RecordHits(count uint32)
	RecordMisses(count uint32)
	RecordLoadSuccess(loadTimeNanos uint64)
	RecordLoadFailure(loadTimeNanos uint64)
	RecordEviction(weight uint32, cause RemovalCause)
	Snapshot() Snapshot
}

// Disabled is a Recorder that discards every event; Snapshot always reports
// all-zero counters.
type Disabled struct{}

var _ Recorder = Disabled{}

func (Disabled) RecordHits(uint32)                   {}
func (Disabled) RecordMisses(uint32)                 {}
func (Disabled) RecordLoadSuccess(uint64)            {}
func (Disabled) RecordLoadFailure(uint64)            {}
func (Disabled) RecordEviction(uint32, RemovalCause) {}
func (Disabled) Snapshot() Snapshot                  { return Snapshot{} }

// Concurrent is a Recorder backed by plain atomics with CAS-loop saturating
// arithmetic. It is safe for concurrent use by many goroutines but, being a
// single set of counters, every writer contends on the same cache lines;
// Striped exists to spread that contention.
type Concurrent struct {
	hitCount           atomic.Uint64
	missCount          atomic.Uint64
	loadSuccessCount   atomic.Uint64
	loadFailureCount   atomic.Uint64
	totalLoadTimeNanos atomic.Uint64
	evictionCount      atomic.Uint64
	evictionWeight     atomic.Uint64
}

var _ Recorder = (*Concurrent)(nil)

// NewConcurrent returns a zeroed Concurrent recorder.
func NewConcurrent() *Concurrent {
	return &Concurrent{}
}

func (c *Concurrent) RecordHits(count uint32) {
	saturatingAddAtomic(&c.hitCount, uint64(count))
}

func (c *Concurrent) RecordMisses(count uint32) {
	saturatingAddAtomic(&c.missCount, uint64(count))
}

func (c *Concurrent) RecordLoadSuccess(loadTimeNanos uint64) {
	saturatingAddAtomic(&c.loadSuccessCount, 1)
	saturatingAddAtomic(&c.totalLoadTimeNanos, loadTimeNanos)
}

func (c *Concurrent) RecordLoadFailure(loadTimeNanos uint64) {
	saturatingAddAtomic(&c.loadFailureCount, 1)
	saturatingAddAtomic(&c.totalLoadTimeNanos, loadTimeNanos)
}

// RecordEviction increments eviction_count/eviction_weight only when cause is
// Expired or Size.
func (c *Concurrent) RecordEviction(weight uint32, cause RemovalCause) {
	if !cause.countsTowardEviction() {
		return
	}
	saturatingAddAtomic(&c.evictionCount, 1)
	saturatingAddAtomic(&c.evictionWeight, uint64(weight))
}

func (c *Concurrent) Snapshot() Snapshot {
	return Snapshot{
		HitCount:           c.hitCount.Load(),
		MissCount:          c.missCount.Load(),
		LoadSuccessCount:   c.loadSuccessCount.Load(),
		LoadFailureCount:   c.loadFailureCount.Load(),
		TotalLoadTimeNanos: c.totalLoadTimeNanos.Load(),
		EvictionCount:      c.evictionCount.Load(),
		EvictionWeight:     c.evictionWeight.Load(),
	}
}

// saturatingAddAtomic adds value to counter via a compare-and-swap retry
// loop, clamping at uint64 max instead of wrapping.
func saturatingAddAtomic(counter *atomic.Uint64, value uint64) {
	for {
		v0 := counter.Load()
		v1 := saturatingAdd(v0, value)
		if counter.CompareAndSwap(v0, v1) {
			return
		}
	}
}
