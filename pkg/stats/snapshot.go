// Package stats implements the wheel's expiration-accounting subsystem: a
// saturating-arithmetic snapshot of cache hit/miss/load/eviction counters, a
// removal-cause filter so only Expired/Size evictions are counted, and a
// striped recorder to keep concurrent writers off each other's cache lines.
package stats

// RemovalCause classifies why an entry left the cache. Only Expired and Size
// ever increment eviction_count/eviction_weight; Explicit and Replaced
// removals are tracked nowhere.
type RemovalCause int

const (
	// Explicit means the caller invalidated the entry directly.
	Explicit RemovalCause = iota
	// Replaced means the entry was overwritten by a new value for the same key.
	Replaced
	// Size means the entry was evicted to keep the cache within its size bound.
	Size
	// Expired means the entry's deadline was reached and the wheel surfaced it.
	Expired
)

// countsTowardEviction reports whether cause should move eviction_count and
// eviction_weight.
func (c RemovalCause) countsTowardEviction() bool {
	return c == Expired || c == Size
}

func (c RemovalCause) String() string {
	switch c {
	case Explicit:
		return "explicit"
	case Replaced:
		return "replaced"
	case Size:
		return "size"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable point-in-time read of a Recorder's counters, plus
// derived rates computed from them.
type Snapshot struct {
	HitCount           uint64
	MissCount          uint64
	LoadSuccessCount   uint64
	LoadFailureCount   uint64
	TotalLoadTimeNanos uint64
	EvictionCount      uint64
	EvictionWeight     uint64
}

// RequestCount is HitCount + MissCount, saturating.
func (s Snapshot) RequestCount() uint64 {
	return saturatingAdd(s.HitCount, s.MissCount)
}

// HitRate is HitCount / RequestCount, or 1.0 if there have been no requests
// yet (an empty cache has a perfect, if vacuous, hit rate).
func (s Snapshot) HitRate() float64 {
	req := s.RequestCount()
	if req == 0 {
		return 1.0
	}
	return float64(s.HitCount) / float64(req)
}

// MissRate is MissCount / RequestCount, or 0.0 if there have been no requests
// yet.
func (s Snapshot) MissRate() float64 {
	req := s.RequestCount()
	if req == 0 {
		return 0.0
	}
	return float64(s.MissCount) / float64(req)
}

// LoadCount is LoadSuccessCount + LoadFailureCount, saturating.
func (s Snapshot) LoadCount() uint64 {
	return saturatingAdd(s.LoadSuccessCount, s.LoadFailureCount)
}

// LoadFailureRate is LoadFailureCount / LoadCount, or 0.0 if nothing has been
// loaded yet.
func (s Snapshot) LoadFailureRate() float64 {
	load := s.LoadCount()
	if load == 0 {
		return 0.0
	}
	return float64(s.LoadFailureCount) / float64(load)
}

// AverageLoadPenaltyNanos is TotalLoadTimeNanos / LoadCount, or 0.0 if nothing
// has been loaded yet.
func (s Snapshot) AverageLoadPenaltyNanos() float64 {
	load := s.LoadCount()
	if load == 0 {
		return 0.0
	}
	return float64(s.TotalLoadTimeNanos) / float64(load)
}

// Add returns the element-wise saturating sum of s and other.
func (s Snapshot) Add(other Snapshot) Snapshot {
	return Snapshot{
		HitCount:           saturatingAdd(s.HitCount, other.HitCount),
		MissCount:          saturatingAdd(s.MissCount, other.MissCount),
		LoadSuccessCount:   saturatingAdd(s.LoadSuccessCount, other.LoadSuccessCount),
		LoadFailureCount:   saturatingAdd(s.LoadFailureCount, other.LoadFailureCount),
		TotalLoadTimeNanos: saturatingAdd(s.TotalLoadTimeNanos, other.TotalLoadTimeNanos),
		EvictionCount:      saturatingAdd(s.EvictionCount, other.EvictionCount),
		EvictionWeight:     saturatingAdd(s.EvictionWeight, other.EvictionWeight),
	}
}

// Sub returns the element-wise saturating difference of s and other.
func (s Snapshot) Sub(other Snapshot) Snapshot {
	return Snapshot{
		HitCount:           saturatingSub(s.HitCount, other.HitCount),
		MissCount:          saturatingSub(s.MissCount, other.MissCount),
		LoadSuccessCount:   saturatingSub(s.LoadSuccessCount, other.LoadSuccessCount),
		LoadFailureCount:   saturatingSub(s.LoadFailureCount, other.LoadFailureCount),
		TotalLoadTimeNanos: saturatingSub(s.TotalLoadTimeNanos, other.TotalLoadTimeNanos),
		EvictionCount:      saturatingSub(s.EvictionCount, other.EvictionCount),
		EvictionWeight:     saturatingSub(s.EvictionWeight, other.EvictionWeight),
	}
}

func saturatingAdd(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return ^uint64(0)
	}
	return sum
}

func saturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
