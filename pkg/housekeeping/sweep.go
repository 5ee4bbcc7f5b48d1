package housekeeping

import (
	"context"
	"log/slog"
	"time"

	"github.com/nobletooth/chronowheel/pkg/clock"
	"github.com/nobletooth/chronowheel/pkg/entryinfo"
	"github.com/nobletooth/chronowheel/pkg/stats"
	"github.com/nobletooth/chronowheel/pkg/wheel"
)

// EvictFunc is called once per entry the wheel reports as expired; the
// caller supplies this to remove the entry from its own cache map. It must
// not call back into the wheel or Sweeper: it runs while the sweep's
// iterator is open, and the wheel's single-writer contract forbids any other
// Wheel call until that iterator is closed.
type EvictFunc func(entryinfo.Info)

// Sweeper periodically advances a *wheel.Wheel to the current time, drains
// the resulting iterator, evicts each yielded entry via EvictFunc, and
// records the eviction in a stats.Recorder: a ticker loop selecting between
// ctx.Done() and the ticker channel, run as a single background goroutine.
type Sweeper struct {
	wheel    *wheel.Wheel
	clock    clock.Clock
	recorder stats.Recorder
	evict    EvictFunc
	dedup    *DedupFilter
	interval time.Duration
}

// NewSweeper constructs a Sweeper. dedup may be nil to disable
// de-duplication of partial-consumption replays; a rolled-back Advance can
// re-yield an entry a previous sweep already started evicting, so
// EvictFunc implementations should be idempotent either way.
func NewSweeper(w *wheel.Wheel, c clock.Clock, recorder stats.Recorder, evict EvictFunc, dedup *DedupFilter, interval time.Duration) *Sweeper {
	return &Sweeper{wheel: w, clock: c, recorder: recorder, evict: evict, dedup: dedup, interval: interval}
}

// Run blocks, ticking every interval until ctx is cancelled. Call it from its
// own goroutine.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce()
		}
	}
}

// SweepOnce performs exactly one advance-and-drain pass: it advances the
// wheel to the clock's current time, drains every expired entry from the
// returned iterator, records each as an Expired eviction, and invokes
// EvictFunc. Once the iterator is fully drained, the dedup filter (if any)
// is cleared. Exported separately from Run so tests can drive sweeps
// deterministically against a clock.Mock without waiting on a ticker.
func (s *Sweeper) SweepOnce() {
	now := s.clock.Now()
	slog.Debug("running timer wheel sweep", "now", now)

	it := s.wheel.Advance(now)
	defer it.Close()

	for {
		entry, ok := it.Next()
		if !ok {
			if s.dedup != nil {
				s.dedup.filter.ClearAll()
			}
			return
		}
		keyHash := entry.KeyHash()
		if s.dedup != nil && s.dedup.SeenBefore(keyHash) {
			continue
		}
		s.recorder.RecordEviction(1, stats.Expired)
		s.evict(entry)
		if s.dedup != nil {
			s.dedup.Mark(keyHash)
		}
	}
}
