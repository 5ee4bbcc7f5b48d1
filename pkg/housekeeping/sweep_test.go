package housekeeping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nobletooth/chronowheel/pkg/clock"
	"github.com/nobletooth/chronowheel/pkg/entryinfo"
	"github.com/nobletooth/chronowheel/pkg/stats"
	"github.com/nobletooth/chronowheel/pkg/wheel"
)

func TestSweeper_SweepOnceEvictsExpiredEntries(t *testing.T) {
	m := clock.NewMock(0)
	now := m.Advance(10 * time.Second)
	w := wheel.NewWheel(now)

	e1 := entryinfo.NewWithDeadline("k1", now.Add(1*time.Second))
	e2 := entryinfo.NewWithDeadline("k2", now.Add(5*time.Second))
	_, ok := w.Schedule(e1)
	require.True(t, ok)
	_, ok = w.Schedule(e2)
	require.True(t, ok)

	recorder := stats.NewConcurrent()
	var evicted []uint64
	evict := func(entry entryinfo.Info) { evicted = append(evicted, entry.KeyHash()) }

	s := NewSweeper(w, m, recorder, evict, nil, time.Second)
	m.Advance(2 * time.Second)
	s.SweepOnce()

	assert.Equal(t, []uint64{e1.KeyHash()}, evicted)
	assert.Equal(t, uint64(1), recorder.Snapshot().EvictionCount)
}

func TestSweeper_DedupSuppressesReplayedEntries(t *testing.T) {
	m := clock.NewMock(0)
	now := m.Advance(10 * time.Second)
	w := wheel.NewWheel(now)

	e1 := entryinfo.NewWithDeadline("k1", now.Add(1*time.Second))
	e2 := entryinfo.NewWithDeadline("k2", now.Add(1*time.Second))
	w.Schedule(e1)
	w.Schedule(e2)

	now = m.Advance(2 * time.Second)
	it := w.Advance(now)
	first, ok := it.Next()
	require.True(t, ok)
	it.Close() // partial consumption, rolls w.current back.

	dedup := NewDedupFilter(10, 0.01)
	dedup.Mark(first.KeyHash())

	recorder := stats.NewConcurrent()
	var evicted []uint64
	evict := func(entry entryinfo.Info) { evicted = append(evicted, entry.KeyHash()) }

	s := NewSweeper(w, m, recorder, evict, dedup, time.Second)
	s.SweepOnce()

	assert.NotContains(t, evicted, first.KeyHash(), "already-marked entry must be skipped on replay")
	assert.Len(t, evicted, 1)
}
