package deadline

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nobletooth/chronowheel/pkg/clock"
)

func TestAtomic_DefaultIsUnset(t *testing.T) {
	a := New()
	assert.False(t, a.IsSet())
	_, ok := a.Get()
	assert.False(t, ok)
}

func TestAtomic_SetGetClear(t *testing.T) {
	a := New()
	a.Set(clock.Instant(1234))
	assert.True(t, a.IsSet())

	got, ok := a.Get()
	assert.True(t, ok)
	assert.Equal(t, clock.Instant(1234), got)

	a.Clear()
	assert.False(t, a.IsSet())
	_, ok = a.Get()
	assert.False(t, ok)
}

func TestNewWithDeadline(t *testing.T) {
	a := NewWithDeadline(clock.Instant(42))
	got, ok := a.Get()
	assert.True(t, ok)
	assert.Equal(t, clock.Instant(42), got)
}

func TestAtomic_RoundTripsZero(t *testing.T) {
	// Zero is a legitimate instant (the wheel's origin); it must not be
	// confused with the "unset" sentinel.
	a := New()
	a.Set(clock.Instant(0))
	got, ok := a.Get()
	assert.True(t, ok)
	assert.Equal(t, clock.Instant(0), got)
}

func TestAtomic_ConcurrentReadWrite(t *testing.T) {
	a := New()
	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			a.Set(clock.Instant(v))
		}(i)
	}
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.Get()
			a.IsSet()
		}()
	}
	wg.Wait()
	// No assertion on the final value (last-writer-wins is explicitly
	// unspecified); this test only needs to pass the race detector.
	_, _ = a.Get()
}
