package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMock_AdvanceAndNow(t *testing.T) {
	m := NewMock(0)
	assert.Equal(t, Instant(0), m.Now())

	got := m.Advance(5 * time.Second)
	assert.Equal(t, Instant(5*time.Second), got)
	assert.Equal(t, Instant(5*time.Second), m.Now())

	m.Advance(500 * time.Millisecond)
	assert.Equal(t, Instant(5500*time.Millisecond), m.Now())
}

func TestInstant_SubAddBeforeAfter(t *testing.T) {
	a := Instant(10)
	b := Instant(25)

	assert.Equal(t, time.Duration(15), b.Sub(a))
	assert.Equal(t, time.Duration(-15), a.Sub(b))
	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.True(t, b.After(a))
	assert.Equal(t, b, a.Add(15))
}

func TestSystemClock_Monotonic(t *testing.T) {
	c := NewSystemClock()
	first := c.Now()
	time.Sleep(time.Millisecond)
	second := c.Now()
	assert.True(t, second.After(first) || second == first)
}
