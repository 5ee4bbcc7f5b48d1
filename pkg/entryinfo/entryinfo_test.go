package entryinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nobletooth/chronowheel/pkg/clock"
)

func TestNew_NoDeadlineByDefault(t *testing.T) {
	e := New("k1")
	_, ok := e.Deadline()
	assert.False(t, ok)
	assert.Equal(t, int64(1), e.RefCount())
}

func TestNewWithDeadline(t *testing.T) {
	e := NewWithDeadline("k1", clock.Instant(100))
	got, ok := e.Deadline()
	assert.True(t, ok)
	assert.Equal(t, clock.Instant(100), got)
}

func TestSetClearDeadline(t *testing.T) {
	e := New("k1")
	e.SetDeadline(clock.Instant(50))
	got, ok := e.Deadline()
	assert.True(t, ok)
	assert.Equal(t, clock.Instant(50), got)

	e.ClearDeadline()
	_, ok = e.Deadline()
	assert.False(t, ok)
}

func TestKeyHash_StableAndDistinct(t *testing.T) {
	a := New("same-key")
	b := New("same-key")
	c := New("different-key")

	assert.Equal(t, a.KeyHash(), b.KeyHash())
	assert.NotEqual(t, a.KeyHash(), c.KeyHash())
}

func TestRetainRelease(t *testing.T) {
	e := New("k1")
	e.Retain()
	assert.Equal(t, int64(2), e.RefCount())
	assert.False(t, e.Release())
	assert.True(t, e.Release())
}
