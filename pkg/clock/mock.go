package clock

import (
	"sync/atomic"
	"time"
)

// Mock is a Clock whose Now() is advanced explicitly by tests or an
// operator, rather than tracking wall-clock time.
type Mock struct {
	now atomic.Int64
}

// NewMock returns a Mock clock starting at the given Instant.
func NewMock(start Instant) *Mock {
	m := &Mock{}
	m.now.Store(int64(start))
	return m
}

// Now returns the current mocked instant.
func (m *Mock) Now() Instant {
	return Instant(m.now.Load())
}

// Advance moves the mocked clock forward by d and returns the new Instant.
// d must be non-negative; the wheel never needs to rewind real time.
func (m *Mock) Advance(d time.Duration) Instant {
	return Instant(m.now.Add(int64(d)))
}

var _ Clock = (*Mock)(nil)
