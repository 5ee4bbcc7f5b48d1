package housekeeping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupFilter_MarkAndSeenBefore(t *testing.T) {
	d := NewDedupFilter(100, 0.01)
	assert.False(t, d.SeenBefore(42))
	d.Mark(42)
	assert.True(t, d.SeenBefore(42))
	assert.False(t, d.SeenBefore(7))
}

func TestNewDedupFilter_ClipsInvalidRate(t *testing.T) {
	// Must not panic on an out-of-range rate; falls back to the default.
	assert.NotPanics(t, func() {
		NewDedupFilter(10, 0)
		NewDedupFilter(10, 1.5)
	})
}
