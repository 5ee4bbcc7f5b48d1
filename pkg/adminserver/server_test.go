package adminserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nobletooth/chronowheel/pkg/clock"
	"github.com/nobletooth/chronowheel/pkg/stats"
	"github.com/nobletooth/chronowheel/pkg/wheel"
)

func newTestServer() (*Server, *clock.Mock, *wheel.Wheel, stats.Recorder) {
	m := clock.NewMock(0)
	now := m.Advance(10 * time.Second)
	w := wheel.NewWheel(now)
	recorder := stats.NewConcurrent()
	return NewServer(w, m, recorder), m, w, recorder
}

func TestServer_Ping(t *testing.T) {
	s, _, _, _ := newTestServer()
	out := s.handle(command{name: "PING"})
	assert.Equal(t, []byte("PONG"), out.writeBytes)
}

func TestServer_ScheduleThenAdvanceEvicts(t *testing.T) {
	s, _, _, _ := newTestServer()

	out := s.handle(command{name: "SCHEDULE", args: [][]byte{[]byte("k1"), []byte("1000000000")}})
	require.Nil(t, out.err)
	assert.Equal(t, []byte("OK"), out.writeBytes)

	out = s.handle(command{name: "ADVANCE", args: [][]byte{[]byte("2000000000")}})
	require.Nil(t, out.err)
	require.NotNil(t, out.writeInt)
	assert.Equal(t, 1, *out.writeInt)
}

func TestServer_AdvanceRecordsEvictionStats(t *testing.T) {
	s, _, _, recorder := newTestServer()
	s.handle(command{name: "SCHEDULE", args: [][]byte{[]byte("k1"), []byte("500000000")}})
	s.handle(command{name: "ADVANCE", args: [][]byte{[]byte("2000000000")}})
	assert.Equal(t, uint64(1), recorder.Snapshot().EvictionCount)
}

func TestServer_Stats(t *testing.T) {
	s, _, _, recorder := newTestServer()
	recorder.RecordHits(3)
	recorder.RecordMisses(1)

	out := s.handle(command{name: "STATS"})
	require.Nil(t, out.err)
	assert.Contains(t, string(out.writeBytes), "hit_count=3")
	assert.Contains(t, string(out.writeBytes), "miss_count=1")
}

func TestServer_UnknownCommand(t *testing.T) {
	s, _, _, _ := newTestServer()
	out := s.handle(command{name: "FROB"})
	require.NotNil(t, out.err)
	assert.Contains(t, *out.err, "unknown command")
}

func TestServer_ScheduleWrongArgCount(t *testing.T) {
	s, _, _, _ := newTestServer()
	out := s.handle(command{name: "SCHEDULE", args: [][]byte{[]byte("k1")}})
	require.NotNil(t, out.err)
}

func TestServer_AdvanceInvalidNanos(t *testing.T) {
	s, _, _, _ := newTestServer()
	out := s.handle(command{name: "ADVANCE", args: [][]byte{[]byte("not-a-number")}})
	require.NotNil(t, out.err)
}

func TestServer_Quit(t *testing.T) {
	s, _, _, _ := newTestServer()
	out := s.handle(command{name: "QUIT"})
	assert.True(t, out.closeConnection)
}
