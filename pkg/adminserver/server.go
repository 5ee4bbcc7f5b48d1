// Package adminserver exposes a live *wheel.Wheel and stats.Recorder over the
// Redis wire protocol, for interactively driving and observing a wheel: a
// RESP server built on tidwall/redcon, a small command-to-output
// translation, and a context that tears the server down on cancellation. It
// carries no GET, SET, or DEL against a key/value store — those belong to
// the cache map, not here.
package adminserver

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/redcon"

	"github.com/nobletooth/chronowheel/pkg/clock"
	"github.com/nobletooth/chronowheel/pkg/entryinfo"
	"github.com/nobletooth/chronowheel/pkg/stats"
	"github.com/nobletooth/chronowheel/pkg/wheel"
)

var address = flag.String("admin_address", "0.0.0.0:6390", "The ip:port to listen on for the admin RESP protocol.")

// command is the parsed shape of one inbound RESP command.
type command struct {
	name string
	args [][]byte
}

// output is a small closed set of ways to respond, translated into redcon
// writes at the call site.
type output struct {
	closeConnection bool
	err             *string
	writeInt        *int
	writeBytes      []byte
}

func writeString(s string) output       { return output{writeBytes: []byte(s)} }
func writeInt(i int) output             { return output{writeInt: &i} }
func writeError(err error) output       { msg := "ERR " + err.Error(); return output{err: &msg} }
func closeConnection(msg string) output { return output{writeBytes: []byte(msg), closeConnection: true} }

// Server is a RESP server exposing three admin commands against a live
// wheel/recorder pair:
//
//   - STATS                  returns the recorder's snapshot as a bulk string
//   - ADVANCE <nanos>         advances the clock and the wheel, counting and
//     recording an Expired eviction for every newly-expired entry
//   - SCHEDULE <key> <nanos>  schedules a new entry with a deadline that many
//     nanoseconds from the current time
//
// A Server holds no per-connection state of its own; redcon supplies one
// handler invocation per inbound command.
type Server struct {
	wheel    *wheel.Wheel
	clock    *clock.Mock
	recorder stats.Recorder
}

// NewServer constructs a Server. The admin protocol only makes sense against
// a clock.Mock: ADVANCE is how an operator (or a test harness) drives time
// forward explicitly.
func NewServer(w *wheel.Wheel, c *clock.Mock, recorder stats.Recorder) *Server {
	return &Server{wheel: w, clock: c, recorder: recorder}
}

func (s *Server) handle(cmd command) output {
	switch cmd.name {
	case "PING":
		return writeString("PONG")
	case "QUIT":
		return closeConnection("OK")
	case "STATS":
		return s.handleStats(cmd)
	case "ADVANCE":
		return s.handleAdvance(cmd)
	case "SCHEDULE":
		return s.handleSchedule(cmd)
	default:
		return writeError(fmt.Errorf("unknown command '%s'", cmd.name))
	}
}

func (s *Server) handleStats(cmd command) output {
	if len(cmd.args) != 0 {
		return writeError(errors.New("wrong number of arguments for 'STATS' command"))
	}
	snap := s.recorder.Snapshot()
	return writeString(fmt.Sprintf(
		"hit_count=%d miss_count=%d hit_rate=%.4f load_success_count=%d load_failure_count=%d "+
			"eviction_count=%d eviction_weight=%d",
		snap.HitCount, snap.MissCount, snap.HitRate(), snap.LoadSuccessCount, snap.LoadFailureCount,
		snap.EvictionCount, snap.EvictionWeight))
}

func (s *Server) handleAdvance(cmd command) output {
	if len(cmd.args) != 1 {
		return writeError(errors.New("wrong number of arguments for 'ADVANCE' command"))
	}
	nanos, err := strconv.ParseInt(string(cmd.args[0]), 10, 64)
	if err != nil || nanos < 0 {
		return writeError(fmt.Errorf("invalid nanosecond duration: %s", cmd.args[0]))
	}

	now := s.clock.Advance(time.Duration(nanos))
	it := s.wheel.Advance(now)
	defer it.Close()

	expiredCount := 0
	for {
		entry, ok := it.Next()
		if !ok {
			break
		}
		s.recorder.RecordEviction(1, stats.Expired)
		expiredCount++
		_ = entry // the cache map's own eviction path owns removing the value.
	}
	return writeInt(expiredCount)
}

func (s *Server) handleSchedule(cmd command) output {
	if len(cmd.args) != 2 {
		return writeError(errors.New("wrong number of arguments for 'SCHEDULE' command"))
	}
	key := string(cmd.args[0])
	nanos, err := strconv.ParseInt(string(cmd.args[1]), 10, 64)
	if err != nil || nanos < 0 {
		return writeError(fmt.Errorf("invalid ttl nanoseconds: %s", cmd.args[1]))
	}

	entry := entryinfo.NewWithDeadline(key, s.clock.Now().Add(time.Duration(nanos)))
	if _, ok := s.wheel.Schedule(entry); !ok {
		return writeError(errors.New("entry has no deadline"))
	}
	return writeString("OK")
}

// Run starts listening and blocks until ctx is cancelled or the server fails.
func (s *Server) Run(ctx context.Context) error {
	if *address == "" {
		return errors.New("expected a non-empty --admin_address flag")
	}

	srv := redcon.NewServerNetwork("tcp", *address,
		func(conn redcon.Conn, cmd redcon.Command) {
			slog.Debug("handling admin command", "cmd", string(cmd.Raw))
			parsed := command{
				name: strings.ToUpper(string(cmd.Args[0])),
				args: cmd.Args[1:],
			}
			out := s.handle(parsed)
			switch {
			case out.closeConnection:
				conn.WriteBulk(out.writeBytes)
				if err := conn.Close(); err != nil {
					slog.Error("failed to close admin connection", "error", err)
				}
			case out.err != nil:
				conn.WriteError(*out.err)
			case out.writeInt != nil:
				conn.WriteInt(*out.writeInt)
			default:
				conn.WriteBulk(out.writeBytes)
			}
		},
		func(conn redcon.Conn) bool {
			slog.Info("accepting admin connection", "addr", conn.NetConn().RemoteAddr().String())
			return true
		},
		func(conn redcon.Conn, err error) {},
	)

	errSignal := make(chan error, 1)
	go func() {
		slog.Info("starting admin server", "address", *address)
		if err := srv.ListenAndServe(); err != nil {
			errSignal <- err
		}
		close(errSignal)
	}()

	select {
	case <-ctx.Done():
		slog.Info("admin server context cancelled", "err", ctx.Err())
		return srv.Close()
	case err := <-errSignal:
		return fmt.Errorf("admin server stopped unexpectedly: %w", err)
	}
}
