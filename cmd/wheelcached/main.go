// Spins up a standalone timer wheel behind the admin RESP protocol, for
// manually driving and observing Schedule/Advance/stats over redis-cli.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/nobletooth/chronowheel/pkg/adminserver"
	"github.com/nobletooth/chronowheel/pkg/clock"
	"github.com/nobletooth/chronowheel/pkg/entryinfo"
	"github.com/nobletooth/chronowheel/pkg/housekeeping"
	"github.com/nobletooth/chronowheel/pkg/stats"
	"github.com/nobletooth/chronowheel/pkg/wheel"
	"github.com/nobletooth/chronowheel/pkg/wheelutil"
)

var printVersion = flag.Bool("print_version", false, "Print the version and exit.")
var sweepInterval = flag.Duration("sweep_interval", time.Second,
	"How often the housekeeping sweeper advances the wheel on its own, independent of ADVANCE commands.")

func main() {
	flag.Parse()
	wheelutil.InitLogging()

	if *printVersion {
		slog.Info(wheelutil.ServiceName+" build info.", "version", wheelutil.Version, "commit", wheelutil.Commit,
			"build", wheelutil.BuildTime)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, os.Kill)

	go func() { // Listen for OS interrupts in the background.
		sig := <-signals
		slog.Info("Received termination signal, cancelling server context.", "signal", sig)
		cancel()
	}()

	mockClock := clock.NewMock(0)
	w := wheel.NewWheel(mockClock.Now())
	recorder := stats.NewInstrumented(stats.NewStriped())

	sweeper := housekeeping.NewSweeper(w, mockClock, recorder, func(entry entryinfo.Info) {
		slog.Debug("entry expired", "keyHash", entry.KeyHash())
	}, housekeeping.NewDedupFilter(1024, 0.01), *sweepInterval)
	go sweeper.Run(ctx)

	srv := adminserver.NewServer(w, mockClock, recorder)
	if err := srv.Run(ctx); err != nil {
		slog.Error("chronowheel admin server stopped.", "err", err)
		os.Exit(1)
	}
}
