// Package wheelutil collects the ambient concerns every binary in this
// module needs regardless of which domain package it drives: build/version
// metadata, slog setup, and the invariant-as-telemetry helper that the wheel
// and the log setup use to report conditions that should never happen
// without crashing a running server over it.
package wheelutil

import (
	"log/slog"
	"strconv"
	"time"
)

// ServiceName identifies this module in logs and metrics emitted by its
// binaries.
const ServiceName = "chronowheel"

var (
	TestMode   string // Should be true when running tests.
	IsTestMode bool
	Version    string
	Commit     string
	BuildTime  string
	StartTime  time.Time
)

func init() {
	StartTime = time.Now()

	// If build info is not set, make that clear.
	if Version == "" {
		Version = "v0.0.0-unknown"
	}
	if Commit == "" {
		Commit = "unknown"
	}
	if BuildTime == "" {
		BuildTime = "unknown"
	}
	if len(TestMode) > 0 {
		if isTestMode, err := strconv.ParseBool(TestMode); err == nil {
			IsTestMode = isTestMode
		} else {
			slog.Warn("Failed to parse TestMode build flag, defaulting to false", "error", err)
		}
	}
}
