package wheelutil

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	promclient "github.com/prometheus/client_model/go"
)

// Module names one of the packages that can raise an invariant, kept as a
// closed set so a typo in a call site doesn't silently fragment the metric's
// label cardinality.
type Module string

const (
	ModuleWheel        Module = "wheel"
	ModuleStats        Module = "stats"
	ModuleHousekeeping Module = "housekeeping"
	ModuleAdminServer  Module = "adminserver"
	ModuleLog          Module = "log"
)

var invariantsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "invariants_total",
	Help: "The total number of invariant violations",
}, []string{
	"module", // The module in which this invariant occurred.
	"type",   // The type of the invariant that occurred.
})

// RaiseInvariant records that a condition the caller believed could never be
// false turned out to be false: it increments a counter scoped by module and
// invariantType, logs msg at error level, and panics only when IsTestMode, so
// a violation surfaces loudly in tests but degrades to telemetry in
// production. The caller is still responsible for handling the erroneous
// case afterward (an early return, a clamp, a fallback) — RaiseInvariant only
// records that it happened.
func RaiseInvariant(module Module, invariantType, msg string, args ...any) {
	invariantsMetric.WithLabelValues(string(module), invariantType).Inc()
	slog.With("invariant", invariantType, "module", string(module)).Error(msg, args...)
	if IsTestMode {
		panic("invariant violated: " + invariantType)
	}
}

// GetMetricValue returns the current value of the invariants_total counter
// for the given module and invariantType.
func GetMetricValue(module Module, invariantType string) int {
	var metric = &promclient.Metric{}
	if err := invariantsMetric.WithLabelValues(string(module), invariantType).Write(metric); err != nil {
		slog.Error(err.Error())
		return 0
	}
	return int(metric.Counter.GetValue())
}
