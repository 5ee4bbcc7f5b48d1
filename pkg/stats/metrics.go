package stats

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Exported counters: a CounterVec for the hit/miss split, and separate
// counters for evictions so the /metrics endpoint reflects live totals
// without anyone having to poll a Recorder.Snapshot to get them.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chronowheel_cache_requests_total",
		Help: "Total number of cache lookups, partitioned by hit/miss.",
	}, []string{"result"})

	loadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chronowheel_cache_loads_total",
		Help: "Total number of get_with loads, partitioned by outcome.",
	}, []string{"outcome"})

	loadTimeNanosTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chronowheel_cache_load_time_nanos_total",
		Help: "Cumulative nanoseconds spent in get_with loader calls.",
	})

	evictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chronowheel_cache_evictions_total",
		Help: "Total number of evictions counted toward stats, partitioned by cause.",
	}, []string{"cause"})

	evictionWeightTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chronowheel_cache_eviction_weight_total",
		Help: "Cumulative weight of entries counted as evicted.",
	})
)

// InstrumentedRecorder wraps a Recorder and mirrors every recorded event into
// the package's Prometheus counters, so a process can expose /metrics
// without its own Snapshot-polling loop. Wrap a Striped or Concurrent
// recorder with it at construction time; Snapshot/the local counters remain
// the source of truth, Prometheus only observes.
type InstrumentedRecorder struct {
	Recorder
}

var _ Recorder = InstrumentedRecorder{}

// NewInstrumented wraps r so every recorded event is also exported as a
// Prometheus metric.
func NewInstrumented(r Recorder) InstrumentedRecorder {
	return InstrumentedRecorder{Recorder: r}
}

func (i InstrumentedRecorder) RecordHits(count uint32) {
	requestsTotal.WithLabelValues("hit").Add(float64(count))
	i.Recorder.RecordHits(count)
}

func (i InstrumentedRecorder) RecordMisses(count uint32) {
	requestsTotal.WithLabelValues("miss").Add(float64(count))
	i.Recorder.RecordMisses(count)
}

func (i InstrumentedRecorder) RecordLoadSuccess(loadTimeNanos uint64) {
	loadsTotal.WithLabelValues("success").Inc()
	loadTimeNanosTotal.Add(float64(loadTimeNanos))
	i.Recorder.RecordLoadSuccess(loadTimeNanos)
}

func (i InstrumentedRecorder) RecordLoadFailure(loadTimeNanos uint64) {
	loadsTotal.WithLabelValues("failure").Inc()
	loadTimeNanosTotal.Add(float64(loadTimeNanos))
	i.Recorder.RecordLoadFailure(loadTimeNanos)
}

func (i InstrumentedRecorder) RecordEviction(weight uint32, cause RemovalCause) {
	if cause.countsTowardEviction() {
		evictionsTotal.WithLabelValues(cause.String()).Inc()
		evictionWeightTotal.Add(float64(weight))
	}
	i.Recorder.RecordEviction(weight, cause)
}
