package signet

import "sync/atomic"

// MetricID addresses one process-wide counter. Counters are lock-free and
// shared by every Signer and Verifier in the process, like the worker pool.
type MetricID uint16

const (
	// MetricSignSuccess counts tokens produced.
	MetricSignSuccess MetricID = iota
	// MetricSignFailure counts failed sign operations.
	MetricSignFailure
	// MetricVerifySuccess counts tokens verified.
	MetricVerifySuccess
	// MetricVerifyFailure counts failed verify operations, whatever the kind.
	MetricVerifyFailure
	// MetricSecretCacheHit counts resolver-cache hits.
	MetricSecretCacheHit
	// MetricSecretCacheMiss counts resolver-cache misses.
	MetricSecretCacheMiss
	// MetricSecretResolved counts actual resolver callback invocations.
	MetricSecretResolved
	// MetricOffloadedOps counts operations dispatched to the worker pool.
	MetricOffloadedOps

	metricCount
)

var metricNames = [metricCount]string{
	MetricSignSuccess:     "signet_sign_success_total",
	MetricSignFailure:     "signet_sign_failure_total",
	MetricVerifySuccess:   "signet_verify_success_total",
	MetricVerifyFailure:   "signet_verify_failure_total",
	MetricSecretCacheHit:  "signet_secret_cache_hit_total",
	MetricSecretCacheMiss: "signet_secret_cache_miss_total",
	MetricSecretResolved:  "signet_secret_resolved_total",
	MetricOffloadedOps:    "signet_offloaded_ops_total",
}

var metricCounters [metricCount]atomic.Uint64

func metricAdd(id MetricID, delta uint64) {
	metricCounters[id].Add(delta)
}

// MetricsSnapshot is a point-in-time copy of the process counters.
type MetricsSnapshot struct {
	Counters [metricCount]uint64
}

// Get returns the snapshot value for id.
func (s MetricsSnapshot) Get(id MetricID) uint64 {
	if int(id) >= len(s.Counters) {
		return 0
	}
	return s.Counters[id]
}

// SnapshotMetrics copies the current counter values. Individual counters are
// read atomically; the snapshot as a whole is not a consistent cut.
func SnapshotMetrics() MetricsSnapshot {
	var snap MetricsSnapshot
	for i := range metricCounters {
		snap.Counters[i] = metricCounters[i].Load()
	}
	return snap
}

// MetricName returns the exporter-facing name for id.
func MetricName(id MetricID) string {
	if int(id) >= len(metricNames) {
		return ""
	}
	return metricNames[id]
}

// MetricIDs lists every counter, for exporters that register all of them.
func MetricIDs() []MetricID {
	ids := make([]MetricID, metricCount)
	for i := range ids {
		ids[i] = MetricID(i)
	}
	return ids
}
