package bolt

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/saeedesfandi/streamparse/metric"
)

// engineMetrics holds per-engine Prometheus metrics. A nil receiver is
// valid everywhere: engines constructed without a registry record
// nothing.
type engineMetrics struct {
	worker string
	core   *metric.Metrics

	batchSize     prometheus.Histogram
	flushDuration prometheus.Histogram
	pendingGroups prometheus.Gauge
}

// newEngineMetrics creates and registers engine metrics. Returns nil when
// no registry is provided.
func newEngineMetrics(registry *metric.MetricsRegistry, worker string) *engineMetrics {
	if registry == nil {
		return nil
	}

	m := &engineMetrics{
		worker: worker,
		core:   registry.CoreMetrics(),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "streamparse",
			Subsystem: "batch",
			Name:      "size",
			Help:      "Distribution of flushed batch sizes per group",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		flushDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "streamparse",
			Subsystem: "batch",
			Name:      "flush_duration_seconds",
			Help:      "Time spent flushing all pending groups",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		pendingGroups: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "streamparse",
			Subsystem: "batch",
			Name:      "pending_groups",
			Help:      "Number of groups accumulated since the last flush",
		}),
	}

	_ = registry.RegisterHistogram(worker, "batch_size", m.batchSize)
	_ = registry.RegisterHistogram(worker, "flush_duration", m.flushDuration)
	_ = registry.RegisterGauge(worker, "pending_groups", m.pendingGroups)

	return m
}

func (m *engineMetrics) recordStatus(status int) {
	if m == nil {
		return
	}
	m.core.RecordWorkerStatus(m.worker, status)
}

func (m *engineMetrics) recordReceived() {
	if m == nil {
		return
	}
	m.core.RecordTupleReceived(m.worker)
}

func (m *engineMetrics) recordEmitted(n int) {
	if m == nil {
		return
	}
	m.core.RecordTupleEmitted(m.worker, n)
}

func (m *engineMetrics) recordAcked() {
	if m == nil {
		return
	}
	m.core.RecordAck(m.worker)
}

func (m *engineMetrics) recordFailed() {
	if m == nil {
		return
	}
	m.core.RecordFail(m.worker)
}

func (m *engineMetrics) recordDuration(operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.core.RecordProcessingDuration(m.worker, operation, d)
}

func (m *engineMetrics) recordError(class string) {
	if m == nil {
		return
	}
	m.core.RecordError(m.worker, class)
}

func (m *engineMetrics) recordBatch(size int) {
	if m == nil {
		return
	}
	m.batchSize.Observe(float64(size))
}

func (m *engineMetrics) recordFlush(d time.Duration) {
	if m == nil {
		return
	}
	m.flushDuration.Observe(d.Seconds())
}

func (m *engineMetrics) recordPendingGroups(n int) {
	if m == nil {
		return
	}
	m.pendingGroups.Set(float64(n))
}
