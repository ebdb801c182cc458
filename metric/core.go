package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains worker-level metrics shared by every engine.
type Metrics struct {
	WorkerStatus       *prometheus.GaugeVec
	TuplesReceived     *prometheus.CounterVec
	TuplesEmitted      *prometheus.CounterVec
	AcksTotal          *prometheus.CounterVec
	FailsTotal         *prometheus.CounterVec
	ProcessingDuration *prometheus.HistogramVec
	ErrorsTotal        *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all worker metrics
func NewMetrics() *Metrics {
	return &Metrics{
		WorkerStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "streamparse",
				Subsystem: "worker",
				Name:      "status",
				Help:      "Worker status (0=stopped, 1=running, 2=failed)",
			},
			[]string{"worker"},
		),

		TuplesReceived: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "streamparse",
				Subsystem: "tuples",
				Name:      "received_total",
				Help:      "Total number of tuples read from the orchestrator",
			},
			[]string{"worker"},
		),

		TuplesEmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "streamparse",
				Subsystem: "tuples",
				Name:      "emitted_total",
				Help:      "Total number of tuples emitted downstream",
			},
			[]string{"worker"},
		),

		AcksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "streamparse",
				Subsystem: "tuples",
				Name:      "acked_total",
				Help:      "Total number of tuples acknowledged",
			},
			[]string{"worker"},
		),

		FailsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "streamparse",
				Subsystem: "tuples",
				Name:      "failed_total",
				Help:      "Total number of tuples failed",
			},
			[]string{"worker"},
		),

		ProcessingDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "streamparse",
				Subsystem: "processing",
				Name:      "duration_seconds",
				Help:      "Tuple or batch processing duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"worker", "operation"},
		),

		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "streamparse",
				Subsystem: "errors",
				Name:      "total",
				Help:      "Total number of errors",
			},
			[]string{"worker", "class"},
		),
	}
}

// RecordWorkerStatus updates the worker status metric
func (c *Metrics) RecordWorkerStatus(worker string, status int) {
	c.WorkerStatus.WithLabelValues(worker).Set(float64(status))
}

// RecordTupleReceived increments the received tuple counter
func (c *Metrics) RecordTupleReceived(worker string) {
	c.TuplesReceived.WithLabelValues(worker).Inc()
}

// RecordTupleEmitted adds to the emitted tuple counter
func (c *Metrics) RecordTupleEmitted(worker string, n int) {
	c.TuplesEmitted.WithLabelValues(worker).Add(float64(n))
}

// RecordAck increments the ack counter
func (c *Metrics) RecordAck(worker string) {
	c.AcksTotal.WithLabelValues(worker).Inc()
}

// RecordFail increments the fail counter
func (c *Metrics) RecordFail(worker string) {
	c.FailsTotal.WithLabelValues(worker).Inc()
}

// RecordProcessingDuration records processing time for an operation
func (c *Metrics) RecordProcessingDuration(worker, operation string, duration time.Duration) {
	c.ProcessingDuration.WithLabelValues(worker, operation).Observe(duration.Seconds())
}

// RecordError increments the error counter for an error class
func (c *Metrics) RecordError(worker, class string) {
	c.ErrorsTotal.WithLabelValues(worker, class).Inc()
}
