package metric

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/saeedesfandi/streamparse/errors"
)

// MetricsRegistrar defines the interface for registering worker-specific metrics
type MetricsRegistrar interface {
	RegisterCounter(workerName, metricName string, counter prometheus.Counter) error
	RegisterGauge(workerName, metricName string, gauge prometheus.Gauge) error
	RegisterHistogram(workerName, metricName string, histogram prometheus.Histogram) error
	Unregister(workerName, metricName string) bool
}

// MetricsRegistry manages the registration and lifecycle of metrics
type MetricsRegistry struct {
	prometheusRegistry *prometheus.Registry
	Metrics            *Metrics
	registeredMetrics  map[string]prometheus.Collector
	mu                 sync.RWMutex
}

// NewMetricsRegistry creates a new metrics registry with core worker metrics
func NewMetricsRegistry() *MetricsRegistry {
	prometheusRegistry := prometheus.NewRegistry()

	registry := &MetricsRegistry{
		prometheusRegistry: prometheusRegistry,
		registeredMetrics:  make(map[string]prometheus.Collector),
	}

	registry.Metrics = NewMetrics()
	registry.registerCoreMetrics()

	// Add Go runtime metrics
	registry.prometheusRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return registry
}

func (r *MetricsRegistry) registerCoreMetrics() {
	r.prometheusRegistry.MustRegister(
		r.Metrics.WorkerStatus,
		r.Metrics.TuplesReceived,
		r.Metrics.TuplesEmitted,
		r.Metrics.AcksTotal,
		r.Metrics.FailsTotal,
		r.Metrics.ProcessingDuration,
		r.Metrics.ErrorsTotal,
	)
}

// PrometheusRegistry returns the underlying Prometheus registry
func (r *MetricsRegistry) PrometheusRegistry() *prometheus.Registry {
	return r.prometheusRegistry
}

// CoreMetrics returns the core worker metrics
func (r *MetricsRegistry) CoreMetrics() *Metrics {
	return r.Metrics
}

func (r *MetricsRegistry) register(workerName, metricName string, collector prometheus.Collector, op string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fmt.Sprintf("%s.%s", workerName, metricName)

	if _, exists := r.registeredMetrics[key]; exists {
		return errors.WrapInvalidArgument(
			fmt.Errorf("metric %s already registered for worker %s", metricName, workerName),
			"MetricsRegistry", op, "duplicate metric registration")
	}

	if err := r.prometheusRegistry.Register(collector); err != nil {
		return errors.WrapInvalidArgument(err, "MetricsRegistry", op, "prometheus registration")
	}

	r.registeredMetrics[key] = collector
	return nil
}

// RegisterCounter registers a counter metric for a worker
func (r *MetricsRegistry) RegisterCounter(workerName, metricName string, counter prometheus.Counter) error {
	return r.register(workerName, metricName, counter, "RegisterCounter")
}

// RegisterGauge registers a gauge metric for a worker
func (r *MetricsRegistry) RegisterGauge(workerName, metricName string, gauge prometheus.Gauge) error {
	return r.register(workerName, metricName, gauge, "RegisterGauge")
}

// RegisterHistogram registers a histogram metric for a worker
func (r *MetricsRegistry) RegisterHistogram(workerName, metricName string, histogram prometheus.Histogram) error {
	return r.register(workerName, metricName, histogram, "RegisterHistogram")
}

// Unregister removes a previously registered metric. Returns true when
// the metric existed.
func (r *MetricsRegistry) Unregister(workerName, metricName string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fmt.Sprintf("%s.%s", workerName, metricName)
	collector, exists := r.registeredMetrics[key]
	if !exists {
		return false
	}

	delete(r.registeredMetrics, key)
	return r.prometheusRegistry.Unregister(collector)
}
