// Package metrics keeps counters and gauges describing a monitoring run in a
// private Prometheus registry, and can export them in the node_exporter
// textfile format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "perflog"

// Summary is a plain-value view of the run counters.
type Summary struct {
	Rows     uint64
	Failures uint64
}

// RunStats holds the metrics of one run.
type RunStats struct {
	registry   *prometheus.Registry
	ticks      *prometheus.CounterVec
	rows       prometheus.Counter
	cpu        prometheus.Gauge
	memory     prometheus.Gauge
	lastSample prometheus.Gauge
}

// NewRunStats creates the metrics of a run in a fresh registry.
func NewRunStats() *RunStats {
	s := &RunStats{
		registry: prometheus.NewRegistry(),
		ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Sampling ticks by outcome.",
		}, []string{"result"}),
		rows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_written_total",
			Help:      "Data rows appended to the log file.",
		}),
		cpu: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cpu_usage_percent",
			Help:      "Last sampled system-wide CPU utilization.",
		}),
		memory: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "memory_usage_percent",
			Help:      "Last sampled share of physical memory in use.",
		}),
		lastSample: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_sample_timestamp_seconds",
			Help:      "Unix time of the last written row.",
		}),
	}

	mc := NewMemoryCollector()
	heap := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "heap_alloc_bytes",
		Help:      "Heap bytes allocated by perflog itself.",
	}, func() float64 { return float64(mc.Snapshot().HeapAlloc) })

	s.registry.MustRegister(s.ticks, s.rows, s.cpu, s.memory, s.lastSample, heap)
	// Pre-create both outcomes so they export as 0 before the first event.
	s.ticks.WithLabelValues("ok")
	s.ticks.WithLabelValues("error")
	return s
}

// Registry exposes the underlying registry as a Gatherer.
func (s *RunStats) Registry() prometheus.Gatherer { return s.registry }

// RecordSample records a written row.
func (s *RunStats) RecordSample(at time.Time, cpuPercent, memPercent float64) {
	s.ticks.WithLabelValues("ok").Inc()
	s.rows.Inc()
	s.cpu.Set(cpuPercent)
	s.memory.Set(memPercent)
	s.lastSample.Set(float64(at.Unix()))
}

// RecordFailure records a tick lost to a transient collection error.
func (s *RunStats) RecordFailure() {
	s.ticks.WithLabelValues("error").Inc()
}

// Summary returns the current counter values.
func (s *RunStats) Summary() Summary {
	return Summary{
		Rows:     uint64(counterValue(s.rows)),
		Failures: uint64(counterValue(s.ticks.WithLabelValues("error"))),
	}
}

// WriteTextfile atomically writes all metrics to path in the text
// exposition format read by node_exporter's textfile collector.
func (s *RunStats) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, s.registry)
}

func counterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}
