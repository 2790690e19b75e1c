// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package telemetry exposes the collector's behavior as prometheus
// metrics: how often it runs, how much it reclaims, and where the next
// threshold sits, registered against a caller-supplied registry rather
// than the global default so cmd/lox controls the registry's lifetime.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/loxvm/loxvm/pkg/lox/gc"
)

// GCMetrics implements vm.MetricsRecorder.
type GCMetrics struct {
	collections prometheus.Counter
	bytesFreed  prometheus.Counter
	objectsFreed prometheus.Counter
	heapBytes   prometheus.Gauge
	nextGCBytes prometheus.Gauge
}

// NewGCMetrics registers loxvm's collector gauges/counters on reg and
// returns a recorder ready to pass as vm.Config.Metrics.
func NewGCMetrics(reg prometheus.Registerer) *GCMetrics {
	m := &GCMetrics{
		collections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "loxvm",
			Subsystem: "gc",
			Name:      "collections_total",
			Help:      "Total number of mark-sweep collection cycles run.",
		}),
		bytesFreed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "loxvm",
			Subsystem: "gc",
			Name:      "bytes_freed_total",
			Help:      "Total simulated bytes reclaimed across all collections.",
		}),
		objectsFreed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "loxvm",
			Subsystem: "gc",
			Name:      "objects_freed_total",
			Help:      "Total heap objects swept across all collections.",
		}),
		heapBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "loxvm",
			Subsystem: "gc",
			Name:      "heap_bytes",
			Help:      "Simulated bytesAllocated after the most recent collection.",
		}),
		nextGCBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "loxvm",
			Subsystem: "gc",
			Name:      "next_gc_bytes",
			Help:      "Threshold that will trigger the next collection.",
		}),
	}
	reg.MustRegister(m.collections, m.bytesFreed, m.objectsFreed, m.heapBytes, m.nextGCBytes)
	return m
}

// ObserveCollection implements vm.MetricsRecorder.
func (m *GCMetrics) ObserveCollection(s gc.Stats) {
	m.collections.Inc()
	if s.BytesBefore > s.BytesAfter {
		m.bytesFreed.Add(float64(s.BytesBefore - s.BytesAfter))
	}
	m.objectsFreed.Add(float64(s.Swept))
	m.heapBytes.Set(float64(s.BytesAfter))
	m.nextGCBytes.Set(float64(s.NextGC))
}
