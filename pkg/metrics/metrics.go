// Package metrics exports stream scanning counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "streams"

// Label names.
const (
	LabelDriver  = "driver"
	LabelOutcome = "outcome"
)

var (
	SourceBytesCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "source",
		Name:      "bytes_total",
		Help:      "Bytes read from sources.",
	})

	SourceDroppedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "source",
		Name:      "dropped_total",
		Help:      "Bytes dropped because the receive buffer was full.",
	})

	ScanCountVec = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scan_total",
		Help:      "Scans by outcome.",
	}, []string{LabelDriver, LabelOutcome})

	ScanDiscardedBytesVec = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scan_discarded_bytes_total",
		Help:      "Bytes discarded while resynchronizing.",
	}, []string{LabelDriver})

	ChunkRejectedVec = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chunk_rejected_total",
		Help:      "Matched chunks the chunk store could not hold.",
	}, []string{LabelDriver})
)

// Collectors returns every collector of this package.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		SourceBytesCounter,
		SourceDroppedCounter,
		ScanCountVec,
		ScanDiscardedBytesVec,
		ChunkRejectedVec,
	}
}

// Register registers all collectors with reg.
func Register(reg prometheus.Registerer) error {
	for _, c := range Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
