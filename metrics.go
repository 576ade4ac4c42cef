package mtklog

import (
	"sync/atomic"
	"time"

	"github.com/mtklog/btq1300st/internal/interfaces"
)

// LatencyBuckets defines the latency histogram buckets in nanoseconds,
// covering from 1us (a fast chunk ack) to 10s (a slow flash read), the
// same log-spaced bucket set the teacher uses for device I/O latency.
var LatencyBuckets = []uint64{
	1_000,          // 1us
	10_000,         // 10us
	100_000,        // 100us
	1_000_000,      // 1ms
	10_000_000,     // 10ms
	100_000_000,    // 100ms
	1_000_000_000,  // 1s
	10_000_000_000, // 10s
}

const numLatencyBuckets = 8

// Metrics tracks operational statistics for a download/decode session:
// chunk I/O against the device, per-record decode outcomes, and
// per-sector scan latency.
type Metrics struct {
	ChunkReads  atomic.Uint64
	ChunkBytes  atomic.Uint64
	ChunkErrors atomic.Uint64

	RecordsDecoded   atomic.Uint64
	RecordErrors     atomic.Uint64
	SectorsScanned   atomic.Uint64
	SectorLatencyNs  atomic.Uint64

	TotalLatencyNs atomic.Uint64
	OpCount        atomic.Uint64

	LatencyBuckets [numLatencyBuckets]atomic.Uint64

	StartTime atomic.Int64
	StopTime  atomic.Int64
}

// NewMetrics creates a zeroed metrics instance with its start time set.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.StartTime.Store(time.Now().UnixNano())
	return m
}

// RecordChunkRead records one PMTK182,7 chunk read.
func (m *Metrics) RecordChunkRead(bytes uint64, latencyNs uint64, success bool) {
	m.ChunkReads.Add(1)
	if success {
		m.ChunkBytes.Add(bytes)
	} else {
		m.ChunkErrors.Add(1)
	}
	m.recordLatency(latencyNs)
}

// RecordRecordDecoded records the outcome of decoding one record.
func (m *Metrics) RecordRecordDecoded(success bool) {
	if success {
		m.RecordsDecoded.Add(1)
	} else {
		m.RecordErrors.Add(1)
	}
}

// RecordSectorScanned records the time taken to walk one sector.
func (m *Metrics) RecordSectorScanned(latencyNs uint64) {
	m.SectorsScanned.Add(1)
	m.SectorLatencyNs.Add(latencyNs)
}

func (m *Metrics) recordLatency(latencyNs uint64) {
	m.TotalLatencyNs.Add(latencyNs)
	m.OpCount.Add(1)
	for i, bucket := range LatencyBuckets {
		if latencyNs <= bucket {
			m.LatencyBuckets[i].Add(1)
		}
	}
}

// Stop marks the session as finished, fixing Snapshot's uptime
// calculation.
func (m *Metrics) Stop() {
	m.StopTime.Store(time.Now().UnixNano())
}

// MetricsSnapshot is a point-in-time copy of Metrics' counters plus a
// handful of derived rates.
type MetricsSnapshot struct {
	ChunkReads  uint64
	ChunkBytes  uint64
	ChunkErrors uint64

	RecordsDecoded uint64
	RecordErrors   uint64
	SectorsScanned uint64

	AvgChunkLatencyNs   uint64
	AvgSectorLatencyNs  uint64
	UptimeNs            uint64
	ChunkBandwidthBytes float64 // bytes/sec
	RecordErrorRate     float64 // percentage
}

// Snapshot returns a point-in-time snapshot of the metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		ChunkReads:     m.ChunkReads.Load(),
		ChunkBytes:     m.ChunkBytes.Load(),
		ChunkErrors:    m.ChunkErrors.Load(),
		RecordsDecoded: m.RecordsDecoded.Load(),
		RecordErrors:   m.RecordErrors.Load(),
		SectorsScanned: m.SectorsScanned.Load(),
	}

	opCount := m.OpCount.Load()
	if opCount > 0 {
		snap.AvgChunkLatencyNs = m.TotalLatencyNs.Load() / opCount
	}
	if snap.SectorsScanned > 0 {
		snap.AvgSectorLatencyNs = m.SectorLatencyNs.Load() / snap.SectorsScanned
	}

	startTime := m.StartTime.Load()
	stopTime := m.StopTime.Load()
	if stopTime > 0 {
		snap.UptimeNs = uint64(stopTime - startTime)
	} else {
		snap.UptimeNs = uint64(time.Now().UnixNano() - startTime)
	}
	if snap.UptimeNs > 0 {
		snap.ChunkBandwidthBytes = float64(snap.ChunkBytes) / (float64(snap.UptimeNs) / 1e9)
	}

	totalRecords := snap.RecordsDecoded + snap.RecordErrors
	if totalRecords > 0 {
		snap.RecordErrorRate = float64(snap.RecordErrors) / float64(totalRecords) * 100.0
	}

	return snap
}

// Reset zeroes all counters and restarts the uptime clock. Useful for
// testing and for reusing one Metrics instance across multiple downloads.
func (m *Metrics) Reset() {
	m.ChunkReads.Store(0)
	m.ChunkBytes.Store(0)
	m.ChunkErrors.Store(0)
	m.RecordsDecoded.Store(0)
	m.RecordErrors.Store(0)
	m.SectorsScanned.Store(0)
	m.SectorLatencyNs.Store(0)
	m.TotalLatencyNs.Store(0)
	m.OpCount.Store(0)
	for i := 0; i < numLatencyBuckets; i++ {
		m.LatencyBuckets[i].Store(0)
	}
	m.StartTime.Store(time.Now().UnixNano())
	m.StopTime.Store(0)
}

// MetricsObserver implements internal/interfaces.Observer by recording
// into a Metrics instance.
type MetricsObserver struct {
	metrics *Metrics
}

// NewMetricsObserver builds an observer that records into m.
func NewMetricsObserver(m *Metrics) *MetricsObserver {
	return &MetricsObserver{metrics: m}
}

func (o *MetricsObserver) ObserveChunkRead(bytes uint64, latencyNs uint64, success bool) {
	o.metrics.RecordChunkRead(bytes, latencyNs, success)
}

func (o *MetricsObserver) ObserveRecordDecoded(success bool) {
	o.metrics.RecordRecordDecoded(success)
}

func (o *MetricsObserver) ObserveSectorScanned(latencyNs uint64) {
	o.metrics.RecordSectorScanned(latencyNs)
}

// NoOpObserver discards every observation; used when the caller doesn't
// want metrics collection overhead.
type NoOpObserver struct{}

func (NoOpObserver) ObserveChunkRead(uint64, uint64, bool) {}
func (NoOpObserver) ObserveRecordDecoded(bool)             {}
func (NoOpObserver) ObserveSectorScanned(uint64)           {}

var (
	_ interfaces.Observer = (*MetricsObserver)(nil)
	_ interfaces.Observer = NoOpObserver{}
)
