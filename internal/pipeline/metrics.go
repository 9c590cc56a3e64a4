// Package pipeline implements pipeline metrics.
package pipeline

import (
	"sync/atomic"
)

// Metrics contains the run's record counters.
type Metrics struct {
	Received    atomic.Uint64 // records read from the capture
	Decoded     atomic.Uint64 // records decoded through L2-L4
	Unsupported atomic.Uint64 // skipped: non-Ethernet/non-IPv4
	Malformed   atomic.Uint64 // skipped: header length fields out of bounds
	Truncated   atomic.Uint64 // trailing records lost to truncation
	Written     atomic.Uint64 // rows appended to the sink
}

// Stats is a point-in-time copy of the counters.
type Stats struct {
	Received    uint64
	Decoded     uint64
	Unsupported uint64
	Malformed   uint64
	Truncated   uint64
	Written     uint64
}

// Snapshot copies the current counter values.
func (m *Metrics) Snapshot() Stats {
	return Stats{
		Received:    m.Received.Load(),
		Decoded:     m.Decoded.Load(),
		Unsupported: m.Unsupported.Load(),
		Malformed:   m.Malformed.Load(),
		Truncated:   m.Truncated.Load(),
		Written:     m.Written.Load(),
	}
}

// Skipped is the number of records that produced no row.
func (s Stats) Skipped() uint64 {
	return s.Unsupported + s.Malformed
}
