// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Calorimet Oy

package lignite

import (
	"fmt"
	"time"
)

// Statistics tracks decode results and error rates for a link.
type Statistics struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	TotalReads   uint64
	ValidPackets uint64
	CRCErrors    uint64
	StopErrors   uint64
	MemoryErrors uint64
	HardErrors   uint64
	Timeouts     uint64

	// Rates (calculated)
	PacketRate float64 // packets/sec
	ErrorRate  float64 // errors/sec
}

// NewStatistics creates a new statistics tracker.
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// Observe updates the counters for one read or process result.
func (s *Statistics) Observe(res Result) {
	s.TotalReads++
	switch res {
	case ResValid:
		s.ValidPackets++
	case ResErrCRC:
		s.CRCErrors++
	case ResErrStop:
		s.StopErrors++
	case ResErrMem:
		s.MemoryErrors++
	case ResErr:
		s.HardErrors++
	}
	s.LastUpdateTime = time.Now()
}

// ObserveEvent updates the counters for a protocol event. Only the watchdog
// timeout is counted; everything else is visible through Observe.
func (s *Statistics) ObserveEvent(evt Event) {
	if evt == EvtTimeout {
		s.Timeouts++
		s.LastUpdateTime = time.Now()
	}
}

// Errors returns the total number of frame-scoped errors seen so far.
func (s *Statistics) Errors() uint64 {
	return s.CRCErrors + s.StopErrors + s.MemoryErrors + s.HardErrors + s.Timeouts
}

// CalculateRates recalculates the packet and error rates over the tracker's
// lifetime.
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed <= 0 {
		return
	}
	s.PacketRate = float64(s.ValidPackets) / elapsed
	s.ErrorRate = float64(s.Errors()) / elapsed
}

// Summary returns a one-line human-readable snapshot.
func (s *Statistics) Summary() string {
	s.CalculateRates()
	return fmt.Sprintf("valid=%d crc=%d stop=%d mem=%d timeout=%d (%.1f pkt/s, %.2f err/s)",
		s.ValidPackets, s.CRCErrors, s.StopErrors, s.MemoryErrors, s.Timeouts,
		s.PacketRate, s.ErrorRate)
}
